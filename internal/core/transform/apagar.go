package transform

import (
	"fmt"
	"strings"

	"github.com/cebdast/SEGIF-CARUARU/internal/matrix"
	"github.com/cebdast/SEGIF-CARUARU/internal/workbook"
)

var aPagarDateKeywords = []string{"data", "date", "dt", "emissao", "vencimento"}

// APagar transforma o relatório de Empenhos a Pagar: filtra pelas linhas com
// "Av. liquid." preenchida, limpa colunas vazias, corta a chave em 7
// caracteres (renomeada para "Seq. Liq.") e propaga as datas.
func APagar(sheets []workbook.Sheet) (*Result, error) {
	m := sheets[0].Data
	if len(m) < 2 {
		return nil, fmt.Errorf("planilha vazia ou sem dados")
	}
	header := m[0]

	t := newTable(m)
	t.annotateUnidadeSplit(1)

	colAv := matrix.FindColumn(header, "av. liquid")
	if colAv == -1 {
		return nil, fmt.Errorf("coluna \"Av. liquid.\" não encontrada; colunas: %s", joinHeader(header))
	}

	linhasAntes := len(t.m) - 1

	// Manter apenas linhas com Av. liquid. preenchida, fora marcadoras
	t.filter(func(r int, row []any, meta rowMeta) bool {
		if r == 0 {
			return true
		}
		if meta.marker {
			return false
		}
		return !matrix.IsEmptyCell(matrix.SafeGet(t.m, r, colAv))
	})

	// Remover colunas completamente vazias (anotações ficam nas linhas)
	t.m = matrix.RemoveEmptyColumns(t.m)

	// Recalcular posição após remoção de colunas
	colAv = matrix.FindColumn(t.m[0], "av. liquid")

	// Cortar Av. liquid. para os 7 primeiros caracteres
	if colAv >= 0 {
		for r := 1; r < len(t.m); r++ {
			val := matrix.SafeGet(t.m, r, colAv)
			if !matrix.IsEmptyCell(val) {
				s := matrix.CellString(val)
				if len(s) > 7 {
					s = s[:7]
				}
				matrix.SafeSet(&t.m, r, colAv, s)
			}
		}
	}

	// Fill-down nas colunas de data (por nome normalizado)
	newHeader := t.m[0]
	var dateCols []int
	for c := range newHeader {
		nome := matrix.NormalizeText(newHeader[c])
		for _, k := range aPagarDateKeywords {
			if strings.Contains(nome, k) {
				dateCols = append(dateCols, c)
				break
			}
		}
	}
	if len(dateCols) > 0 {
		for _, c := range dateCols {
			matrix.FillDown(t.m, c, 1)
		}
	} else {
		colData := matrix.FindColumn(newHeader, "Data")
		if colData < 0 {
			colData = 0
		}
		matrix.FillDown(t.m, colData, 1)
	}

	// Converter "Data" para DD/MM/AAAA
	colDataFmt := matrix.FindColumn(newHeader, "Data")
	if colDataFmt >= 0 {
		for r := 1; r < len(t.m); r++ {
			val := matrix.SafeGet(t.m, r, colDataFmt)
			if !matrix.IsEmptyCell(val) {
				matrix.SafeSet(&t.m, r, colDataFmt, matrix.ExcelDateToString(val))
			}
		}
	}

	// Nr emp. → adicionar /ANO extraído da Data
	matrix.FormatNrEmpWithYear(t.m, matrix.FindColumn(newHeader, "nr emp"), colDataFmt, 1)

	// Renomear "Av. liquid." → "Seq. Liq." para padronização
	if colAvLiq := matrix.FindColumn(t.m[0], "Av. liquid"); colAvLiq >= 0 {
		t.m[0][colAvLiq] = "Seq. Liq."
	}

	// Coluna "Unidade gestora" na posição 1
	t.insertUnidadeColumn(1)

	return &Result{
		Matrix: t.m,
		Sheets: []workbook.OutputSheet{{Name: "Sheet1", Data: t.m}},
		Stats:  stats(linhasAntes, len(t.m)-1),
	}, nil
}
