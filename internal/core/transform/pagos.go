package transform

import (
	"fmt"
	"strings"

	"github.com/cebdast/SEGIF-CARUARU/internal/matrix"
	"github.com/cebdast/SEGIF-CARUARU/internal/workbook"
)

var pagosTermosTotal = []string{"total do empenho:", "total da unidade gestora:", "total geral"}

// Pagos transforma o relatório de Empenhos Pagos: remove subtítulo e totais,
// propaga a Data, reduz Seq. Liq. a dígitos (máx. 7), formata datas e compõe
// Nr emp. com o ano.
func Pagos(sheets []workbook.Sheet) (*Result, error) {
	m := matrix.NormalizeMatrix(sheets[0].Data)
	if len(m) < 3 {
		return nil, fmt.Errorf("planilha com dados insuficientes")
	}
	linhasOriginal := len(m) - 1

	t := newTable(m)
	t.annotateUnidadeInline(1)

	// Excluir linha 2 (subtítulo do relatório), exceto quando é marcadora
	if len(t.m) >= 2 && !t.meta[1].marker {
		t.dropRows(1, 1)
	}
	t.m = matrix.NormalizeMatrix(t.m)

	// Pular linhas de título acima do cabeçalho
	if headerRowIdx := matrix.DetectHeaderRow(t.m, nil); headerRowIdx > 0 {
		t.dropRows(0, headerRowIdx)
	}

	header := t.m[0]
	colSeqLiq := matrix.FindColumn(header, "seq. liq")

	// Remover totais e linhas marcadoras de unidade gestora
	t.filter(func(r int, row []any, meta rowMeta) bool {
		if r == 0 {
			return true
		}
		if meta.marker {
			return false
		}
		valA := matrix.SafeGet(t.m, r, 0)
		if !matrix.IsEmptyCell(valA) {
			s := strings.ToLower(strings.TrimSpace(matrix.CellString(valA)))
			for _, alvo := range pagosTermosTotal {
				if strings.HasPrefix(s, alvo) {
					return false
				}
			}
		}
		return true
	})

	// Fill-down na coluna Data
	colData := matrix.FindColumn(t.m[0], "data")
	if colData < 0 {
		colData = 2
	}
	matrix.FillDown(t.m, colData, 1)

	// Seq. Liq. → apenas dígitos, máximo 7 caracteres
	if colSeqLiq >= 0 {
		for r := 1; r < len(t.m); r++ {
			val := matrix.SafeGet(t.m, r, colSeqLiq)
			if !matrix.IsEmptyCell(val) {
				digits := matrix.ExtractDigits(val)
				if len(digits) > 7 {
					digits = digits[:7]
				}
				matrix.SafeSet(&t.m, r, colSeqLiq, digits)
			}
		}
	}

	// Formatar Data como DD/MM/AAAA
	for r := 1; r < len(t.m); r++ {
		val := matrix.SafeGet(t.m, r, colData)
		if !matrix.IsEmptyCell(val) {
			matrix.SafeSet(&t.m, r, colData, matrix.ExcelDateToString(val))
		}
	}

	// Remover linhas vazias
	t.filter(func(r int, row []any, meta rowMeta) bool {
		return r == 0 || rowHasContent(row)
	})

	// Nr emp. → adicionar /ANO extraído da Data
	colNrEmp := matrix.FindColumn(t.m[0], "nr emp")
	matrix.FormatNrEmpWithYear(t.m, colNrEmp, matrix.FindColumn(t.m[0], "data"), 1)

	// Coluna "Unidade gestora" na posição 1
	t.insertUnidadeColumn(1)

	return &Result{
		Matrix: t.m,
		Sheets: []workbook.OutputSheet{{Name: sheets[0].Name, Data: t.m}},
		Stats:  stats(linhasOriginal, len(t.m)-1),
	}, nil
}
