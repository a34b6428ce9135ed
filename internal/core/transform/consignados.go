package transform

import (
	"fmt"
	"strings"

	"github.com/cebdast/SEGIF-CARUARU/internal/matrix"
	"github.com/cebdast/SEGIF-CARUARU/internal/workbook"
)

// Consignados transforma o relatório analítico de Empenhos
// Retidos/Consignados por data de movimento: separa as colunas mistas
// (Espécie/Doc fiscal e Despesa/Tipo retenção), propaga os dados do empenho
// para as linhas de detalhe e deriva "Valor Retido (R$)" com o sinal do
// empenho.
func Consignados(sheets []workbook.Sheet) (*Result, error) {
	m := matrix.NormalizeMatrix(matrix.Clone(sheets[0].Data))
	if len(m) < 4 {
		return nil, fmt.Errorf("planilha com dados insuficientes")
	}
	maxC := len(m[0])
	linhasOriginal := len(m)

	t := newTable(m)
	t.annotateUnidadeSplit(0)

	// Deletar título ("Valores em R$")
	t.dropRows(0, 1)

	// Colunas originais: 0=Data, 1=Nr emp., 2=Espécie, 3=Unid.orç, 4=Despesa,
	// 5=Fonte, 6=Beneficiário, 7="", 8=Valor, 9=""
	if v := matrix.SafeGet(t.m, 0, 6); !matrix.IsEmptyCell(v) &&
		strings.Contains(strings.ToLower(matrix.CellString(v)), "benefici") {
		t.m[0][6] = "Credor/Fornecedor"
	}

	// Filtrar marcadores, sub-cabeçalhos, totais e vazias
	t.filter(func(r int, row []any, meta rowMeta) bool {
		if r == 0 {
			return true
		}
		if meta.marker {
			return false
		}
		if s, ok := matrix.SafeGet(t.m, r, 2).(string); ok &&
			strings.ToLower(strings.TrimSpace(s)) == "documento fiscal" {
			return false
		}
		if s, ok := matrix.SafeGet(t.m, r, 0).(string); ok {
			l0 := strings.ToLower(strings.TrimSpace(s))
			if strings.Contains(l0, "total da unidade gestora") || strings.Contains(l0, "total geral") {
				return false
			}
		}
		return rowHasContent(row)
	})

	// Separar colunas mistas ANTES do fill-down: linhas de detalhe (Nr emp.
	// vazio) têm Doc fiscal na col 2 e Tipo retenção na col 4
	colDocFiscal := maxC
	colTipoRet := maxC + 1
	for r := range t.m {
		for len(t.m[r]) <= colTipoRet {
			t.m[r] = append(t.m[r], nil)
		}
	}
	t.m[0][colDocFiscal] = "Doc/nota fiscal"
	t.m[0][colTipoRet] = "Tipo retenção"

	valorEmpenhoAtual := 0.0
	for r := 1; r < len(t.m); r++ {
		isDetalhe := matrix.IsEmptyCell(t.m[r][1])
		if !isDetalhe {
			valorEmpenhoAtual = matrix.ParseBRFloat(t.m[r][8])
		} else {
			t.m[r][colDocFiscal] = t.m[r][2]
			t.m[r][colTipoRet] = t.m[r][4]
			t.m[r][2] = nil
			t.m[r][4] = nil
		}
		t.meta[r].valorEmp = valorEmpenhoAtual
	}

	// Doc/nota fiscal está 1 linha abaixo do empenho: subir e propagar
	for r := 1; r < len(t.m)-1; r++ {
		t.m[r][colDocFiscal] = t.m[r+1][colDocFiscal]
	}
	t.m[len(t.m)-1][colDocFiscal] = nil
	matrix.FillDown(t.m, colDocFiscal, 1)

	// Fill-down nas colunas-chave (Valor fica só na linha do empenho)
	for _, c := range []int{0, 1, 2, 3, 4, 5, 6} {
		matrix.FillDown(t.m, c, 1)
	}

	// "Valor formula": retido com o sinal do valor do empenho
	colValorFormula := len(t.m[0])
	for r := range t.m {
		t.m[r] = append(t.m[r], nil)
	}
	t.m[0][colValorFormula] = "Valor formula"
	for r := 1; r < len(t.m); r++ {
		valRetido := t.m[r][7]
		if matrix.IsEmptyCell(valRetido) {
			continue
		}
		numRetido := matrix.ParseBRFloat(valRetido)
		if numRetido < 0 {
			numRetido = -numRetido
		}
		if t.meta[r].valorEmp < 0 {
			numRetido = -numRetido
		}
		t.m[r][colValorFormula] = numRetido
	}

	// Excluir colunas 9 (vazia), 8 (Valor) e 7 (Valor Retido/Consignado)
	matrix.DeleteColumns(t.m, []int{9, 8, 7})
	colDocFiscal -= 3
	colTipoRet -= 3
	colValorFormula -= 3
	t.m[0][colValorFormula] = "Valor Retido (R$)"

	// Só linhas de detalhe (com Tipo retenção) interessam
	t.filter(func(r int, row []any, meta rowMeta) bool {
		return r == 0 || !matrix.IsEmptyCell(matrix.SafeGet(t.m, r, colTipoRet))
	})

	// Datas e Nr emp./ANO
	for r := 1; r < len(t.m); r++ {
		if !matrix.IsEmptyCell(t.m[r][0]) {
			t.m[r][0] = matrix.ExcelDateToString(t.m[r][0])
		}
	}
	matrix.FormatNrEmpWithYear(t.m, 1, 0, 1)

	// Coluna "Unidade gestora" na posição 1
	t.insertUnidadeColumn(1)

	return &Result{
		Matrix: t.m,
		Sheets: []workbook.OutputSheet{{Name: "Consignados", Data: t.m}},
		Stats:  stats(linhasOriginal-1, len(t.m)-1),
	}, nil
}
