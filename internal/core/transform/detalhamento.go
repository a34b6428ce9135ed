package transform

import (
	"fmt"
	"strings"

	"github.com/cebdast/SEGIF-CARUARU/internal/matrix"
	"github.com/cebdast/SEGIF-CARUARU/internal/workbook"
)

var detalhamentoTermosTotal = []string{"total geral", "total da unidade", "total do"}

// Detalhamento transforma o Relatório da Despesa por Natureza Consolidado:
// remove o título, mantém só código e descrição (colunas A e B), descarta
// totais e linhas vazias. A coluna A vira a chave do cruzamento.
func Detalhamento(sheets []workbook.Sheet) (*Result, error) {
	m := sheets[0].Data
	if len(m) < 3 {
		return nil, fmt.Errorf("planilha com dados insuficientes")
	}
	linhasOriginal := len(m)

	// Excluir linha de título do relatório
	m = m[1:]

	// Manter somente código (A) e descrição (B)
	reduced := make(matrix.Matrix, len(m))
	for r := range m {
		reduced[r] = []any{matrix.SafeGet(m, r, 0), matrix.SafeGet(m, r, 1)}
	}

	filtered := matrix.Matrix{reduced[0]}
	for r := 1; r < len(reduced); r++ {
		if !rowIsTotal(reduced[r]) {
			filtered = append(filtered, reduced[r])
		}
	}
	filtered = matrix.RemoveEmptyRows(filtered, 1)

	return &Result{
		Matrix: filtered,
		Sheets: []workbook.OutputSheet{{Name: "Detalhamento", Data: filtered}},
		Stats:  stats(linhasOriginal-1, len(filtered)-1),
	}, nil
}

func rowIsTotal(row []any) bool {
	for _, v := range row {
		if matrix.IsEmptyCell(v) {
			continue
		}
		s := strings.ToLower(strings.TrimSpace(matrix.CellString(v)))
		for _, termo := range detalhamentoTermosTotal {
			if strings.HasPrefix(s, termo) {
				return true
			}
		}
	}
	return false
}
