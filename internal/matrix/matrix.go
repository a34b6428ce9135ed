// Package matrix implementa a matriz tabular usada por todo o pipeline SEGIF:
// linhas de células heterogêneas (string | float64 | nil) com utilitários de
// reparo estrutural (normalização retangular, fill-down, remoção de linhas e
// colunas vazias) e acesso seguro.
package matrix

import (
	"strconv"
	"strings"
)

// Matrix é uma sequência ordenada de linhas; a linha 0 é, por convenção, o
// cabeçalho. Células valem string, float64 ou nil.
type Matrix [][]any

// IsEmptyCell verifica se uma célula está vazia (nil ou string em branco).
func IsEmptyCell(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// CellString converte qualquer célula para texto (nil vira "").
func CellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		if t {
			return "TRUE"
		}
		return "FALSE"
	default:
		return ""
	}
}

// ExtractDigits extrai apenas os dígitos de um texto.
func ExtractDigits(v any) string {
	if IsEmptyCell(v) {
		return ""
	}
	var b strings.Builder
	for _, r := range CellString(v) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SafeGet retorna a célula (r,c) ou nil quando fora dos limites.
func SafeGet(m Matrix, r, c int) any {
	if r < 0 || r >= len(m) {
		return nil
	}
	row := m[r]
	if c < 0 || c >= len(row) {
		return nil
	}
	return row[c]
}

// SafeSet escreve em (r,c), estendendo a matriz/linha se necessário.
func SafeSet(m *Matrix, r, c int, val any) {
	if r < 0 || c < 0 {
		return
	}
	for len(*m) <= r {
		*m = append(*m, []any{})
	}
	row := (*m)[r]
	for len(row) <= c {
		row = append(row, nil)
	}
	row[c] = val
	(*m)[r] = row
}

// NormalizeMatrix garante que a matriz é retangular, preenchendo com nil até
// o comprimento máximo observado. Nunca trunca.
func NormalizeMatrix(m Matrix) Matrix {
	maxCols := 0
	for _, row := range m {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}
	for i, row := range m {
		for len(row) < maxCols {
			row = append(row, nil)
		}
		m[i] = row
	}
	return m
}

// FillDown propaga o último valor não-vazio da coluna para baixo a partir de
// startRow (valores em linhas acima de startRow apenas semeiam o "último
// valor"). Implementa a propagação de rótulos hierárquicos dos relatórios
// SIGEF (ex: Data impressa uma vez por bloco).
func FillDown(m Matrix, colIndex, startRow int) {
	var lastValue any
	for r := 0; r < len(m); r++ {
		row := m[r]
		if r < startRow {
			if colIndex < len(row) {
				lastValue = row[colIndex]
			}
			continue
		}
		if colIndex < len(row) && !IsEmptyCell(row[colIndex]) {
			lastValue = row[colIndex]
		} else {
			SafeSet(&m, r, colIndex, lastValue)
		}
	}
}

// RemoveEmptyRows remove linhas completamente vazias a partir de startRow.
func RemoveEmptyRows(m Matrix, startRow int) Matrix {
	result := make(Matrix, 0, len(m))
	for r, row := range m {
		if r < startRow {
			result = append(result, row)
			continue
		}
		empty := true
		for _, v := range row {
			if !IsEmptyCell(v) {
				empty = false
				break
			}
		}
		if !empty {
			result = append(result, row)
		}
	}
	return result
}

// RemoveEmptyColumns remove colunas sem nenhum dado (o cabeçalho é ignorado
// na verificação).
func RemoveEmptyColumns(m Matrix) Matrix {
	if len(m) == 0 {
		return m
	}
	maxCols := 0
	for _, row := range m {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}
	var keep []int
	for c := 0; c < maxCols; c++ {
		for r := 1; r < len(m); r++ {
			if c < len(m[r]) && !IsEmptyCell(m[r][c]) {
				keep = append(keep, c)
				break
			}
		}
	}
	result := make(Matrix, len(m))
	for r, row := range m {
		newRow := make([]any, len(keep))
		for i, c := range keep {
			if c < len(row) {
				newRow[i] = row[c]
			}
		}
		result[r] = newRow
	}
	return result
}

// DeleteColumn remove uma coluna da matriz.
func DeleteColumn(m Matrix, colIndex int) {
	for i, row := range m {
		if colIndex >= 0 && colIndex < len(row) {
			m[i] = append(row[:colIndex], row[colIndex+1:]...)
		}
	}
}

// DeleteColumns remove múltiplas colunas (em ordem decrescente para manter
// os índices corretos).
func DeleteColumns(m Matrix, colIndices []int) {
	sorted := append([]int(nil), colIndices...)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j] > sorted[i] {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	for _, idx := range sorted {
		DeleteColumn(m, idx)
	}
}

// InsertColumn insere uma coluna vazia na posição indicada.
func InsertColumn(m Matrix, colIndex int) {
	for i, row := range m {
		for len(row) < colIndex {
			row = append(row, nil)
		}
		row = append(row, nil)
		copy(row[colIndex+1:], row[colIndex:])
		row[colIndex] = nil
		m[i] = row
	}
}

// KeepColumns mantém apenas as colunas cujos nomes estão na lista, na ordem
// da lista (comparação exata, case-insensitive).
func KeepColumns(m Matrix, headerRow []any, keepNames []string) Matrix {
	var indices []int
	for _, name := range keepNames {
		want := strings.ToLower(strings.TrimSpace(name))
		for c, h := range headerRow {
			if strings.ToLower(strings.TrimSpace(CellString(h))) == want {
				dup := false
				for _, seen := range indices {
					if seen == c {
						dup = true
						break
					}
				}
				if !dup {
					indices = append(indices, c)
				}
				break
			}
		}
	}
	result := make(Matrix, len(m))
	for r, row := range m {
		newRow := make([]any, len(indices))
		for i, c := range indices {
			if c < len(row) {
				newRow[i] = row[c]
			}
		}
		result[r] = newRow
	}
	return result
}

// Clone devolve uma cópia profunda da matriz (linhas independentes).
func Clone(m Matrix) Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = append([]any(nil), row...)
	}
	return out
}
