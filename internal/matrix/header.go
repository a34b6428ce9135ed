package matrix

import (
	"regexp"
	"strings"
)

// ---------------------- Localização de colunas ----------------------

// FindColumn localiza uma coluna por substring (case-insensitive). Retorna -1
// quando não encontrada.
func FindColumn(header []any, name string) int {
	target := strings.ToLower(name)
	for c, h := range header {
		s := strings.ToLower(strings.TrimSpace(CellString(h)))
		if strings.Contains(s, target) {
			return c
		}
	}
	return -1
}

// FindColumnExact localiza uma coluna por igualdade exata (após trim).
func FindColumnExact(header []any, name string) int {
	for c, h := range header {
		if !IsEmptyCell(h) && strings.TrimSpace(CellString(h)) == name {
			return c
		}
	}
	return -1
}

// FindColMulti tenta cada nome por substring e devolve o primeiro índice
// encontrado; se nenhum casar, devolve o índice posicional de fallback.
func FindColMulti(header []any, names []string, fallback int) int {
	for _, name := range names {
		if idx := FindColumn(header, name); idx >= 0 {
			return idx
		}
	}
	return fallback
}

// ---------------------- Detecção de cabeçalho ----------------------

// Colunas comuns em planilhas SIGEF.
var defaultHeaderColumns = []string{
	"Data", "Valor", "Empenho", "Credor", "CPF/CNPJ", "CNPJ/CPF",
	"Unidade Gestora", "Unidade Orçamentária", "Detalhamento",
	"Valor (R$)", "Valor(R$)", "Nr Empenho", "Nº Empenho",
	"Data de Emissão", "Data Emissão", "Data do Empenho",
}

// DetectHeaderRow procura a linha de cabeçalho nas primeiras 10 linhas: uma
// linha com 3 ou mais colunas conhecidas, ou (fora da linha 0) com 5 ou mais
// células não-vazias. Sem candidata, assume a linha 0.
func DetectHeaderRow(m Matrix, expectedColumns []string) int {
	if len(m) == 0 {
		return 0
	}
	common := expectedColumns
	if common == nil {
		common = defaultHeaderColumns
	}
	maxLines := len(m)
	if maxLines > 10 {
		maxLines = 10
	}
	for rowIdx := 0; rowIdx < maxLines; rowIdx++ {
		matchCount := 0
		totalNonEmpty := 0
		for _, cell := range m[rowIdx] {
			if IsEmptyCell(cell) {
				continue
			}
			totalNonEmpty++
			cellStr := strings.ToLower(strings.TrimSpace(CellString(cell)))
			for _, expected := range common {
				exp := strings.ToLower(expected)
				if strings.Contains(cellStr, exp) || strings.Contains(exp, cellStr) {
					matchCount++
					break
				}
			}
		}
		if matchCount >= 3 || (totalNonEmpty >= 5 && rowIdx > 0) {
			return rowIdx
		}
	}
	return 0
}

// ---------------------- Nr emp. + ano ----------------------

var reYearSuffix = regexp.MustCompile(`/\d{4}`)
var reYearAtEnd = regexp.MustCompile(`/(\d{4})$`)
var reYearAtStart = regexp.MustCompile(`^(\d{4})-`)

// FormatNrEmpWithYear anexa "/ANO" ao número do empenho usando o ano da
// coluna Data ("235" com Data "15/01/2025" vira "235/2025"). Valores que já
// contêm "/AAAA" não são alterados.
func FormatNrEmpWithYear(m Matrix, colNrEmp, colData, startRow int) {
	if colNrEmp < 0 || colData < 0 {
		return
	}
	for r := startRow; r < len(m); r++ {
		nrEmp := SafeGet(m, r, colNrEmp)
		data := SafeGet(m, r, colData)
		if IsEmptyCell(nrEmp) || IsEmptyCell(data) {
			continue
		}
		nrStr := strings.TrimSpace(CellString(nrEmp))
		if nrStr == "" || reYearSuffix.MatchString(nrStr) {
			continue
		}
		dataStr := strings.TrimSpace(CellString(data))
		ano := ""
		if mEnd := reYearAtEnd.FindStringSubmatch(dataStr); mEnd != nil {
			ano = mEnd[1]
		} else if mStart := reYearAtStart.FindStringSubmatch(dataStr); mStart != nil {
			ano = mStart[1]
		}
		if ano != "" {
			SafeSet(&m, r, colNrEmp, nrStr+"/"+ano)
		}
	}
}
