package transform

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cebdast/SEGIF-CARUARU/internal/matrix"
	"github.com/cebdast/SEGIF-CARUARU/internal/workbook"
)

// ---------------------- extração MEMO/PAD ----------------------

var (
	reEmiNumAno  = regexp.MustCompile(`([0-9][0-9\.\s]*)\s*/\s*(\d{4})`)
	reEmiPadSem  = regexp.MustCompile(`(?i)\b(?:PAD|PA|PAA)\b[^0-9]*([0-9][0-9\.\s]*)`)
	reEmiFirstN  = regexp.MustCompile(`([0-9][0-9\.\s]*)`)
	reEmiPuro    = regexp.MustCompile(`^[0-9][0-9\.]*\s*/\s*\d{4}$`)
	reEmiDesp    = regexp.MustCompile(`(^|[^0-9])\d{2}\.\d{2}($|[^0-9])`)
	reEmiContr   = regexp.MustCompile(`CONTRATO.*PROCESSO\s+ADMINISTRATIVO`)
	reEmiParen   = regexp.MustCompile(`^\(([^)]+)\)`)
	reEmiPadIni  = regexp.MustCompile(`^(PAD|PAA|PA)\b`)
	reEmiPAIni   = regexp.MustCompile(`^PROCESSO\s+ADMINI?STRATIVO\b`)
	reEmiNonWord = regexp.MustCompile(`[^\w]+`)
	reEmiDigits  = regexp.MustCompile(`\D`)
)

func emiLimpar(t string) string { return reEmiDigits.ReplaceAllString(t, "") }

func emiNumComAno(txt string) string {
	m := reEmiNumAno.FindStringSubmatch(txt)
	if m == nil {
		return ""
	}
	n, a := emiLimpar(m[1]), m[2]
	if n == "" || a == "" {
		return ""
	}
	return n + "/" + a
}

func emiNumPadSem(txt string) string {
	m := reEmiPadSem.FindStringSubmatch(txt)
	if m == nil {
		return ""
	}
	return emiLimpar(m[1])
}

// emiEhPrestador aplica a heurística da coluna Despesa: códigos contendo
// ".35" ou ".79" indicam prestador de serviço, exceto quando fazem parte de
// um segmento maior (".35." / ".79.").
func emiEhPrestador(despVal any) bool {
	if despVal == nil {
		return false
	}
	s := matrix.CellString(despVal)
	if strings.TrimSpace(s) == "" {
		return false
	}
	if strings.Contains(s, ".35.") || strings.Contains(s, ".79.") {
		return false
	}
	return strings.Contains(s, ".35") || strings.Contains(s, ".79")
}

var emiMemoFixes = []struct{ re *regexp.Regexp; repl string }{
	{regexp.MustCompile(`MEMORANDO`), "MEMO"},
	{regexp.MustCompile(`\bMOEMORANDO\b`), "MEMO"},
	{regexp.MustCompile(`\bMEO\b`), "MEMO"},
	{regexp.MustCompile(`\bMWMO\b`), "MEMO"},
	{regexp.MustCompile(`\bMEMRANDOO\b`), "MEMO"},
	{regexp.MustCompile(`\bMEMRANDO\b`), "MEMO"},
}

// emiExtrair classifica o texto "Objeto" em (tipo, documento): memo/pad com
// número extraído, prestador/outros pela heurística da Despesa.
func emiExtrair(val, despVal any) (string, string) {
	fallback := func() (string, string) {
		if despVal != nil {
			if emiEhPrestador(despVal) {
				return "prestador", ""
			}
			return "outros", ""
		}
		return "", ""
	}

	if val == nil {
		return fallback()
	}
	s := strings.TrimSpace(matrix.CellString(val))
	if s == "" {
		return fallback()
	}
	if strings.HasPrefix(s, "((") {
		s = "(" + s[2:]
	}

	princ := strings.TrimSpace(s)
	if mp := reEmiParen.FindStringSubmatch(s); mp != nil {
		princ = strings.TrimSpace(mp[1])
	}

	un := strings.TrimSpace(strings.ToUpper(princ))
	for _, fix := range emiMemoFixes {
		un = fix.re.ReplaceAllString(un, fix.repl)
	}

	ui := strings.TrimSpace(reEmiNonWord.ReplaceAllString(un, " "))
	isPad := reEmiPadIni.MatchString(ui)
	isPA := reEmiPAIni.MatchString(ui)
	if isPA && reEmiContr.MatchString(un) {
		isPA = false
	}

	if isPA || isPad {
		df := emiNumComAno(princ)
		no := ""
		if df != "" {
			no = strings.SplitN(df, "/", 2)[0]
		}
		if no == "" {
			no = emiNumPadSem(princ)
		}
		if no != "" && len(no) <= 4 {
			if df != "" {
				return "pad", df
			}
			return "pad", no
		}
		return fallback()
	}

	if strings.Contains(un, "MEMO") || reEmiPuro.MatchString(un) {
		if df := emiNumComAno(princ); df != "" {
			return "memo", df
		}
		if m0 := reEmiFirstN.FindStringSubmatch(princ); m0 != nil {
			return "memo", emiLimpar(m0[1])
		}
		return "memo", ""
	}

	return fallback()
}

// emiDetectDesp encontra a coluna Despesa: pelo nome exato ou, na falta,
// pela coluna com mais valores no padrão NN.NN nas primeiras 200 linhas.
func emiDetectDesp(header []any, body matrix.Matrix) int {
	for c, h := range header {
		if strings.ToLower(strings.TrimSpace(matrix.CellString(h))) == "despesa" {
			return c
		}
	}
	bestCol, bestScore := -1, 0
	maxRows := len(body)
	if maxRows > 200 {
		maxRows = 200
	}
	for c := range header {
		score := 0
		for r := 0; r < maxRows; r++ {
			v := matrix.SafeGet(body, r, c)
			if v == nil {
				continue
			}
			sv := strings.TrimSpace(matrix.CellString(v))
			if sv == "" || strings.Contains(sv, ".35.") || strings.Contains(sv, ".79.") {
				continue
			}
			if strings.Contains(sv, ".35") || strings.Contains(sv, ".79") {
				score += 2
				continue
			}
			if reEmiDesp.MatchString(sv) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestCol = c
		}
	}
	if bestCol >= 0 && bestScore >= 6 {
		return bestCol
	}
	return -1
}

// ---------------------- transformação principal ----------------------

// Emitidos transforma o relatório de Empenhos Emitidos: desloca o texto
// "Objeto" para a linha do empenho, remove as colunas vazias intercaladas,
// formata datas e extrai Tipo/Documento (MEMO/PAD) do histórico.
func Emitidos(sheets []workbook.Sheet) (*Result, error) {
	m := matrix.NormalizeMatrix(sheets[0].Data)
	if len(m) < 2 {
		return nil, fmt.Errorf("planilha vazia ou sem dados")
	}
	linhasOriginal := len(m) - 1

	t := newTable(m)
	t.annotateUnidadeSplit(1)

	// Excluir linha 2 (Unidade Gestora:) quando não é marcadora
	if len(t.m) > 1 && !t.meta[1].marker {
		t.dropRows(1, 1)
	}

	ct := matrix.NewColTracker(t.m[0])

	valorCol, err := ct.Idx("Valor (R$)")
	if err != nil {
		return nil, err
	}
	dataCol, err := ct.Idx("Data")
	if err != nil {
		return nil, err
	}
	especieCol, err := ct.Idx("Espécie")
	if err != nil {
		return nil, err
	}
	nrempCol, err := ct.Idx("Nr emp.")
	if err != nil {
		return nil, err
	}
	credorCol, err := ct.Idx("Credor/Fornecedor")
	if err != nil {
		return nil, err
	}
	fonteCol, err := ct.Idx("Fonte de recursos")
	if err != nil {
		return nil, err
	}

	// Linhas sem credor são texto de "Objeto", não dados: limpar Valor
	for r := 1; r < len(t.m); r++ {
		if matrix.IsEmptyCell(matrix.SafeGet(t.m, r, credorCol)) {
			matrix.SafeSet(&t.m, r, valorCol, nil)
		}
	}

	// Data contendo "Objeto:" é texto vazado de outra coluna
	for r := 1; r < len(t.m); r++ {
		if s, ok := matrix.SafeGet(t.m, r, dataCol).(string); ok && strings.Contains(s, "Objeto:") {
			matrix.SafeSet(&t.m, r, dataCol, nil)
		}
	}

	// Espécie vazia → mover Nr emp. para a coluna-alvo no fim
	maxC := 0
	for _, row := range t.m {
		if len(row) > maxC {
			maxC = len(row)
		}
	}
	tgt := maxC
	for r := 1; r < len(t.m); r++ {
		if matrix.IsEmptyCell(matrix.SafeGet(t.m, r, especieCol)) {
			val := matrix.SafeGet(t.m, r, nrempCol)
			if !matrix.IsEmptyCell(val) {
				matrix.SafeSet(&t.m, r, tgt, val)
				matrix.SafeSet(&t.m, r, nrempCol, nil)
			}
		}
	}

	// Excluir coluna vazia entre "Fonte de recursos" e "Credor/Fornecedor"
	matrix.TrackedDeleteAt(t.m, ct, fonteCol+1)
	objetoCol := tgt - 1

	// Subir a coluna-alvo 1 linha (o Objeto estava na linha de baixo)
	for r := 1; r < len(t.m)-1; r++ {
		matrix.SafeSet(&t.m, r, objetoCol, matrix.SafeGet(t.m, r+1, objetoCol))
	}
	if len(t.m) > 1 {
		matrix.SafeSet(&t.m, len(t.m)-1, objetoCol, nil)
	}

	// Excluir coluna vazia após "Valor (R$)"
	valorIdxNow, err := ct.Idx("Valor (R$)")
	if err != nil {
		return nil, err
	}
	colToDelete := valorIdxNow + 1
	matrix.TrackedDeleteAt(t.m, ct, colToDelete)
	if colToDelete < objetoCol {
		objetoCol--
	}

	// Remover linhas vazias e marcadoras
	t.filter(func(r int, row []any, meta rowMeta) bool {
		if r == 0 {
			return true
		}
		if meta.marker {
			return false
		}
		return rowHasContent(row)
	})

	// Fill-down e formatação da Data
	idxData, err := ct.Idx("Data")
	if err != nil {
		return nil, err
	}
	matrix.FillDown(t.m, idxData, 1)

	despIdx := ct.TryIdx("Despesa")
	if despIdx < 0 {
		despIdx = emiDetectDesp(t.m[0], t.m[1:])
	}

	for r := 1; r < len(t.m); r++ {
		matrix.SafeSet(&t.m, r, idxData, matrix.ExcelDateToString(matrix.SafeGet(t.m, r, idxData)))
	}

	// Nr emp. → adicionar /ANO extraído da Data
	nrEmpIdx, err := ct.Idx("Nr emp.")
	if err != nil {
		return nil, err
	}
	matrix.FormatNrEmpWithYear(t.m, nrEmpIdx, idxData, 1)

	// Extrair Tipo/Documento do texto do Objeto (renomeado para "Hist.Liq")
	matrix.SafeSet(&t.m, 0, objetoCol, "Hist.Liq")

	tipoI := len(t.m[0])
	docI := tipoI + 1
	matrix.SafeSet(&t.m, 0, tipoI, "Tipo")
	matrix.SafeSet(&t.m, 0, docI, "Documento")

	for r := 1; r < len(t.m); r++ {
		var despVal any
		if despIdx >= 0 {
			despVal = matrix.SafeGet(t.m, r, despIdx)
		}
		tipo, doc := emiExtrair(matrix.SafeGet(t.m, r, objetoCol), despVal)
		if tipo != "" {
			matrix.SafeSet(&t.m, r, tipoI, tipo)
		} else {
			matrix.SafeSet(&t.m, r, tipoI, nil)
		}
		if doc != "" {
			matrix.SafeSet(&t.m, r, docI, doc)
		} else {
			matrix.SafeSet(&t.m, r, docI, nil)
		}
	}
	t.m = matrix.NormalizeMatrix(t.m)

	// Coluna "Unidade gestora" na posição 1
	t.insertUnidadeColumn(1)

	return &Result{
		Matrix: t.m,
		Sheets: []workbook.OutputSheet{{Name: sheets[0].Name, Data: t.m}},
		Stats:  stats(linhasOriginal, len(t.m)-1),
	}, nil
}
