package transform

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cebdast/SEGIF-CARUARU/internal/matrix"
	"github.com/cebdast/SEGIF-CARUARU/internal/workbook"
)

// Cabeçalho final do relatório de retidos (12 colunas).
var retidosNovoCabecalho = []string{
	"Data", "Retenção", "Sequência", "Seq. Liq.", "Fonte recursos",
	"Nr emp.", "Credor/Fornecedor", "CNPJ",
	"Valor retido", "Doc. fiscal", "Doc.extra", "Valor",
}

var (
	reRetInvalidChars = regexp.MustCompile(`[:\\/\?\*\[\]]`)
	reRetISO          = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
	reRetWS           = regexp.MustCompile(`[\r\n\t]+`)
)

func retNomeAba(txt string) string {
	n := strings.TrimSpace(reRetInvalidChars.ReplaceAllString(txt, "_"))
	if n == "" || strings.EqualFold(n, "nan") {
		n = "RETENCAO"
	}
	if len(n) > 31 {
		n = n[:31]
	}
	return n
}

// parseFloatPrefix interpreta o maior prefixo numérico válido de s
// (sinal, dígitos, no máximo um ponto), ignorando o resto.
func parseFloatPrefix(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	seenDot := false
	seenDigit := false
	for i, r := range s {
		if i == 0 && (r == '-' || r == '+') {
			end = i + 1
			continue
		}
		if r >= '0' && r <= '9' {
			seenDigit = true
			end = i + 1
			continue
		}
		if r == '.' && !seenDot {
			seenDot = true
			end = i + 1
			continue
		}
		break
	}
	if !seenDigit {
		return 0, false
	}
	prefix := strings.TrimSuffix(s[:end], ".")
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func retValorFloat(v any) float64 {
	s := strings.TrimSpace(matrix.CellString(v))
	if s == "" {
		return 0
	}
	if f, ok := v.(float64); ok {
		return f
	}
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	f, _ := parseFloatPrefix(s)
	return f
}

// retConverterNum converte texto numérico em número; conteúdo não numérico
// volta inalterado.
func retConverterNum(v any) any {
	s := strings.TrimSpace(matrix.CellString(v))
	if s == "" {
		return v
	}
	s2 := strings.ReplaceAll(s, ".", ",")
	s2 = strings.ReplaceAll(s2, ",", ".")
	if f, ok := parseFloatPrefix(s2); ok {
		return f
	}
	return v
}

func retNormBusca(v any) string {
	s := matrix.CellString(v)
	s = strings.ReplaceAll(s, " ", " ")
	s = reRetWS.ReplaceAllString(s, " ")
	return strings.ToLower(strings.TrimSpace(s))
}

func retLinhaContem(row []any, termo string) bool {
	for _, v := range row {
		if strings.Contains(retNormBusca(v), termo) {
			return true
		}
	}
	return false
}

func retLinhaVazia(row []any) bool {
	for _, v := range row {
		if retNormBusca(v) != "" {
			return false
		}
	}
	return true
}

func retDateStr(v any) any {
	if f, ok := v.(float64); ok && f > 30000 && f < 70000 {
		return matrix.ExcelDateToString(f)
	}
	if s, ok := v.(string); ok {
		if m := reRetISO.FindStringSubmatch(s); m != nil {
			return m[3] + "/" + m[2] + "/" + m[1]
		}
	}
	return v
}

// retLocalizarColunas localiza as colunas nomeadas no cabeçalho bruto
// (linha 1 do relatório), com fallbacks parciais.
type retCols struct {
	data, sequencia, seqEstor, fonte, nrEmpenho, credor, avLiquid, protocolo, docFiscal, valor int
}

func retLocalizarColunas(rawHeader []any) retCols {
	find := func(names ...string) int {
		for _, n := range names {
			if idx := matrix.FindColumn(rawHeader, n); idx >= 0 {
				return idx
			}
		}
		return -1
	}
	c := retCols{}
	c.data = matrix.FindColumnExact(rawHeader, "Data")
	if c.data < 0 {
		c.data = 0
	}
	c.sequencia = find("Sequência", "Sequ")
	c.seqEstor = find("Seq. estor", "estor")
	c.fonte = find("Fonte recursos", "Fonte")
	c.nrEmpenho = find("empenho")
	c.credor = find("Credor/Fornecedor", "Credor")
	c.avLiquid = find("Av. liquid", "liquid")
	c.protocolo = find("Protocolo")
	c.docFiscal = find("Doc. fiscal", "fiscal")
	c.valor = matrix.FindColumnExact(rawHeader, "Valor")
	return c
}

// Retidos transforma o relatório de Empenhos Retidos/Consignações: repara a
// estrutura intercalada do SIGEF, padroniza para 12 colunas e separa os
// dados por tipo de retenção em múltiplas abas (GERAL, TOTAL, individuais,
// LISTA e Planilha Bruta).
func Retidos(sheets []workbook.Sheet) (*Result, error) {
	rows := matrix.Clone(sheets[0].Data)
	if len(rows) < 3 {
		return nil, fmt.Errorf("planilha com dados insuficientes")
	}

	rawHeader := rows[1]
	loc := retLocalizarColunas(rawHeader)

	// Datas primeiro (a coluna ainda carrega seriais), depois tudo vira texto
	for r := range rows {
		if v := matrix.SafeGet(rows, r, loc.data); v != nil {
			matrix.SafeSet(&rows, r, loc.data, retDateStr(v))
		}
	}
	for r, row := range rows {
		for c, v := range row {
			rows[r][c] = matrix.CellString(v)
		}
	}

	rows = matrix.NormalizeMatrix(rows)
	ncols := len(rows[0])
	linhasOriginal := len(rows)

	copyColIdx := loc.avLiquid
	if copyColIdx < 0 {
		copyColIdx = 14
	}

	// 2 colunas em branco + cópia de "Av. liquid." no final
	for r := range rows {
		extra := any("")
		if copyColIdx < ncols {
			extra = rows[r][copyColIdx]
		}
		rows[r] = append(rows[r], "", "", extra)
	}

	// Remover "total geral"
	kept := rows[:0:0]
	for _, row := range rows {
		if !retLinhaContem(row, "total geral") {
			kept = append(kept, row)
		}
	}
	rows = kept

	// Colunas a manter, computadas dos nomes: o layout SIGEF intercala
	// colunas nomeadas com colunas vazias que carregam dados mesclados
	keepSet := map[int]bool{}
	add := func(idxs ...int) {
		for _, i := range idxs {
			if i >= 0 {
				keepSet[i] = true
			}
		}
	}
	if loc.data >= 0 {
		add(loc.data, loc.data+1)
	}
	add(loc.sequencia, loc.seqEstor, loc.fonte, loc.nrEmpenho)
	if loc.credor >= 0 {
		add(loc.credor, loc.credor+2, loc.credor+3)
	}
	if loc.docFiscal >= 0 {
		add(loc.docFiscal, loc.docFiscal+1)
	}
	if loc.valor >= 0 {
		add(loc.valor, loc.valor+1, loc.valor+2)
	}
	add(ncols, ncols+1, ncols+2)

	totalWidth := len(rows[0])
	var colsExcluir []int
	for c := 0; c < totalWidth; c++ {
		if !keepSet[c] {
			colsExcluir = append(colsExcluir, c)
		}
	}
	matrix.DeleteColumns(rows, colsExcluir)

	// Excluir linhas com termos estruturais (a partir da linha 3)
	termos := []string{"conta contábil", "valor", "doc. extraorçamentário"}
	if len(rows) > 2 {
		filtered := append(matrix.Matrix{}, rows[:2]...)
		for _, row := range rows[2:] {
			contem := false
			for _, termo := range termos {
				if retLinhaContem(row, termo) {
					contem = true
					break
				}
			}
			if !contem {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}

	// Excluir linhas vazias e a linha de título
	kept = rows[:0:0]
	for _, row := range rows {
		if !retLinhaVazia(row) {
			kept = append(kept, row)
		}
	}
	rows = kept
	if len(rows) > 1 {
		rows = rows[1:]
	}

	// Fill-down nas posições pós-exclusão das colunas nomeadas
	keepSorted := make([]int, 0, len(keepSet))
	for c := range keepSet {
		keepSorted = append(keepSorted, c)
	}
	sort.Ints(keepSorted)
	postDelPos := func(origIdx int) int {
		for i, c := range keepSorted {
			if c == origIdx {
				return i
			}
		}
		return -1
	}

	var fillTargets []int
	for _, origIdx := range []int{loc.data, loc.sequencia, loc.fonte, loc.nrEmpenho, loc.credor, loc.docFiscal} {
		if origIdx >= 0 {
			if p := postDelPos(origIdx); p >= 0 {
				fillTargets = append(fillTargets, p)
			}
		}
	}
	lastIdx := len(rows[0]) - 1
	hasLast := false
	for _, p := range fillTargets {
		if p == lastIdx {
			hasLast = true
		}
	}
	if lastIdx >= 0 && !hasLast {
		fillTargets = append(fillTargets, lastIdx)
	}
	for _, ci := range fillTargets {
		lastV := any("")
		for r := range rows {
			v := matrix.SafeGet(rows, r, ci)
			if matrix.CellString(v) == "" {
				matrix.SafeSet(&rows, r, ci, lastV)
			} else {
				lastV = v
			}
		}
	}

	// Trocar "Seq. estor." com a última coluna
	swapIdx := 3
	if loc.seqEstor >= 0 {
		swapIdx = postDelPos(loc.seqEstor)
	}
	if swapIdx >= 0 && len(rows[0]) > swapIdx {
		li := len(rows[0]) - 1
		for r := range rows {
			rows[r][swapIdx], rows[r][li] = rows[r][li], rows[r][swapIdx]
		}
	}

	// Padronizar para 12 colunas e inserir o cabeçalho final
	for r := range rows {
		if len(rows[r]) > len(retidosNovoCabecalho) {
			rows[r] = rows[r][:len(retidosNovoCabecalho)]
		}
		for len(rows[r]) < len(retidosNovoCabecalho) {
			rows[r] = append(rows[r], "")
		}
	}
	headerRow := make([]any, len(retidosNovoCabecalho))
	for i, n := range retidosNovoCabecalho {
		headerRow[i] = n
	}
	rows = append(matrix.Matrix{headerRow}, rows...)

	iVR := 8  // Valor retido
	iV := 11  // Valor
	for r := 1; r < len(rows); r++ {
		rows[r][iVR] = retConverterNum(rows[r][iVR])
		rows[r][iV] = retConverterNum(rows[r][iV])
	}

	dfBruta := matrix.Clone(rows)

	// Separar por tipo de retenção
	retIdx := 1
	header := rows[0]
	var validas, vazias matrix.Matrix
	for _, row := range rows[1:] {
		rt := strings.TrimSpace(matrix.CellString(row[retIdx]))
		if rt == "" || strings.EqualFold(rt, "nan") || strings.EqualFold(rt, "none") {
			vazias = append(vazias, row)
		} else {
			validas = append(validas, row)
		}
	}

	seen := map[string]bool{}
	var tipos []string
	for _, row := range validas {
		rt := strings.TrimSpace(matrix.CellString(row[retIdx]))
		if !seen[rt] {
			seen[rt] = true
			tipos = append(tipos, rt)
		}
	}
	sort.Strings(tipos)

	mGeral := append(matrix.Matrix{header}, validas...)

	outSheets := []workbook.OutputSheet{{Name: "GERAL", Data: mGeral}}
	if len(vazias) > 0 {
		outSheets = append(outSheets, workbook.OutputSheet{
			Name: "TOTAL", Data: append(matrix.Matrix{header}, vazias...),
		})
	}

	listaRows := matrix.Matrix{{"Retenção", "Qtd Linhas", "Soma Geral", "Soma Individuais"}}
	totalQtd, totalGeral := 0, 0.0
	for _, tipo := range tipos {
		var bloco matrix.Matrix
		soma := 0.0
		for _, row := range validas {
			if strings.TrimSpace(matrix.CellString(row[retIdx])) == tipo {
				bloco = append(bloco, row)
				soma += retValorFloat(row[iVR])
			}
		}
		outSheets = append(outSheets, workbook.OutputSheet{
			Name: retNomeAba(tipo), Data: append(matrix.Matrix{header}, bloco...),
		})
		listaRows = append(listaRows, []any{tipo, float64(len(bloco)), soma, soma})
		totalQtd += len(bloco)
		totalGeral += soma
	}
	listaRows = append(listaRows, []any{"TOTAL GERAL", float64(totalQtd), totalGeral, totalGeral})
	outSheets = append(outSheets,
		workbook.OutputSheet{Name: "LISTA", Data: listaRows},
		workbook.OutputSheet{Name: "Planilha Bruta", Data: dfBruta},
	)

	res := &Result{
		Matrix: mGeral,
		Bruta:  dfBruta,
		Sheets: outSheets,
	}
	res.Stats = stats(linhasOriginal-1, len(validas))
	res.Stats.TiposRetencao = len(tipos)
	res.Stats.TotalAbas = len(outSheets)
	return res, nil
}
