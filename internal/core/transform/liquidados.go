package transform

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cebdast/SEGIF-CARUARU/internal/matrix"
	"github.com/cebdast/SEGIF-CARUARU/internal/workbook"
)

var (
	reLiqObjeto  = regexp.MustCompile(`(?i)objeto:`)
	reLiqYearDup = regexp.MustCompile(`/(\d{4})/(\d{4})`)
	reLiqMemoPad = regexp.MustCompile(`(?i)(?:MEMO|PAD)[^0-9]*([0-9\.]+)`)
	reLiqParen   = regexp.MustCompile(`^\(([^)]+)\)`)
	reLiqExtract = regexp.MustCompile(`(?i)(.{0,80}/\d{4})`)
	reLiqAno     = regexp.MustCompile(`/(\d{4})`)
)

// liqFixYearDup colapsa anos duplicados ("/2025/2025" vira "/2025").
func liqFixYearDup(s string) string {
	return reLiqYearDup.ReplaceAllStringFunc(s, func(m string) string {
		g := reLiqYearDup.FindStringSubmatch(m)
		if g[1] == g[2] {
			return "/" + g[1]
		}
		return m
	})
}

// liqProcessarConteudo classifica o histórico de liquidação (coluna Hist.Liq)
// em (texto limpo, categoria, número do documento). Categorias: memo, pad ou
// prestador.
func liqProcessarConteudo(rawL any) (any, any, string) {
	s, ok := rawL.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return nil, nil, ""
	}

	txtL := strings.TrimSpace(s)
	if strings.HasPrefix(txtL, "((") {
		txtL = "(" + txtL[2:]
	}

	principal := txtL
	if mp := reLiqParen.FindStringSubmatch(txtL); mp != nil {
		principal = strings.TrimSpace(mp[1])
	}
	principal = liqFixYearDup(principal)
	up := strings.ToUpper(principal)

	var categoria, texto2 string
	switch {
	case strings.Contains(up, "MEMORANDO") || strings.Contains(up, "MEMO"):
		categoria = "memo"
		texto2 = strings.ReplaceAll(up, "MEMORANDO", "MEMO")
	case strings.Contains(up, "PAD") || strings.Contains(up, "PROCESSO ADMINISTRATIVO"):
		categoria = "pad"
		texto2 = strings.ReplaceAll(up, "PROCESSO ADMINISTRATIVO", "PAD")
	default:
		categoria = "prestador"
		texto2 = principal
	}

	if m2 := reLiqExtract.FindStringSubmatch(texto2); m2 != nil {
		texto2 = m2[1]
	}
	texto2 = strings.NewReplacer(":", "", ")", "", "(", "").Replace(texto2)
	texto2 = liqFixYearDup(strings.TrimSpace(texto2))

	numero := ""
	if categoria == "memo" || categoria == "pad" {
		if m3 := reLiqMemoPad.FindStringSubmatch(texto2); m3 != nil {
			base := strings.ReplaceAll(strings.ReplaceAll(m3[1], ".", ""), " ", "")
			if reLiqAno.MatchString(base) {
				numero = base
			} else if anoOrig := reLiqAno.FindStringSubmatch(texto2); anoOrig != nil {
				numero = base + "/" + anoOrig[1]
			} else {
				numero = base + "/2025"
			}
		}
	}
	return texto2, categoria, numero
}

func liqDateToStr(v any) any {
	if _, ok := v.(float64); ok {
		return matrix.ExcelDateToString(v)
	}
	if s, ok := v.(string); ok && reDateISOPrefix.MatchString(s) {
		p := strings.Split(strings.Split(s, "T")[0], "-")
		return p[2] + "/" + p[1] + "/" + p[0]
	}
	return v
}

var reDateISOPrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

func liqRenameHeader(m matrix.Matrix, old, nw string) {
	if len(m) == 0 {
		return
	}
	lo := matrix.NormalizeText(old)
	for i, h := range m[0] {
		if s, ok := h.(string); ok && matrix.NormalizeText(s) == lo {
			m[0][i] = nw
			break
		}
	}
}

func liqConvertDates(m matrix.Matrix) {
	if len(m) == 0 {
		return
	}
	var dateCols []int
	for c, h := range m[0] {
		if !matrix.IsEmptyCell(h) && strings.Contains(strings.ToLower(matrix.CellString(h)), "data") {
			dateCols = append(dateCols, c)
		}
	}
	for _, c := range dateCols {
		for r := 1; r < len(m); r++ {
			if c < len(m[r]) {
				m[r][c] = liqDateToStr(m[r][c])
			}
		}
	}
	for r := 1; r < len(m); r++ {
		if len(m[r]) > 0 && m[r][0] != nil {
			m[r][0] = liqDateToStr(m[r][0])
		}
	}
}

var liqTermosTotal = []string{"total do dia", "total do mes", "total da unidade gestora", "total geral"}

// Liquidados transforma o relatório de Empenhos Liquidados. Suporta os dois
// formatos históricos do SIGEF: o antigo, com colunas vazias intercaladas que
// exigem a extração auxiliar completa, e o novo, que já traz "Doc/nota
// fiscal" e "Hist.Empenho" nomeadas e pula a extração.
func Liquidados(sheets []workbook.Sheet) (*Result, error) {
	m := matrix.NormalizeMatrix(matrix.Clone(sheets[0].Data))

	// Aparar linhas vazias do fim
	for len(m) > 1 && !rowHasContent(m[len(m)-1]) {
		m = m[:len(m)-1]
	}
	if len(m) < 2 {
		return nil, fmt.Errorf("planilha vazia ou sem dados")
	}
	linhasOriginal := len(m) - 1

	t := newTable(m)
	t.annotateUnidadeSplit(1)

	// Excluir linha 2 (Unidade gestora:)
	if len(t.m) >= 2 {
		t.dropRows(1, 1)
	}

	// Pular linhas de título acima do cabeçalho
	if headerRowIdx := matrix.DetectHeaderRow(t.m, nil); headerRowIdx > 0 {
		t.dropRows(0, headerRowIdx)
	}

	ct := matrix.NewColTracker(t.m[0])

	isNewFormat := ct.TryIdx("Doc/nota fiscal") >= 0 && ct.TryIdx("Hist.Empenho") >= 0

	// Formato antigo: deletar colunas vazias desnecessárias
	if !isNewFormat {
		valorI, err := ct.Idx("Valor (R$)")
		if err != nil {
			return nil, err
		}
		if valorI+1 < ct.Len() && strings.HasPrefix(ct.NameAt(valorI+1), "_empty") {
			matrix.TrackedDeleteAt(t.m, ct, valorI+1)
		}
		benefI, err := ct.IdxOf("Beneficiário", "Credor/Fornecedor")
		if err != nil {
			return nil, err
		}
		valorI2, err := ct.Idx("Valor (R$)")
		if err != nil {
			return nil, err
		}
		for c := valorI2 - 1; c > benefI; c-- {
			if strings.HasPrefix(ct.NameAt(c), "_empty") {
				matrix.TrackedDeleteAt(t.m, ct, c)
				break
			}
		}
	}

	// Remover "Objeto:" vazado na coluna "Nr emp."
	iNrEmp, err := ct.Idx("Nr emp.")
	if err != nil {
		return nil, err
	}
	for r := 0; r < len(t.m); r++ {
		if s, ok := matrix.SafeGet(t.m, r, iNrEmp).(string); ok && reLiqObjeto.MatchString(s) {
			nv := strings.TrimSpace(reLiqObjeto.ReplaceAllString(s, ""))
			if nv == "" {
				matrix.SafeSet(&t.m, r, iNrEmp, nil)
			} else {
				matrix.SafeSet(&t.m, r, iNrEmp, nv)
			}
		}
	}

	// Filtrar: marcadoras, "documento fiscal", totais e vazias
	t.filter(func(r int, row []any, meta rowMeta) bool {
		if r == 0 {
			return true
		}
		if meta.marker {
			return false
		}
		for _, v := range row {
			if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), "documento fiscal") {
				return false
			}
		}
		var parts []string
		for _, v := range row {
			parts = append(parts, matrix.CellString(v))
		}
		txt := matrix.NormalizeText(strings.Join(parts, " "))
		for _, termo := range liqTermosTotal {
			if strings.Contains(txt, termo) {
				return false
			}
		}
		return rowHasContent(row)
	})

	// Fill-down nas colunas nomeadas
	benefName := "Credor/Fornecedor"
	if ct.TryIdx("Beneficiário") >= 0 {
		benefName = "Beneficiário"
	}
	for _, name := range []string{"Data", "Nr emp.", "Espécie", "Unidade orçamentária",
		"Despesa", "Fonte de recursos", benefName} {
		idx, err := ct.Idx(name)
		if err != nil {
			return nil, err
		}
		matrix.FillDown(t.m, idx, 2)
	}

	// Coluna "Unidade gestora" na posição 1
	t.insertUnidadeColumn(1)
	ct.InsertAt(1, "Unidade gestora")

	if !isNewFormat {
		if err := liquidadosExtracaoAntiga(t, ct); err != nil {
			return nil, err
		}
	}

	if isNewFormat {
		return liquidadosFormatoNovo(t, ct, linhasOriginal)
	}
	return liquidadosFormatoAntigo(t, ct, linhasOriginal)
}

// liquidadosExtracaoAntiga executa a extração auxiliar do formato antigo:
// separa Seq. liq., documentos fiscais e históricos espalhados pelas colunas
// vazias em colunas de trabalho nomeadas.
func liquidadosExtracaoAntiga(t *table, ct *matrix.ColTracker) error {
	// Coluna auxiliar antes de "Seq. liq." para os dados extraídos
	seqIdx, err := ct.Idx("Seq. liq.")
	if err != nil {
		return err
	}
	matrix.InsertColumn(t.m, seqIdx)
	ct.InsertAt(seqIdx, "_aux_seq_liq")

	// Valor e Seq.liq. preenchidos → mover Seq.liq. para a auxiliar
	iValor, err := ct.Idx("Valor (R$)")
	if err != nil {
		return err
	}
	iSeq, _ := ct.Idx("Seq. liq.")
	iAux, _ := ct.Idx("_aux_seq_liq")
	for r := 0; r < len(t.m); r++ {
		if !matrix.IsEmptyCell(matrix.SafeGet(t.m, r, iValor)) && !matrix.IsEmptyCell(matrix.SafeGet(t.m, r, iSeq)) {
			matrix.SafeSet(&t.m, r, iAux, matrix.SafeGet(t.m, r, iSeq))
			matrix.SafeSet(&t.m, r, iSeq, nil)
		}
	}

	// Segunda auxiliar para documentos
	seqIdx, _ = ct.Idx("Seq. liq.")
	matrix.InsertColumn(t.m, seqIdx)
	ct.InsertAt(seqIdx, "_aux_doc")

	iEmpty0, err := ct.Idx("_empty_0")
	if err != nil {
		return err
	}
	iSeq, _ = ct.Idx("Seq. liq.")
	iDoc, _ := ct.Idx("_aux_doc")
	for r := 0; r < len(t.m); r++ {
		if !matrix.IsEmptyCell(matrix.SafeGet(t.m, r, iEmpty0)) && !matrix.IsEmptyCell(matrix.SafeGet(t.m, r, iSeq)) {
			matrix.SafeSet(&t.m, r, iDoc, matrix.SafeGet(t.m, r, iSeq))
			matrix.SafeSet(&t.m, r, iSeq, nil)
		}
	}

	// Valor vazio e Seq.liq. preenchido → histórico do empenho
	iValor, _ = ct.Idx("Valor (R$)")
	iSeq, _ = ct.Idx("Seq. liq.")
	iHist := ct.Len()
	ct.InsertAt(iHist, "_work_hist_emp")
	for r := 0; r < len(t.m); r++ {
		if matrix.IsEmptyCell(matrix.SafeGet(t.m, r, iValor)) && !matrix.IsEmptyCell(matrix.SafeGet(t.m, r, iSeq)) {
			matrix.SafeSet(&t.m, r, iHist, matrix.SafeGet(t.m, r, iSeq))
			matrix.SafeSet(&t.m, r, iSeq, nil)
		}
	}

	iAux, _ = ct.Idx("_aux_seq_liq")
	matrix.FillDown(t.m, iAux, 2)

	if err := matrix.TrackedDeleteCol(t.m, ct, "Seq. liq."); err != nil {
		return err
	}

	// _aux_seq_liq: manter só o trecho antes do primeiro "-"
	iAux, _ = ct.Idx("_aux_seq_liq")
	for r := 0; r < len(t.m); r++ {
		cv := matrix.SafeGet(t.m, r, iAux)
		if cv == nil {
			continue
		}
		s := matrix.CellString(cv)
		if p := strings.Index(s, "-"); p > 0 {
			s = s[:p]
		}
		s = strings.TrimSpace(s)
		if s == "" {
			matrix.SafeSet(&t.m, r, iAux, nil)
		} else {
			matrix.SafeSet(&t.m, r, iAux, s)
		}
	}

	// Linhas consecutivas com histórico → a primeira é histórico da liquidação
	iN, _ := ct.Idx("_work_hist_emp")
	iO := ct.Len()
	ct.InsertAt(iO, "_work_hist_liq")
	for r := 0; r < len(t.m)-1; r++ {
		if !matrix.IsEmptyCell(matrix.SafeGet(t.m, r, iN)) && !matrix.IsEmptyCell(matrix.SafeGet(t.m, r+1, iN)) {
			matrix.SafeSet(&t.m, r, iO, matrix.SafeGet(t.m, r, iN))
			matrix.SafeSet(&t.m, r, iN, nil)
		}
	}

	// Realinhar: histórico do empenho sobe 2 linhas
	for r := 2; r < len(t.m); r++ {
		v := matrix.SafeGet(t.m, r, iN)
		if !matrix.IsEmptyCell(v) {
			matrix.SafeSet(&t.m, r-2, iN, v)
			matrix.SafeSet(&t.m, r, iN, nil)
		}
	}

	// Histórico da liquidação sobe 1 linha
	for r := 1; r < len(t.m); r++ {
		v := matrix.SafeGet(t.m, r, iO)
		if !matrix.IsEmptyCell(v) {
			matrix.SafeSet(&t.m, r-1, iO, v)
			matrix.SafeSet(&t.m, r, iO, nil)
		}
	}

	// Histórico junto de Valor → coluna própria
	iP := ct.Len()
	ct.InsertAt(iP, "_work_P")
	iValor, _ = ct.Idx("Valor (R$)")
	iN, _ = ct.Idx("_work_hist_emp")
	for r := 0; r < len(t.m); r++ {
		if !matrix.IsEmptyCell(matrix.SafeGet(t.m, r, iN)) && !matrix.IsEmptyCell(matrix.SafeGet(t.m, r, iValor)) {
			matrix.SafeSet(&t.m, r, iP, matrix.SafeGet(t.m, r, iN))
			matrix.SafeSet(&t.m, r, iN, nil)
		}
	}

	// Histórico do empenho desce 1 linha (de baixo para cima)
	for r := len(t.m) - 1; r >= 0; r-- {
		v := matrix.SafeGet(t.m, r, iN)
		if !matrix.IsEmptyCell(v) && r+1 < len(t.m) {
			matrix.SafeSet(&t.m, r+1, iN, v)
			matrix.SafeSet(&t.m, r, iN, nil)
		}
	}

	// Colunas de documento sobem 3 linhas
	for _, name := range []string{"_aux_doc", "_empty_0", "_empty_1", "_empty_2"} {
		ic, err := ct.Idx(name)
		if err != nil {
			return err
		}
		for r := 3; r < len(t.m); r++ {
			v := matrix.SafeGet(t.m, r, ic)
			if !matrix.IsEmptyCell(v) {
				matrix.SafeSet(&t.m, r-3, ic, v)
				matrix.SafeSet(&t.m, r, ic, nil)
			}
		}
	}

	// Documento na linha anterior ao histórico desce para a linha dele
	iD, _ := ct.Idx("_aux_doc")
	iN, _ = ct.Idx("_work_hist_emp")
	for r := 1; r < len(t.m); r++ {
		if !matrix.IsEmptyCell(matrix.SafeGet(t.m, r, iN)) && !matrix.IsEmptyCell(matrix.SafeGet(t.m, r-1, iD)) {
			matrix.SafeSet(&t.m, r, iD, matrix.SafeGet(t.m, r-1, iD))
			matrix.SafeSet(&t.m, r-1, iD, nil)
		}
	}
	for _, name := range []string{"_empty_0", "_empty_2"} {
		ic, _ := ct.Idx(name)
		for r := 1; r < len(t.m); r++ {
			if !matrix.IsEmptyCell(matrix.SafeGet(t.m, r, iN)) && !matrix.IsEmptyCell(matrix.SafeGet(t.m, r-1, ic)) {
				matrix.SafeSet(&t.m, r, ic, matrix.SafeGet(t.m, r-1, ic))
				matrix.SafeSet(&t.m, r-1, ic, nil)
			}
		}
	}

	// Coluna "Doc/nota fiscal" montada de _aux_doc + _empty_1 em blocos
	auxDocIdx, _ := ct.Idx("_aux_doc")
	matrix.TrackedInsertCol(t.m, ct, auxDocIdx, "Doc/nota fiscal")

	iDocNew, _ := ct.Idx("Doc/nota fiscal")
	iAuxDoc, _ := ct.Idx("_aux_doc")
	iEmpty1, err := ct.Idx("_empty_1")
	if err != nil {
		return err
	}
	r := 0
	for r < len(t.m) {
		ev := matrix.SafeGet(t.m, r, iAuxDoc)
		jv := matrix.SafeGet(t.m, r, iEmpty1)
		if matrix.IsEmptyCell(ev) && matrix.IsEmptyCell(jv) {
			r++
			continue
		}
		ini := r
		var parts []string
		for r < len(t.m) {
			e2 := matrix.SafeGet(t.m, r, iAuxDoc)
			j2 := matrix.SafeGet(t.m, r, iEmpty1)
			if matrix.IsEmptyCell(e2) && matrix.IsEmptyCell(j2) {
				break
			}
			if !matrix.IsEmptyCell(e2) {
				parts = append(parts, strings.TrimSpace(matrix.CellString(e2)))
			}
			if !matrix.IsEmptyCell(j2) {
				parts = append(parts, strings.TrimSpace(matrix.CellString(j2)))
			}
			r++
		}
		matrix.SafeSet(&t.m, ini, iDocNew, strings.Join(parts, ";"))
	}

	// Nomes descritivos para as colunas de trabalho
	renames := [][2]string{
		{"_aux_seq_liq", "Seq. liq."},
		{"_empty_0", "Valor auxiliar 1"},
		{"_empty_1", "doc/nota fiscal auxiliar"},
		{"_empty_2", "Valor auxiliar 2"},
		{"_work_hist_liq", "Hist.Empenho"},
		{"_work_P", "Hist.Liq"},
	}
	for _, rn := range renames {
		if idx := ct.TryIdx(rn[0]); idx >= 0 {
			ct.Rename(rn[0], rn[1])
			matrix.SafeSet(&t.m, 0, idx, rn[1])
		}
	}
	if idx, err := ct.Idx("Doc/nota fiscal"); err == nil {
		matrix.SafeSet(&t.m, 0, idx, "Doc/nota fiscal")
	}

	if err := matrix.TrackedDeleteCol(t.m, ct, "_aux_doc"); err != nil {
		return err
	}

	// Históricos restantes vão para Hist.Empenho
	iN, _ = ct.Idx("_work_hist_emp")
	iHistEmp, _ := ct.Idx("Hist.Empenho")
	for r := 0; r < len(t.m); r++ {
		v := matrix.SafeGet(t.m, r, iN)
		if !matrix.IsEmptyCell(v) {
			matrix.SafeSet(&t.m, r, iHistEmp, v)
			matrix.SafeSet(&t.m, r, iN, nil)
		}
	}
	return matrix.TrackedDeleteCol(t.m, ct, "_work_hist_emp")
}

// liquidadosFormatoNovo finaliza o caminho do formato novo: só o filtro por
// Valor, renomeação e datas.
func liquidadosFormatoNovo(t *table, ct *matrix.ColTracker, linhasOriginal int) (*Result, error) {
	iFilterCol, err := ct.Idx("Valor (R$)")
	if err != nil {
		return nil, err
	}
	wsFinal := matrix.Matrix{append([]any(nil), t.m[0]...)}
	for r := 1; r < len(t.m); r++ {
		if !matrix.IsEmptyCell(matrix.SafeGet(t.m, r, iFilterCol)) {
			wsFinal = append(wsFinal, t.m[r])
		}
	}

	liqRenameHeader(wsFinal, "Beneficiário", "Credor/Fornecedor")
	liqConvertDates(wsFinal)
	matrix.FormatNrEmpWithYear(wsFinal,
		matrix.FindColumn(wsFinal[0], "Nr emp"), matrix.FindColumn(wsFinal[0], "Data"), 1)

	return &Result{
		Matrix: wsFinal,
		Stats:  stats(linhasOriginal, len(wsFinal)-1),
	}, nil
}

// liquidadosFormatoAntigo finaliza o caminho completo: planilha bruta,
// extração de Tipo/Documento do Hist.Liq e workbook de duas abas.
func liquidadosFormatoAntigo(t *table, ct *matrix.ColTracker, linhasOriginal int) (*Result, error) {
	matMain := matrix.Clone(t.m)

	for len(matMain) > 1 && !rowHasContent(matMain[len(matMain)-1]) {
		matMain = matMain[:len(matMain)-1]
	}

	// Truncar na última coluna com dados
	maxC := 1
	for _, rw := range matMain {
		if len(rw) > maxC {
			maxC = len(rw)
		}
	}
	lastDataCol := 0
	for c := maxC - 1; c >= 0; c-- {
		for r := range matMain {
			if !matrix.IsEmptyCell(matrix.SafeGet(matMain, r, c)) {
				lastDataCol = c + 1
				break
			}
		}
		if lastDataCol > 0 {
			break
		}
	}
	for r := range matMain {
		for len(matMain[r]) < lastDataCol {
			matMain[r] = append(matMain[r], nil)
		}
		if len(matMain[r]) > lastDataCol {
			matMain[r] = matMain[r][:lastDataCol]
		}
	}

	// ws_m: linhas onde "Valor (R$)" tem conteúdo
	iFilterCol, err := ct.Idx("Valor (R$)")
	if err != nil {
		return nil, err
	}
	wsM := matrix.Matrix{append([]any(nil), matMain[0]...)}
	for r := 1; r < len(matMain); r++ {
		if !matrix.IsEmptyCell(matrix.SafeGet(matMain, r, iFilterCol)) {
			wsM = append(wsM, append([]any(nil), matMain[r]...))
		}
	}

	ctM := matrix.NewColTracker(wsM[0])

	for _, name := range []string{"Valor auxiliar 2", "doc/nota fiscal auxiliar", "Valor auxiliar 1"} {
		if idx := ctM.TryIdx(name); idx >= 0 {
			matrix.TrackedDeleteAt(wsM, ctM, idx)
		}
	}
	for r := range wsM {
		for len(wsM[r]) < 15 {
			wsM[r] = append(wsM[r], nil)
		}
	}

	// Tipo/Documento a partir do Hist.Liq
	iContent, err := ctM.Idx("Hist.Liq")
	if err != nil {
		return nil, err
	}
	iTexto := ctM.Len()
	ctM.InsertAt(iTexto, "_work_texto")
	iTipo := ctM.Len()
	ctM.InsertAt(iTipo, "Tipo")
	iDocFinal := ctM.Len()
	ctM.InsertAt(iDocFinal, "Documento")

	ultimaUtil := 0
	for r := range wsM {
		if s, ok := matrix.SafeGet(wsM, r, iContent).(string); ok && strings.TrimSpace(s) != "" {
			ultimaUtil = r
		}
	}
	for r := 0; r <= ultimaUtil; r++ {
		texto2, cat, num := liqProcessarConteudo(matrix.SafeGet(wsM, r, iContent))
		matrix.SafeSet(&wsM, r, iTexto, texto2)
		matrix.SafeSet(&wsM, r, iTipo, cat)
		if num != "" {
			matrix.SafeSet(&wsM, r, iDocFinal, num)
		} else {
			matrix.SafeSet(&wsM, r, iDocFinal, nil)
		}
	}

	matrix.SafeSet(&wsM, 0, iTipo, "Tipo")
	matrix.SafeSet(&wsM, 0, iDocFinal, "Documento")
	textoIdx, _ := ctM.Idx("_work_texto")
	matrix.TrackedDeleteAt(wsM, ctM, textoIdx)

	wsFinal := wsM

	liqRenameHeader(wsFinal, "Beneficiário", "Credor/Fornecedor")
	liqRenameHeader(matMain, "Beneficiário", "Credor/Fornecedor")
	liqConvertDates(wsFinal)
	liqConvertDates(matMain)

	matrix.FormatNrEmpWithYear(wsFinal,
		matrix.FindColumn(wsFinal[0], "Nr emp"), matrix.FindColumn(wsFinal[0], "Data"), 1)
	matrix.FormatNrEmpWithYear(matMain,
		matrix.FindColumn(matMain[0], "Nr emp"), matrix.FindColumn(matMain[0], "Data"), 1)

	res := &Result{
		Matrix: wsFinal,
		Bruta:  matMain,
		Sheets: []workbook.OutputSheet{
			{Name: "Liquidados Final", Data: wsFinal},
			{Name: "Planilha Bruta Liq", Data: matMain},
		},
	}
	res.Stats = stats(linhasOriginal, len(wsFinal)-1)
	res.Stats.LinhasBruta = len(matMain) - 1
	return res, nil
}
