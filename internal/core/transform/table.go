package transform

import (
	"regexp"
	"strings"

	"github.com/cebdast/SEGIF-CARUARU/internal/matrix"
)

// rowMeta carrega as anotações laterais de uma linha: a unidade gestora
// vigente no ponto do relatório em que a linha aparece, se a linha é a
// própria marcadora, e (nos consignados) o valor do empenho corrente.
type rowMeta struct {
	unidade  string
	marker   bool
	valorEmp float64
}

// table mantém a matriz e as anotações por linha em sincronia durante as
// remoções de linhas de uma transformação.
type table struct {
	m    matrix.Matrix
	meta []rowMeta
}

func newTable(m matrix.Matrix) *table {
	return &table{m: m, meta: make([]rowMeta, len(m))}
}

var (
	reUnidadeMarker = regexp.MustCompile(`(?i)^unidade\s*gestora`)
	reUnidadeInline = regexp.MustCompile(`(?i)^unidade\s+gestora\s*:\s*`)
)

// annotateUnidadeSplit varre as linhas a partir de startRow anotando a
// unidade gestora vigente. Formato "dividido": uma célula com o marcador
// "Unidade gestora:" e o nome em outra célula longa da mesma linha.
func (t *table) annotateUnidadeSplit(startRow int) {
	unidadeAtual := ""
	for r := startRow; r < len(t.m); r++ {
		markerCol := -1
		for c, v := range t.m[r] {
			s, ok := v.(string)
			if ok && reUnidadeMarker.MatchString(strings.TrimSpace(s)) {
				markerCol = c
				break
			}
		}
		if markerCol >= 0 {
			for c, v := range t.m[r] {
				if c == markerCol {
					continue
				}
				s, ok := v.(string)
				if ok && len(strings.TrimSpace(s)) > 10 {
					unidadeAtual = strings.TrimSpace(s)
					break
				}
			}
			t.meta[r].marker = true
		}
		t.meta[r].unidade = unidadeAtual
	}
}

// annotateUnidadeInline trata o formato "embutido": marcador e nome na mesma
// célula ("Unidade Gestora: Nome da Unidade").
func (t *table) annotateUnidadeInline(startRow int) {
	unidadeAtual := ""
	for r := startRow; r < len(t.m); r++ {
		for _, v := range t.m[r] {
			s, ok := v.(string)
			if !ok {
				continue
			}
			trimmed := strings.TrimSpace(s)
			if reUnidadeInline.MatchString(trimmed) {
				nome := strings.TrimSpace(reUnidadeInline.ReplaceAllString(trimmed, ""))
				if len(nome) > 5 {
					unidadeAtual = nome
				}
				t.meta[r].marker = true
				break
			}
		}
		t.meta[r].unidade = unidadeAtual
	}
}

// dropRows remove n linhas a partir de from.
func (t *table) dropRows(from, n int) {
	if from < 0 || from >= len(t.m) {
		return
	}
	end := from + n
	if end > len(t.m) {
		end = len(t.m)
	}
	t.m = append(t.m[:from], t.m[end:]...)
	t.meta = append(t.meta[:from], t.meta[end:]...)
}

// filter mantém apenas as linhas aprovadas pelo predicado, preservando o
// alinhamento das anotações.
func (t *table) filter(keep func(r int, row []any, meta rowMeta) bool) {
	var m matrix.Matrix
	var meta []rowMeta
	for r, row := range t.m {
		if keep(r, row, t.meta[r]) {
			m = append(m, row)
			meta = append(meta, t.meta[r])
		}
	}
	t.m = m
	t.meta = meta
}

// insertUnidadeColumn injeta a coluna "Unidade gestora" na posição dada,
// preenchida com a anotação de cada linha.
func (t *table) insertUnidadeColumn(pos int) {
	matrix.InsertColumn(t.m, pos)
	matrix.SafeSet(&t.m, 0, pos, "Unidade gestora")
	for r := 1; r < len(t.m); r++ {
		if t.meta[r].unidade != "" {
			matrix.SafeSet(&t.m, r, pos, t.meta[r].unidade)
		}
	}
}

// rowHasContent informa se a linha tem alguma célula não-vazia.
func rowHasContent(row []any) bool {
	for _, v := range row {
		if !matrix.IsEmptyCell(v) {
			return true
		}
	}
	return false
}
