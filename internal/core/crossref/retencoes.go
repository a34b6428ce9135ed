package crossref

import (
	"sort"
	"strings"

	"github.com/cebdast/SEGIF-CARUARU/internal/matrix"
	"github.com/cebdast/SEGIF-CARUARU/internal/workbook"
)

// TipoAba classifica uma aba do workbook de retenções para fins de
// agregação.
type TipoAba int

const (
	// AbaIndividual é uma aba de tipo de retenção sem classe especial.
	AbaIndividual TipoAba = iota
	// AbaGeral é a aba consolidada GERAL.
	AbaGeral
	// AbaTotal é a aba TOTAL (linhas sem tipo de retenção).
	AbaTotal
	// AbaLista é o sumário LISTA.
	AbaLista
	// AbaBruta é a cópia Planilha Bruta.
	AbaBruta
	// AbaINSS agrega em INSS.
	AbaINSS
	// AbaIR agrega em IR.
	AbaIR
	// AbaISQN agrega em ISQN (inclui ISS).
	AbaISQN
)

// ClassificarAba aplica a precedência INSS > IR > ISQN/ISS sobre o nome da
// aba; GERAL, TOTAL, LISTA e PLANILHA BRUTA têm classes próprias.
func ClassificarAba(nome string) TipoAba {
	up := strings.ToUpper(strings.TrimSpace(nome))
	switch up {
	case "GERAL":
		return AbaGeral
	case "TOTAL":
		return AbaTotal
	case "LISTA":
		return AbaLista
	case "PLANILHA BRUTA":
		return AbaBruta
	}
	switch {
	case strings.Contains(up, "INSS"):
		return AbaINSS
	case strings.Contains(up, "IR"):
		return AbaIR
	case strings.Contains(up, "ISQN") || strings.Contains(up, "ISS"):
		return AbaISQN
	}
	return AbaIndividual
}

// Colunas anexadas por CruzarComRetidos.
var colunasRetencao = []string{
	"Ret Total", "Ret Total %", "ISQN", "ISQN %", "IR", "IR %",
	"INSS", "INSS %", "Outros", "Outros %", "Tipo Ret",
}

func somarPorChave(aba matrix.Matrix, chaveIdx, valorIdx int, destino map[string]float64) {
	for r := 1; r < len(aba); r++ {
		raw := matrix.SafeGet(aba, r, chaveIdx)
		if raw == nil {
			continue
		}
		chave := NormKey(raw)
		if chave == "" {
			continue
		}
		destino[chave] += matrix.ParseBRFloat(matrix.SafeGet(aba, r, valorIdx))
	}
}

// CruzarComRetidos agrega o workbook de retenções por chave de liquidação e
// anexa 11 colunas à matriz-alvo: totais e percentuais de retenção por tipo
// (ISQN, IR, INSS, Outros) mais o texto "Tipo Ret". O classificador decide o
// papel de cada aba; Outros = Total − ISQN − IR − INSS.
func CruzarComRetidos(target matrix.Matrix, retSheets []workbook.OutputSheet, valorColName string, classificar func(string) TipoAba) {
	if len(target) == 0 {
		return
	}
	if classificar == nil {
		classificar = ClassificarAba
	}

	somaTotal := map[string]float64{}
	somaISQN := map[string]float64{}
	somaIR := map[string]float64{}
	somaINSS := map[string]float64{}
	textoPorChave := map[string]map[string]bool{}

	for _, aba := range retSheets {
		m := aba.Data
		if len(m) < 2 {
			continue
		}
		header := m[0]
		chaveIdx := matrix.FindColMulti(header, []string{"Seq. Liq.", "Av.liquidação", "Av. liquid"}, 3)
		if chaveIdx < 0 || chaveIdx >= len(header) {
			continue
		}

		valorRetidoIdx := matrix.FindColumn(header, "Valor retido")
		valorIdx := matrix.FindColumn(header, "Valor")
		retencaoIdx := matrix.FindColumn(header, "Retenção")

		classe := classificar(aba.Name)

		// Textos de retenção só das abas individuais por tipo
		if classe != AbaGeral && classe != AbaTotal && classe != AbaBruta && classe != AbaLista && retencaoIdx >= 0 {
			for r := 1; r < len(m); r++ {
				chv := NormKey(matrix.SafeGet(m, r, chaveIdx))
				txt := NormKey(matrix.SafeGet(m, r, retencaoIdx))
				if chv != "" && txt != "" {
					if textoPorChave[chv] == nil {
						textoPorChave[chv] = map[string]bool{}
					}
					textoPorChave[chv][txt] = true
				}
			}
		}

		retIdx := valorRetidoIdx
		if retIdx < 0 {
			retIdx = 8
		}
		switch classe {
		case AbaTotal:
			vi := valorIdx
			if vi < 0 {
				vi = 11
			}
			somarPorChave(m, chaveIdx, vi, somaTotal)
		case AbaINSS:
			somarPorChave(m, chaveIdx, retIdx, somaINSS)
		case AbaIR:
			somarPorChave(m, chaveIdx, retIdx, somaIR)
		case AbaISQN:
			somarPorChave(m, chaveIdx, retIdx, somaISQN)
		}
	}

	tHeader := target[0]
	tChaveIdx := matrix.FindColMulti(tHeader, []string{"Seq. liq.", "Seq. Liq.", "Av.liquidação", "Av. liquid"}, 2)
	if tChaveIdx < 0 {
		return
	}
	tValorIdx := matrix.FindColumn(tHeader, valorColName)

	startCol := len(tHeader)
	target[0] = append(tHeader, toAnySlice(colunasRetencao)...)

	pct := func(a, b float64) float64 {
		if b == 0 {
			return 0
		}
		return a / b
	}

	for r := 1; r < len(target); r++ {
		row := target[r]
		for len(row) < startCol {
			row = append(row, nil)
		}

		chave := NormKey(matrix.SafeGet(target, r, tChaveIdx))
		valorBase := 0.0
		if tValorIdx >= 0 {
			valorBase = matrix.ParseBRFloat(matrix.SafeGet(target, r, tValorIdx))
		}

		vTotal := somaTotal[chave]
		vISQN := somaISQN[chave]
		vIR := somaIR[chave]
		vINSS := somaINSS[chave]
		vOutros := vTotal - vISQN - vIR - vINSS

		textos := ""
		if ts := textoPorChave[chave]; chave != "" && ts != nil {
			keys := make([]string, 0, len(ts))
			for k := range ts {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			textos = strings.Join(keys, "; ")
		}

		row = append(row,
			matrix.Round2(vTotal), pct(vTotal, valorBase),
			matrix.Round2(vISQN), pct(vISQN, valorBase),
			matrix.Round2(vIR), pct(vIR, valorBase),
			matrix.Round2(vINSS), pct(vINSS, valorBase),
			matrix.Round2(vOutros), pct(vOutros, valorBase),
			textos,
		)
		target[r] = row
	}
}

// AdicionarDespesa anexa a coluna "Despesa" dos Liquidados à matriz-alvo via
// chave de liquidação. Não faz nada se o alvo já tem "Despesa".
func AdicionarDespesa(target, liquidados matrix.Matrix) {
	if len(target) == 0 || len(liquidados) == 0 {
		return
	}
	srcHeader := liquidados[0]
	srcKeyIdx := matrix.FindColMulti(srcHeader, []string{"Seq. liq.", "Seq. Liq."}, -1)
	srcDespIdx := matrix.FindColumn(srcHeader, "Despesa")
	if srcKeyIdx < 0 || srcDespIdx < 0 {
		return
	}

	lookup := map[string]any{}
	for r := 1; r < len(liquidados); r++ {
		key := NormKey(matrix.SafeGet(liquidados, r, srcKeyIdx))
		val := matrix.SafeGet(liquidados, r, srcDespIdx)
		if key != "" && val != nil {
			lookup[key] = val
		}
	}

	tHeader := target[0]
	tKeyIdx := matrix.FindColMulti(tHeader, []string{"Seq. Liq.", "Seq. liq.", "Av.liquidação"}, -1)
	if tKeyIdx < 0 {
		return
	}
	if matrix.FindColumn(tHeader, "Despesa") >= 0 {
		return
	}

	target[0] = append(tHeader, "Despesa")
	for r := 1; r < len(target); r++ {
		row := target[r]
		for len(row) < len(target[0])-1 {
			row = append(row, nil)
		}
		key := NormKey(matrix.SafeGet(target, r, tKeyIdx))
		if v, ok := lookup[key]; ok && key != "" {
			row = append(row, v)
		} else {
			row = append(row, nil)
		}
		target[r] = row
	}
}

func toAnySlice(names []string) []any {
	out := make([]any, len(names))
	for i, n := range names {
		out[i] = n
	}
	return out
}
