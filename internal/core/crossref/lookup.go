package crossref

import (
	"github.com/cebdast/SEGIF-CARUARU/internal/matrix"
)

// KeyTransform transforma o valor bruto da célula-chave na chave de junção.
// nil equivale a NormKey.
type KeyTransform func(any) string

func applyKey(kt KeyTransform, v any) string {
	if kt != nil {
		return kt(v)
	}
	return NormKey(v)
}

// BuildLookupMap constrói um mapa chave → valores nomeados a partir de uma
// matriz (linha 0 = cabeçalho). Chaves repetidas: a última linha prevalece.
func BuildLookupMap(m matrix.Matrix, keyColName string, kt KeyTransform, valueColNames []string) map[string]map[string]any {
	lookup := map[string]map[string]any{}
	if len(m) == 0 {
		return lookup
	}
	header := m[0]
	keyIdx := matrix.FindColumn(header, keyColName)
	if keyIdx < 0 {
		return lookup
	}
	valueIdxs := make([]int, len(valueColNames))
	for i, name := range valueColNames {
		valueIdxs[i] = matrix.FindColumn(header, name)
	}

	for r := 1; r < len(m); r++ {
		rawKey := matrix.SafeGet(m, r, keyIdx)
		if rawKey == nil {
			continue
		}
		key := applyKey(kt, rawKey)
		if key == "" {
			continue
		}
		obj := make(map[string]any, len(valueColNames))
		for i, name := range valueColNames {
			obj[name] = matrix.SafeGet(m, r, valueIdxs[i])
		}
		lookup[key] = obj
	}
	return lookup
}

// ApplyLookup anexa as colunas do lookup ao fim da matriz-alvo. Linhas sem
// correspondência recebem nil.
func ApplyLookup(target matrix.Matrix, keyColName string, kt KeyTransform, lookup map[string]map[string]any, newColNames []string) {
	if len(target) == 0 {
		return
	}
	header := target[0]
	keyIdx := matrix.FindColumn(header, keyColName)
	if keyIdx < 0 {
		return
	}
	startCol := len(header)
	for _, name := range newColNames {
		header = append(header, name)
	}
	target[0] = header

	for r := 1; r < len(target); r++ {
		row := target[r]
		for len(row) < startCol {
			row = append(row, nil)
		}
		key := applyKey(kt, matrix.SafeGet(target, r, keyIdx))
		found, ok := lookup[key]
		if key == "" || !ok {
			for range newColNames {
				row = append(row, nil)
			}
		} else {
			for _, name := range newColNames {
				v := found[name]
				if matrix.IsEmptyCell(v) {
					v = nil
				}
				row = append(row, v)
			}
		}
		target[r] = row
	}
}

// AddColumnViaJoin anexa uma única coluna de source ao target via junção por
// chave transformada.
func AddColumnViaJoin(target matrix.Matrix, targetKeyCol string, kt KeyTransform,
	source matrix.Matrix, sourceKeyCol, sourceValueCol, newColName string) {
	if len(source) == 0 || len(target) == 0 {
		return
	}
	srcHeader := source[0]
	srcKeyIdx := matrix.FindColumn(srcHeader, sourceKeyCol)
	srcValIdx := matrix.FindColumn(srcHeader, sourceValueCol)
	if srcKeyIdx < 0 || srcValIdx < 0 {
		return
	}

	lookup := map[string]any{}
	for r := 1; r < len(source); r++ {
		key := applyKey(kt, matrix.SafeGet(source, r, srcKeyIdx))
		if key != "" {
			lookup[key] = matrix.SafeGet(source, r, srcValIdx)
		}
	}

	tKeyIdx := matrix.FindColumn(target[0], targetKeyCol)
	if tKeyIdx < 0 {
		return
	}
	target[0] = append(target[0], newColName)
	for r := 1; r < len(target); r++ {
		row := target[r]
		for len(row) < len(target[0])-1 {
			row = append(row, nil)
		}
		key := applyKey(kt, matrix.SafeGet(target, r, tKeyIdx))
		v, ok := lookup[key]
		if key == "" || !ok || matrix.IsEmptyCell(v) {
			row = append(row, nil)
		} else {
			row = append(row, v)
		}
		target[r] = row
	}
}
