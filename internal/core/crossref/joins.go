package crossref

import (
	"github.com/cebdast/SEGIF-CARUARU/internal/matrix"
)

// CruzarComCredores anexa Município, CNPJ&CPF e Tipo de Cadastro a partir da
// relação de credores. Chave no alvo: código antes do hífen em
// "Credor/Fornecedor"; chave na fonte: "Código".
func CruzarComCredores(target, credores matrix.Matrix) {
	if len(target) == 0 || len(credores) == 0 {
		return
	}
	credHeader := credores[0]
	credKeyIdx := matrix.FindColumn(credHeader, "Código")
	if credKeyIdx < 0 {
		credKeyIdx = 0
	}
	cidadeIdx := matrix.FindColMulti(credHeader, []string{"Cidade - UF", "Cidade"}, -1)
	cpfCnpjIdx := matrix.FindColMulti(credHeader, []string{"CPF_CNPJ", "CNPJ&CPF"}, -1)
	tipoIdx := matrix.FindColumn(credHeader, "Tipo")

	lookup := map[string]map[string]any{}
	for r := 1; r < len(credores); r++ {
		key := NormKey(matrix.SafeGet(credores, r, credKeyIdx))
		if key == "" {
			continue
		}
		lookup[key] = map[string]any{
			"Município":        matrix.SafeGet(credores, r, cidadeIdx),
			"CNPJ&CPF":         matrix.SafeGet(credores, r, cpfCnpjIdx),
			"Tipo de Cadastro": matrix.SafeGet(credores, r, tipoIdx),
		}
	}

	keyCol := "Credor/Fornecedor"
	if matrix.FindColumn(target[0], keyCol) < 0 {
		keyCol = "Credor"
	}
	ApplyLookup(target, keyCol, ExtractBeforeHyphen, lookup,
		[]string{"Município", "CNPJ&CPF", "Tipo de Cadastro"})
}

// CruzarComSimples anexa os dados do Simples Nacional via CNPJ (somente
// dígitos). A chave da fonte é sempre a primeira coluna.
func CruzarComSimples(target, simples matrix.Matrix) {
	if len(target) == 0 || len(simples) == 0 {
		return
	}
	simpHeader := simples[0]
	optanteIdx := matrix.FindColMulti(simpHeader, []string{"Optante", "Optante?"}, 5)
	dataIniIdx := matrix.FindColMulti(simpHeader, []string{"Data início", "Data inicio", "Data Início Simples"}, 6)
	natJurIdx := matrix.FindColMulti(simpHeader, []string{"Natureza Jurídica", "Natureza Juridica"}, 11)
	cnaePrinIdx := matrix.FindColMulti(simpHeader, []string{"CNAE Principal"}, 12)
	cnaeDescIdx := matrix.FindColMulti(simpHeader, []string{"CNAE Descrição", "CNAE Descricao"}, 13)

	lookup := map[string]map[string]any{}
	for r := 1; r < len(simples); r++ {
		key := OnlyDigits(matrix.SafeGet(simples, r, 0))
		if key == "" {
			continue
		}
		lookup[key] = map[string]any{
			"Optante?":            matrix.SafeGet(simples, r, optanteIdx),
			"Data início Simples": matrix.SafeGet(simples, r, dataIniIdx),
			"Natureza Jurídica":   matrix.SafeGet(simples, r, natJurIdx),
			"CNAE Principal":      matrix.SafeGet(simples, r, cnaePrinIdx),
			"CNAE Descrição":      matrix.SafeGet(simples, r, cnaeDescIdx),
		}
	}

	tCnpjIdx := matrix.FindColMulti(target[0], []string{"CNPJ&CPF", "CNPJ", "CPF_CNPJ", "CPF/CNPJ"}, -1)
	if tCnpjIdx < 0 {
		return
	}
	applyLookupAt(target, tCnpjIdx, OnlyDigits, lookup,
		[]string{"Optante?", "Data início Simples", "Natureza Jurídica", "CNAE Principal", "CNAE Descrição"})
}

// CruzarComBalancete anexa Ação, Natureza da Despesa, Função, SubFunção e
// Programa via código de "Despesa" (antes do hífen) contra o balancete.
func CruzarComBalancete(target, balancete matrix.Matrix) {
	if len(target) == 0 || len(balancete) == 0 {
		return
	}
	balHeader := balancete[0]
	balKeyIdx := matrix.FindColMulti(balHeader, []string{"Nr emp.", "Nr empenho", "Empenho"}, 6)
	if balKeyIdx < 0 || balKeyIdx >= len(balHeader) {
		return
	}
	acaoIdx := matrix.FindColMulti(balHeader, []string{"Ação", "Acao"}, 5)
	natDespIdx := matrix.FindColMulti(balHeader, []string{"Natureza da Despesa", "Natureza"}, 9)
	funcaoIdx := matrix.FindColMulti(balHeader, []string{"Função", "Funcao"}, 2)
	subFuncIdx := matrix.FindColMulti(balHeader, []string{"SubFunção", "SubFuncao", "Subfunção", "Subfuncao"}, 3)
	programaIdx := matrix.FindColMulti(balHeader, []string{"Programa"}, 4)

	lookup := map[string]map[string]any{}
	for r := 1; r < len(balancete); r++ {
		key := NormKey(matrix.SafeGet(balancete, r, balKeyIdx))
		if key == "" {
			continue
		}
		lookup[key] = map[string]any{
			"Ação":                matrix.SafeGet(balancete, r, acaoIdx),
			"Natureza da Despesa": matrix.SafeGet(balancete, r, natDespIdx),
			"Função":              matrix.SafeGet(balancete, r, funcaoIdx),
			"SubFunção":           matrix.SafeGet(balancete, r, subFuncIdx),
			"Programa":            matrix.SafeGet(balancete, r, programaIdx),
		}
	}

	ApplyLookup(target, "Despesa", ExtractBeforeHyphen, lookup,
		[]string{"Ação", "Natureza da Despesa", "Função", "SubFunção", "Programa"})
}

// CruzarComDetalhamento anexa "Detalhamento despesa" usando o texto depois do
// hífen em "Despesa" contra a primeira coluna do detalhamento.
func CruzarComDetalhamento(target, detalhamento matrix.Matrix) {
	if len(target) == 0 || len(detalhamento) == 0 {
		return
	}
	detHeader := detalhamento[0]
	detValIdx := 0
	if len(detHeader) > 1 {
		detValIdx = 1
	}
	if byName := matrix.FindColumn(detHeader, "Detalhamento"); byName >= 0 {
		detValIdx = byName
	}

	lookup := map[string]any{}
	for r := 1; r < len(detalhamento); r++ {
		key := NormKey(matrix.SafeGet(detalhamento, r, 0))
		if key == "" {
			continue
		}
		lookup[key] = matrix.SafeGet(detalhamento, r, detValIdx)
	}

	tDespIdx := matrix.FindColumn(target[0], "Despesa")
	if tDespIdx < 0 {
		return
	}
	target[0] = append(target[0], "Detalhamento despesa")
	for r := 1; r < len(target); r++ {
		row := target[r]
		for len(row) < len(target[0])-1 {
			row = append(row, nil)
		}
		key := ExtractAfterHyphen(matrix.SafeGet(target, r, tDespIdx))
		v, ok := lookup[key]
		if key == "" || !ok || matrix.IsEmptyCell(v) {
			row = append(row, nil)
		} else {
			row = append(row, v)
		}
		target[r] = row
	}
}

// applyLookupAt é ApplyLookup com a coluna-chave do alvo por índice.
func applyLookupAt(target matrix.Matrix, keyIdx int, kt KeyTransform, lookup map[string]map[string]any, newColNames []string) {
	startCol := len(target[0])
	for _, name := range newColNames {
		target[0] = append(target[0], name)
	}
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
