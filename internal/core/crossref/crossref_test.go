package crossref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cebdast/SEGIF-CARUARU/internal/matrix"
	"github.com/cebdast/SEGIF-CARUARU/internal/workbook"
)

func colIdx(t *testing.T, header []any, name string) int {
	t.Helper()
	idx := matrix.FindColumnExact(header, name)
	require.GreaterOrEqual(t, idx, 0, "coluna %q não encontrada em %v", name, header)
	return idx
}

// ---------------------- chaves ----------------------

func TestExtractBeforeHyphen(t *testing.T) {
	assert.Equal(t, "123", ExtractBeforeHyphen("123 - Manutenção predial"))
	assert.Equal(t, "456", ExtractBeforeHyphen("456"))
	assert.Equal(t, "ABC - X", ExtractBeforeHyphen("ABC - X"))
	assert.Equal(t, "", ExtractBeforeHyphen(nil))
}

func TestExtractAfterHyphen(t *testing.T) {
	assert.Equal(t, "Manutenção predial", ExtractAfterHyphen("123 - Manutenção predial"))
	assert.Equal(t, "", ExtractAfterHyphen("456"))
	assert.Equal(t, "", ExtractAfterHyphen(nil))
}

func TestOnlyDigits(t *testing.T) {
	assert.Equal(t, "12345678000190", OnlyDigits("12.345.678/0001-90"))
	assert.Equal(t, "", OnlyDigits(nil))
}

// ---------------------- lookup ----------------------

func TestBuildLookupMapUltimaLinhaPrevalece(t *testing.T) {
	m := matrix.Matrix{
		{"Código", "Nome"},
		{"1", "PRIMEIRO"},
		{"1", "SEGUNDO"},
		{"2", "OUTRO"},
	}
	lookup := BuildLookupMap(m, "Código", nil, []string{"Nome"})
	require.Len(t, lookup, 2)
	assert.Equal(t, "SEGUNDO", lookup["1"]["Nome"])
	assert.Equal(t, "OUTRO", lookup["2"]["Nome"])
}

func TestApplyLookup(t *testing.T) {
	target := matrix.Matrix{
		{"Chave", "Valor"},
		{"1", 10.0},
		{"9", 20.0},
	}
	lookup := map[string]map[string]any{
		"1": {"Nome": "UM"},
	}
	ApplyLookup(target, "Chave", nil, lookup, []string{"Nome"})

	assert.Equal(t, []any{"Chave", "Valor", "Nome"}, target[0])
	assert.Equal(t, "UM", target[1][2])
	assert.Nil(t, target[2][2])
}

func TestAddColumnViaJoin(t *testing.T) {
	target := matrix.Matrix{
		{"Seq. liq.", "Valor"},
		{"100", 1.0},
	}
	source := matrix.Matrix{
		{"Seq. liq.", "Despesa"},
		{"100", "3390 - Material"},
	}
	AddColumnViaJoin(target, "Seq. liq.", nil, source, "Seq. liq.", "Despesa", "Despesa")
	assert.Equal(t, "3390 - Material", target[1][2])
}

// ---------------------- classificação de abas ----------------------

func TestClassificarAba(t *testing.T) {
	assert.Equal(t, AbaGeral, ClassificarAba("GERAL"))
	assert.Equal(t, AbaTotal, ClassificarAba("TOTAL"))
	assert.Equal(t, AbaLista, ClassificarAba("LISTA"))
	assert.Equal(t, AbaBruta, ClassificarAba("Planilha Bruta"))
	assert.Equal(t, AbaINSS, ClassificarAba("INSS"))
	assert.Equal(t, AbaINSS, ClassificarAba("INSS RETIDO"))
	assert.Equal(t, AbaIR, ClassificarAba("IRRF"))
	// Precedência: IR antes de ISS
	assert.Equal(t, AbaIR, ClassificarAba("ISS_IRRF"))
	assert.Equal(t, AbaISQN, ClassificarAba("ISQN"))
	assert.Equal(t, AbaISQN, ClassificarAba("ISS PROPRIO"))
	assert.Equal(t, AbaIndividual, ClassificarAba("GPS"))
}

// ---------------------- cruzamento com retenções ----------------------

func retHeader() []any {
	return []any{"Data", "Retenção", "Sequência", "Seq. Liq.", "Fonte recursos",
		"Nr emp.", "Credor/Fornecedor", "CNPJ", "Valor retido", "Doc. fiscal", "Doc.extra", "Valor"}
}

func retRow(chave, retencao string, retido, valor float64) []any {
	return []any{"01/01/2024", retencao, "1", chave, "1500", "10", "FORN", "123", retido, "NF", "", valor}
}

func retSheetsFixture() []workbook.OutputSheet {
	return []workbook.OutputSheet{
		{Name: "GERAL", Data: matrix.Matrix{retHeader(),
			retRow("100", "INSS", 50, 200), retRow("100", "IRRF", 20, 200)}},
		{Name: "TOTAL", Data: matrix.Matrix{retHeader(), retRow("100", "", 80, 300)}},
		{Name: "INSS", Data: matrix.Matrix{retHeader(), retRow("100", "INSS", 50, 200)}},
		{Name: "IRRF", Data: matrix.Matrix{retHeader(), retRow("100", "IRRF", 20, 200)}},
		{Name: "LISTA", Data: matrix.Matrix{
			{"Retenção", "Qtd Linhas", "Soma Geral", "Soma Individuais"},
			{"INSS", 1.0, 50.0, 50.0},
		}},
		{Name: "Planilha Bruta", Data: matrix.Matrix{retHeader(), retRow("100", "INSS", 999, 999)}},
	}
}

func TestCruzarComRetidos(t *testing.T) {
	target := matrix.Matrix{
		{"Data", "Unidade gestora", "Nr emp.", "Seq. liq.", "Despesa", "Credor/Fornecedor", "Valor (R$)"},
		{"01/01/2024", "UG", "10/2024", "100", "3390 - Material", "123 - EMPRESA A", 200.0},
		{"01/01/2024", "UG", "11/2024", "300", "3390 - Material", "456 - EMPRESA B", 50.0},
	}
	CruzarComRetidos(target, retSheetsFixture(), "Valor (R$)", ClassificarAba)

	header := target[0]
	require.Len(t, header, 18)

	row := target[1]
	// TOTAL soma a coluna "Valor retido" (busca por substring acha ela antes de "Valor")
	assert.Equal(t, 80.0, row[colIdx(t, header, "Ret Total")])
	assert.InDelta(t, 0.4, row[colIdx(t, header, "Ret Total %")].(float64), 1e-9)
	assert.Equal(t, 0.0, row[colIdx(t, header, "ISQN")])
	assert.Equal(t, 20.0, row[colIdx(t, header, "IR")])
	assert.InDelta(t, 0.1, row[colIdx(t, header, "IR %")].(float64), 1e-9)
	assert.Equal(t, 50.0, row[colIdx(t, header, "INSS")])
	assert.InDelta(t, 0.25, row[colIdx(t, header, "INSS %")].(float64), 1e-9)
	// Outros = Total − ISQN − IR − INSS
	assert.Equal(t, 10.0, row[colIdx(t, header, "Outros")])
	// Textos vêm só das abas individuais, ordenados
	assert.Equal(t, "INSS; IRRF", row[colIdx(t, header, "Tipo Ret")])

	// Chave sem retenções: tudo zero, texto vazio
	sem := target[2]
	assert.Equal(t, 0.0, sem[colIdx(t, header, "Ret Total")])
	assert.Equal(t, "", sem[colIdx(t, header, "Tipo Ret")])
}

func TestAdicionarDespesa(t *testing.T) {
	liquidados := matrix.Matrix{
		{"Data", "Seq. liq.", "Despesa"},
		{"01/01/2024", "100", "3390 - Material"},
	}
	retidos := matrix.Matrix{
		retHeader(),
		retRow("100", "INSS", 50, 200),
		retRow("999", "IRRF", 10, 100),
	}
	AdicionarDespesa(retidos, liquidados)

	header := retidos[0]
	iDesp := colIdx(t, header, "Despesa")
	assert.Equal(t, "3390 - Material", retidos[1][iDesp])
	assert.Nil(t, retidos[2][iDesp])

	// Segunda chamada é no-op (coluna já existe)
	AdicionarDespesa(retidos, liquidados)
	assert.Len(t, retidos[0], len(header))
}

// ---------------------- demais cruzamentos ----------------------

func TestCruzarComCredores(t *testing.T) {
	credores := matrix.Matrix{
		{"Código", "Credor/Fornecedor", "CPF/CNPJ", "Cidade - UF", "CPF_CNPJ", "Tipo"},
		{"123", "EMPRESA A LTDA", "12.345.678/0001-90", "Caruaru - PE", "12345678000190", "CNPJ"},
	}
	target := matrix.Matrix{
		{"Data", "Credor/Fornecedor", "Valor (R$)"},
		{"01/01/2024", "123 - EMPRESA A LTDA", 10.0},
		{"01/01/2024", "999 - DESCONHECIDA", 20.0},
	}
	CruzarComCredores(target, credores)

	header := target[0]
	assert.Equal(t, "Caruaru - PE", target[1][colIdx(t, header, "Município")])
	assert.Equal(t, "12345678000190", target[1][colIdx(t, header, "CNPJ&CPF")])
	assert.Equal(t, "CNPJ", target[1][colIdx(t, header, "Tipo de Cadastro")])
	assert.Nil(t, target[2][colIdx(t, header, "Município")])
}

func TestCruzarComBalancete(t *testing.T) {
	balancete := matrix.Matrix{
		{"Conta", "Descrição", "Função", "SubFunção", "Programa", "Ação", "Empenho", "X", "Y", "Natureza da Despesa"},
		{"1", "desc", "10 - Saúde", "301", "2001", "2.001", "3390", "", "", "3.3.90.39"},
	}
	target := matrix.Matrix{
		{"Data", "Despesa", "Valor (R$)"},
		{"01/01/2024", "3390 - Material de consumo", 10.0},
	}
	CruzarComBalancete(target, balancete)

	header := target[0]
	assert.Equal(t, "2.001", target[1][colIdx(t, header, "Ação")])
	assert.Equal(t, "3.3.90.39", target[1][colIdx(t, header, "Natureza da Despesa")])
	assert.Equal(t, "10 - Saúde", target[1][colIdx(t, header, "Função")])
	assert.Equal(t, "301", target[1][colIdx(t, header, "SubFunção")])
	assert.Equal(t, "2001", target[1][colIdx(t, header, "Programa")])
}

func TestCruzarComDetalhamento(t *testing.T) {
	detalhamento := matrix.Matrix{
		{"Descrição", "Detalhamento"},
		{"Material de consumo", "Materiais diversos de expediente"},
	}
	target := matrix.Matrix{
		{"Data", "Despesa"},
		{"01/01/2024", "3390 - Material de consumo"},
		{"01/01/2024", "9999 - Sem correspondência"},
	}
	CruzarComDetalhamento(target, detalhamento)

	header := target[0]
	iDet := colIdx(t, header, "Detalhamento despesa")
	assert.Equal(t, "Materiais diversos de expediente", target[1][iDet])
	assert.Nil(t, target[2][iDet])
}

func TestCruzarComSimples(t *testing.T) {
	simples := matrix.Matrix{
		{"CNPJ", "Razão Social", "c", "d", "e", "Optante", "Data início", "g", "h", "i", "j", "Natureza Jurídica", "CNAE Principal", "CNAE Descrição"},
		{"12.345.678/0001-90", "EMPRESA A", "", "", "", "Sim", "01/01/2020", "", "", "", "", "206-2", "4751-2/01", "Comércio varejista"},
	}
	target := matrix.Matrix{
		{"Credor/Fornecedor", "CNPJ&CPF"},
		{"123 - EMPRESA A", "12345678000190"},
		{"456 - EMPRESA B", "99999999000199"},
	}
	CruzarComSimples(target, simples)

	header := target[0]
	assert.Equal(t, "Sim", target[1][colIdx(t, header, "Optante?")])
	assert.Equal(t, "01/01/2020", target[1][colIdx(t, header, "Data início Simples")])
	assert.Equal(t, "Comércio varejista", target[1][colIdx(t, header, "CNAE Descrição")])
	assert.Nil(t, target[2][colIdx(t, header, "Optante?")])
}

// ---------------------- auto-detecção ----------------------

func TestAutoDetectar(t *testing.T) {
	nomes := []string{
		"Relação de Empenhos Liquidados - Janeiro.xlsx",
		"Empenhos Pagos Sintético.xlsx",
		"Relação Mensal Empenhos Emitidos.xlsx",
		"Relação de Empenhos a Pagar.xlsx",
		"Retenção Final.xlsx",
		"Relação de Credores.xlsx",
		"Balancete da Despesa.xlsx",
		"Relatório da Despesa por Natureza Consolidado.xlsx",
		"~$Empenhos Pagos Sintético.xlsx",
		"notas.pdf",
	}
	res := AutoDetectar(nomes)

	assert.Empty(t, res.Faltantes)
	assert.Equal(t, "Relação de Empenhos Liquidados - Janeiro.xlsx", res.Atribuicoes["liquidados"].Arquivo)
	assert.Equal(t, "Empenhos Pagos Sintético.xlsx", res.Atribuicoes["pagos"].Arquivo)
	assert.Equal(t, "Relação Mensal Empenhos Emitidos.xlsx", res.Atribuicoes["emitidos"].Arquivo)
	assert.Equal(t, "Relação de Empenhos a Pagar.xlsx", res.Atribuicoes["aPagar"].Arquivo)
	assert.Equal(t, "Retenção Final.xlsx", res.Atribuicoes["retidos"].Arquivo)
	assert.Equal(t, "Relação de Credores.xlsx", res.Atribuicoes["credores"].Arquivo)
	assert.Equal(t, "Balancete da Despesa.xlsx", res.Atribuicoes["balancete"].Arquivo)
	assert.Equal(t, "Relatório da Despesa por Natureza Consolidado.xlsx", res.Atribuicoes["detalhamento"].Arquivo)
	// Simples é opcional: ausente sem entrar em Faltantes
	_, temSimples := res.Atribuicoes["simples"]
	assert.False(t, temSimples)
	assert.GreaterOrEqual(t, res.Atribuicoes["liquidados"].Score, LimiarDeteccao)
}

func TestAutoDetectarAntiPalavra(t *testing.T) {
	assert.Equal(t, 0, scoreNome("Retenção Consignados Analítico.xlsx", alvosDeteccao[4]))
	assert.Greater(t, scoreNome("Retenção Separada.xlsx", alvosDeteccao[4]), LimiarDeteccao)
}

func TestAutoDetectarFaltanteComSugestao(t *testing.T) {
	nomes := []string{
		"Relação de Empenhos Liquidados.xlsx",
		"Empenhos Pagos Sintético.xlsx",
		"Relação Mensal Empenhos Emitidos.xlsx",
		"Relação de Empenhos a Pagar.xlsx",
		"Retncao do mês.xlsx", // typo: não atinge o limiar
	}
	res := AutoDetectar(nomes)

	require.Contains(t, res.Faltantes, "Empenhos retidos")
	// Único arquivo não usado vira a sugestão
	assert.Equal(t, "Retncao do mês.xlsx", res.Sugestoes["Empenhos retidos"])
}

// ---------------------- orquestrador ----------------------

func TestExecutar(t *testing.T) {
	m := Matrices{
		Liquidados: matrix.Matrix{
			{"Data", "Nr emp.", "Seq. liq.", "Despesa", "Credor/Fornecedor", "Valor (R$)"},
			{"01/01/2024", "10/2024", "100", "3390 - Material de consumo", "123 - EMPRESA A LTDA", 100.556},
		},
		Pagos: matrix.Matrix{
			{"Data", "Nr emp.", "Seq. Liq.", "Credor", "Valor (R$)"},
			{"01/01/2024", "10/2024", "100", "123 - EMPRESA A LTDA", 50.0},
		},
		Emitidos: matrix.Matrix{
			{"Data", "Nr emp.", "Credor/Fornecedor", "Valor (R$)", "Despesa"},
			{"01/01/2024", "10/2024", "123 - EMPRESA A LTDA", 30.0, "3390 - Material de consumo"},
		},
		APagar: matrix.Matrix{
			{"Data", "Nr emp.", "Seq. Liq.", "Credor/Fornecedor", "Valor (R$)"},
			{"01/01/2024", "10/2024", "100", "123 - EMPRESA A LTDA", 20.0},
		},
		Retidos: matrix.Matrix{
			retHeader(),
			retRow("100", "INSS", 50, 200),
		},
		RetidosSheets: retSheetsFixture(),
		Credores: matrix.Matrix{
			{"Código", "Credor/Fornecedor", "CPF/CNPJ", "Cidade - UF", "CPF_CNPJ", "Tipo"},
			{"123", "EMPRESA A LTDA", "12.345.678/0001-90", "Caruaru - PE", "12345678000190", "CNPJ"},
		},
		Detalhamento: matrix.Matrix{
			{"Descrição", "Detalhamento"},
			{"Material de consumo", "Materiais diversos"},
		},
	}

	var fases []int
	res, err := Executar(m, Options{}, func(fase int, msg string) { fases = append(fases, fase) })
	require.NoError(t, err)

	assert.Equal(t, []string{"despesa", "retencoes", "credores", "balancete", "detalhamento"}, res.Fases)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, fases)

	require.Len(t, res.Abas, 5)
	var nomes []string
	for _, aba := range res.Abas {
		nomes = append(nomes, aba.Name)
	}
	assert.Equal(t, []string{"Emp. Liquidados", "Emp. Pagos", "Emp. Emitidos", "Empenhos a pagar", "Empenhos retidos"}, nomes)
	assert.Equal(t, colunasPercentuais, res.Abas[0].PercentCols)

	liq := res.Abas[0].Data
	header := liq[0]
	assert.Equal(t, 80.0, liq[1][colIdx(t, header, "Ret Total")])
	assert.Equal(t, "Caruaru - PE", liq[1][colIdx(t, header, "Município")])
	assert.Equal(t, "Materiais diversos", liq[1][colIdx(t, header, "Detalhamento despesa")])
	// Arredondamento final da coluna monetária
	assert.Equal(t, 100.56, liq[1][colIdx(t, header, "Valor (R$)")])

	// Fase 0 propagou a Despesa dos Liquidados para Pagos e Retidos
	pag := res.Abas[1].Data
	assert.Equal(t, "3390 - Material de consumo", pag[1][colIdx(t, pag[0], "Despesa")])
	ret := res.Abas[4].Data
	assert.Equal(t, "3390 - Material de consumo", ret[1][colIdx(t, ret[0], "Despesa")])
}

func TestExecutarModoV2(t *testing.T) {
	base := matrix.Matrix{
		{"Data", "Nr emp.", "Credor/Fornecedor", "Valor (R$)"},
		{"01/01/2024", "10/2024", "123 - EMPRESA A", 10.0},
	}
	m := Matrices{
		Liquidados: matrix.Clone(base),
		Pagos:      matrix.Clone(base),
		Emitidos:   matrix.Clone(base),
		APagar:     matrix.Clone(base),
		Consignados: matrix.Matrix{
			{"Data", "Nr emp.", "Credor/Fornecedor", "Tipo retenção", "Valor Retido (R$)"},
			{"01/01/2024", "90/2024", "123 - EMPRESA A", "INSS", 45.5},
		},
	}
	res, err := Executar(m, Options{SkipRetidos: true}, nil)
	require.NoError(t, err)

	assert.NotContains(t, res.Fases, "retencoes")
	assert.NotContains(t, res.Fases, "despesa")
	assert.Empty(t, res.Abas[0].PercentCols)
	// Quinta aba vem dos Consignados
	assert.Equal(t, "Empenhos retidos", res.Abas[4].Name)
	assert.Equal(t, "INSS", res.Abas[4].Data[1][3])
}

func TestExecutarMatrizObrigatoriaAusente(t *testing.T) {
	_, err := Executar(Matrices{}, Options{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "liquidados")
}
