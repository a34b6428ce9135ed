package crossref

import (
	"regexp"
	"strings"

	"github.com/schollz/closestmatch"

	"github.com/cebdast/SEGIF-CARUARU/internal/domain"
	"github.com/cebdast/SEGIF-CARUARU/internal/matrix"
)

// Papel identifica a função de um arquivo no cruzamento.
type Papel string

const (
	PapelLiquidados   Papel = "liquidados"
	PapelPagos        Papel = "pagos"
	PapelEmitidos     Papel = "emitidos"
	PapelAPagar       Papel = "aPagar"
	PapelRetidos      Papel = "retidos"
	PapelCredores     Papel = "credores"
	PapelSimples      Papel = "simples"
	PapelBalancete    Papel = "balancete"
	PapelDetalhamento Papel = "detalhamento"
)

type alvoDeteccao struct {
	papel        Papel
	label        string
	gruposFortes [][]string
	palavras     []string
	antiPalavras []string
	obrigatorio  bool
}

var alvosDeteccao = []alvoDeteccao{
	{
		papel:        PapelLiquidados,
		label:        "Emp. Liquidados",
		gruposFortes: [][]string{{"liquidados"}},
		palavras:     []string{"relacao", "empenhos", "liquidados", "movimento", "mensal", "completo", "final"},
		obrigatorio:  true,
	},
	{
		papel:        PapelPagos,
		label:        "Emp. Pagos",
		gruposFortes: [][]string{{"pagos", "sintetico"}, {"empenhos", "pagos"}},
		palavras:     []string{"empenhos", "pagos", "sintetico", "relacao"},
		obrigatorio:  true,
	},
	{
		papel:        PapelEmitidos,
		label:        "Emp. Emitidos",
		gruposFortes: [][]string{{"empenhos", "emitidos"}},
		palavras:     []string{"empenhos", "emitidos", "relacao", "mensal"},
		obrigatorio:  true,
	},
	{
		papel:        PapelAPagar,
		label:        "Empenhos a pagar",
		gruposFortes: [][]string{{"empenhos", "pagar"}},
		palavras:     []string{"relacao", "empenhos", "pagar", "a"},
		obrigatorio:  true,
	},
	{
		papel:        PapelRetidos,
		label:        "Empenhos retidos",
		gruposFortes: [][]string{{"retencao"}, {"retencoes"}, {"retencao", "separada"}, {"retencao", "final"}},
		palavras:     []string{"retencao", "retencoes", "reten", "final", "separada"},
		antiPalavras: []string{"consignados", "analitico"},
		obrigatorio:  true,
	},
	{
		papel:        PapelCredores,
		label:        "Credores",
		gruposFortes: [][]string{{"credores"}, {"fornecedores"}},
		palavras:     []string{"relacao", "credores", "fornecedores", "credor"},
		obrigatorio:  true,
	},
	{
		papel:        PapelSimples,
		label:        "Simples Nacional (opcional)",
		gruposFortes: [][]string{{"simples", "nacional"}, {"simples"}},
		palavras:     []string{"simples", "nacional", "resultado", "planilha"},
		obrigatorio:  false,
	},
	{
		papel:        PapelBalancete,
		label:        "Balancete",
		gruposFortes: [][]string{{"balancete", "despesa"}, {"balancete"}},
		palavras:     []string{"balancete", "despesa"},
		obrigatorio:  true,
	},
	{
		papel:        PapelDetalhamento,
		label:        "Detalhamento",
		gruposFortes: [][]string{{"detalhamento"}, {"despesa", "natureza"}, {"relatorio", "natureza", "consolidado"}},
		palavras:     []string{"despesa", "natureza", "detalhamento", "relatorio", "consolidado"},
		obrigatorio:  true,
	},
}

var reNomeSep = regexp.MustCompile(`[^a-z0-9]+`)

// normNomeArquivo normaliza um nome de arquivo para pontuação: minúsculas,
// sem acentos, pontuação vira espaço.
func normNomeArquivo(s string) string {
	n := matrix.NormalizeText(s)
	n = reNomeSep.ReplaceAllString(n, " ")
	return strings.TrimSpace(n)
}

// scoreNome pontua um nome de arquivo contra um alvo: +3 por palavra-chave,
// +25 por grupo forte completo; qualquer anti-palavra zera.
func scoreNome(nome string, alvo alvoDeteccao) int {
	n := normNomeArquivo(nome)
	for _, ap := range alvo.antiPalavras {
		if strings.Contains(n, normNomeArquivo(ap)) {
			return 0
		}
	}
	score := 0
	for _, p := range alvo.palavras {
		if strings.Contains(n, normNomeArquivo(p)) {
			score += 3
		}
	}
	for _, grupo := range alvo.gruposFortes {
		completo := true
		for _, g := range grupo {
			if !strings.Contains(n, normNomeArquivo(g)) {
				completo = false
				break
			}
		}
		if completo {
			score += 25
		}
	}
	return score
}

// LimiarDeteccao é a pontuação mínima para atribuir um arquivo a um papel.
const LimiarDeteccao = 25

func nomeElegivel(nome string) bool {
	low := strings.ToLower(nome)
	if strings.HasPrefix(nome, "~$") {
		return false
	}
	return strings.HasSuffix(low, ".xlsx") || strings.HasSuffix(low, ".xls") || strings.HasSuffix(low, ".xlsm")
}

// AutoDetectar atribui cada nome de arquivo a um papel do cruzamento:
// melhor pontuação acima do limiar, um arquivo por papel, na ordem fixa dos
// papéis. Papéis obrigatórios sem arquivo entram em Faltantes, com uma
// sugestão aproximada do arquivo mais próximo quando houver candidatos.
func AutoDetectar(nomes []string) domain.DetectionResult {
	res := domain.DetectionResult{
		Atribuicoes: map[string]domain.RoleScore{},
		Sugestoes:   map[string]string{},
	}
	usados := map[string]bool{}

	for _, alvo := range alvosDeteccao {
		melhor := ""
		melhorScore := 0
		for _, nome := range nomes {
			if usados[nome] || !nomeElegivel(nome) {
				continue
			}
			if score := scoreNome(nome, alvo); score > melhorScore {
				melhorScore = score
				melhor = nome
			}
		}
		if melhor != "" && melhorScore >= LimiarDeteccao {
			res.Atribuicoes[string(alvo.papel)] = domain.RoleScore{Arquivo: melhor, Score: melhorScore}
			usados[melhor] = true
		} else if alvo.obrigatorio {
			res.Faltantes = append(res.Faltantes, alvo.label)
			if sugestao := sugerirArquivo(alvo, nomes, usados); sugestao != "" {
				res.Sugestoes[alvo.label] = sugestao
			}
		}
	}
	return res
}

// sugerirArquivo busca, por similaridade de n-gramas, o nome de arquivo mais
// próximo do vocabulário do papel não atendido.
func sugerirArquivo(alvo alvoDeteccao, nomes []string, usados map[string]bool) string {
	var candidatos []string
	normPorNome := map[string]string{}
	for _, nome := range nomes {
		if usados[nome] || !nomeElegivel(nome) {
			continue
		}
		n := normNomeArquivo(nome)
		candidatos = append(candidatos, n)
		if _, ok := normPorNome[n]; !ok {
			normPorNome[n] = nome
		}
	}
	if len(candidatos) == 0 {
		return ""
	}
	cm := closestmatch.New(candidatos, []int{2, 3, 4})
	consulta := strings.Join(alvo.palavras, " ")
	return normPorNome[cm.Closest(consulta)]
}
