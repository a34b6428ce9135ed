package crossref

import (
	"fmt"

	"github.com/cebdast/SEGIF-CARUARU/internal/matrix"
	"github.com/cebdast/SEGIF-CARUARU/internal/workbook"
)

// Matrices reúne as matrizes já transformadas que alimentam o cruzamento.
// Retidos é a aba GERAL; RetidosSheets é o workbook completo de retenções
// (GERAL, TOTAL, abas por tipo, LISTA, Planilha Bruta). Consignados substitui
// os retidos na quinta aba no modo V2. Simples é opcional.
type Matrices struct {
	Liquidados    matrix.Matrix
	Pagos         matrix.Matrix
	Emitidos      matrix.Matrix
	APagar        matrix.Matrix
	Retidos       matrix.Matrix
	RetidosSheets []workbook.OutputSheet
	Consignados   matrix.Matrix
	Credores      matrix.Matrix
	Simples       matrix.Matrix
	Balancete     matrix.Matrix
	Detalhamento  matrix.Matrix
}

// Options controla o orquestrador. SkipRetidos ativa o modo V2: a quinta aba
// vem dos Consignados e as fases de retenção são puladas.
type Options struct {
	SkipRetidos bool
}

// Progress recebe o número da fase e uma mensagem descritiva.
type Progress func(fase int, msg string)

// Resultado carrega as cinco abas finais e as fases aplicadas.
type Resultado struct {
	Abas  []workbook.OutputSheet
	Fases []string
}

// Nomes fixos das abas de saída.
var nomesAbas = []string{
	"Emp. Liquidados", "Emp. Pagos", "Emp. Emitidos", "Empenhos a pagar", "Empenhos retidos",
}

// Colunas percentuais formatadas como "0.00%" na escrita.
var colunasPercentuais = []string{"Ret Total %", "ISQN %", "IR %", "INSS %", "Outros %"}

var colunasArredondar = []string{"Valor (R$)", "Valor retido", "Valor"}

// Executar roda o pipeline de cruzamento completo na ordem fixa de fases:
// 0 Despesa nos Retidos/Pagos, 1 retenções, 2 credores, 3 balancete,
// 4 detalhamento, 5 Simples Nacional (opcional), e o arredondamento final das
// colunas monetárias. As matrizes são modificadas in-place; as abas devolvidas
// compartilham os dados delas.
func Executar(m Matrices, opts Options, progress Progress) (*Resultado, error) {
	log := progress
	if log == nil {
		log = func(int, string) {}
	}

	quintaAba := m.Retidos
	if opts.SkipRetidos {
		quintaAba = m.Consignados
	}

	for _, par := range []struct {
		nome string
		mat  matrix.Matrix
	}{
		{"liquidados", m.Liquidados}, {"pagos", m.Pagos},
		{"emitidos", m.Emitidos}, {"a pagar", m.APagar}, {"retidos", quintaAba},
	} {
		if len(par.mat) == 0 {
			return nil, fmt.Errorf("matriz obrigatória ausente no cruzamento: %s", par.nome)
		}
	}

	res := &Resultado{}
	fase := func(nome string) { res.Fases = append(res.Fases, nome) }

	if !opts.SkipRetidos {
		log(0, "Adicionando coluna Despesa ao Retidos e Pagos...")
		AdicionarDespesa(m.Retidos, m.Liquidados)
		AdicionarDespesa(m.Pagos, m.Liquidados)
		fase("despesa")

		log(1, "Cruzando com Retenções (Liquidados, Pagos, A Pagar)...")
		CruzarComRetidos(m.Liquidados, m.RetidosSheets, "Valor (R$)", ClassificarAba)
		CruzarComRetidos(m.Pagos, m.RetidosSheets, "Valor (R$)", ClassificarAba)
		CruzarComRetidos(m.APagar, m.RetidosSheets, "Valor (R$)", ClassificarAba)
		fase("retencoes")
	} else {
		log(0, "Modo V2 — pulando enriquecimento Retidos...")
		log(1, "Modo V2 — pulando cruzamento com Retenções...")
	}

	abas := []matrix.Matrix{m.Liquidados, m.Pagos, m.Emitidos, m.APagar, quintaAba}

	log(2, "Cruzando com Credores...")
	for _, aba := range abas {
		CruzarComCredores(aba, m.Credores)
	}
	fase("credores")

	log(3, "Cruzando com Balancete...")
	for _, aba := range abas {
		CruzarComBalancete(aba, m.Balancete)
	}
	fase("balancete")

	log(4, "Cruzando com Detalhamento...")
	for _, aba := range abas {
		CruzarComDetalhamento(aba, m.Detalhamento)
	}
	fase("detalhamento")

	if len(m.Simples) > 1 {
		log(5, "Cruzando com Simples Nacional...")
		for _, aba := range abas {
			CruzarComSimples(aba, m.Simples)
		}
		fase("simples")
	} else {
		log(5, "Simples Nacional não fornecido — pulando...")
	}

	log(6, "Formatando valores...")
	for _, aba := range abas {
		arredondarColunas(aba, colunasArredondar)
	}

	var pct []string
	if !opts.SkipRetidos {
		pct = colunasPercentuais
	}
	for i, aba := range abas {
		res.Abas = append(res.Abas, workbook.OutputSheet{
			Name:        nomesAbas[i],
			Data:        aba,
			PercentCols: pct,
		})
	}

	log(7, "Concluído!")
	return res, nil
}

// Workbook serializa o resultado no arquivo .xlsx final de 5 abas.
func (r *Resultado) Workbook() ([]byte, error) {
	return workbook.Write(r.Abas)
}

// arredondarColunas arredonda a 2 casas as colunas monetárias; texto numérico
// vira número no processo.
func arredondarColunas(m matrix.Matrix, nomes []string) {
	if len(m) < 2 {
		return
	}
	header := m[0]
	idxs := make([]int, len(nomes))
	for i, nome := range nomes {
		idxs[i] = matrix.FindColumn(header, nome)
	}
	for r := 1; r < len(m); r++ {
		row := m[r]
		for _, ci := range idxs {
			if ci < 0 || ci >= len(row) || row[ci] == nil {
				continue
			}
			switch v := row[ci].(type) {
			case float64:
				row[ci] = matrix.Round2(v)
			case string:
				if f, ok := parseFloatLoose(v); ok {
					row[ci] = matrix.Round2(f)
				}
			}
		}
	}
}
