package transform

import (
	"fmt"
	"strings"

	"github.com/cebdast/SEGIF-CARUARU/internal/matrix"
	"github.com/cebdast/SEGIF-CARUARU/internal/workbook"
)

// Colunas finais da relação de credores.
var credoresColunasFinais = []string{
	"Código", "Credor/Fornecedor", "CPF/CNPJ", "Cidade - UF", "CPF_CNPJ", "Tipo",
}

// Credores transforma a Relação de Credores/Fornecedores: extrai CPF/CNPJ
// como apenas dígitos (válido com 11 ou 14), classifica o Tipo, descarta
// linhas sem documento válido e mantém só as colunas de interesse.
func Credores(sheets []workbook.Sheet) (*Result, error) {
	m := sheets[0].Data
	if len(m) < 2 {
		return nil, fmt.Errorf("planilha vazia ou sem dados")
	}

	header := m[0]
	colCpfCnpj := matrix.FindColumn(header, "CPF/CNPJ")
	if colCpfCnpj == -1 {
		return nil, fmt.Errorf("coluna \"CPF/CNPJ\" não encontrada; colunas disponíveis: [%s]",
			joinHeader(header))
	}

	resultado := matrix.Matrix{append(append([]any{}, header...), "CPF_CNPJ", "Tipo")}
	for r := 1; r < len(m); r++ {
		row := m[r]
		digits := matrix.ExtractDigits(matrix.SafeGet(m, r, colCpfCnpj))
		if len(digits) != 11 && len(digits) != 14 {
			continue
		}
		tipo := "CNPJ"
		if len(digits) == 11 {
			tipo = "CPF"
		}
		resultado = append(resultado, append(append([]any{}, row...), digits, tipo))
	}

	final := matrix.KeepColumns(resultado, resultado[0], credoresColunasFinais)

	return &Result{
		Matrix: final,
		Sheets: []workbook.OutputSheet{{Name: "Resultado", Data: final}},
		Stats:  stats(len(m)-1, len(final)-1),
	}, nil
}

func joinHeader(header []any) string {
	parts := make([]string, len(header))
	for i, h := range header {
		parts[i] = matrix.CellString(h)
	}
	return strings.Join(parts, ", ")
}
