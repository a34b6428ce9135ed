package pipeline

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cebdast/SEGIF-CARUARU/internal/core/transform"
	"github.com/cebdast/SEGIF-CARUARU/internal/matrix"
	"github.com/cebdast/SEGIF-CARUARU/internal/workbook"
)

func TestTransformFileFormatoInvalido(t *testing.T) {
	svc := NewService(nil)
	_, _, err := svc.TransformFile(strings.NewReader(""), "qualquer.xlsx", transform.Format("inexistente"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "desconhecido")
}

func TestTransformFileCredores(t *testing.T) {
	input, err := workbook.Write([]workbook.OutputSheet{{
		Name: "Credores",
		Data: matrix.Matrix{
			{"Código", "Credor/Fornecedor", "CPF/CNPJ", "Cidade - UF"},
			{"123", "EMPRESA A LTDA", "12.345.678/0001-90", "Caruaru - PE"},
			{"456", "FULANO DE TAL", "123.456.789-01", "Recife - PE"},
			{"789", "SEM DOCUMENTO", "000", "Caruaru - PE"},
		},
	}})
	require.NoError(t, err)

	svc := NewService(nil)
	output, stats, err := svc.TransformFile(bytes.NewReader(input), "Relação de Credores.xlsx", transform.FormatCredores)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.LinhasOriginal)
	assert.Equal(t, 2, stats.LinhasFinal)

	sheets, err := workbook.Load(bytes.NewReader(output), "saida.xlsx", workbook.LoadOptions{})
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	assert.Equal(t, "Resultado", sheets[0].Name)

	m := sheets[0].Data
	require.Len(t, m, 3)
	assert.Equal(t, "Código", m[0][0])
	assert.Equal(t, "Tipo", m[0][5])
	assert.Equal(t, "12345678000190", m[1][4])
	assert.Equal(t, "CNPJ", m[1][5])
	assert.Equal(t, "CPF", m[2][5])
}

func TestDetectRoles(t *testing.T) {
	svc := NewService(nil)
	res := svc.DetectRoles([]string{"Relação de Credores.xlsx"})
	require.Contains(t, res.Atribuicoes, "credores")
	assert.Contains(t, res.Faltantes, "Emp. Liquidados")
}

func TestCruzamentoArquivosFaltantes(t *testing.T) {
	svc := NewService(nil)
	files := []NamedFile{{Name: "notas.pdf", Reader: strings.NewReader("")}}
	_, _, err := svc.Cruzamento(files, CruzamentoOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "não identificados")
}
