package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "unidade orcamentaria", NormalizeText("  Unidade Orçamentária "))
	assert.Equal(t, "credor/fornecedor", NormalizeText("CREDOR/FORNECEDOR"))
	assert.Equal(t, "", NormalizeText(nil))
	assert.Equal(t, "", NormalizeText("   "))
}

func TestParseBRFloat(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{"1.234,56", 1234.56},
		{"R$ 1.234,56", 1234.56},
		{"1234,56", 1234.56},
		{"30.000", 30000},
		{"30.00", 30.00},
		{"1.5", 1.5},
		{"-2,50", -2.50},
		{1234.56, 1234.56},
		{"abc", 0},
		{nil, 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseBRFloat(tt.in), "entrada %v", tt.in)
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.57, Round2(10.567))
	assert.Equal(t, 10.0, Round2(10.004))
	assert.Equal(t, -3.13, Round2(-3.125))
}

func TestExcelDateToString(t *testing.T) {
	// 45292 = 01/01/2024
	assert.Equal(t, "01/01/2024", ExcelDateToString(45292.0))
	// Serial baixo, antes do bug de 1900
	assert.Equal(t, "01/01/1900", ExcelDateToString(1.0))
	// Strings já formatadas passam intactas
	assert.Equal(t, "15/03/2025", ExcelDateToString("15/03/2025"))
	// ISO é reformatada
	assert.Equal(t, "15/03/2025", ExcelDateToString("2025-03-15"))
	assert.Equal(t, "15/03/2025", ExcelDateToString("2025-03-15T00:00:00"))
	// Conteúdo não-data volta sem alteração
	assert.Equal(t, "texto", ExcelDateToString("texto"))
	assert.Equal(t, 150000.0, ExcelDateToString(150000.0))
}

func TestFindColumn(t *testing.T) {
	header := []any{"Data", "Nr emp.", "Credor/Fornecedor", "Valor (R$)"}
	assert.Equal(t, 2, FindColumn(header, "credor"))
	assert.Equal(t, 3, FindColumn(header, "Valor"))
	assert.Equal(t, -1, FindColumn(header, "inexistente"))

	assert.Equal(t, 1, FindColumnExact(header, "Nr emp."))
	assert.Equal(t, -1, FindColumnExact(header, "Nr emp"))
}

func TestFindColMulti(t *testing.T) {
	header := []any{"Data", "Av. liquid", "Valor"}
	assert.Equal(t, 1, FindColMulti(header, []string{"Seq. Liq.", "Av.liquidação", "Av. liquid"}, 3))
	assert.Equal(t, 7, FindColMulti(header, []string{"nada", "nadinha"}, 7))
}

func TestDetectHeaderRow(t *testing.T) {
	m := Matrix{
		{"Relatório de Empenhos", nil, nil},
		{"Período: 01/2025", nil, nil},
		{"Data", "Nr Empenho", "Credor", "Valor (R$)", "Unidade Gestora"},
		{"01/01/2025", "1", "A", 10.0, "PREFEITURA"},
	}
	assert.Equal(t, 2, DetectHeaderRow(m, nil))
}

func TestDetectHeaderRowFallsBackToZero(t *testing.T) {
	m := Matrix{
		{"x", "y"},
		{"1", "2"},
	}
	assert.Equal(t, 0, DetectHeaderRow(m, nil))
}

func TestFormatNrEmpWithYear(t *testing.T) {
	m := Matrix{
		{"Data", "Nr emp."},
		{"15/01/2025", "235"},
		{"15/01/2025", "236/2024"},
		{"2025-02-01", "300"},
		{nil, "400"},
	}
	FormatNrEmpWithYear(m, 1, 0, 1)
	assert.Equal(t, "235/2025", m[1][1])
	assert.Equal(t, "236/2024", m[2][1])
	assert.Equal(t, "300/2025", m[3][1])
	assert.Equal(t, "400", m[4][1])
}
