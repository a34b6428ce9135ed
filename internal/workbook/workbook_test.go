package workbook

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cebdast/SEGIF-CARUARU/internal/matrix"
)

func buildFixture(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "Unidade gestora: 1001"))
	require.NoError(t, f.MergeCell(sheet, "A1", "C1"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "Data"))
	require.NoError(t, f.SetCellValue(sheet, "B2", "Nr emp."))
	require.NoError(t, f.SetCellValue(sheet, "C2", "Valor"))
	require.NoError(t, f.SetCellValue(sheet, "A3", "01/01/2025"))
	require.NoError(t, f.SetCellValue(sheet, "B3", "235"))
	require.NoError(t, f.SetCellValue(sheet, "C3", 1234.56))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestLoadFillsMergedRegions(t *testing.T) {
	data := buildFixture(t)

	sheets, err := Load(bytes.NewReader(data), "retidos.xlsx", LoadOptions{Raw: true})
	require.NoError(t, err)
	require.Len(t, sheets, 1)

	m := sheets[0].Data
	// Região mesclada A1:C1 replicada
	assert.Equal(t, "Unidade gestora: 1001", m[0][0])
	assert.Equal(t, "Unidade gestora: 1001", m[0][1])
	assert.Equal(t, "Unidade gestora: 1001", m[0][2])
}

func TestLoadRawTypesNumbers(t *testing.T) {
	data := buildFixture(t)

	sheets, err := Load(bytes.NewReader(data), "arq.xlsx", LoadOptions{Raw: true})
	require.NoError(t, err)

	m := sheets[0].Data
	assert.Equal(t, 1234.56, m[2][2])
	// Texto com barras permanece string
	assert.Equal(t, "01/01/2025", m[2][0])
	assert.Equal(t, 235.0, m[2][1])
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte("nada a ver")), "arquivo.txt", LoadOptions{})
	require.Error(t, err)
}

func TestWriteRoundTrip(t *testing.T) {
	out, err := Write([]OutputSheet{
		{
			Name: "Emp. Liquidados",
			Data: matrix.Matrix{
				{"Credor", "Valor (R$)", "Ret Total %"},
				{"FORNECEDOR A", 150.5, 0.25},
			},
			PercentCols: []string{"Ret Total %"},
		},
		{
			Name: "Emp. Pagos",
			Data: matrix.Matrix{
				{"Credor"},
				{"FORNECEDOR B"},
			},
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Emp. Liquidados", "Emp. Pagos"}, f.GetSheetList())

	v, err := f.GetCellValue("Emp. Liquidados", "A2")
	require.NoError(t, err)
	assert.Equal(t, "FORNECEDOR A", v)

	raw, err := f.GetCellValue("Emp. Liquidados", "C2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "0.25", raw)

	v, err = f.GetCellValue("Emp. Pagos", "A2")
	require.NoError(t, err)
	assert.Equal(t, "FORNECEDOR B", v)
}
