package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmptyCell(t *testing.T) {
	assert.True(t, IsEmptyCell(nil))
	assert.True(t, IsEmptyCell(""))
	assert.True(t, IsEmptyCell("   "))
	assert.False(t, IsEmptyCell("x"))
	assert.False(t, IsEmptyCell(0.0))
}

func TestExtractDigits(t *testing.T) {
	assert.Equal(t, "12345678000190", ExtractDigits("12.345.678/0001-90"))
	assert.Equal(t, "123", ExtractDigits("abc123"))
	assert.Equal(t, "", ExtractDigits(nil))
	assert.Equal(t, "42", ExtractDigits(42.0))
}

func TestNormalizeMatrixIsRectangular(t *testing.T) {
	m := Matrix{
		{"a", "b", "c"},
		{"x"},
		{},
	}
	m = NormalizeMatrix(m)
	for _, row := range m {
		assert.Len(t, row, 3)
	}
	assert.Nil(t, m[1][2])
}

func TestFillDown(t *testing.T) {
	m := Matrix{
		{"Data", "Valor"},
		{"01/01/2025", 10.0},
		{nil, 20.0},
		{"", 30.0},
		{"02/01/2025", 40.0},
		{nil, 50.0},
	}
	FillDown(m, 0, 1)

	assert.Equal(t, "01/01/2025", m[2][0])
	assert.Equal(t, "01/01/2025", m[3][0])
	assert.Equal(t, "02/01/2025", m[5][0])
	// Cabeçalho intacto
	assert.Equal(t, "Data", m[0][0])
}

func TestFillDownIdempotent(t *testing.T) {
	m := Matrix{
		{"h"},
		{"a"},
		{nil},
		{"b"},
		{nil},
	}
	FillDown(m, 0, 1)
	snapshot := Clone(m)
	FillDown(m, 0, 1)
	assert.Equal(t, snapshot, m)
}

func TestFillDownSeedsFromRowsAboveStart(t *testing.T) {
	m := Matrix{
		{"seed"},
		{nil},
		{nil},
	}
	FillDown(m, 0, 1)
	assert.Equal(t, "seed", m[1][0])
	assert.Equal(t, "seed", m[2][0])
}

func TestRemoveEmptyRows(t *testing.T) {
	m := Matrix{
		{"h1", "h2"},
		{nil, ""},
		{"a", nil},
		{"", "   "},
	}
	out := RemoveEmptyRows(m, 1)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[1][0])
}

func TestRemoveEmptyColumns(t *testing.T) {
	m := Matrix{
		{"h1", "h2", "h3"},
		{"a", nil, "c"},
		{"b", "", "d"},
	}
	out := RemoveEmptyColumns(m)
	require.Len(t, out[0], 2)
	assert.Equal(t, "h1", out[0][0])
	assert.Equal(t, "h3", out[0][1])
	assert.Equal(t, "c", out[1][1])
}

func TestDeleteAndInsertColumn(t *testing.T) {
	m := Matrix{
		{"a", "b", "c"},
		{1.0, 2.0, 3.0},
	}
	DeleteColumn(m, 1)
	require.Len(t, m[0], 2)
	assert.Equal(t, "c", m[0][1])

	InsertColumn(m, 1)
	require.Len(t, m[0], 3)
	assert.Nil(t, m[0][1])
	assert.Equal(t, "c", m[0][2])
	assert.Equal(t, 3.0, m[1][2])
}

func TestDeleteColumnsDescendingOrder(t *testing.T) {
	m := Matrix{
		{"a", "b", "c", "d"},
	}
	DeleteColumns(m, []int{1, 3})
	require.Len(t, m[0], 2)
	assert.Equal(t, "a", m[0][0])
	assert.Equal(t, "c", m[0][1])
}

func TestSafeGetSafeSet(t *testing.T) {
	m := Matrix{{"a"}}
	assert.Nil(t, SafeGet(m, 5, 5))
	assert.Nil(t, SafeGet(m, -1, 0))

	SafeSet(&m, 2, 3, "x")
	assert.Equal(t, "x", m[2][3])
	assert.Equal(t, "a", m[0][0])
}

func TestKeepColumns(t *testing.T) {
	m := Matrix{
		{"Data", "Nr emp.", "Valor"},
		{"01/01/2025", "235", 10.0},
	}
	out := KeepColumns(m, m[0], []string{"valor", "Data"})
	require.Len(t, out[0], 2)
	assert.Equal(t, "Valor", out[0][0])
	assert.Equal(t, "Data", out[0][1])
	assert.Equal(t, 10.0, out[1][0])
}
