package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T) *ColTracker {
	t.Helper()
	return NewColTracker([]any{"Data", "Nr emp.", "", "Valor", nil})
}

func TestColTrackerIdx(t *testing.T) {
	ct := newTestTracker(t)

	idx, err := ct.Idx("data")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	idx, err = ct.Idx("Valor")
	require.NoError(t, err)
	assert.Equal(t, 3, idx)

	_, err = ct.Idx("inexistente")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colunas disponíveis")
}

func TestColTrackerSynthesizesEmptyNames(t *testing.T) {
	ct := newTestTracker(t)
	assert.Equal(t, "_empty_0", ct.NameAt(2))
	assert.Equal(t, "_empty_1", ct.NameAt(4))
	assert.Equal(t, 5, ct.Len())
}

func TestColTrackerIdxOf(t *testing.T) {
	ct := newTestTracker(t)

	idx, err := ct.IdxOf("Seq. Liq.", "Nr emp.")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = ct.IdxOf("a", "b")
	require.Error(t, err)
}

func TestColTrackerInsertRemoveRename(t *testing.T) {
	ct := newTestTracker(t)

	ct.InsertAt(1, "Unidade gestora")
	idx, err := ct.Idx("Nr emp.")
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	removed, err := ct.Remove("Unidade gestora")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	ct.Rename("Nr emp.", "Nr empenho")
	assert.Equal(t, -1, ct.TryIdx("Nr emp."))
	idx, err = ct.Idx("Nr empenho")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestTrackedOperationsKeepMatrixAndTrackerAligned(t *testing.T) {
	m := Matrix{
		{"Data", "Nr emp.", "Espécie", "Valor"},
		{"01/01/2025", "1", "Ordinário", 10.0},
	}
	ct := NewColTracker(m[0])

	require.NoError(t, TrackedDeleteCol(m, ct, "Espécie"))
	assert.Equal(t, []string{"Data", "Nr emp.", "Valor"}, ct.Names())
	assert.Equal(t, 10.0, m[1][2])

	TrackedInsertCol(m, ct, 1, "Unidade gestora")
	assert.Equal(t, "Unidade gestora", m[0][1])
	idx, err := ct.Idx("Valor")
	require.NoError(t, err)
	assert.Equal(t, 3, idx)
	assert.Equal(t, 10.0, m[1][3])

	TrackedDeleteAt(m, ct, 0)
	assert.Equal(t, []string{"Unidade gestora", "Nr emp.", "Valor"}, ct.Names())
	assert.Equal(t, "Unidade gestora", m[0][0])
}
