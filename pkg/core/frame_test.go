package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFrame(t *testing.T) *Frame {
	t.Helper()
	f, err := FromRows([]string{"a", "b", "c"}, [][]float64{
		{1, 2, 3},
		{4, 5, 6},
	})
	require.NoError(t, err)
	return f
}

func TestFromRows(t *testing.T) {
	f := sampleFrame(t)

	r, c := f.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, []string{"a", "b", "c"}, f.Names())
	assert.Equal(t, []float64{2, 5}, f.Col(1))
	assert.Equal(t, []float64{4, 5, 6}, f.Row(1))
	assert.Equal(t, 6.0, f.At(1, 2))

	j, ok := f.Index("c")
	assert.True(t, ok)
	assert.Equal(t, 2, j)
	_, ok = f.Index("z")
	assert.False(t, ok)
}

func TestFromRowsErrors(t *testing.T) {
	_, err := FromRows(nil, [][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, ErrShape)

	_, err = FromRows([]string{"a"}, [][]float64{{1, 2}})
	assert.ErrorIs(t, err, ErrShape)

	_, err = FromRows([]string{"a", "a"}, [][]float64{{1, 2}})
	assert.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestPositionalNames(t *testing.T) {
	f, err := FromColumns(nil, [][]float64{{1, 2}, {3, 4}, {5, 6}})
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2"}, f.Names())
	assert.Equal(t, []float64{3, 4}, f.Col(1))
}

func TestSelect(t *testing.T) {
	f := sampleFrame(t)

	got, err := f.Select("c", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, got.Names())
	assert.Equal(t, []float64{3, 1}, got.Row(0))
	assert.Equal(t, []float64{6, 4}, got.Row(1))

	// the source frame is untouched
	assert.Equal(t, []string{"a", "b", "c"}, f.Names())

	_, err = f.Select("a", "missing")
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, err = f.SelectIndices(3)
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestSelectNothingKeepsRows(t *testing.T) {
	f := sampleFrame(t)

	got, err := f.Select()
	require.NoError(t, err)
	r, c := got.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 0, c)
	assert.Nil(t, got.Dense())
}

func TestNamesReturnsCopy(t *testing.T) {
	f := sampleFrame(t)
	names := f.Names()
	names[0] = "mutated"
	assert.Equal(t, "a", f.Name(0))
}
