package core

import (
	"errors"
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrUnknownColumn   = errors.New("unknown column")
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrShape           = errors.New("shape mismatch")
)

// Frame is a feature matrix: rows are samples, columns are named features.
// A Frame is never mutated after construction; every operation returns a copy.
type Frame struct {
	r, c  int
	names []string
	index map[string]int
	data  *mat.Dense // nil when r == 0 or c == 0
}

// NewFrame wraps data with column names. A nil names slice yields positional
// names "0", "1", ... The dense matrix is copied.
func NewFrame(names []string, data mat.Matrix) (*Frame, error) {
	r, c := 0, len(names)
	if data != nil {
		r, c = data.Dims()
	}
	if names == nil {
		names = positional(c)
	}
	if len(names) != c {
		return nil, fmt.Errorf("%w: %d names for %d columns", ErrShape, len(names), c)
	}

	f := &Frame{r: r, c: c, names: make([]string, c), index: make(map[string]int, c)}
	copy(f.names, names)
	for j, n := range f.names {
		if _, ok := f.index[n]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, n)
		}
		f.index[n] = j
	}
	if r > 0 && c > 0 {
		f.data = mat.DenseCopyOf(data)
	}
	return f, nil
}

// FromRows builds a Frame from a nested slice (copies the values).
func FromRows(names []string, rows [][]float64) (*Frame, error) {
	if len(rows) == 0 {
		return NewFrame(names, nil)
	}

	c := len(rows[0])
	if c == 0 {
		return emptyFrame(len(rows), names)
	}
	m := mat.NewDense(len(rows), c, nil)
	for i, row := range rows {
		if len(row) != c {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrShape, i, len(row), c)
		}
		m.SetRow(i, row)
	}
	return NewFrame(names, m)
}

// FromColumns builds a Frame from column vectors.
func FromColumns(names []string, cols [][]float64) (*Frame, error) {
	if len(cols) == 0 || len(cols[0]) == 0 {
		if names == nil {
			names = positional(len(cols))
		}
		if len(names) != len(cols) {
			return nil, fmt.Errorf("%w: %d names for %d columns", ErrShape, len(names), len(cols))
		}
		return NewFrame(names, nil)
	}

	r := len(cols[0])
	m := mat.NewDense(r, len(cols), nil)
	for j, col := range cols {
		if len(col) != r {
			return nil, fmt.Errorf("%w: column %d has %d values, want %d", ErrShape, j, len(col), r)
		}
		m.SetCol(j, col)
	}
	return NewFrame(names, m)
}

// Dims returns the number of rows and columns.
func (f *Frame) Dims() (r, c int) { return f.r, f.c }

// Names returns a copy of the column names in order.
func (f *Frame) Names() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// Name returns the name of column j.
func (f *Frame) Name(j int) string { return f.names[j] }

// Index returns the position of the named column.
func (f *Frame) Index(name string) (int, bool) {
	j, ok := f.index[name]
	return j, ok
}

// At returns element (i, j).
func (f *Frame) At(i, j int) float64 { return f.data.At(i, j) }

// Col returns a copy of column j.
func (f *Frame) Col(j int) []float64 {
	if f.data == nil {
		return make([]float64, f.r)
	}
	return mat.Col(nil, j, f.data)
}

// Row returns a copy of row i.
func (f *Frame) Row(i int) []float64 {
	if f.data == nil {
		return make([]float64, f.c)
	}
	return mat.Row(nil, i, f.data)
}

// Dense returns a copy of the underlying values, or nil for an empty frame.
func (f *Frame) Dense() *mat.Dense {
	if f.data == nil {
		return nil
	}
	return mat.DenseCopyOf(f.data)
}

// Select returns a new Frame with exactly the named columns, in the given order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	idx := make([]int, len(names))
	for k, n := range names {
		j, ok := f.index[n]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, n)
		}
		idx[k] = j
	}
	return f.SelectIndices(idx...)
}

// SelectIndices returns a new Frame with the columns at the given positions.
func (f *Frame) SelectIndices(idx ...int) (*Frame, error) {
	names := make([]string, len(idx))
	for k, j := range idx {
		if j < 0 || j >= f.c {
			return nil, fmt.Errorf("%w: index %d out of range [0, %d)", ErrUnknownColumn, j, f.c)
		}
		names[k] = f.names[j]
	}
	if f.r == 0 || len(idx) == 0 {
		return emptyFrame(f.r, names)
	}

	m := mat.NewDense(f.r, len(idx), nil)
	for k, j := range idx {
		m.SetCol(k, f.Col(j))
	}
	return NewFrame(names, m)
}

func positional(c int) []string {
	names := make([]string, c)
	for j := 0; j < c; j++ {
		names[j] = strconv.Itoa(j)
	}
	return names
}

// emptyFrame builds a frame with r rows and no stored values.
func emptyFrame(r int, names []string) (*Frame, error) {
	f, err := NewFrame(names, nil)
	if err != nil {
		return nil, err
	}
	f.r = r
	return f, nil
}
