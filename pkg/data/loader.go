package data

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/dmerty/ds-help-utils/pkg/core"
)

var (
	ErrNoHeader     = errors.New("csv has no header row")
	ErrMissingValue = errors.New("missing value")
)

// ParseError reports a cell that is not a number.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %q: cannot parse %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// missing reports cells that load as NaN.
func missing(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "NA", "NaN", "nan", "null":
		return true
	}
	return false
}

// ReadFrame reads a CSV whose first row holds the column names.
func ReadFrame(r io.Reader) (*core.Frame, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	names := make([]string, len(header))
	for j, h := range header {
		names[j] = strings.TrimSpace(h)
	}

	var rows [][]float64
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		line, _ := reader.FieldPos(0)

		row := make([]float64, len(rec))
		for j, s := range rec {
			if missing(s) {
				row[j] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, &ParseError{Line: line, Column: names[j], Value: s, Err: err}
			}
			row[j] = v
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return core.FromColumns(names, make([][]float64, len(names)))
	}
	return core.FromRows(names, rows)
}

// LoadFrame reads a CSV file with ReadFrame.
func LoadFrame(path string) (*core.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	f, err := ReadFrame(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// WriteFrame writes f as CSV with a header row. NaN is written as an empty cell.
func WriteFrame(w io.Writer, f *core.Frame) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(f.Names()); err != nil {
		return err
	}

	r, c := f.Dims()
	rec := make([]string, c)
	for i := 0; i < r; i++ {
		for j, v := range f.Row(i) {
			if math.IsNaN(v) {
				rec[j] = ""
				continue
			}
			rec[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := writer.Write(rec); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadRanking reads true labels and scores from two named columns of a CSV.
// A missing label or score is a *ParseError wrapping ErrMissingValue.
func ReadRanking(r io.Reader, labelCol, scoreCol string) (yTrue, yScore []float64, err error) {
	f, err := ReadFrame(r)
	if err != nil {
		return nil, nil, err
	}

	lj, ok := f.Index(labelCol)
	if !ok {
		return nil, nil, fmt.Errorf("label %w: %q", core.ErrUnknownColumn, labelCol)
	}
	sj, ok := f.Index(scoreCol)
	if !ok {
		return nil, nil, fmt.Errorf("score %w: %q", core.ErrUnknownColumn, scoreCol)
	}
	yTrue, yScore = f.Col(lj), f.Col(sj)
	for i := range yTrue {
		for _, c := range []struct {
			name string
			v    float64
		}{{labelCol, yTrue[i]}, {scoreCol, yScore[i]}} {
			if math.IsNaN(c.v) {
				// line 1 is the header
				return nil, nil, &ParseError{Line: i + 2, Column: c.name, Err: ErrMissingValue}
			}
		}
	}
	return yTrue, yScore, nil
}

// LoadRanking reads a ranking CSV file with ReadRanking.
func LoadRanking(path, labelCol, scoreCol string) (yTrue, yScore []float64, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	yTrue, yScore, err = ReadRanking(file, labelCol, scoreCol)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return yTrue, yScore, nil
}
