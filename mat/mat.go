// Package mat contains helpers for building, normalizing and parsing gonum dense matrices
package mat

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrColMismatch   = errors.New("column size mismatch")
	ErrEmptyMatrix   = errors.New("matrix has no values")
	ErrNegativePrec  = errors.New("negative precision not allowed")
	ErrNonNumeric    = errors.New("value is not numeric")
	ErrNotColumnVec  = errors.New("matrix is not a column vector")
	ErrUninitialized = errors.New("uninitialized matrix")
)

// ParseError reports text that could not be converted into a number. Row and Col are
// zero based positions of the offending cell.
type ParseError struct {
	Row  int
	Col  int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d, column %d: cannot parse %q, %v", e.Row+1, e.Col+1, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewDenseFromArray flattens a row ordered 2D slice into a dense matrix. All rows must
// have the same length.
func NewDenseFromArray(x [][]float64) (*mat.Dense, error) {
	m := len(x)

	n := -1
	for i, row := range x {
		if n >= 0 && len(row) != n {
			return nil, fmt.Errorf("at row %d, %w", i, ErrColMismatch)
		}
		if n < 0 {
			n = len(row)
		}
	}
	if n < 0 {
		n = 0
	}

	// flatten to row order
	data := make([]float64, 0, m*n)
	for _, row := range x {
		data = append(data, row...)
	}
	return mat.NewDense(m, n, data), nil
}

// ToArray converts a matrix into a row ordered 2D slice
func ToArray(x mat.Matrix) [][]float64 {
	if x == nil {
		return nil
	}
	m, _ := x.Dims()
	res := make([][]float64, m)
	for i := 0; i < m; i++ {
		res[i] = mat.Row(nil, i, x)
	}
	return res
}

// Round rounds every element of x in place to precision decimal digits using round half
// to even.
func Round(x *mat.Dense, precision int) error {
	if x == nil {
		return ErrUninitialized
	}
	if precision < 0 {
		return ErrNegativePrec
	}
	x.Apply(func(_, _ int, v float64) float64 {
		return scalar.RoundEven(v, precision)
	}, x)
	return nil
}

// RoundSlice rounds every element of x in place to precision decimal digits using round
// half to even.
func RoundSlice(x []float64, precision int) error {
	if precision < 0 {
		return ErrNegativePrec
	}
	for i, v := range x {
		x[i] = scalar.RoundEven(v, precision)
	}
	return nil
}

// ColVector returns the values of a single column matrix
func ColVector(x mat.Matrix) ([]float64, error) {
	if x == nil {
		return nil, ErrUninitialized
	}
	_, n := x.Dims()
	if n != 1 {
		return nil, fmt.Errorf("got %d columns, %w", n, ErrNotColumnVec)
	}
	return mat.Col(nil, 0, x), nil
}

// ParseRows converts text cells into a dense matrix. Every cell must hold a number and
// every row must have the same number of cells.
func ParseRows(cells [][]string) (*mat.Dense, error) {
	if len(cells) == 0 {
		return nil, ErrEmptyMatrix
	}
	x := make([][]float64, len(cells))
	for i, row := range cells {
		if len(row) == 0 {
			return nil, fmt.Errorf("at row %d, %w", i, ErrEmptyMatrix)
		}
		x[i] = make([]float64, len(row))
		for j, cell := range row {
			text := strings.TrimSpace(cell)
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, &ParseError{Row: i, Col: j, Text: text, Err: ErrNonNumeric}
			}
			x[i][j] = v
		}
	}
	return NewDenseFromArray(x)
}

// ReadCSV reads comma separated numeric rows into a dense matrix. Blank lines are skipped.
// Either all rows parse or no matrix is returned.
func ReadCSV(r io.Reader) (*mat.Dense, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = 0

	records, err := reader.ReadAll()
	if err != nil {
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			return nil, &ParseError{Row: csvErr.Line - 1, Col: csvErr.Column - 1, Err: csvErr.Err}
		}
		return nil, err
	}
	return ParseRows(records)
}
