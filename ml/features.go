package ml

import (
	"errors"
	"fmt"
)

const (
	ColumnAge                   = "age"
	ColumnWeight                = "weight"
	ColumnEGFR                  = "egfr"
	ColumnSex                   = "sex"
	ColumnCYP2D6Inhibitor       = "cyp2d6_inhibitor"
	ColumnPriorCodeineResponse  = "prior_codeine_response"
	ColumnPriorTramadolResponse = "prior_tramadol_response"
)

var ErrMissingColumn = errors.New("missing column")

// Row is a single labeled row of the feature table. Columns are addressed by
// name, never by position.
type Row struct {
	Numeric     map[string]float64
	Categorical map[string]string
}

func NewRow() Row {
	return Row{
		Numeric:     make(map[string]float64),
		Categorical: make(map[string]string),
	}
}

func (r Row) SetNumber(column string, value float64) Row {
	r.Numeric[column] = value
	return r
}

func (r Row) SetCategory(column, value string) Row {
	r.Categorical[column] = value
	return r
}

func (r Row) Number(column string) (float64, error) {
	v, ok := r.Numeric[column]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingColumn, column)
	}
	return v, nil
}

func (r Row) Category(column string) (string, error) {
	v, ok := r.Categorical[column]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingColumn, column)
	}
	return v, nil
}

func CategoricalColumns() []string {
	return []string{
		ColumnSex,
		ColumnCYP2D6Inhibitor,
		ColumnPriorCodeineResponse,
		ColumnPriorTramadolResponse,
	}
}

func NumericColumns() []string {
	return []string{
		ColumnAge,
		ColumnWeight,
		ColumnEGFR,
	}
}
