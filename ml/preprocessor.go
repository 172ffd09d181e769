package ml

import (
	"errors"
	"fmt"
	"sort"
)

// CategoricalEncoding is the fitted one-hot vocabulary of one column.
type CategoricalEncoding struct {
	Column     string   `json:"column"`
	Categories []string `json:"categories"`
}

// ColumnTransformer one-hot encodes categorical columns and passes numeric
// columns through unchanged. Categories not seen during Fit encode as all
// zeros for their column.
type ColumnTransformer struct {
	Categorical []CategoricalEncoding `json:"categorical"`
	Numeric     []string              `json:"numeric"`
}

func NewColumnTransformer(categorical, numeric []string) *ColumnTransformer {
	ct := &ColumnTransformer{
		Categorical: make([]CategoricalEncoding, len(categorical)),
		Numeric:     append([]string(nil), numeric...),
	}
	for i, column := range categorical {
		ct.Categorical[i] = CategoricalEncoding{Column: column}
	}
	return ct
}

func (ct *ColumnTransformer) Fit(rows []Row) error {
	if len(rows) == 0 {
		return errors.New("rows is empty")
	}
	for i, enc := range ct.Categorical {
		seen := make(map[string]struct{})
		for _, row := range rows {
			value, err := row.Category(enc.Column)
			if err != nil {
				return err
			}
			seen[value] = struct{}{}
		}
		categories := make([]string, 0, len(seen))
		for value := range seen {
			categories = append(categories, value)
		}
		sort.Strings(categories)
		ct.Categorical[i].Categories = categories
	}
	for _, column := range ct.Numeric {
		if _, err := rows[0].Number(column); err != nil {
			return err
		}
	}
	return nil
}

func (ct *ColumnTransformer) Transform(row Row) ([]float64, error) {
	if !ct.fitted() {
		return nil, ErrNotFitted
	}
	vector := make([]float64, 0, ct.Width())
	for _, enc := range ct.Categorical {
		value, err := row.Category(enc.Column)
		if err != nil {
			return nil, err
		}
		for _, category := range enc.Categories {
			if category == value {
				vector = append(vector, 1)
			} else {
				vector = append(vector, 0)
			}
		}
	}
	for _, column := range ct.Numeric {
		value, err := row.Number(column)
		if err != nil {
			return nil, err
		}
		vector = append(vector, value)
	}
	return vector, nil
}

func (ct *ColumnTransformer) TransformAll(rows []Row) ([][]float64, error) {
	vectors := make([][]float64, len(rows))
	for i, row := range rows {
		vector, err := ct.Transform(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		vectors[i] = vector
	}
	return vectors, nil
}

// Width is the length of a transformed vector.
func (ct *ColumnTransformer) Width() int {
	width := len(ct.Numeric)
	for _, enc := range ct.Categorical {
		width += len(enc.Categories)
	}
	return width
}

func (ct *ColumnTransformer) FeatureNames() []string {
	names := make([]string, 0, ct.Width())
	for _, enc := range ct.Categorical {
		for _, category := range enc.Categories {
			names = append(names, enc.Column+"_"+category)
		}
	}
	return append(names, ct.Numeric...)
}

func (ct *ColumnTransformer) fitted() bool {
	if len(ct.Categorical) == 0 && len(ct.Numeric) == 0 {
		return false
	}
	for _, enc := range ct.Categorical {
		if len(enc.Categories) == 0 {
			return false
		}
	}
	return true
}
