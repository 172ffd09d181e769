package ml

import (
	"errors"
	"testing"
)

func sampleRow(sex, inhibitor, codeine, tramadol string, age, weight, egfr float64) Row {
	return NewRow().
		SetNumber(ColumnAge, age).
		SetNumber(ColumnWeight, weight).
		SetNumber(ColumnEGFR, egfr).
		SetCategory(ColumnSex, sex).
		SetCategory(ColumnCYP2D6Inhibitor, inhibitor).
		SetCategory(ColumnPriorCodeineResponse, codeine).
		SetCategory(ColumnPriorTramadolResponse, tramadol)
}

func TestColumnTransformerFit(t *testing.T) {
	rows := []Row{
		sampleRow("M", "yes", "toxicity", "effective", 40, 80, 100),
		sampleRow("F", "no", "effective", "ineffective", 30, 60, 90),
	}
	ct := NewColumnTransformer(CategoricalColumns(), NumericColumns())
	if err := ct.Fit(rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"sex_F", "sex_M",
		"cyp2d6_inhibitor_no", "cyp2d6_inhibitor_yes",
		"prior_codeine_response_effective", "prior_codeine_response_toxicity",
		"prior_tramadol_response_effective", "prior_tramadol_response_ineffective",
		"age", "weight", "egfr",
	}
	names := ct.FeatureNames()
	if len(names) != len(want) {
		t.Fatalf("expected %d features, got %d: %v", len(want), len(names), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("feature %d: expected %s, got %s", i, want[i], names[i])
		}
	}

	vector, err := ct.Transform(rows[1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []float64{1, 0, 1, 0, 1, 0, 0, 1, 30, 60, 90}
	for i := range expected {
		if vector[i] != expected[i] {
			t.Fatalf("position %d: expected %v, got %v (vector %v)", i, expected[i], vector[i], vector)
		}
	}
}

func TestColumnTransformerUnknownCategoryEncodesZero(t *testing.T) {
	ct := NewColumnTransformer(CategoricalColumns(), NumericColumns())
	if err := ct.Fit([]Row{
		sampleRow("F", "no", "effective", "effective", 30, 70, 90),
		sampleRow("M", "yes", "ineffective", "toxicity", 50, 90, 60),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vector, err := ct.Transform(sampleRow("X", "no", "effective", "effective", 30, 70, 90))
	if err != nil {
		t.Fatalf("unknown category must not fail: %v", err)
	}
	if vector[0] != 0 || vector[1] != 0 {
		t.Fatalf("expected all-zero sex encoding, got %v", vector[:2])
	}
	if len(vector) != ct.Width() {
		t.Fatalf("expected width %d, got %d", ct.Width(), len(vector))
	}
}

func TestColumnTransformerMissingColumn(t *testing.T) {
	ct := NewColumnTransformer(CategoricalColumns(), NumericColumns())
	if err := ct.Fit([]Row{sampleRow("F", "no", "effective", "effective", 30, 70, 90)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	row := sampleRow("F", "no", "effective", "effective", 30, 70, 90)
	delete(row.Numeric, ColumnEGFR)
	if _, err := ct.Transform(row); !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestColumnTransformerNotFitted(t *testing.T) {
	ct := NewColumnTransformer(CategoricalColumns(), NumericColumns())
	if _, err := ct.Transform(sampleRow("F", "no", "effective", "effective", 30, 70, 90)); !errors.Is(err, ErrNotFitted) {
		t.Fatalf("expected ErrNotFitted, got %v", err)
	}
	if err := ct.Fit(nil); err == nil {
		t.Fatal("expected error for empty rows")
	}
}
