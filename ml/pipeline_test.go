package ml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fittedPipeline(t *testing.T) (*Pipeline, []Row, []string) {
	t.Helper()
	rows := []Row{
		sampleRow("F", "no", "toxicity", "toxicity", 30, 70, 90),
		sampleRow("M", "no", "toxicity", "effective", 40, 80, 100),
		sampleRow("F", "no", "effective", "effective", 50, 60, 95),
		sampleRow("M", "yes", "effective", "effective", 35, 75, 110),
		sampleRow("F", "yes", "ineffective", "ineffective", 45, 65, 85),
		sampleRow("M", "no", "ineffective", "ineffective", 55, 85, 70),
	}
	labels := []string{"UM", "UM", "NM", "NM", "PM", "PM"}

	p := NewPipeline(
		NewColumnTransformer(CategoricalColumns(), NumericColumns()),
		NewLogisticRegression(1, 200, ClassWeightBalanced),
	)
	require.NoError(t, p.Fit(rows, labels))
	return p, rows, labels
}

func TestPipelineClassesShapes(t *testing.T) {
	p, _, _ := fittedPipeline(t)

	classes, shape, err := p.Classes()
	require.NoError(t, err)
	assert.Equal(t, ShapeNestedStep, shape)
	assert.Equal(t, []string{"NM", "PM", "UM"}, classes)

	p.ClassLabels = []string{"NM", "PM", "UM"}
	classes, shape, err = p.Classes()
	require.NoError(t, err)
	assert.Equal(t, ShapeTopLevel, shape)
	assert.Equal(t, []string{"NM", "PM", "UM"}, classes)

	p.ClassLabels = nil
	step, ok := p.NamedStep(StepClassifier)
	require.True(t, ok)
	step.Classifier.Classes = nil
	_, _, err = p.Classes()
	assert.ErrorIs(t, err, ErrClassesNotFound)

	// inference itself still works without a class list
	_, err = p.PredictProba(sampleRow("F", "no", "effective", "effective", 30, 70, 90))
	assert.NoError(t, err)
}

func TestPipelineRenamedStepHasNoClasses(t *testing.T) {
	p, _, _ := fittedPipeline(t)
	p.Steps[1].Name = "classifier"
	_, _, err := p.Classes()
	assert.ErrorIs(t, err, ErrClassesNotFound)
}

func TestPipelineSaveLoadRoundTrip(t *testing.T) {
	p, rows, _ := fittedPipeline(t)
	path := filepath.Join(t.TempDir(), "nested", ArtifactFile)
	require.NoError(t, p.Save(path))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file must not linger")

	model, err := LoadModel(path)
	require.NoError(t, err)

	for _, row := range rows {
		want, err := p.PredictProba(row)
		require.NoError(t, err)
		got, err := model.PredictProba(row)
		require.NoError(t, err)
		assert.InDeltaSlice(t, want, got, 1e-12)
	}

	classes, shape, err := model.Classes()
	require.NoError(t, err)
	assert.Equal(t, ShapeNestedStep, shape)
	assert.Len(t, classes, 3)
}

func TestLoadModelErrors(t *testing.T) {
	_, err := LoadModel("")
	assert.Error(t, err)

	model, err := LoadModel(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
	assert.Nil(t, model)

	garbage := filepath.Join(t.TempDir(), ArtifactFile)
	require.NoError(t, os.WriteFile(garbage, []byte("{not json"), 0o644))
	_, err = LoadModel(garbage)
	assert.Error(t, err)

	wrongFormat := filepath.Join(t.TempDir(), ArtifactFile)
	require.NoError(t, os.WriteFile(wrongFormat, []byte(`{"format":"other","steps":[]}`), 0o644))
	_, err = LoadModel(wrongFormat)
	assert.Error(t, err)
}

func TestPipelineValidate(t *testing.T) {
	unfitted := NewPipeline(
		NewColumnTransformer(CategoricalColumns(), NumericColumns()),
		NewLogisticRegression(1, 10, ClassWeightNone),
	)
	assert.ErrorIs(t, unfitted.Validate(), ErrNotFitted)
	assert.Error(t, unfitted.Save(filepath.Join(t.TempDir(), ArtifactFile)))

	p, _, _ := fittedPipeline(t)
	require.NoError(t, p.Validate())

	p.ClassLabels = []string{"NM", "PM"}
	assert.Error(t, p.Validate(), "class count mismatch")
	p.ClassLabels = nil

	step, _ := p.NamedStep(StepClassifier)
	step.Classifier.Coef[0] = step.Classifier.Coef[0][:2]
	assert.Error(t, p.Validate(), "width mismatch")

	missing := &Pipeline{Format: ArtifactFormat}
	assert.Error(t, missing.Validate())
}

func TestEvaluate(t *testing.T) {
	p, rows, labels := fittedPipeline(t)
	report, err := Evaluate(p, rows, labels)
	require.NoError(t, err)
	assert.Equal(t, len(rows), report.Samples)
	assert.GreaterOrEqual(t, report.Accuracy, 0.0)
	assert.LessOrEqual(t, report.Accuracy, 1.0)
	assert.Greater(t, report.LogLoss, 0.0)
	assert.Len(t, report.Classes, 3)
	assert.Equal(t, 2, report.Classes["PM"].Support)

	_, err = Evaluate(p, nil, nil)
	assert.Error(t, err)
	_, err = Evaluate(p, rows, labels[:1])
	assert.Error(t, err)
}
