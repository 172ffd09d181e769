package predictor

import "fmt"

// Confidence is a coarse label derived from the top class probability.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

func (c Confidence) String() string {
	return string(c)
}

// Rank orders confidence labels: low < medium < high.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

// Thresholds are inclusive lower bounds on the top probability.
type Thresholds struct {
	High   float64 `yaml:"high"`
	Medium float64 `yaml:"medium"`
}

var (
	DefaultThresholds = Thresholds{High: 0.75, Medium: 0.55}
	// LegacyThresholds is the cut-off set some deployments served. Kept so it
	// can be selected explicitly; not the default.
	LegacyThresholds = Thresholds{High: 0.70, Medium: 0.50}
)

func (t Thresholds) Validate() error {
	if t.Medium <= 0 || t.High > 1 || t.Medium > t.High {
		return fmt.Errorf("invalid confidence thresholds: medium=%v high=%v (need 0 < medium <= high <= 1)", t.Medium, t.High)
	}
	return nil
}

func (t Thresholds) Bucket(top float64) Confidence {
	switch {
	case top >= t.High:
		return ConfidenceHigh
	case top >= t.Medium:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
