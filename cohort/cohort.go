// Package cohort synthesizes labeled patient cohorts for training the
// phenotype classifier.
package cohort

import (
	"errors"
	"math"
	"math/rand/v2"

	"scdaid/ml"
)

const (
	PhenotypePM = "PM"
	PhenotypeIM = "IM"
	PhenotypeNM = "NM"
	PhenotypeUM = "UM"

	ResponseEffective   = "effective"
	ResponseIneffective = "ineffective"
	ResponseToxicity    = "toxicity"

	InhibitorYes = "yes"
	InhibitorNo  = "no"

	SexFemale = "F"
	SexMale   = "M"
)

// Record is one synthetic patient with its ground-truth phenotype.
type Record struct {
	Age                   float64
	Weight                float64
	EGFR                  float64
	Sex                   string
	CYP2D6Inhibitor       string
	PriorCodeineResponse  string
	PriorTramadolResponse string
	Phenotype             string
}

func (r Record) Row() ml.Row {
	return ml.NewRow().
		SetNumber(ml.ColumnAge, r.Age).
		SetNumber(ml.ColumnWeight, r.Weight).
		SetNumber(ml.ColumnEGFR, r.EGFR).
		SetCategory(ml.ColumnSex, r.Sex).
		SetCategory(ml.ColumnCYP2D6Inhibitor, r.CYP2D6Inhibitor).
		SetCategory(ml.ColumnPriorCodeineResponse, r.PriorCodeineResponse).
		SetCategory(ml.ColumnPriorTramadolResponse, r.PriorTramadolResponse)
}

type Config struct {
	Size int
	Seed uint64
}

func DefaultConfig() Config {
	return Config{Size: 3000, Seed: 42}
}

// Generator draws records from the parametric model. It is not safe for
// concurrent use.
type Generator struct {
	rnd *rand.Rand
}

func NewGenerator(seed uint64) *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(seed, seed^0x2545f4914f6cdd1d))}
}

// Generate draws a full cohort. Phenotypes and inhibitor status are drawn
// first so responses can be conditioned on them.
func Generate(config Config) ([]Record, error) {
	if config.Size <= 0 {
		return nil, errors.New("cohort size must be positive")
	}
	g := NewGenerator(config.Seed)
	records := make([]Record, config.Size)

	for i := range records {
		records[i].Phenotype = g.choose(phenotypes, phenotypePrior)
	}
	for i := range records {
		records[i].Age = float64(18 + g.rnd.IntN(55-18))
	}
	for i := range records {
		records[i].Weight = clip(g.normal(70, 15), 40, 140)
	}
	for i := range records {
		records[i].EGFR = clip(g.normal(95, 25), 15, 160)
	}
	for i := range records {
		records[i].CYP2D6Inhibitor = g.choose([]string{InhibitorYes, InhibitorNo}, []float64{0.18, 0.82})
	}
	for i := range records {
		records[i].Sex = g.choose([]string{SexFemale, SexMale}, []float64{0.5, 0.5})
	}
	for i := range records {
		records[i].PriorCodeineResponse = g.Response(records[i].Phenotype, records[i].CYP2D6Inhibitor)
	}
	for i := range records {
		records[i].PriorTramadolResponse = g.Response(records[i].Phenotype, records[i].CYP2D6Inhibitor)
	}
	return records, nil
}

// Response draws one simulated drug-response outcome.
func (g *Generator) Response(phenotype, inhibitor string) string {
	return g.choose(responses, ResponseProbabilities(phenotype, inhibitor))
}

func (g *Generator) normal(mean, stdDev float64) float64 {
	return mean + stdDev*g.rnd.NormFloat64()
}

func (g *Generator) choose(values []string, probs []float64) string {
	u := g.rnd.Float64()
	acc := 0.0
	for i, p := range probs {
		acc += p
		if u < acc {
			return values[i]
		}
	}
	return values[len(values)-1]
}

func clip(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// Rows converts records into feature rows and labels for fitting.
func Rows(records []Record) ([]ml.Row, []string) {
	rows := make([]ml.Row, len(records))
	labels := make([]string, len(records))
	for i, r := range records {
		rows[i] = r.Row()
		labels[i] = r.Phenotype
	}
	return rows, labels
}
