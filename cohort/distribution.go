package cohort

var (
	phenotypes     = []string{PhenotypePM, PhenotypeIM, PhenotypeNM, PhenotypeUM}
	phenotypePrior = []float64{0.10, 0.35, 0.45, 0.10}

	responses = []string{ResponseEffective, ResponseIneffective, ResponseToxicity}
)

type responseTable struct {
	effective, ineffective, toxicity float64
}

var baseResponses = map[string]responseTable{
	PhenotypePM: {0.15, 0.75, 0.10},
	PhenotypeIM: {0.30, 0.60, 0.10},
	PhenotypeNM: {0.55, 0.35, 0.10},
	PhenotypeUM: {0.40, 0.20, 0.40},
}

var fallbackResponse = responseTable{0.45, 0.45, 0.10}

// Phenotypes returns the label alphabet in prior order.
func Phenotypes() []string {
	return append([]string(nil), phenotypes...)
}

// PhenotypePrior returns the label distribution the cohort is drawn from.
func PhenotypePrior() map[string]float64 {
	prior := make(map[string]float64, len(phenotypes))
	for i, p := range phenotypes {
		prior[p] = phenotypePrior[i]
	}
	return prior
}

// ResponseProbabilities returns P(effective), P(ineffective), P(toxicity) for
// a phenotype. An inhibitor moves mass from effective to ineffective while
// toxicity stays put; the vector is then renormalized.
func ResponseProbabilities(phenotype, inhibitor string) []float64 {
	t, ok := baseResponses[phenotype]
	if !ok {
		t = fallbackResponse
	}
	if inhibitor == InhibitorYes {
		t = responseTable{
			effective:   max(0.05, t.effective-0.15),
			ineffective: min(0.90, t.ineffective+0.20),
			toxicity:    t.toxicity,
		}
	}
	sum := t.effective + t.ineffective + t.toxicity
	return []float64{t.effective / sum, t.ineffective / sum, t.toxicity / sum}
}
