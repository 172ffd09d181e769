package ml

import (
	"errors"
	"math"
	"math/rand/v2"
	"sort"
)

// StratifiedSplit partitions rows into train and test sets, keeping each
// label's share of the test set at testRatio. The same seed always yields the
// same partition.
func StratifiedSplit(rows []Row, labels []string, testRatio float64, seed uint64) (trainX []Row, trainY []string, testX []Row, testY []string, err error) {
	if len(rows) != len(labels) {
		return nil, nil, nil, nil, errors.New("rows and labels size mismatch")
	}
	if testRatio <= 0 || testRatio >= 1 {
		testRatio = 0.2
	}

	byLabel := make(map[string][]int)
	for i, label := range labels {
		byLabel[label] = append(byLabel[label], i)
	}
	keys := make([]string, 0, len(byLabel))
	for label := range byLabel {
		keys = append(keys, label)
	}
	sort.Strings(keys)

	rnd := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	var trainIdx, testIdx []int
	for _, label := range keys {
		indices := byLabel[label]
		rnd.Shuffle(len(indices), func(i, j int) { indices[i], indices[j] = indices[j], indices[i] })
		nTest := int(math.Round(float64(len(indices)) * testRatio))
		if nTest >= len(indices) && len(indices) > 1 {
			nTest = len(indices) - 1
		}
		testIdx = append(testIdx, indices[:nTest]...)
		trainIdx = append(trainIdx, indices[nTest:]...)
	}
	rnd.Shuffle(len(trainIdx), func(i, j int) { trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i] })
	rnd.Shuffle(len(testIdx), func(i, j int) { testIdx[i], testIdx[j] = testIdx[j], testIdx[i] })

	for _, idx := range trainIdx {
		trainX = append(trainX, rows[idx])
		trainY = append(trainY, labels[idx])
	}
	for _, idx := range testIdx {
		testX = append(testX, rows[idx])
		testY = append(testY, labels[idx])
	}
	return trainX, trainY, testX, testY, nil
}
