package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"scdaid/config"
	"scdaid/logging"
	"scdaid/training"
)

func main() {
	defaults := training.DefaultConfig()
	size := flag.Int("n", defaults.CohortSize, "number of synthetic patients")
	seed := flag.Uint64("seed", defaults.Seed, "random seed for cohort and split")
	testRatio := flag.Float64("test_ratio", defaults.TestRatio, "held-out fraction")
	c := flag.Float64("c", defaults.C, "inverse L2 regularization strength")
	maxIter := flag.Int("max_iter", defaults.MaxIter, "maximum optimizer iterations")
	outDir := flag.String("out_dir", defaults.OutDir, "directory for the model artifact")
	logLevel := flag.String("log_level", "info", "log level")
	flag.Parse()

	logConfig := config.Default().Log
	logConfig.Level = *logLevel
	logger, err := logging.New(logConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	result, err := training.Run(training.Config{
		CohortSize: *size,
		Seed:       *seed,
		TestRatio:  *testRatio,
		C:          *c,
		MaxIter:    *maxIter,
		OutDir:     *outDir,
	}, logger)
	if err != nil {
		logger.Fatal("training failed", zap.Error(err))
	}

	printReport(result)
}

func printReport(result *training.Result) {
	p := message.NewPrinter(language.English)
	p.Printf("trained on %d patients, evaluated on %d\n", result.TrainSize, result.TestSize)
	p.Printf("accuracy=%.3f log_loss=%.3f\n", result.Report.Accuracy, result.Report.LogLoss)

	classes := make([]string, 0, len(result.Report.Classes))
	for class := range result.Report.Classes {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	for _, class := range classes {
		cr := result.Report.Classes[class]
		p.Printf("  %-3s precision=%.2f recall=%.2f support=%d\n", class, cr.Precision, cr.Recall, cr.Support)
	}
	p.Printf("model saved to %s\n", result.Artifact)
}
