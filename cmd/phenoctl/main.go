package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"scdaid/client"
)

var (
	addr    string
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:          "phenoctl",
	Short:        "Query a running SCDAid phenotype service",
	SilenceUsage: true,
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the service banner",
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := newClient().Info(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check service health",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := newClient().Health(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), status)
		return nil
	},
}

var patient client.PatientRequest

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict the CYP2D6 phenotype for one patient",
	Long: `Predict the CYP2D6 metabolizer phenotype for one patient.

Examples:
  phenoctl predict --age 30 --weight 70 --egfr 90 --sex F \
    --inhibitor no --codeine effective --tramadol effective`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := newClient().Predict(cmd.Context(), patient)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&addr, "addr", "http://localhost:8000", "service base URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")

	f := predictCmd.Flags()
	f.Float64Var(&patient.Age, "age", 0, "age in years")
	f.Float64Var(&patient.Weight, "weight", 0, "weight in kg")
	f.Float64Var(&patient.EGFR, "egfr", 0, "eGFR in mL/min/1.73m2")
	f.StringVar(&patient.Sex, "sex", "", "F or M")
	f.StringVar(&patient.CYP2D6Inhibitor, "inhibitor", "no", "CYP2D6 inhibitor co-administered: yes or no")
	f.StringVar(&patient.PriorCodeineResponse, "codeine", "", "prior codeine response: effective, ineffective or toxicity")
	f.StringVar(&patient.PriorTramadolResponse, "tramadol", "", "prior tramadol response: effective, ineffective or toxicity")
	for _, name := range []string{"age", "weight", "egfr", "sex", "codeine", "tramadol"} {
		_ = predictCmd.MarkFlagRequired(name)
	}

	rootCmd.AddCommand(infoCmd, healthCmd, predictCmd)
}

func newClient() *client.Client {
	return client.New(addr, timeout)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
