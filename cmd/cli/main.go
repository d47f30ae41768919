package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"diffexpr/adapters/classify"
	"diffexpr/adapters/excel"
	"diffexpr/adapters/fit"
	"diffexpr/adapters/simulate"
	"diffexpr/adapters/stats/engine"
	"diffexpr/app"
	"diffexpr/internal/rng"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "diffexpr-cli",
		Short: "diffexpr CLI for statistic comparison runs and classifier evaluation",
	}

	rootCmd.AddCommand(
		newCompareCmd(),
		newClassifyCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCompareCmd() *cobra.Command {
	params := simulate.DefaultParams()
	var policy string

	var artifacts bool

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run a seeded simulation and compare ranking statistics",
		Long: `Generate a synthetic expression matrix with a known differential subset,
fit the moderated model, and print the per-statistic false-discovery curves.

Example: diffexpr-cli compare --features 1000 --samples 6 --diff-fraction 0.1 --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := runCompare(cmd.Context(), params, engine.DegeneratePolicy(policy))
			if err != nil {
				return err
			}
			if artifacts {
				return printJSON(result.Artifacts())
			}
			return printJSON(result)
		},
	}

	cmd.Flags().IntVar(&params.Features, "features", params.Features, "number of feature rows")
	cmd.Flags().IntVar(&params.Samples, "samples", params.Samples, "number of sample columns (even)")
	cmd.Flags().Float64Var(&params.DiffFraction, "diff-fraction", params.DiffFraction, "fraction of truly differential features")
	cmd.Flags().Float64Var(&params.FoldChange, "fold-change", params.FoldChange, "injected group-mean shift magnitude")
	cmd.Flags().Float64Var(&params.PriorDF, "prior-df", params.PriorDF, "variance prior degrees of freedom")
	cmd.Flags().Float64Var(&params.PriorScale, "prior-scale", params.PriorScale, "variance prior scale")
	cmd.Flags().Int64Var(&params.Seed, "seed", params.Seed, "random seed")
	cmd.Flags().StringVar(&policy, "degenerate-policy", string(engine.DegenerateExclude), "zero-variance feature policy: fail|infinite|exclude")
	cmd.Flags().BoolVar(&artifacts, "artifacts", false, "print artifact envelopes instead of the raw result")

	return cmd
}

func newClassifyCmd() *cobra.Command {
	req := app.ClassifyRequest{
		Classifier: "knn",
		Neighbors:  3,
		Method:     app.MethodCrossValidation,
		Folds:      5,
		Rounds:     100,
		Seed:       42,
	}

	var artifacts bool

	cmd := &cobra.Command{
		Use:   "classify [dataset.xlsx]",
		Short: "Estimate classifier accuracy on a local expression dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.DatasetPath = args[0]

			service := app.NewClassifyService(excel.NewDatasetReader(), classify.NewResampler(rng.NewAdapter()))
			result, err := service.Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			if artifacts {
				return printJSON(result.Artifact())
			}
			return printJSON(result)
		},
	}

	cmd.Flags().StringVar(&req.Classifier, "classifier", req.Classifier, "classifier: knn|tsp")
	cmd.Flags().IntVar(&req.Neighbors, "neighbors", req.Neighbors, "k for knn")
	cmd.Flags().StringVar((*string)(&req.Method), "method", string(req.Method), "resampling method: cv|bootstrap")
	cmd.Flags().IntVar(&req.Folds, "folds", req.Folds, "folds for cross-validation")
	cmd.Flags().IntVar(&req.Rounds, "rounds", req.Rounds, "rounds for bootstrap")
	cmd.Flags().Int64Var(&req.Seed, "seed", req.Seed, "random seed")
	cmd.Flags().BoolVar(&artifacts, "artifacts", false, "print the accuracy artifact envelope instead of the raw result")

	return cmd
}

func runCompare(ctx context.Context, params simulate.Params, policy engine.DegeneratePolicy) (*app.CompareResult, error) {
	service, err := app.NewCompareService(
		simulate.NewGenerator(rng.NewAdapter()),
		fit.NewAdapter(fit.Options{}),
		policy,
	)
	if err != nil {
		return nil, err
	}
	return service.Run(ctx, app.CompareRequest{Params: params})
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
