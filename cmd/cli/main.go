package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"ttestcalc/adapters/excel"
	"ttestcalc/adapters/stats/summary"
	"ttestcalc/app"
	"ttestcalc/domain/hypothesis"
	"ttestcalc/internal/config"
	"ttestcalc/internal/container"
	"ttestcalc/internal/report"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ttest",
		Short:         "Two-sample t-test from summary statistics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newComputeCmd(),
		newBatchCmd(),
		newHistoryCmd(),
	)

	return rootCmd
}

// openContainer loads the environment configuration and wires the service
func openContainer(ctx context.Context) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	c, err := container.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

type computeOptions struct {
	sampleA   hypothesis.SampleSummary
	sampleB   hypothesis.SampleSummary
	direction string
	alpha     float64
	rawA      string
	rawB      string
	asJSON    bool
}

func newComputeCmd() *cobra.Command {
	var opts computeOptions

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Run one two-sample t-test",
		Long: `Run a two-sample t-test from sample sizes, means and standard deviations.

Raw observations may be given instead with --raw-a and --raw-b (comma,
semicolon or whitespace separated); they are summarised first.

Example: ttest compute --n1 60 --mean1 86 --sd1 6 --n2 75 --mean2 82 --sd2 9 --direction greater`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompute(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().IntVar(&opts.sampleA.Size, "n1", 60, "Sample 1 size")
	cmd.Flags().Float64Var(&opts.sampleA.Mean, "mean1", 86, "Sample 1 mean")
	cmd.Flags().Float64Var(&opts.sampleA.StdDev, "sd1", 6, "Sample 1 standard deviation")
	cmd.Flags().IntVar(&opts.sampleB.Size, "n2", 75, "Sample 2 size")
	cmd.Flags().Float64Var(&opts.sampleB.Mean, "mean2", 82, "Sample 2 mean")
	cmd.Flags().Float64Var(&opts.sampleB.StdDev, "sd2", 9, "Sample 2 standard deviation")
	cmd.Flags().StringVar(&opts.direction, "direction", string(hypothesis.TwoTailed), "Test direction: two-tailed|greater|less")
	cmd.Flags().Float64Var(&opts.alpha, "alpha", 0, "Significance level (default from ALPHA, else 0.01)")
	cmd.Flags().StringVar(&opts.rawA, "raw-a", "", "Raw observations for sample 1")
	cmd.Flags().StringVar(&opts.rawB, "raw-b", "", "Raw observations for sample 2")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the run as JSON")

	return cmd
}

func runCompute(ctx context.Context, out io.Writer, opts computeOptions) error {
	direction, err := hypothesis.ParseDirection(opts.direction)
	if err != nil {
		return err
	}

	c, err := openContainer(ctx)
	if err != nil {
		return err
	}
	defer c.Shutdown(ctx)

	var run *hypothesis.Run
	if opts.rawA != "" || opts.rawB != "" {
		obsA, err := summary.ParseObservations(opts.rawA)
		if err != nil {
			return fmt.Errorf("--raw-a: %w", err)
		}
		obsB, err := summary.ParseObservations(opts.rawB)
		if err != nil {
			return fmt.Errorf("--raw-b: %w", err)
		}
		run, err = c.Service.RunRaw(ctx, app.RawRequest{
			ObservationsA: obsA,
			ObservationsB: obsB,
			Direction:     direction,
			Alpha:         opts.alpha,
		})
		if err != nil {
			return err
		}
	} else {
		run, err = c.Service.Run(ctx, hypothesis.Request{
			SampleA:   opts.sampleA,
			SampleB:   opts.sampleB,
			Direction: direction,
			Alpha:     opts.alpha,
		})
		if err != nil {
			return err
		}
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	}

	fmt.Fprint(out, report.Text(run.Request, &run.Result))
	return nil
}

func newBatchCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "Run every row of an .xlsx or .csv file",
		Long: `Run a t-test for every data row of a spreadsheet.

The header row names the columns n1, n2, mean1, mean2, sd1, sd2 and
optionally direction and alpha. Rows fail independently.

Example: ttest batch experiments.xlsx --out results.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), cmd.OutOrStdout(), args[0], outPath)
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Write results to this .xlsx or .csv file")

	return cmd
}

func runBatch(ctx context.Context, out io.Writer, inPath, outPath string) error {
	reqs, err := excel.NewBatchReader(inPath).ReadRequests()
	if err != nil {
		return err
	}

	c, err := openContainer(ctx)
	if err != nil {
		return err
	}
	defer c.Shutdown(ctx)

	items, err := c.Service.RunBatch(ctx, reqs)
	if err != nil {
		return err
	}

	failed := 0
	for _, item := range items {
		if item.Failed() {
			failed++
			fmt.Fprintf(out, "row %d: error: %s\n", item.Index+1, item.Error)
			continue
		}
		res := item.Run.Result
		fmt.Fprintf(out, "row %d: %-10s t=%s df=%d [%s, %s] %s\n",
			item.Index+1, res.Direction, report.Real(res.TStatistic), res.DegreesOfFreedom,
			report.Real(res.CriticalNegative), report.Real(res.CriticalPositive), res.Decision)
	}
	fmt.Fprintf(out, "%d computed, %d failed\n", len(items)-failed, failed)

	if outPath == "" {
		return nil
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	if err := excel.WriteResults(f, excel.DetectFileType(outPath), items); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(out, "results written to %s\n", outPath)
	return nil
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs (requires DATABASE_URL)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), cmd.OutOrStdout(), limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list")

	return cmd
}

func runHistory(ctx context.Context, out io.Writer, limit int) error {
	c, err := openContainer(ctx)
	if err != nil {
		return err
	}
	defer c.Shutdown(ctx)

	if c.DB == nil {
		return fmt.Errorf("history needs DATABASE_URL; runs are not kept between CLI invocations otherwise")
	}

	runs, err := c.Service.History(ctx, limit)
	if err != nil {
		return err
	}
	for _, run := range runs {
		fmt.Fprintf(out, "%s  %s  %-10s t=%s  %s\n",
			run.ID, run.CreatedAt.Time().Format("2006-01-02 15:04:05"), run.Result.Direction,
			report.Real(run.Result.TStatistic), run.Result.Decision)
	}
	return nil
}
