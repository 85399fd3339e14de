package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/giygas/drugs-eda/cleaning"
	"github.com/giygas/drugs-eda/pipeline"
)

var (
	cleanInput         string
	cleanOutputDir     string
	cleanPolicy        string
	cleanWriteFeatures bool
	cleanProgress      bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean the raw export and write the dataset, charts and summary",
	Long: `clean reads the raw drugs.com export, fills missing text, coerces the numeric
columns, recodes alcohol and writes the cleaned CSV together with the frequency
tables, the charts and the YAML summary into the output directory.

Nothing is written when the run fails.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().StringVar(&cleanInput, "input", "", "raw CSV to clean (overrides INPUT_PATH)")
	cleanCmd.Flags().StringVar(&cleanOutputDir, "output-dir", "", "directory receiving the outputs (overrides OUTPUT_DIR)")
	cleanCmd.Flags().StringVar(&cleanPolicy, "policy", "", "numeric parse failure policy: keep, zero or fail (overrides NUMERIC_FAILURE_POLICY)")
	cleanCmd.Flags().BoolVar(&cleanWriteFeatures, "write-features", false, "also write the encoded and scaled feature matrix")
	cleanCmd.Flags().BoolVar(&cleanProgress, "progress", false, "show a progress bar on stderr")
	rootCmd.AddCommand(cleanCmd)
}

// cleanOptions merges the flags over the configuration
func cleanOptions() (pipeline.Options, error) {
	opt := pipeline.DefaultOptions()
	opt.InputPath = firstNonEmpty(cleanInput, cfg.InputPath)
	opt.OutputDir = firstNonEmpty(cleanOutputDir, cfg.OutputDir)
	opt.WriteFeatures = cleanWriteFeatures || cfg.WriteFeatures
	if cfg.TopN > 0 {
		opt.TopN = cfg.TopN
	}

	policy, err := cleaning.ParsePolicy(firstNonEmpty(cleanPolicy, cfg.NumericFailurePolicy))
	if err != nil {
		return opt, err
	}
	opt.Cleaning.Policy = policy

	if cleanProgress {
		opt.Progress = os.Stderr
	}
	return opt, nil
}

func runClean(cmd *cobra.Command, args []string) error {
	opt, err := cleanOptions()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := pipeline.Run(ctx, opt)
	if err != nil {
		return fmt.Errorf("clean %s: %w", opt.InputPath, err)
	}

	printCleanSummary(cmd.OutOrStdout(), opt, res)
	return nil
}

func printCleanSummary(w io.Writer, opt pipeline.Options, res *pipeline.Result) {
	fmt.Fprintf(w, "✓ Cleaned %s rows from %s (run %s, %s)\n",
		humanize.Comma(int64(res.Table.Len())),
		opt.InputPath,
		res.RunID,
		time.Since(res.StartedAt).Round(time.Millisecond))
	if n := res.Report.TotalParseFailures(); n > 0 {
		fmt.Fprintf(w, "  %s numeric parse failures (policy %s)\n", humanize.Comma(int64(n)), opt.Cleaning.Policy)
	}
	fmt.Fprintf(w, "  Wrote %d files to %s:\n", len(res.Outputs), opt.OutputDir)
	for _, name := range res.Outputs {
		fmt.Fprintf(w, "    %s\n", name)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
