package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gcs-indexer/internal/core/ports/driving"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Inspect dataset patterns",
}

var patternsLintCmd = &cobra.Command{
	Use:   "lint [pattern...]",
	Short: "Show how each pattern will be listed and matched",
	Long: `Derives the bucket, listing prefix and matching expression of every
pattern and flags anything that would stop it from indexing as written:
a missing or repeated PRIMARY_KEY placeholder, an unsupported scheme, or a
malformed template.

Patterns are read from the dataset config directory unless given as
arguments. Exits non-zero when any pattern has a problem.`,
	RunE: runPatternsLint,
}

var lintDatasetDir string

func init() {
	patternsLintCmd.Flags().StringVarP(&lintDatasetDir, "dataset-config-dir", "d", "",
		"Dataset config directory (env DATASET_CONFIG_DIR)")
	patternsCmd.AddCommand(patternsLintCmd)
	rootCmd.AddCommand(patternsCmd)
}

func runPatternsLint(cmd *cobra.Command, args []string) error {
	if deps.Patterns == nil {
		return fmt.Errorf("pattern service %w", errNotConfigured)
	}

	settings, err := currentSettings()
	if err != nil {
		return err
	}
	svc := deps.Patterns(cmd.Context(), settings)

	patterns := args
	if len(patterns) == 0 {
		dir := flagOrEnv(cmd, "dataset-config-dir", lintDatasetDir, envDatasetConfigDir)
		if dir == "" {
			return fmt.Errorf("give patterns as arguments or set --dataset-config-dir or %s", envDatasetConfigDir)
		}
		dataset, err := svc.LoadDataset(dir)
		if err != nil {
			return fmt.Errorf("failed to load dataset config: %w", err)
		}
		cmd.Printf("Dataset %q (index %s)\n\n", dataset.Name, dataset.IndexName)
		patterns = dataset.Patterns
	}

	if len(patterns) == 0 {
		cmd.Println("No patterns configured.")
		return nil
	}

	p := paletteFor(cmd.OutOrStderr())
	problems := 0
	for _, report := range svc.Lint(patterns) {
		printPatternReport(cmd, p, report)
		if !report.OK() {
			problems++
		}
	}

	if problems > 0 {
		return fmt.Errorf("%d of %d patterns have problems", problems, len(patterns))
	}
	cmd.Printf("All %d patterns OK.\n", len(patterns))
	return nil
}

func printPatternReport(cmd *cobra.Command, p palette, r driving.PatternReport) {
	cmd.Println(p.Title(r.Template))
	if r.Bucket != "" {
		cmd.Printf("  %s %s\n", p.Label("scheme:    "), r.Scheme)
		cmd.Printf("  %s %s\n", p.Label("bucket:    "), r.Bucket)
		cmd.Printf("  %s %q\n", p.Label("prefix:    "), r.ListingPrefix)
		cmd.Printf("  %s %s\n", p.Label("expression:"), r.Expression)
	}
	if r.OK() {
		cmd.Printf("  %s\n\n", p.Good("ok"))
		return
	}
	for _, problem := range r.Problems {
		cmd.Printf("  %s %s\n", p.Bad("problem:"), problem)
	}
	cmd.Println()
}
