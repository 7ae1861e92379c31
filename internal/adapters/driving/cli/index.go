package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/gcs-indexer/internal/core/domain"
	"github.com/custodia-labs/gcs-indexer/internal/core/ports/driving"
	"github.com/custodia-labs/gcs-indexer/internal/logger"
)

// Environment variables that default the matching flags.
const (
	envElasticsearchURL = "ELASTICSEARCH_URL"
	envDatasetConfigDir = "DATASET_CONFIG_DIR"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the dataset's object patterns",
	Long: `Reads dataset.json and gcs.json (or gcs.yaml) from the dataset config
directory, lists the objects of every pattern and publishes one document per
primary key.

Patterns are processed in order. A pattern that cannot be parsed is skipped
and reported; a listing or publish failure stops the run.

Flags override the settings file; ELASTICSEARCH_URL and DATASET_CONFIG_DIR
are used when the matching flag is not given.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

var (
	indexDatasetDir     string
	indexName           string
	indexSink           string
	indexESURL          string
	indexPushgatewayURL string
	indexCategories     []string
	indexAnonymous      bool
	indexWatch          bool
)

func init() {
	flags := indexCmd.Flags()
	flags.StringVarP(&indexDatasetDir, "dataset-config-dir", "d", "", "Dataset config directory (env DATASET_CONFIG_DIR)")
	flags.StringVar(&indexName, "index", "", "Index name (default derived from the dataset name)")
	flags.StringVar(&indexSink, "sink", "", "Where to publish: elasticsearch, sqlite or dry-run")
	flags.StringVar(&indexESURL, "elasticsearch-url", "", "Elasticsearch URL (env ELASTICSEARCH_URL)")
	flags.StringVar(&indexPushgatewayURL, "pushgateway-url", "", "Prometheus Pushgateway for run metrics")
	flags.StringSliceVar(&indexCategories, "categories", nil, "Ordered file categories (default bam,vcf,fastq,cram)")
	flags.BoolVar(&indexAnonymous, "anonymous", false, "List gs:// buckets without credentials")
	flags.BoolVarP(&indexWatch, "watch", "w", false, "Re-index whenever the dataset config changes")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if deps.Sessions == nil || deps.Patterns == nil {
		return fmt.Errorf("index service %w", errNotConfigured)
	}

	settings, err := indexSettings(cmd)
	if err != nil {
		return err
	}
	dir := flagOrEnv(cmd, "dataset-config-dir", indexDatasetDir, envDatasetConfigDir)
	if dir == "" {
		return errors.New("--dataset-config-dir or " + envDatasetConfigDir + " is required")
	}

	ctx := cmd.Context()
	patterns := deps.Patterns(ctx, settings)
	run := func() error { return indexOnce(ctx, cmd, settings, patterns, dir) }

	if indexWatch {
		return watchDataset(ctx, dir, run, logger.Default)
	}
	return run()
}

// indexSettings layers flags and environment over the settings file.
func indexSettings(cmd *cobra.Command) (domain.AppSettings, error) {
	settings, err := currentSettings()
	if err != nil {
		return settings, err
	}

	if cmd.Flags().Changed("sink") {
		settings.Sink = domain.Sink(indexSink)
	}
	if url := flagOrEnv(cmd, "elasticsearch-url", indexESURL, envElasticsearchURL); url != "" {
		settings.Elasticsearch.URL = url
	}
	if cmd.Flags().Changed("pushgateway-url") {
		settings.PushgatewayURL = indexPushgatewayURL
	}
	if cmd.Flags().Changed("categories") {
		settings.Categories = domain.ParseCategories(indexCategories)
	}
	if indexAnonymous {
		settings.GCS.Anonymous = true
	}

	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// flagOrEnv returns the flag value if it was set, else the environment
// variable.
func flagOrEnv(cmd *cobra.Command, name, value, env string) string {
	if cmd.Flags().Changed(name) {
		return value
	}
	return os.Getenv(env)
}

func indexOnce(
	ctx context.Context,
	cmd *cobra.Command,
	settings domain.AppSettings,
	patterns driving.PatternService,
	dir string,
) error {
	dataset, err := patterns.LoadDataset(dir)
	if err != nil {
		return fmt.Errorf("failed to load dataset config: %w", err)
	}
	index := dataset.IndexName
	if indexName != "" {
		index = indexName
	}

	session, err := deps.Sessions(ctx, settings, index, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to configure %s sink: %w", settings.Sink, err)
	}

	report, runErr := session.Run(ctx, driving.RunConfig{
		IndexName:  index,
		Patterns:   dataset.Patterns,
		Categories: settings.Categories,
	})
	closeErr := session.Close(ctx)

	if report != nil {
		printRunReport(cmd, index, len(dataset.Patterns), report)
	}
	if runErr != nil {
		return fmt.Errorf("index failed: %w", runErr)
	}
	return closeErr
}

func printRunReport(cmd *cobra.Command, index string, total int, report *driving.RunReport) {
	cmd.PrintErrf("Indexed %s documents from %d/%d patterns into %s (run %s)\n",
		humanize.Comma(int64(report.Documents)), len(report.Published), total, index, report.RunID)
	if len(report.Failed) > 0 {
		cmd.PrintErrf("Skipped patterns:\n  %s\n", strings.Join(report.Failed, "\n  "))
	}
}
