// Package cli implements the gcs-indexer command line with cobra.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gcs-indexer/internal/core/domain"
	"github.com/custodia-labs/gcs-indexer/internal/core/ports/driving"
	"github.com/custodia-labs/gcs-indexer/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// IndexSession is one configured index run. Close releases the sink and
// flushes run metrics.
type IndexSession interface {
	driving.Indexer
	Close(ctx context.Context) error
}

// Dependencies are the factories the commands build services from. They
// take settings because the sink and endpoints are chosen per invocation.
type Dependencies struct {
	Settings  func(configDir string) (driving.SettingsService, error)
	Patterns  func(ctx context.Context, settings domain.AppSettings) driving.PatternService
	Sessions  func(ctx context.Context, settings domain.AppSettings, index string, out io.Writer) (IndexSession, error)
	Documents func(dataDir string) (driving.DocumentService, func() error, error)
}

var (
	deps Dependencies

	// settingsService is resolved from --config-dir before each command.
	settingsService driving.SettingsService

	verbose   bool
	configDir string
	dataDir   string
)

var rootCmd = &cobra.Command{
	Use:   "gcs-indexer",
	Short: "Index object-store files into per-sample documents",
	Long: `gcs-indexer lists objects matching path patterns such as
gs://bucket/dataset/bam/PRIMARY_KEY.bam, groups the files of each primary key
by format (bam, vcf, fastq, cram) and publishes one document per key to
Elasticsearch, a local SQLite store, or stdout.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug and info logs")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Settings directory (default ~/.gcs-indexer)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "SQLite index store directory (default ~/.gcs-indexer/data)")
}

// Configure installs the factories used by the commands.
func Configure(d Dependencies) {
	deps = d
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if deps.Settings == nil {
		return nil
	}
	svc, err := deps.Settings(configDir)
	if err != nil {
		return err
	}
	settingsService = svc
	return nil
}

// currentSettings returns persisted settings, or defaults when no settings
// service is configured.
func currentSettings() (domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()
	if settingsService != nil {
		stored, err := settingsService.Get()
		if err != nil {
			return domain.AppSettings{}, fmt.Errorf("failed to load settings: %w", err)
		}
		settings = *stored
	}
	if dataDir != "" {
		settings.DataDir = dataDir
	}
	return settings, nil
}

var errNotConfigured = errors.New("not configured")
