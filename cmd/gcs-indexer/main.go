// Command gcs-indexer indexes object-store files into per-primary-key
// documents.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/gcs-indexer/internal/adapters/driving/cli"
	"github.com/custodia-labs/gcs-indexer/internal/app"
	"github.com/custodia-labs/gcs-indexer/internal/core/domain"
	"github.com/custodia-labs/gcs-indexer/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.Configure(cli.Dependencies{
		Settings: app.NewSettingsService,
		Patterns: app.NewPatternService,
		Sessions: func(ctx context.Context, settings domain.AppSettings, index string, out io.Writer) (cli.IndexSession, error) {
			session, err := app.NewSession(ctx, settings, index, out, logger.Default)
			if err != nil {
				return nil, err
			}
			return session, nil
		},
		Documents: app.NewDocumentService,
	})

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
