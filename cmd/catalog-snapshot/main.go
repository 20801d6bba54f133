// Command catalog-snapshot fetches the promotion catalog and writes it as
// a gzipped snapshot that the cart server's file catalog source can read.
// Useful for offline deployments and test fixtures.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"

	"github.com/luminaspa/booking-cart/internal/catalog"
	"github.com/luminaspa/booking-cart/internal/storage/postgres"
)

func main() {
	var (
		backendURL  string
		databaseURL string
		out         string
	)

	flag.StringVar(&backendURL, "backend-url", "", "clinic backend base URL (or BACKEND_URL env)")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL; overrides --backend-url when set")
	flag.StringVar(&out, "out", "catalog.json.gz", "output snapshot path")
	flag.Parse()

	if backendURL == "" {
		backendURL = os.Getenv("BACKEND_URL")
	}
	if backendURL == "" && databaseURL == "" {
		slog.Error("a source is required: set --backend-url or --database-url")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, backendURL, databaseURL, out); err != nil {
		slog.Error("snapshot failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("snapshot written", slog.String("path", out))
}

func run(ctx context.Context, backendURL, databaseURL, out string) error {
	var source catalog.Source
	if databaseURL != "" {
		pool, err := postgres.NewPool(ctx, databaseURL)
		if err != nil {
			return errors.Wrap(err, "create db pool")
		}
		defer pool.Close()
		source = postgres.NewPromotionSource(pool)
	} else {
		source = catalog.NewHTTPSource(backendURL, &http.Client{Timeout: 30 * time.Second})
	}

	bundles, err := source.Fetch(ctx)
	if err != nil {
		return errors.Wrap(err, "fetch catalog")
	}
	slog.Info("catalog fetched", slog.Int("bundles", len(bundles)))

	f, err := os.Create(out)
	if err != nil {
		return errors.Wrapf(err, "create %s", out)
	}
	defer func() { _ = f.Close() }()

	if err := catalog.WriteSnapshot(f, bundles); err != nil {
		return err
	}
	return f.Close()
}
