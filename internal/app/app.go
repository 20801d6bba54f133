// Package app wires configuration, the catalog source, the session store,
// the booking service, and the HTTP server into one runnable unit.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/luminaspa/booking-cart/internal/backend"
	"github.com/luminaspa/booking-cart/internal/catalog"
	"github.com/luminaspa/booking-cart/internal/domain/booking"
	"github.com/luminaspa/booking-cart/internal/handler"
	"github.com/luminaspa/booking-cart/internal/session"
	"github.com/luminaspa/booking-cart/internal/storage/postgres"
	"github.com/luminaspa/booking-cart/pkg/health"
	"github.com/luminaspa/booking-cart/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles
// graceful shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("catalog_mode", cfg.Catalog.Mode),
	)

	// Outbound HTTP client shared by the catalog source and the backend
	// client, instrumented for traces and metrics.
	httpClient := &http.Client{
		Timeout: 10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		),
	}

	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	// Catalog source.
	var source catalog.Source
	switch cfg.Catalog.Mode {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Catalog.DatabaseURL)
		if err != nil {
			return errors.Wrap(err, "create db pool")
		}
		defer pool.Close()

		source = postgres.NewPromotionSource(pool)
		healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
			return pool.Ping(ctx)
		})
	case "file":
		source = catalog.NewFileSource(cfg.Catalog.SnapshotPath)
	default:
		source = catalog.NewHTTPSource(cfg.BackendURL, httpClient)
	}
	cache := catalog.NewCache(source, cfg.Catalog.TTL)

	// Session carts.
	sessions := session.NewStore(cfg.Session.TTL)
	sessions.StartJanitor(ctx, cfg.Session.SweepInterval)

	// Backend client and booking service.
	backendClient := backend.NewClient(cfg.BackendURL, httpClient)
	healthSvc.AddReadinessCheck("backend", 5*time.Second, func(ctx context.Context) error {
		return backendClient.Ping(ctx)
	})
	bookingSvc := booking.NewService(cache, backendClient)

	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Checkout counter. A failed instrument registration is logged, not
	// fatal: checkouts still work without the metric.
	var checkouts metric.Int64Counter
	meter := m.MeterProvider().Meter("booking-cart")
	if c, err := meter.Int64Counter("bookings.checkouts",
		metric.WithDescription("Completed checkouts"),
	); err != nil {
		lg.Warn("Register checkout counter", zap.Error(err))
	} else {
		checkouts = c
	}

	h := handler.New(sessions, bookingSvc, checkouts)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", h.Routes())

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins: cfg.CORS.Origins,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				RPS:   cfg.RateLimit.RPS,
				Burst: cfg.RateLimit.Burst,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
