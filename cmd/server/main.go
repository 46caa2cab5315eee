package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/time/rate"

	"github.com/maeumjangbu/ledger/internal/auth"
	"github.com/maeumjangbu/ledger/internal/config"
	"github.com/maeumjangbu/ledger/internal/goldprice"
	"github.com/maeumjangbu/ledger/internal/middleware"
	"github.com/maeumjangbu/ledger/internal/ocr"
	"github.com/maeumjangbu/ledger/internal/ratelimit"
	"github.com/maeumjangbu/ledger/internal/server"
	"github.com/maeumjangbu/ledger/internal/service"
	"github.com/maeumjangbu/ledger/internal/storage/sqlite"
	"github.com/maeumjangbu/ledger/pkg/api"
	"github.com/maeumjangbu/ledger/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logging.Setup()

	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	gold := goldprice.DefaultSource()

	var extractor ocr.Extractor
	if cfg.Gemini.APIKey != "" {
		extractor = ocr.NewGeminiExtractor(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL)
	}

	public := api.HandlerOptions(middleware.LoggingInterceptor())
	authed := api.HandlerOptions(middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor())

	var routes []service.Route
	routes = append(routes, service.NewAuthService(authenticator, jwtManager, store, slog.Default()).Routes(public, authed)...)
	routes = append(routes, service.NewFriendService(store, gold).Routes(authed...)...)
	routes = append(routes, service.NewEventService(store, extractor).Routes(authed...)...)
	routes = append(routes, service.NewRecordService(store).Routes(authed...)...)
	routes = append(routes, service.NewSentRecordService(store).Routes(authed...)...)
	routes = append(routes, service.NewGoldPriceService(gold).Routes(authed...)...)
	routes = append(routes, service.NewLedgerService(store, gold).Routes(authed...)...)

	ocrLimiter := ratelimit.NewIPRateLimiter(rate.Limit(cfg.OCRRate.PerSecond), cfg.OCRRate.Burst, 5*time.Minute, cfg.TrustedProxies)
	defer ocrLimiter.Close()

	router := server.NewRouter(cfg, store, routes, ocrLimiter.Middleware())

	// h2c serves HTTP/2 without TLS, which Connect's gRPC protocols need.
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h2c.NewHandler(router, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", cfg.ListenAddr, "procedures", len(routes))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
