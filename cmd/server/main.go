package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/cache"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/handler"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/seller"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	initDBFunc      = db.NewDatabase
	startServerFunc = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownFunc    = func(ctx context.Context, srv *http.Server) error { return srv.Shutdown(ctx) }
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database, err := initDBFunc(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	var listings catalog.ListingCache
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisClient(cfg.RedisAddr)
		if err != nil {
			logger.L().Warn("listing cache disabled", zap.Error(err))
		} else {
			defer rc.Close()
			listings = cache.NewListingCache(rc.GetClient(), cache.DefaultListingTTL)
		}
	}

	router, err := newServer(cfg, database, listings)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownFunc(shutdownCtx, srv); err != nil {
			logger.L().Warn("shutdown did not drain", zap.Error(err))
		}
	}()

	logger.L().Info("storefront api listening", zap.String("addr", srv.Addr))
	err = startServerFunc(srv)

	// ListenAndServe returns as soon as Shutdown starts; in-flight requests
	// finish before the database closes.
	stop()
	<-drained

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.L().Info("storefront api stopped")
	return nil
}

// newServer wires the services behind the middleware chain.
func newServer(cfg *config.Config, database *sql.DB, listings catalog.ListingCache) (http.Handler, error) {
	m := metrics.NewRegistry()

	catalogSvc := catalog.NewService(catalog.NewRepository(database), listings, m)
	sellerSvc := seller.NewService(
		seller.NewRepository(database),
		seller.NewTokenIssuer(cfg.JWTSecret, seller.DefaultTokenTTL),
		listings,
		m,
	)

	uploads, err := handler.NewUploader(cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	api := handler.New(catalogSvc, sellerSvc, uploads, m)
	auth := middleware.NewAuth(sellerSvc, cfg.AdminUsername, cfg.AdminPassword)
	limiter := middleware.NewLimiter(cfg.InternalKey)

	return middleware.Chain(api.Routes(),
		logger.RequestIDMiddleware,
		middleware.CORS(cfg.PublicOrigin),
		auth.Identify,
		middleware.Logging,
		limiter.Middleware,
	), nil
}
