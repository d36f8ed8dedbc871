package schengenplanner

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/schengen-planner/internal/cache"
	"github.com/magabrotheeeer/schengen-planner/internal/config"
	"github.com/magabrotheeeer/schengen-planner/internal/lib/jwt"
	"github.com/magabrotheeeer/schengen-planner/internal/lib/schedule"
	"github.com/magabrotheeeer/schengen-planner/internal/migrations"
	authservice "github.com/magabrotheeeer/schengen-planner/internal/services/auth"
	plannerservice "github.com/magabrotheeeer/schengen-planner/internal/services/planner"
	"github.com/magabrotheeeer/schengen-planner/internal/storage"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(db, jwtMaker)

	policy := schedule.Policy{
		MaxStayDays:     cfg.MaxStayDays,
		RecoveryGapDays: cfg.RecoveryGapDays,
	}
	validities := make([]schedule.Validity, 0, len(cfg.Validities))
	for _, v := range cfg.Validities {
		validities = append(validities, schedule.Validity{Label: v.Label, Days: v.Days})
	}
	plannerService := plannerservice.NewPlannerService(db, cacheRedis, logger, policy, validities)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, plannerService, authService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  *cacheRedis,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
