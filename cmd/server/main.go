package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nyumba/nyumba/internal/admin"
	"github.com/nyumba/nyumba/internal/api"
	"github.com/nyumba/nyumba/internal/config"
	"github.com/nyumba/nyumba/internal/database"
	"github.com/nyumba/nyumba/internal/identity"
	"github.com/nyumba/nyumba/internal/lease"
	"github.com/nyumba/nyumba/internal/maintenance"
	"github.com/nyumba/nyumba/internal/message"
	"github.com/nyumba/nyumba/internal/payment"
	"github.com/nyumba/nyumba/internal/property"
	"github.com/nyumba/nyumba/internal/roles"
	"github.com/nyumba/nyumba/internal/session"
	"github.com/nyumba/nyumba/internal/tenant"
	"github.com/nyumba/nyumba/internal/unit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := database.New(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	pool := db.Pool()

	admins := admin.NewRepository(pool)
	tenants := tenant.NewRepository(pool)
	accounts := identity.NewAccountRepository(pool)
	registrar := identity.NewRegistrar(pool, accounts, admins, tenants)
	sessions := session.NewRedisStore(redisClient)

	provider := identity.NewService(accounts, registrar, sessions,
		cfg.BcryptCost, time.Duration(cfg.SessionTTLHours)*time.Hour)
	roleService := roles.NewService(admins, tenants)

	router := api.NewRouter(api.RouterDeps{
		Provider:      provider,
		Roles:         roleService,
		DBPinger:      db,
		SessionPinger: redisPinger{client: redisClient},
		Version:       cfg.Version,

		Properties:    property.NewRepository(pool),
		Units:         unit.NewRepository(pool),
		Tenants:       tenants,
		Leases:        lease.NewRepository(pool),
		Maintenance:   maintenance.NewRepository(pool),
		Payments:      payment.NewRepository(pool),
		Messages:      message.NewRepository(pool),
		Notifications: message.NewNotificationRepository(pool),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting nyumba server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// redisPinger adapts the redis client's Ping to a plain error return.
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
