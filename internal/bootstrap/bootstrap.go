// Package bootstrap wires configuration, stores, clients and services into a
// runnable server for each agora binary.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agora/internal/cache"
	"agora/internal/clients"
	"agora/internal/config"
	"agora/internal/database"
	"agora/internal/middleware"
	"agora/internal/models"
	"agora/internal/observability"
	"agora/internal/repository"
	"agora/internal/server"
	"agora/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Init loads configuration for service and installs the process-wide logger
// and tracer. The returned function flushes the tracer.
func Init(serviceName string) (*config.Config, func(context.Context) error, error) {
	cfg, err := config.LoadConfig(serviceName)
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	logger := middleware.NewLogger(cfg.Env, "agora-"+serviceName)
	middleware.Logger = logger
	observability.SetLogger(logger)
	slog.SetDefault(logger)

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "agora-" + serviceName,
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSamplerRatio,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init tracing: %w", err)
	}
	return cfg, shutdownTracing, nil
}

// Build creates the server for cfg.Service with every dependency connected.
func Build(ctx context.Context, cfg *config.Config) (*server.Server, error) {
	switch cfg.Service {
	case config.ServiceUser:
		return buildUser(cfg)
	case config.ServicePost:
		return buildPost(cfg)
	case config.ServiceComment:
		return buildComment(cfg)
	case config.ServiceTrending:
		return buildTrending(ctx, cfg)
	case config.ServiceGateway:
		return buildGateway(ctx, cfg)
	}
	return nil, fmt.Errorf("unknown service %q", cfg.Service)
}

func closeDB(db *gorm.DB) func() error {
	return func() error { return database.Close(db) }
}

func closeRedis(rdb *redis.Client) func() error {
	return func() error {
		if rdb == nil {
			return nil
		}
		return rdb.Close()
	}
}

func userProbe(cfg *config.Config) *clients.Prober {
	return clients.NewProber(server.DisplayName(config.ServiceUser), cfg.UserServiceBase, cfg.HealthTimeout)
}

func buildUser(cfg *config.Config) (*server.Server, error) {
	db, err := database.Connect(cfg, cfg.DBName, &models.User{})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return server.NewServer(cfg, server.Deps{
		Users:   service.NewUserService(repository.NewUserRepository(db), 0),
		Closers: []func() error{closeDB(db)},
	}), nil
}

func buildPost(cfg *config.Config) (*server.Server, error) {
	db, err := database.Connect(cfg, cfg.DBName, &models.Post{})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	users := clients.NewUserClient(cfg.UserServiceBase, cfg.ServiceTimeout)
	comments := clients.NewCommentClient(cfg.CommentServiceBase, cfg.ServiceTimeout)

	return server.NewServer(cfg, server.Deps{
		Health:  service.NewHealthChecker(server.DisplayName(cfg.Service), userProbe(cfg)),
		Posts:   service.NewPostService(repository.NewPostRepository(db), users, service.NewCascade(comments)),
		Closers: []func() error{closeDB(db)},
	}), nil
}

func buildComment(cfg *config.Config) (*server.Server, error) {
	db, err := database.Connect(cfg, cfg.DBName, &models.Comment{})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	users := clients.NewUserClient(cfg.UserServiceBase, cfg.ServiceTimeout)
	posts := clients.NewPostClient(cfg.PostServiceBase, cfg.ServiceTimeout)

	return server.NewServer(cfg, server.Deps{
		Health:   service.NewHealthChecker(server.DisplayName(cfg.Service), userProbe(cfg)),
		Comments: service.NewCommentService(repository.NewCommentRepository(db), users, posts),
		Closers:  []func() error{closeDB(db)},
	}), nil
}

// buildTrending opens all three entity databases. Their owning services run
// the migrations.
func buildTrending(ctx context.Context, cfg *config.Config) (*server.Server, error) {
	var closers []func() error
	open := func(name string) (*gorm.DB, error) {
		db, err := database.Connect(cfg, name)
		if err != nil {
			return nil, fmt.Errorf("database %s connection failed: %w", name, err)
		}
		closers = append(closers, closeDB(db))
		return db, nil
	}
	fail := func(err error) (*server.Server, error) {
		for _, c := range closers {
			_ = c()
		}
		return nil, err
	}

	userDB, err := open(cfg.UserDBName)
	if err != nil {
		return fail(err)
	}
	postDB, err := open(cfg.PostDBName)
	if err != nil {
		return fail(err)
	}
	commentDB, err := open(cfg.CommentDBName)
	if err != nil {
		return fail(err)
	}

	rdb := cache.Connect(ctx, cfg.RedisURL)
	closers = append(closers, closeRedis(rdb))

	trending := service.NewTrendingService(
		repository.NewUserRepository(userDB),
		repository.NewPostRepository(postDB),
		repository.NewCommentRepository(commentDB),
		rdb,
		cfg.TrendingCacheTTL,
	)
	health := service.NewHealthChecker(server.DisplayName(cfg.Service),
		userProbe(cfg),
		clients.NewProber(server.DisplayName(config.ServicePost), cfg.PostServiceBase, cfg.HealthTimeout),
		clients.NewProber(server.DisplayName(config.ServiceComment), cfg.CommentServiceBase, cfg.HealthTimeout),
	)

	return server.NewServer(cfg, server.Deps{
		Redis:    rdb,
		Health:   health,
		Trending: trending,
		Closers:  closers,
	}), nil
}

func buildGateway(ctx context.Context, cfg *config.Config) (*server.Server, error) {
	tokens, err := service.NewTokenIssuer(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTL(), cfg.JWTIssuer)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}
	rdb := cache.Connect(ctx, cfg.RedisURL)
	users := clients.NewUserClient(cfg.UserServiceBase, cfg.ServiceTimeout)

	return server.NewServer(cfg, server.Deps{
		Redis:   rdb,
		Health:  service.NewHealthChecker(server.DisplayName(cfg.Service), userProbe(cfg)),
		Auth:    service.NewAuthService(users, tokens),
		Tokens:  tokens,
		Closers: []func() error{closeRedis(rdb)},
	}), nil
}

// Run starts service and blocks until it receives SIGINT or SIGTERM.
func Run(serviceName string) error {
	cfg, shutdownTracing, err := Init(serviceName)
	if err != nil {
		return err
	}

	ctx := context.Background()
	srv, err := Build(ctx, cfg)
	if err != nil {
		return err
	}
	app := srv.NewApp()

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		slog.Info("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("server resource shutdown error", "err", err)
		}
		if err := shutdownTracing(ctx); err != nil {
			slog.Error("tracer shutdown error", "err", err)
		}
	}()

	slog.Info("server starting", "service", serviceName, "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		return err
	}
	<-done
	return nil
}
