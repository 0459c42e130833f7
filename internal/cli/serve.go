package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/RaquelSandblad/flocken-website-sub001/internal/analytics"
	"github.com/RaquelSandblad/flocken-website-sub001/internal/app"
	"github.com/RaquelSandblad/flocken-website-sub001/internal/config"
	"github.com/RaquelSandblad/flocken-website-sub001/internal/content"
	pgsource "github.com/RaquelSandblad/flocken-website-sub001/internal/infra/postgres"
	redisinfra "github.com/RaquelSandblad/flocken-website-sub001/internal/infra/redis"
	transport "github.com/RaquelSandblad/flocken-website-sub001/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var source content.Source = content.NewFSSource(cfg.Content.Dir)
	if pool != nil {
		source = pgsource.NewSource(pool)
	}
	if redisClient != nil {
		ttl := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
		source = redisinfra.NewDefinitionCache(redisClient, source, ttl)
	}
	repo := content.NewRepository(source)

	var tracker analytics.Tracker = analytics.NewLogTracker(logger)
	if redisClient != nil {
		tracker = redisinfra.NewTracker(redisClient)
	}

	service := app.NewPlayService(repo, tracker)
	api := transport.NewAPI(repo, tracker, logger)
	play := transport.NewPlayHandler(service, logger)

	server := &http.Server{
		Addr:    ":" + finalPort,
		Handler: transport.NewRouter(api, play),
		// Play sessions hold their websocket open, so only the
		// header read gets a deadline.
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting quiz service", "port", finalPort, "content_dir", cfg.Content.Dir)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
