package cli

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spantree/pkg/config"
	apperrors "github.com/matzehuels/spantree/pkg/errors"
	"github.com/matzehuels/spantree/pkg/library"
	"github.com/matzehuels/spantree/pkg/observability"
	"github.com/matzehuels/spantree/pkg/server"
	"github.com/matzehuels/spantree/pkg/session"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the engine, layout, render, session and graph library API.

Session and library backends come from the [server] section of the config
file. Prometheus metrics are exposed at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return c.runServe(ctx, addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	metrics, err := observability.NewPrometheusHooks(nil)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	metrics.Register()

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	sessions, err := newSessionStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	defer sessions.Close()

	lib, err := newLibrary(ctx, cfg)
	if err != nil {
		return fmt.Errorf("graph library: %w", err)
	}
	defer lib.Close(context.WithoutCancel(ctx))

	srv, err := server.New(server.Config{
		Runner:     runner,
		Sessions:   sessions,
		Library:    lib,
		Logger:     c.Logger,
		Metrics:    metrics.Handler(),
		SessionTTL: cfg.Server.SessionTTL.Duration,
	})
	if err != nil {
		return err
	}

	if every := cfg.Server.CleanupInterval.Duration; every > 0 {
		go session.RunCleanup(ctx, sessions, every, func(err error) {
			c.Logger.Warn("session cleanup failed", "error", err)
		})
	}

	listen := firstNonEmpty(addr, cfg.Server.Addr)
	c.Logger.Info("serving",
		"addr", listen,
		"sessions", cfg.Server.SessionStore,
		"library", cfg.Server.Library,
		"cache", cacheBackendName(cfg, noCache))
	return srv.ListenAndServe(ctx, listen, cfg.Server.ReadTimeout.Duration, cfg.Server.WriteTimeout.Duration)
}

// newSessionStore builds the configured session backend.
func newSessionStore(ctx context.Context, cfg config.Config) (session.Store, error) {
	switch cfg.Server.SessionStore {
	case config.BackendFile:
		dir := cfg.Server.SessionDir
		if dir == "" {
			base, err := cacheDir()
			if err != nil {
				return nil, err
			}
			dir = filepath.Join(base, "sessions")
		}
		return session.NewFileStore(dir)
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "cannot reach redis at %s", cfg.Redis.Addr)
		}
		return session.NewRedisStore(client, cfg.Redis.Prefix+"session:"), nil
	default:
		return session.NewMemoryStore(), nil
	}
}

// newLibrary builds the configured graph library. The memory library is
// seeded with the predefined scenarios.
func newLibrary(ctx context.Context, cfg config.Config) (library.Store, error) {
	if cfg.Server.Library == config.BackendMongo {
		store, err := library.NewMongoStore(ctx, library.MongoConfig{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "cannot reach mongodb")
		}
		return store, nil
	}
	return library.NewSeededMemoryStore(ctx)
}

func cacheBackendName(cfg config.Config, noCache bool) string {
	if noCache || !cfg.Cache.Enabled {
		return "off"
	}
	return cfg.Cache.Backend
}
