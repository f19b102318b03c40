package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"dogceo/browser/internal/client"
	"dogceo/browser/internal/config"
	"dogceo/browser/internal/notify"
	"dogceo/browser/internal/proxy"
	"dogceo/browser/internal/selection"
	"dogceo/browser/internal/service"
	"dogceo/browser/internal/storage"
	"dogceo/browser/internal/web"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// CLIProfile scopes the selection made from the command line.
const CLIProfile = "cli"

// Container holds all initialized components
type Container struct {
	Config   *config.Config
	Client   client.DogAPIClient
	Store    *selection.Store
	Flash    *notify.FlashNotifier
	Notifier notify.Notifier

	// WebService hands the selection over in session storage, CLIService in
	// persistent storage so it survives between invocations.
	WebService *service.Service
	CLIService *service.Service

	db    *pgxpool.Pool
	redis *redis.Client
	bolt  *storage.BoltBackend
}

// New creates a new container with all dependencies initialized. Storage that
// cannot be reached is left out, which makes its kind unavailable rather than
// failing start-up.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
		Flash:  notify.NewFlashNotifier(),
	}
	container.Notifier = notify.Multi{notify.NewLogNotifier(nil), container.Flash}

	proxySupplier, err := proxy.NewProxySupplier(ctx, cfg.DogAPI.Proxies, probeURL(cfg.DogAPI.BaseURL), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize proxy supplier: %w", err)
	}

	container.Client = client.NewDogAPIClient(cfg.DogAPI, proxySupplier, container.Notifier)

	backends := map[selection.Kind]storage.Backend{}
	if backend := container.sessionBackend(ctx); backend != nil {
		backends[selection.SessionScoped] = backend
	}
	if backend := container.persistentBackend(ctx); backend != nil {
		backends[selection.Persistent] = backend
	}

	container.Store = selection.NewStore(backends, container.Notifier)
	container.WebService = service.NewService(container.Client, container.Store, selection.SessionScoped)
	container.CLIService = service.NewService(container.Client, container.Store, selection.Persistent)

	return container, nil
}

func probeURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/breeds/image/random"
}

func (c *Container) sessionBackend(ctx context.Context) storage.Backend {
	cfg := c.Config
	switch cfg.Storage.Session.Driver {
	case config.DriverMemory:
		ttl := time.Duration(cfg.Storage.Session.TTL) * time.Second
		log.Infof("✅ Session storage: memory (quota %d bytes per session, ttl %v)", cfg.Storage.Session.QuotaBytes, ttl)
		return storage.NewMemoryBackend(cfg.Storage.Session.QuotaBytes, ttl)

	case config.DriverRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})
		c.redis = rdb

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Warnf("⚠️ Redis is not reachable, session storage will report unavailable until it is: %v", err)
		} else {
			log.Info("✅ Connected to Redis successfully")
		}
		return storage.NewRedisBackend(rdb, time.Duration(cfg.Storage.Session.TTL)*time.Second)

	default:
		log.Warn("⚠️ Session storage disabled")
		return nil
	}
}

func (c *Container) persistentBackend(ctx context.Context) storage.Backend {
	cfg := c.Config
	switch cfg.Storage.Persistent.Driver {
	case config.DriverBolt:
		b, err := storage.NewBoltBackend(cfg.Storage.Persistent.Path)
		if err != nil {
			log.Warnf("⚠️ Persistent storage unavailable: %v", err)
			return nil
		}
		c.bolt = b
		log.Infof("✅ Persistent storage: bolt (%s)", cfg.Storage.Persistent.Path)
		return b

	case config.DriverPostgres:
		db, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Warnf("⚠️ Persistent storage unavailable: %v", err)
			return nil
		}
		c.db = db

		b, err := storage.NewPostgresBackend(ctx, db)
		if err != nil {
			log.Warnf("⚠️ Persistent storage unavailable: %v", err)
			return nil
		}
		log.Info("✅ Connected to Postgres successfully")
		return b

	default:
		log.Warn("⚠️ Persistent storage disabled")
		return nil
	}
}

// Run serves the web front-end until ctx is cancelled.
func (c *Container) Run(ctx context.Context) error {
	server, err := web.NewServer(c.WebService, c.Flash, c.Config.Server.CookieSecure)
	if err != nil {
		return fmt.Errorf("failed to build web server: %w", err)
	}

	httpServer := &http.Server{
		Addr:              c.Config.Server.Addr(),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("🚀 Serving on http://%s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("🛑 Shutting down web server...")

		timeout := time.Duration(c.Config.Server.ShutdownTimeout) * time.Second
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Debug("Shutting down container...")

	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		c.redis.Close()
	}
	if c.bolt != nil {
		if err := c.bolt.Close(); err != nil {
			return fmt.Errorf("failed to close bolt db: %w", err)
		}
	}

	log.Debug("Container shut down successfully")
	return nil
}
