package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smartats/internal/config"
	"smartats/internal/database"
	"smartats/internal/database/migration"
	dbpostgres "smartats/internal/database/postgres"
	"smartats/internal/events"
	"smartats/internal/infrastructure/cache"
	"smartats/internal/ws"
	"smartats/migrations"

	"go.uber.org/zap"
)

// Container owns the process-wide infrastructure handles.
type Container struct {
	Config config.Config
	Logger *zap.Logger

	DB    database.DB
	Cache *cache.Redis
	Hub   *ws.Hub
	NATS  *events.NATSPublisher

	stopHub context.CancelFunc
}

func NewContainer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Container{Config: cfg, Logger: logger}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database, logger.Named("postgres"))
	if err != nil {
		return nil, err
	}
	c.DB = db

	if cfg.Database.RunMigrations {
		runner := migration.Runner{FS: migrations.FS, Logger: logger.Named("migration")}
		if err := runner.Run(connectCtx, db.SQLDB()); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	c.Cache = cache.NewRedis(cfg.Redis, logger.Named("cache"))

	hubCtx, stopHub := context.WithCancel(context.Background())
	c.Hub = ws.NewHub(logger.Named("ws"))
	c.stopHub = stopHub
	go c.Hub.Run(hubCtx)

	if cfg.NATS.Enabled() {
		pub, err := events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.ConnectTimeout, logger.Named("nats"))
		if err != nil {
			// events are best effort; the API stays up without the broker
			logger.Warn("nats unavailable, job events limited to websocket", zap.Error(err))
		} else {
			c.NATS = pub
		}
	}

	return c, nil
}

// Publisher fans job events out to every configured sink.
func (c *Container) Publisher() events.Publisher {
	f := events.Fanout{c.Hub}
	if c.NATS != nil {
		f = append(f, c.NATS)
	}
	return f
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.stopHub != nil {
		c.stopHub()
	}
	if c.NATS != nil {
		c.NATS.Close()
	}
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
