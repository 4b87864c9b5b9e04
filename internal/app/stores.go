package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/adapters/livestore"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/adapters/sqlstore"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/adapters/widecolumn"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/config"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/pkg/logger"
)

// Stores bundles the three connected stores.
type Stores struct {
	Live       *livestore.Store
	WideColumn *widecolumn.Store
	SQL        *sqlstore.Store
}

// ConnectLive dials Redis and checks the connection.
func ConnectLive(ctx context.Context, cfg config.RedisConfig, log logger.Logger) (*livestore.Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	store := livestore.New(client, livestore.WithLogger(log.Named("livestore")))
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// ConnectWideColumn opens a Cassandra session.
func ConnectWideColumn(cfg config.CassandraConfig) (*widecolumn.Store, error) {
	session, err := widecolumn.Connect(widecolumn.ClusterConfig{
		Hosts:       cfg.Hosts,
		Keyspace:    cfg.Keyspace,
		Consistency: cfg.Consistency,
		Timeout:     cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return widecolumn.New(session), nil
}

// Connect opens every store named in cfg. Stores opened before a failure
// are closed again.
func Connect(ctx context.Context, cfg *config.Config, log logger.Logger) (*Stores, error) {
	live, err := ConnectLive(ctx, cfg.Redis, log)
	if err != nil {
		return nil, fmt.Errorf("connect live store: %w", err)
	}

	wide, err := ConnectWideColumn(cfg.Cassandra)
	if err != nil {
		_ = live.Close()
		return nil, fmt.Errorf("connect wide-column store: %w", err)
	}

	sql, err := sqlstore.Open(ctx, cfg.SQL.Driver, cfg.SQL.DSN)
	if err != nil {
		_ = live.Close()
		wide.Close()
		return nil, fmt.Errorf("connect relational store: %w", err)
	}

	log.Info(ctx, "stores connected",
		logger.String("redis", cfg.Redis.Addr),
		logger.Any("cassandra", cfg.Cassandra.Hosts),
		logger.String("sql_driver", cfg.SQL.Driver),
	)
	return &Stores{Live: live, WideColumn: wide, SQL: sql}, nil
}

// Close closes every store.
func (s *Stores) Close() error {
	s.WideColumn.Close()
	return errors.Join(s.Live.Close(), s.SQL.Close())
}
