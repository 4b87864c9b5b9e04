package widecolumn

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocql/gocql"
)

// Session is the narrow slice of a CQL session the store needs.
type Session interface {
	Exec(ctx context.Context, stmt string, values ...any) error
	Iter(ctx context.Context, stmt string, values ...any) Iter
	Close()
}

// Iter walks the rows of a query. *gocql.Iter satisfies it.
type Iter interface {
	Scan(dest ...any) bool
	Close() error
}

// ClusterConfig addresses a Cassandra cluster.
type ClusterConfig struct {
	Hosts       []string
	Keyspace    string
	Consistency string
	Timeout     time.Duration
}

type gocqlSession struct {
	s *gocql.Session
}

// Connect opens a gocql session for cfg.
func Connect(cfg ClusterConfig) (Session, error) {
	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Keyspace = cfg.Keyspace
	if cfg.Timeout > 0 {
		cluster.Timeout = cfg.Timeout
		cluster.ConnectTimeout = cfg.Timeout
	}
	if cfg.Consistency != "" {
		c, err := gocql.ParseConsistencyWrapper(strings.ToUpper(cfg.Consistency))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadConsistency, cfg.Consistency)
		}
		cluster.Consistency = c
	}

	s, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	return &gocqlSession{s: s}, nil
}

func (g *gocqlSession) Exec(ctx context.Context, stmt string, values ...any) error {
	return g.s.Query(stmt, values...).WithContext(ctx).Exec()
}

func (g *gocqlSession) Iter(ctx context.Context, stmt string, values ...any) Iter {
	return g.s.Query(stmt, values...).WithContext(ctx).Iter()
}

func (g *gocqlSession) Close() { g.s.Close() }
