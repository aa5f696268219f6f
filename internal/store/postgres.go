// Package store wires PostgreSQL connection pools for the two credential
// tiers the application uses: a restricted reader for catalog queries and an
// elevated service role for seeding and user-owned data.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"tcgcollectr/internal/config"
)

// Pools bundles the two connection pools. Read connects as a role limited
// to SELECT on catalog tables; Service connects as the role that owns
// writes. Catalog reads must never run on Service and seeding must never
// run on Read.
type Pools struct {
	Read    *pgxpool.Pool
	Service *pgxpool.Pool
}

// NewPools opens both pools and verifies connectivity.
func NewPools(ctx context.Context, cfg config.DatabaseConfig) (*Pools, error) {
	read, err := newPool(ctx, cfg.ReadDSN, cfg)
	if err != nil {
		return nil, fmt.Errorf("read pool: %w", err)
	}

	service, err := newPool(ctx, cfg.ServiceDSN, cfg)
	if err != nil {
		read.Close()
		return nil, fmt.Errorf("service pool: %w", err)
	}

	return &Pools{Read: read, Service: service}, nil
}

// Close releases both pools.
func (p *Pools) Close() {
	if p.Read != nil {
		p.Read.Close()
	}
	if p.Service != nil {
		p.Service.Close()
	}
}

func newPool(ctx context.Context, dsn string, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return pool, nil
}
