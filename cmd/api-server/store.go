package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hackgods/reception-board/internal/api"
	"github.com/hackgods/reception-board/internal/appointment"
	"github.com/hackgods/reception-board/internal/config"
	"github.com/hackgods/reception-board/internal/db"
	redisclient "github.com/hackgods/reception-board/internal/redis"
)

type store struct {
	repo   appointment.Repository
	checks []api.DependencyCheck
	close  func()
}

// openStore builds the configured backend. Redis and Postgres backends are
// seeded with the fixed board when they hold no appointments yet.
func openStore(ctx context.Context, cfg config.Config) (*store, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		rdb, err := redisclient.NewRedisClient(ctx, redisclient.Options{
			Addr:     cfg.RedisAddr,
			Username: cfg.RedisUsername,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			return nil, err
		}
		log.Info().Str("addr", cfg.RedisAddr).Msg("connected to Redis")

		repo := appointment.NewRedisRepository(rdb, redisclient.NewRedisAppointmentLocker(rdb, cfg.LockTTL))
		if n, err := repo.SeedIfEmpty(ctx, appointment.Seed()); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("seed redis: %w", err)
		} else if n > 0 {
			log.Info().Int("count", n).Msg("seeded redis board")
		}

		return &store{
			repo: repo,
			checks: []api.DependencyCheck{{
				Name:     "redis",
				Critical: true,
				Ping:     func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
			}},
			close: func() {
				if err := rdb.Close(); err != nil {
					log.Error().Err(err).Msg("error closing redis")
				}
			},
		}, nil

	case config.BackendPostgres:
		pgCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		pool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
		cancel()
		if err != nil {
			return nil, err
		}
		log.Info().Msg("connected to Postgres")

		repo := appointment.NewPgRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		if n, err := repo.SeedIfEmpty(ctx, appointment.Seed()); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed postgres: %w", err)
		} else if n > 0 {
			log.Info().Int("count", n).Msg("seeded postgres board")
		}

		return &store{
			repo: repo,
			checks: []api.DependencyCheck{{
				Name:     "postgres",
				Critical: true,
				Ping:     pool.Ping,
			}},
			close: pool.Close,
		}, nil

	default:
		return &store{
			repo:  appointment.NewSeededMemoryRepository(),
			close: func() {},
		}, nil
	}
}
