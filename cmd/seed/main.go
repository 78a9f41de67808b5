package main

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog/log"

	"github.com/hackgods/reception-board/internal/appointment"
	"github.com/hackgods/reception-board/internal/config"
	"github.com/hackgods/reception-board/internal/db"
	"github.com/hackgods/reception-board/internal/logging"
	redisclient "github.com/hackgods/reception-board/internal/redis"
)

type seeder interface {
	SeedIfEmpty(ctx context.Context, records []appointment.Appointment) (int, error)
	ListAppointments(ctx context.Context, f appointment.Filter) ([]appointment.Appointment, error)
	Insert(ctx context.Context, records []appointment.Appointment) (int, error)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}
	logging.Init("seed", cfg.Env, cfg.LogLevel)

	extra := getInt("SEED_EXTRA", 20)
	log.Info().Str("store_backend", cfg.StoreBackend).Int("extra", extra).Msg("seed starting")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	gofakeit.Seed(time.Now().UnixNano())

	var target seeder
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("connect postgres")
		}
		defer pool.Close()

		repo := appointment.NewPgRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("ensure schema")
		}
		target = repo

	case config.BackendRedis:
		rdb, err := redisclient.NewRedisClient(ctx, redisclient.Options{
			Addr:     cfg.RedisAddr,
			Username: cfg.RedisUsername,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("connect redis")
		}
		defer rdb.Close()

		target = appointment.NewRedisRepository(rdb, redisclient.NewRedisAppointmentLocker(rdb, cfg.LockTTL))

	default:
		log.Fatal().Msg("seed needs STORE_BACKEND=postgres or STORE_BACKEND=redis")
	}

	seeded, added, err := run(ctx, target, extra)
	if err != nil {
		log.Fatal().Err(err).Msg("seed appointments")
	}
	log.Info().Int("board", seeded).Int("extra", added).Msg("seed complete")
}

// run writes the fixed board when the store is empty, then appends extra
// generated appointments after the highest token already stored. The api
// server seeds the fixed board on startup, so extras must not depend on an
// empty store.
func run(ctx context.Context, target seeder, extra int) (seeded, added int, err error) {
	seeded, err = target.SeedIfEmpty(ctx, appointment.Seed())
	if err != nil {
		return 0, 0, fmt.Errorf("seed board: %w", err)
	}
	if extra == 0 {
		return seeded, 0, nil
	}

	existing, err := target.ListAppointments(ctx, appointment.Filter{})
	if err != nil {
		return seeded, 0, fmt.Errorf("list appointments: %w", err)
	}

	added, err = target.Insert(ctx, generate(nextToken(existing), extra))
	if err != nil {
		return seeded, added, fmt.Errorf("insert generated appointments: %w", err)
	}
	return seeded, added, nil
}
