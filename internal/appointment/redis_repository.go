package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	redisclient "github.com/hackgods/reception-board/internal/redis"
)

const (
	redisOrderKey  = "appointments:order"
	redisSeededKey = "appointments:seeded"
)

func redisRecordKey(id string) string {
	return "appointment:" + id
}

// RedisRepository stores each appointment as a JSON value and keeps board
// order in a list of ids.
type RedisRepository struct {
	client redis.UniversalClient
	locker redisclient.Locker
}

func NewRedisRepository(client redis.UniversalClient, locker redisclient.Locker) *RedisRepository {
	return &RedisRepository{client: client, locker: locker}
}

// SeedIfEmpty writes records once per Redis database. The seed marker is
// claimed with SETNX, so concurrent starters cannot both seed.
func (r *RedisRepository) SeedIfEmpty(ctx context.Context, records []Appointment) (int, error) {
	claimed, err := r.client.SetNX(ctx, redisSeededKey, time.Now().UTC().Format(time.RFC3339), 0).Result()
	if err != nil {
		return 0, fmt.Errorf("claim seed marker: %w", err)
	}
	if !claimed {
		return 0, nil
	}

	n, err := r.client.LLen(ctx, redisOrderKey).Result()
	if err != nil {
		return 0, fmt.Errorf("read board order: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	written, err := r.Insert(ctx, records)
	if err != nil {
		// release the marker so the next start retries
		_ = r.client.Del(context.WithoutCancel(ctx), redisSeededKey).Err()
		return written, err
	}
	return written, nil
}

// insertScript creates the record and appends its id to the board order in
// one step; an existing id is left untouched.
var insertScript = redis.NewScript(`
if redis.call("SETNX", KEYS[1], ARGV[1]) == 1 then
  redis.call("RPUSH", KEYS[2], ARGV[2])
  return 1
end
return 0
`)

// Insert appends records that are not stored yet and reports how many were
// written.
func (r *RedisRepository) Insert(ctx context.Context, records []Appointment) (int, error) {
	written := 0
	for _, a := range records {
		data, err := json.Marshal(a)
		if err != nil {
			return written, fmt.Errorf("encode appointment %s: %w", a.ID, err)
		}
		added, err := insertScript.Run(ctx, r.client, []string{redisRecordKey(a.ID), redisOrderKey}, data, a.ID).Int()
		if err != nil {
			return written, fmt.Errorf("write appointment %s: %w", a.ID, err)
		}
		written += added
	}
	return written, nil
}

func (r *RedisRepository) ListAppointments(ctx context.Context, _ Filter) ([]Appointment, error) {
	ids, err := r.client.LRange(ctx, redisOrderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read board order: %w", err)
	}
	if len(ids) == 0 {
		return []Appointment{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisRecordKey(id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read appointments: %w", err)
	}

	result := make([]Appointment, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			// order entry without a record, skip it
			continue
		}
		var a Appointment
		if err := json.Unmarshal([]byte(s), &a); err != nil {
			return nil, fmt.Errorf("decode appointment %s: %w", ids[i], err)
		}
		result = append(result, a)
	}
	return result, nil
}

func (r *RedisRepository) GetAppointmentByID(ctx context.Context, id string) (*Appointment, error) {
	data, err := r.client.Get(ctx, redisRecordKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("read appointment %s: %w", id, err)
	}

	var a Appointment
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode appointment %s: %w", id, err)
	}
	return &a, nil
}

func (r *RedisRepository) UpdateAppointmentStatus(ctx context.Context, id string, from, to Status) (*Appointment, error) {
	var updated *Appointment

	err := r.locker.WithAppointmentLock(ctx, id, func(lockCtx context.Context) error {
		current, err := r.GetAppointmentByID(lockCtx, id)
		if err != nil {
			return err
		}
		if current.Status != from {
			return ErrStatusChanged
		}

		current.Status = to
		data, err := json.Marshal(current)
		if err != nil {
			return fmt.Errorf("encode appointment %s: %w", id, err)
		}
		if err := r.client.Set(lockCtx, redisRecordKey(id), data, 0).Err(); err != nil {
			return fmt.Errorf("write appointment %s: %w", id, err)
		}

		updated = current
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrAppointmentBusy
		}
		return nil, err
	}

	return updated, nil
}
