package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockNotAcquired = errors.New("appointment lock not acquired")

// Locker serialises status writes to one appointment across api-server
// instances sharing a Redis.
type Locker interface {
	WithAppointmentLock(ctx context.Context, appointmentID string, fn func(ctx context.Context) error) error
}

func LockKey(appointmentID string) string {
	return "lock:appointment:" + appointmentID
}

// Lease is a held appointment lock. It expires on its own after the TTL if
// the holder dies before releasing it.
type Lease struct {
	client  redis.UniversalClient
	key     string
	token   string
	expires time.Time
}

// Deadline is when Redis drops the key regardless of Release.
func (l *Lease) Deadline() time.Time {
	return l.expires
}

// compareAndDelete removes the key only while it still carries our token, so
// a lease that outlived its TTL never deletes a newer holder's lock.
var compareAndDelete = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// Release reports whether the lock was still ours when it was dropped.
func (l *Lease) Release(ctx context.Context) (bool, error) {
	n, err := compareAndDelete.Run(ctx, l.client, []string{l.key}, l.token).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("release %s: %w", l.key, err)
	}
	return n == 1, nil
}

type AppointmentLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisAppointmentLocker(client redis.UniversalClient, ttl time.Duration) *AppointmentLocker {
	return &AppointmentLocker{client: client, ttl: ttl}
}

// Acquire takes the lock for one appointment or fails with
// ErrLockNotAcquired when another holder has it.
func (l *AppointmentLocker) Acquire(ctx context.Context, appointmentID string) (*Lease, error) {
	lease := &Lease{
		client: l.client,
		key:    LockKey(appointmentID),
		token:  uuid.NewString(),
	}

	ok, err := l.client.SetNX(ctx, lease.key, lease.token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", lease.key, err)
	}
	if !ok {
		return nil, ErrLockNotAcquired
	}

	lease.expires = time.Now().Add(l.ttl)
	return lease, nil
}

// WithAppointmentLock runs fn while holding the appointment's lock. fn's
// context ends when the lease would expire.
func (l *AppointmentLocker) WithAppointmentLock(ctx context.Context, appointmentID string, fn func(ctx context.Context) error) error {
	lease, err := l.Acquire(ctx, appointmentID)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = lease.Release(context.WithoutCancel(ctx))
	}()

	leaseCtx, cancel := context.WithDeadline(ctx, lease.Deadline())
	defer cancel()

	return fn(leaseCtx)
}
