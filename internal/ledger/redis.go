package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/mkravets/docbooking/internal/domain"
)

// Holds never expire on their own: only a cancellation releases a slot, so
// no TTL is set on hold keys. Each hold maintains two structures in one
// script: the per-slot key (value = holder appointment id) and a per
// (doctor, date) set used to answer availability queries.
var (
	tryHoldScript = redis.NewScript(`
if redis.call("SETNX", KEYS[1], ARGV[1]) == 1 then
	redis.call("SADD", KEYS[2], ARGV[2])
	return 1
end
return 0
`)

	releaseScript = redis.NewScript(`
local holder = redis.call("GET", KEYS[1])
if holder == false then
	return 0
end
if holder ~= ARGV[1] then
	return -1
end
redis.call("DEL", KEYS[1])
redis.call("SREM", KEYS[2], ARGV[2])
return 1
`)
)

// Redis is the distributed ledger implementation.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) TryHold(ctx context.Context, key domain.SlotKey, appointmentID string) error {
	res, err := tryHoldScript.Run(ctx, r.client, []string{holdKey(key), dayKey(key.DoctorID, key.Date)}, appointmentID, key.Time).Int()
	if err != nil {
		return fmt.Errorf("ledger: try hold %s: %w", key, err)
	}
	if res != 1 {
		return ErrConflict
	}
	return nil
}

func (r *Redis) Release(ctx context.Context, key domain.SlotKey, appointmentID string) error {
	res, err := releaseScript.Run(ctx, r.client, []string{holdKey(key), dayKey(key.DoctorID, key.Date)}, appointmentID, key.Time).Int()
	if err != nil {
		return fmt.Errorf("ledger: release %s: %w", key, err)
	}
	switch res {
	case 1:
		return nil
	case -1:
		return ErrMismatch
	default:
		return ErrNotHeld
	}
}

func (r *Redis) IsHeld(ctx context.Context, key domain.SlotKey) (bool, error) {
	n, err := r.client.Exists(ctx, holdKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("ledger: probe %s: %w", key, err)
	}
	return n > 0, nil
}

func (r *Redis) HeldTimes(ctx context.Context, doctorID int64, date string) ([]string, error) {
	times, err := r.client.SMembers(ctx, dayKey(doctorID, date)).Result()
	if err != nil {
		return nil, fmt.Errorf("ledger: held times for doctor %d on %s: %w", doctorID, date, err)
	}
	sort.Strings(times)
	return times, nil
}

func holdKey(key domain.SlotKey) string {
	return fmt.Sprintf("hold:%s", key)
}

func dayKey(doctorID int64, date string) string {
	return fmt.Sprintf("holds:doctor:%d:%s", doctorID, date)
}

var _ SlotLedger = (*Redis)(nil)
