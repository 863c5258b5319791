package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mkravets/docbooking/config"
	"github.com/mkravets/docbooking/internal/domain"
)

// NewClient builds the shared redis client used by the doctor cache and the
// slot ledger.
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
}

// DoctorCache keeps the doctor directory in redis to spare the database the
// read traffic of the listing page.
type DoctorCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDoctorCache(client *redis.Client, ttl time.Duration) *DoctorCache {
	return &DoctorCache{client: client, ttl: ttl}
}

func (c *DoctorCache) GetDoctors(ctx context.Context) ([]domain.Doctor, error) {
	data, err := c.client.Get(ctx, doctorsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var doctors []domain.Doctor
	if err := json.Unmarshal(data, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

func (c *DoctorCache) SetDoctors(ctx context.Context, doctors []domain.Doctor) error {
	payload, err := json.Marshal(doctors)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, doctorsKey(), payload, c.ttl).Err()
}

func doctorsKey() string {
	return "cache:doctors"
}
