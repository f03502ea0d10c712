package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/NasaVasa/carewatch/internal/domain"
	"github.com/go-redis/redis/v8"
)

const advisoryKeyPrefix = "carewatch:advisories:"

func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// AdvisoryInbox keeps the newest in-app advisories per user in a capped list.
type AdvisoryInbox struct {
	client *redis.Client
	ttl    time.Duration
	max    int64
}

func NewAdvisoryInbox(client *redis.Client, ttl time.Duration, max int) *AdvisoryInbox {
	if max <= 0 {
		max = 50
	}
	return &AdvisoryInbox{client: client, ttl: ttl, max: int64(max)}
}

func (i *AdvisoryInbox) Push(ctx context.Context, advisory domain.Advisory) error {
	payload, err := json.Marshal(advisory)
	if err != nil {
		return fmt.Errorf("encode advisory: %w", err)
	}
	key := advisoryKey(advisory.UserID)
	_, err = i.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, payload)
		pipe.LTrim(ctx, key, 0, i.max-1)
		if i.ttl > 0 {
			pipe.Expire(ctx, key, i.ttl)
		}
		return nil
	})
	return err
}

// List returns up to limit advisories, newest first. A limit of zero lists all kept entries.
func (i *AdvisoryInbox) List(ctx context.Context, userID string, limit int) ([]domain.Advisory, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	values, err := i.client.LRange(ctx, advisoryKey(userID), 0, stop).Result()
	if err != nil {
		return nil, err
	}
	advisories := make([]domain.Advisory, 0, len(values))
	for _, value := range values {
		var advisory domain.Advisory
		if err := json.Unmarshal([]byte(value), &advisory); err != nil {
			continue
		}
		advisories = append(advisories, advisory)
	}
	return advisories, nil
}

func (i *AdvisoryInbox) Ping(ctx context.Context) error {
	return i.client.Ping(ctx).Err()
}

func advisoryKey(userID string) string {
	return advisoryKeyPrefix + userID
}
