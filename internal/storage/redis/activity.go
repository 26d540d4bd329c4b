package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	dailyKeyFormat   = "pulse:views:%s:d:%s"
	monthlyKeyFormat = "pulse:views:%s:m:%s"
	recentKeyFormat  = "pulse:views:%s:recent"

	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"

	// Counter keys outlive their window slightly so a midnight read
	// still sees the finished day.
	dailyTTL   = 48 * time.Hour
	monthlyTTL = 40 * 24 * time.Hour

	recentListMax = 50
)

// ActivityTracker keeps per-user view counters and a recent-view list
// in Redis. Counters are keyed by calendar day and month, so limit
// checks are single GETs.
type ActivityTracker struct {
	client *redis.Client
}

type Config struct {
	URL string
}

func NewActivityTracker(ctx context.Context, cfg Config) (*ActivityTracker, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &ActivityTracker{client: client}, nil
}

func (t *ActivityTracker) Close() error {
	return t.client.Close()
}

func (t *ActivityTracker) RecordView(ctx context.Context, userID, articleID uuid.UUID, at time.Time) error {
	dailyKey := fmt.Sprintf(dailyKeyFormat, userID, at.Format(dayLayout))
	monthlyKey := fmt.Sprintf(monthlyKeyFormat, userID, at.Format(monthLayout))
	recentKey := fmt.Sprintf(recentKeyFormat, userID)

	pipe := t.client.TxPipeline()
	pipe.Incr(ctx, dailyKey)
	pipe.Expire(ctx, dailyKey, dailyTTL)
	pipe.Incr(ctx, monthlyKey)
	pipe.Expire(ctx, monthlyKey, monthlyTTL)
	pipe.LPush(ctx, recentKey, articleID.String())
	pipe.LTrim(ctx, recentKey, 0, recentListMax-1)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record view: %w", err)
	}
	return nil
}

func (t *ActivityTracker) DailyViewCount(ctx context.Context, userID uuid.UUID, day time.Time) (int, error) {
	return t.counter(ctx, fmt.Sprintf(dailyKeyFormat, userID, day.Format(dayLayout)))
}

func (t *ActivityTracker) MonthlyViewCount(ctx context.Context, userID uuid.UUID, month time.Time) (int, error) {
	return t.counter(ctx, fmt.Sprintf(monthlyKeyFormat, userID, month.Format(monthLayout)))
}

func (t *ActivityTracker) RecentViewedArticles(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, error) {
	raw, err := t.client.LRange(ctx, fmt.Sprintf(recentKeyFormat, userID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read recent views: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (t *ActivityTracker) counter(ctx context.Context, key string) (int, error) {
	value, err := t.client.Get(ctx, key).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read view counter: %w", err)
	}
	return value, nil
}
