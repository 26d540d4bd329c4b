package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ActivityTracker counts article views per user for usage-limit
// enforcement and keeps a short list of recent views for content
// suggestions. Counters reset with the calendar day and month of the
// recorded timestamp.
type ActivityTracker interface {
	RecordView(ctx context.Context, userID, articleID uuid.UUID, at time.Time) error
	DailyViewCount(ctx context.Context, userID uuid.UUID, day time.Time) (int, error)
	MonthlyViewCount(ctx context.Context, userID uuid.UUID, month time.Time) (int, error)
	// RecentViewedArticles returns article ids, most recent first.
	RecentViewedArticles(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, error)
}
