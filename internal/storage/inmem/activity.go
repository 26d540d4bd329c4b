package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type view struct {
	articleID uuid.UUID
	at        time.Time
}

// ActivityTracker is a map-backed storage.ActivityTracker for tests and
// single-process runs.
type ActivityTracker struct {
	mu    sync.RWMutex
	views map[uuid.UUID][]view
}

func NewActivityTracker() *ActivityTracker {
	return &ActivityTracker{views: make(map[uuid.UUID][]view)}
}

func (t *ActivityTracker) RecordView(ctx context.Context, userID, articleID uuid.UUID, at time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.views[userID] = append(t.views[userID], view{articleID: articleID, at: at})
	return nil
}

func (t *ActivityTracker) DailyViewCount(ctx context.Context, userID uuid.UUID, day time.Time) (int, error) {
	y, m, d := day.Date()
	return t.countMatching(userID, func(at time.Time) bool {
		vy, vm, vd := at.Date()
		return vy == y && vm == m && vd == d
	}), nil
}

func (t *ActivityTracker) MonthlyViewCount(ctx context.Context, userID uuid.UUID, month time.Time) (int, error) {
	y, m, _ := month.Date()
	return t.countMatching(userID, func(at time.Time) bool {
		vy, vm, _ := at.Date()
		return vy == y && vm == m
	}), nil
}

func (t *ActivityTracker) RecentViewedArticles(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	views := t.views[userID]
	var ids []uuid.UUID
	for i := len(views) - 1; i >= 0 && len(ids) < limit; i-- {
		ids = append(ids, views[i].articleID)
	}
	return ids, nil
}

func (t *ActivityTracker) countMatching(userID uuid.UUID, match func(time.Time) bool) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	count := 0
	for _, v := range t.views[userID] {
		if match(v.at) {
			count++
		}
	}
	return count
}
