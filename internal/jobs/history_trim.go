package jobs

import (
	"context"
	"log"
	"time"

	"tripatlas/internal/services"
)

// HistoryTrimJob caps stored search histories. PushSearch already bounds each
// write, so this only catches documents written before the cap existed or
// with an older, larger cap.
type HistoryTrimJob struct {
	users      *services.MongoUserStore
	maxEntries int
}

// NewHistoryTrimJob creates a new history trim job
func NewHistoryTrimJob(users *services.MongoUserStore, maxEntries int) *HistoryTrimJob {
	return &HistoryTrimJob{users: users, maxEntries: maxEntries}
}

// Run trims all over-length search histories in one pass
func (j *HistoryTrimJob) Run(ctx context.Context) error {
	start := time.Now()

	trimmed, err := j.users.TrimHistories(ctx, j.maxEntries)
	if err != nil {
		log.Printf("❌ [HISTORY-TRIM] Trim failed: %v", err)
		return err
	}

	if trimmed > 0 {
		log.Printf("✅ [HISTORY-TRIM] Trimmed %d histories to %d entries in %v", trimmed, j.maxEntries, time.Since(start))
	}
	return nil
}
