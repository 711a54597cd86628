package scan

import (
	"context"
	"fmt"
	"time"

	"qrscan_bot/internal/model"
	"qrscan_bot/internal/storage"
)

// DateTimeLayout formats scan timestamps, e.g. "2024 Mar 05 02:07 PM".
const DateTimeLayout = "2006 Jan 02 03:04 PM"

// Recorder classifies decoded payloads and stores them, replacing earlier
// scans of the same content.
type Recorder struct {
	store storage.Storage
	now   func() time.Time
}

// NewRecorder creates a Recorder that timestamps scans with the local clock.
func NewRecorder(store storage.Storage) *Recorder {
	return &Recorder{store: store, now: time.Now}
}

// SetClock overrides the clock used for timestamps.
func (r *Recorder) SetClock(now func() time.Time) {
	r.now = now
}

// Record stores payload for chatID and returns the new history entry.
func (r *Recorder) Record(ctx context.Context, chatID int64, payload string) (*model.Scan, error) {
	sc := &model.Scan{
		ChatID:   chatID,
		Details:  payload,
		Tag:      Classify(payload),
		DateTime: r.now().Format(DateTimeLayout),
	}
	if err := r.store.InsertScan(ctx, sc); err != nil {
		return nil, fmt.Errorf("record scan: %w", err)
	}
	return sc, nil
}
