// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"
	"errors"

	"qrscan_bot/internal/model"
)

// ErrNotFound is returned when a scan does not exist or belongs to another chat.
var ErrNotFound = errors.New("scan not found")

// Storage is the interface for all persistence operations.
type Storage interface {
	// InsertScan removes any scan of the same chat with equal details and
	// inserts scan, populating its ID.
	InsertScan(ctx context.Context, scan *model.Scan) error
	GetScan(ctx context.Context, chatID, id int64) (*model.Scan, error)
	ListScans(ctx context.Context, chatID int64, q model.ScanQuery) ([]model.Scan, error)
	CountScans(ctx context.Context, chatID int64) (int, error)
	// DeleteScan reports whether a row was removed.
	DeleteScan(ctx context.Context, chatID, id int64) (bool, error)

	Close() error
}
