package worker

import (
	"sync"
	"time"
)

// Gate allows at most one pending result card per chat. A held gate is
// released explicitly or expires after ttl.
type Gate struct {
	mu   sync.Mutex
	held map[int64]hold
	ttl  time.Duration
	now  func() time.Time
}

type hold struct {
	since  time.Time
	scanID int64
}

// NewGate creates a Gate. A non-positive ttl never expires.
func NewGate(ttl time.Duration) *Gate {
	return &Gate{
		held: make(map[int64]hold),
		ttl:  ttl,
		now:  time.Now,
	}
}

// TryAcquire holds the gate for chatID and reports whether it was free.
// The hold belongs to no scan until Attach is called.
func (g *Gate) TryAcquire(chatID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.heldLocked(chatID) {
		return false
	}
	g.held[chatID] = hold{since: g.now()}
	return true
}

// Attach records scanID as the owner of the current hold for chatID.
func (g *Gate) Attach(chatID, scanID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if h, ok := g.held[chatID]; ok {
		h.scanID = scanID
		g.held[chatID] = h
	}
}

// Held reports whether a result card is pending for chatID.
func (g *Gate) Held(chatID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.heldLocked(chatID)
}

// Release frees the gate for chatID.
func (g *Gate) Release(chatID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, chatID)
}

// ReleaseScan frees the gate for chatID only if it is held for scanID.
// Buttons on older cards leave a newer hold in place.
func (g *Gate) ReleaseScan(chatID, scanID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	h, ok := g.held[chatID]
	if !ok || h.scanID != scanID {
		return false
	}
	delete(g.held, chatID)
	return true
}

func (g *Gate) heldLocked(chatID int64) bool {
	h, ok := g.held[chatID]
	if !ok {
		return false
	}
	if g.ttl > 0 && g.now().Sub(h.since) >= g.ttl {
		delete(g.held, chatID)
		return false
	}
	return true
}
