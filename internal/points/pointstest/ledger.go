// Package pointstest provides an in-memory points repository for unit tests
// of the ledger and of the modules that award through it.
package pointstest

import (
	"context"
	"sort"
	"sync"
	"time"

	"ewaste_pickup_backend/internal/points/domain"
	"ewaste_pickup_backend/internal/points/repository"
	"ewaste_pickup_backend/platform/apperr"

	"github.com/google/uuid"
)

// MemoryLedger implements repository.Repository. Awards are unique per
// booking, like the partial unique index on points_history.
type MemoryLedger struct {
	mu       sync.Mutex
	Balances map[uuid.UUID]int
	Entries  []domain.Entry
}

var _ repository.Repository = (*MemoryLedger)(nil)

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{Balances: make(map[uuid.UUID]int)}
}

func (m *MemoryLedger) EnsureBalance(_ context.Context, userID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Balances[userID]; !ok {
		m.Balances[userID] = 0
	}
	return m.Balances[userID], nil
}

func (m *MemoryLedger) LockBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	return m.EnsureBalance(ctx, userID)
}

func (m *MemoryLedger) AddToBalance(_ context.Context, userID uuid.UUID, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.Balances[userID] + delta
	if next < 0 {
		return 0, apperr.Internal("balance check constraint violated")
	}
	m.Balances[userID] = next
	return next, nil
}

func (m *MemoryLedger) HasAward(_ context.Context, bookingID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hasAwardLocked(bookingID), nil
}

func (m *MemoryLedger) hasAwardLocked(bookingID uuid.UUID) bool {
	for _, e := range m.Entries {
		if e.Kind == domain.EntryAward && e.BookingID != nil && *e.BookingID == bookingID {
			return true
		}
	}
	return false
}

func (m *MemoryLedger) InsertAward(_ context.Context, entry domain.Entry) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hasAwardLocked(*entry.BookingID) {
		return false, nil
	}
	entry.CreatedAt = time.Now()
	m.Entries = append(m.Entries, entry)
	return true, nil
}

func (m *MemoryLedger) InsertRedemption(_ context.Context, entry domain.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.CreatedAt = time.Now()
	m.Entries = append(m.Entries, entry)
	return nil
}

func (m *MemoryLedger) ListHistory(_ context.Context, userID uuid.UUID) ([]repository.HistoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []repository.HistoryItem
	for _, e := range m.Entries {
		if e.UserID == userID {
			out = append(out, repository.HistoryItem{Entry: e})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryLedger) GetRedemption(_ context.Context, userID, entryID uuid.UUID) (domain.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Entries {
		if e.ID == entryID && e.UserID == userID && e.Kind == domain.EntryRedemption {
			return e, nil
		}
	}
	return domain.Entry{}, apperr.NotFound("redemption not found")
}

func (m *MemoryLedger) SumDeltas(_ context.Context, userID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := 0
	for _, e := range m.Entries {
		if e.UserID == userID {
			sum += e.Delta
		}
	}
	return sum, nil
}
