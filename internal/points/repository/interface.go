package repository

import (
	"context"
	"time"

	"ewaste_pickup_backend/internal/points/domain"

	"github.com/google/uuid"
)

// HistoryItem is a ledger entry joined with its booking, if any.
type HistoryItem struct {
	domain.Entry
	Category    *string
	BookingDate *time.Time
}

// BalanceStore owns the cached running balance.
type BalanceStore interface {
	// EnsureBalance creates a zero balance on first access and returns the current value.
	EnsureBalance(ctx context.Context, userID uuid.UUID) (int, error)
	// LockBalance is EnsureBalance plus a row lock held until the transaction ends.
	LockBalance(ctx context.Context, userID uuid.UUID) (int, error)
	// AddToBalance applies delta and returns the new balance.
	AddToBalance(ctx context.Context, userID uuid.UUID, delta int) (int, error)
}

// Ledger owns the append-only history.
type Ledger interface {
	HasAward(ctx context.Context, bookingID uuid.UUID) (bool, error)
	// InsertAward reports false when an award for the booking already exists.
	InsertAward(ctx context.Context, entry domain.Entry) (bool, error)
	InsertRedemption(ctx context.Context, entry domain.Entry) error
	ListHistory(ctx context.Context, userID uuid.UUID) ([]HistoryItem, error)
	GetRedemption(ctx context.Context, userID, entryID uuid.UUID) (domain.Entry, error)
	SumDeltas(ctx context.Context, userID uuid.UUID) (int, error)
}

type Repository interface {
	BalanceStore
	Ledger
}
