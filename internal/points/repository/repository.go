// Package repository persists point balances and the ledger in PostgreSQL.
// Every method runs on the transaction carried by ctx when there is one.
package repository

import (
	"context"
	"errors"
	"fmt"

	"ewaste_pickup_backend/internal/points/domain"
	"ewaste_pickup_backend/platform/apperr"
	"ewaste_pickup_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	ensureBalanceQuery = `
		INSERT INTO user_points (user_id, points_balance)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO NOTHING`

	lockBalanceQuery = `
		SELECT points_balance FROM user_points
		WHERE user_id = $1
		FOR UPDATE`

	insertAwardQuery = `
		INSERT INTO points_history (id, user_id, kind, booking_id, delta)
		VALUES ($1, $2, 'award', $3, $4)
		ON CONFLICT (booking_id) WHERE kind = 'award' DO NOTHING`

	listHistoryQuery = `
		SELECT h.id, h.user_id, h.kind, h.booking_id, h.delta, h.redemption_code, h.created_at,
		       b.category, b.created_at
		FROM points_history h
		LEFT JOIN bookings b ON b.id = h.booking_id
		WHERE h.user_id = $1
		ORDER BY h.created_at DESC, h.id`
)

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool db.Querier
}

func New(pool db.Querier) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

func (r *Repo) EnsureBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	if _, err := r.conn(ctx).Exec(ctx, ensureBalanceQuery, userID); err != nil {
		return 0, fmt.Errorf("init balance: %w", err)
	}

	var balance int
	err := r.conn(ctx).QueryRow(ctx, `SELECT points_balance FROM user_points WHERE user_id = $1`, userID).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}

func (r *Repo) LockBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	if _, err := r.conn(ctx).Exec(ctx, ensureBalanceQuery, userID); err != nil {
		return 0, fmt.Errorf("init balance: %w", err)
	}

	var balance int
	if err := r.conn(ctx).QueryRow(ctx, lockBalanceQuery, userID).Scan(&balance); err != nil {
		return 0, fmt.Errorf("lock balance: %w", err)
	}
	return balance, nil
}

func (r *Repo) AddToBalance(ctx context.Context, userID uuid.UUID, delta int) (int, error) {
	query := `
		UPDATE user_points
		SET points_balance = points_balance + $2, updated_at = now()
		WHERE user_id = $1
		RETURNING points_balance`

	var balance int
	if err := r.conn(ctx).QueryRow(ctx, query, userID, delta).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperr.NotFound("points balance not found")
		}
		return 0, fmt.Errorf("update balance: %w", err)
	}
	return balance, nil
}

func (r *Repo) HasAward(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM points_history WHERE booking_id = $1 AND kind = 'award')`

	var exists bool
	if err := r.conn(ctx).QueryRow(ctx, query, bookingID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check award: %w", err)
	}
	return exists, nil
}

func (r *Repo) InsertAward(ctx context.Context, entry domain.Entry) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, insertAwardQuery, entry.ID, entry.UserID, entry.BookingID, entry.Delta)
	if err != nil {
		return false, fmt.Errorf("insert award: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repo) InsertRedemption(ctx context.Context, entry domain.Entry) error {
	query := `
		INSERT INTO points_history (id, user_id, kind, delta, redemption_code)
		VALUES ($1, $2, 'redemption', $3, $4)`

	if _, err := r.conn(ctx).Exec(ctx, query, entry.ID, entry.UserID, entry.Delta, entry.RedemptionCode); err != nil {
		return fmt.Errorf("insert redemption: %w", err)
	}
	return nil
}

func (r *Repo) ListHistory(ctx context.Context, userID uuid.UUID) ([]HistoryItem, error) {
	rows, err := r.conn(ctx).Query(ctx, listHistoryQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	items := make([]HistoryItem, 0)
	for rows.Next() {
		var (
			item HistoryItem
			kind string
		)
		if err := rows.Scan(&item.ID, &item.UserID, &kind, &item.BookingID, &item.Delta,
			&item.RedemptionCode, &item.CreatedAt, &item.Category, &item.BookingDate); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		item.Kind = domain.EntryKind(kind)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return items, nil
}

func (r *Repo) GetRedemption(ctx context.Context, userID, entryID uuid.UUID) (domain.Entry, error) {
	query := `
		SELECT id, user_id, kind, booking_id, delta, redemption_code, created_at
		FROM points_history
		WHERE id = $1 AND user_id = $2 AND kind = 'redemption'`

	var (
		e    domain.Entry
		kind string
	)
	err := r.conn(ctx).QueryRow(ctx, query, entryID, userID).Scan(
		&e.ID, &e.UserID, &kind, &e.BookingID, &e.Delta, &e.RedemptionCode, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Entry{}, apperr.NotFound("redemption not found")
		}
		return domain.Entry{}, fmt.Errorf("get redemption: %w", err)
	}
	e.Kind = domain.EntryKind(kind)
	return e, nil
}

func (r *Repo) SumDeltas(ctx context.Context, userID uuid.UUID) (int, error) {
	var sum int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COALESCE(SUM(delta), 0) FROM points_history WHERE user_id = $1`, userID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum ledger: %w", err)
	}
	return sum, nil
}
