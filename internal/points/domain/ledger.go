// Package domain holds the loyalty points rules: ledger entries, redemption
// policy and gift code generation.
package domain

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"time"

	"ewaste_pickup_backend/platform/apperr"

	"github.com/google/uuid"
)

// EntryKind distinguishes credits from debits in the ledger.
type EntryKind string

const (
	EntryAward      EntryKind = "award"
	EntryRedemption EntryKind = "redemption"
)

// Entry is one append-only ledger row. Delta is positive for awards and
// negative for redemptions.
type Entry struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Kind           EntryKind
	BookingID      *uuid.UUID
	Delta          int
	RedemptionCode *string
	CreatedAt      time.Time
}

// Policy is the configured loyalty scheme.
type Policy struct {
	AwardPerPickup int
	MinRedemption  int
}

// DefaultPolicy is 20 points per completed pickup and a 60 point minimum redemption.
var DefaultPolicy = Policy{AwardPerPickup: 20, MinRedemption: 60}

// CheckRedemptionAmount enforces the minimum. It runs before any balance lookup.
func (p Policy) CheckRedemptionAmount(amount int) error {
	if amount < p.MinRedemption {
		return apperr.Validation(fmt.Sprintf("minimum redemption is %d points", p.MinRedemption)).
			WithDetails(map[string]int{"minimum": p.MinRedemption, "requested": amount})
	}
	return nil
}

// CheckBalance rejects redemptions larger than the current balance.
func CheckBalance(amount, balance int) error {
	if amount > balance {
		return apperr.InsufficientBalance("insufficient points balance").
			WithDetails(map[string]int{"balance": balance, "requested": amount})
	}
	return nil
}

const (
	RedemptionCodeLength = 12
	redemptionAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewRedemptionCode draws a 12 character [A-Z0-9] code from r, crypto/rand when r is nil.
func NewRedemptionCode(r io.Reader) (string, error) {
	if r == nil {
		r = rand.Reader
	}
	alphabetSize := big.NewInt(int64(len(redemptionAlphabet)))
	code := make([]byte, RedemptionCodeLength)
	for i := range code {
		n, err := rand.Int(r, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("generate redemption code: %w", err)
		}
		code[i] = redemptionAlphabet[n.Int64()]
	}
	return string(code), nil
}
