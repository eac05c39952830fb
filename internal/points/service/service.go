// Package service implements the points ledger: awards, redemptions and balances.
package service

import (
	"context"

	"ewaste_pickup_backend/internal/events"
	"ewaste_pickup_backend/internal/points/domain"
	"ewaste_pickup_backend/internal/points/repository"
	"ewaste_pickup_backend/platform/apperr"
	"ewaste_pickup_backend/platform/authz"
	"ewaste_pickup_backend/platform/db"
	"ewaste_pickup_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

// AwardOutcome reports what an award call did.
type AwardOutcome struct {
	Awarded bool
	Points  int
	Balance int
}

// Redemption is a successful gift code issue.
type Redemption struct {
	EntryID          uuid.UUID
	Code             string
	PointsRedeemed   int
	RemainingBalance int
}

// Audit compares the cached balance with the ledger.
type Audit struct {
	UserID     uuid.UUID
	Balance    int
	LedgerSum  int
	Consistent bool
}

type Service struct {
	repo     repository.Repository
	tx       db.TxRunner
	eventBus events.Bus
	policy   domain.Policy
	log      *logger.Logger
}

func New(repo repository.Repository, tx db.TxRunner, eventBus events.Bus, policy domain.Policy, log *logger.Logger) *Service {
	return &Service{repo: repo, tx: tx, eventBus: eventBus, policy: policy, log: log}
}

func (s *Service) Policy() domain.Policy {
	return s.policy
}

// AwardForBooking credits the booking owner once. It joins the caller's
// transaction; callers publish events.PointsAwarded after their commit.
func (s *Service) AwardForBooking(ctx context.Context, userID, bookingID uuid.UUID) (AwardOutcome, error) {
	var out AwardOutcome
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		balance, err := s.repo.LockBalance(ctx, userID)
		if err != nil {
			return err
		}
		out.Balance = balance

		exists, err := s.repo.HasAward(ctx, bookingID)
		if err != nil || exists {
			return err
		}

		inserted, err := s.repo.InsertAward(ctx, domain.Entry{
			ID:        uuid.New(),
			UserID:    userID,
			Kind:      domain.EntryAward,
			BookingID: &bookingID,
			Delta:     s.policy.AwardPerPickup,
		})
		if err != nil || !inserted {
			return err
		}

		balance, err = s.repo.AddToBalance(ctx, userID, s.policy.AwardPerPickup)
		if err != nil {
			return err
		}
		out = AwardOutcome{Awarded: true, Points: s.policy.AwardPerPickup, Balance: balance}
		return nil
	})
	if err != nil {
		return AwardOutcome{}, err
	}

	if out.Awarded {
		s.log.WithContext(ctx).Info("points awarded", "userId", userID, "bookingId", bookingID, "points", out.Points, "balance", out.Balance)
	}
	return out, nil
}

// Redeem converts points into a gift code.
func (s *Service) Redeem(ctx context.Context, actor authz.Actor, amount int) (Redemption, error) {
	if err := actor.Require(authz.UseOwnPoints); err != nil {
		return Redemption{}, err
	}
	if err := s.policy.CheckRedemptionAmount(amount); err != nil {
		return Redemption{}, err
	}

	var out Redemption
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		balance, err := s.repo.LockBalance(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if err := domain.CheckBalance(amount, balance); err != nil {
			return err
		}

		code, err := domain.NewRedemptionCode(nil)
		if err != nil {
			return err
		}

		entryID := uuid.New()
		if err := s.repo.InsertRedemption(ctx, domain.Entry{
			ID:             entryID,
			UserID:         actor.UserID,
			Kind:           domain.EntryRedemption,
			Delta:          -amount,
			RedemptionCode: &code,
		}); err != nil {
			return err
		}

		remaining, err := s.repo.AddToBalance(ctx, actor.UserID, -amount)
		if err != nil {
			return err
		}

		out = Redemption{EntryID: entryID, Code: code, PointsRedeemed: amount, RemainingBalance: remaining}
		return nil
	})
	if err != nil {
		return Redemption{}, err
	}

	s.log.WithContext(ctx).Info("points redeemed", "userId", actor.UserID, "points", amount, "balance", out.RemainingBalance)
	s.eventBus.Publish(ctx, events.PointsRedeemed{
		BaseEvent:      events.NewBaseEvent(),
		UserID:         actor.UserID,
		Points:         amount,
		RedemptionCode: out.Code,
		Balance:        out.RemainingBalance,
	})
	return out, nil
}

// Balance returns the caller's balance, creating a zero balance on first access.
func (s *Service) Balance(ctx context.Context, actor authz.Actor) (int, error) {
	if err := actor.Require(authz.UseOwnPoints); err != nil {
		return 0, err
	}
	return s.repo.EnsureBalance(ctx, actor.UserID)
}

func (s *Service) History(ctx context.Context, actor authz.Actor) ([]repository.HistoryItem, error) {
	if err := actor.Require(authz.UseOwnPoints); err != nil {
		return nil, err
	}
	return s.repo.ListHistory(ctx, actor.UserID)
}

// RedemptionQRCode renders the stored gift code of one of the caller's redemptions as a PNG.
func (s *Service) RedemptionQRCode(ctx context.Context, actor authz.Actor, entryID uuid.UUID, size int) ([]byte, error) {
	if err := actor.Require(authz.UseOwnPoints); err != nil {
		return nil, err
	}

	entry, err := s.repo.GetRedemption(ctx, actor.UserID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.RedemptionCode == nil {
		return nil, apperr.NotFound("redemption code not found")
	}

	return qrcode.Encode(*entry.RedemptionCode, qrcode.Medium, size)
}

// Audit checks that the cached balance equals the sum of ledger deltas.
func (s *Service) Audit(ctx context.Context, actor authz.Actor, userID uuid.UUID) (Audit, error) {
	if err := actor.Require(authz.AuditPoints); err != nil {
		return Audit{}, err
	}

	balance, err := s.repo.EnsureBalance(ctx, userID)
	if err != nil {
		return Audit{}, err
	}
	sum, err := s.repo.SumDeltas(ctx, userID)
	if err != nil {
		return Audit{}, err
	}

	if balance != sum {
		s.log.Warn("points ledger mismatch", "userId", userID, "balance", balance, "ledgerSum", sum)
	}
	return Audit{UserID: userID, Balance: balance, LedgerSum: sum, Consistent: balance == sum}, nil
}
