package transport

import "time"

type RedeemRequest struct {
	PointsToRedeem int `json:"pointsToRedeem" validate:"required,gt=0"`
}

type RedeemResponse struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	RedemptionID     string `json:"redemptionId"`
	RedemptionCode   string `json:"redemptionCode"`
	PointsRedeemed   int    `json:"pointsRedeemed"`
	RemainingBalance int    `json:"remainingBalance"`
}

type BalanceResponse struct {
	UserID        string `json:"userId"`
	PointsBalance int    `json:"pointsBalance"`
	MinRedemption int    `json:"minRedemption"`
}

type HistoryEntry struct {
	ID             string     `json:"id"`
	Kind           string     `json:"kind"`
	TransactionID  *string    `json:"transactionId,omitempty"`
	Points         int        `json:"points"`
	RedemptionCode *string    `json:"redemptionCode,omitempty"`
	Category       *string    `json:"category,omitempty"`
	BookingDate    *time.Time `json:"bookingDate,omitempty"`
	Timestamp      time.Time  `json:"timestamp"`
}

type HistoryResponse struct {
	History []HistoryEntry `json:"history"`
}

type AuditResponse struct {
	UserID     string `json:"userId"`
	Balance    int    `json:"balance"`
	LedgerSum  int    `json:"ledgerSum"`
	Consistent bool   `json:"consistent"`
}
