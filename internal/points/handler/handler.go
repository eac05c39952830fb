package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"ewaste_pickup_backend/internal/points/service"
	"ewaste_pickup_backend/internal/points/transport"
	"ewaste_pickup_backend/platform/httpkit"
	"ewaste_pickup_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"

	defaultQRSize = 256
	maxQRSize     = 1024
)

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Balance returns the caller's points balance.
// GET /api/v1/points/balance
func (h *Handler) Balance(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	balance, err := h.svc.Balance(c.Request.Context(), httpkit.Actor(identity))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.BalanceResponse{
		UserID:        identity.UserID().String(),
		PointsBalance: balance,
		MinRedemption: h.svc.Policy().MinRedemption,
	})
}

// History lists the caller's ledger entries.
// GET /api/v1/points/history
func (h *Handler) History(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	items, err := h.svc.History(c.Request.Context(), httpkit.Actor(identity))
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.HistoryEntry, 0, len(items))
	for _, item := range items {
		entry := transport.HistoryEntry{
			ID:             item.ID.String(),
			Kind:           string(item.Kind),
			Points:         item.Delta,
			RedemptionCode: item.RedemptionCode,
			Category:       item.Category,
			BookingDate:    item.BookingDate,
			Timestamp:      item.CreatedAt,
		}
		if item.BookingID != nil {
			id := item.BookingID.String()
			entry.TransactionID = &id
		}
		out = append(out, entry)
	}
	httpkit.OK(c, transport.HistoryResponse{History: out})
}

// Redeem exchanges points for a gift code.
// POST /api/v1/points/redeem
func (h *Handler) Redeem(c *gin.Context) {
	var req transport.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Redeem(c.Request.Context(), httpkit.Actor(identity), req.PointsToRedeem)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.RedeemResponse{
		Success:          true,
		Message:          fmt.Sprintf("Redeemed %d points", result.PointsRedeemed),
		RedemptionID:     result.EntryID.String(),
		RedemptionCode:   result.Code,
		PointsRedeemed:   result.PointsRedeemed,
		RemainingBalance: result.RemainingBalance,
	})
}

// RedemptionQRCode renders a stored gift code as a PNG QR image.
// GET /api/v1/points/redemptions/:id/qr?size=256
func (h *Handler) RedemptionQRCode(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	size := defaultQRSize
	if raw := c.Query("size"); raw != "" {
		size, err = strconv.Atoi(raw)
		if err != nil || size < 64 || size > maxQRSize {
			httpkit.Error(c, http.StatusBadRequest, "size must be between 64 and 1024", nil)
			return
		}
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	png, err := h.svc.RedemptionQRCode(c.Request.Context(), httpkit.Actor(identity), id, size)
	if httpkit.HandleError(c, err) {
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// Audit compares a user's cached balance with their ledger.
// GET /api/v1/admin/points/:userId/audit
func (h *Handler) Audit(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	audit, err := h.svc.Audit(c.Request.Context(), httpkit.Actor(identity), userID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.AuditResponse{
		UserID:     audit.UserID.String(),
		Balance:    audit.Balance,
		LedgerSum:  audit.LedgerSum,
		Consistent: audit.Consistent,
	})
}
