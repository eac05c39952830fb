package handler

import (
	"net/http"

	"ewaste_pickup_backend/internal/auth/repository"
	"ewaste_pickup_backend/internal/auth/service"
	"ewaste_pickup_backend/internal/auth/transport"
	"ewaste_pickup_backend/platform/authz"
	"ewaste_pickup_backend/platform/httpkit"
	"ewaste_pickup_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
}

// Register creates a user or delivery account.
// POST /api/v1/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req transport.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	role := authz.RoleUser
	if req.Role != "" {
		role = authz.Role(req.Role)
	}

	user, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, toUserResponse(user))
}

// Login exchanges credentials for a bearer token.
// POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	session, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.LoginResponse{
		AccessToken: session.AccessToken,
		TokenType:   "bearer",
		ExpiresAt:   session.ExpiresAt,
		UserID:      session.UserID.String(),
		Username:    session.Username,
		Role:        string(session.Role),
	})
}

// GetMe returns the caller's account.
// GET /api/v1/users/me
func (h *Handler) GetMe(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	user, err := h.svc.GetMe(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toUserResponse(user))
}

// ListDeliveryAgents lists accounts an admin can assign pickups to.
// GET /api/v1/admin/delivery-agents
func (h *Handler) ListDeliveryAgents(c *gin.Context) {
	agents, err := h.svc.ListDeliveryAgents(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.DeliveryAgentResponse, 0, len(agents))
	for _, a := range agents {
		out = append(out, transport.DeliveryAgentResponse{ID: a.ID.String(), Username: a.Username})
	}
	httpkit.OK(c, gin.H{"agents": out})
}

func toUserResponse(u repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
