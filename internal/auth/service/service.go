package service

import (
	"context"
	"strings"
	"time"

	"ewaste_pickup_backend/internal/auth/password"
	"ewaste_pickup_backend/internal/auth/repository"
	"ewaste_pickup_backend/platform/apperr"
	"ewaste_pickup_backend/platform/authz"
	"ewaste_pickup_backend/platform/config"
	"ewaste_pickup_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const accessTokenType = "access"

const msgInvalidCredentials = "invalid credentials"

// RegisterInput is a public sign-up request.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     authz.Role
}

// Session is the result of a successful login.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	UserID      uuid.UUID
	Username    string
	Role        authz.Role
}

type Service struct {
	repo repository.Repository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
	now  func() time.Time
}

func New(repo repository.Repository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log, now: time.Now}
}

// Register creates a user or delivery account. Admin accounts are only created by seeding.
func (s *Service) Register(ctx context.Context, in RegisterInput) (repository.User, error) {
	if !in.Role.SelfRegistrable() {
		return repository.User{}, apperr.Validation("role must be user or delivery")
	}

	user, err := s.createUser(ctx, in)
	if err != nil {
		s.log.AuthEvent("register", in.Username, false, err.Error())
		return repository.User{}, err
	}

	s.log.AuthEvent("register", user.Username, true, "")
	return user, nil
}

// EnsureUser creates the account unless the username already exists. Any role is allowed.
func (s *Service) EnsureUser(ctx context.Context, in RegisterInput) (repository.User, bool, error) {
	if !in.Role.Valid() {
		return repository.User{}, false, apperr.Validation("unknown role")
	}

	existing, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(in.Username))
	if err == nil {
		return existing, false, nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return repository.User{}, false, err
	}

	user, err := s.createUser(ctx, in)
	if err != nil {
		return repository.User{}, false, err
	}
	return user, true, nil
}

// Login verifies credentials and issues an access token carrying the user's role.
func (s *Service) Login(ctx context.Context, username, plainPassword string) (Session, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			s.log.AuthEvent("login", username, false, "unknown user")
			return Session{}, apperr.Unauthorized(msgInvalidCredentials)
		}
		return Session{}, err
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("login", username, false, "password mismatch")
		return Session{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	expiresAt := s.now().Add(s.cfg.GetAccessTokenTTL())
	token, err := s.signJWT(user.ID, user.Role, expiresAt)
	if err != nil {
		return Session{}, err
	}

	s.log.AuthEvent("login", user.Username, true, "")
	return Session{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		UserID:      user.ID,
		Username:    user.Username,
		Role:        user.Role,
	}, nil
}

func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (repository.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *Service) ListDeliveryAgents(ctx context.Context) ([]repository.User, error) {
	return s.repo.ListUsersByRole(ctx, authz.RoleDelivery)
}

func (s *Service) createUser(ctx context.Context, in RegisterInput) (repository.User, error) {
	hash, err := password.Hash(in.Password)
	if err != nil {
		return repository.User{}, err
	}

	var email *string
	if trimmed := strings.ToLower(strings.TrimSpace(in.Email)); trimmed != "" {
		email = &trimmed
	}

	return s.repo.CreateUser(ctx, repository.User{
		ID:           uuid.New(),
		Username:     strings.TrimSpace(in.Username),
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
	})
}

func (s *Service) signJWT(userID uuid.UUID, role authz.Role, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"type":  accessTokenType,
		"roles": []string{string(role)},
		"exp":   expiresAt.Unix(),
		"iat":   s.now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}
