package httpkit

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ewaste_pickup_backend/platform/apperr"
	"ewaste_pickup_backend/platform/authz"
	"ewaste_pickup_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type testJWTConfig struct{ secret string }

func (c testJWTConfig) GetJWTAccessSecret() string { return c.secret }

func signTestToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func newTestRouter(cfg testJWTConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", AuthRequired(cfg), RequireCapability(authz.ScheduleRoutes), func(c *gin.Context) {
		id := MustGetIdentity(c)
		OK(c, gin.H{"userId": id.UserID().String(), "role": id.Role()})
	})
	return r
}

func TestAuthRequired(t *testing.T) {
	cfg := testJWTConfig{secret: "s3cret"}
	router := newTestRouter(cfg)
	userID := uuid.New()

	validClaims := func(role string) jwt.MapClaims {
		return jwt.MapClaims{
			"sub":   userID.String(),
			"type":  "access",
			"roles": []string{role},
			"exp":   time.Now().Add(time.Hour).Unix(),
		}
	}

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signTestToken(t, "other", validClaims("admin")), http.StatusUnauthorized},
		{"unknown role", "Bearer " + signTestToken(t, cfg.secret, validClaims("root")), http.StatusUnauthorized},
		{"lacking capability", "Bearer " + signTestToken(t, cfg.secret, validClaims("user")), http.StatusForbidden},
		{"admin", "Bearer " + signTestToken(t, cfg.secret, validClaims("admin")), http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d (%s)", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAuthRequiredRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig{secret: "s3cret"}
	router := newTestRouter(cfg)

	token := signTestToken(t, cfg.secret, jwt.MapClaims{
		"sub":   uuid.NewString(),
		"type":  "access",
		"roles": []string{"admin"},
		"exp":   time.Now().Add(-time.Minute).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHandleErrorMapsKinds(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		want int
	}{
		{apperr.NotFound("missing"), http.StatusNotFound},
		{apperr.Validation("bad"), http.StatusBadRequest},
		{apperr.InsufficientBalance("not enough"), http.StatusBadRequest},
		{apperr.Forbidden("no"), http.StatusForbidden},
		{apperr.Unavailable("down"), http.StatusServiceUnavailable},
		{http.ErrBodyNotAllowed, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		HandleError(c, tc.err)
		if rec.Code != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, rec.Code)
		}
	}
}

func TestRequestLoggerTagsRequestAndUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testJWTConfig{secret: "s3cret"}
	var buf bytes.Buffer
	log := logger.NewWithWriter("production", &buf)

	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/me", AuthRequired(cfg), func(c *gin.Context) {
		log.WithContext(c.Request.Context()).Info("handler ran")
		OK(c, gin.H{})
	})

	userID := uuid.New()
	token := signTestToken(t, cfg.secret, jwt.MapClaims{
		"sub":   userID.String(),
		"type":  "access",
		"roles": []string{"user"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get(RequestIDHeader); got != "req-123" {
		t.Fatalf("expected request id echoed, got %q", got)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected handler and request log lines, got %d: %s", len(lines), buf.String())
	}
	for _, line := range lines {
		if !strings.Contains(line, `"request_id":"req-123"`) || !strings.Contains(line, `"user_id":"`+userID.String()+`"`) {
			t.Fatalf("expected request and user ids in %s", line)
		}
	}
}

func TestRequestLoggerGeneratesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(logger.Discard()))
	r.GET("/ping", func(c *gin.Context) { OK(c, gin.H{}) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if _, err := uuid.Parse(rec.Header().Get(RequestIDHeader)); err != nil {
		t.Fatalf("expected generated uuid request id, got %q", rec.Header().Get(RequestIDHeader))
	}
}
