package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborpeak/dealdesk-backend/internal/logger"
	"github.com/harborpeak/dealdesk-backend/internal/requestdata"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims sessionClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newAuthRouter(t *testing.T) (*gin.Engine, *requestdata.RequestData) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware(&logger.Logger{SugaredLogger: zap.NewNop().Sugar()}, testSecret)

	var captured requestdata.RequestData
	r := gin.New()
	authed := r.Group("/", am.RequireAuth())
	authed.GET("/me", func(c *gin.Context) {
		if rd := requestdata.GetRequestData(c.Request.Context()); rd != nil {
			captured = *rd
		}
		c.Status(http.StatusOK)
	})
	authed.GET("/admin", am.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, &captured
}

func TestRequireAuth(t *testing.T) {
	userID := uuid.New()
	partnerID := uuid.New()

	validClaims := sessionClaims{
		PartnerID: partnerID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	cases := []struct {
		name       string
		authorize  func(t *testing.T, req *http.Request)
		wantStatus int
	}{
		{
			name:       "missing_token",
			authorize:  func(t *testing.T, req *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "bearer_token",
			authorize: func(t *testing.T, req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, validClaims))
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "query_token",
			authorize: func(t *testing.T, req *http.Request) {
				q := req.URL.Query()
				q.Set("token", signToken(t, testSecret, validClaims))
				req.URL.RawQuery = q.Encode()
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "wrong_secret",
			authorize: func(t *testing.T, req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", validClaims))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "expired_token",
			authorize: func(t *testing.T, req *http.Request) {
				expired := validClaims
				expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
				req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, expired))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "non_uuid_subject",
			authorize: func(t *testing.T, req *http.Request) {
				bad := validClaims
				bad.Subject = "not-a-uuid"
				req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, bad))
			},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, captured := newAuthRouter(t)
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tc.authorize(t, req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.wantStatus {
				t.Fatalf("status=%d, want %d", w.Code, tc.wantStatus)
			}
			if tc.wantStatus == http.StatusOK {
				if captured.UserID != userID || captured.PartnerID != partnerID {
					t.Fatalf("request data %+v, want user %s partner %s", captured, userID, partnerID)
				}
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	userID := uuid.New()

	makeToken := func(t *testing.T, isAdmin bool) string {
		return signToken(t, testSecret, sessionClaims{
			IsAdmin: isAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   userID.String(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
	}

	r, _ := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+makeToken(t, false))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("non-admin status=%d, want %d", w.Code, http.StatusForbidden)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+makeToken(t, true))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("admin status=%d, want %d", w.Code, http.StatusOK)
	}
}
