package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/harborpeak/dealdesk-backend/internal/apperr"
)

func TestRespondAppError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "validation",
			err:        apperr.NewValidation("reason", "must not be empty"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "validation_failed",
		},
		{
			name:       "not_found",
			err:        apperr.NewNotFound("deal", "d-1"),
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "not_eligible",
			err:        apperr.NewNotEligible("requirement", "does not apply"),
			wantStatus: http.StatusConflict,
			wantCode:   "not_eligible",
		},
		{
			name:       "invalid_transition",
			err:        apperr.NewInvalidTransition("release", "passed", "viewed"),
			wantStatus: http.StatusConflict,
			wantCode:   "invalid_state_transition",
		},
		{
			name:       "unclassified",
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			RespondAppError(c, tc.err)

			if w.Code != tc.wantStatus {
				t.Fatalf("status=%d, want %d", w.Code, tc.wantStatus)
			}
			var envelope ErrorEnvelope
			if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if envelope.Error.Code != tc.wantCode {
				t.Fatalf("code=%q, want %q", envelope.Error.Code, tc.wantCode)
			}
			if envelope.Error.Message == "" {
				t.Fatal("empty error message")
			}
		})
	}
}
