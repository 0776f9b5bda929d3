package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/domain"
	appCtx "github.com/Keshav8605/vidtube/services/recommendation-service/internal/pkg/context"
)

func TestErr(t *testing.T) {
	t.Run("maps_domain_error_to_correct_status", func(t *testing.T) {
		tests := []struct {
			name       string
			err        error
			wantStatus int
			wantCode   string
		}{
			{
				name:       "not_found",
				err:        domain.ErrNotFound("video missing"),
				wantStatus: http.StatusNotFound,
				wantCode:   "not_found",
			},
			{
				name:       "validation",
				err:        domain.ErrValidation("invalid user id"),
				wantStatus: http.StatusBadRequest,
				wantCode:   "validation_error",
			},
			{
				name:       "invalid_state",
				err:        domain.ErrInvalidState("video not published"),
				wantStatus: http.StatusConflict,
				wantCode:   "invalid_state",
			},
			{
				name:       "unavailable",
				err:        domain.ErrUnavailable("embedding sync failed"),
				wantStatus: http.StatusServiceUnavailable,
				wantCode:   "service_unavailable",
			},
			{
				name:       "generic_error",
				err:        errors.New("db crash"),
				wantStatus: http.StatusInternalServerError,
				wantCode:   "internal_error",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rr := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
				Err(rr, req, tt.err)

				assert.Equal(t, tt.wantStatus, rr.Code)

				var body ErrorBody
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				assert.Equal(t, tt.wantCode, body.Error.Code)
			})
		}
	})

	t.Run("includes_request_id_from_context", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
		req = req.WithContext(appCtx.WithRequestID(req.Context(), "req-123"))

		Err(rr, req, domain.ErrNotFound("video missing"))

		var body ErrorBody
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "req-123", body.Error.RequestID)
	})

	t.Run("does_not_leak_internal_error_details", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)

		Err(rr, req, errors.New("pq: connection refused to 10.0.0.3"))

		assert.NotContains(t, rr.Body.String(), "10.0.0.3")
		assert.Contains(t, rr.Body.String(), "internal error")
	})
}

func TestData(t *testing.T) {
	rr := httptest.NewRecorder()
	Data(rr, http.StatusOK, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":{"status":"ok"}}`, rr.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
}
