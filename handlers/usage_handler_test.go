package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"datalensAPI/services"
)

func newUsageHandler() *UsageHandler {
	return NewUsageHandler(services.NewUsageService(nil))
}

func TestConsume_Unauthenticated(t *testing.T) {
	h := newUsageHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/usage/consume", bytes.NewReader([]byte(`{"userId":"user_123"}`)))
	rr := httptest.NewRecorder()

	h.Consume(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestConsume_IdentityMismatch(t *testing.T) {
	h := newUsageHandler()

	req := authedRequest(http.MethodPost, "/api/v1/usage/consume", []byte(`{"userId":"user_other"}`), "user_123")
	rr := httptest.NewRecorder()

	h.Consume(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestStatus_Unauthenticated(t *testing.T) {
	h := newUsageHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/usage/status?userId=user_123", nil)
	rr := httptest.NewRecorder()

	h.Status(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestStatus_MissingUserID(t *testing.T) {
	h := newUsageHandler()

	req := authedRequest(http.MethodGet, "/api/v1/usage/status", nil, "user_123")
	rr := httptest.NewRecorder()

	h.Status(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStatus_IdentityMismatch(t *testing.T) {
	h := newUsageHandler()

	req := authedRequest(http.MethodGet, "/api/v1/usage/status?userId=user_other", nil, "user_123")
	rr := httptest.NewRecorder()

	h.Status(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
