package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packzen/backend/internal/middleware"
)

func TestIdentityHandler_ExtractsOwnerAndDevice(t *testing.T) {
	var gotOwner, gotDevice string
	h := middleware.NewIdentityHandler()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOwner = middleware.Owner(r.Context())
		gotDevice = middleware.Device(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set(middleware.OwnerHeader, "owner-1")
	req.Header.Set(middleware.DeviceHeader, "dev-a")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "owner-1", gotOwner)
	assert.Equal(t, "dev-a", gotDevice)
}

func TestIdentityHandler_DeviceIsOptional(t *testing.T) {
	var gotDevice string
	h := middleware.NewIdentityHandler()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDevice = middleware.Device(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set(middleware.OwnerHeader, "owner-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, gotDevice)
}

func TestIdentityHandler_MissingOwnerRejected(t *testing.T) {
	called := false
	h := middleware.NewIdentityHandler()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called, "the handler must never run without an owner")
	assert.Contains(t, rec.Body.String(), "unauthenticated")
}
