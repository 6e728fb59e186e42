package middleware

import (
	"context"
	"net/http"
)

// OwnerHeader carries the authenticated account id. It is set by the
// upstream authenticator (reverse proxy or edge function) — this server
// trusts it and performs no verification of its own.
const OwnerHeader = "X-Owner-Id"

// DeviceHeader carries the caller's opaque device token. It is optional;
// its only use is suppressing the device's own writes in the sync feed.
const DeviceHeader = "X-Device-Id"

type ctxKey int

const (
	ownerKey ctxKey = iota
	deviceKey
)

// NewIdentityHandler returns a middleware that extracts the owner and device
// identity headers into the request context. Requests without an owner are
// rejected with 401 before reaching any handler.
func NewIdentityHandler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner := r.Header.Get(OwnerHeader)
			if owner == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":{"code":"unauthenticated","message":"missing ` + OwnerHeader + ` header"}}`))
				return
			}

			ctx := context.WithValue(r.Context(), ownerKey, owner)
			if device := r.Header.Get(DeviceHeader); device != "" {
				ctx = context.WithValue(ctx, deviceKey, device)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Owner returns the authenticated owner id from the request context, or ""
// if the identity middleware did not run.
func Owner(ctx context.Context) string {
	owner, _ := ctx.Value(ownerKey).(string)
	return owner
}

// Device returns the caller's device token from the request context, or ""
// when the caller did not supply one.
func Device(ctx context.Context) string {
	device, _ := ctx.Value(deviceKey).(string)
	return device
}
