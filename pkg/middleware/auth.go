package middleware

import (
	"context"
	"net/http"
	"strings"
)

// Authenticator resolves a bearer token to an owner id. The engine trusts
// whatever identity the session provider hands back; resolving it is not the
// ledger's business.
type Authenticator interface {
	OwnerID(ctx context.Context, token string) (string, bool)
}

// StaticTokenAuthenticator maps bearer tokens to owner ids from
// configuration. Stands in for the real session provider in deployments that
// front this service with an API gateway.
type StaticTokenAuthenticator map[string]string

// ParseStaticTokens parses a "token:owner,token:owner" env value.
func ParseStaticTokens(raw string) StaticTokenAuthenticator {
	auth := StaticTokenAuthenticator{}
	for _, pair := range strings.Split(raw, ",") {
		token, owner, found := strings.Cut(strings.TrimSpace(pair), ":")
		if found && token != "" && owner != "" {
			auth[token] = owner
		}
	}
	return auth
}

// OwnerID implements Authenticator.
func (a StaticTokenAuthenticator) OwnerID(_ context.Context, token string) (string, bool) {
	owner, ok := a[token]
	return owner, ok
}

type contextKey string

const ownerKey contextKey = "owner_id"

// OwnerFromContext returns the authenticated owner id, or an empty string
// when the request was not authenticated.
func OwnerFromContext(ctx context.Context) string {
	owner, _ := ctx.Value(ownerKey).(string)
	return owner
}

// WithOwner returns a context carrying the given owner id. Used by tests and
// by the lambda entrypoints, which authenticate out-of-band.
func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerKey, ownerID)
}

// RequireOwner rejects requests without a resolvable bearer token and stores
// the owner id on the request context for the handlers.
func RequireOwner(auth Authenticator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if token == "" || token == r.Header.Get("Authorization") {
				http.Error(w, "Missing bearer token", http.StatusUnauthorized)
				return
			}

			owner, ok := auth.OwnerID(r.Context(), token)
			if !ok {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
		}
		return http.HandlerFunc(fn)
	}
}
