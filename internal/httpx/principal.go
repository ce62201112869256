package httpx

import (
	"context"
	"net/http"

	"github.com/terrasocial/terra-ledger/internal/ledger"
)

// Principal is the authenticated caller, established by the upstream auth
// layer and carried on X-User-Id / X-User-Role. This service trusts the
// gateway; it never issues or verifies credentials itself.
type Principal struct {
	UserID string
	Role   ledger.Role
}

type principalKey struct{}

func WithPrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-User-Id")
		role := ledger.Role(r.Header.Get("X-User-Role"))
		if id != "" && ledger.ValidRole(role) {
			ctx := context.WithValue(r.Context(), principalKey{}, Principal{UserID: id, Role: role})
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// RequireRole rejects requests without a principal (401) or with a role
// outside the allowed set (403).
func RequireRole(roles ...ledger.Role) func(http.Handler) http.Handler {
	allowed := make(map[ledger.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}
			if !allowed[p.Role] {
				writeJSON(w, http.StatusForbidden, map[string]string{"error": "insufficient role"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
