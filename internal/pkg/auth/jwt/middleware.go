package jwt

import (
	"context"
	"net/http"
	"strings"

	"shutterchat/internal/pkg/errs"
	"shutterchat/internal/pkg/logx"
	"shutterchat/internal/pkg/resp"
)

type contextKey string

const claimsContextKey contextKey = "jwt_claims"

// ClaimsFromContext returns the claims extracted by RequireRole/extract middleware,
// or nil when the request carried no valid token.
func ClaimsFromContext(r *http.Request) *Claims {
	claims, _ := r.Context().Value(claimsContextKey).(*Claims)
	return claims
}

// bearerToken pulls the token out of an "Authorization: Bearer ..." header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireRole returns middleware that rejects requests whose token is missing,
// invalid, or carries a different role. Used to keep the dashboard push
// endpoints operator-only.
func RequireRole(secretKey, role string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			claims, err := ParseToken(token, secretKey)
			if err != nil {
				logx.Warn("Rejected request with invalid token", "path", r.URL.Path)
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			if claims.Role != role {
				logx.Warn("Rejected request lacking required role",
					"path", r.URL.Path,
					"required_role", role,
					"token_role", claims.Role,
				)
				resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
