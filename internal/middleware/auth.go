package middleware

import (
	"net/http"

	"storefront-be/internal/apperror"
	"storefront-be/internal/auth"
	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

// Auth resolves the bearer token into an auth.Principal on the request
// context. Requests without a token pass through anonymously; a token that
// fails verification is rejected.
func Auth(verifier auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractAccessToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			p, err := verifier.Verify(tokenStr)
			if err != nil {
				logger.FromCtx(r.Context()).Debug("rejected access token",
					zap.String("layer", "middleware"),
					zap.Error(err),
				)
				writeError(w, http.StatusUnauthorized, apperror.KindUnauthenticated, auth.ErrInvalidToken.Message)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}
