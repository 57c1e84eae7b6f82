package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/josh-kwaku/ledger-engine/internal/auth"
	"github.com/josh-kwaku/ledger-engine/internal/handler"
	"github.com/josh-kwaku/ledger-engine/internal/logging"
)

// Auth requires a Bearer JWT naming a ledger owner and puts that owner on
// the request context. Every ledger operation acts on that owner's account
// only. A token that verifies but names no usable owner gets INVALID_OWNER.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, appErr := bearerToken(r.Header.Get("Authorization"))
			if appErr != nil {
				handler.RespondAppError(w, appErr, nil)
				return
			}

			claims, err := auth.ValidateToken(token, secret)
			if err != nil {
				appErr := authError(err)
				logging.FromContext(r.Context()).Debug("token rejected", "code", appErr.Code, "error", err)
				handler.RespondAppError(w, appErr, nil)
				return
			}

			ctx := auth.ContextWithOwnerID(r.Context(), claims.OwnerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) (string, *handler.AppError) {
	if header == "" {
		return "", handler.ErrMissingToken
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", handler.ErrInvalidToken
	}
	return token, nil
}

func authError(err error) *handler.AppError {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return handler.ErrTokenExpired
	case errors.Is(err, auth.ErrInvalidOwner):
		return handler.ErrInvalidOwner
	default:
		return handler.ErrInvalidToken
	}
}
