package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"registrar/pkg/requestcontext"
)

// ReviewerClaims are the claims the decision endpoints expect: a subject
// identifying the registrar officer acting on the application.
type ReviewerClaims struct {
	jwt.RegisteredClaims
}

// TokenVerifier validates HMAC-signed reviewer tokens.
type TokenVerifier struct {
	key []byte
}

// NewTokenVerifier builds a verifier over the shared signing key.
func NewTokenVerifier(signingKey string) *TokenVerifier {
	return &TokenVerifier{key: []byte(signingKey)}
}

// Verify parses and validates a token, returning the officer subject.
func (v *TokenVerifier) Verify(tokenString string) (string, error) {
	var claims ReviewerClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.key, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return claims.Subject, nil
}

// RequireReviewer guards decision endpoints: a valid bearer token is
// required and its subject becomes the actor recorded on audit events.
func RequireReviewer(verifier *TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok {
				unauthorized(w, "bearer token required")
				return
			}
			actor, err := verifier.Verify(token)
			if err != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "unauthorized decision attempt",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				unauthorized(w, "invalid or expired token")
				return
			}
			ctx := requestcontext.WithActorID(r.Context(), actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
