package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/prime-studio/studio-backend/internal/storage"
)

type contextKey string

const userContextKey contextKey = "user_id"

// Auth verifies bearer tokens on protected endpoints. A token is only
// accepted while its server-side session (keyed by the token's jti claim)
// is still present, so logout revokes access before expiry.
type Auth struct {
	secret   []byte
	sessions storage.SessionStore
}

// NewAuth creates the auth middleware.
func NewAuth(secret string, sessions storage.SessionStore) *Auth {
	return &Auth{secret: []byte(secret), sessions: sessions}
}

// RequireAuth rejects requests without a valid, unrevoked bearer token and
// stores the authenticated user ID in the request context.
func (m *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _, err := m.Verify(r)
		if err != nil {
			jsonError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Verify parses the request's bearer token and checks its session is still
// live. Returns the user and session IDs.
func (m *Auth) Verify(r *http.Request) (userID, sessionID string, err error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", "", fmt.Errorf("missing bearer token")
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", "", fmt.Errorf("parse token: %w", err)
	}

	owner, err := m.sessions.Get(r.Context(), claims.ID)
	if err != nil {
		return "", "", fmt.Errorf("load session: %w", err)
	}
	if owner == "" || owner != claims.Subject {
		return "", "", fmt.Errorf("session revoked")
	}
	return claims.Subject, claims.ID, nil
}

// UserIDFromContext retrieves the authenticated user ID, or "".
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userContextKey).(string)
	return id
}

func jsonError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
