package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/ascend-backend/internal/response"
	"github.com/GregMSThompson/ascend-backend/pkg/logger"
)

type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type Middleware struct {
	Verifier        tokenVerifier
	ResponseHandler response.ResponseHandler
	Sessions        sessionOpener
}

func NewMiddleware(verifier tokenVerifier, rh response.ResponseHandler, sessions sessionOpener) *Middleware {
	return &Middleware{Verifier: verifier, ResponseHandler: rh, Sessions: sessions}
}

type contextKey string

const (
	UIDKey     contextKey = "uid"
	EmailKey   contextKey = "email"
	SessionKey contextKey = "session"
)

// FirebaseAuth verifies the bearer ID token and puts the uid and email on the
// request context and its logger.
func (m *Middleware) FirebaseAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			m.ResponseHandler.WriteError(w, r, http.StatusUnauthorized, "unauthenticated", "missing Authorization header")
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.ResponseHandler.WriteError(w, r, http.StatusUnauthorized, "unauthenticated", "invalid Authorization header")
			return
		}

		token, err := m.Verifier.VerifyIDToken(r.Context(), parts[1])
		if err != nil {
			logger.FromContext(r.Context()).Warn("token rejected", "error", err)
			m.ResponseHandler.WriteError(w, r, http.StatusUnauthorized, "unauthenticated", "invalid or expired token")
			return
		}

		email, _ := token.Claims["email"].(string)
		ctx := context.WithValue(r.Context(), UIDKey, token.UID)
		ctx = context.WithValue(ctx, EmailKey, email)
		_, ctx = logger.With(ctx, "uid", token.UID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UID(ctx context.Context) string {
	uid, _ := ctx.Value(UIDKey).(string)
	return uid
}

func Email(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}
