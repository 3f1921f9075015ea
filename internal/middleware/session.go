package middleware

import (
	"context"
	"net/http"

	"github.com/GregMSThompson/ascend-backend/internal/session"
)

type sessionOpener interface {
	Open(ctx context.Context, uid, email string) (*session.Session, error)
}

// Session attaches the member's session, resolving the account on the first
// authenticated request. Must run after FirebaseAuth.
func (m *Middleware) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := UID(r.Context())
		if uid == "" {
			m.ResponseHandler.WriteError(w, r, http.StatusUnauthorized, "unauthenticated", "not signed in")
			return
		}
		s, err := m.Sessions.Open(r.Context(), uid, Email(r.Context()))
		if err != nil {
			m.ResponseHandler.HandleError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}

func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, SessionKey, s)
}

func SessionFrom(ctx context.Context) *session.Session {
	s, _ := ctx.Value(SessionKey).(*session.Session)
	return s
}
