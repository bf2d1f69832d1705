// (c) Copyright ZeroEval Inc. 2026

package zeroeval

import (
	"context"

	"github.com/google/uuid"
)

// Session is a named grouping of traces that represents a higher-level
// interaction, e.g. a user conversation spanning multiple requests. All
// spans started while a session is active reference its ID.
type Session struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// NewSession initializes a new session with a random UUID
func NewSession(name string) Session {
	return Session{
		ID:   uuid.NewString(),
		Name: name,
	}
}

// IsZero returns true if the session has not been initialized
func (s Session) IsZero() bool {
	return s.ID == ""
}

// ContextWithSession returns a new context.Context holding a reference to the
// given session. Spans started via StartSpanFromContext under this context
// are grouped into the session.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// SessionFromContext retrieves a previously stored session from context. If there
// is no session, this method returns false.
func SessionFromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(sessionKey).(Session)
	return sess, ok
}
