package auth

import (
	"context"

	"github.com/famlog/famlog/internal/model"
)

// MockAuthorizer is a test double. The zero value denies everything.
type MockAuthorizer struct {
	Session *Session
	Err     error
}

func (m *MockAuthorizer) Authorize(ctx context.Context) (*Session, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Session == nil {
		return nil, model.ErrNotAuthenticated
	}
	return m.Session, nil
}
