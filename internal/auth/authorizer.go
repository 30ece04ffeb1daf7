// Package auth supplies the session check the sync engine performs before
// touching the remote store.
package auth

import (
	"context"

	"github.com/famlog/famlog/internal/model"
)

// Session describes the authenticated account a sync run acts on behalf of.
type Session struct {
	AccountID string `json:"account_id"`
	DeviceID  string `json:"device_id"`
}

// Authorizer reports whether the process currently holds a valid session.
// Token acquisition and refresh live outside the engine; the engine only
// asks "may I sync right now".
type Authorizer interface {
	// Authorize returns the active session, or model.ErrNotAuthenticated.
	Authorize(ctx context.Context) (*Session, error)
}

// StaticAuthorizer treats a non-empty API key as a standing session. This is
// the device-local deployment mode; hosted deployments plug in their own
// Authorizer.
type StaticAuthorizer struct {
	APIKey    string
	AccountID string
	DeviceID  string
}

func (a *StaticAuthorizer) Authorize(ctx context.Context) (*Session, error) {
	if a.APIKey == "" {
		return nil, model.ErrNotAuthenticated
	}
	return &Session{AccountID: a.AccountID, DeviceID: a.DeviceID}, nil
}
