// Package authstate persists the console's single durable auth record:
// the session token, the authenticated user snapshot, and the managed user
// set, stored as one JSON document under a fixed namespace key.
package authstate

import (
	"context"

	"mpcconsole/internal/client/models"
)

// Namespace is the fixed key of the single auth record.
const Namespace = "mpc-wallet-auth"

// Record is the durable shape. It survives process restarts in full.
type Record struct {
	Token           string        `json:"token"`
	User            *models.User  `json:"user"`
	IsAuthenticated bool          `json:"isAuthenticated"`
	Users           []models.User `json:"users"`
}

// Repository reads and writes the auth record. Get returns
// common.ErrNotFound when no record has been persisted yet.
type Repository interface {
	Get(ctx context.Context) (*Record, error)
	Save(ctx context.Context, rec *Record) error
	Clear(ctx context.Context) error
}
