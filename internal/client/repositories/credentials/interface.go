// Package credentials stores password hashes keyed by user id, deliberately
// separate from the auth record so credential material never travels with
// user snapshots. Only hashes are stored; plaintext never touches disk.
package credentials

import "context"

// Repository accesses stored password hashes. Get returns
// common.ErrNotFound for unknown user ids.
type Repository interface {
	Get(ctx context.Context, userID string) (string, error)
	Set(ctx context.Context, userID string, passwordHash string) error
	Delete(ctx context.Context, userID string) error
}
