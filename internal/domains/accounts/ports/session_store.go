package ports

import "context"

// SessionStore is the server-side allow-list of issued tokens. A token is only
// accepted while a matching live session exists, so logout and purge revoke it.
type SessionStore interface {
	Save(ctx context.Context, userID int64, token string) error
	Validate(ctx context.Context, token string) (bool, error)
	DeleteByUser(ctx context.Context, userID int64) error
	PurgeExpired(ctx context.Context) error
}

// NoopSessionStore is a safe default when callers do not need session persistence.
var NoopSessionStore SessionStore = noopSessionStore{}

type noopSessionStore struct{}

func (noopSessionStore) Save(_ context.Context, _ int64, _ string) error { return nil }
func (noopSessionStore) Validate(_ context.Context, _ string) (bool, error) {
	return true, nil
}
func (noopSessionStore) DeleteByUser(_ context.Context, _ int64) error { return nil }
func (noopSessionStore) PurgeExpired(_ context.Context) error          { return nil }
