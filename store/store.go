// Package store defines the two persistence tiers for session records
// and their implementations.
package store

import (
	"context"

	"questengine/domain"
)

// LocalCache is the fast, always-available tier. It may be stale
// relative to the remote store but is the engine's durability floor.
type LocalCache interface {
	LoadAll(ctx context.Context) ([]*domain.PersistenceRecord, error)
	SaveAll(ctx context.Context, records []*domain.PersistenceRecord) error
	Save(ctx context.Context, record *domain.PersistenceRecord) error
	Delete(ctx context.Context, sessionID string) error
	Close() error
}

// RemoteStore is the durable tier, keyed by owning user. It is
// eventually consistent and may be slow or momentarily unavailable;
// failures are never fatal to the engine.
type RemoteStore interface {
	Load(ctx context.Context, ownerID string) ([]*domain.PersistenceRecord, error)
	Save(ctx context.Context, record *domain.PersistenceRecord) error
	Delete(ctx context.Context, sessionID string) error
}
