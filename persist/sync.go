// Package persist reconciles in-memory sessions against the local cache
// and the durable remote store, and owns the per-session auto-save
// timers.
package persist

import (
	"context"
	"log"
	"sync"
	"time"

	"questengine/domain"
	"questengine/store"
)

// DefaultAutoSaveInterval is the per-session auto-save period.
const DefaultAutoSaveInterval = 30 * time.Second

// SessionSource supplies the current persistence projection of a live
// session by id. Auto-save callbacks go through it rather than holding a
// session reference, so a deleted session safely yields a no-op.
type SessionSource interface {
	Record(sessionID string) (*domain.PersistenceRecord, bool)
}

// Synchronizer pushes session state outward to both tiers and pulls
// remote state back in for merging.
type Synchronizer struct {
	cache    store.LocalCache
	remote   store.RemoteStore
	source   SessionSource
	interval time.Duration

	mu    sync.Mutex
	stops map[string]chan struct{}
}

// NewSynchronizer creates a synchronizer. A zero interval takes the
// default.
func NewSynchronizer(cache store.LocalCache, remote store.RemoteStore, source SessionSource, interval time.Duration) *Synchronizer {
	if interval == 0 {
		interval = DefaultAutoSaveInterval
	}
	return &Synchronizer{
		cache:    cache,
		remote:   remote,
		source:   source,
		interval: interval,
		stops:    make(map[string]chan struct{}),
	}
}

// Merge resolves two records for the same session id: the version with
// the longer transcript wins, as a proxy for completeness. On a tie the
// local copy is kept.
func Merge(local, remote *domain.PersistenceRecord) *domain.PersistenceRecord {
	if local == nil {
		return remote
	}
	if remote == nil {
		return local
	}
	if len(remote.Transcript) > len(local.Transcript) {
		return remote
	}
	return local
}

// LoadCache reads every record from the local cache.
func (p *Synchronizer) LoadCache(ctx context.Context) ([]*domain.PersistenceRecord, error) {
	return p.cache.LoadAll(ctx)
}

// FetchRemote reads the owner's records from the remote store.
func (p *Synchronizer) FetchRemote(ctx context.Context, ownerID string) ([]*domain.PersistenceRecord, error) {
	return p.remote.Load(ctx, ownerID)
}

// WriteBack persists a merged record set to the local cache.
func (p *Synchronizer) WriteBack(ctx context.Context, records []*domain.PersistenceRecord) error {
	return p.cache.SaveAll(ctx, records)
}

// SaveNow pushes a record to both tiers. The cache write is the
// durability floor; the remote write is asynchronous and its failure is
// logged, never surfaced.
func (p *Synchronizer) SaveNow(ctx context.Context, record *domain.PersistenceRecord) {
	if err := p.cache.Save(ctx, record); err != nil {
		log.Printf("ERROR: failed to cache session %s: %v", record.SessionID, err)
	}
	go func() {
		if err := p.remote.Save(context.Background(), record); err != nil {
			log.Printf("WARN: failed to save session %s to remote store: %v", record.SessionID, err)
		}
	}()
}

// Remove deletes a session from the cache synchronously and from the
// remote store best-effort.
func (p *Synchronizer) Remove(ctx context.Context, sessionID string) {
	if err := p.cache.Delete(ctx, sessionID); err != nil {
		log.Printf("ERROR: failed to delete cached session %s: %v", sessionID, err)
	}
	go func() {
		if err := p.remote.Delete(context.Background(), sessionID); err != nil {
			log.Printf("WARN: failed to delete session %s from remote store: %v", sessionID, err)
		}
	}()
}

// StartAutoSave arms the periodic auto-save for a session. Calling it
// again for a running session is a no-op.
func (p *Synchronizer) StartAutoSave(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.stops[sessionID]; ok {
		return
	}
	stop := make(chan struct{})
	p.stops[sessionID] = stop
	go p.autoSaveLoop(sessionID, stop)
}

func (p *Synchronizer) autoSaveLoop(sessionID string, stop chan struct{}) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			rec, ok := p.source.Record(sessionID)
			if !ok {
				// Session is gone; wind the timer down.
				p.StopAutoSave(sessionID)
				return
			}
			p.SaveNow(context.Background(), rec)
		}
	}
}

// StopAutoSave cancels the auto-save timer for a session. Idempotent.
func (p *Synchronizer) StopAutoSave(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if stop, ok := p.stops[sessionID]; ok {
		close(stop)
		delete(p.stops, sessionID)
	}
}

// StopAll cancels every auto-save timer.
func (p *Synchronizer) StopAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, stop := range p.stops {
		close(stop)
		delete(p.stops, id)
	}
}
