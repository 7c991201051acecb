// Package engine owns the canonical in-memory session table and exposes
// the session lifecycle operations, composing the catalog, roster
// factory, conversation orchestrator, phase scheduler, and persistence
// synchronizer.
package engine

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"questengine/catalog"
	"questengine/completion"
	"questengine/convo"
	"questengine/domain"
	"questengine/internal/dice"
	"questengine/persist"
	"questengine/phase"
	"questengine/policy"
	"questengine/roster"
	"questengine/store"
)

const (
	defaultOwnerID         = "local"
	defaultRetentionAge    = 7 * 24 * time.Hour
	defaultCleanupInterval = time.Hour
)

// Options tunes the engine. Zero values take defaults.
type Options struct {
	// OwnerID keys the remote store tier.
	OwnerID string
	// AutoSaveInterval is the per-session auto-save period.
	AutoSaveInterval time.Duration
	// IntroductionDwell is how long a session stays in introduction
	// before advancing to exploration.
	IntroductionDwell time.Duration
	// ResponseCooldown and PairCooldown gate companion chattiness.
	ResponseCooldown time.Duration
	PairCooldown     time.Duration
	// RetentionAge is how old an empty session must be before cleanup.
	RetentionAge time.Duration
	// CleanupInterval is the liveness cleanup period.
	CleanupInterval time.Duration
	// Seed pins the engine's random source; 0 seeds from the clock.
	Seed int64
	// Catalog overrides the built-in template catalog.
	Catalog *catalog.Catalog
	// Now overrides the clock, for tests.
	Now func() time.Time
}

type liveSession struct {
	mu sync.Mutex
	s  *domain.Session
}

// Engine is the session registry. All mutations of a given session are
// serialized through its per-session lock; operations on different
// sessions proceed independently.
type Engine struct {
	opts    Options
	now     func() time.Time
	dice    *dice.Dice
	factory *roster.Factory
	convo   *convo.Orchestrator
	phases  *phase.Scheduler
	sync    *persist.Synchronizer
	policy  *policy.Engine

	mu       sync.RWMutex
	sessions map[string]*liveSession

	cleanupStop chan struct{}
}

// Ensure Engine satisfies the synchronizer's session source contract.
var _ persist.SessionSource = (*Engine)(nil)

// New creates an engine over the given persistence tiers, completion
// service, and content policy. A nil policy disables the content gate.
func New(cache store.LocalCache, remote store.RemoteStore, svc completion.Service, pol *policy.Engine, opts Options) *Engine {
	if opts.OwnerID == "" {
		opts.OwnerID = defaultOwnerID
	}
	if opts.IntroductionDwell == 0 {
		opts.IntroductionDwell = phase.DefaultIntroductionDwell
	}
	if opts.RetentionAge == 0 {
		opts.RetentionAge = defaultRetentionAge
	}
	if opts.CleanupInterval == 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.Builtin()
	}

	e := &Engine{
		opts:     opts,
		now:      opts.Now,
		dice:     dice.New(opts.Seed),
		policy:   pol,
		sessions: make(map[string]*liveSession),
	}
	e.factory = roster.New(opts.Catalog, e.dice)
	e.convo = convo.New(svc, e.dice, convo.Config{
		ResponseCooldown: opts.ResponseCooldown,
		PairCooldown:     opts.PairCooldown,
		Now:              e.now,
	})
	e.phases = phase.NewScheduler(e.timedAdvance)
	e.sync = persist.NewSynchronizer(cache, remote, e, opts.AutoSaveInterval)
	return e
}

// Start restores sessions from the local cache, kicks off the
// asynchronous remote merge, and arms the liveness cleanup timer.
func (e *Engine) Start(ctx context.Context) error {
	records, err := e.sync.LoadCache(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session cache: %w", err)
	}
	for _, rec := range records {
		e.adopt(rec.Session())
	}

	go e.mergeRemote(context.Background())

	e.cleanupStop = make(chan struct{})
	go e.cleanupLoop(e.cleanupStop)

	return nil
}

// Stop cancels all timers. Sessions stay queryable in memory.
func (e *Engine) Stop() {
	if e.cleanupStop != nil {
		close(e.cleanupStop)
		e.cleanupStop = nil
	}
	e.phases.CancelAll()
	e.sync.StopAll()
}

// adopt registers a restored session and re-arms its timers.
func (e *Engine) adopt(s *domain.Session) {
	e.mu.Lock()
	e.sessions[s.SessionID] = &liveSession{s: s}
	e.mu.Unlock()

	e.sync.StartAutoSave(s.SessionID)
	if s.Phase == domain.PhaseIntroduction {
		e.phases.ScheduleAdvance(s.SessionID, domain.PhaseExploration, e.opts.IntroductionDwell)
	}
}

// mergeRemote pulls the owner's sessions from the remote store, merges
// them against the in-memory table (longer transcript wins), and writes
// the merged set back to the local cache.
func (e *Engine) mergeRemote(ctx context.Context) {
	remote, err := e.sync.FetchRemote(ctx, e.opts.OwnerID)
	if err != nil {
		log.Printf("WARN: failed to fetch remote sessions: %v", err)
		return
	}

	for _, rec := range remote {
		e.mu.RLock()
		entry, ok := e.sessions[rec.SessionID]
		e.mu.RUnlock()

		if !ok {
			e.adopt(rec.Session())
			continue
		}

		entry.mu.Lock()
		local := domain.NewRecord(entry.s, e.now())
		if persist.Merge(local, rec) == rec {
			entry.s = rec.Session()
		}
		entry.mu.Unlock()
	}

	var merged []*domain.PersistenceRecord
	for _, s := range e.snapshotAll() {
		merged = append(merged, domain.NewRecord(s, e.now()))
	}
	if err := e.sync.WriteBack(ctx, merged); err != nil {
		log.Printf("ERROR: failed to write merged sessions back to cache: %v", err)
	}
}

func (e *Engine) cleanupLoop(stop chan struct{}) {
	ticker := time.NewTicker(e.opts.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if n := e.CleanupExpired(context.Background()); n > 0 {
				log.Printf("INFO: cleaned up %d expired sessions", n)
			}
		}
	}
}

// Record returns the current persistence projection of a live session.
// It implements persist.SessionSource; a missing id means the session
// was deleted and the caller should stand down.
func (e *Engine) Record(sessionID string) (*domain.PersistenceRecord, bool) {
	e.mu.RLock()
	entry, ok := e.sessions[sessionID]
	e.mu.RUnlock()
	if !ok {
		return nil, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return domain.NewRecord(entry.s, e.now()), true
}

func (e *Engine) lookup(sessionID string) (*liveSession, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	entry, ok := e.sessions[sessionID]
	return entry, ok
}

func (e *Engine) snapshotAll() []*domain.Session {
	e.mu.RLock()
	entries := make([]*liveSession, 0, len(e.sessions))
	for _, entry := range e.sessions {
		entries = append(entries, entry)
	}
	e.mu.RUnlock()

	out := make([]*domain.Session, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		out = append(out, domain.NewRecord(entry.s, e.now()).Session())
		entry.mu.Unlock()
	}
	return out
}

// newSessionID generates a unique session id. The caller must hold the
// table lock; collision odds are negligible but checked anyway.
func (e *Engine) newSessionID() string {
	for {
		id := fmt.Sprintf("sess_%d_%s", e.now().UnixMilli(), uuid.New().String()[:8])
		if _, exists := e.sessions[id]; !exists {
			return id
		}
	}
}

// saveAsync schedules a best-effort save of the session's current state.
func (e *Engine) saveAsync(sessionID string) {
	go func() {
		if rec, ok := e.Record(sessionID); ok {
			e.sync.SaveNow(context.Background(), rec)
		}
	}()
}

func newMessageID() string {
	return "msg_" + uuid.New().String()[:8]
}
