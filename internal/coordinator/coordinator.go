// Package coordinator owns the current schedule snapshot. A single
// background goroutine performs all fetch/normalize work and is the
// only writer of the snapshot reference; observers read concurrently
// without ever blocking it.
package coordinator

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/minaret-labs/minaretd/internal/db"
	"github.com/minaret-labs/minaretd/internal/playback"
	"github.com/minaret-labs/minaretd/internal/prayer"
	"github.com/minaret-labs/minaretd/internal/redis"
	"github.com/minaret-labs/minaretd/internal/source"
)

const (
	refreshInterval = 6 * time.Hour
	triggerInterval = 30 * time.Second

	// triggerGrace bounds how late an azan may still fire. Entries that
	// became due while the daemon was down are skipped beyond it.
	triggerGrace = 5 * time.Minute
)

// Coordinator drives periodic refreshes, answers snapshot reads, and
// fires playback when an enabled prayer's time arrives.
type Coordinator struct {
	adapter    source.Adapter
	toggles    prayer.Toggles
	suhoor     prayer.SuhoorConfig
	dispatcher playback.Dispatcher
	played     *redis.PlayedStore // nil when redis is not configured
	archive    db.Archive         // nil when postgres is not configured

	// now is replaced in tests.
	now func() time.Time

	mu      sync.RWMutex
	current *prayer.Snapshot

	// refreshCh is 1-buffered: a refresh requested while one is in
	// flight coalesces into a single pending run.
	refreshCh chan struct{}
}

type Option func(*Coordinator)

func WithPlayedStore(s *redis.PlayedStore) Option {
	return func(c *Coordinator) { c.played = s }
}

func WithArchive(a db.Archive) Option {
	return func(c *Coordinator) { c.archive = a }
}

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

func New(adapter source.Adapter, toggles prayer.Toggles, suhoor prayer.SuhoorConfig, dispatcher playback.Dispatcher, opts ...Option) *Coordinator {
	c := &Coordinator{
		adapter:    adapter,
		toggles:    toggles,
		suhoor:     suhoor,
		dispatcher: dispatcher,
		now:        time.Now,
		refreshCh:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns the current snapshot, or nil before the first
// successful refresh. The returned value is never mutated afterwards.
func (c *Coordinator) Snapshot() *prayer.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Refresh requests an on-demand refresh. Requests arriving while a
// fetch is in flight coalesce rather than queue.
func (c *Coordinator) Refresh() {
	select {
	case c.refreshCh <- struct{}{}:
	default:
	}
}

// Dispatcher exposes the playback boundary for the control surface.
func (c *Coordinator) Dispatcher() playback.Dispatcher {
	return c.dispatcher
}

// Run blocks until ctx is cancelled, driving the refresh and trigger
// loops. All snapshot installs happen on this goroutine; MarkPlayed is
// the only other writer and is serialized through the same lock.
func (c *Coordinator) Run(ctx context.Context) {
	c.refresh(ctx)

	refreshTicker := time.NewTicker(refreshInterval)
	defer refreshTicker.Stop()
	triggerTicker := time.NewTicker(triggerInterval)
	defer triggerTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("coordinator stopping")
			return
		case <-refreshTicker.C:
			c.refresh(ctx)
		case <-c.refreshCh:
			c.refresh(ctx)
		case <-triggerTicker.C:
			c.fireDue(ctx)
		}
	}
}

// refresh fetches, normalizes, reconciles the played set, and installs
// a complete replacement snapshot. On failure the previous snapshot is
// retained untouched.
func (c *Coordinator) refresh(ctx context.Context) {
	raw, err := c.adapter.Fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Warn().Err(err).Str("source", c.adapter.Name()).
			Msg("refresh failed, keeping previous snapshot")
		return
	}
	if ctx.Err() != nil {
		// Shutdown began while the fetch was outstanding; discard.
		return
	}

	now := c.now()
	snap := c.build(raw, now)

	c.mu.Lock()
	prev := c.current
	switch {
	case prev != nil && prev.Date == snap.Date:
		// Same-day refresh: carry the played set forward unchanged.
		snap.Played = prev.Played
	case prev != nil:
		// Date rollover: played resets; drop the stale persisted set.
		c.played.Clear(ctx, prev.Date)
	default:
		// First snapshot after startup: recover today's played set.
		snap.Played = c.played.Played(ctx, snap.Date)
	}
	c.current = snap
	c.mu.Unlock()

	log.Info().Str("date", snap.Date).Int("entries", len(snap.Entries)).
		Bool("ramadan", snap.IsRamadan).Str("source", c.adapter.Name()).
		Msg("prayer times refreshed")

	if c.archive != nil {
		if err := c.archive.SaveDay(c.adapter.Name(), snap); err != nil {
			log.Warn().Err(err).Msg("failed to archive refreshed day")
		}
	}
}

// build turns a raw fetch result into a snapshot for now's date.
func (c *Coordinator) build(raw *source.Raw, now time.Time) *prayer.Snapshot {
	snap := &prayer.Snapshot{
		Date:   now.Format("2006-01-02"),
		Played: make(map[prayer.Name]struct{}),
	}
	if raw.Hijri != nil {
		snap.HijriMonth = raw.Hijri.Month
		snap.HijriDay = raw.Hijri.Day
		snap.HijriYear = raw.Hijri.Year
		snap.HijriMonthName = raw.Hijri.MonthName
		snap.IsRamadan = raw.Hijri.Month == 9
	}
	snap.Entries = prayer.Normalize(raw.Times, now, snap.IsRamadan, c.toggles, c.suhoor)
	return snap
}

// MarkPlayed records that name's audio was played today. The installed
// snapshot is replaced by a shallow copy with an extended played set,
// so published snapshots stay immutable for concurrent readers.
func (c *Coordinator) MarkPlayed(ctx context.Context, name prayer.Name) {
	c.mu.Lock()
	snap := c.current
	if snap == nil || snap.WasPlayed(name) {
		c.mu.Unlock()
		return
	}
	next := *snap
	next.Played = make(map[prayer.Name]struct{}, len(snap.Played)+1)
	for n := range snap.Played {
		next.Played[n] = struct{}{}
	}
	next.Played[name] = struct{}{}
	c.current = &next
	date := next.Date
	c.mu.Unlock()

	c.played.MarkPlayed(ctx, date, name)
	log.Debug().Str("prayer", string(name)).Msg("marked played")
}

// fireDue dispatches playback for enabled entries whose time has
// arrived within the grace window and which have not fired today.
func (c *Coordinator) fireDue(ctx context.Context) {
	snap := c.Snapshot()
	if snap == nil {
		return
	}
	now := c.now()
	for i := range snap.Entries {
		e := &snap.Entries[i]
		if !e.Enabled || snap.WasPlayed(e.Name) {
			continue
		}
		elapsed := now.Sub(e.Time)
		if elapsed < 0 || elapsed > triggerGrace {
			continue
		}
		if err := c.dispatcher.PlayAzan(string(e.Name)); err != nil {
			log.Error().Err(err).Str("prayer", string(e.Name)).Msg("failed to dispatch playback")
			continue
		}
		c.MarkPlayed(ctx, e.Name)
	}
}
