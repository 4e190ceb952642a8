package menu

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/example/googleit/internal/host"
	"github.com/example/googleit/internal/logging"
)

const DefaultRefreshInterval = 30 * time.Second

// trayController renders payloads until ctx ends or the user quits.
type trayController interface {
	Run(ctx context.Context, updates <-chan UpdatePayload) error
}

// trayActions are the runner callbacks a controller wires to menu clicks.
type trayActions struct {
	Refresh func()
	Invoke  func(invocation) bool
}

// invocation is a queued click: the entry to run and what it runs on.
type invocation struct {
	EntryID   string
	Selection host.Selection
}

// Runner owns the tray event loop. Refreshes and command invocations are
// handled on one goroutine so invocations never overlap.
type Runner struct {
	refreshInterval time.Duration
	source          Source
	registry        *host.Registry
	state           *host.State

	mu         sync.RWMutex
	last       Snapshot
	lastDigest string
	published  bool

	tray            trayController
	updates         chan UpdatePayload
	refreshRequests chan struct{}
	invocations     chan invocation
}

// NewRunner constructs a Runner that snapshots source every refresh interval
// and dispatches clicks to the listeners in registry. A non-positive
// interval selects DefaultRefreshInterval.
func NewRunner(source Source, registry *host.Registry, state *host.State, refresh time.Duration) *Runner {
	if refresh <= 0 {
		refresh = DefaultRefreshInterval
	}
	r := &Runner{
		refreshInterval: refresh,
		source:          source,
		registry:        registry,
		state:           state,
		updates:         make(chan UpdatePayload, 1),
		refreshRequests: make(chan struct{}, 1),
		invocations:     make(chan invocation, 8),
	}
	r.tray = newTrayController(r.actions())
	return r
}

func (r *Runner) actions() trayActions {
	return trayActions{Refresh: r.requestRefresh, Invoke: r.enqueue}
}

// Start performs an initial sync and then serves refreshes and clicks. It
// blocks until ctx is canceled or the tray exits.
func (r *Runner) Start(ctx context.Context) error {
	if r.tray == nil {
		return errors.New("tray controller is not configured")
	}
	logging.Debugf("tray runner initialising with refresh interval %s", r.refreshInterval)

	trayErr := make(chan error, 1)
	go func() {
		trayErr <- r.tray.Run(ctx, r.updates)
	}()
	defer close(r.updates)

	if err := r.syncOnce(ctx); err != nil {
		log.Printf("initial library sync failed: %v", err)
	}
	if !r.hasPublished() {
		r.publish(Snapshot{})
	} else {
		snap := r.Latest()
		log.Printf("Google It loaded %d collections, %d saved searches and %d items",
			len(snap.Collections), len(snap.SavedSearches), len(snap.Items))
	}

	ticker := time.NewTicker(r.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Google It tray stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := r.syncOnce(ctx); err != nil {
				log.Printf("library refresh failed: %v", err)
			}
		case <-r.refreshRequests:
			logging.Debugf("manual refresh requested")
			if err := r.syncOnce(ctx); err != nil {
				log.Printf("manual library refresh failed: %v", err)
			}
		case inv := <-r.invocations:
			r.dispatch(ctx, inv)
		case err := <-trayErr:
			return err
		}
	}
}

// Invoke queues a command invocation on the runner loop. It reports false
// when the queue is full and the click was dropped.
func (r *Runner) Invoke(entryID string, sel host.Selection) bool {
	return r.enqueue(invocation{EntryID: entryID, Selection: sel})
}

// Latest returns the most recently published snapshot.
func (r *Runner) Latest() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

func (r *Runner) enqueue(inv invocation) bool {
	select {
	case r.invocations <- inv:
		return true
	default:
		log.Printf("dropping invocation of %s: runner is busy", inv.EntryID)
		return false
	}
}

func (r *Runner) dispatch(ctx context.Context, inv invocation) {
	r.state.Select(inv.Selection)
	defer r.state.Clear()

	if err := r.registry.Invoke(ctx, inv.EntryID); err != nil {
		log.Printf("%s failed: %v", inv.EntryID, err)
	}
}

func (r *Runner) syncOnce(ctx context.Context) error {
	snap, err := r.source.Snapshot(ctx)
	if err != nil {
		return err
	}
	logging.Debugf("loaded snapshot with %d collections, %d saved searches and %d items",
		len(snap.Collections), len(snap.SavedSearches), len(snap.Items))

	digest := snap.Digest()
	r.mu.Lock()
	if r.published && digest != "" && digest == r.lastDigest {
		r.mu.Unlock()
		return nil
	}
	r.last = snap
	r.lastDigest = digest
	r.published = true
	r.mu.Unlock()

	logging.Debugf("published library snapshot (digest=%s)", digest)
	r.publish(snap)
	return nil
}

func (r *Runner) hasPublished() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.published
}

func (r *Runner) requestRefresh() {
	select {
	case r.refreshRequests <- struct{}{}:
	default:
	}
}

// publish hands the payload to the tray, replacing a pending one that has
// not been rendered yet.
func (r *Runner) publish(snap Snapshot) {
	entries := append(r.registry.Entries(host.ContextCollection), r.registry.Entries(host.ContextItem)...)
	payload := UpdatePayload{Entries: entries, Snapshot: snap}

	for {
		select {
		case r.updates <- payload:
			return
		default:
		}
		select {
		case <-r.updates:
		default:
		}
	}
}
