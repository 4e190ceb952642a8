package menu

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/example/googleit/internal/command"
	"github.com/example/googleit/internal/host"
	"github.com/example/googleit/internal/search"
	"github.com/example/googleit/internal/zotero/zoterotest"
)

type fakeSource struct {
	mu    sync.Mutex
	snap  Snapshot
	err   error
	calls int
}

func (f *fakeSource) Snapshot(context.Context) (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.snap, f.err
}

func (f *fakeSource) set(snap Snapshot) {
	f.mu.Lock()
	f.snap = snap
	f.mu.Unlock()
}

type fakeTray struct {
	payloads chan UpdatePayload
}

func (f *fakeTray) Run(ctx context.Context, updates <-chan UpdatePayload) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case payload, ok := <-updates:
			if !ok {
				return nil
			}
			f.payloads <- payload
		}
	}
}

type namedCollection string

func (n namedCollection) Name() string                                    { return string(n) }
func (n namedCollection) ChildItems(context.Context) ([]host.Item, error) { return nil, nil }

func newTestRunner(t *testing.T, source Source) (*Runner, *host.Registry, *host.State, *fakeTray) {
	t.Helper()
	registry := host.NewRegistry()
	state := &host.State{}
	r := NewRunner(source, registry, state, time.Hour)
	tray := &fakeTray{payloads: make(chan UpdatePayload, 4)}
	r.tray = tray
	return r, registry, state, tray
}

func receive(t *testing.T, ch <-chan UpdatePayload) UpdatePayload {
	t.Helper()
	select {
	case payload := <-ch:
		return payload
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tray payload")
	}
	return UpdatePayload{}
}

func TestNewRunnerDefaultsRefreshInterval(t *testing.T) {
	r := NewRunner(&fakeSource{}, host.NewRegistry(), &host.State{}, 0)
	if r.refreshInterval != DefaultRefreshInterval {
		t.Fatalf("expected default interval, got %s", r.refreshInterval)
	}
}

func TestSyncOncePublishesOnlyChangedSnapshots(t *testing.T) {
	source := &fakeSource{snap: Snapshot{Collections: []Choice{{Key: "A", Label: "Alpha"}}}}
	r, _, _, _ := newTestRunner(t, source)
	ctx := context.Background()

	if err := r.syncOnce(ctx); err != nil {
		t.Fatalf("syncOnce: %v", err)
	}
	if len(r.updates) != 1 {
		t.Fatalf("expected first snapshot to be published")
	}
	<-r.updates

	if err := r.syncOnce(ctx); err != nil {
		t.Fatalf("syncOnce: %v", err)
	}
	if len(r.updates) != 0 {
		t.Fatalf("unchanged snapshot must not be republished")
	}

	source.set(Snapshot{Collections: []Choice{{Key: "A", Label: "Alpha renamed"}}})
	if err := r.syncOnce(ctx); err != nil {
		t.Fatalf("syncOnce: %v", err)
	}
	payload := <-r.updates
	if payload.Snapshot.Collections[0].Label != "Alpha renamed" {
		t.Fatalf("unexpected payload %+v", payload.Snapshot)
	}
	if r.Latest().Collections[0].Label != "Alpha renamed" {
		t.Fatalf("Latest did not track the published snapshot")
	}
}

func TestSyncOnceReturnsSourceError(t *testing.T) {
	source := &fakeSource{err: errors.New("locked")}
	r, _, _, _ := newTestRunner(t, source)
	if err := r.syncOnce(context.Background()); err == nil {
		t.Fatalf("expected source error")
	}
	if len(r.updates) != 0 {
		t.Fatalf("failed sync must not publish")
	}
}

func TestPublishReplacesPendingPayload(t *testing.T) {
	r, registry, _, _ := newTestRunner(t, &fakeSource{})
	if err := registry.Register(host.ContextItem, host.MenuItem{ID: "item-cmd", Label: "Items", Listener: func(context.Context) error { return nil }}); err != nil {
		t.Fatalf("register: %v", err)
	}

	r.publish(Snapshot{Items: []Choice{{Key: "OLD"}}})
	r.publish(Snapshot{Items: []Choice{{Key: "NEW"}}})

	if len(r.updates) != 1 {
		t.Fatalf("expected a single pending payload, got %d", len(r.updates))
	}
	payload := <-r.updates
	if payload.Snapshot.Items[0].Key != "NEW" {
		t.Fatalf("expected latest payload, got %+v", payload.Snapshot.Items)
	}
	if len(payload.Entries) != 1 || payload.Entries[0].ID != "item-cmd" {
		t.Fatalf("expected registered entries in payload, got %+v", payload.Entries)
	}
}

func TestStartDispatchesInvocations(t *testing.T) {
	source := &fakeSource{snap: Snapshot{Collections: []Choice{{Key: "A", Label: "Alpha"}}}}
	r, registry, state, tray := newTestRunner(t, source)

	selected := make(chan string, 1)
	err := registry.Register(host.ContextCollection, host.MenuItem{
		ID:    "collection-cmd",
		Label: "Collection",
		Listener: func(context.Context) error {
			selected <- state.SelectedCollection().Name()
			return errors.New("listener errors are logged")
		},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Start(ctx) }()

	payload := receive(t, tray.payloads)
	if len(payload.Snapshot.Collections) != 1 || len(payload.Entries) != 1 {
		t.Fatalf("unexpected initial payload %+v", payload)
	}

	if !r.Invoke("collection-cmd", host.Selection{Collection: namedCollection("Alpha")}) {
		t.Fatalf("invocation was dropped")
	}
	select {
	case name := <-selected:
		if name != "Alpha" {
			t.Fatalf("listener saw selection %q", name)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("listener was not invoked")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestStartPublishesEmptySnapshotWhenInitialSyncFails(t *testing.T) {
	source := &fakeSource{err: errors.New("no library")}
	r, _, _, tray := newTestRunner(t, source)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Start(ctx) }()

	payload := receive(t, tray.payloads)
	if len(payload.Snapshot.Collections)+len(payload.Snapshot.SavedSearches)+len(payload.Snapshot.Items) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", payload.Snapshot)
	}
}

func TestStartHandlesManualRefresh(t *testing.T) {
	source := &fakeSource{snap: Snapshot{Items: []Choice{{Key: "ONE"}}}}
	r, _, _, tray := newTestRunner(t, source)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Start(ctx) }()

	receive(t, tray.payloads)
	source.set(Snapshot{Items: []Choice{{Key: "TWO"}}})
	r.requestRefresh()

	payload := receive(t, tray.payloads)
	if payload.Snapshot.Items[0].Key != "TWO" {
		t.Fatalf("expected refreshed snapshot, got %+v", payload.Snapshot.Items)
	}
}

func TestStartReturnsTrayError(t *testing.T) {
	r, _, _, _ := newTestRunner(t, &fakeSource{})
	r.tray = failingTray{}
	err := r.Start(context.Background())
	if err == nil || err.Error() != "tray failed" {
		t.Fatalf("expected tray error, got %v", err)
	}
}

type failingTray struct{}

func (failingTray) Run(context.Context, <-chan UpdatePayload) error { return errors.New("tray failed") }

func TestTrayActionsReachRunner(t *testing.T) {
	r, _, _, _ := newTestRunner(t, &fakeSource{})
	actions := r.actions()

	if !actions.Invoke(invocation{EntryID: "item-cmd"}) {
		t.Fatalf("invocation was dropped")
	}
	select {
	case inv := <-r.invocations:
		if inv.EntryID != "item-cmd" {
			t.Fatalf("unexpected invocation %+v", inv)
		}
	default:
		t.Fatal("Invoke did not queue the invocation")
	}

	actions.Refresh()
	actions.Refresh()
	if len(r.refreshRequests) != 1 {
		t.Fatalf("expected one pending refresh request, got %d", len(r.refreshRequests))
	}

	for i := 0; i < cap(r.invocations); i++ {
		actions.Invoke(invocation{EntryID: "item-cmd"})
	}
	if actions.Invoke(invocation{EntryID: "item-cmd"}) {
		t.Fatalf("expected full queue to drop the invocation")
	}
}

type recordingLauncher struct {
	urls []string
}

func (l *recordingLauncher) Launch(_ context.Context, raw string) error {
	l.urls = append(l.urls, raw)
	return nil
}

type failOnAlert struct {
	t *testing.T
}

func (a failOnAlert) Alert(_ context.Context, title, message string) error {
	a.t.Errorf("unexpected alert %s: %s", title, message)
	return nil
}

func TestCollectionClickAfterUnchangedRefresh(t *testing.T) {
	b := zoterotest.New(t)
	b.Seed()
	b.Close()

	source := &LibrarySource{Path: b.Path(), RecentItems: 5}
	t.Cleanup(func() { _ = source.Close() })

	r, registry, state, _ := newTestRunner(t, source)
	launcher := &recordingLauncher{}
	if _, err := command.Register(registry, command.Deps{Pane: state, Alerter: failOnAlert{t}, Launcher: launcher}); err != nil {
		t.Fatalf("register: %v", err)
	}

	ctx := context.Background()
	if err := r.syncOnce(ctx); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	payload := <-r.updates
	if err := r.syncOnce(ctx); err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if len(r.updates) != 0 {
		t.Fatalf("unchanged library must not be republished")
	}

	var reading *node
	for _, parent := range buildTree(payload) {
		for idx := range parent.Children {
			if parent.Children[idx].Label == "Reading" {
				reading = &parent.Children[idx]
			}
		}
	}
	if reading == nil || reading.Action == nil {
		t.Fatalf("rendered tree has no clickable Reading entry")
	}

	r.dispatch(ctx, *reading.Action)
	want := search.GoogleURL("site:go.dev/blog | site:arxiv.org/abs/1706.03762")
	if len(launcher.urls) != 1 || launcher.urls[0] != want {
		t.Fatalf("expected %q to launch, got %v", want, launcher.urls)
	}
}
