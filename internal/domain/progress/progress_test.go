package progress_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"trainee_portal_backend/internal/domain/progress"
	"trainee_portal_backend/internal/model"
	"trainee_portal_backend/internal/util"
	"trainee_portal_backend/pkg/debounce"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func modules() []model.Module {
	return []model.Module{
		{ID: "module-1", Checklist: []model.ChecklistItem{
			{ID: "m1-section", Label: "Intro", IsSection: true},
			{ID: "m1-a"}, {ID: "m1-b"}, {ID: "m1-c"},
		}},
		{ID: "module-2", Checklist: []model.ChecklistItem{{ID: "m2-a"}, {ID: "m2-b"}}},
		{ID: "module-3"},
	}
}

type memCache struct {
	mu    sync.Mutex
	snaps map[string]*model.ProgressSnapshot
	err   error
	saves int
}

func newMemCache() *memCache { return &memCache{snaps: map[string]*model.ProgressSnapshot{}} }

func (c *memCache) Load(_ context.Context, slug string) (*model.ProgressSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return c.snaps[slug].Clone(), nil
}

func (c *memCache) Save(_ context.Context, snap *model.ProgressSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saves++
	c.snaps[snap.TraineeSlug] = snap.Clone()
	return nil
}

func (c *memCache) get(slug string) *model.ProgressSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snaps[slug].Clone()
}

type memRemote struct {
	mu       sync.Mutex
	snaps    map[string]*model.ProgressSnapshot
	pushes   []*model.ProgressSnapshot
	fetchErr error
	pushErr  error
}

func newMemRemote() *memRemote { return &memRemote{snaps: map[string]*model.ProgressSnapshot{}} }

func (r *memRemote) Fetch(_ context.Context, slug string) (*model.ProgressSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	return r.snaps[slug].Clone(), nil
}

func (r *memRemote) Push(_ context.Context, snap *model.ProgressSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pushErr != nil {
		return r.pushErr
	}
	r.pushes = append(r.pushes, snap.Clone())
	r.snaps[snap.TraineeSlug] = snap.Clone()
	return nil
}

func (r *memRemote) pushCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pushes)
}

func (r *memRemote) get(slug string) *model.ProgressSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snaps[slug].Clone()
}

func (r *memRemote) setPushErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushErr = err
}

func (r *memRemote) setFetchErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetchErr = err
}

type fixture struct {
	clock  *debounce.FakeClock
	cache  *memCache
	remote *memRemote
	mgr    *progress.Manager
}

func newFixture(policy progress.TiePolicy) *fixture {
	clock := debounce.NewFakeClock(t0)
	f := &fixture{clock: clock, cache: newMemCache(), remote: newMemRemote()}
	universe := progress.NewUniverse(modules())
	f.mgr = progress.NewManager(progress.Options{
		Cache:     f.cache,
		Remote:    f.remote,
		Clock:     clock,
		Scheduler: debounce.New(clock, time.Second),
		TiePolicy: policy,
		Universe:  func() *progress.Universe { return universe },
	})
	return f
}

func snapshot(at time.Time, checked ...string) *model.ProgressSnapshot {
	s := model.NewProgressSnapshot("krishna-patel", "Krishna Patel", at)
	for _, id := range checked {
		s.CheckedItems[id] = true
	}
	return s
}

func TestUniverse_Progress(t *testing.T) {
	u := progress.NewUniverse(modules())

	if u.Total() != 5 {
		t.Fatalf("section headers must not count, total = %d", u.Total())
	}
	checked := map[string]bool{"m1-a": true, "m1-b": true}
	if got := u.ModuleProgress(checked, "module-1"); got != 67 {
		t.Errorf("module-1 progress = %d, want 67", got)
	}
	if got := u.ModuleProgress(checked, "module-3"); got != 0 {
		t.Errorf("empty module progress = %d, want 0", got)
	}
	if got := u.OverallProgress(checked); got != 40 {
		t.Errorf("overall = %d, want 40", got)
	}
}

func TestUniverse_StaleIDsExcluded(t *testing.T) {
	u := progress.NewUniverse([]model.Module{
		{ID: "module-1", Checklist: []model.ChecklistItem{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}},
	})
	checked := map[string]bool{"a": true, "b": true, "x": true}

	if got := u.OverallProgress(checked); got != 50 {
		t.Fatalf("overall = %d, want 50", got)
	}
}

func TestReconcile(t *testing.T) {
	older := snapshot(t0, "m1-a")
	newer := snapshot(t0.Add(time.Minute), "m1-b")

	tests := []struct {
		name        string
		local       *model.ProgressSnapshot
		remote      *model.ProgressSnapshot
		policy      progress.TiePolicy
		source      progress.Source
		writeLocal  bool
		writeRemote bool
	}{
		{"both absent", nil, nil, progress.TieRemoteWins, progress.SourceNone, false, false},
		{"local only", older, nil, progress.TieRemoteWins, progress.SourceLocal, false, true},
		{"remote only", nil, older, progress.TieRemoteWins, progress.SourceRemote, true, false},
		{"remote newer", older, newer, progress.TieRemoteWins, progress.SourceRemote, true, false},
		{"local newer", newer, older, progress.TieRemoteWins, progress.SourceLocal, false, true},
		{"tie remote wins", older, snapshot(t0, "m1-c"), progress.TieRemoteWins, progress.SourceRemote, true, false},
		{"tie merge", older, snapshot(t0, "m1-c"), progress.TieMerge, progress.SourceMerged, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := progress.Reconcile(tt.local, tt.remote, tt.policy)
			if out.Source != tt.source {
				t.Errorf("source = %s, want %s", out.Source, tt.source)
			}
			if out.WriteLocal != tt.writeLocal || out.WriteRemote != tt.writeRemote {
				t.Errorf("writes = (local %v, remote %v), want (%v, %v)",
					out.WriteLocal, out.WriteRemote, tt.writeLocal, tt.writeRemote)
			}
		})
	}
}

func TestReconcile_TieMergeUnionsCheckedItems(t *testing.T) {
	local := snapshot(t0, "m1-a")
	local.Notes["module-1"] = "local note"
	remote := snapshot(t0, "m1-c")

	out := progress.Reconcile(local, remote, progress.TieMerge)

	if !out.Effective.CheckedItems["m1-a"] || !out.Effective.CheckedItems["m1-c"] {
		t.Errorf("expected union of checked items, got %v", out.Effective.CheckedItems)
	}
	if out.Effective.Notes["module-1"] != "local note" {
		t.Errorf("expected local note to fill empty remote note, got %q", out.Effective.Notes["module-1"])
	}
}

func TestReconcile_DoesNotAliasInputs(t *testing.T) {
	remote := snapshot(t0, "m1-a")
	out := progress.Reconcile(nil, remote, progress.TieRemoteWins)
	out.Effective.CheckedItems["m1-b"] = true

	if remote.CheckedItems["m1-b"] {
		t.Error("effective snapshot shares a map with the remote input")
	}
}

func TestSession_LoadStaleLocalAndStaleIDs(t *testing.T) {
	f := newFixture(progress.TieRemoteWins)
	f.cache.snaps["krishna-patel"] = snapshot(t0.Add(-time.Hour), "m1-a")
	f.remote.snaps["krishna-patel"] = snapshot(t0, "m1-a", "m1-b", "retired-item")

	s := f.mgr.Session("krishna-patel", "Krishna Patel")
	got := s.Load(context.Background())

	if !got.CheckedItems["m1-b"] {
		t.Fatal("expected the newer remote snapshot to win")
	}
	if got.OverallProgress != 40 {
		t.Errorf("overall = %d, want 40 (stale id excluded)", got.OverallProgress)
	}
	if cached := f.cache.get("krishna-patel"); !cached.CheckedItems["m1-b"] {
		t.Error("expected the winner to be written back to the local cache")
	}
	if f.remote.pushCount() != 0 {
		t.Error("remote already holds the winner and must not be rewritten")
	}
}

func TestSession_LoadNewerLocalIsPushedAfterDebounce(t *testing.T) {
	f := newFixture(progress.TieRemoteWins)
	f.cache.snaps["krishna-patel"] = snapshot(t0, "m2-a")
	f.remote.snaps["krishna-patel"] = snapshot(t0.Add(-time.Hour))

	s := f.mgr.Session("krishna-patel", "Krishna Patel")
	s.Load(context.Background())
	f.clock.Advance(time.Second)

	if !f.remote.get("krishna-patel").CheckedItems["m2-a"] {
		t.Fatal("expected the newer local snapshot to be written back to the remote")
	}
}

func TestSession_CorruptLocalFallsBackToRemote(t *testing.T) {
	f := newFixture(progress.TieRemoteWins)
	f.cache.err = errors.New("invalid character")
	f.remote.snaps["krishna-patel"] = snapshot(t0, "m1-c")

	got := f.mgr.Session("krishna-patel", "Krishna Patel").Load(context.Background())

	if !got.CheckedItems["m1-c"] {
		t.Fatalf("expected remote snapshot, got %v", got.CheckedItems)
	}
}

func TestSession_ToggleDebouncesRemoteWrites(t *testing.T) {
	f := newFixture(progress.TieRemoteWins)
	s := f.mgr.Session("krishna-patel", "Krishna Patel")
	ctx := context.Background()
	s.Load(ctx)

	for _, id := range []string{"m1-a", "m1-b", "m1-a"} {
		if _, err := s.ToggleItem(ctx, id); err != nil {
			t.Fatalf("toggle %s: %v", id, err)
		}
		f.clock.Advance(300 * time.Millisecond)
	}

	if f.remote.pushCount() != 0 {
		t.Fatalf("expected no remote write inside the burst, got %d", f.remote.pushCount())
	}
	if cached := f.cache.get("krishna-patel"); !cached.CheckedItems["m1-b"] || cached.CheckedItems["m1-a"] {
		t.Errorf("local cache must be written synchronously, got %v", cached.CheckedItems)
	}

	f.clock.Advance(time.Second)

	if f.remote.pushCount() != 1 {
		t.Fatalf("expected exactly one remote write, got %d", f.remote.pushCount())
	}
	pushed := f.remote.get("krishna-patel")
	if pushed.CheckedItems["m1-a"] || !pushed.CheckedItems["m1-b"] {
		t.Errorf("expected only the final state to be pushed, got %v", pushed.CheckedItems)
	}
	if pushed.OverallProgress != 20 {
		t.Errorf("overall = %d, want 20", pushed.OverallProgress)
	}
}

func TestSession_TimestampsAreMonotonic(t *testing.T) {
	f := newFixture(progress.TieRemoteWins)
	s := f.mgr.Session("krishna-patel", "Krishna Patel")
	ctx := context.Background()
	s.Load(ctx)

	prev := s.Snapshot().LastUpdated
	for i := 0; i < 5; i++ {
		f.clock.Advance(10 * time.Millisecond)
		snap, _ := s.ToggleItem(ctx, "m2-b")
		if !snap.LastUpdated.After(prev) {
			t.Fatalf("lastUpdated did not advance: %v -> %v", prev, snap.LastUpdated)
		}
		prev = snap.LastUpdated
	}
}

func TestSession_UnknownItemOrModule(t *testing.T) {
	f := newFixture(progress.TieRemoteWins)
	s := f.mgr.Session("krishna-patel", "Krishna Patel")
	ctx := context.Background()

	if _, err := s.ToggleItem(ctx, "m1-section"); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("section header toggle: got %v, want ErrNotFound", err)
	}
	if _, err := s.UpdateNote(ctx, "module-9", "x"); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("unknown module note: got %v, want ErrNotFound", err)
	}
}

func TestSession_UpdateNoteKeepsProgress(t *testing.T) {
	f := newFixture(progress.TieRemoteWins)
	s := f.mgr.Session("krishna-patel", "Krishna Patel")
	ctx := context.Background()
	s.ToggleItem(ctx, "m1-a")

	snap, err := s.UpdateNote(ctx, "module-1", "call script practised")
	if err != nil {
		t.Fatal(err)
	}
	if snap.OverallProgress != 20 || snap.Notes["module-1"] != "call script practised" {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestSession_ResetInvalidatesPendingWrite(t *testing.T) {
	f := newFixture(progress.TieRemoteWins)
	s := f.mgr.Session("krishna-patel", "Krishna Patel")
	ctx := context.Background()
	s.Load(ctx)

	s.ToggleItem(ctx, "m1-a")
	f.clock.Advance(200 * time.Millisecond)

	snap, err := s.Reset(ctx)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(snap.CheckedItems) != 0 || snap.OverallProgress != 0 {
		t.Fatalf("expected cleared snapshot, got %+v", snap)
	}
	if f.remote.pushCount() != 1 {
		t.Fatalf("reset must write the remote synchronously, pushes = %d", f.remote.pushCount())
	}

	f.clock.Advance(5 * time.Second)

	if f.remote.pushCount() != 1 {
		t.Errorf("pending write fired after reset, pushes = %d", f.remote.pushCount())
	}
	if remote := f.remote.get("krishna-patel"); len(remote.CheckedItems) != 0 {
		t.Errorf("remote holds pre-reset items %v", remote.CheckedItems)
	}
	if local := f.cache.get("krishna-patel"); len(local.CheckedItems) != 0 {
		t.Errorf("local holds pre-reset items %v", local.CheckedItems)
	}
}

func TestSession_ResetRemoteFailure(t *testing.T) {
	f := newFixture(progress.TieRemoteWins)
	s := f.mgr.Session("krishna-patel", "Krishna Patel")
	ctx := context.Background()
	s.ToggleItem(ctx, "m1-a")
	f.remote.setPushErr(errors.New("503 service unavailable"))

	_, err := s.Reset(ctx)

	if !errors.Is(err, util.ErrUpstreamUnavailable) {
		t.Fatalf("got %v, want ErrUpstreamUnavailable", err)
	}
	if local := f.cache.get("krishna-patel"); len(local.CheckedItems) != 0 {
		t.Error("local cache must be cleared even when the remote is down")
	}
	if !s.Status().Pending {
		t.Error("expected the reset to stay pending for the next sync")
	}
}

func TestSession_RemoteFailureRetriedOnNextMutation(t *testing.T) {
	f := newFixture(progress.TieRemoteWins)
	s := f.mgr.Session("krishna-patel", "Krishna Patel")
	ctx := context.Background()
	f.remote.setPushErr(errors.New("timeout"))

	if _, err := s.ToggleItem(ctx, "m1-a"); err != nil {
		t.Fatalf("remote failure must not block the local flow: %v", err)
	}
	f.clock.Advance(time.Second)

	st := s.Status()
	if !st.Pending || st.LastError == "" {
		t.Fatalf("expected pending sync with error, got %+v", st)
	}

	f.remote.setPushErr(nil)
	s.ToggleItem(ctx, "m1-b")
	f.clock.Advance(time.Second)

	pushed := f.remote.get("krishna-patel")
	if pushed == nil || !pushed.CheckedItems["m1-a"] || !pushed.CheckedItems["m1-b"] {
		t.Fatalf("expected retried write with both items, got %+v", pushed)
	}
	if st := s.Status(); st.Pending || st.LastSyncedAt == nil {
		t.Errorf("expected synced status, got %+v", st)
	}
}

func TestSession_LoadRemoteFailureUsesLocal(t *testing.T) {
	f := newFixture(progress.TieRemoteWins)
	f.cache.snaps["krishna-patel"] = snapshot(t0, "m1-c")
	f.remote.fetchErr = errors.New("connection refused")

	got := f.mgr.Session("krishna-patel", "Krishna Patel").Load(context.Background())

	if !got.CheckedItems["m1-c"] {
		t.Fatal("expected local snapshot when the remote is unreachable")
	}
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	f := newFixture(progress.TieRemoteWins)
	ctx := context.Background()
	a := f.mgr.Session("krishna-patel", "Krishna Patel")
	b := f.mgr.Session("marcus-chen", "Marcus Chen")

	a.ToggleItem(ctx, "m1-a")
	b.ToggleItem(ctx, "m2-a")
	f.clock.Advance(time.Second)

	if f.remote.pushCount() != 2 {
		t.Fatalf("expected one push per trainee, got %d", f.remote.pushCount())
	}
	if f.mgr.Session("krishna-patel", "") != a {
		t.Error("expected the same session for the same slug")
	}
	if f.remote.get("marcus-chen").CheckedItems["m1-a"] {
		t.Error("trainee state leaked across sessions")
	}
}

func TestManager_FlushAllPushesImmediately(t *testing.T) {
	f := newFixture(progress.TieRemoteWins)
	s := f.mgr.Session("krishna-patel", "Krishna Patel")
	s.ToggleItem(context.Background(), "m1-a")

	if n := f.mgr.FlushAll(); n != 1 {
		t.Fatalf("flushed %d, want 1", n)
	}
	if f.remote.pushCount() != 1 {
		t.Errorf("pushes = %d, want 1", f.remote.pushCount())
	}
}

func TestSession_ToggleBeforeLoadKeepsStoredProgress(t *testing.T) {
	f := newFixture(progress.TieRemoteWins)
	f.cache.snaps["krishna-patel"] = snapshot(t0.Add(-time.Hour), "m1-a", "m1-b", "m2-a")
	f.remote.snaps["krishna-patel"] = snapshot(t0.Add(-time.Hour), "m1-a", "m1-b", "m2-a")

	s := f.mgr.Session("krishna-patel", "Krishna Patel")
	snap, err := s.ToggleItem(context.Background(), "m1-c")
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.CheckedItems) != 4 || snap.OverallProgress != 80 {
		t.Fatalf("toggle must apply on top of stored progress, got %v overall=%d", snap.CheckedItems, snap.OverallProgress)
	}

	f.clock.Advance(2 * time.Second)

	remote := f.remote.get("krishna-patel")
	for _, id := range []string{"m1-a", "m1-b", "m1-c", "m2-a"} {
		if !remote.CheckedItems[id] {
			t.Errorf("remote lost %s: %v", id, remote.CheckedItems)
		}
	}
}

func TestSession_NoteBeforeLoadKeepsStoredProgress(t *testing.T) {
	f := newFixture(progress.TieRemoteWins)
	f.remote.snaps["krishna-patel"] = snapshot(t0.Add(-time.Hour), "m1-a", "m2-b")

	s := f.mgr.Session("krishna-patel", "Krishna Patel")
	snap, err := s.UpdateNote(context.Background(), "module-2", "objection handling")
	if err != nil {
		t.Fatal(err)
	}
	if !snap.CheckedItems["m1-a"] || !snap.CheckedItems["m2-b"] || snap.OverallProgress != 40 {
		t.Fatalf("expected remote items to survive a note edit, got %+v", snap)
	}
	if got, _ := s.ModuleProgress(context.Background(), "module-2"); got != 50 {
		t.Errorf("module-2 progress = %d, want 50", got)
	}
}

func TestSession_ResetRetriedOnFlushAfterRemoteFailure(t *testing.T) {
	f := newFixture(progress.TieRemoteWins)
	s := f.mgr.Session("krishna-patel", "Krishna Patel")
	ctx := context.Background()
	s.ToggleItem(ctx, "m1-a")
	f.clock.Advance(time.Second)
	if !f.remote.get("krishna-patel").CheckedItems["m1-a"] {
		t.Fatal("setup: expected m1-a on the remote")
	}

	f.remote.setPushErr(errors.New("503 service unavailable"))
	if _, err := s.Reset(ctx); !errors.Is(err, util.ErrUpstreamUnavailable) {
		t.Fatalf("reset: got %v, want ErrUpstreamUnavailable", err)
	}
	f.remote.setPushErr(nil)

	if n := f.mgr.FlushAll(); n != 1 {
		t.Fatalf("flushed %d, want 1", n)
	}
	if remote := f.remote.get("krishna-patel"); len(remote.CheckedItems) != 0 {
		t.Errorf("remote still holds pre-reset items %v", remote.CheckedItems)
	}
	if s.Status().Pending {
		t.Error("expected the reset to be synced after flush")
	}
}

func TestSession_ResetRetriedAfterDebounce(t *testing.T) {
	f := newFixture(progress.TieRemoteWins)
	s := f.mgr.Session("krishna-patel", "Krishna Patel")
	ctx := context.Background()
	s.ToggleItem(ctx, "m1-a")
	f.clock.Advance(time.Second)

	f.remote.setPushErr(errors.New("timeout"))
	s.Reset(ctx)
	f.remote.setPushErr(nil)
	f.clock.Advance(time.Second)

	if remote := f.remote.get("krishna-patel"); len(remote.CheckedItems) != 0 {
		t.Errorf("remote still holds pre-reset items %v", remote.CheckedItems)
	}
}

func TestManager_FlushAllRetriesFailedWrites(t *testing.T) {
	f := newFixture(progress.TieRemoteWins)
	s := f.mgr.Session("krishna-patel", "Krishna Patel")
	f.remote.setPushErr(errors.New("timeout"))
	s.ToggleItem(context.Background(), "m1-a")
	f.clock.Advance(time.Second)
	f.remote.setPushErr(nil)

	if n := f.mgr.FlushAll(); n != 1 {
		t.Fatalf("flushed %d, want 1", n)
	}
	if !f.remote.get("krishna-patel").CheckedItems["m1-a"] {
		t.Error("expected the failed write to be retried on flush")
	}
	if n := f.mgr.FlushAll(); n != 0 {
		t.Errorf("second flush pushed %d, want 0", n)
	}
}

func TestSession_RemoteOutageDoesNotOverwriteRemote(t *testing.T) {
	f := newFixture(progress.TieRemoteWins)
	f.remote.snaps["krishna-patel"] = snapshot(t0.Add(-time.Hour), "m1-a", "m1-b")
	f.remote.setFetchErr(errors.New("connection refused"))

	s := f.mgr.Session("krishna-patel", "Krishna Patel")
	ctx := context.Background()
	if got := s.Load(ctx); len(got.CheckedItems) != 0 {
		t.Fatalf("expected an empty snapshot while the remote is down, got %v", got.CheckedItems)
	}
	s.ToggleItem(ctx, "m2-a")
	f.clock.Advance(time.Second)

	if f.remote.pushCount() != 0 {
		t.Fatalf("pushed %d times without reading the remote", f.remote.pushCount())
	}
	if !s.Status().Pending {
		t.Error("expected the change to stay pending")
	}

	f.remote.setFetchErr(nil)
	if n := f.mgr.FlushAll(); n != 1 {
		t.Fatalf("flushed %d, want 1", n)
	}

	remote := f.remote.get("krishna-patel")
	for _, id := range []string{"m1-a", "m1-b", "m2-a"} {
		if !remote.CheckedItems[id] {
			t.Errorf("remote missing %s after recovery: %v", id, remote.CheckedItems)
		}
	}
	if remote.OverallProgress != 60 {
		t.Errorf("overall = %d, want 60", remote.OverallProgress)
	}
	if snap := s.Snapshot(); len(snap.CheckedItems) != 3 {
		t.Errorf("session did not adopt the merged snapshot: %v", snap.CheckedItems)
	}
}

func TestSession_LoadAfterOutageMergesLocalChanges(t *testing.T) {
	f := newFixture(progress.TieRemoteWins)
	f.remote.snaps["krishna-patel"] = snapshot(t0.Add(-time.Hour), "m1-a", "m1-b")
	f.remote.setFetchErr(errors.New("connection refused"))

	s := f.mgr.Session("krishna-patel", "Krishna Patel")
	ctx := context.Background()
	s.ToggleItem(ctx, "m1-b")
	s.UpdateNote(ctx, "module-1", "offline note")
	f.clock.Advance(time.Second)

	if cached := f.cache.get("krishna-patel"); !cached.LastUpdated.IsZero() {
		t.Errorf("unconfirmed cache copy must keep the baseline timestamp, got %v", cached.LastUpdated)
	}

	f.remote.setFetchErr(nil)
	got := s.Load(ctx)

	if !got.CheckedItems["m1-a"] {
		t.Errorf("expected untouched remote item to survive, got %v", got.CheckedItems)
	}
	if !got.CheckedItems["m1-b"] {
		t.Errorf("expected the offline toggle of m1-b to apply, got %v", got.CheckedItems)
	}
	if got.Notes["module-1"] != "offline note" {
		t.Errorf("note = %q, want offline note", got.Notes["module-1"])
	}

	f.clock.Advance(time.Second)
	if remote := f.remote.get("krishna-patel"); remote.Notes["module-1"] != "offline note" || !remote.CheckedItems["m1-a"] {
		t.Errorf("expected merged snapshot on the remote, got %+v", remote)
	}
}
