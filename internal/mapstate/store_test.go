package mapstate_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/FieldTrace/FT-Backend/internal/mapstate"
)

func setupTestStore(t *testing.T) *mapstate.Store {
	t.Helper()

	s := miniredis.RunT(t)
	store, err := mapstate.NewStore("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("failed to create map session store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// TestSaveAndLoadMapSession verifies a saved session round-trips with its view
// state, basemap, and task intact.
func TestSaveAndLoadMapSession(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	in := mapstate.MapSession{
		ViewState: &mapstate.ViewState{Center: [2]float64{-122.4, 37.8}, Zoom: 15},
		Basemap:   mapstate.BasemapSatellite,
		Task:      "hydrant sweep",
	}
	if err := store.Save(ctx, "session-1", in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	out, err := store.Load(ctx, "session-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if out.ViewState == nil || out.ViewState.Center != in.ViewState.Center || out.ViewState.Zoom != 15 {
		t.Errorf("view state wrong: %+v", out.ViewState)
	}
	if out.Basemap != mapstate.BasemapSatellite || out.Task != "hydrant sweep" {
		t.Errorf("fields wrong: %+v", out)
	}
	if out.SavedAt.IsZero() {
		t.Error("SavedAt not stamped")
	}
}

// TestLoadMissingSession verifies the sentinel for logins with nothing saved.
func TestLoadMissingSession(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Load(context.Background(), "never-saved")
	if !errors.Is(err, mapstate.ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
}

// TestSessionsAreIsolatedByLogin verifies two logins never see each other's
// camera.
func TestSessionsAreIsolatedByLogin(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "session-a", mapstate.MapSession{Task: "north side"}); err != nil {
		t.Fatalf("Save a failed: %v", err)
	}
	if err := store.Save(ctx, "session-b", mapstate.MapSession{Task: "south side"}); err != nil {
		t.Fatalf("Save b failed: %v", err)
	}

	a, err := store.Load(ctx, "session-a")
	if err != nil || a.Task != "north side" {
		t.Errorf("session-a wrong: %+v, %v", a, err)
	}
	b, err := store.Load(ctx, "session-b")
	if err != nil || b.Task != "south side" {
		t.Errorf("session-b wrong: %+v, %v", b, err)
	}
}

// TestClearMapSession verifies a cleared session reads back as missing.
func TestClearMapSession(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "session-1", mapstate.MapSession{Task: "x"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Clear(ctx, "session-1"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	_, err := store.Load(ctx, "session-1")
	if !errors.Is(err, mapstate.ErrNoSession) {
		t.Errorf("expected ErrNoSession after clear, got %v", err)
	}
}

// TestMapSessionExpires verifies the store's TTL drops stale sessions.
func TestMapSessionExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := mapstate.NewStore("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("failed to create map session store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Save(ctx, "session-1", mapstate.MapSession{Task: "x"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	mr.FastForward(7 * time.Hour)

	_, err = store.Load(ctx, "session-1")
	if !errors.Is(err, mapstate.ErrNoSession) {
		t.Errorf("expected ErrNoSession after TTL, got %v", err)
	}
}
