package region

import (
	"slices"
	"testing"

	"github.com/sheikhrachel/go-gol-tiles/engine"
	"github.com/sheikhrachel/go-gol-tiles/model"
)

func activeFromStore(store *model.Store) engine.ActiveMap {
	active := make(engine.ActiveMap, store.Len())
	for _, t := range store.Tiles() {
		active[t.Coord] = t.Active()
	}
	return active
}

func TestPlanCreatesAllNeighborsOfLoneActiveTile(t *testing.T) {
	store := model.NewStore(nil)
	origin := model.Coord{}
	if _, err := store.Insert(origin, model.Fill(model.BoxWord)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	changes := Plan(store, activeFromStore(store))

	neighbors := origin.Neighbors()
	expected := neighbors[:]
	slices.SortFunc(expected, compareCoords)
	if !slices.Equal(changes.Create, expected) {
		t.Errorf("expected create %v, got %v", expected, changes.Create)
	}
	if len(changes.Destroy) != 0 {
		t.Errorf("expected nothing destroyed, got %v", changes.Destroy)
	}
	if changes.Active != 1 || changes.Retained != 0 {
		t.Errorf("expected 1 active and 0 retained, got %d and %d", changes.Active, changes.Retained)
	}

	created, destroyed := Apply(store, changes)
	if created != 8 || destroyed != 0 {
		t.Errorf("expected 8 created and 0 destroyed, got %d and %d", created, destroyed)
	}
	if store.Len() != 9 {
		t.Errorf("expected 9 tiles, got %d", store.Len())
	}
	for _, n := range neighbors {
		tile, ok := store.Get(n)
		if !ok || tile.Current.Any() {
			t.Errorf("expected empty tile at %v", n)
		}
	}
}

func TestPlanDestroysDeadCentreOfBlock(t *testing.T) {
	store := model.NewStore(model.NewTilePool())
	for ty := -1; ty <= 1; ty++ {
		for tx := -1; tx <= 1; tx++ {
			store.Ensure(model.Coord{}.Add(tx, ty))
		}
	}

	changes := Plan(store, activeFromStore(store))
	if len(changes.Destroy) != 9 {
		t.Fatalf("expected all 9 dead tiles destroyed, got %v", changes.Destroy)
	}
	if len(changes.Create) != 0 || changes.Active != 0 {
		t.Errorf("expected nothing created or active, got %v and %d", changes.Create, changes.Active)
	}

	Apply(store, changes)
	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d tiles", store.Len())
	}
}

func TestPlanRetainsTilesNextToActive(t *testing.T) {
	store := model.NewStore(nil)
	live := model.Coord{X: 64, Y: 32}
	store.Ensure(live).Current.Set(0, 0, true)
	retained := live.Add(-1, 0)
	far := live.Add(-2, 0)
	store.Ensure(retained)
	store.Ensure(far)

	changes := Plan(store, activeFromStore(store))

	if changes.Retained != 1 {
		t.Errorf("expected 1 retained tile, got %d", changes.Retained)
	}
	if !slices.Equal(changes.Destroy, []model.Coord{far}) {
		t.Errorf("expected only %v destroyed, got %v", far, changes.Destroy)
	}
	if slices.Contains(changes.Create, retained) || slices.Contains(changes.Create, live) {
		t.Errorf("expected existing tiles not to be created, got %v", changes.Create)
	}
	if len(changes.Create) != 7 {
		t.Errorf("expected 7 tiles created, got %d", len(changes.Create))
	}
}

func TestPlanTreatsMissingFlagsAsInactive(t *testing.T) {
	store := model.NewStore(nil)
	store.Ensure(model.Coord{}).Current.Set(5, 5, true)

	changes := Plan(store, engine.ActiveMap{})
	if !slices.Equal(changes.Destroy, []model.Coord{{}}) {
		t.Errorf("expected the unflagged tile destroyed, got %v", changes.Destroy)
	}
}

func TestApplySkipsStaleCoordinates(t *testing.T) {
	store := model.NewStore(nil)
	store.Ensure(model.Coord{})

	created, destroyed := Apply(store, Changes{
		Create:  []model.Coord{{}},
		Destroy: []model.Coord{{X: 32}},
	})
	if created != 0 || destroyed != 0 {
		t.Errorf("expected no changes applied, got %d created and %d destroyed", created, destroyed)
	}
	if !(Changes{}).Empty() {
		t.Error("expected zero Changes to be empty")
	}
}
