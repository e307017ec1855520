package match

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/erazemk/izgubljeno/internal/model"
	"github.com/erazemk/izgubljeno/internal/store"
)

func newFinder(items store.Items) *Finder {
	return &Finder{Items: items, Weights: DefaultWeights(), Threshold: DefaultThreshold}
}

func create(t *testing.T, s store.Items, in model.ItemInput, userID string) *model.Item {
	t.Helper()
	item, err := s.Create(context.Background(), in, userID, "User "+userID)
	if err != nil {
		t.Fatalf("Create(%q): %v", in.Name, err)
	}
	return item
}

func input(name string, c model.Category, location string, date time.Time, typ model.Type) model.ItemInput {
	return model.ItemInput{Name: name, Category: c, Location: location, Date: date, Type: typ}
}

func TestFindMatchesBackpackScenario(t *testing.T) {
	s := store.NewMemory()
	lost := create(t, s, input("Blue Backpack", model.CategoryAccessories, "Library", day(1), model.TypeLost), "A")
	found := create(t, s, input("Backpack", model.CategoryAccessories, "Library", day(2), model.TypeFound), "B")

	matches, err := newFinder(s).FindMatches(context.Background(), lost.ID)
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Item.ID != found.ID {
		t.Errorf("expected found item %s, got %s", found.ID, matches[0].Item.ID)
	}
	if matches[0].Score < 70 {
		t.Errorf("expected score >= 70, got %v", matches[0].Score)
	}
}

func TestFindMatchesThreshold(t *testing.T) {
	s := store.NewMemory()
	lost := create(t, s, input("Phone", model.CategoryElectronics, "Cafeteria", day(1), model.TypeLost), "A")
	// Category only, three weeks apart: 30.
	weak := create(t, s, input("Charger", model.CategoryElectronics, "Gym", day(22), model.TypeFound), "B")
	// Category, location and date: 80.
	strong := create(t, s, input("Tablet", model.CategoryElectronics, "Cafeteria", day(2), model.TypeFound), "C")

	ctx := context.Background()
	f := newFinder(s)

	matches, err := f.FindMatches(ctx, lost.ID)
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}
	if len(matches) != 1 || matches[0].Item.ID != strong.ID || matches[0].Score != 80 {
		t.Fatalf("expected only the strong match at 80, got %+v", matches)
	}

	f.Threshold = 29
	matches, err = f.FindMatches(ctx, lost.ID)
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches below the weak score, got %d", len(matches))
	}
	if matches[0].Item.ID != strong.ID || matches[1].Item.ID != weak.ID {
		t.Errorf("expected strong before weak, got %s then %s", matches[0].Item.Name, matches[1].Item.Name)
	}
	if matches[1].Score != 30 {
		t.Errorf("expected weak score 30, got %v", matches[1].Score)
	}
}

func TestFindMatchesOnlyOppositeSearchingItems(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()

	found := create(t, s, input("Keys", model.CategoryKeys, "Quad", day(5), model.TypeFound), "A")
	sameType := create(t, s, input("Keys", model.CategoryKeys, "Quad", day(5), model.TypeFound), "B")
	claimed := create(t, s, input("Keys", model.CategoryKeys, "Quad", day(5), model.TypeLost), "C")
	open := create(t, s, input("Keys", model.CategoryKeys, "Quad", day(5), model.TypeLost), "D")

	if _, err := s.UpdateStatus(ctx, claimed.ID, model.StatusClaimed); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	matches, err := newFinder(s).FindMatches(ctx, found.ID)
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}
	if len(matches) != 1 || matches[0].Item.ID != open.ID {
		t.Fatalf("expected only the open lost item, got %+v", matches)
	}
	for _, m := range matches {
		if m.Item.ID == found.ID || m.Item.ID == sameType.ID || m.Item.Type == found.Type {
			t.Errorf("unexpected candidate %+v", m.Item)
		}
	}
}

func TestFindMatchesEmptyPartition(t *testing.T) {
	s := store.NewMemory()
	lost := create(t, s, input("Scarf", model.CategoryClothing, "Gym", day(1), model.TypeLost), "A")

	matches, err := newFinder(s).FindMatches(context.Background(), lost.ID)
	if err != nil {
		t.Fatalf("expected no error for empty partition, got %v", err)
	}
	if matches == nil || len(matches) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", matches)
	}
}

func TestFindMatchesMissingItem(t *testing.T) {
	_, err := newFinder(store.NewMemory()).FindMatches(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFindMatchesStableTies(t *testing.T) {
	s := store.NewMemory()
	lost := create(t, s, input("Book", model.CategoryBooks, "Library", day(10), model.TypeLost), "A")

	var want []string
	for i := 0; i < 200; i++ {
		f := create(t, s, input(fmt.Sprintf("Novel %d", i), model.CategoryBooks, "Library", day(10), model.TypeFound), "B")
		want = append(want, f.ID)
	}

	matches, err := newFinder(s).FindMatches(context.Background(), lost.ID)
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}
	if len(matches) != len(want) {
		t.Fatalf("expected %d matches, got %d", len(want), len(matches))
	}
	for i, m := range matches {
		if m.Item.ID != want[i] {
			t.Fatalf("match %d: expected store order to break ties", i)
		}
	}
}

func TestFindMatchesCancelled(t *testing.T) {
	s := store.NewMemory()
	lost := create(t, s, input("Book", model.CategoryBooks, "Library", day(10), model.TypeLost), "A")
	create(t, s, input("Book", model.CategoryBooks, "Library", day(10), model.TypeFound), "B")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newFinder(s).FindMatches(ctx, lost.ID); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
