package store

import (
	"context"
	"errors"
	"slices"
	"testing"
)

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	seed := []Record{
		{Name: "okkadu", Year: 2003, Cast: []string{"mahesh", "boomika"}, ReleaseDate: "2003-08-08"},
		{Name: "kushi", Year: 2001, Cast: []string{"pavan", "boomika"}, ReleaseDate: "2002-11-10"},
		{Name: "simhadhri", Year: 2003, Cast: []string{"ntr"}},
		{ID: "xyz", Name: "shiva mani", Year: 2002, Cast: []string{"nag", "amala"}},
	}

	var ids []string
	for i := range seed {
		saved, err := s.Save(ctx, &seed[i])
		if err != nil {
			t.Fatalf("Save(%s) failed: %v", seed[i].Name, err)
		}
		if saved.ID == "" {
			t.Fatalf("Save(%s) did not assign an id", seed[i].Name)
		}
		ids = append(ids, saved.ID)
	}
	if ids[3] != "xyz" {
		t.Errorf("expected caller-supplied id to be kept, got %q", ids[3])
	}

	all, err := s.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("expected 4 records, got %d", len(all))
	}
	assertNames(t, "FindAll", all, "okkadu", "kushi", "simhadhri", "shiva mani")

	byYear, err := s.FindByYear(ctx, 2003)
	if err != nil {
		t.Fatalf("FindByYear failed: %v", err)
	}
	if len(byYear) != 2 {
		t.Errorf("expected 2 records for 2003, got %d", len(byYear))
	}
	assertNames(t, "FindByYear", byYear, "okkadu", "simhadhri")

	// The first record saved under a shared name wins the name lookup.
	dup, err := s.Save(ctx, &Record{Name: "okkadu", Year: 2024})
	if err != nil {
		t.Fatalf("Save(duplicate name) failed: %v", err)
	}
	first, err := s.FindByName(ctx, "okkadu")
	if err != nil {
		t.Fatalf("FindByName(okkadu) failed: %v", err)
	}
	if first.ID != ids[0] {
		t.Errorf("expected the earliest okkadu %s, got %s", ids[0], first.ID)
	}
	if err := s.DeleteByID(ctx, dup.ID); err != nil {
		t.Fatalf("DeleteByID(duplicate) failed: %v", err)
	}

	got, err := s.FindByID(ctx, "xyz")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.Name != "shiva mani" || len(got.Cast) != 2 {
		t.Errorf("unexpected record: %+v", got)
	}

	byName, err := s.FindByName(ctx, "kushi")
	if err != nil {
		t.Fatalf("FindByName failed: %v", err)
	}
	if byName.ID != ids[1] {
		t.Errorf("expected id %s, got %s", ids[1], byName.ID)
	}

	if _, err := s.FindByName(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown name, got %v", err)
	}
	if _, err := s.FindByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}

	// Update moves the record between year indexes.
	got.Year = 2006
	got.Cast = append(got.Cast, "tabu")
	if _, err := s.Save(ctx, got); err != nil {
		t.Fatalf("Save(update) failed: %v", err)
	}
	if recs, _ := s.FindByYear(ctx, 2002); len(recs) != 0 {
		t.Errorf("expected 2002 to be empty after update, got %d", len(recs))
	}
	if recs, _ := s.FindByYear(ctx, 2006); len(recs) != 1 || len(recs[0].Cast) != 3 {
		t.Errorf("expected updated record under 2006, got %+v", recs)
	}
	all, _ = s.FindAll(ctx)
	if len(all) != 4 {
		t.Errorf("update must not add a record, got %d", len(all))
	}
	assertNames(t, "FindAll after update", all, "okkadu", "kushi", "simhadhri", "shiva mani")

	if err := s.DeleteByID(ctx, "xyz"); err != nil {
		t.Fatalf("DeleteByID failed: %v", err)
	}
	if err := s.DeleteByID(ctx, "xyz"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
	all, _ = s.FindAll(ctx)
	assertNames(t, "FindAll after delete", all, "okkadu", "kushi", "simhadhri")
}

func assertNames(t *testing.T, what string, recs []Record, want ...string) {
	t.Helper()
	got := make([]string, len(recs))
	for i, r := range recs {
		got[i] = r.Name
	}
	if !slices.Equal(got, want) {
		t.Errorf("%s: expected %v in insertion order, got %v", what, want, got)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
}

func TestMemoryStore_InsertionOrder(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		if _, err := s.Save(ctx, &Record{Name: name, Year: 2000}); err != nil {
			t.Fatal(err)
		}
	}
	all, _ := s.FindAll(ctx)
	for i, want := range []string{"a", "b", "c"} {
		if all[i].Name != want {
			t.Errorf("position %d: expected %s, got %s", i, want, all[i].Name)
		}
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	saved, _ := s.Save(ctx, &Record{Name: "a", Year: 2000, Cast: []string{"x"}})
	saved.Cast[0] = "mutated"

	got, _ := s.FindByID(ctx, saved.ID)
	if got.Cast[0] != "x" {
		t.Errorf("store state leaked through returned record: %v", got.Cast)
	}
}

func TestMemoryStore_Closed(t *testing.T) {
	s := NewMemoryStore()
	_ = s.Close()
	if _, err := s.Save(context.Background(), &Record{Name: "a", Year: 1}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestBadgerStore(t *testing.T) {
	s, err := OpenBadgerStore("")
	if err != nil {
		t.Fatalf("OpenBadgerStore failed: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestBadgerStore_OnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := OpenBadgerStore(dir)
	if err != nil {
		t.Fatalf("OpenBadgerStore failed: %v", err)
	}
	saved, err := s.Save(ctx, &Record{Name: "persisted", Year: 1999})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenBadgerStore(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.FindByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("FindByID after reopen failed: %v", err)
	}
	if got.Name != "persisted" {
		t.Errorf("expected persisted, got %s", got.Name)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	if _, err := Open(context.Background(), "mongo", "", RedisOptions{}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
