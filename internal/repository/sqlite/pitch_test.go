package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/pitchhub/internal/apperror"
	"github.com/sakif/pitchhub/internal/model"
	"github.com/sakif/pitchhub/internal/repository"
)

func TestCreatePitch_LookingForSet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")

	p := &model.Pitch{
		Title:      "Open-source tractor",
		Body:       "Repairable farm machinery",
		Category:   "agritech",
		AuthorID:   alice.ID,
		LookingFor: []string{"developer", " investor ", "developer", ""},
	}
	if err := db.CreatePitch(ctx, p); err != nil {
		t.Fatalf("CreatePitch() error = %v", err)
	}

	got, err := db.GetPitch(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPitch() error = %v", err)
	}
	if got.AuthorName != "alice" {
		t.Errorf("AuthorName = %q, want alice", got.AuthorName)
	}
	if len(got.LookingFor) != 2 || got.LookingFor[0] != "developer" || got.LookingFor[1] != "investor" {
		t.Errorf("LookingFor = %v, want [developer investor]", got.LookingFor)
	}
}

func TestCreatePitch_UnknownAuthor(t *testing.T) {
	db := newTestDB(t)

	err := db.CreatePitch(context.Background(), &model.Pitch{Title: "t", Body: "b", AuthorID: 77})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("CreatePitch() error = %v, want ErrNotFound", err)
	}
}

func TestGetPitch_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetPitch(context.Background(), 1)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetPitch() error = %v, want ErrNotFound", err)
	}
}

func TestListPitches_NewestFirstAndSearch(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")

	createTestPitch(t, db, alice.ID, "Solar kiosk")
	createTestPitch(t, db, alice.ID, "Water filter")
	createTestPitch(t, db, alice.ID, "100% recycled bricks")

	all, err := db.ListPitches(ctx, "", repository.ListOptions{})
	if err != nil {
		t.Fatalf("ListPitches() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].Title != "100% recycled bricks" || all[2].Title != "Solar kiosk" {
		t.Errorf("order = [%s, ..., %s], want newest first", all[0].Title, all[2].Title)
	}

	hits, err := db.ListPitches(ctx, "SOLAR", repository.ListOptions{})
	if err != nil {
		t.Fatalf("ListPitches(SOLAR) error = %v", err)
	}
	if len(hits) != 1 || hits[0].Title != "Solar kiosk" {
		t.Errorf("search SOLAR = %v, want only Solar kiosk", hits)
	}

	// "%" must be literal, not a wildcard that matches every row
	pct, err := db.ListPitches(ctx, "0%", repository.ListOptions{})
	if err != nil {
		t.Fatalf("ListPitches(0%%) error = %v", err)
	}
	if len(pct) != 1 {
		t.Errorf("search 0%% returned %d rows, want 1", len(pct))
	}
}

func TestListPitchesByAuthor(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	createTestPitch(t, db, alice.ID, "A1")
	createTestPitch(t, db, bob.ID, "B1")
	createTestPitch(t, db, alice.ID, "A2")

	got, err := db.ListPitchesByAuthor(context.Background(), alice.ID, repository.ListOptions{Limit: 10})
	if err != nil {
		t.Fatalf("ListPitchesByAuthor() error = %v", err)
	}
	if len(got) != 2 || got[0].Title != "A2" || got[1].Title != "A1" {
		t.Errorf("got %d pitches, want [A2 A1]", len(got))
	}
	for _, p := range got {
		if p.LookingFor == nil {
			t.Errorf("pitch %d LookingFor is nil, want empty slice", p.ID)
		}
	}
}

func TestDeletePitch_NotFound(t *testing.T) {
	db := newTestDB(t)

	if err := db.DeletePitch(context.Background(), 5); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("DeletePitch() error = %v, want ErrNotFound", err)
	}
}
