package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/SoumyajitPaul-git/SplitTrip/internal/models"
	"github.com/SoumyajitPaul-git/SplitTrip/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splittrip-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "nested", "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createUser(t *testing.T, store *SQLiteStore, email, name string) *models.User {
	t.Helper()
	user := models.NewUser(email, name, "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", email, err)
	}
	return user
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com", "Alice")

	t.Run("GetUserByEmail", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got.ID != alice.ID || got.DisplayName != "Alice" || got.PasswordHash != "hash" {
			t.Errorf("GetUserByEmail = %+v, want %+v", got, alice)
		}
	})

	t.Run("GetUserByID", func(t *testing.T) {
		got, err := store.GetUserByID(ctx, alice.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if got.Email != alice.Email {
			t.Errorf("Email = %q, want %q", got.Email, alice.Email)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := models.NewUser("alice@example.com", "Other Alice", "hash")
		if err := store.CreateUser(ctx, dup); !errors.Is(err, storage.ErrAlreadyExists) {
			t.Errorf("CreateUser duplicate error = %v, want ErrAlreadyExists", err)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		if _, err := store.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetUserByEmail error = %v, want ErrNotFound", err)
		}
		if _, err := store.GetUserByID(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetUserByID error = %v, want ErrNotFound", err)
		}
	})
}

func TestTours(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	asha := createUser(t, store, "asha@example.com", "Asha")
	bikram := createUser(t, store, "bikram@example.com", "Bikram")

	tour := &models.Tour{Name: "Goa 2026", Destination: "Goa", CaptainID: asha.ID}
	if err := store.CreateTour(ctx, tour); err != nil {
		t.Fatalf("CreateTour failed: %v", err)
	}

	t.Run("CreateTour fills defaults", func(t *testing.T) {
		if tour.ID == "" || tour.JoinCode == "" || tour.CreatedAt == 0 {
			t.Errorf("expected ID, JoinCode and CreatedAt to be set, got %+v", tour)
		}
		if tour.Status != models.TourPlanning {
			t.Errorf("Status = %q, want planning", tour.Status)
		}
		if len(tour.Members) != 1 || tour.Members[0].UserID != asha.ID || tour.Members[0].Name != "Asha" {
			t.Errorf("Members = %+v, want captain only", tour.Members)
		}
	})

	t.Run("join by code", func(t *testing.T) {
		found, err := store.GetTourByJoinCode(ctx, " "+tour.JoinCode+" ")
		if err != nil {
			t.Fatalf("GetTourByJoinCode failed: %v", err)
		}
		if found.ID != tour.ID {
			t.Fatalf("GetTourByJoinCode = %s, want %s", found.ID, tour.ID)
		}

		if err := store.AddTourMember(ctx, tour.ID, bikram.ID); err != nil {
			t.Fatalf("AddTourMember failed: %v", err)
		}
		if err := store.AddTourMember(ctx, tour.ID, bikram.ID); !errors.Is(err, storage.ErrAlreadyExists) {
			t.Errorf("AddTourMember twice error = %v, want ErrAlreadyExists", err)
		}

		got, err := store.GetTour(ctx, tour.ID)
		if err != nil {
			t.Fatalf("GetTour failed: %v", err)
		}
		if len(got.Members) != 2 || got.Members[0].UserID != asha.ID || got.Members[1].UserID != bikram.ID {
			t.Errorf("Members = %+v, want captain then Bikram", got.Members)
		}
	})

	t.Run("ListToursForMember newest first", func(t *testing.T) {
		second := &models.Tour{Name: "Manali", CaptainID: bikram.ID, CreatedAt: tour.CreatedAt + 10}
		if err := store.CreateTour(ctx, second); err != nil {
			t.Fatalf("CreateTour failed: %v", err)
		}

		tours, err := store.ListToursForMember(ctx, bikram.ID)
		if err != nil {
			t.Fatalf("ListToursForMember failed: %v", err)
		}
		if len(tours) != 2 || tours[0].ID != second.ID || tours[1].ID != tour.ID {
			t.Errorf("ListToursForMember returned %d tours in wrong order", len(tours))
		}

		tours, err = store.ListToursForMember(ctx, asha.ID)
		if err != nil {
			t.Fatalf("ListToursForMember failed: %v", err)
		}
		if len(tours) != 1 {
			t.Errorf("Asha should see 1 tour, got %d", len(tours))
		}
	})

	t.Run("UpdateTourStatus", func(t *testing.T) {
		if err := store.UpdateTourStatus(ctx, tour.ID, models.TourCompleted); err != nil {
			t.Fatalf("UpdateTourStatus failed: %v", err)
		}
		got, err := store.GetTour(ctx, tour.ID)
		if err != nil {
			t.Fatalf("GetTour failed: %v", err)
		}
		if got.Status != models.TourCompleted {
			t.Errorf("Status = %q, want completed", got.Status)
		}

		if err := store.UpdateTourStatus(ctx, "missing", models.TourActive); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("UpdateTourStatus missing error = %v, want ErrNotFound", err)
		}
	})

	t.Run("missing tour", func(t *testing.T) {
		if _, err := store.GetTour(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetTour error = %v, want ErrNotFound", err)
		}
		if _, err := store.GetTourByJoinCode(ctx, "NOPE"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetTourByJoinCode error = %v, want ErrNotFound", err)
		}
	})
}

func TestExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	x := createUser(t, store, "x@example.com", "Xavier")
	y := createUser(t, store, "y@example.com", "Yamini")
	tour := &models.Tour{Name: "Kerala", CaptainID: x.ID}
	if err := store.CreateTour(ctx, tour); err != nil {
		t.Fatalf("CreateTour failed: %v", err)
	}

	custom := &models.Expense{
		TourID:         tour.ID,
		Description:    "Houseboat",
		Category:       "stay",
		Amount:         decimal.RequireFromString("300.10"),
		PayerID:        x.ID,
		ParticipantIDs: []string{y.ID, x.ID},
		SplitType:      models.SplitCustom,
		CustomSplits: map[string]decimal.Decimal{
			x.ID: decimal.RequireFromString("100.05"),
			y.ID: decimal.RequireFromString("200.05"),
		},
		Date:      2000,
		CreatedBy: x.ID,
	}
	equal := &models.Expense{
		TourID:         tour.ID,
		Description:    "Taxi",
		Category:       "travel",
		Amount:         decimal.RequireFromString("90"),
		PayerID:        y.ID,
		ParticipantIDs: []string{x.ID, y.ID},
		SplitType:      models.SplitEqual,
		Date:           1000,
		CreatedBy:      y.ID,
	}

	for _, e := range []*models.Expense{custom, equal} {
		if err := store.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if e.ID == "" || e.CreatedAt == 0 {
			t.Fatalf("expected ID and CreatedAt to be set, got %+v", e)
		}
	}

	t.Run("GetExpense round-trips amounts exactly", func(t *testing.T) {
		got, err := store.GetExpense(ctx, custom.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if !got.Amount.Equal(custom.Amount) {
			t.Errorf("Amount = %s, want %s", got.Amount, custom.Amount)
		}
		if got.SplitType != models.SplitCustom {
			t.Errorf("SplitType = %q", got.SplitType)
		}
		if len(got.ParticipantIDs) != 2 || got.ParticipantIDs[0] != y.ID || got.ParticipantIDs[1] != x.ID {
			t.Errorf("ParticipantIDs = %v, want insertion order", got.ParticipantIDs)
		}
		if !got.CustomSplits[y.ID].Equal(decimal.RequireFromString("200.05")) {
			t.Errorf("CustomSplits[y] = %s", got.CustomSplits[y.ID])
		}
	})

	t.Run("ListExpenses ordered by date", func(t *testing.T) {
		got, err := store.ListExpenses(ctx, tour.ID)
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(got) != 2 || got[0].ID != equal.ID || got[1].ID != custom.ID {
			t.Fatalf("ListExpenses returned wrong order")
		}
		if got[0].CustomSplits != nil {
			t.Errorf("equal split should have no custom splits, got %v", got[0].CustomSplits)
		}
	})

	t.Run("UpdateExpense replaces splits", func(t *testing.T) {
		update := *custom
		update.Amount = decimal.RequireFromString("50")
		update.SplitType = models.SplitEqual
		update.CustomSplits = nil
		update.ParticipantIDs = []string{x.ID}
		if err := store.UpdateExpense(ctx, &update); err != nil {
			t.Fatalf("UpdateExpense failed: %v", err)
		}

		got, err := store.GetExpense(ctx, custom.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if !got.Amount.Equal(decimal.RequireFromString("50")) || got.SplitType != models.SplitEqual {
			t.Errorf("expense not updated: %+v", got)
		}
		if len(got.CustomSplits) != 0 || len(got.ParticipantIDs) != 1 {
			t.Errorf("old splits or participants left behind: %+v", got)
		}
		if got.CreatedBy != x.ID {
			t.Errorf("CreatedBy changed to %q", got.CreatedBy)
		}
	})

	t.Run("DeleteExpense", func(t *testing.T) {
		if err := store.DeleteExpense(ctx, equal.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		if _, err := store.GetExpense(ctx, equal.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetExpense after delete error = %v, want ErrNotFound", err)
		}
		if err := store.DeleteExpense(ctx, equal.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("DeleteExpense twice error = %v, want ErrNotFound", err)
		}
		if err := store.UpdateExpense(ctx, equal); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("UpdateExpense deleted error = %v, want ErrNotFound", err)
		}
	})
}

func TestNew_ReopensExistingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	first, err := New(dbPath)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	user := models.NewUser("keep@example.com", "Keep", "hash")
	if err := first.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	first.Close()

	second, err := New(dbPath)
	if err != nil {
		t.Fatalf("New on existing database failed: %v", err)
	}
	defer second.Close()

	if _, err := second.GetUserByID(context.Background(), user.ID); err != nil {
		t.Errorf("user lost after reopen: %v", err)
	}
}
