package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	// Deterministic, strictly increasing clock so ordering is stable.
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return store
}

func dinnerBill() *models.Bill {
	return &models.Bill{
		ID:           "new-local",
		MerchantName: "Luigi's",
		Currency:     "USD",
		People: []models.BillPerson{
			{ID: "temp-alice", Name: "Alice", Color: "#10B981"},
			{ID: "temp-bob", Name: "Bob", Color: "#3B82F6"},
		},
		Items: []models.BillItem{
			{ID: "temp-pizza", Name: "Pizza", Price: 20, Assignments: []models.ItemAssignment{
				{PersonID: "temp-alice", SplitPercentage: 50},
				{PersonID: "temp-bob", SplitPercentage: 50},
			}},
			{ID: "temp-beer", Name: "Beer", Price: 10, Assignments: []models.ItemAssignment{
				{PersonID: "temp-bob", SplitPercentage: 100},
				{PersonID: "temp-ghost", SplitPercentage: 30},
			}},
		},
		Subtotal: models.Float(30),
		Tax:      models.Float(3),
		Total:    models.Float(33),
	}
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("SaveBill issues permanent IDs", func(t *testing.T) {
		bill := dinnerBill()

		id, err := store.SaveBill(ctx, bill)
		if err != nil {
			t.Fatalf("SaveBill failed: %v", err)
		}

		if id == "" || strings.HasPrefix(id, "new-") {
			t.Errorf("Expected a permanent bill ID, got %q", id)
		}
		if bill.ID != id {
			t.Errorf("Expected bill.ID to be updated to %q, got %q", id, bill.ID)
		}
		for _, p := range bill.People {
			if strings.HasPrefix(p.ID, "temp-") {
				t.Errorf("Person %s kept temporary ID %s", p.Name, p.ID)
			}
		}
		for _, item := range bill.Items {
			if strings.HasPrefix(item.ID, "temp-") {
				t.Errorf("Item %s kept temporary ID %s", item.Name, item.ID)
			}
		}
		if bill.CreatedAt.IsZero() || bill.UpdatedAt.IsZero() {
			t.Error("Expected timestamps to be set")
		}
	})

	t.Run("SaveBill remaps assignments and drops dangling ones", func(t *testing.T) {
		bill := dinnerBill()
		if _, err := store.SaveBill(ctx, bill); err != nil {
			t.Fatalf("SaveBill failed: %v", err)
		}

		alice, bob := bill.People[0].ID, bill.People[1].ID
		pizza := bill.Items[0].Assignments
		if len(pizza) != 2 || pizza[0].PersonID != alice || pizza[1].PersonID != bob {
			t.Errorf("Pizza assignments not remapped: %+v", pizza)
		}
		beer := bill.Items[1].Assignments
		if len(beer) != 1 || beer[0].PersonID != bob || beer[0].SplitPercentage != 100 {
			t.Errorf("Expected only Bob on beer, got %+v", beer)
		}
	})

	t.Run("GetBill retrieves complete bill", func(t *testing.T) {
		original := dinnerBill()
		id, err := store.SaveBill(ctx, original)
		if err != nil {
			t.Fatalf("SaveBill failed: %v", err)
		}

		retrieved, err := store.GetBill(ctx, id)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}

		if retrieved.MerchantName != "Luigi's" || retrieved.Currency != "USD" {
			t.Errorf("Header mismatch: got %q %q", retrieved.MerchantName, retrieved.Currency)
		}
		if retrieved.Subtotal == nil || *retrieved.Subtotal != 30 {
			t.Errorf("Subtotal mismatch: got %v", retrieved.Subtotal)
		}
		if retrieved.Tax == nil || *retrieved.Tax != 3 {
			t.Errorf("Tax mismatch: got %v", retrieved.Tax)
		}
		if retrieved.Total == nil || *retrieved.Total != 33 {
			t.Errorf("Total mismatch: got %v", retrieved.Total)
		}
		if !retrieved.CreatedAt.Equal(original.CreatedAt) {
			t.Errorf("CreatedAt mismatch: got %v, want %v", retrieved.CreatedAt, original.CreatedAt)
		}
		if len(retrieved.People) != 2 || retrieved.People[0].Name != "Alice" || retrieved.People[1].Color != "#3B82F6" {
			t.Errorf("People mismatch: %+v", retrieved.People)
		}
		if len(retrieved.Items) != 2 || retrieved.Items[0].Name != "Pizza" || retrieved.Items[1].Price != 10 {
			t.Fatalf("Items mismatch: %+v", retrieved.Items)
		}
		for i, item := range retrieved.Items {
			want := original.Items[i].Assignments
			if len(item.Assignments) != len(want) {
				t.Errorf("Item %d assignments mismatch: got %d, want %d", i, len(item.Assignments), len(want))
				continue
			}
			for j := range want {
				if item.Assignments[j] != want[j] {
					t.Errorf("Item %d assignment %d: got %+v, want %+v", i, j, item.Assignments[j], want[j])
				}
			}
		}
	})

	t.Run("SaveBill keeps null totals", func(t *testing.T) {
		bill := &models.Bill{Currency: "EUR"}
		id, err := store.SaveBill(ctx, bill)
		if err != nil {
			t.Fatalf("SaveBill failed: %v", err)
		}
		retrieved, err := store.GetBill(ctx, id)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		if retrieved.Subtotal != nil || retrieved.Tax != nil || retrieved.Total != nil {
			t.Errorf("Expected nil totals, got %v %v %v", retrieved.Subtotal, retrieved.Tax, retrieved.Total)
		}
		if len(retrieved.Items) != 0 || len(retrieved.People) != 0 {
			t.Errorf("Expected empty bill, got %d items %d people", len(retrieved.Items), len(retrieved.People))
		}
	})

	t.Run("SaveBill updates existing bill in place", func(t *testing.T) {
		bill := dinnerBill()
		id, err := store.SaveBill(ctx, bill)
		if err != nil {
			t.Fatalf("SaveBill failed: %v", err)
		}
		createdAt := bill.CreatedAt
		aliceID := bill.People[0].ID

		bill.MerchantName = "Luigi's Trattoria"
		bill.Tax = nil
		bill.People = bill.People[:1]
		bill.Items = bill.Items[:1]
		bill.Items[0].Assignments = []models.ItemAssignment{{PersonID: aliceID, SplitPercentage: 100}}

		again, err := store.SaveBill(ctx, bill)
		if err != nil {
			t.Fatalf("second SaveBill failed: %v", err)
		}
		if again != id {
			t.Errorf("Expected same ID %q, got %q", id, again)
		}

		retrieved, err := store.GetBill(ctx, id)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		if retrieved.MerchantName != "Luigi's Trattoria" {
			t.Errorf("MerchantName not updated: %q", retrieved.MerchantName)
		}
		if retrieved.Tax != nil {
			t.Errorf("Expected tax cleared, got %v", *retrieved.Tax)
		}
		if !retrieved.CreatedAt.Equal(createdAt) {
			t.Errorf("CreatedAt changed: got %v, want %v", retrieved.CreatedAt, createdAt)
		}
		if !retrieved.UpdatedAt.After(createdAt) {
			t.Errorf("UpdatedAt %v not after CreatedAt %v", retrieved.UpdatedAt, createdAt)
		}
		if len(retrieved.People) != 1 || retrieved.People[0].ID != aliceID {
			t.Errorf("People mismatch: %+v", retrieved.People)
		}
		if len(retrieved.Items) != 1 || len(retrieved.Items[0].Assignments) != 1 {
			t.Errorf("Items mismatch: %+v", retrieved.Items)
		}
	})

	t.Run("SaveBill reissues IDs owned by another bill", func(t *testing.T) {
		first := dinnerBill()
		if _, err := store.SaveBill(ctx, first); err != nil {
			t.Fatalf("SaveBill failed: %v", err)
		}

		second := dinnerBill()
		second.People[0].ID = first.People[0].ID
		second.Items[0].ID = first.Items[0].ID
		second.Items[0].Assignments[0].PersonID = first.People[0].ID
		if _, err := store.SaveBill(ctx, second); err != nil {
			t.Fatalf("SaveBill failed: %v", err)
		}

		if second.People[0].ID == first.People[0].ID {
			t.Error("Expected a fresh person ID")
		}
		if second.Items[0].ID == first.Items[0].ID {
			t.Error("Expected a fresh item ID")
		}
		if second.Items[0].Assignments[0].PersonID != second.People[0].ID {
			t.Errorf("Assignment not remapped: %+v", second.Items[0].Assignments[0])
		}

		reloaded, err := store.GetBill(ctx, first.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		if len(reloaded.People) != 2 || len(reloaded.Items[0].Assignments) != 2 {
			t.Errorf("First bill was modified: %+v", reloaded)
		}
	})

	t.Run("GetBill returns ErrNotFound for nonexistent bill", func(t *testing.T) {
		_, err := store.GetBill(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestListBills(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	bills, err := store.ListBills(ctx)
	if err != nil {
		t.Fatalf("ListBills failed: %v", err)
	}
	if len(bills) != 0 {
		t.Fatalf("Expected no bills, got %d", len(bills))
	}

	var ids []string
	for _, name := range []string{"First", "Second", "Third"} {
		bill := dinnerBill()
		bill.MerchantName = name
		id, err := store.SaveBill(ctx, bill)
		if err != nil {
			t.Fatalf("SaveBill failed: %v", err)
		}
		ids = append(ids, id)
	}

	bills, err = store.ListBills(ctx)
	if err != nil {
		t.Fatalf("ListBills failed: %v", err)
	}
	if len(bills) != 3 {
		t.Fatalf("Expected 3 bills, got %d", len(bills))
	}
	want := []string{"Third", "Second", "First"}
	for i, bill := range bills {
		if bill.MerchantName != want[i] {
			t.Errorf("Position %d: got %q, want %q", i, bill.MerchantName, want[i])
		}
		if len(bill.Items) != 2 || len(bill.People) != 2 {
			t.Errorf("Bill %s not fully loaded", bill.ID)
		}
	}
}

func TestDeleteBill(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	bill := dinnerBill()
	bill.ImageURL = "http://localhost:8080/images/abc.jpg"
	id, err := store.SaveBill(ctx, bill)
	if err != nil {
		t.Fatalf("SaveBill failed: %v", err)
	}

	inUse, err := store.ImageInUse(ctx, "abc.jpg")
	if err != nil || !inUse {
		t.Errorf("Expected image in use, got %v (err %v)", inUse, err)
	}

	if err := store.DeleteBill(ctx, id); err != nil {
		t.Fatalf("DeleteBill failed: %v", err)
	}
	if _, err := store.GetBill(ctx, id); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	var orphans int
	err = store.db.QueryRow(
		"SELECT (SELECT COUNT(*) FROM bill_items) + (SELECT COUNT(*) FROM bill_people) + (SELECT COUNT(*) FROM item_assignments)",
	).Scan(&orphans)
	if err != nil {
		t.Fatalf("count children: %v", err)
	}
	if orphans != 0 {
		t.Errorf("Expected children to be deleted, found %d rows", orphans)
	}

	inUse, err = store.ImageInUse(ctx, "abc.jpg")
	if err != nil || inUse {
		t.Errorf("Expected image unused, got %v (err %v)", inUse, err)
	}

	if err := store.DeleteBill(ctx, id); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestNew_ReopensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	store, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	id, err := store.SaveBill(ctx, dinnerBill())
	if err != nil {
		t.Fatalf("SaveBill failed: %v", err)
	}
	store.Close()

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	if _, err := reopened.GetBill(ctx, id); err != nil {
		t.Errorf("GetBill after reopen failed: %v", err)
	}
}

func TestImageInUse_MatchesByName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	bill := dinnerBill()
	bill.ImageURL = "https://old.example.com/images/4f1c.png"
	if _, err := store.SaveBill(ctx, bill); err != nil {
		t.Fatalf("SaveBill failed: %v", err)
	}

	tests := []struct {
		name string
		want bool
	}{
		{"4f1c.png", true},
		{"1c.png", false},
		{"4f1c.jpg", false},
		{"other.png", false},
	}
	for _, tt := range tests {
		got, err := store.ImageInUse(ctx, tt.name)
		if err != nil {
			t.Fatalf("ImageInUse(%q) failed: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("ImageInUse(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSaveBill_FailureLeavesBillUntouched(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Assignments are written last, so the save fails after every ID is issued.
	if _, err := store.db.Exec("DROP TABLE item_assignments"); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	bill := dinnerBill()
	if _, err := store.SaveBill(ctx, bill); err == nil {
		t.Fatal("Expected SaveBill to fail")
	}

	if !reflect.DeepEqual(bill, dinnerBill()) {
		t.Errorf("Bill changed by failed save: %+v", bill)
	}

	var n int
	if err := store.db.QueryRow("SELECT COUNT(*) FROM bills").Scan(&n); err != nil {
		t.Fatalf("count bills: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected rollback, found %d bills", n)
	}
}
