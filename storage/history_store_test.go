package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"nutriscan/models"
)

func testEntry(food, ts string) models.HistoryEntry {
	return models.HistoryEntry{
		Image:    "/static/uploads/food_1700000000.jpg",
		MainFood: food,
		Result:   map[string]float64{food: 92.5},
		Nutrition: []models.Nutrient{
			{Name: "protein", Value: 12.34},
			{Name: "calcium", Value: 0},
			{Name: "fat", Value: 5.6},
			{Name: "carbohydrates", Value: 40.01},
			{Name: "vitamins", Value: 1.2},
		},
		Quantity:       150,
		Calories:       287.65,
		HygieneScore:   75,
		HygieneReasons: []string{"clean surface"},
		Timestamp:      ts,
	}
}

func TestHistoryStoreRoundTrip(t *testing.T) {
	store := NewHistoryStore(filepath.Join(t.TempDir(), "history.json"))

	saved := testEntry("dal curry", "2025-06-10 08:30:00")
	saved.WholeNutrition = saved.Nutrition
	if err := store.Prepend(saved); err != nil {
		t.Fatalf("Prepend: %v", err)
	}

	got, ok := store.Get(0)
	if !ok {
		t.Fatal("Get(0) not found")
	}
	if !reflect.DeepEqual(got, saved) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, saved)
	}
	if got.Timestamp != "2025-06-10 08:30:00" {
		t.Errorf("timestamp = %q, not preserved verbatim", got.Timestamp)
	}
}

func TestHistoryStorePrependsNewestFirst(t *testing.T) {
	store := NewHistoryStore(filepath.Join(t.TempDir(), "history.json"))

	for _, food := range []string{"rice", "salad", "soup"} {
		if err := store.Prepend(testEntry(food, "2025-06-10 08:30:00")); err != nil {
			t.Fatalf("Prepend(%s): %v", food, err)
		}
	}

	entries := store.Load()
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}
	for i, want := range []string{"soup", "salad", "rice"} {
		if entries[i].MainFood != want {
			t.Errorf("entries[%d] = %q, want %q", i, entries[i].MainFood, want)
		}
	}
}

func TestHistoryStoreGetBounds(t *testing.T) {
	store := NewHistoryStore(filepath.Join(t.TempDir(), "history.json"))
	if err := store.Prepend(testEntry("rice", "2025-06-10 08:30:00")); err != nil {
		t.Fatal(err)
	}

	if _, ok := store.Get(-1); ok {
		t.Error("Get(-1) should not find an entry")
	}
	if _, ok := store.Get(1); ok {
		t.Error("Get(1) should not find an entry")
	}
}

func TestHistoryStoreUnreadableFilesReadEmpty(t *testing.T) {
	dir := t.TempDir()

	missing := NewHistoryStore(filepath.Join(dir, "nope.json"))
	if entries := missing.Load(); len(entries) != 0 {
		t.Errorf("missing file: len = %d, want 0", len(entries))
	}

	corrupt := filepath.Join(dir, "history.json")
	if err := os.WriteFile(corrupt, []byte("[{oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if entries := NewHistoryStore(corrupt).Load(); len(entries) != 0 {
		t.Errorf("corrupt file: len = %d, want 0", len(entries))
	}
}
