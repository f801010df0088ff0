package services

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"nutriscan/models"
	"nutriscan/storage"
)

var testNeeds = models.DailyNeeds{DailyCalories: 2000, Protein: 150, Fat: 56, Carbs: 225}

func testInsights(t *testing.T) (*InsightsService, *storage.HistoryStore) {
	t.Helper()
	dir := t.TempDir()
	history := storage.NewHistoryStore(filepath.Join(dir, "history.json"))
	profiles := storage.NewProfileStore(filepath.Join(dir, "user_profile.json"))
	charts := NewChartService(dir)
	return NewInsightsService(history, profiles, charts), history
}

func weeklyEntry(calories, protein, fat, carbs float64, ts string) models.HistoryEntry {
	return models.HistoryEntry{
		MainFood: "dal curry",
		Calories: calories,
		Nutrition: []models.Nutrient{
			{Name: "protein", Value: protein},
			{Name: "calcium", Value: 0},
			{Name: "fat", Value: fat},
			{Name: "carbohydrates", Value: carbs},
			{Name: "vitamins", Value: 0},
		},
		HygieneScore: 80,
		Timestamp:    ts,
	}
}

func TestRecommendationsEmptyWeek(t *testing.T) {
	svc, _ := testInsights(t)

	recs := svc.Recommendations(nil, testNeeds)
	if len(recs) != 1 {
		t.Fatalf("len = %d, want exactly 1", len(recs))
	}
	if recs[0] != "Start tracking your food to get personalized recommendations!" {
		t.Errorf("message = %q", recs[0])
	}
}

func TestRecommendationsBalancedIntake(t *testing.T) {
	svc, _ := testInsights(t)

	weekly := []models.HistoryEntry{weeklyEntry(2000, 150, 56, 225, "2025-06-15 12:00:00")}
	recs := svc.Recommendations(weekly, testNeeds)

	if len(recs) != 2 {
		t.Fatalf("recs = %v, want balanced + tracking nudge", recs)
	}
	if recs[0] != "Your calorie intake is well balanced. Keep it up!" {
		t.Errorf("recs[0] = %q", recs[0])
	}
	if !strings.Contains(recs[1], "Track more meals") {
		t.Errorf("recs[1] = %q", recs[1])
	}
}

func TestRecommendationsLowProteinNamesTarget(t *testing.T) {
	svc, _ := testInsights(t)

	weekly := []models.HistoryEntry{weeklyEntry(2000, 50, 56, 225, "2025-06-15 12:00:00")}
	recs := svc.Recommendations(weekly, testNeeds)

	found := false
	for _, r := range recs {
		if strings.Contains(r, "Aim for 150g daily") {
			found = true
		}
	}
	if !found {
		t.Errorf("no protein target message in %v", recs)
	}
}

func TestRecommendationsCappedAtFive(t *testing.T) {
	svc, _ := testInsights(t)

	// Overeats everything with a single tracked meal, tripping every rule.
	weekly := []models.HistoryEntry{weeklyEntry(3000, 250, 100, 350, "2025-06-15 12:00:00")}
	recs := svc.Recommendations(weekly, testNeeds)

	if len(recs) != 5 {
		t.Fatalf("recs = %v, want 5", recs)
	}
	if !strings.Contains(recs[0], "smaller portions") {
		t.Errorf("recs[0] = %q", recs[0])
	}
}

func TestWeeklyEntriesFiltersWindow(t *testing.T) {
	svc, history := testInsights(t)
	now := time.Now()

	recent := weeklyEntry(500, 10, 5, 20, now.Add(-time.Hour).Format(models.TimeLayout))
	stale := weeklyEntry(500, 10, 5, 20, now.AddDate(0, 0, -10).Format(models.TimeLayout))
	broken := weeklyEntry(500, 10, 5, 20, "yesterday-ish")

	for _, e := range []models.HistoryEntry{stale, broken, recent} {
		if err := history.Prepend(e); err != nil {
			t.Fatal(err)
		}
	}

	weekly := svc.WeeklyEntries(now)
	if len(weekly) != 1 {
		t.Fatalf("len = %d, want 1 (stale and unparsable dropped)", len(weekly))
	}
	if weekly[0].Timestamp != recent.Timestamp {
		t.Errorf("kept %q, want %q", weekly[0].Timestamp, recent.Timestamp)
	}
}

func TestSummaryEmptyHistory(t *testing.T) {
	svc, _ := testInsights(t)

	out := svc.Summary(time.Now())
	if out.SummaryCards.Scans != 0 || out.SummaryCards.TotalCalories != 0 {
		t.Errorf("cards = %+v, want zeros", out.SummaryCards)
	}
	if out.AIText != "Start tracking your food to get personalized recommendations!" {
		t.Errorf("ai_text = %q", out.AIText)
	}
	if !strings.HasPrefix(out.PieURL, "data:image/png;base64,") {
		t.Errorf("pie_url should be the inline placeholder, got %.40q", out.PieURL)
	}
	if len(out.Gallery) != 0 {
		t.Errorf("gallery = %v", out.Gallery)
	}
}

func TestDashboardAggregates(t *testing.T) {
	svc, history := testInsights(t)
	now := time.Now()

	e1 := weeklyEntry(600, 30, 10, 50, now.Add(-2*time.Hour).Format(models.TimeLayout))
	e2 := weeklyEntry(400, 20, 8, 40, now.Add(-26*time.Hour).Format(models.TimeLayout))
	e2.MainFood = "rice"
	e3 := weeklyEntry(500, 25, 9, 45, now.Add(-3*time.Hour).Format(models.TimeLayout))
	for _, e := range []models.HistoryEntry{e1, e2, e3} {
		if err := history.Prepend(e); err != nil {
			t.Fatal(err)
		}
	}

	out := svc.Dashboard(now)
	if out.TotalAnalyses != 3 || out.WeeklyScans != 3 {
		t.Errorf("counts = %d/%d, want 3/3", out.TotalAnalyses, out.WeeklyScans)
	}
	if out.AvgCalories != 500 {
		t.Errorf("avg calories = %d, want 500", out.AvgCalories)
	}
	if out.AvgHygiene != 80 {
		t.Errorf("avg hygiene = %d, want 80", out.AvgHygiene)
	}
	if len(out.RecentScans) != 3 {
		t.Errorf("recent = %d entries", len(out.RecentScans))
	}
	if len(out.TopFoods) != 2 || out.TopFoods[0].Food != "Dal Curry" {
		t.Errorf("top foods = %+v, want title-cased Dal Curry first", out.TopFoods)
	}
	if out.CalorieProgress <= 0 || out.CalorieProgress > 100 {
		t.Errorf("calorie progress = %v", out.CalorieProgress)
	}
}
