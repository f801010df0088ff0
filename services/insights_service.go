// services/insights_service.go
package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"nutriscan/models"
	"nutriscan/storage"
	"nutriscan/utils"
)

const onboardingMessage = "Start tracking your food to get personalized recommendations!"

var titleCaser = cases.Title(language.English)

// FoodCount is one row of a most-scanned-foods ranking.
type FoodCount struct {
	Food  string `json:"food"`
	Count int    `json:"count"`
}

// SummaryCards are the headline numbers of the insights page.
type SummaryCards struct {
	Scans         int         `json:"scans"`
	TotalCalories float64     `json:"total_calories"`
	AvgHygiene    float64     `json:"avg_hygiene"`
	TopFoods      []FoodCount `json:"top_foods"`
}

// InsightsPayload is the full /insights response.
type InsightsPayload struct {
	SummaryCards SummaryCards      `json:"summary_cards"`
	PieURL       string            `json:"pie_url"`
	TrendsURL    *string           `json:"trends_url"` // TODO: weekly calorie trend line chart
	Gallery      []string          `json:"gallery"`
	AIText       string            `json:"ai_text"`
	DailyNeeds   models.DailyNeeds `json:"daily_needs"`
	Profile      models.Profile    `json:"profile"`
}

// DashboardStats is the full dashboard response.
type DashboardStats struct {
	TotalAnalyses   int                   `json:"total_analyses"`
	WeeklyScans     int                   `json:"weekly_scans"`
	AvgCalories     int                   `json:"avg_calories"`
	AvgHygiene      int                   `json:"avg_hygiene"`
	RecentScans     []models.HistoryEntry `json:"recent_scans"`
	TopFoods        []FoodCount           `json:"top_foods"`
	DailyNeeds      models.DailyNeeds     `json:"daily_needs"`
	CalorieProgress float64               `json:"calorie_progress"`
	ProteinProgress float64               `json:"protein_progress"`
	Profile         models.Profile        `json:"profile"`
}

// InsightsService aggregates scan history against the profile's daily needs.
// Everything is recomputed from the stores on each call.
type InsightsService struct {
	history  *storage.HistoryStore
	profiles *storage.ProfileStore
	charts   *ChartService
}

func NewInsightsService(history *storage.HistoryStore, profiles *storage.ProfileStore, charts *ChartService) *InsightsService {
	return &InsightsService{history: history, profiles: profiles, charts: charts}
}

// WeeklyEntries returns the history entries from the last 7 days, newest
// first. Entries whose timestamps do not parse are skipped.
func (s *InsightsService) WeeklyEntries(now time.Time) []models.HistoryEntry {
	weekAgo := now.AddDate(0, 0, -7)
	weekly := []models.HistoryEntry{}
	for _, entry := range s.history.Load() {
		ts, err := time.ParseInLocation(models.TimeLayout, entry.Timestamp, now.Location())
		if err != nil {
			continue
		}
		if !ts.Before(weekAgo) {
			weekly = append(weekly, entry)
		}
	}
	return weekly
}

// Recommendations compares the weekly daily averages against needs and
// returns up to five advice strings. An empty week returns the single
// onboarding message.
func (s *InsightsService) Recommendations(weekly []models.HistoryEntry, needs models.DailyNeeds) []string {
	if len(weekly) == 0 {
		return []string{onboardingMessage}
	}

	days := len(weekly)
	if days > 7 {
		days = 7
	}

	var calories, protein, fat, carbs float64
	for _, entry := range weekly[:days] {
		calories += entry.Calories
		protein += nutrientValue(entry.Nutrition, "protein")
		fat += nutrientValue(entry.Nutrition, "fat")
		carbs += nutrientValue(entry.Nutrition, "carbohydrates")
	}
	avg := func(total float64) float64 { return total / float64(days) }

	var recs []string

	switch ratio := avg(calories) / float64(needs.DailyCalories); {
	case ratio > 1.2:
		recs = append(recs, "You're consuming 20% more calories than needed. Consider smaller portions.")
	case ratio < 0.8:
		recs = append(recs, "You're under-eating. Try to increase your calorie intake with healthy foods.")
	default:
		recs = append(recs, "Your calorie intake is well balanced. Keep it up!")
	}

	if ratio := avg(protein) / float64(needs.Protein); ratio < 0.8 {
		recs = append(recs, fmt.Sprintf("Increase protein intake. Aim for %dg daily. Try adding lean meats, eggs, or legumes.", needs.Protein))
	} else if ratio > 1.3 {
		recs = append(recs, "Your protein intake is quite high. Make sure to balance with other nutrients.")
	}

	if ratio := avg(fat) / float64(needs.Fat); ratio > 1.2 {
		recs = append(recs, "Consider reducing fat intake. Choose baked over fried foods.")
	} else if ratio < 0.7 {
		recs = append(recs, "Your fat intake is low. Include healthy fats like nuts, avocado, or olive oil.")
	}

	if ratio := avg(carbs) / float64(needs.Carbs); ratio > 1.3 {
		recs = append(recs, "High carb intake detected. Balance with more protein and vegetables.")
	}

	if len(weekly) < 3 {
		recs = append(recs, "Track more meals to get better insights into your eating patterns.")
	}

	if len(recs) > 5 {
		recs = recs[:5]
	}
	return recs
}

// Summary builds the /insights payload for the 7-day window ending at now.
func (s *InsightsService) Summary(now time.Time) InsightsPayload {
	profile := s.profiles.Load()
	needs := utils.CalculateDailyNeeds(profile)
	weekly := s.WeeklyEntries(now)
	recs := s.Recommendations(weekly, needs)

	var totalCalories, totalHygiene float64
	gallery := []string{}
	for _, entry := range weekly {
		totalCalories += entry.Calories
		totalHygiene += float64(entry.HygieneScore)
		if entry.Image != "" && len(gallery) < 10 {
			gallery = append(gallery, entry.Image)
		}
	}
	div := len(weekly)
	if div == 0 {
		div = 1
	}

	return InsightsPayload{
		SummaryCards: SummaryCards{
			Scans:         len(weekly),
			TotalCalories: totalCalories,
			AvgHygiene:    utils.Round1(totalHygiene / float64(div)),
			TopFoods:      topFoods(weekly, 3, false),
		},
		PieURL:     s.charts.WeeklyPie(weekly),
		Gallery:    gallery,
		AIText:     strings.Join(recs, "\n"),
		DailyNeeds: needs,
		Profile:    profile,
	}
}

// Dashboard builds the landing-page stats over the whole history plus the
// weekly progress bars.
func (s *InsightsService) Dashboard(now time.Time) DashboardStats {
	history := s.history.Load()
	profile := s.profiles.Load()
	needs := utils.CalculateDailyNeeds(profile)
	weekly := s.WeeklyEntries(now)

	var totalCalories, totalHygiene float64
	for _, entry := range history {
		totalCalories += entry.Calories
		totalHygiene += float64(entry.HygieneScore)
	}
	div := len(history)
	if div == 0 {
		div = 1
	}

	recent := history
	if len(recent) > 3 {
		recent = recent[:3]
	}

	var weeklyCalories, weeklyProtein float64
	for _, entry := range weekly {
		weeklyCalories += entry.Calories
		weeklyProtein += nutrientValue(entry.Nutrition, "protein")
	}
	var calorieProgress, proteinProgress float64
	if len(weekly) > 0 {
		calorieProgress = math.Min(100, weeklyCalories/(float64(needs.DailyCalories)*7)*100)
		proteinProgress = math.Min(100, weeklyProtein/(float64(needs.Protein)*7)*100)
	}

	return DashboardStats{
		TotalAnalyses:   len(history),
		WeeklyScans:     len(weekly),
		AvgCalories:     int(math.Round(totalCalories / float64(div))),
		AvgHygiene:      int(math.Round(totalHygiene / float64(div))),
		RecentScans:     recent,
		TopFoods:        topFoods(history, 5, true),
		DailyNeeds:      needs,
		CalorieProgress: calorieProgress,
		ProteinProgress: proteinProgress,
		Profile:         profile,
	}
}

func nutrientValue(rows []models.Nutrient, name string) float64 {
	for _, n := range rows {
		if n.Name == name {
			return n.Value
		}
	}
	return 0
}

// topFoods ranks foods by scan count, ties broken by first appearance.
// titled renders names like "Chicken Curry" for display.
func topFoods(entries []models.HistoryEntry, limit int, titled bool) []FoodCount {
	counts := map[string]int{}
	var order []string
	for _, entry := range entries {
		food := entry.MainFood
		if food == "" {
			food = "unknown"
		}
		if titled {
			food = titleCaser.String(strings.ToLower(food))
		}
		if _, seen := counts[food]; !seen {
			order = append(order, food)
		}
		counts[food]++
	}

	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > limit {
		order = order[:limit]
	}

	out := make([]FoodCount, 0, len(order))
	for _, food := range order {
		out = append(out, FoodCount{Food: food, Count: counts[food]})
	}
	return out
}
