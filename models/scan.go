// models/scan.go
package models

// TimeLayout is the timestamp format history entries have always carried.
const TimeLayout = "2006-01-02 15:04:05"

// Nutrient is one scaled nutrient row of a scan.
type Nutrient struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"` // grams for the scanned quantity
}

// Prediction is one classifier guess. Score is a percentage.
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// FoodAnalysis is the normalized classifier output for one image,
// everything still per 100 g.
type FoodAnalysis struct {
	MainFood         string
	Top              []Prediction
	NutritionPer100g map[string]float64
	CaloriesPer100g  float64
	HygieneScore     int
	HygieneReasons   []string
}

// HistoryEntry is one scan record as stored in history.json. Timestamp keeps
// the "2006-01-02 15:04:05" string format the file has always carried, so
// existing files round-trip byte-for-byte.
type HistoryEntry struct {
	Image          string             `json:"image"`
	MainFood       string             `json:"main_food"`
	Result         map[string]float64 `json:"result"` // label → score (%)
	Nutrition      []Nutrient         `json:"nutrition"`
	Quantity       float64            `json:"quantity"` // g
	Calories       float64            `json:"calories"` // kcal
	HygieneScore   int                `json:"hygiene_score"`
	HygieneReasons []string           `json:"hygiene_reasons"`
	Timestamp      string             `json:"timestamp,omitempty"`
	WholeNutrition []Nutrient         `json:"whole_nutrition,omitempty"`

	// TimeAgo is display-only, filled when listing history.
	TimeAgo string `json:"time_ago,omitempty"`
}
