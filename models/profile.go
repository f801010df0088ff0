// models/profile.go
package models

// Profile is the single stored user profile. Field names mirror the
// user_profile.json document on disk.
type Profile struct {
	Weight        float64 `json:"weight"`  // kg
	Height        float64 `json:"height"`  // cm
	Age           float64 `json:"age"`
	Gender        string  `json:"gender"`         // "male"; anything else gets the female BMR offset
	ActivityLevel string  `json:"activity_level"` // sedentary|light|moderate|active|very_active
	Goal          string  `json:"goal"`           // lose|maintain|gain
	CreatedAt     string  `json:"created_at"`
}

// DailyNeeds is the intake target derived from a Profile, all values per day.
type DailyNeeds struct {
	DailyCalories int `json:"daily_calories"` // kcal
	Protein       int `json:"protein"`        // g
	Fat           int `json:"fat"`            // g
	Carbs         int `json:"carbs"`          // g
	SugarLimit    int `json:"sugar_limit"`    // g
	FiberTarget   int `json:"fiber_target"`   // g
}
