// controllers/profile_controller.go
package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nutriscan/logger"
	"nutriscan/storage"
	"nutriscan/utils"
)

type ProfileController struct {
	Profiles *storage.ProfileStore
}

func NewProfileController(profiles *storage.ProfileStore) *ProfileController {
	return &ProfileController{Profiles: profiles}
}

// GetProfile returns the profile with its derived daily needs and BMI.
func (h *ProfileController) GetProfile(c *gin.Context) {
	p := h.Profiles.Load()
	payload := gin.H{
		"profile":     p,
		"daily_needs": utils.CalculateDailyNeeds(p),
	}
	if bmi, err := utils.CalculateBMI(p.Height, p.Weight); err == nil {
		payload["bmi"] = utils.Round1(bmi)
		payload["bmi_category"] = utils.BMICategory(bmi)
	}
	c.JSON(http.StatusOK, payload)
}

// UpdateProfile overwrites the stored profile from form or JSON fields and
// redirects to /insights. Missing fields keep the original defaults,
// unparseable numbers become 0 rather than an error.
func (h *ProfileController) UpdateProfile(c *gin.Context) {
	fields, ok := h.requestFields(c)
	if !ok {
		return
	}
	str := func(key, fallback string) string {
		if v, exists := fields[key]; exists {
			if s, isStr := v.(string); isStr && s != "" {
				return s
			}
		}
		return fallback
	}
	num := func(key string, fallback float64) float64 {
		if v, exists := fields[key]; exists {
			return utils.SafeFloat(v)
		}
		return fallback
	}

	p := h.Profiles.Load()
	p.Weight = num("weight", 70)
	p.Height = num("height", 170)
	p.Age = num("age", 30)
	p.Gender = str("gender", "male")
	p.ActivityLevel = str("activity_level", "moderate")
	p.Goal = str("goal", "maintain")

	if err := h.Profiles.Save(p); err != nil {
		logger.Error("could not save profile", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save profile"})
		return
	}
	c.Redirect(http.StatusFound, "/insights")
}

func (h *ProfileController) requestFields(c *gin.Context) (map[string]any, bool) {
	if strings.Contains(c.ContentType(), "json") {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return nil, false
		}
		return body, true
	}

	fields := map[string]any{}
	for _, key := range []string{"weight", "height", "age", "gender", "activity_level", "goal"} {
		if v, exists := c.GetPostForm(key); exists {
			fields[key] = v
		}
	}
	return fields, true
}
