// controllers/history_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nutriscan/storage"
	"nutriscan/utils"
)

type HistoryController struct {
	History *storage.HistoryStore
}

func NewHistoryController(history *storage.HistoryStore) *HistoryController {
	return &HistoryController{History: history}
}

// ListHistory returns all scans, newest first, each annotated with a
// relative "time ago" label.
func (h *HistoryController) ListHistory(c *gin.Context) {
	entries := h.History.Load()
	for i := range entries {
		entries[i].TimeAgo = utils.TimeAgo(entries[i].Timestamp)
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

// ViewRedirect supports the legacy ?id= form by redirecting to the path
// variant.
func (h *HistoryController) ViewRedirect(c *gin.Context) {
	c.Redirect(http.StatusFound, "/history/view/"+c.DefaultQuery("id", "-1"))
}

// ViewEntry returns one stored scan by its position in history, 0 being the
// newest. Ids are positions, so deleting or reordering the file invalidates
// saved links.
func (h *HistoryController) ViewEntry(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid history id"})
		return
	}
	entry, ok := h.History.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid history id"})
		return
	}

	rec := "Food appears hygienic."
	if entry.HygieneScore < 60 {
		rec = "Low hygiene — be cautious."
	}

	c.JSON(http.StatusOK, gin.H{
		"pack":            []any{entry},
		"whole_nutrition": entry.WholeNutrition,
		"recommendations": []string{rec},
		"item_id":         id,
	})
}
