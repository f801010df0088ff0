// utils/timeago.go
package utils

import (
	"fmt"
	"time"

	"nutriscan/models"
)

// TimeAgo renders a history timestamp relative to now, e.g. "5 mins ago".
// Empty or unparseable timestamps render as "".
func TimeAgo(ts string) string {
	return timeAgoFrom(ts, time.Now())
}

func timeAgoFrom(ts string, now time.Time) string {
	if ts == "" {
		return ""
	}
	dt, err := time.ParseInLocation(models.TimeLayout, ts, now.Location())
	if err != nil {
		return ""
	}

	seconds := now.Sub(dt).Seconds()
	switch {
	case seconds < 60:
		return "Just now"
	case seconds < 3600:
		return fmt.Sprintf("%d mins ago", int(seconds/60))
	case seconds < 86400:
		return fmt.Sprintf("%d hours ago", int(seconds/3600))
	default:
		return fmt.Sprintf("%d days ago", int(seconds/86400))
	}
}
