package timeutil

import (
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatMinutes renders a floating minute count with at most one decimal place,
// dropping the fraction when it is zero ("5", "4.5").
func FormatMinutes(minutes float64) string {
	rounded := strconv.FormatFloat(minutes, 'f', 1, 64)
	rounded = strings.TrimSuffix(rounded, ".0")
	return rounded
}

// HumanizeMinutes renders a whole-minute duration in prose ("4 minutes",
// "1 hour"), matching the register of the comments posted to trackers.
func HumanizeMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	base := time.Unix(0, 0).UTC()
	return strings.TrimSpace(humanize.RelTime(base, base.Add(time.Duration(minutes)*time.Minute), "", ""))
}
