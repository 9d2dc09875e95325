package handlers

import (
	"fmt"
	"strconv"
	"time"
)

// FormatCount compacts engagement counts the way the embed cards show
// them: 1234 -> "1.2K", 5600000 -> "5.6M".
func FormatCount(num int64) string {
	switch {
	case num >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(num)/1_000_000_000)
	case num >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(num)/1_000_000)
	case num >= 1_000:
		return fmt.Sprintf("%.1fK", float64(num)/1_000)
	default:
		return strconv.FormatInt(num, 10)
	}
}

// FormatStatusDate renders an epoch timestamp as "3:04 PM · Jan 2, 2006",
// matching the card layout. Epochs are interpreted in UTC.
func FormatStatusDate(epoch int64) string {
	ts := time.Unix(epoch, 0).UTC()
	hour := ts.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s · %s %d, %d",
		hour, ts.Minute(), ts.Format("PM"), ts.Format("Jan"), ts.Day(), ts.Year())
}
