package extraction

import (
	"fmt"
	"strings"
	"time"
)

// resolveDate turns a raw text detection and an optional structured date
// into a "YYYY-MM-DD" string. A structured date with missing components is
// completed with the current year and day/month 1; this can fabricate a
// plausible-looking date from a partial detection, which is intentional.
// Free-text dates pass through trimmed but unvalidated.
func resolveDate(rawText string, date *DateValue, now time.Time) *string {
	if date != nil {
		year := date.Year
		if year == 0 {
			year = now.Year()
		}
		month := date.Month
		if month == 0 {
			month = 1
		}
		day := date.Day
		if day == 0 {
			day = 1
		}
		formatted := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		return &formatted
	}

	trimmed := strings.TrimSpace(rawText)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
