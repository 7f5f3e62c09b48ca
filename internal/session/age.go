package session

import (
	"fmt"
	"time"
)

// AgeString converts a "YYYY-MM" birth month into a compact reader-age
// string like "2y 3m" for prompt audience wording. Unparseable or future
// values yield the empty string, which downstream prompt rendering treats
// as "age unknown".
func AgeString(birthMonth string, now time.Time) string {
	var year, month int
	if _, err := fmt.Sscanf(birthMonth, "%d-%d", &year, &month); err != nil {
		return ""
	}
	if month < 1 || month > 12 {
		return ""
	}

	years := now.Year() - year
	months := int(now.Month()) - month
	if months < 0 {
		years--
		months += 12
	}
	if years < 0 {
		return ""
	}
	return fmt.Sprintf("%dy %dm", years, months)
}
