package session

import (
	"testing"
	"time"
)

func TestAgeString(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		birth string
		want  string
	}{
		{"plain", "2024-03", "2y 3m"},
		{"same month", "2026-06", "0y 0m"},
		{"month borrow", "2024-09", "1y 9m"},
		{"december birth", "2025-12", "0y 6m"},
		{"future", "2027-01", ""},
		{"garbage", "yesterday", ""},
		{"empty", "", ""},
		{"bad month", "2024-13", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AgeString(tt.birth, now); got != tt.want {
				t.Errorf("AgeString(%q) = %q, want %q", tt.birth, got, tt.want)
			}
		})
	}
}
