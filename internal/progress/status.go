package progress

import (
	"math"

	"bookshelf/pkg/models"
)

// Percentage computes the reading percentage from a page position,
// clamped into [0, total] and rounded to two decimals. The raw page value
// is what gets stored; the clamp applies to the percentage only.
func Percentage(currentPage, totalPages int64) float64 {
	if totalPages <= 0 {
		return 0
	}
	c := currentPage
	if c < 0 {
		c = 0
	}
	if c > totalPages {
		c = totalPages
	}
	return math.Round(float64(c)/float64(totalPages)*10000) / 100
}

// DeriveStatus maps a percentage to a reading-list status. "to_read" is
// never derived from progress; it only exists before any progress does.
func DeriveStatus(percentage float64) string {
	if percentage >= 100 {
		return models.StatusCompleted
	}
	return models.StatusReading
}

// NextStatus applies the forward-only transition policy: a completed
// entry is never demoted by fluctuating progress, everything else moves
// to the derived status.
func NextStatus(current, derived string) string {
	if current == models.StatusCompleted {
		return models.StatusCompleted
	}
	return derived
}
