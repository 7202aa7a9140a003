package database

import (
	"time"
)

// MonthStart is a stored Hijri month: the conjunction that opens it, the
// day its crescent is first seen and the civil date of its first day.
type MonthStart struct {
	Lunation       int       `json:"lunation"`
	HijriYear      int       `json:"hijri_year"`
	HijriMonth     int       `json:"hijri_month"`
	ConjunctionJDN float64   `json:"conjunction_jdn"`
	VisibleJDN     float64   `json:"visible_jdn"`
	GregorianStart string    `json:"gregorian_start"` // YYYY-MM-DD
	LengthDays     int       `json:"length_days"`
	ComputedAt     time.Time `json:"computed_at"`
}

// YearSummary reports how many months of a Hijri year are stored.
type YearSummary struct {
	HijriYear int `json:"hijri_year"`
	Months    int `json:"months"`
}

// IsComplete reports whether all twelve months of the year are stored.
func (s YearSummary) IsComplete() bool {
	return s.Months == 12
}
