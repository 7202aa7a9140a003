package calendar

import (
	"fmt"
	"math"
	"time"
)

// Year 1405 AH began with the crescent following conjunction number 1048,
// which occurred on 1984-09-25 at about 03:10 UT.
const (
	epochLunation = 1048
	epochYear     = 1405

	// monthsBeforeEpoch is the month count of 1 Muharram 1405 when months
	// are numbered month + year*12.
	monthsBeforeEpoch = epochYear*12 + 1

	// lunationsPerYear is the mean number of lunations in a solar year,
	// used only to seed the search.
	lunationsPerYear = 12.3685

	// maxSearchSteps bounds each direction of the month search. The seed is
	// within one or two lunations of the answer for any date in recorded
	// history, so reaching the bound means the input was not a real date.
	maxSearchSteps = 64
)

// HijriDate is a date in the observation-based Hijri calendar.
//
// Years before the Hijra are negative ("B.H.") and there is no year 0.
type HijriDate struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Day     int     `json:"day"`
	Time    float64 `json:"time"`
	Weekday int     `json:"weekday"`

	// Lunation is the index of the conjunction that opened the month.
	Lunation   int            `json:"lunation"`
	MonthStart MoonVisibility `json:"month_start"`
}

// String formats the date as "Yaum al-Sabt 24 Ramadan 1420", with years
// before the Hijra written as "5 B.H.".
func (h HijriDate) String() string {
	if h.Year > 0 {
		return fmt.Sprintf("%s %d %s %d", WeekdayName(h.Weekday), h.Day, HijriMonthName(h.Month), h.Year)
	}
	return fmt.Sprintf("%s %d %s %d B.H.", WeekdayName(h.Weekday), h.Day, HijriMonthName(h.Month), -h.Year)
}

// HijriFromGregorian returns the Hijri date of a proleptic Julian/Gregorian
// calendar date. Inputs are not validated; see ValidateGregorian.
func HijriFromGregorian(year, month, day int) (HijriDate, error) {
	jd := ToJulianDay(year, month, day, 0)

	// First approximation of the number of new moons since January 1900.
	seed := int(0.6 + (float64(year)+float64(int(float64(month)-0.5))/12.0+float64(day)/365.0-1900)*lunationsPerYear)

	k, mv, err := monthContaining(jd, seed)
	if err != nil {
		return HijriDate{}, fmt.Errorf("hijri date of %04d-%02d-%02d: %w", year, month, day, err)
	}

	hm := k - epochLunation
	h := HijriDate{
		Year:       epochYear + floorDiv(hm, 12),
		Month:      floorMod(hm, 12) + 1,
		Day:        int(math.Floor(jd - mv.Visible + 1)),
		Time:       0.5,
		Weekday:    weekdayOf(jd + 0.5),
		Lunation:   k,
		MonthStart: mv,
	}
	if h.Year <= 0 {
		h.Year--
	}

	return h, nil
}

// monthContaining returns the lunation whose crescent most recently became
// visible on or before jd, starting from the estimate k.
//
// The estimate is first pushed forward until it lies past jd, then walked
// back one lunation at a time. Since visible days strictly increase with
// the lunation index, the backward walk stops at the first index at or
// before jd, which is the month containing it.
func monthContaining(jd float64, k int) (int, MoonVisibility, error) {
	for i := 0; VisibleDay(k).Visible <= jd; i++ {
		if i == maxSearchSteps {
			return 0, MoonVisibility{}, ErrSearchExhausted
		}
		k++
	}

	for i := 0; i < maxSearchSteps; i++ {
		k--
		if mv := VisibleDay(k); mv.Visible <= jd {
			return k, mv, nil
		}
	}

	return 0, MoonVisibility{}, ErrSearchExhausted
}

// GregorianFromHijri returns the calendar date of a Hijri date. The result
// carries the conjunction that opened the Hijri month in NextNewMoon.
// Inputs are not validated; see ValidateHijri.
func GregorianFromHijri(year, month, day int) CalendarDate {
	mv := VisibleDay(hijriLunation(year, month))
	cd := FromJulianDay(mv.Visible + float64(day))
	cd.NextNewMoon = mv.Conjunction
	return cd
}

// hijriLunation returns the lunation index that opens the given Hijri month.
func hijriLunation(year, month int) int {
	if year < 0 {
		year++
	}
	return month + year*12 - monthsBeforeEpoch + epochLunation
}

// HijriMonth describes one month of the Hijri calendar.
type HijriMonth struct {
	Year       int            `json:"year"`
	Month      int            `json:"month"`
	Lunation   int            `json:"lunation"`
	Visibility MoonVisibility `json:"visibility"`
	Start      CalendarDate   `json:"start"`
	Length     int            `json:"length"`
}

// HijriMonthInfo returns the start date and length of a Hijri month.
func HijriMonthInfo(year, month int) HijriMonth {
	k := hijriLunation(year, month)
	mv := VisibleDay(k)
	next := VisibleDay(k + 1)

	start := FromJulianDay(mv.Visible + 1)
	start.Time = 0
	start.NextNewMoon = mv.Conjunction

	return HijriMonth{
		Year:       year,
		Month:      month,
		Lunation:   k,
		Visibility: mv,
		Start:      start,
		Length:     firstDay(next) - firstDay(mv),
	}
}

// HijriMonthLength returns the number of days (29 or 30) in a Hijri month.
func HijriMonthLength(year, month int) int {
	return HijriMonthInfo(year, month).Length
}

// firstDay returns the civil day count of day 1 of the month opened by mv,
// matching the day GregorianFromHijri assigns to it.
func firstDay(mv MoonVisibility) int {
	return int(math.Floor(mv.Visible + 1.5))
}

// HijriFromTime returns the Hijri date of t's civil date in t's location.
func HijriFromTime(t time.Time) (HijriDate, error) {
	y, m, d := t.Date()
	return HijriFromGregorian(y, int(m), d)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
