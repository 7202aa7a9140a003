package calendar

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// gregorianCrossover is the first Julian day number (counted from civil
// midnight) of 1582-10-15, the day the Gregorian rules take effect.
const gregorianCrossover = 2299161

// gregorianCutover is the composite year.monthday value of the same date,
// used by ToJulianDay to decide which calendar a date belongs to.
const gregorianCutover = 1582.1015

// CalendarDate is a proleptic Julian/Gregorian calendar date.
//
// Year has no zero: 1 BCE is -1. Time is the fraction of the civil day
// elapsed since midnight. Weekday runs 0 (Sunday) through 6 (Saturday).
type CalendarDate struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Day     int     `json:"day"`
	Time    float64 `json:"time"`
	Weekday int     `json:"weekday"`

	// NextNewMoon is the Julian day of the conjunction that opened the Hijri
	// month the date was converted from. Only GregorianFromHijri sets it.
	NextNewMoon float64 `json:"next_new_moon,omitempty"`
}

// ToJulianDay returns the Julian day number at the given time of day.
//
// Positive years are CE, negative years BCE. Dates before 1582-10-15 are
// taken from the Julian calendar, dates on or after it from the Gregorian.
func ToJulianDay(year, month, day int, t float64) float64 {
	if year < 0 {
		year++
	}

	// January and February count as months 13 and 14 of the previous year
	// so the leap day falls at the end of the counting year.
	y, m := year, month
	if month <= 2 {
		y = year - 1
		m = month + 12
	}

	days := float64(y) * 365.25
	if y < 1 {
		days -= 0.75
	}
	jd := float64(int64(days)) + float64(int64(30.6001*float64(m+1))) + float64(day) + t + 1720994.5

	if float64(year)+float64(month)*1e-2+(float64(day)+t)*1e-4 >= gregorianCutover {
		century := int64(0.01 * float64(y))
		jd += float64(2 - century + int64(0.25*float64(century)))
	}

	return jd
}

// FromJulianDay converts a Julian day number back into a calendar date.
// It is the inverse of ToJulianDay.
func FromJulianDay(jd float64) CalendarDate {
	jd += 0.5
	z := int64(math.Floor(jd))
	f := jd - float64(z)

	a := z
	if z >= gregorianCrossover {
		alpha := int64((float64(z) - 1867216.25) / 36524.25)
		a = z + 1 + alpha - alpha/4
	}

	b := a + 1524
	c := int64((float64(b) - 122.1) / 365.25)
	d := int64(365.25 * float64(c))
	e := int64(float64(b-d) / 30.6001)
	f += float64(b - d - int64(30.6001*float64(e)))

	var cd CalendarDate
	cd.Day = int(f)
	cd.Time = f - float64(cd.Day)

	if e > 13 {
		cd.Month = int(e - 13)
	} else {
		cd.Month = int(e - 1)
	}

	if cd.Month > 2 {
		cd.Year = int(c - 4716)
	} else {
		cd.Year = int(c - 4715)
	}

	cd.Weekday = weekdayOf(jd - cd.Time)

	if cd.Year <= 0 {
		cd.Year--
	}

	return cd
}

// weekdayOf returns the weekday of the civil day whose midnight falls at
// jd - 0.5 (so jd here is already shifted to a civil-day count).
func weekdayOf(jd float64) int {
	w := int64(math.Floor(jd+1.1)) % 7
	if w < 0 {
		w += 7
	}
	return int(w)
}

// JulianDay returns the Julian day number of the date at its time of day.
func (cd CalendarDate) JulianDay() float64 {
	return ToJulianDay(cd.Year, cd.Month, cd.Day, cd.Time)
}

// String formats the date as "Saturday 1 January 2000".
func (cd CalendarDate) String() string {
	if cd.Year < 0 {
		return fmt.Sprintf("%s %d %s %d BCE", WeekdayEnglishName(cd.Weekday), cd.Day, MonthName(cd.Month), -cd.Year)
	}
	return fmt.Sprintf("%s %d %s %d", WeekdayEnglishName(cd.Weekday), cd.Day, MonthName(cd.Month), cd.Year)
}

// FromTime returns the calendar date of t in t's own location.
func FromTime(t time.Time) CalendarDate {
	y, m, d := t.Date()
	h, mi, s := t.Clock()
	frac := (float64(h) + float64(mi)/60.0 + float64(s)/3600.0) / 24.0
	return FromJulianDay(ToJulianDay(y, int(m), d, frac))
}

// ParseDateString parses a YYYY-MM-DD date. A leading minus sign marks a
// BCE year, e.g. "-0044-03-15". Field ranges are not checked here; the
// proleptic Julian leap rule before 1582 differs from time.Parse's, so
// callers validate with ValidateGregorian.
func ParseDateString(s string) (year, month, day int, err error) {
	neg := strings.HasPrefix(s, "-")
	parts := strings.Split(strings.TrimPrefix(s, "-"), "-")
	if len(parts) != 3 || len(parts[0]) < 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return 0, 0, 0, fmt.Errorf("parse date %q: want YYYY-MM-DD", s)
	}

	fields := make([]int, 3)
	for i, p := range parts {
		if strings.TrimLeft(p, "0123456789") != "" {
			return 0, 0, 0, fmt.Errorf("parse date %q: invalid field %q", s, p)
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("parse date %q: invalid field %q", s, p)
		}
		fields[i] = v
	}

	year, month, day = fields[0], fields[1], fields[2]
	if neg {
		year = -year
	}
	return year, month, day, nil
}

// FormatDate formats a calendar date as YYYY-MM-DD.
func FormatDate(cd CalendarDate) string {
	if cd.Year < 0 {
		return fmt.Sprintf("-%04d-%02d-%02d", -cd.Year, cd.Month, cd.Day)
	}
	return fmt.Sprintf("%04d-%02d-%02d", cd.Year, cd.Month, cd.Day)
}
