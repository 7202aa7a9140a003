package calendar

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPhase is returned for a phase selector outside 0-3.
	ErrInvalidPhase = errors.New("invalid phase selector")

	// ErrInvalidMonth is returned for a month outside 1-12.
	ErrInvalidMonth = errors.New("invalid month")

	// ErrInvalidYear is returned for year 0, which neither calendar has.
	ErrInvalidYear = errors.New("invalid year")

	// ErrInvalidDay is returned for a day outside its month.
	ErrInvalidDay = errors.New("invalid day")

	// ErrSearchExhausted is returned when no Hijri month could be found
	// for a Julian day within the search bound.
	ErrSearchExhausted = errors.New("lunation search did not converge")
)

// maxHijriDay is the longest a Hijri month can be.
const maxHijriDay = 30

// ValidateGregorian checks that year, month and day name a real date of the
// proleptic Julian/Gregorian calendar, including the ten days dropped in
// October 1582.
func ValidateGregorian(year, month, day int) error {
	if year == 0 {
		return fmt.Errorf("%w: there is no year 0", ErrInvalidYear)
	}

	// Leap years before 1 CE fall on 1, 5, 9 ... BCE.
	leapYear := year
	if year < 0 {
		leapYear = year + 1
	}

	n, err := DaysInMonth(month, leapYear)
	if err != nil {
		return err
	}

	if day < 1 || day > n {
		return fmt.Errorf("%w: %s %d has %d days, got %d", ErrInvalidDay, MonthName(month), year, n, day)
	}

	if year == 1582 && month == 10 && day > 4 && day < 15 {
		return fmt.Errorf("%w: 1582-10-%02d was dropped by the Gregorian reform", ErrInvalidDay, day)
	}

	return nil
}

// ValidateHijri checks that year, month and day can name a Hijri date.
// Day 30 is accepted for every month.
func ValidateHijri(year, month, day int) error {
	if year == 0 {
		return fmt.Errorf("%w: there is no year 0", ErrInvalidYear)
	}

	if month < 1 || month > 12 {
		return fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}

	if day < 1 || day > maxHijriDay {
		return fmt.Errorf("%w: Hijri day must be between 1 and %d, got %d", ErrInvalidDay, maxHijriDay, day)
	}

	return nil
}
