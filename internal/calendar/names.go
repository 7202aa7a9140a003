// Package calendar converts between Julian day numbers, the proleptic
// Julian/Gregorian calendar and the observation-based Hijri calendar.
//
// The lunar model is the truncated series from Meeus' "Astronomical Formulae
// for Calculators" and is accurate to a few minutes of UT. The start of a
// Hijri month is taken to be the evening the new crescent can first be seen
// after sunset at a single reference location (UTC+3).
//
// Every function in this package is pure and returns freshly owned values,
// so it is safe to call from any number of goroutines.
package calendar

import "fmt"

var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

var monthNames = [12]string{
	"January", "February", "March", "April",
	"May", "June", "July", "August",
	"September", "October", "November", "December",
}

var hijriMonthNames = [12]string{
	"Muharram", "Safar", "Rabi` al-Awal", "Rabi` al-Thaani",
	"Jumaada al-Awal", "Jumaada al-Thaani", "Rajab", "Sha`ban",
	"Ramadan", "Shawwal", "Thu al-Qi`dah", "Thu al-Hijjah",
}

var hijriMonthShortNames = [12]string{
	"Muharram", "Safar", "R. Awal", "R. Thaani",
	"J. Awal", "J. Thaani", "Rajab", "Sha`ban",
	"Ramadan", "Shawwal", "Qi`dah", "Hijjah",
}

// Weekday tables start on Sunday to line up with CalendarDate.Weekday.
var weekdayNames = [7]string{
	"Yaum al-Ahad", "Yaum al-Ithnain", "Yaum al-Thulatha", "Yaum al-Arbi'a",
	"Yaum al-Khamees", "Yaum al-Jumma", "Yaum al-Sabt",
}

var weekdayShortNames = [7]string{
	"Ahd", "Ith", "Thl", "Arb", "Kha", "Jum", "Sab",
}

var weekdayEnglishNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// DaysInMonth returns the number of days in a month of the proleptic
// calendar. February follows the Julian leap rule before 1582 and the
// Gregorian rule from 1582 on.
func DaysInMonth(month, year int) (int, error) {
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}

	n := monthDays[month-1]
	if month == 2 && year%4 == 0 && (year < 1582 || year%100 != 0 || year%400 == 0) {
		n++
	}
	return n, nil
}

// GregorianMonthNames returns the English month names, January first.
func GregorianMonthNames() [12]string { return monthNames }

// HijriMonthNames returns the transliterated Hijri month names, Muharram first.
func HijriMonthNames() [12]string { return hijriMonthNames }

// HijriMonthShortNames returns the abbreviated Hijri month names.
func HijriMonthShortNames() [12]string { return hijriMonthShortNames }

// WeekdayNames returns the transliterated weekday names, Sunday first.
func WeekdayNames() [7]string { return weekdayNames }

// WeekdayShortNames returns the abbreviated weekday names, Sunday first.
func WeekdayShortNames() [7]string { return weekdayShortNames }

// MonthName returns the English name of month 1-12, or "" when out of range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// HijriMonthName returns the name of Hijri month 1-12, or "" when out of range.
func HijriMonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return hijriMonthNames[month-1]
}

// WeekdayName returns the transliterated name of weekday 0-6.
func WeekdayName(weekday int) string {
	if weekday < 0 || weekday > 6 {
		return ""
	}
	return weekdayNames[weekday]
}

// WeekdayEnglishName returns the English name of weekday 0-6.
func WeekdayEnglishName(weekday int) string {
	if weekday < 0 || weekday > 6 {
		return ""
	}
	return weekdayEnglishNames[weekday]
}
