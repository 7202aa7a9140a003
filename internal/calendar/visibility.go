package calendar

import "math"

// Reference location parameters (Makkah). For the new crescent to be seen
// after sunset on the day of conjunction, the conjunction must happen no
// later than sunset - minAge local time, i.e. 06:00 local.
const (
	timeZone     = 3.0  // hours east of UT
	minMoonAge   = 13.5 // hours
	localSunset  = 19.5 // approximate, hours
	visibleUntil = localSunset - minMoonAge
)

// MoonVisibility pairs a conjunction with the Julian day on which the new
// crescent is first visible. Visible is either Conjunction or one day later.
type MoonVisibility struct {
	Conjunction float64 `json:"conjunction_jd"`
	Visible     float64 `json:"visible_jd"`
}

// VisibleDay returns the conjunction of lunation n and the Julian day on
// which its crescent is first seen at the reference location.
func VisibleDay(n int) MoonVisibility {
	jd := conjunction(n)
	mv := MoonVisibility{Conjunction: jd, Visible: jd + 1}

	// Julian days start at noon, so a fraction <= 0.5 means the
	// conjunction came in the afternoon: too late for the same evening.
	frac := jd - math.Floor(jd)
	if frac <= 0.5 {
		return mv
	}

	local := (frac-0.5)*24 + timeZone
	if local > visibleUntil {
		return mv
	}

	mv.Visible = jd
	return mv
}
