package calendar

import (
	"fmt"
	"math"
)

// rpd is radians per degree (pi/180).
const rpd = 0.01745329251994329577

// Phase selects one of the four principal lunar phases.
type Phase int

const (
	NewMoon Phase = iota
	FirstQuarter
	FullMoon
	LastQuarter
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case NewMoon:
		return "new"
	case FirstQuarter:
		return "first_quarter"
	case FullMoon:
		return "full"
	case LastQuarter:
		return "last_quarter"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// IsValid reports whether p is one of the four principal phases.
func (p Phase) IsValid() bool {
	return p >= NewMoon && p <= LastQuarter
}

// PhaseTime returns the Julian day (approximate UT) of the nth occurrence of
// the given phase counted from the new moon of January 1900 (n = 0).
//
// Adapted from "Astronomical Formulae for Calculators" by Jean Meeus,
// third edition, Willmann-Bell, 1985.
func PhaseTime(n int, phase Phase) (float64, error) {
	if !phase.IsValid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPhase, int(phase))
	}

	k := float64(n) + float64(phase)/4.0
	t := k / 1236.85
	t2 := t * t
	t3 := t2 * t

	jd := 2415020.75933 + 29.53058868*k - 1.178e-4*t2 -
		1.55e-7*t3 +
		3.3e-4*math.Sin(rpd*(166.56+132.87*t-0.009173*t2))

	// Sun's mean anomaly
	sa := rpd * (359.2242 + 29.10535608*k - 3.33e-5*t2 - 3.47e-6*t3)

	// Moon's mean anomaly
	ma := rpd * (306.0253 + 385.81691806*k + 0.0107306*t2 + 1.236e-5*t3)

	// Moon's argument of latitude
	tf := rpd * 2.0 * (21.2964 + 390.67050646*k - 0.0016528*t2 - 2.39e-6*t3)

	var xtra float64
	switch phase {
	case NewMoon, FullMoon:
		xtra = (0.1734-0.000393*t)*math.Sin(sa) +
			0.0021*math.Sin(sa*2) -
			0.4068*math.Sin(ma) + 0.0161*math.Sin(2*ma) - 0.0004*math.Sin(3*ma) +
			0.0104*math.Sin(tf) -
			0.0051*math.Sin(sa+ma) - 0.0074*math.Sin(sa-ma) +
			0.0004*math.Sin(tf+sa) - 0.0004*math.Sin(tf-sa) -
			0.0006*math.Sin(tf+ma) + 0.0010*math.Sin(tf-ma) +
			0.0005*math.Sin(sa+2*ma)
	default:
		xtra = (0.1721-0.0004*t)*math.Sin(sa) +
			0.0021*math.Sin(sa*2) -
			0.6280*math.Sin(ma) + 0.0089*math.Sin(2*ma) - 0.0004*math.Sin(3*ma) +
			0.0079*math.Sin(tf) -
			0.0119*math.Sin(sa+ma) - 0.0047*math.Sin(sa-ma) +
			0.0003*math.Sin(tf+sa) - 0.0004*math.Sin(tf-sa) -
			0.0006*math.Sin(tf+ma) + 0.0021*math.Sin(tf-ma) +
			0.0003*math.Sin(sa+2*ma) + 0.0004*math.Sin(sa-2*ma) -
			0.0003*math.Sin(2*sa+ma)
		if phase == FirstQuarter {
			xtra += 0.0028 - 0.0004*math.Cos(sa) + 0.0003*math.Cos(ma)
		} else {
			xtra += -0.0028 + 0.0004*math.Cos(sa) - 0.0003*math.Cos(ma)
		}
	}

	// Ephemeris Time to (approximate) Universal Time.
	jd += xtra - (0.41+1.2053*t+0.4992*t2)/1440

	return jd, nil
}

// LunationPhases holds the four principal phase instants of one lunation.
type LunationPhases struct {
	Lunation     int     `json:"lunation"`
	NewMoon      float64 `json:"new_moon"`
	FirstQuarter float64 `json:"first_quarter"`
	FullMoon     float64 `json:"full_moon"`
	LastQuarter  float64 `json:"last_quarter"`
}

// Lunation returns the four phase instants of lunation n.
func Lunation(n int) LunationPhases {
	lp := LunationPhases{Lunation: n}
	for _, p := range []struct {
		phase Phase
		dst   *float64
	}{
		{NewMoon, &lp.NewMoon},
		{FirstQuarter, &lp.FirstQuarter},
		{FullMoon, &lp.FullMoon},
		{LastQuarter, &lp.LastQuarter},
	} {
		// Phases in the table are always valid.
		*p.dst, _ = PhaseTime(n, p.phase)
	}
	return lp
}

// conjunction returns the new moon of lunation n.
func conjunction(n int) float64 {
	jd, _ := PhaseTime(n, NewMoon)
	return jd
}
