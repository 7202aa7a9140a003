package calendar

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHijriFromGregorian_KnownDates(t *testing.T) {
	tests := []struct {
		name             string
		year, month, day int
		wantYear         int
		wantMonth        int
		minDay, maxDay   int
	}{
		{"third day of 1405", 1984, 9, 28, 1405, 1, 1, 3},
		{"millennium", 2000, 1, 1, 1420, 9, 23, 26},
		{"Ramadan 1445 start", 2024, 3, 12, 1445, 9, 1, 2},
		{"Eid al-Fitr 1444", 2023, 4, 22, 1444, 10, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := HijriFromGregorian(tt.year, tt.month, tt.day)
			require.NoError(t, err)
			assert.Equal(t, tt.wantYear, h.Year, "year")
			assert.Equal(t, tt.wantMonth, h.Month, "month")
			assert.GreaterOrEqual(t, h.Day, tt.minDay, "day")
			assert.LessOrEqual(t, h.Day, tt.maxDay, "day")
			assert.Equal(t, 0.5, h.Time)
		})
	}
}

func TestHijriFromGregorian_Epoch(t *testing.T) {
	start := GregorianFromHijri(1405, 1, 1)

	h, err := HijriFromGregorian(start.Year, start.Month, start.Day)
	require.NoError(t, err)

	assert.Equal(t, 1405, h.Year)
	assert.Equal(t, 1, h.Month)
	assert.Equal(t, 1, h.Day)
	assert.Equal(t, epochLunation, h.Lunation)
	assert.Equal(t, VisibleDay(epochLunation), h.MonthStart)

	// The month cannot start before the conjunction that opens it.
	assert.Equal(t, 1984, start.Year)
	assert.Equal(t, 9, start.Month)
	assert.GreaterOrEqual(t, start.Day, 25)
	assert.LessOrEqual(t, start.Day, 27)
}

func TestHijriFromGregorian_Weekday(t *testing.T) {
	h, err := HijriFromGregorian(2000, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 6, h.Weekday) // Saturday, Yaum al-Sabt
}

func TestHijriFromGregorian_BeforeHijra(t *testing.T) {
	h, err := HijriFromGregorian(600, 6, 1)
	require.NoError(t, err)

	assert.Less(t, h.Year, 0)
	assert.Contains(t, h.String(), "B.H.")

	back := GregorianFromHijri(h.Year, h.Month, h.Day)
	assert.Equal(t, []int{600, 6, 1}, []int{back.Year, back.Month, back.Day})
}

func TestHijriYearZeroIsSkipped(t *testing.T) {
	last := HijriMonthInfo(-1, 12)
	first := HijriMonthInfo(1, 1)
	assert.Equal(t, last.Lunation+1, first.Lunation)

	end := last.Start.JulianDay() + float64(last.Length-1)
	cd := FromJulianDay(end)
	h, err := HijriFromGregorian(cd.Year, cd.Month, cd.Day)
	require.NoError(t, err)
	assert.Equal(t, -1, h.Year)
	assert.Equal(t, 12, h.Month)

	cd = FromJulianDay(end + 1)
	h, err = HijriFromGregorian(cd.Year, cd.Month, cd.Day)
	require.NoError(t, err)
	assert.Equal(t, 1, h.Year)
	assert.Equal(t, 1, h.Month)
	assert.Equal(t, 1, h.Day)
}

// Both directions derive the month start from the same visible day, so
// converting there and back must land on the same date. Any mismatch is a
// regression.
func TestGregorianHijri_RoundTrip(t *testing.T) {
	start := ToJulianDay(1900, 1, 1, 0)
	end := ToJulianDay(2100, 12, 31, 0)

	for jd := start; jd <= end; jd++ {
		d := FromJulianDay(jd)

		h, err := HijriFromGregorian(d.Year, d.Month, d.Day)
		require.NoError(t, err)

		back := GregorianFromHijri(h.Year, h.Month, h.Day)
		if back.Year != d.Year || back.Month != d.Month || back.Day != d.Day {
			t.Fatalf("%s -> %d/%d/%d -> %s", FormatDate(d), h.Year, h.Month, h.Day, FormatDate(back))
		}
	}
}

func TestGregorianHijri_RoundTripSampled(t *testing.T) {
	// Every 11th day over two and a half millennia, both calendars.
	start := ToJulianDay(-600, 1, 1, 0)
	end := ToJulianDay(1900, 1, 1, 0)

	for jd := start; jd <= end; jd += 11 {
		d := FromJulianDay(jd)

		h, err := HijriFromGregorian(d.Year, d.Month, d.Day)
		require.NoError(t, err)

		back := GregorianFromHijri(h.Year, h.Month, h.Day)
		if back.Year != d.Year || back.Month != d.Month || back.Day != d.Day {
			t.Fatalf("%s -> %d/%d/%d -> %s", FormatDate(d), h.Year, h.Month, h.Day, FormatDate(back))
		}
	}
}

func TestHijriGregorian_RoundTrip(t *testing.T) {
	for y := 1350; y <= 1500; y++ {
		for m := 1; m <= 12; m++ {
			n := HijriMonthLength(y, m)
			for d := 1; d <= n; d++ {
				g := GregorianFromHijri(y, m, d)
				h, err := HijriFromGregorian(g.Year, g.Month, g.Day)
				require.NoError(t, err)
				if h.Year != y || h.Month != m || h.Day != d {
					t.Fatalf("%d/%d/%d -> %s -> %d/%d/%d", y, m, d, FormatDate(g), h.Year, h.Month, h.Day)
				}
			}
		}
	}
}

func TestGregorianFromHijri_NextNewMoon(t *testing.T) {
	g := GregorianFromHijri(1445, 9, 1)
	mv := VisibleDay(hijriLunation(1445, 9))

	assert.Equal(t, mv.Conjunction, g.NextNewMoon)
	assert.Equal(t, FromJulianDay(mv.Visible+1).Day, g.Day)
}

func TestHijriMonthInfo(t *testing.T) {
	for y := 1400; y <= 1450; y++ {
		for m := 1; m <= 12; m++ {
			info := HijriMonthInfo(y, m)
			assert.Contains(t, []int{29, 30}, info.Length, "%d/%d", y, m)

			next := HijriMonthInfo(y, m+1)
			if m == 12 {
				next = HijriMonthInfo(y+1, 1)
			}
			assert.InDelta(t, info.Start.JulianDay()+float64(info.Length), next.Start.JulianDay(), 1e-9,
				"%d/%d ends where the next month starts", y, m)

			g := GregorianFromHijri(y, m, 1)
			assert.Equal(t, []int{g.Year, g.Month, g.Day}, []int{info.Start.Year, info.Start.Month, info.Start.Day})
		}
	}
}

func TestHijriYearLength(t *testing.T) {
	for y := 1400; y <= 1450; y++ {
		total := 0
		for m := 1; m <= 12; m++ {
			total += HijriMonthLength(y, m)
		}
		assert.Contains(t, []int{353, 354, 355, 356}, total, "year %d", y)
	}
}

func TestHijriFromTime(t *testing.T) {
	// Late evening in Makkah is still the same civil day there.
	makkah := time.FixedZone("AST", 3*60*60)
	at := time.Date(2000, time.January, 1, 23, 0, 0, 0, makkah)

	got, err := HijriFromTime(at)
	require.NoError(t, err)

	want, err := HijriFromGregorian(2000, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestHijriDate_String(t *testing.T) {
	h := HijriDate{Year: 1420, Month: 9, Day: 24, Weekday: 6}
	assert.Equal(t, "Yaum al-Sabt 24 Ramadan 1420", h.String())

	h = HijriDate{Year: -5, Month: 1, Day: 3, Weekday: 0}
	assert.Equal(t, "Yaum al-Ahad 3 Muharram 5 B.H.", h.String())
}

func TestConversions_Concurrent(t *testing.T) {
	type result struct {
		h HijriDate
		g CalendarDate
	}

	dates := make([]CalendarDate, 0, 500)
	base := ToJulianDay(2020, 1, 1, 0)
	for i := 0; i < 500; i++ {
		dates = append(dates, FromJulianDay(base+float64(i*3)))
	}

	want := make([]result, len(dates))
	for i, d := range dates {
		h, err := HijriFromGregorian(d.Year, d.Month, d.Day)
		require.NoError(t, err)
		want[i] = result{h, GregorianFromHijri(h.Year, h.Month, h.Day)}
	}

	got := make([]result, len(dates))
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := w; i < len(dates); i += 8 {
				d := dates[i]
				h, err := HijriFromGregorian(d.Year, d.Month, d.Day)
				if err != nil {
					t.Error(err)
					return
				}
				got[i] = result{h, GregorianFromHijri(h.Year, h.Month, h.Day)}
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, want, got)
}

func TestFloorDivMod(t *testing.T) {
	tests := []struct{ a, b, div, mod int }{
		{13, 12, 1, 1},
		{12, 12, 1, 0},
		{0, 12, 0, 0},
		{-1, 12, -1, 11},
		{-12, 12, -1, 0},
		{-13, 12, -2, 11},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.div, floorDiv(tt.a, tt.b), "%d / %d", tt.a, tt.b)
		assert.Equal(t, tt.mod, floorMod(tt.a, tt.b), "%d mod %d", tt.a, tt.b)
	}
}
