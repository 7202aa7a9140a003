package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/hijri-api/internal/calendar"
)

var fixedNow = func() time.Time {
	return time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd(fixedNow)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestConvert_Today(t *testing.T) {
	out, err := run(t)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Yaum al-Sabt "), out)
	assert.Contains(t, out, "Ramadan 1420")
}

func TestConvert_GregorianToHijri(t *testing.T) {
	out, err := run(t, "12", "3", "2024")
	require.NoError(t, err)
	assert.Equal(t, "Yaum al-Thulatha 1 Ramadan 1445\n", out)
}

func TestConvert_HijriToGregorian(t *testing.T) {
	out, err := run(t, "-H", "1", "9", "1445")
	require.NoError(t, err)
	assert.Equal(t, "Tuesday 12 March 2024\n", out)
}

func TestConvert_YearAlone(t *testing.T) {
	out, err := run(t, "2024")
	require.NoError(t, err)
	want, err := run(t, "1", "1", "2024")
	require.NoError(t, err)
	assert.Equal(t, want, out)
	assert.Contains(t, out, "1445")

	out, err = run(t, "-H", "1445")
	require.NoError(t, err)
	want, err = run(t, "-H", "1", "1", "1445")
	require.NoError(t, err)
	assert.Equal(t, want, out)
	assert.Contains(t, out, "2023")

	_, err = run(t, "0")
	assert.ErrorIs(t, err, calendar.ErrInvalidYear)
}

func TestConvert_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"month thirteen", []string{"1", "13", "2024"}, calendar.ErrInvalidMonth},
		{"year zero", []string{"1", "1", "0"}, calendar.ErrInvalidYear},
		{"day 31 of April", []string{"31", "4", "2024"}, calendar.ErrInvalidDay},
		{"hijri day 31", []string{"-H", "31", "1", "1445"}, calendar.ErrInvalidDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := run(t, "-H")
	assert.Error(t, err, "-H without a date")

	_, err = run(t, "1", "2")
	assert.Error(t, err, "partial date")

	_, err = run(t, "a", "b", "c")
	assert.Error(t, err, "non-numeric date")
}

func TestConvert_BeforeEra(t *testing.T) {
	out, err := run(t, "--", "15", "3", "-44")
	require.NoError(t, err)
	assert.Contains(t, out, "B.H.")
}

func TestMonthsCommand(t *testing.T) {
	out, err := run(t, "months", "1445")
	require.NoError(t, err)

	assert.Contains(t, out, "Muharram")
	assert.Contains(t, out, "Thu al-Hijjah")
	assert.Contains(t, out, "2024-03-12")

	_, err = run(t, "months", "0")
	assert.ErrorIs(t, err, calendar.ErrInvalidYear)
}

func TestPhasesCommand(t *testing.T) {
	out, err := run(t, "phases", "1237")
	require.NoError(t, err)

	assert.Contains(t, out, "New moon")
	assert.Contains(t, out, "2000-01-06 18:")
	assert.Contains(t, out, "Last quarter")
}

func TestFormatInstant(t *testing.T) {
	assert.Equal(t, "2000-01-01 12:00", formatInstant(2451545.0))
	assert.Equal(t, "2000-01-01 00:00", formatInstant(2451544.5))
}
