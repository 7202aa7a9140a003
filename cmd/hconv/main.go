// Command hconv converts dates between the Gregorian and Hijri calendars.
//
//	hconv                    today's Hijri date
//	hconv 15 3 2024          Hijri date of 15 March 2024
//	hconv -H 1 9 1445        Gregorian date of 1 Ramadan 1445
//	hconv months 1445        month starts of 1445 AH
//	hconv phases 1237        phases of lunation 1237
//
// Years before the era are negative; pass them after "--", e.g.
// "hconv -- 15 3 -44".
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/zapponejosh/hijri-api/internal/calendar"
)

func main() {
	if err := newRootCmd(time.Now).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(now func() time.Time) *cobra.Command {
	var fromHijri bool

	root := &cobra.Command{
		Use:   "hconv [[day month] year]",
		Short: "Convert between Gregorian and Hijri dates",
		Long: `hconv converts a Gregorian date to the Hijri calendar, or with -H a Hijri
date to the Gregorian calendar. With no date it prints today's Hijri date; a
lone year stands for its first day.`,
		Args:          cobra.MatchAll(cobra.RangeArgs(0, 3), notTwoArgs),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := convert(args, fromHijri, now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	root.Flags().BoolVarP(&fromHijri, "hijri", "H", false, "convert a Hijri date to Gregorian")

	root.AddCommand(newMonthsCmd(), newPhasesCmd())
	return root
}

func notTwoArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 2 {
		return fmt.Errorf("expected day month year or a year alone, got %d arguments", len(args))
	}
	return nil
}

// convert formats the conversion of a day month year triple, of the first
// day of a year given alone, or of today when args is empty.
func convert(args []string, fromHijri bool, now time.Time) (string, error) {
	if len(args) == 0 {
		if fromHijri {
			return "", fmt.Errorf("a Hijri date must be given with -H")
		}
		h, err := calendar.HijriFromTime(now)
		if err != nil {
			return "", err
		}
		return h.String(), nil
	}

	dmy, err := parseInts(args)
	if err != nil {
		return "", err
	}
	if len(dmy) == 1 {
		dmy = []int{1, 1, dmy[0]}
	}
	day, month, year := dmy[0], dmy[1], dmy[2]

	if fromHijri {
		if err := calendar.ValidateHijri(year, month, day); err != nil {
			return "", err
		}
		return calendar.GregorianFromHijri(year, month, day).String(), nil
	}

	if err := calendar.ValidateGregorian(year, month, day); err != nil {
		return "", err
	}
	h, err := calendar.HijriFromGregorian(year, month, day)
	if err != nil {
		return "", err
	}
	return h.String(), nil
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", a)
		}
		out[i] = v
	}
	return out, nil
}

func newMonthsCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "months <hijri-year>",
		Short:        "List the month starts of a Hijri year",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%q is not a year", args[0])
			}
			if year == 0 {
				return calendar.ErrInvalidYear
			}
			renderMonths(cmd.OutOrStdout(), year)
			return nil
		},
	}
}

func renderMonths(w io.Writer, year int) {
	table := newTable(w)
	table.SetHeader([]string{"#", "Month", "First Day", "Weekday", "Days", "Conjunction (UT)"})

	total := 0
	for m := 1; m <= 12; m++ {
		info := calendar.HijriMonthInfo(year, m)
		total += info.Length

		table.Append([]string{
			strconv.Itoa(m),
			calendar.HijriMonthName(m),
			calendar.FormatDate(info.Start),
			calendar.WeekdayEnglishName(info.Start.Weekday),
			strconv.Itoa(info.Length),
			formatInstant(info.Visibility.Conjunction),
		})
	}
	table.SetFooter([]string{"", "", "", "Total", strconv.Itoa(total), ""})
	table.Render()
}

func newPhasesCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "phases <lunation>",
		Short:        "Show the four principal phases of a lunation (0 = January 1900)",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%q is not a lunation number", args[0])
			}
			renderPhases(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func renderPhases(w io.Writer, n int) {
	lp := calendar.Lunation(n)
	mv := calendar.VisibleDay(n)

	table := newTable(w)
	table.SetHeader([]string{"Phase", "Julian Day", "UT"})

	for _, row := range []struct {
		name string
		jd   float64
	}{
		{"New moon", lp.NewMoon},
		{"First quarter", lp.FirstQuarter},
		{"Full moon", lp.FullMoon},
		{"Last quarter", lp.LastQuarter},
		{"Crescent visible", mv.Visible},
	} {
		table.Append([]string{row.name, strconv.FormatFloat(row.jd, 'f', 4, 64), formatInstant(row.jd)})
	}
	table.Render()
}

func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetBorder(false)
	table.SetCenterSeparator("|")
	table.SetColumnSeparator("|")
	table.SetRowSeparator("-")
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	return table
}

// formatInstant renders a Julian day as "YYYY-MM-DD HH:MM".
func formatInstant(jd float64) string {
	cd := calendar.FromJulianDay(jd)
	minutes := int(cd.Time*24*60 + 0.5)
	if minutes >= 24*60 {
		minutes = 24*60 - 1
	}
	return fmt.Sprintf("%s %02d:%02d", calendar.FormatDate(cd), minutes/60, minutes%60)
}
