// Package almanac keeps a table of computed Hijri month starts in the
// database, filling it on demand and refreshing it on a schedule.
package almanac

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zapponejosh/hijri-api/internal/calendar"
	"github.com/zapponejosh/hijri-api/internal/database"
)

// Service reads month starts from storage and computes missing years.
type Service struct {
	db     *database.DB
	span   int
	logger *slog.Logger
}

// NewService creates a service that keeps span Hijri years on either side of
// the current one when refreshed.
func NewService(db *database.DB, span int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: db, span: span, logger: logger}
}

// RefreshResult summarizes one Refresh run.
type RefreshResult struct {
	FromYear int   `json:"from_year"`
	ToYear   int   `json:"to_year"`
	Computed int   `json:"computed_years"`
	Cached   int   `json:"cached_years"`
	Pruned   int64 `json:"pruned_months"`
}

// Year returns the twelve months of a Hijri year in month order. Stored rows
// are returned as is; a year not fully stored is computed and written in a
// single transaction.
func (s *Service) Year(ctx context.Context, year int) ([]database.MonthStart, error) {
	months, _, err := s.year(ctx, year)
	return months, err
}

func (s *Service) year(ctx context.Context, year int) ([]database.MonthStart, bool, error) {
	if year == 0 {
		return nil, false, fmt.Errorf("almanac year: %w: there is no year 0", calendar.ErrInvalidYear)
	}

	stored, err := s.db.ListMonthStartsByYear(ctx, year)
	if err != nil {
		return nil, false, fmt.Errorf("load year %d: %w", year, err)
	}
	if len(stored) == 12 {
		return stored, false, nil
	}

	months := ComputeYear(year)
	err = s.db.WithTx(ctx, func(tx *database.Tx) error {
		for i := range months {
			if err := tx.UpsertMonthStart(ctx, &months[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("store year %d: %w", year, err)
	}

	s.logger.Debug("computed hijri year",
		slog.Int("hijri_year", year),
		slog.String("first_day", months[0].GregorianStart),
	)

	return months, true, nil
}

// Refresh makes sure every Hijri year within the configured span of the
// year containing now is stored, and drops months opened before the span.
func (s *Service) Refresh(ctx context.Context, now time.Time) (RefreshResult, error) {
	today, err := calendar.HijriFromTime(now)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("current hijri year: %w", err)
	}

	years := yearsAround(today.Year, s.span)
	res := RefreshResult{FromYear: years[0], ToYear: years[len(years)-1]}

	for _, y := range years {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		_, computed, err := s.year(ctx, y)
		if err != nil {
			return res, err
		}
		if computed {
			res.Computed++
		} else {
			res.Cached++
		}
	}

	first := calendar.HijriMonthInfo(res.FromYear, 1).Lunation
	res.Pruned, err = s.db.DeleteMonthStartsBefore(ctx, first)
	if err != nil {
		return res, fmt.Errorf("prune: %w", err)
	}

	s.logger.Info("almanac refreshed",
		slog.Int("from_year", res.FromYear),
		slog.Int("to_year", res.ToYear),
		slog.Int("computed", res.Computed),
		slog.Int64("pruned", res.Pruned),
	)

	return res, nil
}

// ComputeYear returns the twelve month starts of a Hijri year without
// touching storage.
func ComputeYear(year int) []database.MonthStart {
	months := make([]database.MonthStart, 0, 12)
	for m := 1; m <= 12; m++ {
		info := calendar.HijriMonthInfo(year, m)
		months = append(months, database.MonthStart{
			Lunation:       info.Lunation,
			HijriYear:      year,
			HijriMonth:     m,
			ConjunctionJDN: info.Visibility.Conjunction,
			VisibleJDN:     info.Visibility.Visible,
			GregorianStart: calendar.FormatDate(info.Start),
			LengthDays:     info.Length,
		})
	}
	return months
}

// yearsAround lists the Hijri years from center-span to center+span in
// order, stepping over the missing year 0.
func yearsAround(center, span int) []int {
	years := make([]int, 0, 2*span+1)

	y := center
	for i := 0; i < span; i++ {
		y = prevYear(y)
	}
	for i := 0; i <= 2*span; i++ {
		years = append(years, y)
		y = nextYear(y)
	}
	return years
}

func prevYear(y int) int {
	if y == 1 {
		return -1
	}
	return y - 1
}

func nextYear(y int) int {
	if y == -1 {
		return 1
	}
	return y + 1
}
