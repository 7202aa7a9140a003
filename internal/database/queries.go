package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// querier is satisfied by both *DB and *Tx, so every query can run inside or
// outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const monthStartColumns = `
	lunation, hijri_year, hijri_month,
	conjunction_jdn, visible_jdn,
	gregorian_start, length_days, computed_at
`

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Returns the zero time if no known format matches.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMonthStart(row scanner) (*MonthStart, error) {
	var m MonthStart
	var computedAt string

	err := row.Scan(
		&m.Lunation,
		&m.HijriYear,
		&m.HijriMonth,
		&m.ConjunctionJDN,
		&m.VisibleJDN,
		&m.GregorianStart,
		&m.LengthDays,
		&computedAt,
	)
	if err != nil {
		return nil, err
	}

	m.ComputedAt = parseTimestamp(computedAt)
	return &m, nil
}

// =============================================================================
// Month Start Queries
// =============================================================================

// UpsertMonthStart inserts or replaces the row for m.Lunation.
// ComputedAt is set to now when zero.
func (db *DB) UpsertMonthStart(ctx context.Context, m *MonthStart) error {
	return upsertMonthStart(ctx, db, m)
}

// UpsertMonthStart inserts or replaces the row for m.Lunation within tx.
func (tx *Tx) UpsertMonthStart(ctx context.Context, m *MonthStart) error {
	return upsertMonthStart(ctx, tx, m)
}

func upsertMonthStart(ctx context.Context, q querier, m *MonthStart) error {
	if m.ComputedAt.IsZero() {
		m.ComputedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO month_starts (` + monthStartColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(lunation) DO UPDATE SET
			hijri_year = excluded.hijri_year,
			hijri_month = excluded.hijri_month,
			conjunction_jdn = excluded.conjunction_jdn,
			visible_jdn = excluded.visible_jdn,
			gregorian_start = excluded.gregorian_start,
			length_days = excluded.length_days,
			computed_at = excluded.computed_at
	`

	_, err := q.ExecContext(ctx, query,
		m.Lunation,
		m.HijriYear,
		m.HijriMonth,
		m.ConjunctionJDN,
		m.VisibleJDN,
		m.GregorianStart,
		m.LengthDays,
		m.ComputedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert month start %d: %w", m.Lunation, err)
	}

	return nil
}

// GetMonthStart retrieves one Hijri month.
// Returns ErrNotFound if the month has not been stored.
func (db *DB) GetMonthStart(ctx context.Context, year, month int) (*MonthStart, error) {
	query := `SELECT ` + monthStartColumns + ` FROM month_starts
		WHERE hijri_year = ? AND hijri_month = ?`

	m, err := scanMonthStart(db.QueryRowContext(ctx, query, year, month))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query month start %d/%d: %w", year, month, err)
	}

	return m, nil
}

// ListMonthStartsByYear returns the stored months of a Hijri year in month
// order. Returns an empty slice when none are stored.
func (db *DB) ListMonthStartsByYear(ctx context.Context, year int) ([]MonthStart, error) {
	query := `SELECT ` + monthStartColumns + ` FROM month_starts
		WHERE hijri_year = ?
		ORDER BY hijri_month`

	rows, err := db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("query month starts for %d: %w", year, err)
	}
	defer rows.Close()

	months := []MonthStart{}
	for rows.Next() {
		m, err := scanMonthStart(rows)
		if err != nil {
			return nil, fmt.Errorf("scan month start: %w", err)
		}
		months = append(months, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate month starts: %w", err)
	}

	return months, nil
}

// CountMonthStarts returns the number of stored months.
func (db *DB) CountMonthStarts(ctx context.Context) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM month_starts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count month starts: %w", err)
	}
	return n, nil
}

// SummarizeYears returns how many months are stored for each Hijri year,
// in year order.
func (db *DB) SummarizeYears(ctx context.Context) ([]YearSummary, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT hijri_year, COUNT(*)
		FROM month_starts
		GROUP BY hijri_year
		ORDER BY hijri_year`)
	if err != nil {
		return nil, fmt.Errorf("summarize years: %w", err)
	}
	defer rows.Close()

	var out []YearSummary
	for rows.Next() {
		var s YearSummary
		if err := rows.Scan(&s.HijriYear, &s.Months); err != nil {
			return nil, fmt.Errorf("scan year summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteMonthStartsBefore removes every month opened by a lunation before
// the given one and returns the number of rows removed.
func (db *DB) DeleteMonthStartsBefore(ctx context.Context, lunation int) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM month_starts WHERE lunation < ?`, lunation)
	if err != nil {
		return 0, fmt.Errorf("delete month starts before %d: %w", lunation, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}

	return n, nil
}
