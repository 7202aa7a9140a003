package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"
)

// testDB creates a temporary in-memory database for testing.
func testDB(t *testing.T) *DB {
	t.Helper()

	cfg := Config{
		Path:            ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}

	// Quiet logger for tests
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	db, err := Open(cfg, logger)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	ctx := context.Background()
	if _, err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// seedYear stores the twelve months of a Hijri year with synthetic values.
func seedYear(t *testing.T, db *DB, year, firstLunation int) {
	t.Helper()
	ctx := context.Background()

	for m := 1; m <= 12; m++ {
		ms := &MonthStart{
			Lunation:       firstLunation + m - 1,
			HijriYear:      year,
			HijriMonth:     m,
			ConjunctionJDN: 2460000.25 + float64(m-1)*29.53,
			VisibleJDN:     2460001.25 + float64(m-1)*29.53,
			GregorianStart: fmt.Sprintf("2023-%02d-01", m),
			LengthDays:     29 + m%2,
		}
		if err := db.UpsertMonthStart(ctx, ms); err != nil {
			t.Fatalf("seed month %d/%d: %v", year, m, err)
		}
	}
}

// -----------------------------------------------------------------
// DB tests
// -----------------------------------------------------------------

func TestOpen(t *testing.T) {
	db := testDB(t)

	if err := db.Health(context.Background()); err != nil {
		t.Errorf("Health() error = %v", err)
	}
}

func TestMigrate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	// Migrations ran in testDB; running again should be a no-op
	count, err := db.Migrate(ctx)
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Migrate() count = %d, want 0 (already applied)", count)
	}
}

func TestSchemaVersion(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	got, err := db.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion() error = %v", err)
	}
	if want := migrations[len(migrations)-1].version; got != want {
		t.Errorf("SchemaVersion() = %d, want %d", got, want)
	}

	var name string
	if err := db.QueryRowContext(ctx, "SELECT name FROM schema_migrations WHERE version = 1").Scan(&name); err != nil {
		t.Fatalf("read migration name: %v", err)
	}
	if name != "create month_starts" {
		t.Errorf("migration 1 name = %q, want %q", name, "create month_starts")
	}
}

func TestUnmigrated(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	db, err := Open(DefaultConfig(":memory:"), logger)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()

	version, err := db.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion() error = %v", err)
	}
	if version != 0 {
		t.Errorf("SchemaVersion() = %d, want 0 before migrating", version)
	}

	if err := db.Health(ctx); err == nil {
		t.Error("Health() = nil before migrating, want error for missing month_starts")
	}
}

func TestMigrations_ContiguousVersions(t *testing.T) {
	for i, m := range migrations {
		if m.version != i+1 {
			t.Errorf("migrations[%d].version = %d, want %d", i, m.version, i+1)
		}
		if m.name == "" || m.sql == "" {
			t.Errorf("migration %d is missing a name or body", m.version)
		}
	}
}

// -----------------------------------------------------------------
// MonthStart tests
// -----------------------------------------------------------------

func TestUpsertMonthStart(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	ms := &MonthStart{
		Lunation:       1536,
		HijriYear:      1445,
		HijriMonth:     9,
		ConjunctionJDN: 2460379.875,
		VisibleJDN:     2460380.875,
		GregorianStart: "2024-03-12",
		LengthDays:     29,
	}
	if err := db.UpsertMonthStart(ctx, ms); err != nil {
		t.Fatalf("UpsertMonthStart() error = %v", err)
	}
	if ms.ComputedAt.IsZero() {
		t.Error("UpsertMonthStart() did not set ComputedAt")
	}

	got, err := db.GetMonthStart(ctx, 1445, 9)
	if err != nil {
		t.Fatalf("GetMonthStart() error = %v", err)
	}
	if got.Lunation != 1536 {
		t.Errorf("GetMonthStart() lunation = %d, want 1536", got.Lunation)
	}
	if got.GregorianStart != "2024-03-12" {
		t.Errorf("GetMonthStart() gregorian_start = %q, want %q", got.GregorianStart, "2024-03-12")
	}
	if got.VisibleJDN != 2460380.875 {
		t.Errorf("GetMonthStart() visible_jdn = %v, want 2460380.875", got.VisibleJDN)
	}
	if got.ComputedAt.IsZero() {
		t.Error("GetMonthStart() computed_at was not parsed")
	}

	// Same lunation again replaces the row
	ms.LengthDays = 30
	ms.GregorianStart = "2024-03-11"
	if err := db.UpsertMonthStart(ctx, ms); err != nil {
		t.Fatalf("second UpsertMonthStart() error = %v", err)
	}

	got, err = db.GetMonthStart(ctx, 1445, 9)
	if err != nil {
		t.Fatalf("GetMonthStart() after update error = %v", err)
	}
	if got.LengthDays != 30 || got.GregorianStart != "2024-03-11" {
		t.Errorf("GetMonthStart() after update = %+v", got)
	}

	n, err := db.CountMonthStarts(ctx)
	if err != nil {
		t.Fatalf("CountMonthStarts() error = %v", err)
	}
	if n != 1 {
		t.Errorf("CountMonthStarts() = %d, want 1", n)
	}
}

func TestUpsertMonthStart_RejectsInvalidLength(t *testing.T) {
	db := testDB(t)

	err := db.UpsertMonthStart(context.Background(), &MonthStart{
		Lunation:       1,
		HijriYear:      1319,
		HijriMonth:     1,
		GregorianStart: "1901-04-21",
		LengthDays:     31,
	})
	if err == nil {
		t.Error("UpsertMonthStart() with length 31 succeeded, want constraint error")
	}
}

func TestGetMonthStart_NotFound(t *testing.T) {
	db := testDB(t)

	_, err := db.GetMonthStart(context.Background(), 1500, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetMonthStart() error = %v, want ErrNotFound", err)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound() = false, want true")
	}
}

func TestListMonthStartsByYear(t *testing.T) {
	db := testDB(t)
	seedYear(t, db, 1445, 1528)
	seedYear(t, db, 1446, 1540)
	ctx := context.Background()

	months, err := db.ListMonthStartsByYear(ctx, 1445)
	if err != nil {
		t.Fatalf("ListMonthStartsByYear() error = %v", err)
	}
	if len(months) != 12 {
		t.Fatalf("ListMonthStartsByYear() returned %d months, want 12", len(months))
	}
	for i, m := range months {
		if m.HijriMonth != i+1 {
			t.Errorf("months[%d].HijriMonth = %d, want %d", i, m.HijriMonth, i+1)
		}
		if m.HijriYear != 1445 {
			t.Errorf("months[%d].HijriYear = %d, want 1445", i, m.HijriYear)
		}
	}

	empty, err := db.ListMonthStartsByYear(ctx, 1300)
	if err != nil {
		t.Fatalf("ListMonthStartsByYear() empty year error = %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("ListMonthStartsByYear() empty year = %v, want empty slice", empty)
	}
}

func TestSummarizeYears(t *testing.T) {
	db := testDB(t)
	seedYear(t, db, 1445, 1528)
	ctx := context.Background()

	if err := db.UpsertMonthStart(ctx, &MonthStart{
		Lunation: 1540, HijriYear: 1446, HijriMonth: 1,
		GregorianStart: "2024-07-08", LengthDays: 30,
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := db.SummarizeYears(ctx)
	if err != nil {
		t.Fatalf("SummarizeYears() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("SummarizeYears() returned %d rows, want 2", len(got))
	}
	if got[0].HijriYear != 1445 || !got[0].IsComplete() {
		t.Errorf("SummarizeYears()[0] = %+v, want complete 1445", got[0])
	}
	if got[1].HijriYear != 1446 || got[1].Months != 1 || got[1].IsComplete() {
		t.Errorf("SummarizeYears()[1] = %+v, want 1446 with 1 month", got[1])
	}
}

func TestDeleteMonthStartsBefore(t *testing.T) {
	db := testDB(t)
	seedYear(t, db, 1445, 1528)
	seedYear(t, db, 1446, 1540)
	ctx := context.Background()

	n, err := db.DeleteMonthStartsBefore(ctx, 1540)
	if err != nil {
		t.Fatalf("DeleteMonthStartsBefore() error = %v", err)
	}
	if n != 12 {
		t.Errorf("DeleteMonthStartsBefore() removed %d rows, want 12", n)
	}

	count, err := db.CountMonthStarts(ctx)
	if err != nil {
		t.Fatalf("CountMonthStarts() error = %v", err)
	}
	if count != 12 {
		t.Errorf("CountMonthStarts() = %d, want 12", count)
	}
}

// -----------------------------------------------------------------
// Transaction tests
// -----------------------------------------------------------------

func TestWithTx_Commit(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *Tx) error {
		return tx.UpsertMonthStart(ctx, &MonthStart{
			Lunation: 1048, HijriYear: 1405, HijriMonth: 1,
			GregorianStart: "1984-09-27", LengthDays: 30,
		})
	})
	if err != nil {
		t.Fatalf("WithTx() error = %v", err)
	}

	if _, err := db.GetMonthStart(ctx, 1405, 1); err != nil {
		t.Errorf("GetMonthStart() after commit error = %v", err)
	}
}

func TestWithTx_Rollback(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.WithTx(ctx, func(tx *Tx) error {
		if err := tx.UpsertMonthStart(ctx, &MonthStart{
			Lunation: 1048, HijriYear: 1405, HijriMonth: 1,
			GregorianStart: "1984-09-27", LengthDays: 30,
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx() error = %v, want %v", err, boom)
	}

	if _, err := db.GetMonthStart(ctx, 1405, 1); !IsNotFound(err) {
		t.Errorf("GetMonthStart() after rollback error = %v, want ErrNotFound", err)
	}
}
