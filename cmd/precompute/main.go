// Command precompute fills the month_starts table for a range of Hijri years.
//
// Usage:
//
//	go run ./cmd/precompute -db data/hijri.db -from 1400 -to 1500
//
// This tool:
// 1. Creates/opens the SQLite database
// 2. Runs migrations to ensure schema is current
// 3. Computes every year in the range not already fully stored
// 4. Reports how many months the table now holds
//
// Running it twice is safe: complete years are left untouched.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zapponejosh/hijri-api/internal/almanac"
	"github.com/zapponejosh/hijri-api/internal/database"
	"github.com/zapponejosh/hijri-api/internal/logger"
)

func main() {
	dbPath := flag.String("db", "data/hijri.db", "Path to SQLite database")
	from := flag.Int("from", 1400, "First Hijri year to compute")
	to := flag.Int("to", 1500, "Last Hijri year to compute")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	logLevel := "info"
	if *verbose {
		logLevel = "debug"
	}
	log := logger.New(os.Stdout, logLevel, "text")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *dbPath, *from, *to, log); err != nil {
		log.Error("precompute failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("precompute complete")
}

func run(ctx context.Context, dbPath string, from, to int, log *slog.Logger) error {
	years, err := yearRange(from, to)
	if err != nil {
		return err
	}
	startTime := time.Now()

	log.Info("opening database", slog.String("path", dbPath))

	db, err := database.Open(database.DefaultConfig(dbPath), log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info("migrations complete", slog.Int("applied", migrated))

	svc := almanac.NewService(db, 0, log)
	for i, y := range years {
		if _, err := svc.Year(ctx, y); err != nil {
			return fmt.Errorf("year %d: %w", y, err)
		}

		if (i+1)%50 == 0 {
			log.Info("precompute progress",
				slog.Int("hijri_year", y),
				slog.Int("done", i+1),
				slog.Int("total", len(years)),
			)
		}
	}

	count, err := db.CountMonthStarts(ctx)
	if err != nil {
		return fmt.Errorf("count month starts: %w", err)
	}

	elapsed := time.Since(startTime)
	log.Info("precompute verified",
		slog.Int("years", len(years)),
		slog.Int("stored_months", count),
		slog.Duration("elapsed", elapsed),
	)

	fmt.Println()
	fmt.Println("=== Precompute Summary ===")
	fmt.Printf("Hijri years:    %d..%d (%d)\n", years[0], years[len(years)-1], len(years))
	fmt.Printf("Stored months:  %d\n", count)
	fmt.Printf("Time elapsed:   %v\n", elapsed.Round(time.Millisecond))

	return nil
}

// yearRange lists the Hijri years from..to inclusive, skipping year 0.
func yearRange(from, to int) ([]int, error) {
	if from == 0 || to == 0 {
		return nil, errors.New("there is no Hijri year 0")
	}
	if to < from {
		return nil, fmt.Errorf("-to %d is before -from %d", to, from)
	}

	var years []int
	for y := from; y <= to; y++ {
		if y != 0 {
			years = append(years, y)
		}
	}
	return years, nil
}
