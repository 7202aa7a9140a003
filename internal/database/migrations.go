package database

// migration is one forward-only schema change.
type migration struct {
	version int
	name    string
	sql     string
}

// migrations lists every schema change in version order. Versions are
// contiguous from 1.
var migrations = []migration{
	{version: 1, name: "create month_starts", sql: migrationV1MonthStarts},
}

// migrationV1MonthStarts creates the month_starts table.
//
// Each row is one Hijri month as computed by the conversion engine:
//   - lunation is the index of the conjunction that opens the month and is
//     the natural key, since (hijri_year, hijri_month) maps to it one to one
//   - conjunction_jdn and visible_jdn are fractional Julian days
//   - gregorian_start is the civil date of day 1, YYYY-MM-DD (-YYYY-MM-DD BCE)
const migrationV1MonthStarts = `
CREATE TABLE IF NOT EXISTS month_starts (
    lunation INTEGER PRIMARY KEY,

    hijri_year INTEGER NOT NULL CHECK (hijri_year <> 0),
    hijri_month INTEGER NOT NULL CHECK (hijri_month BETWEEN 1 AND 12),

    conjunction_jdn REAL NOT NULL,
    visible_jdn REAL NOT NULL,

    gregorian_start TEXT NOT NULL,
    length_days INTEGER NOT NULL CHECK (length_days IN (29, 30)),

    computed_at TEXT NOT NULL DEFAULT (datetime('now')),

    UNIQUE (hijri_year, hijri_month)
);

CREATE INDEX IF NOT EXISTS idx_month_starts_year
    ON month_starts(hijri_year);

CREATE INDEX IF NOT EXISTS idx_month_starts_gregorian
    ON month_starts(gregorian_start);
`
