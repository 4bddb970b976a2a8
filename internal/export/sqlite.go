package export

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS exports (
	id          TEXT PRIMARY KEY,
	exported_at DATETIME NOT NULL,
	majors      INTEGER NOT NULL,
	occupations INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS major_summaries (
	export_id       TEXT NOT NULL REFERENCES exports(id),
	major           TEXT NOT NULL,
	average_salary  REAL NOT NULL,
	min_salary      REAL NOT NULL,
	max_salary      REAL NOT NULL,
	total_jobs      INTEGER NOT NULL,
	average_growth  REAL NOT NULL,
	weighted_growth REAL NOT NULL,
	career_count    INTEGER NOT NULL,
	top_occupations TEXT NOT NULL,
	PRIMARY KEY (export_id, major)
);

CREATE TABLE IF NOT EXISTS major_occupations (
	export_id       TEXT NOT NULL REFERENCES exports(id),
	major           TEXT NOT NULL,
	rank            INTEGER NOT NULL,
	occupation      TEXT NOT NULL,
	median_salary   REAL,
	jobs            INTEGER,
	growth_rate     REAL,
	entry_education TEXT,
	PRIMARY KEY (export_id, major, occupation)
);

CREATE INDEX IF NOT EXISTS idx_major_summaries_major ON major_summaries(major);
CREATE INDEX IF NOT EXISTS idx_major_occupations_occupation ON major_occupations(occupation);
`

// SQLiteSink writes snapshots into a local SQLite file. Each export is kept
// under its own id.
type SQLiteSink struct {
	Path string
}

// Name implements Sink.
func (s *SQLiteSink) Name() string { return "sqlite" }

// Write implements Sink.
func (s *SQLiteSink) Write(ctx context.Context, snap *Snapshot) (int64, error) {
	db, err := openSQLite(s.Path)
	if err != nil {
		return 0, err
	}
	defer db.Close() //nolint:errcheck

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return 0, eris.Wrap(err, "sqlite: migrate")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO exports (id, exported_at, majors, occupations) VALUES (?, ?, ?, ?)`,
		snap.ID.String(), snap.ExportedAt, len(snap.Summaries), snap.occupationRows(),
	); err != nil {
		return 0, eris.Wrap(err, "sqlite: insert export")
	}

	sumStmt, err := tx.PrepareContext(ctx, `INSERT INTO major_summaries
		(export_id, major, average_salary, min_salary, max_salary, total_jobs,
		 average_growth, weighted_growth, career_count, top_occupations)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare summary insert")
	}
	defer sumStmt.Close() //nolint:errcheck

	occStmt, err := tx.PrepareContext(ctx, `INSERT INTO major_occupations
		(export_id, major, rank, occupation, median_salary, jobs, growth_rate, entry_education)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare occupation insert")
	}
	defer occStmt.Close() //nolint:errcheck

	var n int64
	for _, sum := range snap.Summaries {
		top, err := json.Marshal(sum.TopOccupations)
		if err != nil {
			return 0, eris.Wrap(err, "sqlite: marshal top occupations")
		}
		if _, err := sumStmt.ExecContext(ctx,
			snap.ID.String(), sum.Major, sum.AverageSalary, sum.MinSalary, sum.MaxSalary,
			sum.TotalJobs, sum.AverageGrowth, sum.WeightedGrowth, sum.CareerCount, string(top),
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert summary %s", sum.Major)
		}
		n++

		for rank, r := range snap.Occupations[sum.Major] {
			if _, err := occStmt.ExecContext(ctx,
				snap.ID.String(), sum.Major, rank+1, r.Name,
				r.MedianSalary, r.Jobs, r.GrowthRate, nullString(r.EntryEducation),
			); err != nil {
				return 0, eris.Wrapf(err, "sqlite: insert occupation %s/%s", sum.Major, r.Name)
			}
			n++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit")
	}
	return n, nil
}

// openSQLite opens path and configures WAL mode.
func openSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return db, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
