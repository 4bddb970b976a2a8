package export

import (
	"context"
	"embed"
	"io/fs"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/career-explorer/internal/db"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Postgres tables written by PostgresSink.
const (
	summariesTable   = "career_explorer.major_summaries"
	occupationsTable = "career_explorer.major_occupations"
	historyTable     = "career_explorer.summary_history"
)

var (
	summaryColumns = []string{
		"major", "export_id", "average_salary", "min_salary", "max_salary", "total_jobs",
		"average_growth", "weighted_growth", "career_count", "top_occupations",
	}
	occupationColumns = []string{
		"major", "occupation", "export_id", "rank", "median_salary", "jobs",
		"growth_rate", "entry_education",
	}
	historyColumns = []string{
		"export_id", "major", "average_salary", "total_jobs", "average_growth",
		"career_count", "exported_at",
	}
)

// PostgresSink upserts the latest summary and occupations per major, drops
// rows left over from earlier exports and appends every export to a history
// table.
type PostgresSink struct {
	Pool db.Pool
}

// Name implements Sink.
func (s *PostgresSink) Name() string { return "postgres" }

// Write implements Sink.
func (s *PostgresSink) Write(ctx context.Context, snap *Snapshot) (int64, error) {
	if err := Migrate(ctx, s.Pool); err != nil {
		return 0, err
	}

	if _, err := s.Pool.Exec(ctx,
		"INSERT INTO career_explorer.exports (id, exported_at, majors, occupations) VALUES ($1, $2, $3, $4)",
		snap.ID, snap.ExportedAt, len(snap.Summaries), snap.occupationRows(),
	); err != nil {
		return 0, eris.Wrap(err, "postgres: insert export")
	}

	sumRows := make([][]any, 0, len(snap.Summaries))
	histRows := make([][]any, 0, len(snap.Summaries))
	var occRows [][]any
	for _, sum := range snap.Summaries {
		top := sum.TopOccupations
		if top == nil {
			top = []string{}
		}
		sumRows = append(sumRows, []any{
			sum.Major, snap.ID, sum.AverageSalary, sum.MinSalary, sum.MaxSalary, sum.TotalJobs,
			sum.AverageGrowth, sum.WeightedGrowth, sum.CareerCount, top,
		})
		histRows = append(histRows, []any{
			snap.ID, sum.Major, sum.AverageSalary, sum.TotalJobs, sum.AverageGrowth,
			sum.CareerCount, snap.ExportedAt,
		})
		for rank, r := range snap.Occupations[sum.Major] {
			var edu *string
			if r.EntryEducation != "" {
				edu = &r.EntryEducation
			}
			occRows = append(occRows, []any{
				sum.Major, r.Name, snap.ID, rank + 1, r.MedianSalary, r.Jobs, r.GrowthRate, edu,
			})
		}
	}

	nSum, err := db.BulkUpsert(ctx, s.Pool, db.UpsertConfig{
		Table:        summariesTable,
		Columns:      summaryColumns,
		ConflictKeys: []string{"major"},
	}, sumRows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: upsert summaries")
	}

	nOcc, err := db.BulkUpsert(ctx, s.Pool, db.UpsertConfig{
		Table:        occupationsTable,
		Columns:      occupationColumns,
		ConflictKeys: []string{"major", "occupation"},
	}, occRows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: upsert occupations")
	}

	// Majors and occupations missing from this export are no longer current.
	for _, table := range []string{occupationsTable, summariesTable} {
		if _, err := s.Pool.Exec(ctx, "DELETE FROM "+table+" WHERE export_id <> $1", snap.ID); err != nil {
			return 0, eris.Wrapf(err, "postgres: prune %s", table)
		}
	}

	if _, err := db.AppendRows(ctx, s.Pool, historyTable, historyColumns, histRows); err != nil {
		return 0, eris.Wrap(err, "postgres: append history")
	}

	return nSum + nOcc, nil
}

// Migrate applies pending SQL migrations in filename order inside one
// transaction holding a transaction-scoped advisory lock, so the lock is
// released on commit or rollback. Applied files are recorded in
// career_explorer.schema_migrations.
func Migrate(ctx context.Context, pool db.Pool) error {
	log := zap.L().With(zap.String("component", "export.migrate"))

	tx, err := pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin migration tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(4242001)"); err != nil {
		return eris.Wrap(err, "postgres: acquire migration lock")
	}

	if _, err := tx.Exec(ctx, `
		CREATE SCHEMA IF NOT EXISTS career_explorer;
		CREATE TABLE IF NOT EXISTS career_explorer.schema_migrations (
			filename   TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`); err != nil {
		return eris.Wrap(err, "postgres: ensure migration table")
	}

	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return eris.Wrap(err, "postgres: read migration dir")
	}
	slices.SortFunc(entries, func(a, b fs.DirEntry) int { return strings.Compare(a.Name(), b.Name()) })

	applied, err := appliedMigrations(ctx, tx)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		name := entry.Name()
		if applied[name] {
			continue
		}
		data, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return eris.Wrapf(err, "postgres: read migration %s", name)
		}

		log.Info("applying migration", zap.String("file", name))
		if _, err := tx.Exec(ctx, string(data)); err != nil {
			return eris.Wrapf(err, "postgres: apply migration %s", name)
		}
		if _, err := tx.Exec(ctx,
			"INSERT INTO career_explorer.schema_migrations (filename, applied_at) VALUES ($1, now())",
			name,
		); err != nil {
			return eris.Wrapf(err, "postgres: record migration %s", name)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "postgres: commit migrations")
	}
	return nil
}

func appliedMigrations(ctx context.Context, tx pgx.Tx) (map[string]bool, error) {
	rows, err := tx.Query(ctx, "SELECT filename FROM career_explorer.schema_migrations")
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query applied migrations")
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, eris.Wrap(err, "postgres: scan migration row")
		}
		applied[name] = true
	}
	return applied, rows.Err()
}
