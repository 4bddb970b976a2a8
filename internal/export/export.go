// Package export writes per-major summaries and their occupations to
// external stores: a SQLite file, an Excel workbook and Postgres.
package export

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/career-explorer/internal/model"
)

// Snapshot is one export run: every summary plus the records behind it.
type Snapshot struct {
	ID          uuid.UUID
	ExportedAt  time.Time
	Summaries   []model.MajorSummary
	Occupations map[string][]model.OccupationRecord
}

// Source supplies the data for a snapshot.
type Source interface {
	Summaries() []model.MajorSummary
	Occupations(major string) []model.OccupationRecord
}

// NewSnapshot captures src under a fresh export id.
func NewSnapshot(src Source) *Snapshot {
	sums := src.Summaries()
	occs := make(map[string][]model.OccupationRecord, len(sums))
	for _, s := range sums {
		occs[s.Major] = src.Occupations(s.Major)
	}
	return &Snapshot{
		ID:          uuid.New(),
		ExportedAt:  time.Now().UTC(),
		Summaries:   sums,
		Occupations: occs,
	}
}

// occupationRows counts the (major, occupation) pairs in the snapshot.
func (s *Snapshot) occupationRows() int {
	n := 0
	for _, recs := range s.Occupations {
		n += len(recs)
	}
	return n
}

// Sink is a destination for snapshots.
type Sink interface {
	Name() string
	Write(ctx context.Context, snap *Snapshot) (int64, error)
}

// Result reports what one sink wrote.
type Result struct {
	Sink string
	Rows int64
}

// Run writes snap to every sink concurrently. The first failure cancels the
// remaining sinks.
func Run(ctx context.Context, snap *Snapshot, sinks ...Sink) ([]Result, error) {
	if len(sinks) == 0 {
		return nil, eris.New("export: no sinks configured")
	}

	results := make([]Result, len(sinks))
	g, gctx := errgroup.WithContext(ctx)
	for i, sink := range sinks {
		g.Go(func() error {
			start := time.Now()
			n, err := sink.Write(gctx, snap)
			if err != nil {
				return eris.Wrapf(err, "export: %s", sink.Name())
			}
			results[i] = Result{Sink: sink.Name(), Rows: n}
			zap.L().Info("export: sink written",
				zap.String("sink", sink.Name()),
				zap.String("export_id", snap.ID.String()),
				zap.Int64("rows", n),
				zap.Duration("elapsed", time.Since(start)),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
