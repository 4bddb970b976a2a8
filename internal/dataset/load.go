package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/career-explorer/internal/apperr"
	"github.com/sells-group/career-explorer/internal/model"
)

// column identifies one logical field of the occupation file.
type column int

const (
	colName column = iota
	colSalary
	colJobs
	colGrowth
	colEducation
	colDescription
	numColumns
)

// columnAliases lists accepted (normalized) header names per column, preferred first.
var columnAliases = [numColumns][]string{
	colName:        {"occupation_name", "occupation", "title"},
	colSalary:      {"median_pay_annual", "median_salary", "median_pay"},
	colJobs:        {"number_of_jobs", "jobs", "employment"},
	colGrowth:      {"job_outlook", "growth_rate", "outlook"},
	colEducation:   {"entry_level_education", "education"},
	colDescription: {"what_they_do", "description"},
}

// Options configures Load.
type Options struct {
	Delimiter  rune // CSV only; default ',' (or '\t' for .tsv files)
	SheetIndex int  // XLSX only
}

// Load reads the occupation file at path. Files ending in .xlsx are read as
// workbooks; anything else as delimited text. A missing or unreadable file,
// or a header without the required columns, is a configuration error.
// Malformed rows are skipped and counted in Stats.
func Load(ctx context.Context, path string, opts Options) (*Dataset, error) {
	if path == "" {
		return nil, apperr.Configurationf("dataset: no path configured")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, apperr.Configuration(err, "dataset: stat "+path)
	}

	var rowCh <-chan []string
	var errCh <-chan error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rowCh, errCh = streamXLSX(ctx, path, opts.SheetIndex)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, apperr.Configuration(err, "dataset: open "+path)
		}
		defer f.Close() //nolint:errcheck
		delim := opts.Delimiter
		if delim == 0 && strings.EqualFold(filepath.Ext(path), ".tsv") {
			delim = '\t'
		}
		rowCh, errCh = streamCSV(ctx, f, delim)
	}

	ds, err := collect(rowCh, errCh)
	if err != nil {
		return nil, err
	}

	log := zap.L().With(zap.String("path", path))
	log.Info("dataset loaded",
		zap.Int("rows", ds.Stats.Rows),
		zap.Int("occupations", ds.Stats.Loaded),
		zap.Int("skipped", ds.Stats.Skipped),
		zap.Int("duplicates", ds.Stats.Duplicates),
	)
	if ds.Stats.NullSalary+ds.Stats.NullJobs+ds.Stats.NullGrowth > 0 {
		log.Warn("dataset has null numeric fields",
			zap.Int("null_salary", ds.Stats.NullSalary),
			zap.Int("null_jobs", ds.Stats.NullJobs),
			zap.Int("null_growth", ds.Stats.NullGrowth),
		)
	}
	return ds, nil
}

// Read parses delimited occupation data from r. Used for in-memory sources.
func Read(ctx context.Context, r io.Reader, opts Options) (*Dataset, error) {
	rowCh, errCh := streamCSV(ctx, r, opts.Delimiter)
	return collect(rowCh, errCh)
}

// collect consumes a header row followed by data rows and builds a Dataset.
func collect(rowCh <-chan []string, errCh <-chan error) (*Dataset, error) {
	var (
		idx     [numColumns]int
		header  bool
		records []model.OccupationRecord
		skipped int
		headErr error
	)

	for row := range rowCh {
		if headErr != nil {
			continue // drain
		}
		if !header {
			var err error
			idx, err = resolveHeader(row)
			if err != nil {
				headErr = err
				continue
			}
			header = true
			continue
		}
		if row == nil {
			skipped++
			continue
		}

		name := getCol(row, idx[colName])
		if name == "" {
			skipped++
			continue
		}

		salaryText := getCol(row, idx[colSalary])
		jobsText := getCol(row, idx[colJobs])
		outlookText := getCol(row, idx[colGrowth])
		records = append(records, model.OccupationRecord{
			Name:           name,
			MedianSalary:   parseSalary(salaryText),
			Jobs:           parseJobs(jobsText),
			GrowthRate:     parseGrowth(outlookText),
			EntryEducation: getCol(row, idx[colEducation]),
			Description:    getCol(row, idx[colDescription]),
			SalaryText:     salaryText,
			JobsText:       jobsText,
			OutlookText:    outlookText,
		})
	}

	for err := range errCh {
		if err != nil {
			return nil, err
		}
	}
	if headErr != nil {
		return nil, headErr
	}
	if !header {
		return nil, apperr.Configurationf("dataset: file is empty")
	}

	ds := New(records)
	ds.Stats.Rows += skipped
	ds.Stats.Skipped = skipped
	return ds, nil
}

// resolveHeader finds the index of every logical column.
func resolveHeader(header []string) ([numColumns]int, error) {
	var idx [numColumns]int
	cols := mapColumns(header)
	var missing []string
	for c := range numColumns {
		idx[c] = -1
		for _, alias := range columnAliases[c] {
			if i, ok := cols[alias]; ok {
				idx[c] = i
				break
			}
		}
		if idx[c] < 0 {
			missing = append(missing, columnAliases[c][0])
		}
	}
	if len(missing) > 0 {
		return idx, apperr.Configurationf("dataset: header missing columns %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

// streamCSV reads delimited rows and sends them on a channel. A row that
// fails to parse is sent as nil so the consumer can count it. Both channels
// are closed when reading completes.
func streamCSV(ctx context.Context, r io.Reader, delim rune) (<-chan []string, <-chan error) {
	rowCh := make(chan []string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		reader := csv.NewReader(r)
		if delim != 0 {
			reader.Comma = delim
		}
		reader.LazyQuotes = true
		reader.TrimLeadingSpace = true
		reader.FieldsPerRecord = -1

		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "dataset: context cancelled")
				return
			}

			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				var perr *csv.ParseError
				if !errors.As(err, &perr) {
					errCh <- apperr.Configuration(err, "dataset: read row")
					return
				}
				zap.L().Warn("dataset: skipping malformed row", zap.Int("line", perr.Line), zap.Error(err))
				record = nil
			}

			select {
			case rowCh <- record:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "dataset: context cancelled")
				return
			}
		}
	}()

	return rowCh, errCh
}

// streamXLSX reads one sheet of a workbook and sends its rows on a channel.
func streamXLSX(ctx context.Context, path string, sheetIndex int) (<-chan []string, <-chan error) {
	rowCh := make(chan []string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		f, err := xlsx.OpenFile(path)
		if err != nil {
			errCh <- apperr.Configuration(err, "dataset: open workbook "+path)
			return
		}
		if sheetIndex < 0 || sheetIndex >= len(f.Sheets) {
			errCh <- apperr.Configurationf("dataset: sheet index %d out of range (workbook has %d sheets)", sheetIndex, len(f.Sheets))
			return
		}

		for _, row := range f.Sheets[sheetIndex].Rows {
			if row == nil {
				continue
			}
			cells := make([]string, len(row.Cells))
			for i, cell := range row.Cells {
				cells[i] = strings.TrimSpace(cell.String())
			}

			select {
			case rowCh <- cells:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "dataset: context cancelled")
				return
			}
		}
	}()

	return rowCh, errCh
}
