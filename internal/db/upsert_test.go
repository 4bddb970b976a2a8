package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var summaryUpsert = UpsertConfig{
	Table:        "career_explorer.major_summaries",
	Columns:      []string{"major", "average_salary", "career_count"},
	ConflictKeys: []string{"major"},
}

func TestBulkUpsert_EmptyRows(t *testing.T) {
	n, err := BulkUpsert(context.TODO(), nil, summaryUpsert, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestBulkUpsert_NoColumns(t *testing.T) {
	_, err := BulkUpsert(context.TODO(), nil, UpsertConfig{
		Table:        "career_explorer.major_summaries",
		ConflictKeys: []string{"major"},
	}, [][]any{{"Nursing"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns specified")
}

func TestBulkUpsert_NoConflictKeys(t *testing.T) {
	_, err := BulkUpsert(context.TODO(), nil, UpsertConfig{
		Table:   "career_explorer.major_summaries",
		Columns: []string{"major"},
	}, [][]any{{"Nursing"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no conflict keys specified")
}

func TestBulkUpsert_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TEMP TABLE").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_career_explorer_major_summaries"}, summaryUpsert.Columns).WillReturnResult(2)
	mock.ExpectExec("INSERT INTO").WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	rows := [][]any{{"Nursing", 86000.0, 5}, {"Biology", 50000.0, 7}}
	n, err := BulkUpsert(context.Background(), mock, summaryUpsert, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsert_BeginError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin().WillReturnError(errors.New("db down"))

	_, err = BulkUpsert(context.Background(), mock, summaryUpsert, [][]any{{"Nursing", 1.0, 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin tx")
}

func TestBulkUpsert_CopyError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TEMP TABLE").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_career_explorer_major_summaries"}, summaryUpsert.Columns).
		WillReturnError(errors.New("copy failed"))
	mock.ExpectRollback()

	_, err = BulkUpsert(context.Background(), mock, summaryUpsert, [][]any{{"Nursing", 1.0, 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY into temp table")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertSQL(t *testing.T) {
	got := summaryUpsert.insertSQL()
	assert.Equal(t,
		`INSERT INTO "career_explorer"."major_summaries" ("major", "average_salary", "career_count") `+
			`SELECT "major", "average_salary", "career_count" FROM "_tmp_upsert_career_explorer_major_summaries" `+
			`ON CONFLICT ("major") DO UPDATE SET "average_salary" = EXCLUDED."average_salary", "career_count" = EXCLUDED."career_count"`,
		got)
}

func TestInsertSQL_OnlyKeys(t *testing.T) {
	cfg := UpsertConfig{Table: "majors", Columns: []string{"major"}, ConflictKeys: []string{"major"}}
	assert.Contains(t, cfg.insertSQL(), "ON CONFLICT (\"major\") DO NOTHING")
}

func TestIdentifier(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"simple", `"simple"`},
		{"career_explorer.major_summaries", `"career_explorer"."major_summaries"`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, identifier(tt.input).Sanitize())
		})
	}
}

func TestQuoteAndJoin(t *testing.T) {
	assert.Equal(t, `"major", "total_jobs"`, quoteAndJoin([]string{"major", "total_jobs"}))
}
