package main

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/career-explorer/internal/apperr"
	"github.com/sells-group/career-explorer/internal/config"
	"github.com/sells-group/career-explorer/internal/dataset"
	"github.com/sells-group/career-explorer/internal/explorer"
	"github.com/sells-group/career-explorer/internal/mapping"
	"github.com/sells-group/career-explorer/internal/model"
)

func testExplorer(t *testing.T) *explorer.Explorer {
	t.Helper()
	ds := dataset.New([]model.OccupationRecord{
		{Name: "Software developers", MedianSalary: model.Float64(130000), Jobs: model.Int64(1000), GrowthRate: model.Float64(17), SalaryText: "$130,000", EntryEducation: "Bachelor's degree"},
		{Name: "Data scientists", MedianSalary: model.Float64(110000), Jobs: model.Int64(200), GrowthRate: model.Float64(35), SalaryText: "$110,000"},
		{Name: "Registered nurses", MedianSalary: model.Float64(86000), Jobs: model.Int64(3000), GrowthRate: model.Float64(6), SalaryText: "$86,000"},
	})
	tbl, err := mapping.Parse([]byte(`
majors:
  - name: Computer Science
    occupations: [Software developers, Data scientists]
  - name: Nursing
    occupations: [Registered nurses]
  - name: Alchemy
    occupations: [Alchemists]
defaults: [Nursing, Computer Science]
`))
	require.NoError(t, err)
	return explorer.New(ds, tbl)
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"majors", "compare", "detail", "serve", "export", "fetch"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "career-explorer", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		cmd  string
		flag string
		def  string
	}{
		{"majors", "defaults", "false"},
		{"compare", "majors", "[]"},
		{"compare", "preset", ""},
		{"compare", "sort", "averageSalary"},
		{"compare", "asc", "false"},
		{"serve", "port", "0"},
		{"export", "sqlite", "false"},
		{"export", "xlsx", "false"},
		{"export", "postgres", "false"},
		{"fetch", "url", ""},
		{"fetch", "out", ""},
	}
	for _, tt := range tests {
		t.Run(tt.cmd+"/"+tt.flag, func(t *testing.T) {
			c, _, err := rootCmd.Find([]string{tt.cmd})
			require.NoError(t, err)
			f := c.Flags().Lookup(tt.flag)
			require.NotNil(t, f, "%s should have --%s", tt.cmd, tt.flag)
			assert.Equal(t, tt.def, f.DefValue)
		})
	}
}

func TestWriteMajors(t *testing.T) {
	exp := testExplorer(t)

	var buf bytes.Buffer
	writeMajors(&buf, exp, false)
	assert.Equal(t, "Alchemy (no data)\nComputer Science\nNursing\n", buf.String())

	buf.Reset()
	writeMajors(&buf, exp, true)
	assert.Equal(t, "Nursing\nComputer Science\n", buf.String())
}

func TestRunCompare_DefaultsToTop15(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runCompare(&buf, testExplorer(t), explorer.CompareRequest{Descending: true}))

	out := buf.String()
	assert.Contains(t, out, "Computer Science")
	assert.Contains(t, out, "Nursing")
	assert.Contains(t, out, "KEY STATISTICS")
	assert.Contains(t, out, "Highest avg salary: Computer Science ($120,000)")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Computer Science")), bytes.Index(buf.Bytes(), []byte("Nursing")))
}

func TestRunCompare_InvalidSort(t *testing.T) {
	var buf bytes.Buffer
	err := runCompare(&buf, testExplorer(t), explorer.CompareRequest{Majors: []string{"Nursing"}, SortKey: "bogus"})
	require.Error(t, err)
	assert.True(t, apperr.IsInvalidArgument(err))
	assert.Empty(t, buf.String())
}

func TestRunDetail(t *testing.T) {
	exp := testExplorer(t)

	var buf bytes.Buffer
	require.NoError(t, runDetail(&buf, exp, "Computer Science"))
	assert.Contains(t, buf.String(), "Career paths for Computer Science")
	assert.Contains(t, buf.String(), "Software developers - $130,000")

	buf.Reset()
	require.NoError(t, runDetail(&buf, exp, "Alchemy"))
	assert.Contains(t, buf.String(), "No occupation data found for Alchemy")

	err := runDetail(&buf, exp, "Basket Weaving")
	assert.True(t, apperr.IsInvalidArgument(err))
}

func TestBuildSinks(t *testing.T) {
	ec := config.ExportConfig{SQLitePath: "a.db", XLSXPath: "a.xlsx"}

	sinks, closeFn, err := buildSinks(context.Background(), ec, false, false, false)
	require.NoError(t, err)
	defer closeFn()
	require.Len(t, sinks, 2)
	assert.Equal(t, "sqlite", sinks[0].Name())
	assert.Equal(t, "xlsx", sinks[1].Name())

	sinks, _, err = buildSinks(context.Background(), ec, false, true, false)
	require.NoError(t, err)
	require.Len(t, sinks, 1)
	assert.Equal(t, "xlsx", sinks[0].Name())

	_, _, err = buildSinks(context.Background(), ec, false, false, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database_url is not set")
}

// getFreePort returns a free TCP port on localhost.
func getFreePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	l.Close() //nolint:errcheck
	return port
}

func TestRunServer_Lifecycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	port := getFreePort(t)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := &http.Server{Addr: fmt.Sprintf("127.0.0.1:%d", port), Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- runServer(ctx, srv) }()

	var ready bool
	for i := 0; i < 50; i++ {
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/health", port))
		if err == nil {
			resp.Body.Close() //nolint:errcheck
			ready = resp.StatusCode == http.StatusOK
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.True(t, ready, "server did not become ready in time")

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}

func TestFetchCommand(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck

	body := "occupation_name,median_pay_annual\nActors,\"$40,000\"\n"
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer ts.Close()

	out := filepath.Join(dir, "occupations.csv")
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"fetch", "--url", ts.URL, "--out", out})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		fetchURL, fetchOut = "", ""
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), fmt.Sprintf("Wrote %d bytes", len(body)))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, body, string(data))
}

func TestCompareCommand_ConfigError(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck

	t.Setenv("EXPLORER_DATASET_PATH", filepath.Join(dir, "missing.csv"))
	rootCmd.SetArgs([]string{"compare"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.True(t, apperr.IsConfiguration(err))
}
