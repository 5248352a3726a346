// Package ifxbench benchmarks the access layer on top of the embedded
// SQLite driver.
package ifxbench

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ifxcli/ifxcli/internal/ifx/driver/sqlitedrv"
	"github.com/ifxcli/ifxcli/internal/ifx/dsn"
	"github.com/ifxcli/ifxcli/internal/ifx/session"
	"github.com/ifxcli/ifxcli/internal/log"
	"github.com/ifxcli/ifxcli/internal/util/numutil"
	"github.com/ifxcli/ifxcli/internal/version"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// benchmarkResult stores the outcome of a benchmark.
type benchmarkResult struct {
	Name        string
	Duration    time.Duration
	TotalReads  uint64
	TotalWrites uint64
}

// Run executes the benchmarks against a throwaway database and prints the
// results.
func Run(ctx context.Context) error {
	fmt.Println(version.BenchVersion())

	tmpDir, err := os.MkdirTemp("", "ifxbench_*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	connStr := dsn.Config{Database: filepath.Join(tmpDir, "bench.sqlite")}.String()
	conn, err := session.Connect(session.Config{
		Driver:  sqlitedrv.New(),
		ConnStr: connStr,
		Logger:  log.NewNopLogger(),
	})
	if err != nil {
		return fmt.Errorf("error opening benchmark database: %w", err)
	}
	defer func() {
		_ = conn.Close()
	}()

	fmt.Println("\n--- Benchmarks for the access layer ---")
	results, err := runBenchmark(conn, getDefaultConfig())
	if err != nil {
		return fmt.Errorf("error benchmarking: %w", err)
	}
	printResults(results)

	return nil
}

func printResults(results []benchmarkResult) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Color.Header = text.Colors{text.FgCyan, text.Bold}
	tw.AppendHeader(table.Row{"Name", "Reads", "Writes", "Duration"})

	for _, r := range results {
		tw.AppendRow(table.Row{
			r.Name,
			numutil.IntWithCommas(int(r.TotalReads)),
			numutil.IntWithCommas(int(r.TotalWrites)),
			r.Duration,
		})
	}

	fmt.Println(tw.Render())
}

// runBenchmark executes all benchmarks, and returns results.
//
// It recreates the schema before each benchmark.
func runBenchmark(
	conn *session.Connection, cfg benchmarksConfig,
) ([]benchmarkResult, error) {
	benchs := []func(*session.Connection, benchmarksConfig) (benchmarkResult, error){
		runBenchmarkInsert,
		runBenchmarkNamed,
		runBenchmarkFetch,
	}

	var results []benchmarkResult

	for _, bench := range benchs {
		if err := recreateSchema(conn); err != nil {
			return nil, err
		}

		res, err := bench(conn, cfg)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	return results, nil
}
