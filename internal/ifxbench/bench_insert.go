package ifxbench

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ifxcli/ifxcli/internal/ifx/session"
	"github.com/ifxcli/ifxcli/internal/ifxbench/benchbar"
)

// runBenchmarkInsert inserts X items through a prepared template with
// positional placeholders, then reads them all back in a single query.
func runBenchmarkInsert(
	conn *session.Connection, fullConfig benchmarksConfig,
) (benchmarkResult, error) {
	conf := fullConfig.benchmarkInsertConfig
	start := time.Now()
	var totalReads uint64 = 0
	var totalWrites uint64 = 0

	bar := benchbar.NewBar(
		fmt.Sprintf("Inserting %d items", conf.insertXItems), conf.insertXItems,
	)

	stmt, err := conn.Prepare(
		"INSERT INTO items (created, code, price) VALUES (?, ?, ?)",
	)
	if err != nil {
		return benchmarkResult{}, err
	}
	defer func() {
		_ = stmt.Close()
	}()

	for idx := 0; idx < conf.insertXItems; idx++ {
		rs, err := stmt.Execute(time.Now().Unix(), uuid.NewString(), float64(idx)+0.5)
		if err != nil {
			return benchmarkResult{}, fmt.Errorf("error when inserting: %w", err)
		}
		if err := rs.Close(); err != nil {
			return benchmarkResult{}, err
		}

		bar.Inc()
		totalWrites++
	}

	bar.Finish()
	bar = benchbar.NewBar("Reading items", 1)

	err = conn.EachRow(
		"SELECT id, created, code, price FROM items ORDER BY id",
		session.ModeList,
		func(any) (session.Signal, error) {
			totalReads++
			return session.Continue, nil
		},
	)
	if err != nil {
		return benchmarkResult{}, fmt.Errorf("error when querying: %w", err)
	}

	bar.Finish()
	return benchmarkResult{
		Name:        "Insert",
		Duration:    time.Since(start),
		TotalReads:  totalReads,
		TotalWrites: totalWrites,
	}, nil
}
