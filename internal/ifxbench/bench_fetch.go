package ifxbench

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ifxcli/ifxcli/internal/ifx/session"
	"github.com/ifxcli/ifxcli/internal/ifxbench/benchbar"
)

// runBenchmarkFetch inserts X items once and then re-executes a filtered
// query Y times, timing the fetch and traversal machinery.
func runBenchmarkFetch(
	conn *session.Connection, fullConfig benchmarksConfig,
) (benchmarkResult, error) {
	conf := fullConfig.benchmarkFetchConfig
	start := time.Now()
	var totalReads uint64 = 0
	var totalWrites uint64 = 0

	bar := benchbar.NewBar(
		fmt.Sprintf("Inserting %d items", conf.insertXItems), conf.insertXItems,
	)

	insert, err := conn.Prepare(
		"INSERT INTO items (created, code, price) VALUES (?, ?, ?)",
	)
	if err != nil {
		return benchmarkResult{}, err
	}
	defer func() {
		_ = insert.Close()
	}()

	for idx := 0; idx < conf.insertXItems; idx++ {
		rs, err := insert.Execute(time.Now().Unix(), uuid.NewString(), float64(idx))
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
	bar = benchbar.NewBar(
		fmt.Sprintf("Querying items %d times", conf.queryItemsYTimes),
		conf.queryItemsYTimes,
	)

	query, err := conn.Prepare("SELECT id, code, price FROM items WHERE price < ?")
	if err != nil {
		return benchmarkResult{}, err
	}
	defer func() {
		_ = query.Close()
	}()

	for i := 0; i < conf.queryItemsYTimes; i++ {
		rs, err := query.Execute(conf.insertXItems / 2)
		if err != nil {
			return benchmarkResult{}, fmt.Errorf("error when querying: %w", err)
		}

		rows, err := rs.FetchAll()
		if err != nil {
			return benchmarkResult{}, err
		}
		if err := rs.Close(); err != nil {
			return benchmarkResult{}, err
		}

		// First row is the header.
		totalReads += uint64(len(rows) - 1)
		bar.Inc()
	}

	bar.Finish()
	return benchmarkResult{
		Name:        "Fetch",
		Duration:    time.Since(start),
		TotalReads:  totalReads,
		TotalWrites: totalWrites,
	}, nil
}
