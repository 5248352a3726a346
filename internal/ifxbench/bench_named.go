package ifxbench

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ifxcli/ifxcli/internal/ifx/quote"
	"github.com/ifxcli/ifxcli/internal/ifx/session"
	"github.com/ifxcli/ifxcli/internal/ifxbench/benchbar"
)

type benchmarkNamedOrder struct {
	itemID   int
	quantity int
	note     string
}

// runBenchmarkNamed measures the named placeholder path: every insert goes
// through :name substitution with type hints.
func runBenchmarkNamed(
	conn *session.Connection, fullConfig benchmarksConfig,
) (benchmarkResult, error) {
	conf := fullConfig.benchmarkNamedConfig
	start := time.Now()
	var totalReads uint64 = 0
	var totalWrites uint64 = 0

	bar := benchbar.NewBar(
		fmt.Sprintf("Inserting %d orders", conf.insertXOrders), conf.insertXOrders,
	)

	if _, err := conn.AllRows(
		"INSERT INTO items (created, code, price) VALUES (0, 'bench', 1.0)",
	); err != nil {
		return benchmarkResult{}, err
	}

	stmt, err := conn.Prepare(
		"INSERT INTO orders (created, itemId, quantity, note)" +
			" VALUES (:created, :item, :quantity, :note)",
	)
	if err != nil {
		return benchmarkResult{}, err
	}
	defer func() {
		_ = stmt.Close()
	}()

	stmt.SetNamedHint("created", quote.HintNumeric)
	stmt.SetNamedHint("item", quote.HintNumeric)
	stmt.SetNamedHint("quantity", quote.HintNumeric)
	stmt.SetNamedHint("note", quote.HintString)

	for idx := 0; idx < conf.insertXOrders; idx++ {
		order := benchmarkNamedOrder{
			itemID:   1,
			quantity: idx%10 + 1,
			note:     uuid.NewString(),
		}

		rs, err := stmt.ExecuteNamed(map[string]any{
			"created":  time.Now().Unix(),
			"item":     order.itemID,
			"quantity": order.quantity,
			"note":     order.note,
		})
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
	bar = benchbar.NewBar("Reading orders", 1)

	rows, err := conn.AllRowsDict("SELECT id, quantity, note FROM orders ORDER BY id")
	if err != nil {
		return benchmarkResult{}, fmt.Errorf("error when querying: %w", err)
	}
	totalReads = uint64(len(rows))

	bar.Finish()
	return benchmarkResult{
		Name:        "Named",
		Duration:    time.Since(start),
		TotalReads:  totalReads,
		TotalWrites: totalWrites,
	}, nil
}
