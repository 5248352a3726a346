package ifxbench

// benchmarksConfig holds all parameters for each benchmark.
type benchmarksConfig struct {
	benchmarkInsertConfig
	benchmarkNamedConfig
	benchmarkFetchConfig
}

type benchmarkInsertConfig struct {
	insertXItems int
}

type benchmarkNamedConfig struct {
	insertXOrders int
}

type benchmarkFetchConfig struct {
	insertXItems     int
	queryItemsYTimes int
}

func getDefaultConfig() benchmarksConfig {
	return benchmarksConfig{
		benchmarkInsertConfig: benchmarkInsertConfig{
			insertXItems: 10_000,
		},

		benchmarkNamedConfig: benchmarkNamedConfig{
			insertXOrders: 10_000,
		},

		benchmarkFetchConfig: benchmarkFetchConfig{
			insertXItems:     1_000,
			queryItemsYTimes: 100,
		},
	}
}
