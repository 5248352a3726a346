package session

import (
	"errors"
	"testing"

	"github.com/ifxcli/ifxcli/internal/ifx/driver"
	"github.com/ifxcli/ifxcli/internal/ifx/driver/mockdrv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute scripts sql on a fresh driver and returns its result set.
func execute(t *testing.T, sql string, rows ...driver.Row) (*mockdrv.Driver, *ResultSet) {
	t.Helper()

	drv := mockdrv.New()
	drv.Script(sql, rows...)
	conn := connect(t, drv)
	t.Cleanup(func() { _ = conn.Close() })

	stmt, err := conn.Prepare(sql)
	require.NoError(t, err)
	rs, err := stmt.Execute()
	require.NoError(t, err)
	return drv, rs
}

func TestColumnInference(t *testing.T) {
	t.Run("ColumnsPeekDoesNotLoseRow", func(t *testing.T) {
		_, rs := execute(t, "SELECT a, b FROM t",
			driver.Row{"a": 1, "b": 2},
			driver.Row{"a": 3, "b": 4},
		)

		cols, err := rs.Columns()
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, cols)

		// The peeked row still counts as fetched from the driver.
		assert.Equal(t, 1, rs.Fetched())

		row, ok, err := rs.Next()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []any{1, 2}, row)

		row, ok, err = rs.Next()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []any{3, 4}, row)

		_, ok, err = rs.Next()
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 2, rs.Fetched())
	})

	t.Run("FirstNextFixesColumns", func(t *testing.T) {
		_, rs := execute(t, "SELECT a, b FROM t", driver.Row{"b": 2, "a": 1})

		row, ok, err := rs.Next()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []any{1, 2}, row)

		cols, err := rs.Columns()
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, cols)
	})

	t.Run("EmptyResultHasNoColumns", func(t *testing.T) {
		_, rs := execute(t, "SELECT a FROM empty")

		cols, err := rs.Columns()
		require.NoError(t, err)
		assert.Empty(t, cols)

		_, ok, err := rs.Next()
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("HeterogeneousRowGetsPlaceholder", func(t *testing.T) {
		_, rs := execute(t, "SELECT a, b FROM t",
			driver.Row{"a": 1, "b": 2},
			driver.Row{"a": 3},
		)

		row, ok, err := rs.Next()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []any{1, 2}, row)

		row, ok, err = rs.Next()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []any{3, ""}, row)
	})
}

func TestEndOfData(t *testing.T) {
	_, rs := execute(t, "SELECT a FROM t", driver.Row{"a": 1})

	_, ok, err := rs.Next()
	require.NoError(t, err)
	require.True(t, ok)

	// End of data is a sentinel, not an error, and it is sticky.
	for i := 0; i < 3; i++ {
		row, ok, err := rs.Next()
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, row)

		dict, ok, err := rs.NextDict()
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, dict)
	}
}

func TestNextDict(t *testing.T) {
	_, rs := execute(t, "SELECT a, b FROM t", driver.Row{"a": 1, "b": "x"})

	row, ok, err := rs.NextDict()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, driver.Row{"a": 1, "b": "x"}, row)
}

func TestNextRow(t *testing.T) {
	t.Run("ListMode", func(t *testing.T) {
		_, rs := execute(t, "SELECT a FROM t", driver.Row{"a": 1})

		row, ok, err := rs.NextRow(ModeList)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []any{1}, row)

		_, ok, err = rs.NextRow(ModeList)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("DictMode", func(t *testing.T) {
		_, rs := execute(t, "SELECT a FROM t", driver.Row{"a": 1})

		row, ok, err := rs.NextRow(ModeDict)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, driver.Row{"a": 1}, row)
	})

	t.Run("UnknownMode", func(t *testing.T) {
		_, rs := execute(t, "SELECT a FROM t", driver.Row{"a": 1})

		_, _, err := rs.NextRow(RowMode{Value: "bogus"})
		assert.Error(t, err)
	})
}

func TestFetchAll(t *testing.T) {
	t.Run("HeaderThenRows", func(t *testing.T) {
		_, rs := execute(t, "SELECT a, b FROM t",
			driver.Row{"a": 1, "b": 2},
			driver.Row{"a": 3, "b": 4},
		)

		all, err := rs.FetchAll()
		require.NoError(t, err)
		assert.Equal(t, [][]any{
			{"a", "b"},
			{1, 2},
			{3, 4},
		}, all)

		// Drained to exhaustion.
		_, ok, err := rs.Next()
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("EmptyResult", func(t *testing.T) {
		_, rs := execute(t, "SELECT a FROM empty")

		all, err := rs.FetchAll()
		require.NoError(t, err)
		assert.Equal(t, [][]any{{}}, all)
	})
}

func TestForEach(t *testing.T) {
	t.Run("Continue", func(t *testing.T) {
		_, rs := execute(t, "SELECT a FROM t",
			driver.Row{"a": 1}, driver.Row{"a": 2}, driver.Row{"a": 3},
		)

		seen := []any{}
		err := rs.ForEach(ModeList, func(row any) (Signal, error) {
			seen = append(seen, row.([]any)[0])
			return Continue, nil
		})
		require.NoError(t, err)
		assert.Equal(t, []any{1, 2, 3}, seen)
	})

	t.Run("StopLeavesResultOpen", func(t *testing.T) {
		drv, rs := execute(t, "SELECT a FROM t",
			driver.Row{"a": 1}, driver.Row{"a": 2}, driver.Row{"a": 3},
		)

		count := 0
		err := rs.ForEach(ModeList, func(any) (Signal, error) {
			count++
			return Stop, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		assert.Equal(t, 1, drv.OpenResults())

		// Iteration can resume after an early stop.
		row, ok, err := rs.Next()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []any{2}, row)
	})

	t.Run("BodyErrorClosesAndPropagates", func(t *testing.T) {
		drv, rs := execute(t, "SELECT a FROM t",
			driver.Row{"a": 1}, driver.Row{"a": 2},
		)

		bodyErr := errors.New("body exploded")
		err := rs.ForEach(ModeList, func(any) (Signal, error) {
			return Continue, bodyErr
		})
		assert.ErrorIs(t, err, bodyErr)
		assert.Equal(t, 0, drv.OpenResults())
	})
}

func TestResultSetClose(t *testing.T) {
	drv, rs := execute(t, "SELECT a FROM t", driver.Row{"a": 1})

	require.NoError(t, rs.Close())
	assert.Equal(t, 0, drv.OpenResults())
	require.NoError(t, rs.Close())
	assert.Equal(t, 0, drv.OpenResults())

	_, _, err := rs.Next()
	assert.ErrorIs(t, err, ErrClosed)
}
