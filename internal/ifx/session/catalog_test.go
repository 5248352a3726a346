package session

import (
	"errors"
	"testing"

	"github.com/ifxcli/ifxcli/internal/ifx/driver"
	"github.com/ifxcli/ifxcli/internal/ifx/driver/mockdrv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobToLike(t *testing.T) {
	tests := []struct {
		pattern  string
		expected string
	}{
		{pattern: "", expected: "%"},
		{pattern: "*", expected: "%"},
		{pattern: "cust*", expected: "cust%"},
		{pattern: "c?st*", expected: "c_st%"},
		{pattern: "exact", expected: "exact"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, globToLike(tt.pattern), tt.pattern)
	}
}

func TestAllRows(t *testing.T) {
	t.Run("ListShape", func(t *testing.T) {
		drv := mockdrv.New()
		drv.Script("SELECT a, b FROM t",
			driver.Row{"a": 1, "b": 2},
			driver.Row{"a": 3, "b": 4},
		)
		conn := connect(t, drv)
		defer conn.Close()

		rows, err := conn.AllRows("SELECT a, b FROM t")
		require.NoError(t, err)
		assert.Equal(t, [][]any{{1, 2}, {3, 4}}, rows)

		// Statement and result set are both torn down.
		assert.Equal(t, 0, drv.OpenResults())
	})

	t.Run("DictShape", func(t *testing.T) {
		drv := mockdrv.New()
		drv.Script("SELECT a FROM t", driver.Row{"a": 1})
		conn := connect(t, drv)
		defer conn.Close()

		rows, err := conn.AllRowsDict("SELECT a FROM t")
		require.NoError(t, err)
		assert.Equal(t, []driver.Row{{"a": 1}}, rows)
		assert.Equal(t, 0, drv.OpenResults())
	})

	t.Run("WithParameters", func(t *testing.T) {
		drv := mockdrv.New()
		drv.Script("SELECT a FROM t WHERE b = 'x'", driver.Row{"a": 1})
		conn := connect(t, drv)
		defer conn.Close()

		rows, err := conn.AllRows("SELECT a FROM t WHERE b = ?", "x")
		require.NoError(t, err)
		assert.Equal(t, [][]any{{1}}, rows)
	})
}

func TestEachRow(t *testing.T) {
	t.Run("BodyErrorClosesStatement", func(t *testing.T) {
		drv := mockdrv.New()
		drv.Script("SELECT a FROM t", driver.Row{"a": 1}, driver.Row{"a": 2})
		conn := connect(t, drv)
		defer conn.Close()

		bodyErr := errors.New("body exploded")
		err := conn.EachRow("SELECT a FROM t", ModeList, func(any) (Signal, error) {
			return Continue, bodyErr
		})
		assert.ErrorIs(t, err, bodyErr)
		assert.Equal(t, 0, drv.OpenResults())
	})

	t.Run("Stop", func(t *testing.T) {
		drv := mockdrv.New()
		drv.Script("SELECT a FROM t", driver.Row{"a": 1}, driver.Row{"a": 2})
		conn := connect(t, drv)
		defer conn.Close()

		count := 0
		err := conn.EachRow("SELECT a FROM t", ModeDict, func(any) (Signal, error) {
			count++
			return Stop, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		assert.Equal(t, 0, drv.OpenResults())
	})
}

func TestCatalog(t *testing.T) {
	tablesSQL := "SELECT tabname FROM systables WHERE tabtype = 'T' AND tabid >= 100 AND tabname LIKE '%' ORDER BY tabname"

	t.Run("Tables", func(t *testing.T) {
		drv := mockdrv.New()
		drv.Script(tablesSQL,
			driver.Row{"tabname": "customers"},
			driver.Row{"tabname": "orders"},
		)
		conn := connect(t, drv)
		defer conn.Close()

		tables, err := conn.Tables("")
		require.NoError(t, err)
		assert.Equal(t, []string{"customers", "orders"}, tables)
	})

	t.Run("TablesWithGlob", func(t *testing.T) {
		drv := mockdrv.New()
		conn := connect(t, drv)
		defer conn.Close()

		_, err := conn.Tables("cust*")
		require.NoError(t, err)
		require.Len(t, drv.Executed(), 1)
		assert.Contains(t, drv.Executed()[0], "LIKE 'cust%'")
	})

	t.Run("TableColumns", func(t *testing.T) {
		drv := mockdrv.New()
		conn := connect(t, drv)
		defer conn.Close()

		_, err := conn.TableColumns("customers", "")
		require.NoError(t, err)
		require.Len(t, drv.Executed(), 1)
		assert.Contains(t, drv.Executed()[0], "t.tabname = 'customers'")
		assert.Contains(t, drv.Executed()[0], "c.colname LIKE '%'")
	})

	t.Run("NumericLookingTableNameStaysQuoted", func(t *testing.T) {
		drv := mockdrv.New()
		conn := connect(t, drv)
		defer conn.Close()

		_, err := conn.TableColumns("2024", "")
		require.NoError(t, err)
		require.Len(t, drv.Executed(), 1)
		assert.Contains(t, drv.Executed()[0], "t.tabname = '2024'")
	})

	t.Run("PrimaryKeysDegradesToEmpty", func(t *testing.T) {
		pkSQL := "SELECT c.colname FROM systables t, sysconstraints n, syscolumns c" +
			" WHERE t.tabname = 'customers' AND n.tabid = t.tabid AND n.constrtype = 'P' AND c.tabid = t.tabid"

		drv := mockdrv.New()
		drv.Fail(pkSQL, "SQL error [42000]: sysconstraints not found")
		conn := connect(t, drv)
		defer conn.Close()

		rows, err := conn.PrimaryKeys("customers")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("ForeignKeysIsAStub", func(t *testing.T) {
		drv := mockdrv.New()
		conn := connect(t, drv)
		defer conn.Close()

		rows, err := conn.ForeignKeys("customers")
		require.NoError(t, err)
		assert.Empty(t, rows)
		assert.Empty(t, drv.Executed())
	})
}

func TestTransactions(t *testing.T) {
	drv := mockdrv.New()
	conn := connect(t, drv)
	defer conn.Close()

	require.NoError(t, conn.BeginTransaction())
	require.NoError(t, conn.Commit())
	require.NoError(t, conn.BeginTransaction())
	require.NoError(t, conn.Rollback())

	assert.Equal(t, []string{"BEGIN WORK", "COMMIT WORK", "BEGIN WORK", "ROLLBACK WORK"}, drv.Executed())
	assert.Equal(t, 0, drv.OpenResults())
}
