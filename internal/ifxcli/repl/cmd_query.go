package repl

import (
	"fmt"
	"strings"

	"github.com/ifxcli/ifxcli/internal/ifxcli/styled"
	"github.com/ifxcli/ifxcli/internal/util/numutil"
	"github.com/jedib0t/go-pretty/v6/table"
)

func cmdQuery(r *Repl, input string) {
	tw := styled.NewTableWriter()

	rows, err := runQuery(r, input)
	if err != nil {
		tw.AppendHeader(table.Row{"Error"})
		tw.AppendRow(table.Row{r.cleanError(err.Error())})
		fmt.Println(tw.Render())
		return
	}

	trackTransaction(r, input)

	// The first row is the header. A statement with no result columns is a
	// completed write.
	header := rows[0]
	if len(header) == 0 {
		tw.AppendHeader(table.Row{"OK"})
		tw.AppendRow(table.Row{"OK"})
		fmt.Println(tw.Render())
		return
	}

	tw.AppendHeader(toTableRow(header))
	for _, row := range rows[1:] {
		tw.AppendRow(toTableRow(row))
	}
	fmt.Println(tw.Render())

	_, _ = styled.DimmedColor().Printf("%s row(s)\n", numutil.IntWithCommas(len(rows)-1))
}

// runQuery executes one statement and returns its rows, header first.
func runQuery(r *Repl, input string) ([][]any, error) {
	stmt, err := r.conn.Prepare(input)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = stmt.Close()
	}()

	rs, err := stmt.Execute()
	if err != nil {
		return nil, err
	}

	return rs.FetchAll()
}

// trackTransaction keeps the prompt's transaction marker in sync with the
// statements the user runs.
func trackTransaction(r *Repl, input string) {
	trimmed := strings.ToLower(strings.TrimSpace(input))

	switch {
	case strings.HasPrefix(trimmed, "begin"):
		r.inTx = true
	case strings.HasPrefix(trimmed, "commit"), strings.HasPrefix(trimmed, "rollback"):
		r.inTx = false
	}
}

func toTableRow(values []any) table.Row {
	row := table.Row{}
	for _, value := range values {
		row = append(row, value)
	}
	return row
}
