package repl

import (
	"fmt"

	"github.com/ifxcli/ifxcli/internal/ifxcli/styled"
	"github.com/jedib0t/go-pretty/v6/table"
)

func cmdTables(r *Repl, args []string) {
	pattern := ""
	if len(args) > 0 {
		pattern = args[0]
	}

	names, err := r.conn.Tables(pattern)
	if err != nil {
		printError(r, err)
		return
	}

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Table"})
	for _, name := range names {
		tw.AppendRow(table.Row{name})
	}
	fmt.Println(tw.Render())
}

func cmdColumns(r *Repl, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: .columns table_name [column_glob]")
		return
	}

	pattern := ""
	if len(args) > 1 {
		pattern = args[1]
	}

	rows, err := r.conn.TableColumns(args[0], pattern)
	if err != nil {
		printError(r, err)
		return
	}

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Column", "Type", "Length"})
	for _, row := range rows {
		tw.AppendRow(toTableRow(row))
	}
	fmt.Println(tw.Render())
}

func cmdKeys(r *Repl, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: .keys table_name")
		return
	}

	rows, err := r.conn.PrimaryKeys(args[0])
	if err != nil {
		printError(r, err)
		return
	}

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Primary Key Column"})
	for _, row := range rows {
		tw.AppendRow(toTableRow(row))
	}
	fmt.Println(tw.Render())
}

func cmdCount(r *Repl, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: .count table_name")
		return
	}

	cmdQuery(r, fmt.Sprintf("SELECT COUNT(*) FROM %s", args[0]))
}

func printError(r *Repl, err error) {
	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Error"})
	tw.AppendRow(table.Row{r.cleanError(err.Error())})
	fmt.Println(tw.Render())
}
