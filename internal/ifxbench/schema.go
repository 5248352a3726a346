package ifxbench

import "github.com/ifxcli/ifxcli/internal/ifx/session"

// recreateSchema drops all tables and recreates them.
func recreateSchema(conn *session.Connection) error {
	stmts := []string{
		`DROP TABLE IF EXISTS orders`,
		`DROP TABLE IF EXISTS items`,

		`CREATE TABLE items (
			id INTEGER PRIMARY KEY NOT NULL,
			created INTEGER NOT NULL,
			code TEXT NOT NULL,
			price REAL NOT NULL
		)`,
		`CREATE INDEX items_created ON items(created)`,

		`CREATE TABLE orders (
			id INTEGER PRIMARY KEY NOT NULL,
			created INTEGER NOT NULL,
			itemId INTEGER NOT NULL REFERENCES items(id),
			quantity INTEGER NOT NULL,
			note TEXT NOT NULL
		)`,
		`CREATE INDEX orders_created ON orders(created)`,
		`CREATE INDEX orders_itemId ON orders(itemId)`,
	}

	for _, s := range stmts {
		if _, err := conn.AllRows(s); err != nil {
			return err
		}
	}

	return nil
}
