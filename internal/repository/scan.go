package repository

import "talent-catalog/internal/database"

// columnCounter is implemented by rows that know their width.
type columnCounter interface {
	ColumnCount() int
}

// scanFirst scans the first column into dest and discards the rest.
func scanFirst(rows database.Rows, dest any) error {
	n := 1
	if cc, ok := rows.(columnCounter); ok {
		n = cc.ColumnCount()
	}
	if n <= 1 {
		return rows.Scan(dest)
	}
	targets := make([]any, n)
	targets[0] = dest
	for i := 1; i < n; i++ {
		var discard any
		targets[i] = &discard
	}
	return rows.Scan(targets...)
}
