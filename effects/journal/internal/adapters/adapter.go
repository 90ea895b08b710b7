package adapters

import "context"

const (
	DriverPGX  = "pgx"
	DriverSQL  = "sql"
	DriverSQLX = "sqlx"
)

// DBAdapter executes rendered SQL statements for the journal.
type DBAdapter interface {
	Query(ctx context.Context, query string) (DBRows, error)
	Exec(ctx context.Context, query string) (DBResult, error)
	Driver() string
}

// DBRows iterates over the rows of a query result.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult reports the outcome of a statement.
type DBResult interface {
	RowsAffected() (int64, error)
}
