// Package adapters lets the operation journal run on pgxpool.Pool, sql.DB or sqlx.DB.
//
// Every adapter executes fully rendered SQL through the DBAdapter interface, so the journal
// builds its statements once and stays independent of the connection type.
package adapters
