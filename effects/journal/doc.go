// Package journal provides an effect that records observed GraphQL operations in PostgreSQL.
//
// The Journal supports pgxpool.Pool, sql.DB and sqlx.DB connections. SQL is built with goqu;
// variables are stored as jsonb.
//
// Usage:
//
//	pool, _ := pgxpool.New(ctx, dsn)
//	j, _ := journal.NewJournalFromPGXPool(pool, journal.WithLogger(logger))
//	_ = j.EnsureSchema(ctx)
//
//	observable, _ := effects.NewObservableLink(effects.Merge(j.Effect(), otherEffect))
//
//	entries, _ := j.Load(ctx, journal.LoadFilter{OperationType: "mutation", Limit: 100})
package journal
