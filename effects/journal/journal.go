package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/graphql-effects-link-go/effects"
	"github.com/AntonStoeckl/graphql-effects-link-go/effects/journal/internal/adapters"
)

const (
	defaultTableName = "operation_journal"
	defaultQueueSize = 256
	dialectPostgres  = "postgres"
	colOperationID   = "operation_id"
	colOperationName = "operation_name"
	colOperationType = "operation_type"
	colQuery         = "query"
	colVariables     = "variables"
	colRecordedAt    = "recorded_at"
	castJsonb        = "?::jsonb"
	castText         = "TEXT"
)

const createTableTemplate = `CREATE TABLE IF NOT EXISTS %[1]s (
	operation_id   uuid        PRIMARY KEY,
	operation_name text        NOT NULL,
	operation_type text        NOT NULL,
	query          text        NOT NULL,
	variables      jsonb       NOT NULL,
	recorded_at    timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS %[2]s ON %[1]s (recorded_at)`

// Journal records observed Operations in a PostgreSQL table.
//
// Its Effect plugs into an effects.ObservableLink; Append and Load can also be used directly.
type Journal struct {
	db               adapters.DBAdapter
	tableName        string
	queueSize        int
	clock            func() time.Time
	logger           effects.Logger
	contextualLogger effects.ContextualLogger
	metricsCollector effects.MetricsCollector
}

// NewJournalFromPGXPool creates a Journal using a pgx Pool with optional configuration.
func NewJournalFromPGXPool(db *pgxpool.Pool, options ...Option) (Journal, error) {
	if db == nil {
		return Journal{}, ErrNilDatabaseConnection
	}

	return newJournal(adapters.NewPGXAdapter(db), options...)
}

// NewJournalFromSQLDB creates a Journal using a sql.DB with optional configuration.
func NewJournalFromSQLDB(db *sql.DB, options ...Option) (Journal, error) {
	if db == nil {
		return Journal{}, ErrNilDatabaseConnection
	}

	return newJournal(adapters.NewSQLAdapter(db), options...)
}

// NewJournalFromSQLX creates a Journal using a sqlx.DB with optional configuration.
func NewJournalFromSQLX(db *sqlx.DB, options ...Option) (Journal, error) {
	if db == nil {
		return Journal{}, ErrNilDatabaseConnection
	}

	return newJournal(adapters.NewSQLXAdapter(db), options...)
}

func newJournal(db adapters.DBAdapter, options ...Option) (Journal, error) {
	j := Journal{
		db:        db,
		tableName: defaultTableName,
		queueSize: defaultQueueSize,
		clock:     time.Now,
	}

	for _, option := range options {
		if err := option(&j); err != nil {
			return Journal{}, err
		}
	}

	return j, nil
}

// TableName returns the configured table name.
func (j Journal) TableName() string {
	return j.tableName
}

// EnsureSchema creates the journal table and its index if they do not exist.
func (j Journal) EnsureSchema(ctx context.Context) error {
	sqlQuery := j.buildCreateTableStatement()

	start := time.Now()
	_, execErr := j.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	j.logQueryWithDuration(ctx, sqlQuery, logActionEnsureSchema, duration)

	if execErr != nil {
		j.logError(ctx, logMsgEnsureSchemaFailed, execErr)
		j.recordError(ctx, operationEnsureSchema, errorTypeDatabaseExec)

		return errors.Join(ErrEnsuringSchemaFailed, execErr)
	}

	return nil
}

// Append records entry. Recording the same Operation twice fails with ErrEntryAlreadyRecorded.
func (j Journal) Append(ctx context.Context, entry Entry) error {
	sqlQuery, buildErr := j.buildInsertQuery(entry)
	if buildErr != nil {
		j.logError(ctx, logMsgBuildInsertQueryFailed, buildErr)
		j.recordError(ctx, operationAppend, errorTypeBuildQuery)

		return buildErr
	}

	start := time.Now()
	result, execErr := j.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	j.logQueryWithDuration(ctx, sqlQuery, logActionAppend, duration)

	if execErr != nil {
		j.logError(ctx, logMsgDBExecFailed, execErr, logAttrOperationID, entry.OperationID.String())
		j.recordAppend(ctx, duration, statusError)
		j.recordError(ctx, operationAppend, errorTypeDatabaseExec)

		return errors.Join(ErrAppendingEntryFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		j.logError(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)
		j.recordError(ctx, operationAppend, errorTypeRowsAffected)

		return errors.Join(ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	if rowsAffected == 0 {
		j.logOperation(ctx, logMsgEntryAlreadyRecorded, logAttrOperationID, entry.OperationID.String())
		j.recordAppend(ctx, duration, statusDuplicate)

		return ErrEntryAlreadyRecorded
	}

	j.logOperation(ctx, logMsgEntryRecorded,
		logAttrOperationID, entry.OperationID.String(),
		logAttrOperationName, entry.OperationName,
		logAttrDurationMS, toMilliseconds(duration),
	)
	j.recordAppend(ctx, duration, statusSuccess)

	return nil
}

// Load returns the recorded entries matching filter, oldest first.
func (j Journal) Load(ctx context.Context, filter LoadFilter) ([]Entry, error) {
	sqlQuery, buildErr := j.buildSelectQuery(filter)
	if buildErr != nil {
		j.logError(ctx, logMsgBuildSelectQueryFailed, buildErr)
		j.recordError(ctx, operationLoad, errorTypeBuildQuery)

		return nil, buildErr
	}

	start := time.Now()
	rows, queryErr := j.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	j.logQueryWithDuration(ctx, sqlQuery, logActionLoad, duration)

	if queryErr != nil {
		j.logError(ctx, logMsgDBQueryFailed, queryErr)
		j.recordError(ctx, operationLoad, errorTypeDatabaseQuery)

		return nil, errors.Join(ErrLoadingEntriesFailed, queryErr)
	}
	defer j.closeRows(ctx, rows)

	entries := make([]Entry, 0)

	for rows.Next() {
		var entry Entry
		var operationID string

		scanErr := rows.Scan(
			&operationID,
			&entry.OperationName,
			&entry.OperationType,
			&entry.Query,
			&entry.VariablesJSON,
			&entry.RecordedAt,
		)
		if scanErr != nil {
			j.logError(ctx, logMsgScanRowFailed, scanErr)
			j.recordError(ctx, operationLoad, errorTypeScanRow)

			return nil, errors.Join(ErrScanningDBRowFailed, scanErr)
		}

		parsedID, parseErr := uuid.Parse(operationID)
		if parseErr != nil {
			j.logError(ctx, logMsgScanRowFailed, parseErr)
			j.recordError(ctx, operationLoad, errorTypeScanRow)

			return nil, errors.Join(ErrScanningDBRowFailed, parseErr)
		}

		entry.OperationID = parsedID
		entry.RecordedAt = entry.RecordedAt.UTC()
		entries = append(entries, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		j.logError(ctx, logMsgDBQueryFailed, rowsErr)
		j.recordError(ctx, operationLoad, errorTypeDatabaseQuery)

		return nil, errors.Join(ErrLoadingEntriesFailed, rowsErr)
	}

	j.recordLoad(ctx, duration, len(entries))

	return entries, nil
}

func (j Journal) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		j.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

func (j Journal) buildCreateTableStatement() string {
	table := pgx.Identifier{j.tableName}.Sanitize()
	index := pgx.Identifier{j.tableName + "_" + colRecordedAt + "_idx"}.Sanitize()

	return fmt.Sprintf(createTableTemplate, table, index)
}

func (j Journal) buildInsertQuery(entry Entry) (string, error) {
	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(j.tableName).
		Cols(colOperationID, colOperationName, colOperationType, colQuery, colVariables, colRecordedAt).
		Vals(goqu.Vals{
			entry.OperationID.String(),
			entry.OperationName,
			entry.OperationType,
			entry.Query,
			goqu.L(castJsonb, string(entry.VariablesJSON)),
			entry.RecordedAt,
		}).
		OnConflict(goqu.DoNothing())

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (j Journal) buildSelectQuery(filter LoadFilter) (string, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(j.tableName).
		Select(
			goqu.Cast(goqu.C(colOperationID), castText),
			colOperationName,
			colOperationType,
			colQuery,
			colVariables,
			colRecordedAt,
		).
		Order(goqu.C(colRecordedAt).Asc(), goqu.C(colOperationID).Asc())

	conditions := make([]goqu.Expression, 0)

	if filter.OperationName != "" {
		conditions = append(conditions, goqu.C(colOperationName).Eq(filter.OperationName))
	}

	if filter.OperationType != "" {
		conditions = append(conditions, goqu.C(colOperationType).Eq(filter.OperationType))
	}

	if !filter.RecordedFrom.IsZero() {
		conditions = append(conditions, goqu.C(colRecordedAt).Gte(filter.RecordedFrom.UTC()))
	}

	if !filter.RecordedUntil.IsZero() {
		conditions = append(conditions, goqu.C(colRecordedAt).Lte(filter.RecordedUntil.UTC()))
	}

	if len(conditions) > 0 {
		selectStmt = selectStmt.Where(goqu.And(conditions...))
	}

	if filter.Limit > 0 {
		selectStmt = selectStmt.Limit(filter.Limit)
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}
