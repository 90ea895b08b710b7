package journal

import "errors"

var ErrNilDatabaseConnection = errors.New("nil database connection supplied")
var ErrEmptyTableName = errors.New("empty table name supplied")
var ErrInvalidQueueSize = errors.New("queue size must be at least one")
var ErrNilClock = errors.New("nil clock supplied")
var ErrNilOperation = errors.New("nil operation supplied")
var ErrMarshalingVariablesFailed = errors.New("marshaling operation variables failed")
var ErrInvalidVariablesJSON = errors.New("variables json is not valid")
var ErrBuildingQueryFailed = errors.New("building query failed")
var ErrEnsuringSchemaFailed = errors.New("ensuring journal schema failed")
var ErrAppendingEntryFailed = errors.New("appending journal entry failed")
var ErrEntryAlreadyRecorded = errors.New("journal entry already recorded")
var ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")
var ErrLoadingEntriesFailed = errors.New("loading journal entries failed")
var ErrScanningDBRowFailed = errors.New("scanning db row failed")
