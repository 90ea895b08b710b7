package journal_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AntonStoeckl/graphql-effects-link-go/effects/journal/internal/adapters"
)

// fakeRow is one row served by fakeDB in the column order of the journal select.
type fakeRow struct {
	operationID   string
	operationName string
	operationType string
	query         string
	variablesJSON []byte
	recordedAt    time.Time
}

// fakeDB is an adapters.DBAdapter recording all statements.
// Exec signals started on entry and blocks while gate is non-nil and not yet closed.
type fakeDB struct {
	mu           sync.Mutex
	execs        []string
	queries      []string
	execErr      error
	queryErr     error
	rowsAffected int64
	rows         []fakeRow
	gate         chan struct{}
	started      chan struct{}
	executed     chan string
	cancelled    atomic.Int32
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		rowsAffected: 1,
		started:      make(chan struct{}, 64),
		executed:     make(chan string, 64),
	}
}

func (f *fakeDB) Query(_ context.Context, query string) (adapters.DBRows, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queries = append(f.queries, query)
	if f.queryErr != nil {
		return nil, f.queryErr
	}

	return &fakeRows{rows: append([]fakeRow(nil), f.rows...), index: -1}, nil
}

func (f *fakeDB) Exec(ctx context.Context, query string) (adapters.DBResult, error) {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()

	select {
	case f.started <- struct{}{}:
	default:
	}

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			f.cancelled.Add(1)
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	f.execs = append(f.execs, query)
	execErr := f.execErr
	rowsAffected := f.rowsAffected
	f.mu.Unlock()

	select {
	case f.executed <- query:
	default:
	}

	if execErr != nil {
		return nil, execErr
	}

	return fakeResult{rowsAffected: rowsAffected}, nil
}

func (f *fakeDB) Driver() string {
	return "fake"
}

func (f *fakeDB) setExecErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.execErr = err
}

func (f *fakeDB) closeGate() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.gate = make(chan struct{})
}

func (f *fakeDB) openGate() {
	f.mu.Lock()
	defer f.mu.Unlock()

	close(f.gate)
}

func (f *fakeDB) getExecs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.execs...)
}

func (f *fakeDB) getQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.queries...)
}

type fakeResult struct {
	rowsAffected int64
}

func (r fakeResult) RowsAffected() (int64, error) {
	return r.rowsAffected, nil
}

type fakeRows struct {
	rows  []fakeRow
	index int
}

func (r *fakeRows) Next() bool {
	r.index++
	return r.index < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	if len(dest) != 6 {
		return errors.New("unexpected column count")
	}

	row := r.rows[r.index]
	*(dest[0].(*string)) = row.operationID
	*(dest[1].(*string)) = row.operationName
	*(dest[2].(*string)) = row.operationType
	*(dest[3].(*string)) = row.query
	*(dest[4].(*[]byte)) = row.variablesJSON
	*(dest[5].(*time.Time)) = row.recordedAt

	return nil
}

func (r *fakeRows) Err() error {
	return nil
}

func (r *fakeRows) Close() error {
	return nil
}
