package journal

import "github.com/AntonStoeckl/graphql-effects-link-go/effects/journal/internal/adapters"

// NewJournalWithAdapter exposes the adapter based constructor to the tests.
func NewJournalWithAdapter(db adapters.DBAdapter, options ...Option) (Journal, error) {
	return newJournal(db, options...)
}
