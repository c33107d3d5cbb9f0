package postgres

import "context"

// Tx is the minimal transaction surface repositories expose to services.
// The pgx implementations return a pgx.Tx behind this interface; tests
// substitute fakes.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
