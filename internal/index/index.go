package index

import "context"

// Store defines the snapshot operations the janitor and its callers use.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with fakes.
type Store interface {
	Replace(ctx context.Context, s Snapshot) error
	Backlinks(ctx context.Context, target string) ([]Backlink, error)
	Rank(ctx context.Context, title string) (float64, error)
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)
