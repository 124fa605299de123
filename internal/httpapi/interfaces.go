package httpapi

import (
	"context"

	"schoolbooks/internal/books"
	"schoolbooks/internal/service/entry"
	"schoolbooks/internal/service/registry"
)

// Store aggregates the persistence capabilities the HTTP layer needs. Both
// the memory and postgres stores satisfy it.
type Store interface {
	entry.Repo
	entry.Writer
	registry.Repo
	registry.Writer
	Snapshot(ctx context.Context) (map[books.Book][]books.Entry, error)
}

// ReadyChecker is implemented by stores that can report readiness.
type ReadyChecker interface {
	Ready(ctx context.Context) error
}
