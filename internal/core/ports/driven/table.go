package driven

import (
	"context"

	"github.com/variantlabs/annosync/internal/core/domain"
)

// RowIterator is a lazy, single-pass cursor over selected rows. A fresh
// selection is required to iterate again.
type RowIterator interface {
	// Next advances to the next row, returning false at the end of the
	// selection or on error.
	Next() bool

	// Row returns the current row. Valid only after a true Next.
	Row() domain.Row

	// Err returns the error that terminated iteration, if any.
	Err() error

	// Close releases the cursor.
	Close() error
}

// Table exposes the local table operations the sync engine consumes.
// Implementations must keep media local paths valid for the duration of a
// selection pass.
type Table interface {
	// Name returns the table name.
	Name() string

	// ColumnTypes returns the declared type of every column.
	ColumnTypes(ctx context.Context) (map[string]domain.ColumnType, error)

	// IsStored reports whether a column's values are durably materialized.
	// Media columns must be stored to participate in a push.
	IsStored(ctx context.Context, column string) (bool, error)

	// Select returns a lazy iterator over the given projections.
	Select(ctx context.Context, sels []domain.Selector) (RowIterator, error)

	// BatchUpdate applies all updates as one logical operation.
	BatchUpdate(ctx context.Context, updates []domain.UpdateRecord) error
}

// TableCatalog opens tables by name.
type TableCatalog interface {
	// OpenTable returns the named table, or domain.ErrNotFound.
	OpenTable(ctx context.Context, name string) (Table, error)
}
