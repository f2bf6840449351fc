// Package memory provides in-memory implementations of the storage ports.
// They back unit tests and small experiments; production use goes through
// the sqlite package.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/variantlabs/annosync/internal/core/domain"
	"github.com/variantlabs/annosync/internal/core/ports/driven"
)

// Ensure Table implements the interface.
var _ driven.Table = (*Table)(nil)

// TableRow is one stored row of an in-memory table.
type TableRow struct {
	RowID domain.RowID
	Vals  map[string]any
}

// Table is an in-memory implementation of driven.Table. Media values are
// stored as strings: a local filesystem path or an http(s) URL.
type Table struct {
	mu       sync.RWMutex
	name     string
	cols     map[string]domain.ColumnType
	unstored map[string]bool
	rows     []TableRow

	// Updates records every BatchUpdate call, for assertions.
	Updates [][]domain.UpdateRecord
}

// NewTable creates an in-memory table with the given columns.
func NewTable(name string, cols map[string]domain.ColumnType) *Table {
	copied := make(map[string]domain.ColumnType, len(cols))
	for k, v := range cols {
		copied[k] = v
	}
	return &Table{
		name:     name,
		cols:     copied,
		unstored: make(map[string]bool),
	}
}

// AddRow appends a row.
func (t *Table) AddRow(rowID domain.RowID, vals map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, TableRow{RowID: rowID, Vals: vals})
}

// SetUnstored marks a column as computed rather than materialized.
func (t *Table) SetUnstored(column string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.unstored[column] = true
}

// Rows returns a snapshot of the stored rows.
func (t *Table) Rows() []TableRow {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]TableRow, len(t.rows))
	copy(out, t.rows)
	return out
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// ColumnTypes returns the declared type of every column.
func (t *Table) ColumnTypes(_ context.Context) (map[string]domain.ColumnType, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]domain.ColumnType, len(t.cols))
	for k, v := range t.cols {
		out[k] = v
	}
	return out, nil
}

// IsStored reports whether a column is materialized.
func (t *Table) IsStored(_ context.Context, column string) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if _, ok := t.cols[column]; !ok {
		return false, fmt.Errorf("%w: column %q", domain.ErrNotFound, column)
	}
	return !t.unstored[column], nil
}

// Select returns a single-pass iterator over the requested projections.
func (t *Table) Select(_ context.Context, sels []domain.Selector) (driven.RowIterator, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, sel := range sels {
		if _, ok := t.cols[sel.Column]; !ok {
			return nil, fmt.Errorf("%w: column %q", domain.ErrNotFound, sel.Column)
		}
	}
	rows := make([]domain.Row, 0, len(t.rows))
	for _, r := range t.rows {
		vals := make([]any, len(sels))
		for i, sel := range sels {
			vals[i] = project(r.Vals[sel.Column], sel.Kind)
		}
		rows = append(rows, domain.Row{RowID: r.RowID, Vals: vals})
	}
	return &rowIterator{rows: rows, pos: -1}, nil
}

// BatchUpdate applies all updates in one pass and records the call.
func (t *Table) BatchUpdate(_ context.Context, updates []domain.UpdateRecord) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, u := range updates {
		if _, ok := t.cols[u.Column]; !ok {
			return fmt.Errorf("%w: column %q", domain.ErrNotFound, u.Column)
		}
		for i := range t.rows {
			if t.rows[i].RowID.Equal(u.RowID) {
				t.rows[i].Vals[u.Column] = u.Value
				break
			}
		}
	}
	recorded := make([]domain.UpdateRecord, len(updates))
	copy(recorded, updates)
	t.Updates = append(t.Updates, recorded)
	return nil
}

// project derives a selector projection from a stored value. Media values
// are strings: URLs stay URLs, local paths gain a file:// prefix under the
// URL projection and lose it under the path projection.
func project(val any, kind domain.SelectorKind) any {
	s, isString := val.(string)
	switch kind {
	case domain.SelectLocalPath:
		if !isString {
			return val
		}
		if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
			return ""
		}
		return strings.TrimPrefix(s, "file://")
	case domain.SelectFileURL:
		if !isString {
			return val
		}
		if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
			return s
		}
		return "file://" + strings.TrimPrefix(s, "file://")
	default:
		return val
	}
}

type rowIterator struct {
	rows   []domain.Row
	pos    int
	closed bool
}

func (it *rowIterator) Next() bool {
	if it.closed || it.pos+1 >= len(it.rows) {
		return false
	}
	it.pos++
	return true
}

func (it *rowIterator) Row() domain.Row { return it.rows[it.pos] }

func (it *rowIterator) Err() error { return nil }

func (it *rowIterator) Close() error {
	it.closed = true
	return nil
}

// Catalog is an in-memory implementation of driven.TableCatalog.
type Catalog struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

// Ensure Catalog implements the interface.
var _ driven.TableCatalog = (*Catalog)(nil)

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{tables: make(map[string]*Table)}
}

// Add registers a table under its name.
func (c *Catalog) Add(t *Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables[t.Name()] = t
}

// OpenTable returns the named table, or domain.ErrNotFound.
func (c *Catalog) OpenTable(_ context.Context, name string) (driven.Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: table %q", domain.ErrNotFound, name)
	}
	return t, nil
}
