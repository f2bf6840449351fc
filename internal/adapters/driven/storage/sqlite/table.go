package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/variantlabs/annosync/internal/core/domain"
	"github.com/variantlabs/annosync/internal/core/ports/driven"
)

// Ensure the interfaces are implemented.
var (
	_ driven.TableCatalog = (*catalog)(nil)
	_ driven.Table        = (*userTable)(nil)
)

// catalog opens user tables by name.
type catalog struct {
	store *Store
}

// OpenTable returns the named table, or domain.ErrNotFound. Annosync's own
// metadata tables are not exposed.
func (c *catalog) OpenTable(ctx context.Context, name string) (driven.Table, error) {
	if name == "project_links" || name == "schema_migrations" {
		return nil, fmt.Errorf("%w: table %q", domain.ErrNotFound, name)
	}
	var n int
	err := c.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&n)
	if err != nil {
		return nil, fmt.Errorf("lookup table %q: %w", name, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: table %q", domain.ErrNotFound, name)
	}
	return &userTable{store: c.store, name: name}, nil
}

// userTable adapts one SQLite table to the Table port. The row coordinate is
// the table's single-element rowid. Media columns hold a local filesystem
// path or an http(s) URL as text; the declared column type (IMAGE, VIDEO,
// AUDIO) selects the media kind.
type userTable struct {
	store *Store
	name  string
}

// columnInfo is one row of PRAGMA table_xinfo.
type columnInfo struct {
	name    string
	decl    string
	notNull bool
	hidden  int
}

// Name returns the table name.
func (t *userTable) Name() string { return t.name }

func (t *userTable) columns(ctx context.Context) ([]columnInfo, error) {
	rows, err := t.store.db.QueryContext(ctx, "SELECT name, type, \"notnull\", hidden FROM pragma_table_xinfo(?)", t.name)
	if err != nil {
		return nil, fmt.Errorf("table info %q: %w", t.name, err)
	}
	defer rows.Close()

	var cols []columnInfo
	for rows.Next() {
		var ci columnInfo
		if err := rows.Scan(&ci.name, &ci.decl, &ci.notNull, &ci.hidden); err != nil {
			return nil, fmt.Errorf("scan table info: %w", err)
		}
		cols = append(cols, ci)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("table info %q: %w", t.name, err)
	}
	return cols, nil
}

// ColumnTypes returns the declared type of every column, derived from the
// column's SQLite declared type.
func (t *userTable) ColumnTypes(ctx context.Context) (map[string]domain.ColumnType, error) {
	cols, err := t.columns(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.ColumnType, len(cols))
	for _, ci := range cols {
		ct := columnTypeFor(ci.decl)
		ct.Nullable = !ci.notNull
		out[ci.name] = ct
	}
	return out, nil
}

// IsStored reports whether a column is materialized. VIRTUAL generated
// columns are computed on read and not stored; everything else is.
func (t *userTable) IsStored(ctx context.Context, column string) (bool, error) {
	cols, err := t.columns(ctx)
	if err != nil {
		return false, err
	}
	for _, ci := range cols {
		if ci.name == column {
			// hidden == 2 marks a VIRTUAL generated column
			return ci.hidden != 2, nil
		}
	}
	return false, fmt.Errorf("%w: column %q", domain.ErrNotFound, column)
}

// Select returns a lazy, single-pass iterator over the requested
// projections, in rowid order.
func (t *userTable) Select(ctx context.Context, sels []domain.Selector) (driven.RowIterator, error) {
	types, err := t.ColumnTypes(ctx)
	if err != nil {
		return nil, err
	}
	exprs := make([]string, len(sels))
	for i, sel := range sels {
		if _, ok := types[sel.Column]; !ok {
			return nil, fmt.Errorf("%w: column %q", domain.ErrNotFound, sel.Column)
		}
		exprs[i] = quoteIdent(sel.Column)
	}
	query := fmt.Sprintf("SELECT rowid, %s FROM %s ORDER BY rowid",
		strings.Join(exprs, ", "), quoteIdent(t.name))
	rows, err := t.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select from %q: %w", t.name, err)
	}
	return &rowIterator{rows: rows, sels: sels}, nil
}

// BatchUpdate applies all updates in a single transaction.
func (t *userTable) BatchUpdate(ctx context.Context, updates []domain.UpdateRecord) error {
	tx, err := t.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	for _, u := range updates {
		if len(u.RowID) != 1 {
			return fmt.Errorf("%w: row ID %s is not a SQLite rowid", domain.ErrInvalidInput, u.RowID)
		}
		val, err := bindValue(u.Value)
		if err != nil {
			return err
		}
		query := fmt.Sprintf("UPDATE %s SET %s = ? WHERE rowid = ?",
			quoteIdent(t.name), quoteIdent(u.Column))
		if _, err := tx.ExecContext(ctx, query, val, u.RowID[0]); err != nil {
			return fmt.Errorf("update row %s: %w", u.RowID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update: %w", err)
	}
	return nil
}

// bindValue converts an update value to a SQLite binding. Structured values
// (annotation lists) are stored as JSON text; nil stays NULL.
func bindValue(v any) (any, error) {
	switch v.(type) {
	case nil, string, int, int64, float64, bool, []byte:
		return v, nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode value: %w", err)
		}
		return string(b), nil
	}
}

// columnTypeFor maps a SQLite declared type to a column type, honouring the
// media declarations (IMAGE, VIDEO, AUDIO) annosync tables use.
func columnTypeFor(decl string) domain.ColumnType {
	switch d := strings.ToUpper(strings.TrimSpace(decl)); {
	case d == "IMAGE":
		return domain.ColumnType{Kind: domain.KindImage}
	case d == "VIDEO":
		return domain.ColumnType{Kind: domain.KindVideo}
	case d == "AUDIO":
		return domain.ColumnType{Kind: domain.KindAudio}
	case d == "JSON":
		return domain.ColumnType{Kind: domain.KindJSON}
	case d == "BOOLEAN" || d == "BOOL":
		return domain.ColumnType{Kind: domain.KindBool}
	case strings.Contains(d, "INT"):
		return domain.ColumnType{Kind: domain.KindInt}
	case strings.Contains(d, "REAL"), strings.Contains(d, "FLOA"), strings.Contains(d, "DOUB"):
		return domain.ColumnType{Kind: domain.KindFloat}
	case strings.Contains(d, "DATE"), strings.Contains(d, "TIME"):
		return domain.ColumnType{Kind: domain.KindTimestamp}
	default:
		return domain.ColumnType{Kind: domain.KindString}
	}
}

// rowIterator adapts sql.Rows to the RowIterator port.
type rowIterator struct {
	rows *sql.Rows
	sels []domain.Selector
	cur  domain.Row
	err  error
}

func (it *rowIterator) Next() bool {
	if it.err != nil || !it.rows.Next() {
		return false
	}
	var rowid int64
	raw := make([]any, len(it.sels))
	dest := make([]any, len(it.sels)+1)
	dest[0] = &rowid
	for i := range raw {
		dest[i+1] = &raw[i]
	}
	if err := it.rows.Scan(dest...); err != nil {
		it.err = fmt.Errorf("scan row: %w", err)
		return false
	}

	vals := make([]any, len(it.sels))
	for i, sel := range it.sels {
		vals[i] = projectValue(normalize(raw[i]), sel.Kind)
	}
	it.cur = domain.Row{RowID: domain.RowID{int(rowid)}, Vals: vals}
	return true
}

func (it *rowIterator) Row() domain.Row { return it.cur }

func (it *rowIterator) Err() error {
	if it.err != nil {
		return it.err
	}
	return it.rows.Err()
}

func (it *rowIterator) Close() error { return it.rows.Close() }

// normalize converts driver byte slices to strings.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// projectValue derives a selector projection from a stored value. Media
// values are text: URLs stay URLs, local paths gain a file:// prefix under
// the URL projection and lose it under the path projection.
func projectValue(val any, kind domain.SelectorKind) any {
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
