package domain

// SelectorKind chooses which projection of a column a select yields.
type SelectorKind int

const (
	// SelectValue yields the stored column value.
	SelectValue SelectorKind = iota

	// SelectLocalPath yields the local filesystem path of a media value,
	// materializing the cached file if necessary.
	SelectLocalPath

	// SelectFileURL yields a URL form of a media value: the stored URL for
	// remote media, or a file:// URL for media that exists only locally.
	SelectFileURL
)

// Selector names a column and the projection to select it under.
type Selector struct {
	// Column is the local column name.
	Column string

	// Kind is the projection to apply.
	Kind SelectorKind
}

// Row is one row yielded by a table selection: its coordinate plus one value
// per selector, in selector order.
type Row struct {
	// RowID is the row's stable coordinate.
	RowID RowID

	// Vals are the selected values, aligned with the select list.
	Vals []any
}
