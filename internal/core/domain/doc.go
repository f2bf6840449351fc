// Package domain defines the core business entities for annosync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Task: A remote unit of annotatable work, correlated to a row
//   - RowID: The stable row coordinate used as the correlation key
//   - ColumnType: The declared type of a column or remote field
//   - ColumnMapping: The local-to-remote column name bijection
//   - ProjectLink: The persisted link between a table and a project
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
