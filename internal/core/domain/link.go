package domain

import "time"

// ProjectLink connects a local table to a remote annotation project. The link
// persists only the project's integer identifier; the live project handle is
// re-resolved lazily on first use rather than validated eagerly on load.
type ProjectLink struct {
	// ID is the unique identifier for the link.
	ID string

	// TableName is the local table this link syncs.
	TableName string

	// ProjectID is the remote project identifier.
	ProjectID int

	// Mapping is the declared local-to-remote column mapping.
	Mapping ColumnMapping

	// Push enables creation of remote tasks for unsynced rows.
	Push bool

	// Pull enables writing remote annotations back into the table.
	Pull bool

	// CreatedAt is when the link was created.
	CreatedAt time.Time
}

// ProjectRef is the minimal serialized form of a project handle: only the
// remote project's identifier. Deserializing a ref never contacts the
// server; the handle re-resolves lazily on first use.
type ProjectRef struct {
	ProjectID int `json:"project_id"`
}

// Ref returns the link's serializable project reference.
func (l ProjectLink) Ref() ProjectRef {
	return ProjectRef{ProjectID: l.ProjectID}
}
