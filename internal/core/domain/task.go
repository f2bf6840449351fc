package domain

// Annotation is a single annotation record attached to a task. The annotation
// payload is authored by the remote server and treated as opaque JSON.
type Annotation map[string]any

// TaskMeta is the metadata block attached to a task. Tasks created by this
// engine always carry the originating row ID; tasks created by other clients
// may not, and are excluded from reconciliation.
type TaskMeta struct {
	RowID RowID `json:"rowid,omitempty"`
}

// Task is the remote unit of annotatable work.
type Task struct {
	// ID is the server-assigned task identifier.
	ID int `json:"id"`

	// Data maps remote field names to their values.
	Data map[string]any `json:"data"`

	// Meta carries the row correlation key.
	Meta TaskMeta `json:"meta"`

	// Annotations is the list of annotation records, possibly empty.
	Annotations []Annotation `json:"annotations"`
}

// TaskPage is one page of a paginated task listing.
type TaskPage struct {
	// Tasks are the tasks on this page, in server order.
	Tasks []Task `json:"tasks"`

	// EndPagination is set when no further pages exist.
	EndPagination bool `json:"end_pagination"`
}

// PushRecord is a task to be created on the remote server.
type PushRecord struct {
	// Data maps remote field names to values.
	Data map[string]any `json:"data"`

	// Meta tags the new task with its originating row ID.
	Meta TaskMeta `json:"meta"`
}

// UpdateRecord is a single-column row update produced by a pull. A nil Value
// clears the column: an empty annotation list on the remote side must erase
// previously pulled annotations, which is distinct from a row that was never
// synced.
type UpdateRecord struct {
	// RowID identifies the row to update.
	RowID RowID

	// Column is the local column to set.
	Column string

	// Value is the new value; nil clears the column.
	Value any
}

// ProjectParams are the declared parameters of a remote annotation project.
type ProjectParams struct {
	// ID is the remote project identifier.
	ID int `json:"id"`

	// Title is the project's display name.
	Title string `json:"title"`

	// LabelConfig is the XML labeling configuration declaring the project's
	// input fields.
	LabelConfig string `json:"label_config"`
}
