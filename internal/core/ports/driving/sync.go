package driving

import (
	"context"

	"github.com/variantlabs/annosync/internal/core/domain"
)

// LinkRequest describes a new link between a local table and a remote
// project.
type LinkRequest struct {
	// TableName is the local table to link.
	TableName string

	// ProjectID is the remote project to link against. Ignored when
	// CreateProject is set.
	ProjectID int

	// Mapping is the local-to-remote column mapping.
	Mapping domain.ColumnMapping

	// Push enables task creation for unsynced rows.
	Push bool

	// Pull enables writing annotations back into the table.
	Pull bool

	// CreateProject creates a fresh remote project instead of linking an
	// existing one.
	CreateProject bool

	// Title is the new project's title when CreateProject is set.
	Title string

	// LabelConfig is the new project's label config when CreateProject is
	// set.
	LabelConfig string
}

// SyncOptions selects the directions of one sync invocation. Zero-value
// options sync in the directions the link declares.
type SyncOptions struct {
	// PushOnly restricts the sync to pushing.
	PushOnly bool

	// PullOnly restricts the sync to pulling.
	PullOnly bool
}

// SyncResult reports what one sync invocation did.
type SyncResult struct {
	// LinkID identifies the synced link.
	LinkID string

	// ProjectTitle is the remote project's display name.
	ProjectTitle string

	// TasksCreated is the number of remote tasks created by push.
	TasksCreated int

	// RowsUpdated is the number of local rows updated by pull.
	RowsUpdated int

	// AnnotationsSynced is the total number of annotation records pulled.
	AnnotationsSynced int

	// SkippedTasks is the number of remote tasks without a row ID, excluded
	// from reconciliation.
	SkippedTasks int
}

// Syncer coordinates synchronisation between local tables and remote
// annotation projects.
type Syncer interface {
	// Link validates and persists a new project link.
	Link(ctx context.Context, req LinkRequest) (*domain.ProjectLink, error)

	// Unlink removes a link. Neither the table nor the remote project is
	// touched.
	Unlink(ctx context.Context, linkID string) error

	// Links lists all persisted links.
	Links(ctx context.Context) ([]domain.ProjectLink, error)

	// Sync runs one sync invocation for a link.
	Sync(ctx context.Context, linkID string, opts SyncOptions) (*SyncResult, error)

	// SyncAll runs Sync for every persisted link.
	SyncAll(ctx context.Context, opts SyncOptions) ([]SyncResult, error)

	// PushColumns returns the remote fields a project accepts on push,
	// parsed from its label config.
	PushColumns(ctx context.Context, projectID int) (map[string]domain.ColumnType, error)

	// PullColumns returns the remote fields a project produces on pull.
	PullColumns(ctx context.Context, projectID int) (map[string]domain.ColumnType, error)
}
