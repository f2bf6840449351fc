package driven

import (
	"context"

	"github.com/variantlabs/annosync/internal/core/domain"
)

// Project exposes the task primitives of one resolved remote annotation
// project.
type Project interface {
	// Params returns the project's declared parameters.
	Params(ctx context.Context) (domain.ProjectParams, error)

	// GetPaginatedTasks fetches one page of the project's tasks. Pages are
	// numbered from 1; the returned page signals exhaustion via
	// EndPagination.
	GetPaginatedTasks(ctx context.Context, page, pageSize int) (domain.TaskPage, error)

	// ImportTasks bulk-creates tasks and returns the created task IDs in
	// record order. The call is not atomic: a mid-batch failure may leave
	// earlier tasks created.
	ImportTasks(ctx context.Context, recs []domain.PushRecord) ([]int, error)

	// ImportFile creates a single task by uploading a local media file and
	// returns the created task IDs.
	ImportFile(ctx context.Context, path string) ([]int, error)

	// UpdateTask replaces a task's metadata.
	UpdateTask(ctx context.Context, taskID int, meta domain.TaskMeta) error
}

// ProjectService resolves and creates remote annotation projects.
type ProjectService interface {
	// GetProject resolves an existing project by ID. An unreachable server
	// or missing project yields domain.ErrConnectivity.
	GetProject(ctx context.Context, id int) (Project, error)

	// CreateProject creates a new project with the given title and label
	// config.
	CreateProject(ctx context.Context, title, labelConfig string) (Project, error)
}
