package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/variantlabs/annosync/internal/core/domain"
	"github.com/variantlabs/annosync/internal/core/ports/driven"
	"github.com/variantlabs/annosync/internal/core/ports/driving"
	"github.com/variantlabs/annosync/internal/logger"
)

// Ensure SyncService implements the interface.
var _ driving.Syncer = (*SyncService)(nil)

// SyncService coordinates synchronisation between local tables and remote
// annotation projects. It performs no internal locking: concurrent use is
// safe only if the underlying table and remote adapters are.
type SyncService struct {
	links  driven.LinkStore
	tables driven.TableCatalog
	remote driven.ProjectService

	// handles memoizes resolved project handles by project ID.
	handles map[int]*projectHandle
}

// NewSyncService creates a new sync service.
func NewSyncService(
	links driven.LinkStore,
	tables driven.TableCatalog,
	remote driven.ProjectService,
) *SyncService {
	return &SyncService{
		links:   links,
		tables:  tables,
		remote:  remote,
		handles: make(map[int]*projectHandle),
	}
}

// Link validates and persists a new project link.
func (s *SyncService) Link(ctx context.Context, req driving.LinkRequest) (*domain.ProjectLink, error) {
	if err := req.Mapping.Validate(); err != nil {
		return nil, err
	}

	table, err := s.tables.OpenTable(ctx, req.TableName)
	if err != nil {
		return nil, fmt.Errorf("open table %q: %w", req.TableName, err)
	}
	colTypes, err := table.ColumnTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("column types: %w", err)
	}
	for local := range req.Mapping {
		if _, ok := colTypes[local]; !ok {
			return nil, fmt.Errorf("%w: table %q has no column %q",
				domain.ErrInvalidInput, req.TableName, local)
		}
	}
	if req.Pull {
		if _, ok := req.Mapping.LocalFor(domain.AnnotationsField); !ok {
			return nil, fmt.Errorf("%w: a pulling link must map a column to the %q field",
				domain.ErrValidation, domain.AnnotationsField)
		}
	}

	projectID := req.ProjectID
	if req.CreateProject {
		proj, err := s.remote.CreateProject(ctx, req.Title, req.LabelConfig)
		if err != nil {
			return nil, fmt.Errorf("create project: %w", err)
		}
		params, err := proj.Params(ctx)
		if err != nil {
			return nil, fmt.Errorf("project params: %w", err)
		}
		projectID = params.ID
	}

	link := domain.ProjectLink{
		ID:        uuid.NewString(),
		TableName: req.TableName,
		ProjectID: projectID,
		Mapping:   req.Mapping,
		Push:      req.Push,
		Pull:      req.Pull,
		CreatedAt: time.Now(),
	}
	if err := s.links.Save(ctx, link); err != nil {
		return nil, fmt.Errorf("save link: %w", err)
	}
	return &link, nil
}

// Unlink removes a link. The table and the remote project are untouched.
func (s *SyncService) Unlink(ctx context.Context, linkID string) error {
	return s.links.Delete(ctx, linkID)
}

// Links lists all persisted links.
func (s *SyncService) Links(ctx context.Context) ([]domain.ProjectLink, error) {
	return s.links.List(ctx)
}

// Sync runs one sync invocation for a link: parse the project's label config,
// scan all remote tasks once, then pull and push as the link and options
// direct. Push reuses the scanned task set rather than paginating again.
func (s *SyncService) Sync(ctx context.Context, linkID string, opts driving.SyncOptions) (*driving.SyncResult, error) {
	link, err := s.links.Get(ctx, linkID)
	if err != nil {
		return nil, fmt.Errorf("get link: %w", err)
	}
	table, err := s.tables.OpenTable(ctx, link.TableName)
	if err != nil {
		return nil, fmt.Errorf("open table %q: %w", link.TableName, err)
	}

	push, pull := link.Push, link.Pull
	if opts.PushOnly {
		pull = false
	}
	if opts.PullOnly {
		push = false
	}

	proj, err := s.handle(link.ProjectID).resolve(ctx)
	if err != nil {
		return nil, err
	}
	params, err := proj.Params(ctx)
	if err != nil {
		return nil, fmt.Errorf("project params: %w", err)
	}
	pushFields, err := ParseLabelConfig(params.LabelConfig)
	if err != nil {
		return nil, err
	}

	logger.Info("Syncing project %q with table %q (push: %t, pull: %t)",
		params.Title, link.TableName, push, pull)

	tasks, skipped, err := scanTasks(ctx, proj)
	if err != nil {
		return nil, err
	}

	result := &driving.SyncResult{
		LinkID:       link.ID,
		ProjectTitle: params.Title,
		SkippedTasks: skipped,
	}
	if pull {
		rows, anns, err := pullAnnotations(ctx, table, link.Mapping, tasks)
		if err != nil {
			return nil, err
		}
		result.RowsUpdated, result.AnnotationsSynced = rows, anns
	}
	if push {
		created, err := pushRows(ctx, proj, table, link.Mapping, pushFields, tasks)
		if err != nil {
			return nil, err
		}
		result.TasksCreated = created
	}

	logger.Info("Sync complete: %d task(s) created, %d row(s) updated, %d annotation(s)",
		result.TasksCreated, result.RowsUpdated, result.AnnotationsSynced)
	return result, nil
}

// SyncAll runs Sync for every persisted link, continuing past per-link
// failures and joining the errors.
func (s *SyncService) SyncAll(ctx context.Context, opts driving.SyncOptions) ([]driving.SyncResult, error) {
	links, err := s.links.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}

	var results []driving.SyncResult
	var errs []error
	for _, link := range links {
		res, err := s.Sync(ctx, link.ID, opts)
		if err != nil {
			errs = append(errs, fmt.Errorf("sync %s: %w", link.ID, err))
			continue
		}
		results = append(results, *res)
	}
	if len(errs) > 0 {
		return results, errors.Join(errs...)
	}
	return results, nil
}

// PushColumns returns the remote fields the project accepts on push, parsed
// from its label config.
func (s *SyncService) PushColumns(ctx context.Context, projectID int) (map[string]domain.ColumnType, error) {
	proj, err := s.handle(projectID).resolve(ctx)
	if err != nil {
		return nil, err
	}
	params, err := proj.Params(ctx)
	if err != nil {
		return nil, fmt.Errorf("project params: %w", err)
	}
	return ParseLabelConfig(params.LabelConfig)
}

// PullColumns returns the remote fields a project produces on pull. Every
// project produces exactly the nullable annotations field.
func (s *SyncService) PullColumns(_ context.Context, _ int) (map[string]domain.ColumnType, error) {
	return map[string]domain.ColumnType{
		domain.AnnotationsField: {Kind: domain.KindJSON, Nullable: true},
	}, nil
}

// handle returns the memoized project handle for a project ID, creating it
// on first use.
func (s *SyncService) handle(projectID int) *projectHandle {
	h, ok := s.handles[projectID]
	if !ok {
		h = newProjectHandle(s.remote, projectID)
		s.handles[projectID] = h
	}
	return h
}
