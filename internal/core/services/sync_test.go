package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/variantlabs/annosync/internal/adapters/driven/storage/memory"
	"github.com/variantlabs/annosync/internal/core/domain"
	"github.com/variantlabs/annosync/internal/core/ports/driving"
)

const textOnlyConfig = `<View><Text name="t" value="$text"/></View>`

// syncFixture wires a SyncService over in-memory adapters and one mock
// project.
type syncFixture struct {
	svc     *SyncService
	links   *memory.LinkStore
	catalog *memory.Catalog
	table   *memory.Table
	proj    *mockProject
	remote  *mockProjectService
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()
	table := memory.NewTable("docs", map[string]domain.ColumnType{
		"caption": {Kind: domain.KindString},
		"results": {Kind: domain.KindJSON, Nullable: true},
	})
	table.AddRow(domain.RowID{1}, map[string]any{"caption": "a"})
	table.AddRow(domain.RowID{2}, map[string]any{"caption": "b"})
	catalog := memory.NewCatalog()
	catalog.Add(table)

	proj := &mockProject{params: domain.ProjectParams{
		ID:          7,
		Title:       "captions",
		LabelConfig: textOnlyConfig,
	}}
	remote := newMockProjectService(proj)
	links := memory.NewLinkStore()
	return &syncFixture{
		svc:     NewSyncService(links, catalog, remote),
		links:   links,
		catalog: catalog,
		table:   table,
		proj:    proj,
		remote:  remote,
	}
}

func (f *syncFixture) linked(t *testing.T, push, pull bool) *domain.ProjectLink {
	t.Helper()
	link, err := f.svc.Link(context.Background(), driving.LinkRequest{
		TableName: "docs",
		ProjectID: 7,
		Mapping:   domain.ColumnMapping{"caption": "text", "results": "annotations"},
		Push:      push,
		Pull:      pull,
	})
	require.NoError(t, err)
	return link
}

func TestLink_PersistsValidatedLink(t *testing.T) {
	f := newSyncFixture(t)

	link := f.linked(t, true, true)
	assert.NotEmpty(t, link.ID)
	assert.Equal(t, "docs", link.TableName)
	assert.Equal(t, 7, link.ProjectID)
	assert.True(t, link.Push)
	assert.True(t, link.Pull)
	assert.False(t, link.CreatedAt.IsZero())

	stored, err := f.links.Get(context.Background(), link.ID)
	require.NoError(t, err)
	assert.Equal(t, *link, *stored)
}

func TestLink_RejectsNonBijectiveMapping(t *testing.T) {
	f := newSyncFixture(t)

	_, err := f.svc.Link(context.Background(), driving.LinkRequest{
		TableName: "docs",
		ProjectID: 7,
		Mapping:   domain.ColumnMapping{"caption": "text", "results": "text"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLink_RejectsUnknownColumn(t *testing.T) {
	f := newSyncFixture(t)

	_, err := f.svc.Link(context.Background(), driving.LinkRequest{
		TableName: "docs",
		ProjectID: 7,
		Mapping:   domain.ColumnMapping{"missing": "text"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorContains(t, err, "missing")
}

func TestLink_PullRequiresAnnotationsTarget(t *testing.T) {
	f := newSyncFixture(t)

	_, err := f.svc.Link(context.Background(), driving.LinkRequest{
		TableName: "docs",
		ProjectID: 7,
		Mapping:   domain.ColumnMapping{"caption": "text"},
		Pull:      true,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLink_CreatesProject(t *testing.T) {
	f := newSyncFixture(t)

	link, err := f.svc.Link(context.Background(), driving.LinkRequest{
		TableName:     "docs",
		Mapping:       domain.ColumnMapping{"caption": "text"},
		Push:          true,
		CreateProject: true,
		Title:         "fresh",
		LabelConfig:   textOnlyConfig,
	})
	require.NoError(t, err)

	require.Len(t, f.remote.created, 1)
	created := f.remote.created[0]
	assert.Equal(t, "fresh", created.params.Title)
	assert.Equal(t, textOnlyConfig, created.params.LabelConfig)
	assert.Equal(t, created.params.ID, link.ProjectID)
}

func TestSync_FullRound(t *testing.T) {
	f := newSyncFixture(t)
	link := f.linked(t, true, true)

	// One recognized task with an annotation, one foreign task to skip.
	f.proj.pages = []domain.TaskPage{{Tasks: []domain.Task{
		rowIDTask(11, domain.RowID{1}, domain.Annotation{"result": "yes"}),
		{ID: 12},
	}}}

	res, err := f.svc.Sync(context.Background(), link.ID, driving.SyncOptions{})
	require.NoError(t, err)

	assert.Equal(t, link.ID, res.LinkID)
	assert.Equal(t, "captions", res.ProjectTitle)
	assert.Equal(t, 1, res.SkippedTasks)
	assert.Equal(t, 1, res.RowsUpdated)
	assert.Equal(t, 1, res.AnnotationsSynced)
	assert.Equal(t, 1, res.TasksCreated)

	// Pull wrote through the mapped annotations column.
	require.Len(t, f.table.Updates, 1)
	require.Len(t, f.table.Updates[0], 1)
	assert.Equal(t, "results", f.table.Updates[0][0].Column)

	// Push created a task only for the row with no remote counterpart.
	require.Len(t, f.proj.imported, 1)
	require.Len(t, f.proj.imported[0], 1)
	rec := f.proj.imported[0][0]
	assert.Equal(t, domain.RowID{2}, rec.Meta.RowID)
	assert.Equal(t, "b", rec.Data["text"])

	// One data page plus the terminating page: tasks were scanned exactly
	// once, with push reusing the pull's scan.
	assert.Equal(t, 2, f.proj.pageCalls)
}

func TestSync_PullOnlySkipsPush(t *testing.T) {
	f := newSyncFixture(t)
	link := f.linked(t, true, true)
	f.proj.pages = []domain.TaskPage{{Tasks: []domain.Task{
		rowIDTask(11, domain.RowID{1}, domain.Annotation{"result": "yes"}),
	}}}

	res, err := f.svc.Sync(context.Background(), link.ID, driving.SyncOptions{PullOnly: true})
	require.NoError(t, err)

	assert.Zero(t, res.TasksCreated)
	assert.Equal(t, 1, res.RowsUpdated)
	assert.Empty(t, f.proj.imported)
}

func TestSync_PushOnlySkipsPull(t *testing.T) {
	f := newSyncFixture(t)
	link := f.linked(t, true, true)
	f.proj.pages = []domain.TaskPage{{Tasks: []domain.Task{
		rowIDTask(11, domain.RowID{1}, domain.Annotation{"result": "yes"}),
	}}}

	res, err := f.svc.Sync(context.Background(), link.ID, driving.SyncOptions{PushOnly: true})
	require.NoError(t, err)

	assert.Zero(t, res.RowsUpdated)
	assert.Zero(t, res.AnnotationsSynced)
	assert.Equal(t, 1, res.TasksCreated)
	assert.Empty(t, f.table.Updates)
}

func TestSync_UnknownLink(t *testing.T) {
	f := newSyncFixture(t)

	_, err := f.svc.Sync(context.Background(), "no-such-link", driving.SyncOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSync_FailedResolutionIsRetried(t *testing.T) {
	f := newSyncFixture(t)
	link := f.linked(t, true, true)

	f.remote.getErr = errors.New("server unreachable")
	_, err := f.svc.Sync(context.Background(), link.ID, driving.SyncOptions{})
	require.Error(t, err)
	assert.Equal(t, 1, f.remote.getCalls)

	// The failure was not cached: the next sync resolves again.
	f.remote.getErr = nil
	_, err = f.svc.Sync(context.Background(), link.ID, driving.SyncOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, f.remote.getCalls)

	// Success is cached: no further resolution calls.
	_, err = f.svc.Sync(context.Background(), link.ID, driving.SyncOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, f.remote.getCalls)
}

func TestSyncAll_ContinuesPastFailures(t *testing.T) {
	f := newSyncFixture(t)
	good := f.linked(t, true, true)

	// A second link pointing at a project the server does not know.
	bad, err := f.svc.Link(context.Background(), driving.LinkRequest{
		TableName: "docs",
		ProjectID: 99,
		Mapping:   domain.ColumnMapping{"caption": "text"},
		Push:      true,
	})
	require.NoError(t, err)

	results, err := f.svc.SyncAll(context.Background(), driving.SyncOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConnectivity)
	assert.ErrorContains(t, err, bad.ID)

	require.Len(t, results, 1)
	assert.Equal(t, good.ID, results[0].LinkID)
}

func TestPushColumns_ParsesProjectConfig(t *testing.T) {
	f := newSyncFixture(t)

	cols, err := f.svc.PushColumns(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.ColumnType{
		"text": {Kind: domain.KindString},
	}, cols)
}

func TestPullColumns_AlwaysAnnotations(t *testing.T) {
	f := newSyncFixture(t)

	cols, err := f.svc.PullColumns(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.ColumnType{
		"annotations": {Kind: domain.KindJSON, Nullable: true},
	}, cols)
}
