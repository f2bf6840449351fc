package services

import (
	"context"
	"fmt"

	"github.com/variantlabs/annosync/internal/core/domain"
	"github.com/variantlabs/annosync/internal/core/ports/driven"
)

// --- Mock remote implementations shared by the service tests ---

// taskUpdate records one UpdateTask call.
type taskUpdate struct {
	taskID int
	meta   domain.TaskMeta
}

// mockProject implements driven.Project for testing.
type mockProject struct {
	params domain.ProjectParams

	// pages are served in order; pages beyond the slice end pagination.
	pages     []domain.TaskPage
	pageErr   error
	pageCalls int

	imported   [][]domain.PushRecord
	importErr  error
	files      []string
	fileErr    error
	updates    []taskUpdate
	updateErr  error
	// updateFailures fails this many UpdateTask calls before succeeding.
	updateFailures int

	nextTaskID int
}

func (m *mockProject) Params(_ context.Context) (domain.ProjectParams, error) {
	return m.params, nil
}

func (m *mockProject) GetPaginatedTasks(_ context.Context, page, _ int) (domain.TaskPage, error) {
	m.pageCalls++
	if m.pageErr != nil {
		return domain.TaskPage{}, m.pageErr
	}
	if page-1 < len(m.pages) {
		return m.pages[page-1], nil
	}
	return domain.TaskPage{EndPagination: true}, nil
}

func (m *mockProject) ImportTasks(_ context.Context, recs []domain.PushRecord) ([]int, error) {
	if m.importErr != nil {
		return nil, m.importErr
	}
	copied := make([]domain.PushRecord, len(recs))
	copy(copied, recs)
	m.imported = append(m.imported, copied)
	ids := make([]int, len(recs))
	for i := range ids {
		m.nextTaskID++
		ids[i] = m.nextTaskID
	}
	return ids, nil
}

func (m *mockProject) ImportFile(_ context.Context, path string) ([]int, error) {
	if m.fileErr != nil {
		return nil, m.fileErr
	}
	m.files = append(m.files, path)
	m.nextTaskID++
	return []int{m.nextTaskID}, nil
}

func (m *mockProject) UpdateTask(_ context.Context, taskID int, meta domain.TaskMeta) error {
	if m.updateFailures > 0 {
		m.updateFailures--
		return fmt.Errorf("transient update failure")
	}
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates = append(m.updates, taskUpdate{taskID: taskID, meta: meta})
	return nil
}

// mockProjectService implements driven.ProjectService for testing.
type mockProjectService struct {
	projects map[int]*mockProject
	getErr   error
	getCalls int
	created  []*mockProject
}

func newMockProjectService(projects ...*mockProject) *mockProjectService {
	svc := &mockProjectService{projects: make(map[int]*mockProject)}
	for _, p := range projects {
		svc.projects[p.params.ID] = p
	}
	return svc
}

func (s *mockProjectService) GetProject(_ context.Context, id int) (driven.Project, error) {
	s.getCalls++
	if s.getErr != nil {
		return nil, s.getErr
	}
	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("%w: could not locate project %d", domain.ErrConnectivity, id)
	}
	return p, nil
}

func (s *mockProjectService) CreateProject(_ context.Context, title, labelConfig string) (driven.Project, error) {
	p := &mockProject{params: domain.ProjectParams{
		ID:          1000 + len(s.created),
		Title:       title,
		LabelConfig: labelConfig,
	}}
	s.created = append(s.created, p)
	s.projects[p.params.ID] = p
	return p, nil
}

// rowIDTask builds a task carrying a row ID and annotations.
func rowIDTask(id int, rowID domain.RowID, annotations ...domain.Annotation) domain.Task {
	return domain.Task{
		ID:          id,
		Meta:        domain.TaskMeta{RowID: rowID},
		Annotations: annotations,
	}
}
