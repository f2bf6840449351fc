package labelstudio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/variantlabs/annosync/internal/core/domain"
	"github.com/variantlabs/annosync/internal/core/ports/driven"
)

// Ensure project implements the interface.
var _ driven.Project = (*project)(nil)

// project is one resolved Label Studio project. Parameters are fetched at
// resolution time and cached for the handle's lifetime.
type project struct {
	client *Client
	params domain.ProjectParams
}

// Params returns the project's parameters as of resolution.
func (p *project) Params(_ context.Context) (domain.ProjectParams, error) {
	return p.params, nil
}

// GetPaginatedTasks fetches one page of tasks. Label Studio answers an
// out-of-range page with 404, which signals the end of pagination; so does
// an empty page.
func (p *project) GetPaginatedTasks(ctx context.Context, page, pageSize int) (domain.TaskPage, error) {
	path := fmt.Sprintf("/api/projects/%d/tasks/", p.params.ID)
	var raw json.RawMessage
	status, err := p.client.do(ctx, http.MethodGet, path, pageQuery(page, pageSize), nil, &raw)
	if err != nil {
		return domain.TaskPage{}, err
	}
	if status == http.StatusNotFound {
		return domain.TaskPage{EndPagination: true}, nil
	}
	if status != http.StatusOK {
		return domain.TaskPage{}, fmt.Errorf("list tasks: server returned %d", status)
	}

	tp, err := decodeTaskPage(raw)
	if err != nil {
		return domain.TaskPage{}, err
	}
	if len(tp.Tasks) == 0 {
		tp.EndPagination = true
	}
	return tp, nil
}

// decodeTaskPage accepts both response shapes Label Studio has used: a bare
// task array, and an object wrapping the array.
func decodeTaskPage(raw json.RawMessage) (domain.TaskPage, error) {
	var tp domain.TaskPage
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &tp.Tasks); err != nil {
			return tp, fmt.Errorf("decode tasks: %w", err)
		}
		return tp, nil
	}
	if err := json.Unmarshal(raw, &tp); err != nil {
		return tp, fmt.Errorf("decode task page: %w", err)
	}
	return tp, nil
}

// importResponse is the server's reply to an import call.
type importResponse struct {
	TaskCount int   `json:"task_count"`
	TaskIDs   []int `json:"task_ids"`
}

// ImportTasks bulk-creates tasks. Not atomic on the server side: a failure
// partway leaves earlier tasks created.
func (p *project) ImportTasks(ctx context.Context, recs []domain.PushRecord) ([]int, error) {
	body, err := json.Marshal(recs)
	if err != nil {
		return nil, fmt.Errorf("encode tasks: %w", err)
	}
	path := fmt.Sprintf("/api/projects/%d/import", p.params.ID)
	var resp importResponse
	status, err := p.client.do(ctx, http.MethodPost, path, nil, jsonBody(body), &resp)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return nil, fmt.Errorf("import tasks: server returned %d", status)
	}
	return resp.TaskIDs, nil
}

// ImportFile creates a single task by uploading a local media file.
func (p *project) ImportFile(ctx context.Context, path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open media file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(filepath.Base(path), filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("read media file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}

	apiPath := fmt.Sprintf("/api/projects/%d/import", p.params.ID)
	body := &requestBody{reader: &buf, contentType: mw.FormDataContentType()}
	var resp importResponse
	status, err := p.client.do(ctx, http.MethodPost, apiPath, nil, body, &resp)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return nil, fmt.Errorf("import file: server returned %d", status)
	}
	return resp.TaskIDs, nil
}

// UpdateTask replaces a task's metadata.
func (p *project) UpdateTask(ctx context.Context, taskID int, meta domain.TaskMeta) error {
	body, err := json.Marshal(map[string]any{"meta": meta})
	if err != nil {
		return fmt.Errorf("encode meta: %w", err)
	}
	path := fmt.Sprintf("/api/tasks/%d/", taskID)
	status, err := p.client.do(ctx, http.MethodPatch, path, nil, jsonBody(body), nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("update task %d: server returned %d", taskID, status)
	}
	return nil
}
