package services

import (
	"context"
	"fmt"

	"github.com/variantlabs/annosync/internal/core/ports/driven"
)

// projectHandle lazily resolves a remote project and memoizes the result for
// the handle's lifetime. A failed resolution is never cached: the next
// access attempts resolution again. The project ID itself never changes.
type projectHandle struct {
	svc       driven.ProjectService
	projectID int

	// project is nil until the first successful resolution.
	project driven.Project
}

func newProjectHandle(svc driven.ProjectService, projectID int) *projectHandle {
	return &projectHandle{svc: svc, projectID: projectID}
}

// resolve returns the live project, contacting the server only on the first
// successful call.
func (h *projectHandle) resolve(ctx context.Context) (driven.Project, error) {
	if h.project != nil {
		return h.project, nil
	}
	proj, err := h.svc.GetProject(ctx, h.projectID)
	if err != nil {
		return nil, fmt.Errorf("resolve project %d: %w", h.projectID, err)
	}
	h.project = proj
	return proj, nil
}
