package services

import (
	"context"
	"fmt"

	"github.com/variantlabs/annosync/internal/core/domain"
	"github.com/variantlabs/annosync/internal/core/ports/driven"
	"github.com/variantlabs/annosync/internal/logger"
)

// pageSize is the page size for task enumeration and the batch size for bulk
// task creation.
const pageSize = 100

// scanTasks pages through every task in the project, dropping tasks that
// carry no row ID. Dropped tasks were created outside this engine and cannot
// be reconciled; they are reported once as an aggregate count. The returned
// slice preserves page order and within-page order.
func scanTasks(ctx context.Context, proj driven.Project) (tasks []domain.Task, skipped int, err error) {
	for page := 1; ; page++ {
		tp, err := proj.GetPaginatedTasks(ctx, page, pageSize)
		if err != nil {
			return nil, 0, fmt.Errorf("list tasks page %d: %w", page, err)
		}
		if tp.EndPagination {
			break
		}
		for _, t := range tp.Tasks {
			if len(t.Meta.RowID) == 0 {
				skipped++
				continue
			}
			tasks = append(tasks, t)
		}
	}
	if skipped > 0 {
		logger.Warn("Skipped %d unrecognized task(s) without a row ID", skipped)
	}
	return tasks, skipped, nil
}
