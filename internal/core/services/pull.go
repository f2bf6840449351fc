package services

import (
	"context"
	"fmt"

	"github.com/variantlabs/annosync/internal/core/domain"
	"github.com/variantlabs/annosync/internal/core/ports/driven"
	"github.com/variantlabs/annosync/internal/logger"
)

// pullAnnotations writes the annotations of every scanned task back into the
// table, as one batched update. A task with no annotations clears the column:
// annotations deleted on the remote side must not survive locally.
func pullAnnotations(
	ctx context.Context,
	table driven.Table,
	mapping domain.ColumnMapping,
	tasks []domain.Task,
) (rowsUpdated, annotationsSynced int, err error) {
	annotationsCol, ok := mapping.LocalFor(domain.AnnotationsField)
	if !ok {
		// Link validates this; reaching here is a wiring bug, not user error.
		return 0, 0, fmt.Errorf("%w: column mapping has no %q target",
			domain.ErrValidation, domain.AnnotationsField)
	}

	updates := make([]domain.UpdateRecord, 0, len(tasks))
	for _, t := range tasks {
		var val any
		if len(t.Annotations) > 0 {
			val = t.Annotations
			annotationsSynced += len(t.Annotations)
		}
		updates = append(updates, domain.UpdateRecord{
			RowID:  t.Meta.RowID,
			Column: annotationsCol,
			Value:  val,
		})
	}

	if len(updates) == 0 {
		return 0, 0, nil
	}
	logger.Info("Updating table %q, column %q from %d task(s)",
		table.Name(), annotationsCol, len(updates))
	if err := table.BatchUpdate(ctx, updates); err != nil {
		return 0, 0, fmt.Errorf("batch update: %w", err)
	}
	return len(updates), annotationsSynced, nil
}
