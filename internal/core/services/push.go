package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cenkalti/backoff/v5"

	"github.com/variantlabs/annosync/internal/core/domain"
	"github.com/variantlabs/annosync/internal/core/ports/driven"
	"github.com/variantlabs/annosync/internal/logger"
)

// localFileScheme marks a media projection that resolved to a local file
// rather than a publicly accessible URL.
const localFileScheme = "file://"

// tagMaxTries bounds the retries of the metadata-tagging call in the
// single-media path.
const tagMaxTries = 4

// pushRows creates one remote task for every table row that has no remote
// counterpart, using the already-scanned task set to decide which rows are
// missing. It never touches tasks that already exist.
func pushRows(
	ctx context.Context,
	proj driven.Project,
	table driven.Table,
	mapping domain.ColumnMapping,
	pushFields map[string]domain.ColumnType,
	existing []domain.Task,
) (int, error) {
	remote := make(map[string]struct{}, len(existing))
	for _, t := range existing {
		remote[t.Meta.RowID.Key()] = struct{}{}
	}

	colTypes, err := table.ColumnTypes(ctx)
	if err != nil {
		return 0, fmt.Errorf("column types: %w", err)
	}

	// Push columns are the mapped columns whose remote field the project's
	// label config declares. Mapped columns the config does not recognize
	// (the annotations target, result-only fields) are excluded, not errored.
	pushCols := make([]string, 0, len(mapping))
	for local, remoteName := range mapping {
		if _, ok := pushFields[remoteName]; ok {
			pushCols = append(pushCols, local)
		}
	}
	sort.Strings(pushCols)

	for _, col := range pushCols {
		if !colTypes[col].IsMedia() {
			continue
		}
		stored, err := table.IsStored(ctx, col)
		if err != nil {
			return 0, fmt.Errorf("column %q: %w", col, err)
		}
		if !stored {
			return 0, fmt.Errorf("%w: media column linked to a project is not a stored column: %q",
				domain.ErrValidation, col)
		}
	}

	if len(pushCols) == 0 {
		logger.Warn("No mapped column matches the project's label config; nothing to push")
		return 0, nil
	}

	if len(pushCols) == 1 && colTypes[pushCols[0]].IsMedia() {
		// A lone media column can reach the server through its file
		// transfer API, so locally stored media works here.
		return pushMediaFiles(ctx, proj, table, pushCols[0], remote)
	}
	return pushBatches(ctx, proj, table, mapping, colTypes, pushCols, remote)
}

// pushMediaFiles uploads one media file per missing row and tags the created
// task with the row ID. Two sequential remote calls per row, no batching.
func pushMediaFiles(
	ctx context.Context,
	proj driven.Project,
	table driven.Table,
	col string,
	remote map[string]struct{},
) (int, error) {
	// Select the value alongside its local path so the media cache is
	// materialized and the path stays valid for the whole pass.
	it, err := table.Select(ctx, []domain.Selector{
		{Column: col, Kind: domain.SelectValue},
		{Column: col, Kind: domain.SelectLocalPath},
	})
	if err != nil {
		return 0, fmt.Errorf("select %q: %w", col, err)
	}
	defer it.Close()

	created := 0
	for it.Next() {
		row := it.Row()
		if _, ok := remote[row.RowID.Key()]; ok {
			continue
		}
		path, ok := row.Vals[len(row.Vals)-1].(string)
		if !ok || path == "" {
			return created, fmt.Errorf("%w: no local path for media column %q, row %s",
				domain.ErrValidation, col, row.RowID)
		}
		ids, err := proj.ImportFile(ctx, path)
		if err != nil {
			return created, fmt.Errorf("import file for row %s: %w", row.RowID, err)
		}
		if len(ids) == 0 {
			return created, fmt.Errorf("import file for row %s: server created no task", row.RowID)
		}
		if err := tagTask(ctx, proj, ids[0], row.RowID); err != nil {
			return created, err
		}
		created++
	}
	if err := it.Err(); err != nil {
		return created, fmt.Errorf("scan rows: %w", err)
	}
	return created, nil
}

// tagTask writes the row ID into a freshly created task's metadata. The
// create and the tag are separate remote calls with no correlation guarantee
// between them, so the tag is retried with backoff. If it still fails, the
// task stays orphaned: the next scan counts it as unrecognized and the row is
// pushed again.
func tagTask(ctx context.Context, proj driven.Project, taskID int, rowID domain.RowID) error {
	op := func() (struct{}, error) {
		return struct{}{}, proj.UpdateTask(ctx, taskID, domain.TaskMeta{RowID: rowID})
	}
	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(tagMaxTries),
	)
	if err != nil {
		return fmt.Errorf("tag task %d with row %s: %w", taskID, rowID, err)
	}
	return nil
}

// pushBatches creates tasks for missing rows in bulk. Media columns are
// projected to URLs: the server rejects local files on tasks with more than
// one field, so a file:// projection fails the push before the batch's
// import call.
func pushBatches(
	ctx context.Context,
	proj driven.Project,
	table driven.Table,
	mapping domain.ColumnMapping,
	colTypes map[string]domain.ColumnType,
	pushCols []string,
	remote map[string]struct{},
) (int, error) {
	sels := make([]domain.Selector, len(pushCols))
	for i, col := range pushCols {
		kind := domain.SelectValue
		if colTypes[col].IsMedia() {
			kind = domain.SelectFileURL
		}
		sels[i] = domain.Selector{Column: col, Kind: kind}
	}
	it, err := table.Select(ctx, sels)
	if err != nil {
		return 0, fmt.Errorf("select push columns: %w", err)
	}
	defer it.Close()

	created := 0
	batch := make([]domain.PushRecord, 0, pageSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := proj.ImportTasks(ctx, batch); err != nil {
			return fmt.Errorf("import %d task(s): %w", len(batch), err)
		}
		created += len(batch)
		batch = batch[:0]
		return nil
	}

	for it.Next() {
		row := it.Row()
		if _, ok := remote[row.RowID.Key()]; ok {
			continue
		}
		data := make(map[string]any, len(pushCols))
		for i, col := range pushCols {
			if colTypes[col].IsMedia() {
				url, _ := row.Vals[i].(string)
				if strings.HasPrefix(url, localFileScheme) {
					return created, fmt.Errorf(
						"%w: media column %q for row %s resolves to a local file; "+
							"tasks with more than one field require publicly accessible URLs",
						domain.ErrValidation, col, row.RowID)
				}
			}
			data[mapping[col]] = row.Vals[i]
		}
		batch = append(batch, domain.PushRecord{Data: data, Meta: domain.TaskMeta{RowID: row.RowID}})
		if len(batch) == pageSize {
			if err := flush(); err != nil {
				return created, err
			}
		}
	}
	if err := it.Err(); err != nil {
		return created, fmt.Errorf("scan rows: %w", err)
	}
	if err := flush(); err != nil {
		return created, err
	}
	return created, nil
}
