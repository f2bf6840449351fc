package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/variantlabs/annosync/internal/core/domain"
	"github.com/variantlabs/annosync/internal/core/ports/driven"
)

// Ensure linkStore implements the interface.
var _ driven.LinkStore = (*linkStore)(nil)

// linkStore persists project links in the project_links table. The column
// mapping is stored as JSON text; only the integer project ID is kept for the
// remote side, so loading a link never contacts the server.
type linkStore struct {
	store *Store
}

// Save stores or updates a link.
func (s *linkStore) Save(ctx context.Context, link domain.ProjectLink) error {
	mapping, err := json.Marshal(link.Mapping)
	if err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}
	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO project_links (id, table_name, project_id, mapping, push, pull, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			table_name = excluded.table_name,
			project_id = excluded.project_id,
			mapping = excluded.mapping,
			push = excluded.push,
			pull = excluded.pull
	`, link.ID, link.TableName, link.ProjectID, string(mapping),
		link.Push, link.Pull, link.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save link: %w", err)
	}
	return nil
}

// Get retrieves a link by ID.
func (s *linkStore) Get(ctx context.Context, id string) (*domain.ProjectLink, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, table_name, project_id, mapping, push, pull, created_at
		FROM project_links WHERE id = ?
	`, id)
	link, err := scanLink(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return link, nil
}

// List returns all links, oldest first.
func (s *linkStore) List(ctx context.Context) ([]domain.ProjectLink, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, table_name, project_id, mapping, push, pull, created_at
		FROM project_links ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()

	var links []domain.ProjectLink
	for rows.Next() {
		link, err := scanLink(rows.Scan)
		if err != nil {
			return nil, err
		}
		links = append(links, *link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}

// Delete removes a link by ID.
func (s *linkStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM project_links WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanLink reads one link from a row scanner.
func scanLink(scan func(...any) error) (*domain.ProjectLink, error) {
	var link domain.ProjectLink
	var mapping, createdAt string
	if err := scan(&link.ID, &link.TableName, &link.ProjectID, &mapping,
		&link.Push, &link.Pull, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(mapping), &link.Mapping); err != nil {
		return nil, fmt.Errorf("decode mapping: %w", err)
	}
	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("decode created_at: %w", err)
	}
	link.CreatedAt = ts
	return &link, nil
}
