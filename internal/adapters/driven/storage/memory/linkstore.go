package memory

import (
	"context"
	"sync"

	"github.com/variantlabs/annosync/internal/core/domain"
	"github.com/variantlabs/annosync/internal/core/ports/driven"
)

// Ensure LinkStore implements the interface.
var _ driven.LinkStore = (*LinkStore)(nil)

// LinkStore is an in-memory implementation of driven.LinkStore.
type LinkStore struct {
	mu    sync.RWMutex
	links map[string]domain.ProjectLink
	order []string
}

// NewLinkStore creates a new in-memory link store.
func NewLinkStore() *LinkStore {
	return &LinkStore{links: make(map[string]domain.ProjectLink)}
}

// Save stores or updates a link.
func (s *LinkStore) Save(_ context.Context, link domain.ProjectLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.links[link.ID]; !ok {
		s.order = append(s.order, link.ID)
	}
	s.links[link.ID] = link
	return nil
}

// Get retrieves a link by ID.
func (s *LinkStore) Get(_ context.Context, id string) (*domain.ProjectLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	link, ok := s.links[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &link, nil
}

// List returns all links in insertion order.
func (s *LinkStore) List(_ context.Context) ([]domain.ProjectLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ProjectLink, 0, len(s.links))
	for _, id := range s.order {
		if link, ok := s.links[id]; ok {
			out = append(out, link)
		}
	}
	return out, nil
}

// Delete removes a link by ID.
func (s *LinkStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.links[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.links, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
