// Package service exposes the CRUD contract for catalog entities. It holds no
// mutable state and adds no rules of its own; storage decides everything.
package service

import (
	"context"

	"github.com/Clark-Hu/catalog-api/internal/domain"
	"github.com/Clark-Hu/catalog-api/internal/repository"
)

// ErrNotFound is returned by GetByID, Update and Delete for unknown ids.
var ErrNotFound = repository.ErrNotFound

// Service forwards CRUD calls for one entity kind to its collection.
type Service[T any] struct {
	coll repository.Collection[T]
}

// New wraps a collection.
func New[T any](coll repository.Collection[T]) *Service[T] {
	return &Service[T]{coll: coll}
}

// GetAll returns every stored entity, or an empty slice.
func (s *Service[T]) GetAll(ctx context.Context) ([]T, error) {
	items, err := s.coll.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// GetByID returns ErrNotFound when no entity matches.
func (s *Service[T]) GetByID(ctx context.Context, id string) (T, error) {
	return s.coll.FindByID(ctx, id)
}

// Create persists entity under a storage-assigned id and returns it with that id.
func (s *Service[T]) Create(ctx context.Context, entity T) (T, error) {
	return s.coll.Insert(ctx, entity)
}

// Update replaces the entity stored under id. The result carries id.
func (s *Service[T]) Update(ctx context.Context, id string, entity T) (T, error) {
	return s.coll.Replace(ctx, id, entity)
}

// Delete removes the entity stored under id.
func (s *Service[T]) Delete(ctx context.Context, id string) error {
	return s.coll.Delete(ctx, id)
}

// Catalog bundles the services the HTTP layer serves.
type Catalog struct {
	Movies *Service[domain.Movie]
	Songs  *Service[domain.Song]
}

// NewCatalog builds the services over a repository.
func NewCatalog(repo *repository.Repository) *Catalog {
	return &Catalog{
		Movies: New(repo.Movies),
		Songs:  New(repo.Songs),
	}
}
