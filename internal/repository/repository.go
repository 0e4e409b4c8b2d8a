package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Clark-Hu/catalog-api/internal/domain"
	"github.com/Clark-Hu/catalog-api/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// Collection is the storage client for one kind of entity.
type Collection[T any] interface {
	// FindAll returns every stored entity, never a nil slice.
	FindAll(ctx context.Context) ([]T, error)
	// FindByID returns ErrNotFound when no entity has the given id.
	FindByID(ctx context.Context, id string) (T, error)
	// Insert stores doc under a freshly assigned id and returns it with that id.
	Insert(ctx context.Context, doc T) (T, error)
	// Replace overwrites the entity with the given id. The stored value
	// carries id regardless of doc's own id.
	Replace(ctx context.Context, id string, doc T) (T, error)
	// Delete removes the entity with the given id.
	Delete(ctx context.Context, id string) error
}

// Names holds the collection names per entity kind.
type Names struct {
	Movies string
	Songs  string
}

// DefaultNames are used when a Names field is empty.
var DefaultNames = Names{Movies: "movies", Songs: "songs"}

// Repository aggregates all domain-specific collections.
type Repository struct {
	Movies Collection[domain.Movie]
	Songs  Collection[domain.Song]
}

// New constructs a Repository backed by the provided store.
func New(backend store.Backend, names Names) (*Repository, error) {
	if names.Movies == "" {
		names.Movies = DefaultNames.Movies
	}
	if names.Songs == "" {
		names.Songs = DefaultNames.Songs
	}

	switch b := backend.(type) {
	case *store.Mongo:
		return &Repository{
			Movies: NewMongoCollection[domain.Movie](b.Collection(names.Movies)),
			Songs:  NewMongoCollection[domain.Song](b.Collection(names.Songs)),
		}, nil
	case *store.Postgres:
		pool := b.Pool()
		return &Repository{
			Movies: NewPostgresCollection[domain.Movie](pool, names.Movies),
			Songs:  NewPostgresCollection[domain.Song](pool, names.Songs),
		}, nil
	case *store.Memory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("repository: unsupported backend %T", backend)
	}
}

// NewMemory builds a Repository over fresh in-memory collections.
func NewMemory() *Repository {
	return &Repository{
		Movies: NewMemoryCollection[domain.Movie](),
		Songs:  NewMemoryCollection[domain.Song](),
	}
}
