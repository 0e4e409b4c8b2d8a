package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Clark-Hu/catalog-api/internal/domain"
)

// MemoryCollection keeps JSON-encoded documents in process memory. Values
// handed out never alias stored state.
type MemoryCollection[T any, P domain.Document[T]] struct {
	mu    sync.RWMutex
	docs  map[string][]byte
	order []string
}

// NewMemoryCollection creates an empty in-memory collection.
func NewMemoryCollection[T any, P domain.Document[T]]() *MemoryCollection[T, P] {
	return &MemoryCollection[T, P]{docs: make(map[string][]byte)}
}

// FindAll returns documents in insertion order.
func (c *MemoryCollection[T, P]) FindAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	items := make([]T, 0, len(c.order))
	for _, id := range c.order {
		doc, err := c.decode(id, c.docs[id])
		if err != nil {
			return nil, err
		}
		items = append(items, doc)
	}
	return items, nil
}

func (c *MemoryCollection[T, P]) FindByID(ctx context.Context, id string) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	payload, ok := c.docs[id]
	if !ok {
		return zero, ErrNotFound
	}
	return c.decode(id, payload)
}

func (c *MemoryCollection[T, P]) Insert(ctx context.Context, doc T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	id := uuid.NewString()
	P(&doc).SetID(id)
	payload, err := json.Marshal(doc)
	if err != nil {
		return zero, fmt.Errorf("encode document: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[id] = payload
	c.order = append(c.order, id)
	return doc, nil
}

func (c *MemoryCollection[T, P]) Replace(ctx context.Context, id string, doc T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	P(&doc).SetID(id)
	payload, err := json.Marshal(doc)
	if err != nil {
		return zero, fmt.Errorf("encode document: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return zero, ErrNotFound
	}
	c.docs[id] = payload
	return doc, nil
}

func (c *MemoryCollection[T, P]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return ErrNotFound
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *MemoryCollection[T, P]) decode(id string, payload []byte) (T, error) {
	var doc T
	if err := json.Unmarshal(payload, &doc); err != nil {
		return doc, fmt.Errorf("decode document %s: %w", id, err)
	}
	P(&doc).SetID(id)
	return doc, nil
}
