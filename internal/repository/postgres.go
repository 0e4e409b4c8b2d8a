package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/catalog-api/internal/domain"
)

// PostgresCollection stores documents as JSONB rows of the documents table,
// partitioned by collection name.
type PostgresCollection[T any, P domain.Document[T]] struct {
	pool       *pgxpool.Pool
	collection string
}

// NewPostgresCollection binds a collection name to a pgx pool.
func NewPostgresCollection[T any, P domain.Document[T]](pool *pgxpool.Pool, collection string) *PostgresCollection[T, P] {
	return &PostgresCollection[T, P]{pool: pool, collection: collection}
}

// FindAll returns documents ordered by creation time.
func (c *PostgresCollection[T, P]) FindAll(ctx context.Context) ([]T, error) {
	const query = `
        SELECT id, body
        FROM documents
        WHERE collection = $1
        ORDER BY created_at, id
    `
	rows, err := c.pool.Query(ctx, query, c.collection)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c.collection, err)
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		doc, err := c.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query %s: %w", c.collection, err)
	}
	return items, nil
}

// FindByID fetches a document by its identifier.
func (c *PostgresCollection[T, P]) FindByID(ctx context.Context, id string) (T, error) {
	const query = `SELECT id, body FROM documents WHERE collection = $1 AND id = $2`
	doc, err := c.scan(c.pool.QueryRow(ctx, query, c.collection, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var zero T
			return zero, ErrNotFound
		}
		return doc, err
	}
	return doc, nil
}

// Insert stores doc under a new UUID.
func (c *PostgresCollection[T, P]) Insert(ctx context.Context, doc T) (T, error) {
	var zero T
	P(&doc).SetID(uuid.NewString())
	body, err := json.Marshal(doc)
	if err != nil {
		return zero, fmt.Errorf("encode document: %w", err)
	}

	const query = `INSERT INTO documents (collection, id, body) VALUES ($1, $2, $3)`
	if _, err := c.pool.Exec(ctx, query, c.collection, P(&doc).GetID(), body); err != nil {
		return zero, fmt.Errorf("insert into %s: %w", c.collection, err)
	}
	return doc, nil
}

// Replace overwrites the body of an existing document.
func (c *PostgresCollection[T, P]) Replace(ctx context.Context, id string, doc T) (T, error) {
	var zero T
	P(&doc).SetID(id)
	body, err := json.Marshal(doc)
	if err != nil {
		return zero, fmt.Errorf("encode document: %w", err)
	}

	const query = `
        UPDATE documents
        SET body = $3,
            updated_at = now()
        WHERE collection = $1 AND id = $2
    `
	tag, err := c.pool.Exec(ctx, query, c.collection, id, body)
	if err != nil {
		return zero, fmt.Errorf("replace in %s: %w", c.collection, err)
	}
	if tag.RowsAffected() == 0 {
		return zero, ErrNotFound
	}
	return doc, nil
}

// Delete removes a document.
func (c *PostgresCollection[T, P]) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM documents WHERE collection = $1 AND id = $2`
	tag, err := c.pool.Exec(ctx, query, c.collection, id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", c.collection, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *PostgresCollection[T, P]) scan(row pgx.Row) (T, error) {
	var (
		doc  T
		id   string
		body []byte
	)
	if err := row.Scan(&id, &body); err != nil {
		return doc, err
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return doc, fmt.Errorf("decode document %s: %w", id, err)
	}
	P(&doc).SetID(id)
	return doc, nil
}
