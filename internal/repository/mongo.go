package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/Clark-Hu/catalog-api/internal/domain"
)

// MongoCollection maps entities onto a MongoDB collection. The entity id is
// the hex form of the document's native ObjectID.
type MongoCollection[T any, P domain.Document[T]] struct {
	coll *mongo.Collection
}

// NewMongoCollection wraps a driver collection handle.
func NewMongoCollection[T any, P domain.Document[T]](coll *mongo.Collection) *MongoCollection[T, P] {
	return &MongoCollection[T, P]{coll: coll}
}

type mongoIDHolder struct {
	ID bson.ObjectID `bson:"_id"`
}

func (c *MongoCollection[T, P]) FindAll(ctx context.Context) ([]T, error) {
	cursor, err := c.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", c.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	items := make([]T, 0)
	for cursor.Next(ctx) {
		doc, err := decodeMongoDocument[T, P](cursor.Current)
		if err != nil {
			return nil, err
		}
		items = append(items, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("find in %s: %w", c.coll.Name(), err)
	}
	return items, nil
}

// FindByID treats ids that are not valid ObjectIDs as absent.
func (c *MongoCollection[T, P]) FindByID(ctx context.Context, id string) (T, error) {
	var zero T
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return zero, ErrNotFound
	}
	raw, err := c.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, ErrNotFound
		}
		return zero, fmt.Errorf("find %s in %s: %w", id, c.coll.Name(), err)
	}
	return decodeMongoDocument[T, P](raw)
}

func (c *MongoCollection[T, P]) Insert(ctx context.Context, doc T) (T, error) {
	var zero T
	oid := bson.NewObjectID()
	payload, err := mongoDocument(oid, doc)
	if err != nil {
		return zero, err
	}
	if _, err := c.coll.InsertOne(ctx, payload); err != nil {
		return zero, fmt.Errorf("insert into %s: %w", c.coll.Name(), err)
	}
	P(&doc).SetID(oid.Hex())
	return doc, nil
}

func (c *MongoCollection[T, P]) Replace(ctx context.Context, id string, doc T) (T, error) {
	var zero T
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return zero, ErrNotFound
	}
	payload, err := mongoDocument(oid, doc)
	if err != nil {
		return zero, err
	}
	res, err := c.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: oid}}, payload)
	if err != nil {
		return zero, fmt.Errorf("replace %s in %s: %w", id, c.coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return zero, ErrNotFound
	}
	P(&doc).SetID(id)
	return doc, nil
}

func (c *MongoCollection[T, P]) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := c.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("delete %s from %s: %w", id, c.coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// mongoDocument encodes doc with _id as its first element. Entity ids are
// tagged bson:"-" so the body never carries a second id.
func mongoDocument[T any](oid bson.ObjectID, doc T) (bson.D, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var body bson.D
	if err := bson.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return append(bson.D{{Key: "_id", Value: oid}}, body...), nil
}

func decodeMongoDocument[T any, P domain.Document[T]](raw bson.Raw) (T, error) {
	var (
		doc    T
		holder mongoIDHolder
	)
	if err := bson.Unmarshal(raw, &holder); err != nil {
		return doc, fmt.Errorf("decode document id: %w", err)
	}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("decode document %s: %w", holder.ID.Hex(), err)
	}
	P(&doc).SetID(holder.ID.Hex())
	return doc, nil
}
