package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eoauman/sylman/internal/syllabus"
)

// MongoRepo implements Repository on a MongoDB collection. Records carry a
// store-assigned string "id" field (the opaque id the editor caches), not an
// ObjectID, so the REST ids stay stable across stores.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)}
	col.Indexes().CreateOne(context.Background(), idxModel)
	userIdx := mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}}}
	col.Indexes().CreateOne(context.Background(), userIdx)
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Create(ctx context.Context, rec *syllabus.Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	rec.SyllabusData.Normalize()
	if _, err := m.col.InsertOne(ctx, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*syllabus.Record, error) {
	var rec syllabus.Record
	err := m.col.FindOne(ctx, bson.M{"id": id}).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rec.SyllabusData.Normalize()
	return &rec, nil
}

func (m *MongoRepo) ListByUser(ctx context.Context, userID string) ([]*syllabus.Record, error) {
	return m.list(ctx, bson.M{"userId": userID})
}

func (m *MongoRepo) ListAll(ctx context.Context) ([]*syllabus.Record, error) {
	return m.list(ctx, bson.M{})
}

func (m *MongoRepo) list(ctx context.Context, filter bson.M) ([]*syllabus.Record, error) {
	cur, err := m.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*syllabus.Record{}
	for cur.Next(ctx) {
		var rec syllabus.Record
		if err := cur.Decode(&rec); err != nil {
			return nil, err
		}
		rec.SyllabusData.Normalize()
		out = append(out, &rec)
	}
	return out, cur.Err()
}

func (m *MongoRepo) Update(ctx context.Context, id string, data *syllabus.Document, lastEdited string) error {
	doc := data.Clone()
	if lastEdited != "" {
		doc.LastEdited = lastEdited
	}
	set := bson.M{"syllabusData": doc, "updatedAt": time.Now().UTC()}
	res, err := m.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
