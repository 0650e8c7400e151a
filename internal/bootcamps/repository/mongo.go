package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devcamper/devcamper/backend/go-services/internal/models"
	"github.com/devcamper/devcamper/backend/go-services/internal/query"
)

// MongoRepo implements Repository on a MongoDB collection.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

// EnsureIndexes creates the unique name index and the 2dsphere index radius
// search depends on.
func (m *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := m.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("bootcamp indexes: %w", err)
	}
	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	}
	return err
}

func (m *MongoRepo) Create(ctx context.Context, b *models.Bootcamp) error {
	_, err := m.col.InsertOne(ctx, b)
	return translate(err)
}

func (m *MongoRepo) InsertMany(ctx context.Context, bs []*models.Bootcamp) error {
	if len(bs) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(bs))
	for _, b := range bs {
		docs = append(docs, b)
	}
	_, err := m.col.InsertMany(ctx, docs)
	return translate(err)
}

func (m *MongoRepo) Get(ctx context.Context, id primitive.ObjectID) (*models.Bootcamp, error) {
	var b models.Bootcamp
	if err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (m *MongoRepo) Find(ctx context.Context, q *query.Query) ([]*models.Bootcamp, int64, error) {
	filter := q.Filter()
	total, err := m.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().SetSort(q.SortDoc()).SetSkip(int64(q.Skip()))
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	if p := q.Projection(); p != nil {
		opts.SetProjection(p)
	}
	cur, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)
	out := []*models.Bootcamp{}
	for cur.Next(ctx) {
		var b models.Bootcamp
		if err := cur.Decode(&b); err != nil {
			return nil, 0, err
		}
		out = append(out, &b)
	}
	return out, total, cur.Err()
}

func (m *MongoRepo) Replace(ctx context.Context, b *models.Bootcamp) error {
	res, err := m.col.ReplaceOne(ctx, bson.M{"_id": b.ID}, b)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := m.col.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (m *MongoRepo) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.BootcampSummary, error) {
	out := make(map[primitive.ObjectID]*models.BootcampSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	opts := options.Find().SetProjection(bson.M{"name": 1, "description": 1})
	cur, err := m.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var s models.BootcampSummary
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		out[s.ID] = &s
	}
	return out, cur.Err()
}
