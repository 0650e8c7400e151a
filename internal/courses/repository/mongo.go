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

type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

// EnsureIndexes indexes the bootcamp reference used by scoped listings.
func (m *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := m.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "bootcamp", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("course indexes: %w", err)
	}
	return nil
}

func (m *MongoRepo) Create(ctx context.Context, c *models.Course) error {
	_, err := m.col.InsertOne(ctx, c)
	return err
}

func (m *MongoRepo) InsertMany(ctx context.Context, cs []*models.Course) error {
	if len(cs) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(cs))
	for _, c := range cs {
		docs = append(docs, c)
	}
	_, err := m.col.InsertMany(ctx, docs)
	return err
}

func (m *MongoRepo) Get(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	var c models.Course
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (m *MongoRepo) Find(ctx context.Context, q *query.Query) ([]*models.Course, int64, error) {
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
		// the bootcamp reference is needed to attach summaries
		p["bootcamp"] = 1
		opts.SetProjection(p)
	}
	cur, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)
	out := []*models.Course{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (m *MongoRepo) Replace(ctx context.Context, c *models.Course) error {
	res, err := m.col.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return err
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
