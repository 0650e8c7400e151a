package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devcamper/devcamper/backend/go-services/internal/models"
	"github.com/devcamper/devcamper/backend/go-services/internal/query"
)

var ErrNotFound = errors.New("course not found")

// Repository is the course persistence contract. IDs are assigned by the caller.
type Repository interface {
	Create(ctx context.Context, c *models.Course) error
	InsertMany(ctx context.Context, cs []*models.Course) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Course, error)
	Find(ctx context.Context, q *query.Query) ([]*models.Course, int64, error)
	Replace(ctx context.Context, c *models.Course) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAll(ctx context.Context) (int64, error)
}

var Schema = query.Schema{
	"_id":                  query.ObjectID,
	"bootcamp":             query.ObjectID,
	"weeks":                query.Number,
	"tuition":              query.Number,
	"scholarshipAvailable": query.Bool,
	"createdAt":            query.Time,
}
