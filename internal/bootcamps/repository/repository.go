package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devcamper/devcamper/backend/go-services/internal/models"
	"github.com/devcamper/devcamper/backend/go-services/internal/query"
)

var (
	ErrNotFound  = errors.New("bootcamp not found")
	ErrDuplicate = errors.New("bootcamp already exists")
)

// Repository is the bootcamp persistence contract shared by the Mongo and
// in-memory implementations. IDs are assigned by the caller.
type Repository interface {
	Create(ctx context.Context, b *models.Bootcamp) error
	InsertMany(ctx context.Context, bs []*models.Bootcamp) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Bootcamp, error)
	// Find returns the page selected by q and the total number of matches.
	Find(ctx context.Context, q *query.Query) ([]*models.Bootcamp, int64, error)
	Replace(ctx context.Context, b *models.Bootcamp) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAll(ctx context.Context) (int64, error)
	// Summaries resolves ids to name/description; unknown ids are absent.
	Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.BootcampSummary, error)
}

// Schema declares the non-string fields of a bootcamp for query coercion.
var Schema = query.Schema{
	"_id":                   query.ObjectID,
	"averageRating":         query.Number,
	"averageCost":           query.Number,
	"housing":               query.Bool,
	"jobAssistance":         query.Bool,
	"jobGuarantee":          query.Bool,
	"acceptingApplications": query.Bool,
	"createdAt":             query.Time,
}
