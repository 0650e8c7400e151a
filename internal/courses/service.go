// Package courses implements the course use cases. Every course references
// an existing bootcamp, checked through the Bootcamps dependency.
package courses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devcamper/devcamper/backend/go-services/internal/apperrors"
	"github.com/devcamper/devcamper/backend/go-services/internal/courses/repository"
	"github.com/devcamper/devcamper/backend/go-services/internal/models"
	"github.com/devcamper/devcamper/backend/go-services/internal/query"
	"github.com/devcamper/devcamper/backend/go-services/internal/validation"
)

// Bootcamps is the view of the bootcamp store courses need.
// *bootcamps.Service implements it.
type Bootcamps interface {
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
	Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.BootcampSummary, error)
}

type Service struct {
	repo      repository.Repository
	bootcamps Bootcamps
	now       func() time.Time
}

func NewService(repo repository.Repository, bootcamps Bootcamps) *Service {
	return &Service{repo: repo, bootcamps: bootcamps, now: func() time.Time { return time.Now().UTC() }}
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.InvalidID(id)
	}
	return oid, nil
}

func notFound(err error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("Course", id)
	}
	return err
}

// List returns courses matching values. With a bootcampID only that
// bootcamp's courses are listed and the reference is left as an id;
// otherwise each course carries its bootcamp summary.
func (s *Service) List(ctx context.Context, bootcampID string, values url.Values) (*query.Page, error) {
	q, err := query.Parse(values, repository.Schema)
	if err != nil {
		return nil, err
	}
	if bootcampID != "" {
		oid, err := parseID(bootcampID)
		if err != nil {
			return nil, err
		}
		q.Conditions = append(q.Conditions, query.Condition{Field: "bootcamp", Op: query.OpEq, Value: oid})
	}
	items, total, err := s.repo.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	if bootcampID != "" {
		return query.NewPage(q, items, total)
	}
	populated, err := s.populate(ctx, items)
	if err != nil {
		return nil, err
	}
	return query.NewPage(q, populated, total)
}

func (s *Service) Get(ctx context.Context, id string) (*models.PopulatedCourse, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.Get(ctx, oid)
	if err != nil {
		return nil, notFound(err, id)
	}
	out, err := s.populate(ctx, []*models.Course{c})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// Create stores c under a bootcamp. A non-empty bootcampID (from the route)
// overrides c.Bootcamp. The bootcamp must exist.
func (s *Service) Create(ctx context.Context, bootcampID string, c *models.Course) (*models.Course, error) {
	if bootcampID != "" {
		oid, err := parseID(bootcampID)
		if err != nil {
			return nil, err
		}
		c.Bootcamp = oid
	}
	if c.Bootcamp.IsZero() {
		return nil, apperrors.Validation("bootcamp is required")
	}
	ok, err := s.bootcamps.Exists(ctx, c.Bootcamp)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NotFound("Bootcamp", c.Bootcamp.Hex())
	}
	c.ID = primitive.NewObjectID()
	c.CreatedAt = s.now()
	if err := validation.Struct(c); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return c, nil
}

// Update merges the JSON object patch over the stored course. The bootcamp
// reference, id and creation time are kept; a body bootcamp is ignored.
func (s *Service) Update(ctx context.Context, id string, patch []byte) (*models.Course, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	current, err := s.repo.Get(ctx, oid)
	if err != nil {
		return nil, notFound(err, id)
	}
	merged := *current
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(patch, &obj); err != nil || obj == nil {
		return nil, apperrors.BadRequest("invalid JSON body")
	}
	delete(obj, "bootcamp")
	if patch, err = json.Marshal(obj); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(patch, &merged); err != nil {
		return nil, apperrors.BadRequest("invalid JSON body: %v", err)
	}
	merged.ID = current.ID
	merged.CreatedAt = current.CreatedAt
	merged.Bootcamp = current.Bootcamp
	if err := validation.Struct(&merged); err != nil {
		return nil, err
	}
	if err := s.repo.Replace(ctx, &merged); err != nil {
		return nil, notFound(err, id)
	}
	return &merged, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, oid); err != nil {
		return notFound(err, id)
	}
	return nil
}

// populate attaches bootcamp summaries with one batched lookup. A course whose
// bootcamp was deleted gets a nil summary.
func (s *Service) populate(ctx context.Context, items []*models.Course) ([]*models.PopulatedCourse, error) {
	seen := make(map[primitive.ObjectID]bool, len(items))
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, c := range items {
		if !seen[c.Bootcamp] {
			seen[c.Bootcamp] = true
			ids = append(ids, c.Bootcamp)
		}
	}
	sums, err := s.bootcamps.Summaries(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("bootcamp summaries: %w", err)
	}
	out := make([]*models.PopulatedCourse, 0, len(items))
	for _, c := range items {
		out = append(out, &models.PopulatedCourse{Course: *c, Bootcamp: sums[c.Bootcamp]})
	}
	return out, nil
}
