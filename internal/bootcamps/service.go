// Package bootcamps implements the bootcamp use cases on top of a repository,
// an optional geocoder and optional photo storage.
package bootcamps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devcamper/devcamper/backend/go-services/internal/apperrors"
	"github.com/devcamper/devcamper/backend/go-services/internal/bootcamps/repository"
	"github.com/devcamper/devcamper/backend/go-services/internal/geo"
	"github.com/devcamper/devcamper/backend/go-services/internal/geocoder"
	"github.com/devcamper/devcamper/backend/go-services/internal/models"
	"github.com/devcamper/devcamper/backend/go-services/internal/query"
	"github.com/devcamper/devcamper/backend/go-services/internal/validation"
)

// PhotoURLTTL is how long a photo download link stays valid.
const PhotoURLTTL = 15 * time.Minute

// PhotoStore holds uploaded photos. *storage.PhotoStore implements it.
type PhotoStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

type Service struct {
	repo      repository.Repository
	geocoder  geocoder.Geocoder
	photos    PhotoStore
	maxUpload int64
	now       func() time.Time
}

type Option func(*Service)

// WithGeocoder enables address geocoding and radius search.
func WithGeocoder(g geocoder.Geocoder) Option { return func(s *Service) { s.geocoder = g } }

// WithPhotoStore enables photo upload and download.
func WithPhotoStore(p PhotoStore, maxUpload int64) Option {
	return func(s *Service) {
		s.photos = p
		s.maxUpload = maxUpload
	}
}

func NewService(repo repository.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ParseID converts a path id, rejecting malformed values.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.InvalidID(id)
	}
	return oid, nil
}

func storeErr(err error, id string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NotFound("Bootcamp", id)
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.Duplicate()
	}
	return err
}

func (s *Service) List(ctx context.Context, values url.Values) (*query.Page, error) {
	q, err := query.Parse(values, repository.Schema)
	if err != nil {
		return nil, err
	}
	items, total, err := s.repo.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list bootcamps: %w", err)
	}
	return query.NewPage(q, items, total)
}

func (s *Service) Get(ctx context.Context, id string) (*models.Bootcamp, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	b, err := s.repo.Get(ctx, oid)
	if err != nil {
		return nil, storeErr(err, id)
	}
	return b, nil
}

// Exists reports whether a bootcamp with the given id is stored.
func (s *Service) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	_, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Summaries resolves bootcamp ids to the short form attached to courses.
func (s *Service) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.BootcampSummary, error) {
	return s.repo.Summaries(ctx, ids)
}

func (s *Service) Create(ctx context.Context, b *models.Bootcamp) (*models.Bootcamp, error) {
	b.ID = primitive.NewObjectID()
	b.CreatedAt = s.now()
	b.Photo = models.DefaultPhoto
	b.Slug = slug.Make(b.Name)
	if err := validation.Struct(b); err != nil {
		return nil, err
	}
	if err := s.locate(ctx, b); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, storeErr(err, b.ID.Hex())
	}
	return b, nil
}

// Update merges the JSON object patch over the stored bootcamp. The id,
// creation time and photo cannot be changed this way.
func (s *Service) Update(ctx context.Context, id string, patch []byte) (*models.Bootcamp, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	merged := *current
	merged.Location = nil
	if current.Location != nil {
		loc := *current.Location
		merged.Location = &loc
	}
	if err := mergeJSON(&merged, patch); err != nil {
		return nil, err
	}
	merged.ID = current.ID
	merged.CreatedAt = current.CreatedAt
	merged.Photo = current.Photo
	merged.Slug = slug.Make(merged.Name)
	if err := validation.Struct(&merged); err != nil {
		return nil, err
	}
	if merged.Address != current.Address || merged.Location == nil {
		if err := s.locate(ctx, &merged); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Replace(ctx, &merged); err != nil {
		return nil, storeErr(err, id)
	}
	return &merged, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, oid); err != nil {
		return storeErr(err, id)
	}
	return nil
}

// Radius returns the bootcamps within distance of the geocoded zipcode.
// unit is "mi" (default) or "km".
func (s *Service) Radius(ctx context.Context, zipcode, distance, unit string) ([]*models.Bootcamp, error) {
	d, err := strconv.ParseFloat(distance, 64)
	if err != nil || d < 0 || math.IsInf(d, 0) || math.IsNaN(d) {
		return nil, apperrors.BadRequest("Invalid distance %s", distance)
	}
	u, err := geo.ParseUnit(unit)
	if err != nil {
		return nil, apperrors.BadRequest("Invalid unit %s", unit)
	}
	if s.geocoder == nil {
		return nil, apperrors.Geocode("Could not geocode zipcode %s", zipcode)
	}
	res, err := s.geocoder.Geocode(ctx, zipcode)
	if errors.Is(err, geocoder.ErrNoMatch) {
		return nil, apperrors.Geocode("Could not geocode zipcode %s", zipcode)
	}
	if err != nil {
		return nil, err
	}
	q := &query.Query{
		Sort: query.DefaultSort,
		Within: &query.Cap{
			Field:  "location",
			Lat:    res.Lat,
			Lng:    res.Lng,
			Radius: geo.AngularRadius(d, u),
		},
	}
	items, _, err := s.repo.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("radius search: %w", err)
	}
	return items, nil
}

// Photo is an uploaded image.
type Photo struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadPhoto stores p as the bootcamp's photo and returns the object key.
func (s *Service) UploadPhoto(ctx context.Context, id string, p Photo) (string, error) {
	if s.photos == nil {
		return "", apperrors.Unavailable("Photo storage not configured")
	}
	b, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(p.ContentType, "image/") {
		return "", apperrors.BadRequest("Please upload an image file")
	}
	if s.maxUpload > 0 && p.Size > s.maxUpload {
		return "", apperrors.BadRequest("Please upload an image less than %d bytes", s.maxUpload)
	}
	key := fmt.Sprintf("photo_%s%s", b.ID.Hex(), path.Ext(p.Filename))
	if err := s.photos.Put(ctx, key, p.Body, p.Size, p.ContentType); err != nil {
		return "", err
	}
	b.Photo = key
	if err := s.repo.Replace(ctx, b); err != nil {
		return "", storeErr(err, id)
	}
	return key, nil
}

// PhotoURL returns a time limited download link for the bootcamp's photo.
func (s *Service) PhotoURL(ctx context.Context, id string) (string, error) {
	if s.photos == nil {
		return "", apperrors.Unavailable("Photo storage not configured")
	}
	b, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if b.Photo == "" || b.Photo == models.DefaultPhoto {
		return "", apperrors.NotFound("Photo for bootcamp", id)
	}
	return s.photos.PresignedURL(ctx, b.Photo, PhotoURLTTL)
}

// locate fills b.Location from its address when a geocoder is configured.
// Without one, a client supplied point is kept.
func (s *Service) locate(ctx context.Context, b *models.Bootcamp) error {
	if s.geocoder == nil {
		if b.Location == nil {
			return nil
		}
		if _, _, ok := b.Location.LatLng(); !ok {
			return apperrors.Validation("location must have [longitude, latitude] coordinates")
		}
		b.Location.Type = "Point"
		return nil
	}
	res, err := s.geocoder.Geocode(ctx, b.Address)
	if errors.Is(err, geocoder.ErrNoMatch) {
		return apperrors.Geocode("Could not geocode address %s", b.Address)
	}
	if err != nil {
		return err
	}
	loc := models.NewPoint(res.Lat, res.Lng)
	loc.FormattedAddress = res.FormattedAddress
	loc.Street = res.Street
	loc.City = res.City
	loc.State = res.State
	loc.Zipcode = res.Zipcode
	loc.Country = res.Country
	b.Location = loc
	return nil
}

// mergeJSON overlays the members of a JSON object onto dst.
func mergeJSON(dst interface{}, patch []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(patch, &obj); err != nil || obj == nil {
		return apperrors.BadRequest("invalid JSON body")
	}
	if err := json.Unmarshal(patch, dst); err != nil {
		return apperrors.BadRequest("invalid JSON body: %v", err)
	}
	return nil
}
