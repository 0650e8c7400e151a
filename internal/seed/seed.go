// Package seed loads fixture bootcamps and courses straight into the stores,
// or wipes them.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson/primitive"

	bootcamprepo "github.com/devcamper/devcamper/backend/go-services/internal/bootcamps/repository"
	courserepo "github.com/devcamper/devcamper/backend/go-services/internal/courses/repository"
	"github.com/devcamper/devcamper/backend/go-services/internal/geocoder"
	"github.com/devcamper/devcamper/backend/go-services/internal/models"
	"github.com/devcamper/devcamper/backend/go-services/pkg/logger"
)

const (
	BootcampsFile = "bootcamps.json"
	CoursesFile   = "courses.json"
)

type Seeder struct {
	Bootcamps bootcamprepo.Repository
	Courses   courserepo.Repository
	// Geocoder, when set, locates fixture bootcamps that carry no location.
	Geocoder geocoder.Geocoder
	Now      func() time.Time
}

// Counts reports how many records an operation touched.
type Counts struct {
	Bootcamps int64
	Courses   int64
}

func (s *Seeder) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Import reads the fixture files in dir and inserts them. The courses file
// is optional.
func (s *Seeder) Import(ctx context.Context, dir string) (Counts, error) {
	var (
		bootcamps []*models.Bootcamp
		courses   []*models.Course
		counts    Counts
	)
	if err := readJSON(filepath.Join(dir, BootcampsFile), &bootcamps); err != nil {
		return counts, err
	}
	if err := readJSON(filepath.Join(dir, CoursesFile), &courses); err != nil && !errors.Is(err, os.ErrNotExist) {
		return counts, err
	}

	now := s.now()
	for _, b := range bootcamps {
		if b.ID.IsZero() {
			b.ID = primitive.NewObjectID()
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		if b.Photo == "" {
			b.Photo = models.DefaultPhoto
		}
		b.Slug = slug.Make(b.Name)
		if err := s.locate(ctx, b); err != nil {
			return counts, err
		}
	}
	for _, c := range courses {
		if c.ID.IsZero() {
			c.ID = primitive.NewObjectID()
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
	}

	if err := s.Bootcamps.InsertMany(ctx, bootcamps); err != nil {
		return counts, fmt.Errorf("insert bootcamps: %w", err)
	}
	counts.Bootcamps = int64(len(bootcamps))
	if err := s.Courses.InsertMany(ctx, courses); err != nil {
		return counts, fmt.Errorf("insert courses: %w", err)
	}
	counts.Courses = int64(len(courses))
	logger.Infof("seed: imported %d bootcamps and %d courses from %s", counts.Bootcamps, counts.Courses, dir)
	return counts, nil
}

// Destroy deletes every bootcamp and course.
func (s *Seeder) Destroy(ctx context.Context) (Counts, error) {
	var counts Counts
	n, err := s.Courses.DeleteAll(ctx)
	if err != nil {
		return counts, fmt.Errorf("delete courses: %w", err)
	}
	counts.Courses = n
	if n, err = s.Bootcamps.DeleteAll(ctx); err != nil {
		return counts, fmt.Errorf("delete bootcamps: %w", err)
	}
	counts.Bootcamps = n
	logger.Infof("seed: destroyed %d bootcamps and %d courses", counts.Bootcamps, counts.Courses)
	return counts, nil
}

func (s *Seeder) locate(ctx context.Context, b *models.Bootcamp) error {
	if b.Location != nil || s.Geocoder == nil || b.Address == "" {
		return nil
	}
	res, err := s.Geocoder.Geocode(ctx, b.Address)
	if err != nil {
		return fmt.Errorf("geocode %s: %w", b.Name, err)
	}
	loc := models.NewPoint(res.Lat, res.Lng)
	loc.FormattedAddress = res.FormattedAddress
	loc.City = res.City
	loc.State = res.State
	loc.Zipcode = res.Zipcode
	loc.Country = res.Country
	b.Location = loc
	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
