package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	bootcamprepo "github.com/devcamper/devcamper/backend/go-services/internal/bootcamps/repository"
	courserepo "github.com/devcamper/devcamper/backend/go-services/internal/courses/repository"
	"github.com/devcamper/devcamper/backend/go-services/internal/models"
	"github.com/devcamper/devcamper/backend/go-services/internal/query"
)

func newSeeder() *Seeder {
	return &Seeder{Bootcamps: bootcamprepo.NewMemoryRepo(), Courses: courserepo.NewMemoryRepo()}
}

func TestImportFixtures(t *testing.T) {
	ctx := context.Background()
	s := newSeeder()
	counts, err := s.Import(ctx, filepath.Join("..", "..", "_data"))
	require.NoError(t, err)
	require.EqualValues(t, 4, counts.Bootcamps)
	require.EqualValues(t, 8, counts.Courses)

	list, _, err := s.Bootcamps.Find(ctx, &query.Query{})
	require.NoError(t, err)
	for _, b := range list {
		require.NotEmpty(t, b.Slug)
		require.Equal(t, models.DefaultPhoto, b.Photo)
		require.False(t, b.CreatedAt.IsZero())
		_, _, ok := b.Location.LatLng()
		require.True(t, ok, b.Name)
	}

	courses, _, err := s.Courses.Find(ctx, &query.Query{})
	require.NoError(t, err)
	for _, c := range courses {
		_, err := s.Bootcamps.Get(ctx, c.Bootcamp)
		require.NoError(t, err, c.Title)
	}

	_, err = s.Import(ctx, filepath.Join("..", "..", "_data"))
	require.ErrorIs(t, err, bootcamprepo.ErrDuplicate)
}

func TestImportWithoutCourses(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, BootcampsFile),
		[]byte(`[{"name":"Solo Camp","description":"d","address":"x","careers":["Other"]}]`), 0o600))
	counts, err := newSeeder().Import(context.Background(), dir)
	require.NoError(t, err)
	require.EqualValues(t, 1, counts.Bootcamps)
	require.Zero(t, counts.Courses)
}

func TestImportErrors(t *testing.T) {
	_, err := newSeeder().Import(context.Background(), t.TempDir())
	require.ErrorIs(t, err, os.ErrNotExist)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, BootcampsFile), []byte(`{not json`), 0o600))
	_, err = newSeeder().Import(context.Background(), dir)
	require.Error(t, err)
}

func TestDestroy(t *testing.T) {
	ctx := context.Background()
	s := newSeeder()
	_, err := s.Import(ctx, filepath.Join("..", "..", "_data"))
	require.NoError(t, err)

	counts, err := s.Destroy(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 4, counts.Bootcamps)
	require.EqualValues(t, 8, counts.Courses)

	counts, err = s.Destroy(ctx)
	require.NoError(t, err)
	require.Zero(t, counts.Bootcamps)
}
