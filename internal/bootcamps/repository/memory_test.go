package repository

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devcamper/devcamper/backend/go-services/internal/geo"
	"github.com/devcamper/devcamper/backend/go-services/internal/models"
	"github.com/devcamper/devcamper/backend/go-services/internal/query"
)

func bootcamp(name string, cost float64, lat, lng float64, created time.Time) *models.Bootcamp {
	return &models.Bootcamp{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: name + " description",
		Address:     "somewhere",
		Location:    models.NewPoint(lat, lng),
		Careers:     []string{"Web Development"},
		AverageCost: cost,
		Photo:       models.DefaultPhoto,
		CreatedAt:   created,
	}
}

func parse(t *testing.T, raw string) *query.Query {
	t.Helper()
	v, err := url.ParseQuery(raw)
	require.NoError(t, err)
	q, err := query.Parse(v, Schema)
	require.NoError(t, err)
	return q
}

func names(bs []*models.Bootcamp) []string {
	out := make([]string, 0, len(bs))
	for _, b := range bs {
		out = append(out, b.Name)
	}
	return out
}

func seeded(t *testing.T) *MemoryRepo {
	t.Helper()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	r := NewMemoryRepo()
	require.NoError(t, r.InsertMany(context.Background(), []*models.Bootcamp{
		bootcamp("Devworks", 10000, 42.3601, -71.0589, base),
		bootcamp("ModernTech", 12000, 42.3736, -71.1097, base.Add(time.Hour)),
		bootcamp("Codemasters", 8000, 42.2626, -71.8023, base.Add(2*time.Hour)),
		bootcamp("Devcentral", 5000, 39.9526, -75.1652, base.Add(3*time.Hour)),
	}))
	return r
}

func TestMemoryRepoCRUD(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	b := bootcamp("Devworks", 10000, 42.36, -71.06, time.Now().UTC())
	require.NoError(t, r.Create(ctx, b))

	got, err := r.Get(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, "Devworks", got.Name)

	got.Name = "Devworks Bootcamp"
	got.Careers[0] = "Other"
	stored, _ := r.Get(ctx, b.ID)
	require.Equal(t, "Devworks", stored.Name)
	require.Equal(t, "Web Development", stored.Careers[0])

	require.NoError(t, r.Replace(ctx, got))
	stored, _ = r.Get(ctx, b.ID)
	require.Equal(t, "Devworks Bootcamp", stored.Name)

	require.NoError(t, r.Delete(ctx, b.ID))
	_, err = r.Get(ctx, b.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, r.Delete(ctx, b.ID), ErrNotFound)
	require.ErrorIs(t, r.Replace(ctx, b), ErrNotFound)
}

func TestMemoryRepoDuplicateName(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	a := bootcamp("Devworks", 1, 0, 0, time.Now())
	require.NoError(t, r.Create(ctx, a))
	require.ErrorIs(t, r.Create(ctx, bootcamp("Devworks", 2, 0, 0, time.Now())), ErrDuplicate)

	other := bootcamp("Other", 1, 0, 0, time.Now())
	require.NoError(t, r.Create(ctx, other))
	other.Name = "Devworks"
	require.ErrorIs(t, r.Replace(ctx, other), ErrDuplicate)
}

func TestMemoryRepoFindFilterSortPage(t *testing.T) {
	ctx := context.Background()
	r := seeded(t)

	list, total, err := r.Find(ctx, parse(t, "averageCost[lte]=10000&limit=10"))
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Equal(t, []string{"Devcentral", "Codemasters", "Devworks"}, names(list))

	list, total, err = r.Find(ctx, parse(t, "sort=-name&limit=10"))
	require.NoError(t, err)
	require.EqualValues(t, 4, total)
	require.Equal(t, []string{"ModernTech", "Devworks", "Devcentral", "Codemasters"}, names(list))

	list, total, err = r.Find(ctx, parse(t, "sort=name&limit=2&page=2"))
	require.NoError(t, err)
	require.EqualValues(t, 4, total)
	require.Equal(t, []string{"Devworks", "ModernTech"}, names(list))

	list, _, err = r.Find(ctx, parse(t, "limit=2&page=5"))
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestMemoryRepoFindWithin(t *testing.T) {
	r := seeded(t)
	q := &query.Query{
		Sort:   []query.SortKey{{Field: "name"}},
		Within: &query.Cap{Field: "location", Lat: 42.3601, Lng: -71.0589, Radius: geo.AngularRadius(10, geo.Miles)},
	}
	list, total, err := r.Find(context.Background(), q)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Equal(t, []string{"Devworks", "ModernTech"}, names(list))
}

func TestMemoryRepoSummariesAndDeleteAll(t *testing.T) {
	ctx := context.Background()
	r := seeded(t)
	list, _, err := r.Find(ctx, &query.Query{})
	require.NoError(t, err)
	missing := primitive.NewObjectID()

	sums, err := r.Summaries(ctx, []primitive.ObjectID{list[0].ID, missing})
	require.NoError(t, err)
	require.Len(t, sums, 1)
	require.Equal(t, list[0].Name, sums[list[0].ID].Name)

	n, err := r.DeleteAll(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 4, n)
	_, total, err := r.Find(ctx, &query.Query{})
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestMemoryRepoFindZeroCost(t *testing.T) {
	ctx := context.Background()
	r := seeded(t)
	require.NoError(t, r.Create(ctx, bootcamp("Freecode", 0, 42.3601, -71.0589, time.Now())))

	list, total, err := r.Find(ctx, parse(t, "averageCost=0&limit=10"))
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, []string{"Freecode"}, names(list))

	_, total, err = r.Find(ctx, parse(t, "averageCost[lte]=5000&limit=10"))
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
}
