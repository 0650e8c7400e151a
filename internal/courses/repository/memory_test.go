package repository

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devcamper/devcamper/backend/go-services/internal/models"
	"github.com/devcamper/devcamper/backend/go-services/internal/query"
)

func course(title string, bootcamp primitive.ObjectID, tuition float64) *models.Course {
	return &models.Course{
		ID:           primitive.NewObjectID(),
		Title:        title,
		Description:  title,
		Weeks:        8,
		Tuition:      tuition,
		MinimumSkill: "beginner",
		CreatedAt:    time.Now().UTC(),
		Bootcamp:     bootcamp,
	}
}

func TestMemoryRepoCRUD(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	c := course("Front End", primitive.NewObjectID(), 8000)
	require.NoError(t, r.Create(ctx, c))

	got, err := r.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, "Front End", got.Title)

	got.Weeks = 12
	require.NoError(t, r.Replace(ctx, got))
	got, _ = r.Get(ctx, c.ID)
	require.Equal(t, 12, got.Weeks)

	require.NoError(t, r.Delete(ctx, c.ID))
	_, err = r.Get(ctx, c.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, r.Delete(ctx, c.ID), ErrNotFound)
}

func TestMemoryRepoFindByBootcamp(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	require.NoError(t, r.InsertMany(ctx, []*models.Course{
		course("One", a, 1000),
		course("Two", a, 9000),
		course("Three", b, 5000),
	}))

	v, _ := url.ParseQuery("bootcamp=" + a.Hex() + "&sort=title&limit=10")
	q, err := query.Parse(v, Schema)
	require.NoError(t, err)
	list, total, err := r.Find(ctx, q)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Equal(t, "One", list[0].Title)
	require.Equal(t, "Two", list[1].Title)

	v, _ = url.ParseQuery("tuition[gte]=5000&limit=10")
	q, err = query.Parse(v, Schema)
	require.NoError(t, err)
	_, total, err = r.Find(ctx, q)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)

	n, err := r.DeleteAll(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
}
