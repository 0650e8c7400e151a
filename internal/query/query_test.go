package query

import (
	"errors"
	"math"
	"net/url"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devcamper/devcamper/backend/go-services/internal/apperrors"
)

var testSchema = Schema{
	"_id":         ObjectID,
	"averageCost": Number,
	"housing":     Bool,
	"createdAt":   Time,
}

func mustParse(t *testing.T, raw string) *Query {
	t.Helper()
	v, err := url.ParseQuery(raw)
	require.NoError(t, err)
	q, err := Parse(v, testSchema)
	require.NoError(t, err)
	return q
}

func TestParseDefaults(t *testing.T) {
	q := mustParse(t, "")
	require.Empty(t, q.Conditions)
	require.Empty(t, q.Fields)
	require.Equal(t, 1, q.Page)
	require.Equal(t, 1, q.Limit)
	require.Equal(t, 0, q.Skip())
	require.Equal(t, []SortKey{{Field: "createdAt", Desc: true}}, q.Sort)
}

func TestParseNonNumericPagination(t *testing.T) {
	q := mustParse(t, "page=abc&limit=-3")
	require.Equal(t, 1, q.Page)
	require.Equal(t, 1, q.Limit)
}

func TestParseReservedKeysAreNotConditions(t *testing.T) {
	q := mustParse(t, "select=name,description&sort=name,-averageCost&page=3&limit=10&housing=true")
	require.Equal(t, []string{"name", "description"}, q.Fields)
	require.Equal(t, []SortKey{{Field: "name"}, {Field: "averageCost", Desc: true}}, q.Sort)
	require.Equal(t, 3, q.Page)
	require.Equal(t, 10, q.Limit)
	require.Equal(t, 20, q.Skip())
	require.Equal(t, []Condition{{Field: "housing", Op: OpEq, Value: true}}, q.Conditions)
}

func TestParseComparisonOperators(t *testing.T) {
	for raw, op := range map[string]Op{"gt": OpGt, "gte": OpGte, "lt": OpLt, "lte": OpLte, "ne": OpNe} {
		q := mustParse(t, "averageCost["+raw+"]=10000")
		require.Equal(t, []Condition{{Field: "averageCost", Op: op, Value: 10000.0}}, q.Conditions, raw)
	}
}

func TestParseInOperator(t *testing.T) {
	q := mustParse(t, "careers[in]=Business,UI/UX&careers[in]=Other")
	require.Len(t, q.Conditions, 1)
	require.Equal(t, "careers", q.Conditions[0].Field)
	require.Equal(t, OpIn, q.Conditions[0].Op)
	require.Equal(t, []interface{}{"Business", "UI/UX", "Other"}, q.Conditions[0].Value)
}

func TestParseEmptyInListIsEmptyArray(t *testing.T) {
	q := mustParse(t, "careers[in]=")
	require.Equal(t, []Condition{{Field: "careers", Op: OpIn, Value: []interface{}{}}}, q.Conditions)
	require.Equal(t, bson.M{"careers": bson.M{"$in": []interface{}{}}}, q.Filter())
	require.False(t, q.Matches(bson.M{"careers": bson.A{"Other"}}))
}

func TestParseUnknownOperatorPassesThrough(t *testing.T) {
	q := mustParse(t, "averageCost[foo]=5")
	require.Equal(t, []Condition{{Field: "averageCost[foo]", Op: OpEq, Value: "5"}}, q.Conditions)
}

func TestParseIDAlias(t *testing.T) {
	id := primitive.NewObjectID()
	q := mustParse(t, "id="+id.Hex())
	require.Equal(t, []Condition{{Field: "_id", Op: OpEq, Value: id}}, q.Conditions)
}

func TestParseInvalidValue(t *testing.T) {
	v, _ := url.ParseQuery("averageCost[lte]=cheap")
	_, err := Parse(v, testSchema)
	require.Error(t, err)
	require.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestParseBoundsPagination(t *testing.T) {
	q := mustParse(t, "page=9223372036854775807&limit=2")
	require.Equal(t, 2, q.Limit)
	require.Equal(t, math.MaxInt/2, q.Page)
	require.Positive(t, q.Skip())
	p := q.Paginate(4)
	require.Nil(t, p.Next)
	require.NotNil(t, p.Prev)

	q = mustParse(t, "limit=9223372036854775807&page=2")
	require.Equal(t, MaxLimit, q.Limit)
	require.Equal(t, 2, q.Page)
	require.Equal(t, MaxLimit, q.Skip())
}

func TestSkipSaturates(t *testing.T) {
	q := &Query{Page: math.MaxInt, Limit: math.MaxInt}
	require.Equal(t, math.MaxInt, q.Skip())
	require.Equal(t, Pagination{Prev: &PageRef{Page: math.MaxInt - 1, Limit: math.MaxInt}}, q.Paginate(10))
}

func TestApplyPageBeyondEnd(t *testing.T) {
	recs := []record{
		{ID: primitive.NewObjectID(), Name: "A"},
		{ID: primitive.NewObjectID(), Name: "B"},
		{ID: primitive.NewObjectID(), Name: "C"},
	}
	for _, q := range []*Query{
		mustParse(t, "page=9223372036854775807&limit=2"),
		mustParse(t, "page=3&limit=9223372036854775807"),
		{Page: math.MaxInt, Limit: math.MaxInt},
	} {
		out, total, err := Apply(q, recs)
		require.NoError(t, err)
		require.Empty(t, out)
		require.EqualValues(t, 3, total)
	}

	out, total, err := Apply(mustParse(t, "sort=name&page=2&limit=2"), recs)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, out, 1)
	require.Equal(t, "C", out[0].Name)
}

func TestPaginate(t *testing.T) {
	q := mustParse(t, "limit=2&page=2")
	p := q.Paginate(4)
	require.Nil(t, p.Next)
	require.Equal(t, &PageRef{Page: 1, Limit: 2}, p.Prev)

	q = mustParse(t, "limit=2&page=1")
	p = q.Paginate(5)
	require.Equal(t, &PageRef{Page: 2, Limit: 2}, p.Next)
	require.Nil(t, p.Prev)

	q = &Query{Page: 1}
	require.Equal(t, Pagination{}, q.Paginate(100))
}

func TestFilterMergesOperatorsPerField(t *testing.T) {
	q := mustParse(t, "averageCost[gte]=1000&averageCost[lte]=10000&housing=false")
	require.Equal(t, bson.M{
		"averageCost": bson.M{"$gte": 1000.0, "$lte": 10000.0},
		"housing":     bson.M{"$eq": false},
	}, q.Filter())
}

func TestFilterWithin(t *testing.T) {
	q := &Query{Within: &Cap{Field: "location", Lat: 42.35, Lng: -71.06, Radius: 0.01}}
	require.Equal(t, bson.M{
		"location": bson.M{"$geoWithin": bson.M{"$centerSphere": bson.A{bson.A{-71.06, 42.35}, 0.01}}},
	}, q.Filter())
}

func TestSortDocAndProjection(t *testing.T) {
	q := mustParse(t, "sort=-name,averageCost&select=name,id")
	require.Equal(t, bson.D{{Key: "name", Value: -1}, {Key: "averageCost", Value: 1}}, q.SortDoc())
	require.Equal(t, bson.M{"name": 1}, q.Projection())
	require.Nil(t, mustParse(t, "").Projection())
	require.Equal(t, bson.M{"_id": 1}, mustParse(t, "select=id").Projection())
}

type record struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	AverageCost float64            `bson:"averageCost,omitempty"`
	Careers     []string           `bson:"careers"`
	Housing     bool               `bson:"housing"`
	CreatedAt   time.Time          `bson:"createdAt"`
	Location    *struct {
		Coordinates []float64 `bson:"coordinates"`
	} `bson:"location,omitempty"`
}

func docs(t *testing.T, recs ...record) []bson.M {
	t.Helper()
	out := make([]bson.M, 0, len(recs))
	for _, r := range recs {
		d, err := Document(r)
		require.NoError(t, err)
		out = append(out, d)
	}
	return out
}

func TestMatches(t *testing.T) {
	now := time.Now().UTC()
	ds := docs(t,
		record{ID: primitive.NewObjectID(), Name: "A", AverageCost: 5000, Careers: []string{"Business"}, CreatedAt: now},
		record{ID: primitive.NewObjectID(), Name: "B", AverageCost: 12000, Careers: []string{"Web Development", "UI/UX"}, Housing: true, CreatedAt: now},
		record{ID: primitive.NewObjectID(), Name: "C", Careers: []string{"Other"}, CreatedAt: now},
	)
	names := func(raw string) []string {
		q := mustParse(t, raw)
		var out []string
		for _, d := range ds {
			if q.Matches(d) {
				out = append(out, d["name"].(string))
			}
		}
		return out
	}
	require.Equal(t, []string{"A"}, names("averageCost[lte]=10000"))
	require.Equal(t, []string{"B"}, names("averageCost[gt]=5000"))
	require.Equal(t, []string{"B"}, names("careers=UI/UX"))
	require.Equal(t, []string{"A", "C"}, names("careers[in]=Business,Other"))
	require.Equal(t, []string{"A", "C"}, names("careers[ne]=UI/UX"))
	require.Equal(t, []string{"B"}, names("housing=true"))
	require.Empty(t, names("averageCost[foo]=5"))
	require.Equal(t, []string{"A", "B", "C"}, names("select=name"))
}

func TestMatchesWithin(t *testing.T) {
	loc := func(lat, lng float64) *struct {
		Coordinates []float64 `bson:"coordinates"`
	} {
		return &struct {
			Coordinates []float64 `bson:"coordinates"`
		}{Coordinates: []float64{lng, lat}}
	}
	ds := docs(t,
		record{Name: "cambridge", Location: loc(42.3736, -71.1097)},
		record{Name: "worcester", Location: loc(42.2626, -71.8023)},
		record{Name: "nowhere"},
	)
	q := &Query{Within: &Cap{Field: "location", Lat: 42.3601, Lng: -71.0589, Radius: 10 / 3963.0}}
	require.True(t, q.Matches(ds[0]))
	require.False(t, q.Matches(ds[1]))
	require.False(t, q.Matches(ds[2]))
}

func TestLess(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ds := docs(t,
		record{Name: "beta", AverageCost: 2, CreatedAt: base},
		record{Name: "alpha", AverageCost: 2, CreatedAt: base.Add(time.Hour)},
		record{Name: "gamma", CreatedAt: base.Add(2 * time.Hour)},
	)
	order := func(raw string) []string {
		q := mustParse(t, raw)
		sorted := append([]bson.M(nil), ds...)
		sort.SliceStable(sorted, func(i, j int) bool { return q.Less(sorted[i], sorted[j]) })
		out := make([]string, 0, len(sorted))
		for _, d := range sorted {
			out = append(out, d["name"].(string))
		}
		return out
	}
	require.Equal(t, []string{"gamma", "alpha", "beta"}, order(""))
	require.Equal(t, []string{"gamma", "beta", "alpha"}, order("sort=-name"))
	require.Equal(t, []string{"gamma", "alpha", "beta"}, order("sort=averageCost,name"))
}

func TestProject(t *testing.T) {
	type item struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		Description string  `json:"description"`
		AverageCost float64 `json:"averageCost"`
	}
	out, err := Project(item{ID: "1", Name: "n", Description: "d", AverageCost: 3}, []string{"name", "missing"})
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"id": "1", "name": "n"}, out)
}

func TestNewPageProjectsSelectedFields(t *testing.T) {
	type item struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Cost int    `json:"cost"`
	}
	items := []item{{ID: "1", Name: "a", Cost: 1}, {ID: "2", Name: "b", Cost: 2}}

	p, err := NewPage(mustParse(t, "limit=2"), items, 3)
	require.NoError(t, err)
	require.Equal(t, items, p.Data)
	require.Equal(t, 2, p.Count)
	require.Equal(t, &PageRef{Page: 2, Limit: 2}, p.Pagination.Next)

	p, err = NewPage(mustParse(t, "select=name&limit=2"), items, 2)
	require.NoError(t, err)
	require.Equal(t, []map[string]interface{}{{"id": "1", "name": "a"}, {"id": "2", "name": "b"}}, p.Data)
	require.Nil(t, p.Pagination.Next)
}
