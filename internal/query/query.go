// Package query translates URL query parameters into a typed store query:
// filter conditions, projection, sort order and offset pagination.
package query

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devcamper/devcamper/backend/go-services/internal/apperrors"
)

// Op is a comparison operator.
type Op string

const (
	OpEq  Op = "eq"
	OpNe  Op = "ne"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
	OpIn  Op = "in"
)

// operators recognised as a bracketed key suffix, e.g. averageCost[lte].
var operators = map[string]Op{
	"gt":  OpGt,
	"gte": OpGte,
	"lt":  OpLt,
	"lte": OpLte,
	"in":  OpIn,
	"ne":  OpNe,
}

// Reserved keys never become filter conditions.
const (
	KeySelect = "select"
	KeySort   = "sort"
	KeyPage   = "page"
	KeyLimit  = "limit"
)

var reserved = map[string]bool{KeySelect: true, KeySort: true, KeyPage: true, KeyLimit: true}

// MaxLimit caps the page size a caller can request.
const MaxLimit = 1000

// DefaultSort orders newest records first.
var DefaultSort = []SortKey{{Field: "createdAt", Desc: true}}

// Kind tells Parse how to coerce a raw query value for a field.
type Kind int

const (
	String Kind = iota
	Number
	Bool
	Time
	ObjectID
)

// Schema maps store field names to their kind. Fields not listed are strings.
type Schema map[string]Kind

// Condition is a single field comparison. For OpIn, Value is a []interface{}.
type Condition struct {
	Field string
	Op    Op
	Value interface{}
}

// SortKey orders by one field.
type SortKey struct {
	Field string
	Desc  bool
}

// Cap restricts Field (a GeoJSON point) to a spherical cap. Radius is in radians.
type Cap struct {
	Field  string
	Lat    float64
	Lng    float64
	Radius float64
}

// Query is the typed form of a list request.
type Query struct {
	Conditions []Condition
	Fields     []string
	Sort       []SortKey
	Page       int
	Limit      int // 0 means unlimited
	Within     *Cap
}

// Skip is the number of matching records before the current page.
func (q *Query) Skip() int {
	if q.Limit <= 0 || q.Page <= 1 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// Parse builds a Query from URL values. select/sort/page/limit are consumed
// for projection, ordering and pagination; every other key is a condition.
func Parse(values url.Values, schema Schema) (*Query, error) {
	limit := min(positiveInt(values.Get(KeyLimit), 1), MaxLimit)
	q := &Query{
		Fields: parseList(values.Get(KeySelect)),
		Sort:   ParseSort(values.Get(KeySort)),
		// page*limit must fit an int
		Page:  min(positiveInt(values.Get(KeyPage), 1), math.MaxInt/limit),
		Limit: limit,
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		if !reserved[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		field, op := splitKey(key)
		kind := schema[field]
		c := Condition{Field: field, Op: op}
		if op == OpIn {
			var list []interface{}
			for _, raw := range values[key] {
				for _, item := range parseList(raw) {
					v, err := coerce(field, kind, item)
					if err != nil {
						return nil, err
					}
					list = append(list, v)
				}
			}
			if list == nil {
				list = []interface{}{}
			}
			c.Value = list
		} else {
			v, err := coerce(field, kind, values.Get(key))
			if err != nil {
				return nil, err
			}
			c.Value = v
		}
		q.Conditions = append(q.Conditions, c)
	}
	return q, nil
}

// splitKey separates a recognised operator suffix from the field name.
// Unrecognised suffixes stay part of the field name.
func splitKey(key string) (string, Op) {
	field := key
	op := OpEq
	if strings.HasSuffix(key, "]") {
		if i := strings.LastIndex(key, "["); i > 0 {
			if o, ok := operators[key[i+1:len(key)-1]]; ok {
				field, op = key[:i], o
			}
		}
	}
	if field == "id" {
		field = "_id"
	}
	return field, op
}

func coerce(field string, kind Kind, raw string) (interface{}, error) {
	raw = strings.TrimSpace(raw)
	var (
		v   interface{}
		err error
	)
	switch kind {
	case Number:
		v, err = strconv.ParseFloat(raw, 64)
	case Bool:
		v, err = strconv.ParseBool(raw)
	case Time:
		v, err = parseTime(raw)
	case ObjectID:
		v, err = primitive.ObjectIDFromHex(raw)
	default:
		v = raw
	}
	if err != nil {
		return nil, apperrors.Validation(fmt.Sprintf("invalid value %q for %s", raw, field))
	}
	return v, nil
}

func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// ParseSort parses "a,-b" into ascending a, descending b. An empty string
// yields DefaultSort.
func ParseSort(raw string) []SortKey {
	var keys []SortKey
	for _, f := range parseList(raw) {
		k := SortKey{Field: f}
		if strings.HasPrefix(f, "-") {
			k = SortKey{Field: f[1:], Desc: true}
		}
		if k.Field == "id" {
			k.Field = "_id"
		}
		if k.Field != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return append([]SortKey(nil), DefaultSort...)
	}
	return keys
}

func parseList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func positiveInt(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// PageRef points at a neighbouring page.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination reports the pages around the current one.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// Paginate computes next/prev given the total number of matching records.
func (q *Query) Paginate(total int64) Pagination {
	var p Pagination
	if q.Limit <= 0 {
		return p
	}
	if skip := int64(q.Skip()); skip < total && total-skip > int64(q.Limit) {
		p.Next = &PageRef{Page: q.Page + 1, Limit: q.Limit}
	}
	if q.Page > 1 {
		p.Prev = &PageRef{Page: q.Page - 1, Limit: q.Limit}
	}
	return p
}
