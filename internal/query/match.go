package query

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devcamper/devcamper/backend/go-services/internal/geo"
)

// Document converts a model into the map form evaluated by Matches and Less.
// Field names are the model's BSON names.
func Document(v interface{}) (bson.M, error) {
	data, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Matches evaluates the query's conditions against doc with the store's
// semantics: a condition on an array field matches when any element does.
func (q *Query) Matches(doc bson.M) bool {
	for _, c := range q.Conditions {
		v, found := lookup(doc, c.Field)
		if !c.matches(v, found) {
			return false
		}
	}
	if c := q.Within; c != nil {
		coords, found := lookup(doc, c.Field+".coordinates")
		if !found {
			return false
		}
		arr := asArray(coords)
		if len(arr) != 2 {
			return false
		}
		lng, ok1 := normalize(arr[0]).(float64)
		lat, ok2 := normalize(arr[1]).(float64)
		if !ok1 || !ok2 || !geo.WithinCap(lat, lng, c.Lat, c.Lng, c.Radius) {
			return false
		}
	}
	return true
}

func (c Condition) matches(v interface{}, found bool) bool {
	if c.Op == OpNe {
		return !Condition{Field: c.Field, Op: OpEq, Value: c.Value}.matches(v, found)
	}
	if !found {
		return false
	}
	if arr, isArray := v.(primitive.A); isArray {
		for _, el := range arr {
			if c.matchScalar(el) {
				return true
			}
		}
		return false
	}
	return c.matchScalar(v)
}

func (c Condition) matchScalar(v interface{}) bool {
	if c.Op == OpIn {
		list, _ := c.Value.([]interface{})
		for _, want := range list {
			if n, ok := compare(v, want); ok && n == 0 {
				return true
			}
		}
		return false
	}
	n, ok := compare(v, c.Value)
	if !ok {
		return false
	}
	switch c.Op {
	case OpEq:
		return n == 0
	case OpGt:
		return n > 0
	case OpGte:
		return n >= 0
	case OpLt:
		return n < 0
	case OpLte:
		return n <= 0
	}
	return false
}

// Less orders a before b according to the query's sort keys. Missing values
// sort before present ones, as in the store.
func (q *Query) Less(a, b bson.M) bool {
	for _, k := range q.Sort {
		va, okA := lookup(a, k.Field)
		vb, okB := lookup(b, k.Field)
		var n int
		switch {
		case !okA && !okB:
			continue
		case !okA:
			n = -1
		case !okB:
			n = 1
		default:
			var ok bool
			if n, ok = compare(va, vb); !ok {
				n = strings.Compare(fmt.Sprint(va), fmt.Sprint(vb))
			}
		}
		if n == 0 {
			continue
		}
		if k.Desc {
			return n > 0
		}
		return n < 0
	}
	return false
}

func lookup(doc bson.M, path string) (interface{}, bool) {
	var cur interface{} = doc
	for _, part := range strings.Split(path, ".") {
		switch m := cur.(type) {
		case bson.M:
			v, ok := m[part]
			if !ok {
				return nil, false
			}
			cur = v
		case map[string]interface{}:
			v, ok := m[part]
			if !ok {
				return nil, false
			}
			cur = v
		case bson.D:
			found := false
			for _, e := range m {
				if e.Key == part {
					cur, found = e.Value, true
					break
				}
			}
			if !found {
				return nil, false
			}
		default:
			return nil, false
		}
	}
	return cur, true
}

func asArray(v interface{}) []interface{} {
	switch a := v.(type) {
	case primitive.A:
		return a
	case []interface{}:
		return a
	}
	return nil
}

func normalize(v interface{}) interface{} {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float32:
		return float64(x)
	case primitive.DateTime:
		return x.Time()
	case primitive.ObjectID:
		return x.Hex()
	}
	return v
}

// compare returns -1, 0 or 1; ok is false when the values are of
// incomparable types.
func compare(a, b interface{}) (int, bool) {
	a, b = normalize(a), normalize(b)
	switch x := a.(type) {
	case float64:
		y, ok := b.(float64)
		if !ok {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case bool:
		y, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		}
		return 1, true
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return x.Compare(y), true
	}
	return 0, false
}
