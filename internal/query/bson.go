package query

import "go.mongodb.org/mongo-driver/bson"

// Filter renders the conditions (and the spherical cap, if any) as a Mongo
// filter document. Conditions on one field share an operator document.
func (q *Query) Filter() bson.M {
	f := bson.M{}
	fieldOps := func(field string) bson.M {
		ops, ok := f[field].(bson.M)
		if !ok {
			ops = bson.M{}
			f[field] = ops
		}
		return ops
	}
	for _, c := range q.Conditions {
		fieldOps(c.Field)["$"+string(c.Op)] = c.Value
	}
	if c := q.Within; c != nil {
		fieldOps(c.Field)["$geoWithin"] = bson.M{
			"$centerSphere": bson.A{bson.A{c.Lng, c.Lat}, c.Radius},
		}
	}
	return f
}

// SortDoc renders the sort keys in order.
func (q *Query) SortDoc() bson.D {
	d := make(bson.D, 0, len(q.Sort))
	for _, k := range q.Sort {
		dir := 1
		if k.Desc {
			dir = -1
		}
		d = append(d, bson.E{Key: k.Field, Value: dir})
	}
	return d
}

// Projection returns nil when every field is wanted.
func (q *Query) Projection() bson.M {
	if len(q.Fields) == 0 {
		return nil
	}
	p := bson.M{}
	for _, f := range q.Fields {
		if f == "id" || f == "_id" {
			continue
		}
		p[f] = 1
	}
	if len(p) == 0 {
		p["_id"] = 1
	}
	return p
}
