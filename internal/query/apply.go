package query

import (
	"sort"

	"go.mongodb.org/mongo-driver/bson"
)

// Apply evaluates q against items in memory: it filters, sorts and cuts the
// requested page, and returns the page with the total number of matches.
// Items that compare equal keep their input order.
func Apply[T any](q *Query, items []T) ([]T, int64, error) {
	type entry struct {
		item T
		doc  bson.M
	}
	matched := make([]entry, 0, len(items))
	for _, it := range items {
		doc, err := Document(it)
		if err != nil {
			return nil, 0, err
		}
		if q.Matches(doc) {
			matched = append(matched, entry{item: it, doc: doc})
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return q.Less(matched[i].doc, matched[j].doc) })

	total := int64(len(matched))
	start := q.Skip()
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if q.Limit > 0 && q.Limit < end-start {
		end = start + q.Limit
	}
	out := make([]T, 0, end-start)
	for _, e := range matched[start:end] {
		out = append(out, e.item)
	}
	return out, total, nil
}
