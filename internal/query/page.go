package query

// Page is one page of list results. Data holds either the records or, when
// fields were selected, their projections.
type Page struct {
	Data       interface{}
	Count      int
	Pagination Pagination
}

// NewPage builds the page for items, projecting them when q selects fields.
func NewPage[T any](q *Query, items []T, total int64) (*Page, error) {
	p := &Page{Data: items, Count: len(items), Pagination: q.Paginate(total)}
	if len(q.Fields) == 0 {
		return p, nil
	}
	projected := make([]map[string]interface{}, 0, len(items))
	for _, it := range items {
		m, err := Project(it, q.Fields)
		if err != nil {
			return nil, err
		}
		projected = append(projected, m)
	}
	p.Data = projected
	return p, nil
}
