package query

import "encoding/json"

// Project returns the JSON form of v restricted to fields. The "id" field is
// always kept. Unknown fields are ignored.
func Project(v interface{}, fields []string) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var full map[string]interface{}
	if err := json.Unmarshal(data, &full); err != nil {
		return nil, err
	}
	out := make(map[string]interface{}, len(fields)+1)
	if id, ok := full["id"]; ok {
		out["id"] = id
	}
	for _, f := range fields {
		if f == "_id" {
			f = "id"
		}
		if val, ok := full[f]; ok {
			out[f] = val
		}
	}
	return out, nil
}
