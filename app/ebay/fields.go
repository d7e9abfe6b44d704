package ebay

import (
	"encoding/json"
	"strconv"
)

// field wraps a decoded Finding API JSON value. The Finding service wraps
// almost every scalar and object in a single-element array, so every lookup
// unwraps one array level before descending. A missing or mistyped step
// yields an empty field rather than an error.
type field struct {
	v any
}

func (f field) first() field {
	if arr, ok := f.v.([]any); ok {
		if len(arr) == 0 {
			return field{}
		}
		return field{v: arr[0]}
	}
	return f
}

func (f field) Get(keys ...string) field {
	cur := f
	for _, key := range keys {
		obj, ok := cur.first().v.(map[string]any)
		if !ok {
			return field{}
		}
		cur = field{v: obj[key]}
	}
	return cur
}

// List returns the elements of an array field; a bare object is treated as
// a list of one.
func (f field) List() []field {
	switch v := f.v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]field, 0, len(v))
		for _, elem := range v {
			out = append(out, field{v: elem})
		}
		return out
	default:
		return []field{f}
	}
}

// String returns the scalar value of the field or def when it is absent or
// not a scalar.
func (f field) String(def string) string {
	switch v := f.first().v.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return def
	}
}
