package jsondoc

import (
	"encoding/json"
)

func AsObject(v any) (Object, bool) {
	obj, ok := v.(Object)
	if !ok || obj == nil {
		return nil, false
	}

	return obj, true
}

func AsArray(v any) ([]any, bool) {
	items, ok := v.([]any)

	return items, ok
}

func AsString(v any) (string, bool) {
	s, ok := v.(string)

	return s, ok
}

// Get walks nested objects following path. An empty path returns v itself.
func Get(v any, path ...string) (any, bool) {
	current := v

	for _, key := range path {
		obj, ok := AsObject(current)
		if !ok {
			return nil, false
		}

		current, ok = obj.Get(key)
		if !ok {
			return nil, false
		}
	}

	return current, true
}

func GetString(v any, path ...string) string {
	value, ok := Get(v, path...)
	if !ok {
		return ""
	}

	s, _ := AsString(value)

	return s
}

func Keys(obj Object) []string {
	if obj == nil {
		return nil
	}

	keys := make([]string, 0, obj.Len())
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}

	return keys
}

// IsEmpty reports whether v is null, an empty object, an empty array, an empty
// string, false or a zero number.
func IsEmpty(v any) bool {
	switch value := v.(type) {
	case nil:
		return true
	case Object:
		return value == nil || value.Len() == 0
	case []any:
		return len(value) == 0
	case string:
		return value == ""
	case bool:
		return !value
	case json.Number:
		f, err := value.Float64()

		return err == nil && f == 0
	default:
		return false
	}
}

func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func MarshalIndent(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
