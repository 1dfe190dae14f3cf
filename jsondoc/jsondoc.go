// Package jsondoc decodes JSON documents while keeping the member order of
// every object, at every depth.
//
// Go maps do not preserve insertion order, so objects are decoded into
// *orderedmap.OrderedMap values. Arrays decode to []any, numbers to
// json.Number, and the remaining scalars to string, bool or nil.
package jsondoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	ErrEmptyDocument = errors.New("jsondoc: empty document")
	ErrSyntax        = errors.New("jsondoc: invalid document")
	ErrTrailingData  = errors.New("jsondoc: unexpected data after top-level value")
)

type Object = *orderedmap.OrderedMap[string, any]

func NewObject() Object {
	return orderedmap.New[string, any]()
}

func Parse(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	value, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}

	return value, nil
}

func ParseString(text string) (any, error) {
	return Parse([]byte(text))
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		return decodeObject(dec)
	case '[':
		return decodeArray(dec)
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", rune(delim))
	}
}

func decodeObject(dec *json.Decoder) (Object, error) {
	obj := NewObject()

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key %v is not a string", tok)
		}

		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}

		// A repeated key keeps its first position and takes the last value.
		obj.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return obj, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	items := make([]any, 0)

	for dec.More() {
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}

		items = append(items, value)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return items, nil
}
