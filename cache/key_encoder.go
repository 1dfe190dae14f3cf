package cache

import (
	"errors"
	"fmt"
)

var ErrCacheInvalidKeyType = errors.New("cache: invalid key type")

const requestKeyPrefix = "JIRA"

type KeyEncoder interface {
	Encode(key any) (string, error)
}

type StringKeyEncoder struct{}

func NewStringKeyEncoder() *StringKeyEncoder {
	return &StringKeyEncoder{}
}

func (e *StringKeyEncoder) Encode(key any) (string, error) {
	str, ok := key.(string)
	if !ok {
		return "", fmt.Errorf("%w (expected string, got %T)", ErrCacheInvalidKeyType, key)
	}

	return str, nil
}

// RequestKey identifies a cached read: the requested URL on one instance.
type RequestKey struct {
	URL      string
	Instance string
}

type RequestKeyEncoder struct{}

func NewRequestKeyEncoder() *RequestKeyEncoder {
	return &RequestKeyEncoder{}
}

func (e *RequestKeyEncoder) Encode(key any) (string, error) {
	switch k := key.(type) {
	case RequestKey:
		return fmt.Sprintf("%s-%s-%s", requestKeyPrefix, k.URL, k.Instance), nil
	case *RequestKey:
		if k == nil {
			return "", fmt.Errorf("%w (nil *RequestKey)", ErrCacheInvalidKeyType)
		}

		return e.Encode(*k)
	default:
		return "", fmt.Errorf("%w (expected RequestKey, got %T)", ErrCacheInvalidKeyType, key)
	}
}
