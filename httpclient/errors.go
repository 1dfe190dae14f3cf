package httpclient

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/andyle182810/jiraclient/jsondoc"
	"github.com/go-resty/resty/v2"
)

const messageLength = 128

const (
	minStatusCode = 100
	maxStatusCode = 599
)

var (
	ErrAPI            = errors.New("httpclient: api error")
	ErrUnauthorized   = errors.New("httpclient: unauthorized")
	ErrDecodeResponse = errors.New("httpclient: failed to decode response")
	ErrInvalidPayload = errors.New("httpclient: unsupported query payload")
)

// Error is the failure value of every dispatched call. StatusCode is zero when
// the failure happened before a status was received.
type Error struct {
	body

	text         string
	statusCode   int
	unauthorized bool
}

func NewError(text string) *Error {
	return newError(text, 0, false)
}

// NewErrorWithStatus is always the generic kind, even for 401. Use
// NewUnauthorized for rejected credentials.
func NewErrorWithStatus(text string, statusCode int) *Error {
	return newError(text, statusCode, false)
}

func NewErrorFromResponse(resp *resty.Response) *Error {
	return NewErrorWithStatus(string(resp.Body()), resp.StatusCode())
}

func NewUnauthorized(text string) *Error {
	return newError(text, http.StatusUnauthorized, true)
}

func NewUnauthorizedFromResponse(resp *resty.Response) *Error {
	return NewUnauthorized(string(resp.Body()))
}

func newError(text string, statusCode int, unauthorized bool) *Error {
	if statusCode < minStatusCode || statusCode > maxStatusCode {
		statusCode = 0
	}

	return &Error{
		body:         parseBody(text),
		text:         text,
		statusCode:   statusCode,
		unauthorized: unauthorized,
	}
}

func (e *Error) Error() string {
	if msg := truncate(e.text, messageLength); msg != "" {
		return msg
	}

	if e.statusCode != 0 {
		return fmt.Sprintf("httpclient: request failed with status %d", e.statusCode)
	}

	return "httpclient: request failed"
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrAPI:
		return true
	case ErrUnauthorized:
		return e.unauthorized
	default:
		return false
	}
}

func (e *Error) Text() string {
	return e.text
}

func (e *Error) StatusCode() int {
	return e.statusCode
}

func (e *Error) HasStatus() bool {
	return e.statusCode != 0
}

func (e *Error) Unauthorized() bool {
	return e.unauthorized
}

// ErrorMessages returns the "errorMessages" member of a JSON error body.
func (e *Error) ErrorMessages() []string {
	doc, ok := e.JSON()
	if !ok {
		return nil
	}

	value, ok := jsondoc.Get(doc, "errorMessages")
	if !ok {
		return nil
	}

	items, ok := jsondoc.AsArray(value)
	if !ok {
		return nil
	}

	messages := make([]string, 0, len(items))

	for _, item := range items {
		if msg, ok := jsondoc.AsString(item); ok {
			messages = append(messages, msg)
		}
	}

	return messages
}

// FieldErrors returns the per-field "errors" member of a JSON error body, in
// the order the server sent them.
func (e *Error) FieldErrors() ([]string, map[string]string) {
	doc, ok := e.JSON()
	if !ok {
		return nil, nil
	}

	value, ok := jsondoc.Get(doc, "errors")
	if !ok {
		return nil, nil
	}

	obj, ok := jsondoc.AsObject(value)
	if !ok {
		return nil, nil
	}

	fields := jsondoc.Keys(obj)
	errs := make(map[string]string, len(fields))

	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		msg, _ := jsondoc.AsString(pair.Value)
		errs[pair.Key] = msg
	}

	return fields, errs
}

func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	return nil, false
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
