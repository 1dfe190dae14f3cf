package httpclient

import (
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
)

const reprLength = 120

// Response is a successful reply. It keeps the raw text next to the parsed
// body so callers can branch on Kind.
type Response struct {
	body

	text       string
	statusCode int
}

func NewResponse(text string, statusCode int) *Response {
	return &Response{
		body:       parseBody(text),
		text:       text,
		statusCode: statusCode,
	}
}

func NewResponseFromResty(resp *resty.Response) *Response {
	return NewResponse(string(resp.Body()), resp.StatusCode())
}

func (r *Response) Text() string {
	return r.text
}

func (r *Response) StatusCode() int {
	return r.statusCode
}

func (r *Response) String() string {
	return fmt.Sprintf("<Response<%d> %s>", r.statusCode, truncate(r.text, reprLength))
}

type responseRecord struct {
	Text       string `json:"text"`
	StatusCode int    `json:"status_code"`
}

// MarshalJSON stores only the text and status; the body is parsed again on load.
func (r *Response) MarshalJSON() ([]byte, error) {
	return json.Marshal(responseRecord{Text: r.text, StatusCode: r.statusCode})
}

func (r *Response) UnmarshalJSON(data []byte) error {
	var rec responseRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeResponse, err)
	}

	*r = *NewResponse(rec.Text, rec.StatusCode)

	return nil
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	return string(runes[:limit])
}
