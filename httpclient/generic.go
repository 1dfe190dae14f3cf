//nolint:ireturn
package httpclient

import (
	"encoding/json"
	"fmt"
)

// DecodeJSON decodes the raw text of resp into a T.
func DecodeJSON[T any](resp *Response) (T, error) {
	var result T

	if err := json.Unmarshal([]byte(resp.Text()), &result); err != nil {
		return result, fmt.Errorf("%w: %w", ErrDecodeResponse, err)
	}

	return result, nil
}
