package archive

import (
	"encoding/base64"
	"fmt"
)

const encodingBase64 = "base64"

// Body is the serialized response body of one archive entry.
type Body struct {
	Text     *string `json:"text"`
	Encoding *string `json:"encoding"`
}

// Decode returns the raw bytes described by body. Text without an encoding is
// returned as its UTF-8 bytes; base64 text is decoded.
func Decode(body Body) ([]byte, error) {
	if body.Text == nil {
		return nil, ErrMissingBody
	}
	if body.Encoding == nil || *body.Encoding == "" {
		return []byte(*body.Text), nil
	}
	switch *body.Encoding {
	case encodingBase64:
		data, err := base64.StdEncoding.DecodeString(*body.Text)
		if err != nil {
			return nil, fmt.Errorf("decode base64 body: %w", err)
		}
		return data, nil
	default:
		return nil, &UnsupportedEncodingError{Encoding: *body.Encoding}
	}
}
