package ingestion

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/legaflow/internal/common"
)

// ErrUndecodable is returned when a request body is not base64-encoded JSON.
var ErrUndecodable = fmt.Errorf("%w: provide a base64-encoded message", common.ErrorInvalidRequest)

// DecodeRequest decodes a base64-encoded JSON submission. Both padded and
// unpadded standard encodings are accepted.
func DecodeRequest(body []byte) (Submission, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return Submission{}, ErrUndecodable
	}

	raw, err := decodeBase64(body)
	if err != nil {
		return Submission{}, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	var sub Submission
	if err := json.Unmarshal(raw, &sub); err != nil {
		return Submission{}, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	return sub, nil
}

func decodeBase64(b []byte) ([]byte, error) {
	out := make([]byte, base64.StdEncoding.DecodedLen(len(b)))
	n, err := base64.StdEncoding.Decode(out, b)
	if err == nil {
		return out[:n], nil
	}

	var corrupt base64.CorruptInputError
	if !errors.As(err, &corrupt) {
		return nil, err
	}
	out = make([]byte, base64.RawStdEncoding.DecodedLen(len(b)))
	n, rawErr := base64.RawStdEncoding.Decode(out, b)
	if rawErr != nil {
		return nil, err
	}
	return out[:n], nil
}
