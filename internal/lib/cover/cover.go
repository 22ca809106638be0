// Package cover decodes cover images posted inline with a movie form.
//
// The upload widget serializes the chosen file as JSON:
//
//	{"type": "image/png", "data": "<base64>"}
package cover

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/movie-catalog/internal/model"
	"github.com/goccy/go-json"
)

var (
	// ErrMalformed is returned when the payload is not the expected JSON or
	// base64, or carries no image bytes.
	ErrMalformed = errors.New("cover: malformed payload")

	// ErrTooLarge is returned when the decoded image exceeds the size limit.
	ErrTooLarge = errors.New("cover: image too large")
)

// Image is a decoded cover.
type Image struct {
	Data []byte
	Type string
}

type payload struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// Decode parses an encoded cover.
//
// It returns (nil, nil) when there is nothing to apply: an empty payload, a
// JSON null, or an unsupported mime type. maxBytes <= 0 disables the size check.
func Decode(encoded string, maxBytes int) (*Image, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, nil
	}

	var p *payload
	if err := json.Unmarshal([]byte(encoded), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if p == nil || !model.IsCoverImageType(p.Type) {
		return nil, nil
	}

	if maxBytes > 0 && base64.StdEncoding.DecodedLen(len(p.Data)) > maxBytes+2 {
		return nil, ErrTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(p.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrMalformed)
	}

	if maxBytes > 0 && len(data) > maxBytes {
		return nil, ErrTooLarge
	}

	return &Image{Data: data, Type: p.Type}, nil
}

// Apply decodes encoded onto m. A nil result from Decode leaves m unchanged.
func Apply(m *model.Movie, encoded string, maxBytes int) error {
	img, err := Decode(encoded, maxBytes)
	if err != nil || img == nil {
		return err
	}

	m.CoverImage = img.Data
	m.CoverImageType = img.Type
	return nil
}
