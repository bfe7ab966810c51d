// Package binder decodes JSON request bodies into typed request structs.
// Decoding is strict: unknown fields are rejected and bodies are capped at
// one megabyte.
package binder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/membercore/membership/pkg/response"
)

var (
	ErrUnsupportedMediaType = errors.Join(errors.New("unsupported media type"), response.ErrInvalidArgument)
	ErrFailedToParseJSON    = errors.Join(errors.New("failed to parse JSON request body"), response.ErrInvalidArgument)
	ErrMissingContentType   = errors.Join(errors.New("missing content type"), response.ErrInvalidArgument)
)

// MaxJSONSize is the maximum accepted JSON body size.
const MaxJSONSize = 1 << 20 // 1 MB

// JSON decodes the request body into v. The Content-Type must be
// application/json.
func JSON(r *http.Request, v any) error {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return fmt.Errorf("%w: expected application/json", ErrMissingContentType)
	}

	mediaType := contentType
	if idx := strings.Index(contentType, ";"); idx != -1 {
		mediaType = strings.TrimSpace(contentType[:idx])
	}
	if mediaType != "application/json" {
		return fmt.Errorf("%w: got %s, expected application/json", ErrUnsupportedMediaType, mediaType)
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxJSONSize+1))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrFailedToParseJSON, err)
	}
	if len(body) > MaxJSONSize {
		return fmt.Errorf("%w: request body too large (max %d bytes)", ErrFailedToParseJSON, MaxJSONSize)
	}

	dec := json.NewDecoder(strings.NewReader(string(body)))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrFailedToParseJSON)
		}
		return fmt.Errorf("%w: %v", ErrFailedToParseJSON, err)
	}

	// Reject trailing garbage after the JSON document.
	if dec.More() {
		return fmt.Errorf("%w: unexpected trailing data", ErrFailedToParseJSON)
	}

	return nil
}
