package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
)

// DecodeObject reads the request body as a JSON object. A missing, malformed
// or non-object body yields an empty map so that field validation reports
// what is missing. Only an oversized body is an error.
func DecodeObject(r *http.Request) (map[string]any, error) {
	var v any
	if err := decode(r, &v); err != nil {
		return nil, err
	}
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	return map[string]any{}, nil
}

// DecodeValue reads the request body as any JSON value. A missing or
// malformed body yields nil.
func DecodeValue(r *http.Request) (any, error) {
	var v any
	if err := decode(r, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func decode(r *http.Request, dst any) error {
	if r == nil || r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return nil
	}
	return nil
}
