package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema is a compiled rule set for one request shape.
type Schema struct {
	name    string
	message string
	schema  *jsonschema.Schema
}

// Compile compiles a JSON Schema document. message is the human message
// reported when a value fails it.
func Compile(name, message, source string) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	url := name + ".json"
	if err := compiler.AddResource(url, strings.NewReader(source)); err != nil {
		return nil, fmt.Errorf("failed to add schema %s: %w", name, err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
	}
	return &Schema{name: name, message: message, schema: compiled}, nil
}

// MustCompile is like Compile but panics on error. It is meant for
// package-level schema variables.
func MustCompile(name, message, source string) *Schema {
	s, err := Compile(name, message, source)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the schema's name.
func (s *Schema) Name() string {
	return s.name
}

// Validate checks a decoded JSON value (map[string]any, []any, float64, ...).
func (s *Schema) Validate(v any) error {
	err := s.schema.Validate(v)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return NewError(s.message, FieldError{Reason: err.Error()})
	}
	var fields []FieldError
	collectCauses(ve, &fields)
	return NewError(s.message, fields...)
}

// Bind validates body and then decodes it into dst.
func (s *Schema) Bind(body map[string]any, dst any) error {
	if err := s.Validate(body); err != nil {
		return err
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return NewError(s.message, FieldError{Reason: err.Error()})
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// Values the schema accepts but Go cannot hold, e.g. integers past int64.
		return NewError(s.message, FieldError{Reason: err.Error()})
	}
	return nil
}

// collectCauses flattens the leaf errors of a validation tree.
func collectCauses(err *jsonschema.ValidationError, out *[]FieldError) {
	if len(err.Causes) == 0 {
		*out = append(*out, FieldError{
			Field:  fieldFromPointer(err.InstanceLocation),
			Reason: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectCauses(cause, out)
	}
}

// fieldFromPointer converts a JSON Pointer ("/items/0/name") to dotted form.
func fieldFromPointer(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "/")
	return strings.ReplaceAll(ptr, "/", ".")
}

// Normalize converts a record decoded from another format, such as a YAML
// seed file, into the shapes encoding/json produces (float64 numbers,
// map[string]any objects).
func Normalize(rec map[string]any) (map[string]any, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize record: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to normalize record: %w", err)
	}
	return out, nil
}
