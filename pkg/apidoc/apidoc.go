// Package apidoc serves the OpenAPI description of each API surface.
//
// The documents are embedded in the binary and checked with kin-openapi when
// loaded, so a malformed description fails start-up instead of a client.
package apidoc

import (
	"context"
	"embed"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed *.yaml
var specs embed.FS

// Surfaces that have a description.
const (
	Memo      = "memo"
	Inventory = "inventory"
)

// Doc is a loaded and validated OpenAPI description.
type Doc struct {
	spec *openapi3.T
	json []byte
}

// Operation is one method+path pair declared in a Doc.
type Operation struct {
	Method string
	Path   string
	ID     string
}

// Load parses and validates the embedded description of surface.
func Load(surface string) (*Doc, error) {
	data, err := specs.ReadFile(surface + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("no API description for surface %q: %w", surface, err)
	}

	loader := openapi3.NewLoader()
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load API description %s: %w", surface, err)
	}
	if err := spec.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid API description %s: %w", surface, err)
	}

	js, err := spec.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode API description %s: %w", surface, err)
	}
	return &Doc{spec: spec, json: js}, nil
}

// Title returns the document title.
func (d *Doc) Title() string {
	return d.spec.Info.Title
}

// Version returns the API version.
func (d *Doc) Version() string {
	return d.spec.Info.Version
}

// Operations lists every declared operation sorted by path, then method.
// Paths use ServeMux wildcard syntax ({id}), which OpenAPI shares.
func (d *Doc) Operations() []Operation {
	var ops []Operation
	for path, item := range d.spec.Paths.Map() {
		for method, op := range item.Operations() {
			ops = append(ops, Operation{Method: strings.ToUpper(method), Path: path, ID: op.OperationID})
		}
	}
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].Path != ops[j].Path {
			return ops[i].Path < ops[j].Path
		}
		return ops[i].Method < ops[j].Method
	})
	return ops
}

// ServeHTTP writes the document as JSON.
func (d *Doc) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(d.json)
}
