// Package validation checks request bodies before they reach a store.
//
// Each request shape is described by a JSON Schema (draft 2020-12) compiled
// once at start-up. A failed check yields an *Error carrying a fixed human
// message plus the per-field reasons reported by the schema engine.
//
// # Basic Usage
//
//	var createItem = validation.MustCompile("item-create", "Invalid item payload.", `{
//	    "type": "object",
//	    "required": ["name", "price"],
//	    "properties": {
//	        "name":  {"type": "string"},
//	        "price": {"type": "number"}
//	    }
//	}`)
//
//	var in ItemInput
//	if err := createItem.Bind(body, &in); err != nil {
//	    return err // *validation.Error, 400 VALIDATION_ERROR
//	}
//
// # Path Parameters
//
// ParseID converts a path segment to a positive integer id, returning an
// *Error with code INVALID_ID otherwise.
package validation
