package validation

import (
	"strconv"
	"strings"
)

// ParseID parses a path segment as a positive integer id.
func ParseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 || strings.HasPrefix(raw, "+") {
		return 0, &Error{
			Message: "ID must be a positive integer.",
			Code:    CodeInvalidID,
			Fields:  []FieldError{{Field: "id", Reason: "got " + strconv.Quote(raw)}},
		}
	}
	return id, nil
}
