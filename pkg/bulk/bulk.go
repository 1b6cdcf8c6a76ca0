// Package bulk runs many independent creates in one request.
//
// Candidates are processed in order. A candidate that fails validation or
// collides with a unique key is recorded as a Failure with its index and
// processing continues; successful creates are never rolled back.
package bulk

import (
	"errors"
	"net/http"
)

// CodeFailed is the error code written when no candidate succeeded.
const CodeFailed = "BULK_CREATE_FAILED"

// Failure records why the candidate at Index was not created.
type Failure struct {
	Index     int
	Reason    string
	Candidate any
	Err       error
}

// Result is the outcome of a bulk run.
type Result[T any] struct {
	Created  []T
	Failures []Failure
}

// reasoner is implemented by typed errors that carry a client-facing message.
type reasoner interface {
	Reason() string
}

// Reason returns the client-facing message for err.
func Reason(err error) string {
	var r reasoner
	if errors.As(err, &r) {
		return r.Reason()
	}
	return err.Error()
}

// Run calls create for every candidate in order and collects the outcomes.
// Created and Failures are never nil.
func Run[T any](candidates []any, create func(candidate any) (T, error)) Result[T] {
	res := Result[T]{
		Created:  make([]T, 0, len(candidates)),
		Failures: make([]Failure, 0),
	}
	for i, c := range candidates {
		rec, err := create(c)
		if err != nil {
			res.Failures = append(res.Failures, Failure{
				Index:     i,
				Reason:    Reason(err),
				Candidate: c,
				Err:       err,
			})
			continue
		}
		res.Created = append(res.Created, rec)
	}
	return res
}

// Status maps the outcome to an HTTP status: 201 when nothing failed
// (including an empty run), 207 on a mix and 400 when every candidate failed.
func (r Result[T]) Status() int {
	switch {
	case len(r.Failures) == 0:
		return http.StatusCreated
	case len(r.Created) > 0:
		return http.StatusMultiStatus
	default:
		return http.StatusBadRequest
	}
}

// Failed reports whether the run should be written as an error envelope.
func (r Result[T]) Failed() bool {
	return r.Status() == http.StatusBadRequest
}
