package httputils

import (
	"fmt"
	"net/http"

	"boscoin.io/agora/lib/errors"
)

// DefaultProblemType marks a problem that carries no machine readable type
// beyond its status code. See RFC 7807.
const DefaultProblemType = "about:blank"

// ProblemErrorType is the type url for problems raised from a coded
// *errors.Error; the code is appended so clients can match on it.
const ProblemErrorType = "https://boscoin.io/agora/error/%d"

// Problem is the RFC 7807 document written to clients when a request fails.
// It intentionally does not implement `error` so that WriteJSON marshals it
// as a plain value instead of wrapping it again.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func NewProblem(problemType, title string, status int) Problem {
	return Problem{
		Type:   problemType,
		Title:  title,
		Status: status,
	}
}

// NewStatusProblem makes a Problem whose title is the standard text of the
// status code.
func NewStatusProblem(status int) Problem {
	return NewProblem(DefaultProblemType, http.StatusText(status), status)
}

func NewDetailedStatusProblem(status int, detail string) Problem {
	p := NewStatusProblem(status)
	p.Detail = detail
	return p
}

// NewErrorProblem converts an error into a Problem. Coded errors keep their
// code in the type url and their message as the title; everything else
// becomes an opaque problem with the error text.
func NewErrorProblem(err error, status int) Problem {
	if e, ok := err.(*errors.Error); ok {
		return NewProblem(fmt.Sprintf(ProblemErrorType, e.Code), e.Message, status)
	}

	return NewProblem(DefaultProblemType, err.Error(), status)
}

// SetInstance returns a copy so a shared Problem value is not mutated.
func (p Problem) SetInstance(instance string) Problem {
	p.Instance = instance
	return p
}
