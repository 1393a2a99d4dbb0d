package httputils

import (
	"encoding/json"
	"net/http"

	"github.com/nvellon/hal"
)

type HALResource interface {
	Resource() *hal.Resource
}

// WriteJSON writes v as one json response. A HALResource goes out as
// hal+json, an error as a problem document. Nothing is written when
// the encoding fails, so the caller can still answer differently.
func WriteJSON(w http.ResponseWriter, code int, v interface{}) error {
	contentType := "application/json"
	if h, ok := v.(HALResource); ok {
		contentType = "application/hal+json"
		v = h.Resource()
	} else if e, ok := v.(error); ok {
		contentType = "application/problem+json"
		v = NewErrorProblem(e, code)
	}

	bs, err := json.Marshal(v)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(code)

	if _, err := w.Write(bs); err != nil {
		return err
	}

	return nil
}

// WriteJSONError writes err as a problem document under its mapped status.
func WriteJSONError(w http.ResponseWriter, err error) {
	if werr := WriteJSON(w, StatusCode(err), err); werr != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// MustWriteJSON panics when the response cannot be written; handlers use it
// after all domain errors have already been dealt with.
func MustWriteJSON(w http.ResponseWriter, code int, v interface{}) {
	if err := WriteJSON(w, code, v); err != nil {
		panic(err)
	}
}
