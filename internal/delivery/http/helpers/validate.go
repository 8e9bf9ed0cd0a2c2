package helpers

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Validator is implemented by request bodies that check their own fields.
// Validate returns one message per problem; an empty slice means valid.
type Validator interface {
	Validate() []string
}

// DecodeAndValidate decodes a JSON request body into dest, rejecting unknown
// fields, then runs dest's Validate when it implements Validator. On any
// failure it writes a 400 response and returns false, so handlers can bail
// with a plain `if !DecodeAndValidate(...) { return }`.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return false
	}
	v, ok := dest.(Validator)
	if !ok {
		return true
	}
	if problems := v.Validate(); len(problems) > 0 {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(problems, "; "))
		return false
	}
	return true
}
