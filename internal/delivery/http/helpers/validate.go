package helpers

import (
	"encoding/json"
	"net/http"
	"strings"

	"conferenceplanner/pkg/validator"
)

// DecodeAndValidate decodes the request body into dest (with
// DisallowUnknownFields) and runs the struct-tag validator over it. On decode
// or validation failure it writes a 400 JSON error and returns false; callers
// should return immediately when it does.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return false
	}
	if msgs := validator.Struct(dest); len(msgs) > 0 {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(msgs, "; "))
		return false
	}
	return true
}
