package httpx

import (
	"encoding/json"
	"errors"
	"github.com/go-playground/validator/v10"
	"net/http"
)

var validate = validator.New()

// validationError carries field -> failed rule for the response body.
type validationError struct {
	Msg    string
	Fields map[string]string
}

func (e *validationError) Error() string { return e.Msg }

func fieldErrors(err error) map[string]string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return nil
	}
	out := make(map[string]string, len(ves))
	for _, ve := range ves {
		out[ve.Field()] = ve.Tag()
	}
	return out
}

// decode reads a JSON body into dst and runs its validate tags.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &validationError{Msg: "invalid json"}
	}
	if err := validate.Struct(dst); err != nil {
		if f := fieldErrors(err); f != nil {
			return &validationError{Msg: "validation failed", Fields: f}
		}
		return err
	}
	return nil
}
