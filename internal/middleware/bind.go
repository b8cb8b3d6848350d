package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/schema"

	"emergencyHub/pkg/e"
)

const maxBodyBytes = 1 << 20

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag("query")
	d.IgnoreUnknownKeys(true)
	return d
}()

// DecodeJSON reads exactly one JSON object into dst. Unknown fields and trailing
// data are rejected.
func DecodeJSON(r *http.Request, dst any) error {
	const op = "middleware.DecodeJSON"

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return e.Field(op, e.ErrInvalidInput, "body", err.Error())
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return e.Field(op, e.ErrInvalidInput, "body", "unexpected data after JSON object")
	}
	return nil
}

// DecodeQuery fills dst from the URL query using `query` struct tags.
func DecodeQuery(r *http.Request, dst any) error {
	const op = "middleware.DecodeQuery"

	if err := queryDecoder.Decode(dst, r.URL.Query()); err != nil {
		var multi schema.MultiError
		if errors.As(err, &multi) {
			violations := make([]e.Violation, 0, len(multi))
			for field, ferr := range multi {
				violations = append(violations, e.Violation{Field: field, Rule: "type", Value: ferr.Error()})
			}
			return e.Invalid(op, e.ErrInvalidInput, violations)
		}
		return e.Field(op, e.ErrInvalidInput, "query", err.Error())
	}
	return nil
}
