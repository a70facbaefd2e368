package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
)

// writeRequestError maps invalid requests to 400 and anything else to 500.
// Field errors name the offending field in the response's param.
func writeRequestError(c *echo.Context, err error) error {
	var re *requestError
	if errors.As(err, &re) {
		return writeError(c, http.StatusBadRequest, ResponseError{
			Message: re.msg,
			Type:    "invalid_request_error",
			Param:   re.field,
		})
	}
	return writeError(c, http.StatusInternalServerError, ResponseError{
		Message: err.Error(),
		Type:    "server_error",
	})
}

func writeError(c *echo.Context, status int, body ResponseError) error {
	return c.JSON(status, map[string]any{"error": body})
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return out, newInvalidRequest("invalid JSON body: " + err.Error())
	}
	return out, nil
}

func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
