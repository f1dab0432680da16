package handler // handler defines the HTTP handlers of the API

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/campus-inventory/internal/repository"
)

var errInvalidBody = errors.New("invalid request body")

// parseID reads the :id path parameter.  Ids are positive integers.
func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeFields reads the request body as a JSON object without binding it
// to a struct, so absent keys stay distinguishable from zero values.  An
// empty body decodes to an empty map.
func decodeFields(c echo.Context) (map[string]json.RawMessage, error) {
	if c.Request().Body == nil {
		return map[string]json.RawMessage{}, nil
	}
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, errInvalidBody
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]json.RawMessage{}, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, errInvalidBody
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	return fields, nil
}

// patchError maps a Resolve failure to a 400 response.
func patchError(c echo.Context, err error) error {
	var fe *repository.FieldError
	switch {
	case errors.Is(err, repository.ErrNoFieldsToUpdate):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Nothing to update"})
	case errors.As(err, &fe):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": fe.Error()})
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": errInvalidBody.Error()})
	}
}

// serverError logs err with request context and answers with a generic 500.
func serverError(c echo.Context, logger *slog.Logger, msg string, err error, attrs ...any) error {
	attrs = append(attrs, "error", err, "request_id", c.Response().Header().Get(echo.HeaderXRequestID))
	loggerOrDefault(logger).ErrorContext(c.Request().Context(), msg, attrs...)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error - " + msg})
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
