package handler

import (
	"errors"
	"io"
	"net/http"

	"idp-hub/internal/domain"
	"idp-hub/internal/usecase"

	"github.com/labstack/echo/v4"
)

// CommandHandler binds the command dispatcher to the HTTP surface. Every
// command responds 200 with a response envelope; per-command failures live
// inside the envelope, never in the HTTP status.
type CommandHandler struct {
	dispatcher *usecase.Dispatcher
}

// NewCommandHandler creates a command handler.
func NewCommandHandler(dispatcher *usecase.Dispatcher) *CommandHandler {
	return &CommandHandler{dispatcher: dispatcher}
}

// Handle processes POST /v1/commands/:name. The body is the raw argument
// object; an empty body is treated as an empty object for argument-less
// commands.
func (h *CommandHandler) Handle(c echo.Context) error {
	ctx := c.Request().Context()
	name := c.Param("name")

	raw := map[string]any{}
	if err := c.Bind(&raw); err != nil && !isEmptyBody(err) {
		return c.JSON(http.StatusOK, domain.Fail("Invalid request body: must be a JSON object."))
	}

	envelope := h.dispatcher.Dispatch(ctx, name, raw)
	return c.JSON(http.StatusOK, envelope)
}

// isEmptyBody reports whether a bind failure was caused by an absent body.
func isEmptyBody(err error) bool {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) && httpErr.Internal != nil && errors.Is(httpErr.Internal, io.EOF) {
		return true
	}
	return errors.Is(err, io.EOF)
}
