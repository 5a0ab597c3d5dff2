package server

import (
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// ErrorBody is the uniform error payload for every non-2xx response.
type ErrorBody struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

func badRequest(c *app.RequestContext, message string, details ...FieldError) {
	c.JSON(consts.StatusBadRequest, ErrorBody{Error: message, Details: details})
}

func notFound(c *app.RequestContext, message string) {
	c.JSON(consts.StatusNotFound, ErrorBody{Error: message})
}

func internalError(c *app.RequestContext) {
	c.JSON(consts.StatusInternalServerError, ErrorBody{Error: "internal server error"})
}

// serverError surfaces a failure message without the raw error chain.
func serverError(c *app.RequestContext, message string) {
	c.JSON(consts.StatusInternalServerError, ErrorBody{Error: message})
}
