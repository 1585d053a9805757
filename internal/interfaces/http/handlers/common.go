// Package handlers contains the gin HTTP handlers of the LexDocket API.
package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/LexDocket/pkg/errors"
)

// errorResponse is the JSON error body returned by every endpoint.
type errorResponse struct {
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
	Detail  string           `json:"detail,omitempty"`
}

// writeError maps an error onto its HTTP status and renders the body.
// Non-AppError values are reported as internal errors without leaking their
// text to the client.
func writeError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	resp := errorResponse{Code: code, Message: errors.DefaultMessageForCode(code)}
	var ae *errors.AppError
	if stderrors.As(err, &ae) {
		resp.Message = ae.Message
		resp.Detail = ae.Detail
	}
	if code == errors.CodeUnknown {
		status = http.StatusInternalServerError
		resp.Code = errors.ErrCodeInternal
		resp.Message = errors.DefaultMessageForCode(errors.ErrCodeInternal)
		resp.Detail = ""
	}
	c.AbortWithStatusJSON(status, resp)
}

// writeJSON renders a success body.
func writeJSON(c *gin.Context, status int, body interface{}) {
	c.JSON(status, body)
}
