package response

import (
	"github.com/gin-gonic/gin"
)

// SuccessResponse is the envelope for successful responses
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	RequestID string      `json:"requestId,omitempty"`
}

// ErrorResponse is the envelope for error responses
type ErrorResponse struct {
	Error     interface{} `json:"error"`
	RequestID string      `json:"requestId,omitempty"`
}

// ErrorDetail is the body of the error field
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SendSuccess writes data wrapped in the success envelope
func SendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, SuccessResponse{
		Data:      data,
		RequestID: c.GetHeader("X-Request-ID"),
	})
}

// SendError writes an error envelope and aborts the handler chain
func SendError(c *gin.Context, statusCode int, code, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
		RequestID: c.GetHeader("X-Request-ID"),
	})
}
