package utils

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Envelope is the response shape shared by every route handler and server
// action. Callers branch on OK; nothing behind the envelope panics.
type Envelope[T any] struct {
	OK         bool   `json:"ok"`
	Code       string `json:"code"`
	Data       T      `json:"data"`
	Error      string `json:"error,omitempty"`
	RequestID  string `json:"requestId"`
	DurationMs int64  `json:"durationMs"`
	Timestamp  string `json:"timestamp"`
}

// Success wraps data in an OK envelope stamped with the request metadata in ctx.
func Success[T any](ctx context.Context, data T) Envelope[T] {
	meta := RequestMetaFrom(ctx)
	return Envelope[T]{
		OK:         true,
		Code:       CodeOK,
		Data:       data,
		RequestID:  meta.ID,
		DurationMs: time.Since(meta.Start).Milliseconds(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
}

// Failure builds an error envelope with an explicit code.
func Failure[T any](ctx context.Context, code, message string) Envelope[T] {
	meta := RequestMetaFrom(ctx)
	return Envelope[T]{
		OK:         false,
		Code:       code,
		Error:      message,
		RequestID:  meta.ID,
		DurationMs: time.Since(meta.Start).Milliseconds(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
}

// FailureFrom classifies err and builds the matching error envelope.
func FailureFrom[T any](ctx context.Context, err error) Envelope[T] {
	code := ClassifyError(err)
	msg := err.Error()
	if code == CodeInternal {
		ErrorLogger.WithField("request_id", RequestMetaFrom(ctx).ID).Errorf("internal error: %v", err)
		msg = "internal error"
	}
	return Failure[T](ctx, code, msg)
}

// RespondEnvelope writes env with the HTTP status that belongs to its code.
func RespondEnvelope[T any](c *gin.Context, env Envelope[T]) {
	c.JSON(HTTPStatus(env.Code), env)
}

// RespondJSON writes a success envelope with an explicit status.
func RespondJSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Success(c.Request.Context(), data))
}

// RespondError writes an error envelope for err, classified by ClassifyError.
func RespondError(c *gin.Context, err error) {
	RespondEnvelope(c, FailureFrom[any](c.Request.Context(), err))
}

// AbortWithCode writes an error envelope and stops the handler chain.
func AbortWithCode(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(HTTPStatus(code), Failure[any](c.Request.Context(), code, message))
}

// HTTPStatus maps an envelope code to its HTTP status.
func HTTPStatus(code string) int {
	switch code {
	case CodeOK:
		return http.StatusOK
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodePrecondition, CodeUniqueViolation, CodeForeignKeyViolation:
		return http.StatusConflict
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
