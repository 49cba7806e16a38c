package controllers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yeremiapane/casino-floor/utils"
)

// bindJSON decodes the request body and writes a VALIDATION_ERROR envelope
// when that fails.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.RespondEnvelope(c, utils.Failure[any](c.Request.Context(), utils.CodeValidation, bindMessage(err)))
		return false
	}
	return true
}

func bindMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return "invalid request body: " + err.Error()
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}
