package utils

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Envelope codes
const (
	CodeOK                  = "OK"
	CodeValidation          = "VALIDATION_ERROR"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodePrecondition        = "PRECONDITION_FAILED"
	CodeUniqueViolation     = "UNIQUE_VIOLATION"
	CodeForeignKeyViolation = "FOREIGN_KEY_VIOLATION"
	CodeRateLimited         = "RATE_LIMIT_EXCEEDED"
	CodeInternal            = "INTERNAL_ERROR"
)

// AppError carries an envelope code chosen by the code that raised it.
type AppError struct {
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// ClassifyError maps an error from any layer to a stable envelope code.
func ClassifyError(err error) string {
	if err == nil {
		return CodeOK
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return CodeNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return CodeUniqueViolation
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return CodeForeignKeyViolation
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return CodeUniqueViolation
		case "23503":
			return CodeForeignKeyViolation
		}
		return CodeInternal
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1062:
			return CodeUniqueViolation
		case 1451, 1452:
			return CodeForeignKeyViolation
		}
		return CodeInternal
	}

	// sqlite reports constraint failures only through the message
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return CodeUniqueViolation
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return CodeForeignKeyViolation
	}
	return CodeInternal
}
