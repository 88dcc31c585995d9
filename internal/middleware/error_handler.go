package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rrishiddh/portfolio-project-backend/internal/apperror"
	"github.com/rrishiddh/portfolio-project-backend/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrorHandler renders the last error a handler or middleware attached with
// c.Error as the standard failure envelope.
func ErrorHandler(isProduction bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr := Classify(err)

		fields := []zap.Field{
			zap.String("code", string(appErr.Kind)),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.Error(err),
		}
		if appErr.Status() >= http.StatusInternalServerError {
			logger.Log.Error("Request failed", fields...)
		} else {
			logger.Log.Debug("Request rejected", fields...)
		}

		body := gin.H{
			"success": false,
			"error":   appErr.Message,
			"code":    appErr.Kind,
		}
		if appErr.Details != nil {
			body["details"] = appErr.Details
		}
		if !isProduction {
			body["stack"] = err.Error()
		}

		c.JSON(appErr.Status(), body)
	}
}

// Classify maps any error onto the application taxonomy. Unknown errors
// become INTERNAL with a generic message.
func Classify(err error) *apperror.Error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr
	}

	var (
		validationErrs validation.Errors
		syntaxErr      *json.SyntaxError
		typeErr        *json.UnmarshalTypeError
		maxBytesErr    *http.MaxBytesError
	)

	switch {
	case errors.As(err, &validationErrs):
		return apperror.ValidationWithDetails(validationErrs.Error(), validationErrs)
	case errors.As(err, &maxBytesErr):
		return apperror.Validation("Request body too large")
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return apperror.Validation("Malformed JSON request body")
	case errors.As(err, &typeErr):
		return apperror.Validation(fmt.Sprintf("%s: invalid type", typeErr.Field))
	case errors.Is(err, io.EOF):
		return apperror.Validation("Request body is required")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NotFound("Resource not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.Conflict("Duplicate field value entered")
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperror.AuthInvalid("Your token has expired. Please log in again.")
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenInvalidClaims),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return apperror.AuthInvalid("Invalid token. Please log in again.")
	}

	return apperror.Internal(err)
}

// Recovery turns a panic into an INTERNAL error for ErrorHandler to render.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.Error("Panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.ByteString("stack", debug.Stack()),
				)
				_ = c.Error(apperror.Internal(fmt.Errorf("panic: %v", r)))
				c.Abort()
			}
		}()
		c.Next()
	}
}

// NotFound handles unmatched routes.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(apperror.NotFound("Not found - " + c.Request.URL.Path))
	}
}
