package middleware

import (
	"net/http"
	"strconv"

	"github.com/NomadCrew/lunch-break-planner/errors"
	"github.com/NomadCrew/lunch-break-planner/logger"
	"github.com/NomadCrew/lunch-break-planner/types"
	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error attached to the context as
// {"error": message, "type": ..., "code": ...}. Handlers only call c.Error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		last := c.Errors.Last()
		err := last.Err

		if appError, ok := errors.As(err); ok {
			statusCode := appError.GetHTTPStatus()
			logger.LogHTTPError(c, err, statusCode, string(appError.Type)+" error")

			response := types.ErrorResponse{
				Error: appError.Message,
				Type:  string(appError.Type),
				Code:  strconv.Itoa(statusCode),
			}
			if appError.Detail != "" && (gin.IsDebugging() || showsDetail(appError.Type)) {
				response.Details = appError.Detail
			}
			if appError.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(appError.RetryAfter))
			}

			c.JSON(statusCode, response)
			return
		}

		if last.Type == gin.ErrorTypeBind {
			logger.LogHTTPError(c, err, http.StatusBadRequest, "Request binding error")

			response := types.ErrorResponse{
				Error: "Invalid request body",
				Type:  string(errors.ValidationError),
				Code:  strconv.Itoa(http.StatusBadRequest),
			}
			if gin.IsDebugging() {
				response.Details = err.Error()
			}
			c.JSON(http.StatusBadRequest, response)
			return
		}

		logger.LogHTTPError(c, err, http.StatusInternalServerError, "Unexpected server error")

		response := types.ErrorResponse{
			Error: "Internal Server Error",
			Type:  string(errors.ServerError),
			Code:  strconv.Itoa(http.StatusInternalServerError),
		}
		if gin.IsDebugging() {
			response.Details = err.Error()
		}
		c.JSON(http.StatusInternalServerError, response)
	}
}

func showsDetail(t errors.ErrorType) bool {
	switch t {
	case errors.ValidationError, errors.NotFoundError, errors.TripNotFoundError, errors.NoSeatsError:
		return true
	default:
		return false
	}
}
