// Package logger provides logging utilities for the application.
package logger

import (
	"context"
	"net/http"
	"runtime"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// LogError logs a detailed error with contextual information
func LogError(ctx context.Context, err error, message string, metadata map[string]interface{}) {
	log := GetLogger()

	fields := []zap.Field{zap.Error(err)}

	if !isProduction() {
		if trace := getStackTrace(3); trace != "" {
			fields = append(fields, zap.String("stack_trace", trace))
		}
	}

	if ginCtx, ok := ctx.(*gin.Context); ok {
		if requestID := ginCtx.GetString(RequestIDKey); requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}
		if ginCtx.Request != nil {
			fields = append(fields,
				zap.String("path", ginCtx.Request.URL.Path),
				zap.String("method", ginCtx.Request.Method),
				zap.String("ip_address", ginCtx.ClientIP()),
			)
		}
	}

	for k, v := range metadata {
		fields = append(fields, zap.Any(k, v))
	}

	log.Desugar().Error(message, fields...)
}

// LogHTTPError logs an HTTP request error with context from a gin.Context
func LogHTTPError(c *gin.Context, err error, statusCode int, message string) {
	metadata := map[string]interface{}{
		"status_code": statusCode,
	}
	if c.Request != nil {
		metadata["user_agent"] = c.Request.UserAgent()
		metadata["headers"] = filterSensitiveHeaders(c.Request.Header)
	}

	// 4xx responses log at warn level.
	if statusCode < http.StatusInternalServerError {
		fields := []interface{}{"error", err, "status_code", statusCode}
		if requestID := c.GetString(RequestIDKey); requestID != "" {
			fields = append(fields, "request_id", requestID)
		}
		if c.Request != nil {
			fields = append(fields, "path", c.Request.URL.Path, "method", c.Request.Method)
		}
		GetLogger().Warnw(message, fields...)
		return
	}

	LogError(c, err, message, metadata)
}

// getStackTrace captures a stack trace starting from the specified skip level
func getStackTrace(skip int) string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(skip, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var builder strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.Function, "runtime.") {
			builder.WriteString(frame.Function)
			builder.WriteString("\n\t")
			builder.WriteString(frame.File)
			builder.WriteString(":")
			builder.WriteString(strconv.Itoa(frame.Line))
			builder.WriteString("\n")
		}
		if !more {
			break
		}
	}

	return builder.String()
}

// filterSensitiveHeaders removes sensitive information from headers before logging
func filterSensitiveHeaders(headers http.Header) map[string]string {
	filtered := make(map[string]string)

	for name, values := range headers {
		lower := strings.ToLower(name)
		if strings.EqualFold(name, "Authorization") ||
			strings.EqualFold(name, "Cookie") ||
			strings.Contains(lower, "token") ||
			strings.Contains(lower, "key") ||
			strings.Contains(lower, "secret") {
			filtered[name] = "[REDACTED]"
			continue
		}

		if len(values) > 0 {
			filtered[name] = values[0]
		}
	}

	return filtered
}
