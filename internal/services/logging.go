package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/devcatalyst/intake-service/internal/utils"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
	config LogConfig
}

type LogConfig struct {
	Service     string
	Component   string
	EnableDebug bool
}

func NewServiceLogger(logger *slog.Logger, config LogConfig) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", config.Service, "component", config.Component),
		config: config,
	}
}

// Logger exposes the underlying slog logger with the service attributes attached.
func (l *ServiceLogger) Logger() *slog.Logger {
	return l.logger
}

// ===== OPERATION LOGGING =====

func (l *ServiceLogger) LogOperation(ctx context.Context, operation, resource string, duration time.Duration, err error) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		switch {
		case IsValidation(err):
			level = slog.LevelWarn
			status = "validation_error"
		case IsUnauthorized(err):
			level = slog.LevelWarn
			status = "unauthorized"
		case IsNotFound(err):
			status = "not_found"
		case IsConfiguration(err):
			status = "misconfigured"
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("resource", resource),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))

		var validationErr ValidationErrors
		var configErr *ConfigurationError
		var storeErr *StoreError
		switch {
		case errors.As(err, &validationErr):
			attrs = append(attrs, slog.Int("validation_errors_count", len(validationErr)))
		case errors.As(err, &configErr):
			attrs = append(attrs, slog.String("setting", configErr.Setting))
		case errors.As(err, &storeErr):
			attrs = append(attrs, slog.String("store_op", storeErr.Op))
		}

		if pc, file, line, ok := runtime.Caller(1); ok {
			if fn := runtime.FuncForPC(pc); fn != nil {
				attrs = append(attrs,
					slog.String("caller_func", fn.Name()),
					slog.String("caller_file", file),
					slog.Int("caller_line", line),
				)
			}
		}
	}

	if requestID := utils.RequestIDFromContext(ctx); requestID != "" {
		attrs = append(attrs, slog.String("request_id", requestID))
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}

func (l *ServiceLogger) LogValidationError(ctx context.Context, operation string, validationErrors ValidationErrors) {
	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.Int("error_count", len(validationErrors)),
	}

	for i, err := range validationErrors {
		if i >= 5 {
			break
		}
		// Values are applicant input; only the field and message are logged.
		attrs = append(attrs, slog.Group(fmt.Sprintf("error_%d", i+1),
			slog.String("field", err.Field),
			slog.String("message", err.Message),
		))
	}

	l.logger.LogAttrs(ctx, slog.LevelWarn, "Validation failed", attrs...)
}

// LogSecurityEvent records authentication outcomes.
func (l *ServiceLogger) LogSecurityEvent(ctx context.Context, event, scope string, details map[string]interface{}) {
	attrs := []slog.Attr{
		slog.String("security_event", event),
		slog.String("scope", scope),
		slog.Time("timestamp", time.Now()),
	}

	for key, value := range SanitizeForLogging(details) {
		attrs = append(attrs, slog.Any(key, value))
	}

	if requestID := utils.RequestIDFromContext(ctx); requestID != "" {
		attrs = append(attrs, slog.String("request_id", requestID))
	}

	l.logger.LogAttrs(ctx, slog.LevelWarn, "Security event", attrs...)
}

func (l *ServiceLogger) LogDebug(ctx context.Context, message string, attrs ...slog.Attr) {
	if !l.config.EnableDebug {
		return
	}
	l.logger.LogAttrs(ctx, slog.LevelDebug, message, attrs...)
}

// ===== CONTEXTUAL LOGGER =====

type ContextualLogger struct {
	*ServiceLogger
	ctx       context.Context
	operation string
	start     time.Time
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation string) *ContextualLogger {
	return &ContextualLogger{
		ServiceLogger: l,
		ctx:           ctx,
		operation:     operation,
		start:         time.Now(),
	}
}

func (cl *ContextualLogger) LogResult(resource string, err error) {
	cl.LogOperation(cl.ctx, cl.operation, resource, time.Since(cl.start), err)
}

func (cl *ContextualLogger) Info(msg string, args ...any) {
	cl.logger.InfoContext(cl.ctx, msg, append([]any{"operation", cl.operation}, args...)...)
}

func (cl *ContextualLogger) Warn(msg string, args ...any) {
	cl.logger.WarnContext(cl.ctx, msg, append([]any{"operation", cl.operation}, args...)...)
}

// ===== UTILITY FUNCTIONS =====

// FormatError formats an error for logging with additional context
func FormatError(err error, context map[string]interface{}) string {
	if err == nil {
		return ""
	}

	parts := []string{err.Error()}
	for key, value := range context {
		parts = append(parts, fmt.Sprintf("%s=%v", key, value))
	}

	return strings.Join(parts, " | ")
}

// SanitizeForLogging redacts secrets before they reach a log line.
func SanitizeForLogging(data map[string]interface{}) map[string]interface{} {
	sensitiveFields := map[string]bool{
		"password": true,
		"secret":   true,
		"token":    true,
		"key":      true,
		"auth":     true,
	}

	sanitized := make(map[string]interface{}, len(data))
	for key, value := range data {
		lowerKey := strings.ToLower(key)
		redact := false
		for sensitive := range sensitiveFields {
			if strings.Contains(lowerKey, sensitive) {
				redact = true
				break
			}
		}
		if redact {
			sanitized[key] = "[REDACTED]"
			continue
		}
		sanitized[key] = value
	}

	return sanitized
}
