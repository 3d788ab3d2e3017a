package config

import (
	"fmt"
	"net"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/Iron-Ham/quizdesk/internal/logging"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "api.timeout")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the logger's levels in their lowercase config spelling
func ValidLogLevels() []string {
	levels := logging.ValidLevels()
	for i, l := range levels {
		levels[i] = strings.ToLower(l)
	}
	return levels
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateGateway()...)
	errors = append(errors, c.validateAPI()...)
	errors = append(errors, c.validateAccess()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateServer()...)

	return errors
}

func (c *Config) validateGateway() []ValidationError {
	if slices.Contains(ValidBackends(), c.Gateway.Backend) {
		return nil
	}
	return []ValidationError{{
		Field:   "gateway.backend",
		Value:   c.Gateway.Backend,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidBackends(), ", ")),
	}}
}

func (c *Config) validateAPI() []ValidationError {
	var errors []ValidationError

	// The URL only matters when the HTTP backend is selected.
	if c.Gateway.Backend == BackendHTTP {
		u, err := url.Parse(c.API.BaseURL)
		if c.API.BaseURL == "" || err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			errors = append(errors, ValidationError{
				Field:   "api.base_url",
				Value:   c.API.BaseURL,
				Message: "must be an absolute http(s) URL",
			})
		}
	}

	if c.API.Timeout <= 0 {
		errors = append(errors, ValidationError{
			Field:   "api.timeout",
			Value:   c.API.Timeout,
			Message: "must be positive",
		})
	}

	return errors
}

func (c *Config) validateAccess() []ValidationError {
	if !c.Access.Required || strings.TrimSpace(c.Access.Role) != "" {
		return nil
	}
	return []ValidationError{{
		Field:   "access.role",
		Value:   c.Access.Role,
		Message: "must be set when access.required is true",
	}}
}

func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if c.TUI.FeedbackTimeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "tui.feedback_timeout",
			Value:   c.TUI.FeedbackTimeout,
			Message: "must be non-negative (0 disables auto-dismiss)",
		})
	}

	const maxFeedback = 10 * time.Minute
	if c.TUI.FeedbackTimeout > maxFeedback {
		errors = append(errors, ValidationError{
			Field:   "tui.feedback_timeout",
			Value:   c.TUI.FeedbackTimeout,
			Message: fmt.Sprintf("exceeds maximum of %s", maxFeedback),
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB <= 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}

	const maxLogSizeMB = 1000
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}

func (c *Config) validateServer() []ValidationError {
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return []ValidationError{{
			Field:   "server.addr",
			Value:   c.Server.Addr,
			Message: "must be host:port",
		}}
	}
	return nil
}
