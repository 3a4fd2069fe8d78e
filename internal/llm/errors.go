// Package llm provides the completion clients used for the chat turn and
// shared error classification.
package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyPrompt is returned before any network call for a blank prompt.
var ErrEmptyPrompt = errors.New("empty prompt")

// ErrorType categorizes LLM errors for user messaging decisions.
type ErrorType string

const (
	ErrorTypeUnknown    ErrorType = "unknown"
	ErrorTypeAuth       ErrorType = "auth"
	ErrorTypeRateLimit  ErrorType = "rate_limit"
	ErrorTypeOverloaded ErrorType = "overloaded"
	ErrorTypeBilling    ErrorType = "billing"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeNotFound   ErrorType = "not_found"
)

// ClassifyError determines the error type from an error message.
// Returns ErrorTypeUnknown if the message doesn't match any known pattern.
func ClassifyError(msg string) ErrorType {
	if msg == "" {
		return ErrorTypeUnknown
	}
	// Order matters: a 429 body often mentions "quota", which would read as billing.
	switch {
	case IsRateLimitMessage(msg):
		return ErrorTypeRateLimit
	case IsBillingMessage(msg):
		return ErrorTypeBilling
	case IsAuthMessage(msg):
		return ErrorTypeAuth
	case IsOverloadedMessage(msg):
		return ErrorTypeOverloaded
	case IsTimeoutMessage(msg):
		return ErrorTypeTimeout
	case IsNotFoundMessage(msg):
		return ErrorTypeNotFound
	}
	return ErrorTypeUnknown
}

// Classify is ClassifyError for an error value.
func Classify(err error) ErrorType {
	if err == nil {
		return ErrorTypeUnknown
	}
	return ClassifyError(err.Error())
}

// FormatErrorForUser returns a user-friendly error message based on error type.
func FormatErrorForUser(msg string, errType ErrorType) string {
	switch errType {
	case ErrorTypeAuth:
		return "Authentication failed. Check your API key configuration."
	case ErrorTypeRateLimit:
		return "Rate limited - too many requests. Please wait a moment and try again."
	case ErrorTypeOverloaded:
		return "The AI service is temporarily overloaded. Please try again in a moment."
	case ErrorTypeBilling:
		return "Billing issue with the AI provider. Check your account credits/plan."
	case ErrorTypeTimeout:
		return "Request timed out. Please try again."
	case ErrorTypeNotFound:
		return "Model not found. Run with --refresh to update the model list."
	default:
		return fmt.Sprintf("LLM error: %s", msg)
	}
}

// IsAuthMessage checks if a message indicates authentication failure.
func IsAuthMessage(msg string) bool {
	lower := strings.ToLower(msg)

	// HTTP 401, 403
	if strings.Contains(lower, "401") || strings.Contains(lower, "403") {
		return true
	}

	return strings.Contains(lower, "invalid api key") ||
		strings.Contains(lower, "invalid_api_key") ||
		strings.Contains(lower, "api key not valid") ||
		strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "forbidden") ||
		strings.Contains(lower, "permission_denied") ||
		strings.Contains(lower, "unauthenticated") ||
		strings.Contains(lower, "authentication")
}

// IsRateLimitMessage checks if a message indicates rate limiting.
func IsRateLimitMessage(msg string) bool {
	lower := strings.ToLower(msg)

	if strings.Contains(lower, "429") {
		return true
	}

	return strings.Contains(lower, "rate_limit") ||
		strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "too many requests") ||
		strings.Contains(lower, "resource_exhausted") ||
		strings.Contains(lower, "resource has been exhausted")
}

// IsOverloadedMessage checks if a message indicates the service is overloaded.
func IsOverloadedMessage(msg string) bool {
	lower := strings.ToLower(msg)

	if strings.Contains(lower, "503") && (strings.Contains(lower, "service") || strings.Contains(lower, "unavailable")) {
		return true
	}

	return strings.Contains(lower, "overloaded") ||
		strings.Contains(lower, "server is busy") ||
		strings.Contains(lower, "temporarily unavailable")
}

// IsBillingMessage checks if a message indicates billing/payment issues.
func IsBillingMessage(msg string) bool {
	lower := strings.ToLower(msg)

	if strings.Contains(lower, "402") {
		return true
	}

	return strings.Contains(lower, "payment required") ||
		strings.Contains(lower, "insufficient credits") ||
		strings.Contains(lower, "insufficient_quota") ||
		strings.Contains(lower, "billing")
}

// IsTimeoutMessage checks if a message indicates a timeout.
func IsTimeoutMessage(msg string) bool {
	lower := strings.ToLower(msg)

	if strings.Contains(lower, "408") || strings.Contains(lower, "504") {
		return true
	}

	return strings.Contains(lower, "timeout") ||
		strings.Contains(lower, "timed out") ||
		strings.Contains(lower, "deadline exceeded")
}

// IsNotFoundMessage checks if a message indicates an unknown model.
func IsNotFoundMessage(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "404") ||
		strings.Contains(lower, "not found") ||
		strings.Contains(lower, "not_found") ||
		strings.Contains(lower, "invalid model")
}
