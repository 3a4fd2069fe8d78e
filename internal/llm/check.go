package llm

import (
	"context"
	"fmt"
)

// KeyCheckPrompt is the request sent to verify an API key.
const KeyCheckPrompt = "Hello, this is a test request to verify the API key."

// KeyCheckResult reports the outcome of CheckKey.
type KeyCheckResult struct {
	OK     bool
	Sample string    // first 100 characters of the reply
	Type   ErrorType // set when OK is false
	Err    error
}

// CheckKey sends a small real request through client and classifies the outcome.
func CheckKey(ctx context.Context, client Client) KeyCheckResult {
	reply, err := client.Complete(ctx, KeyCheckPrompt)
	if err != nil {
		return KeyCheckResult{Type: Classify(err), Err: err}
	}
	return KeyCheckResult{OK: true, Sample: preview(reply, 100)}
}

// KeyCheckHints returns remediation steps for a failed key check.
func KeyCheckHints(provider, envVar string, errType ErrorType) []string {
	hints := []string{
		fmt.Sprintf("Verify the key is correct in your .env file (%s)", envVar),
		"Ensure the key hasn't expired",
		"Check that the key has the required permissions",
	}
	switch {
	case provider == "gemini":
		hints = append(hints, "Make sure your Google Cloud project has the Gemini API enabled")
	case errType == ErrorTypeBilling:
		hints = append(hints, "Check the account has credits available")
	}
	return hints
}
