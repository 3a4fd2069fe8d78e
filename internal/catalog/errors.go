package catalog

import (
	"errors"
	"fmt"

	"github.com/roelfdiedericks/llmcli/internal/llm"
)

var (
	// ErrEmptyCatalog means there is nothing to select from.
	ErrEmptyCatalog = errors.New("no models available")

	// ErrUnknownKey means no fetcher is registered for a catalog key.
	ErrUnknownKey = errors.New("no fetcher for catalog")

	// ErrUnauthorized is wrapped by FetchError for HTTP 401/403 responses.
	ErrUnauthorized = errors.New("invalid API key")
)

// FetchError is a network, auth or malformed-response failure while listing models.
type FetchError struct {
	Key    Key
	Op     string
	Status int // HTTP status, 0 when no response was received
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s models: %s: %v (HTTP %d)", e.Key, e.Op, e.Err, e.Status)
	}
	return fmt.Sprintf("fetch %s models: %s: %v", e.Key, e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Type classifies the failure for user messaging.
func (e *FetchError) Type() llm.ErrorType {
	if errors.Is(e.Err, ErrUnauthorized) {
		return llm.ErrorTypeAuth
	}
	if e.Status != 0 {
		return llm.ClassifyError(fmt.Sprintf("%d %v", e.Status, e.Err))
	}
	return llm.ClassifyError(e.Err.Error())
}

// CacheWriteError is returned by Store.Save. The resolver logs it and carries on.
type CacheWriteError struct {
	Path string
	Err  error
}

func (e *CacheWriteError) Error() string {
	return fmt.Sprintf("write model cache %s: %v", e.Path, e.Err)
}

func (e *CacheWriteError) Unwrap() error { return e.Err }
