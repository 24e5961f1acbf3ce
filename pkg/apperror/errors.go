package apperror

import (
	"errors"
	"fmt"
)

// Sentinel error kinds shared by the retrieval engine and the provider gateways.
// Callers branch with errors.Is (or the helpers below), never by string matching.
var (
	// ErrValidation marks rejected input (empty question, empty content).
	ErrValidation = errors.New("validation failed")

	// ErrNotInitialized marks a query against a material whose index has not
	// been built yet. The caller must run EnsureReady first.
	ErrNotInitialized = errors.New("material index not initialized")

	// ErrProvider marks an upstream AI provider failure (non-success status
	// or malformed payload).
	ErrProvider = errors.New("provider error")

	// ErrRateLimit marks an upstream 429. Distinct from ErrProvider so callers
	// can back off and retry instead of failing immediately.
	ErrRateLimit = errors.New("provider rate limited")

	// ErrTimeout marks a bounded wait on an upstream call that was exceeded.
	ErrTimeout = errors.New("provider timeout")
)

func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func NotInitialized(materialId string, variant string) error {
	return fmt.Errorf("%w: material %s (%s)", ErrNotInitialized, materialId, variant)
}

func Provider(provider string, format string, args ...interface{}) error {
	return fmt.Errorf("%w: [%s] %s", ErrProvider, provider, fmt.Sprintf(format, args...))
}

func RateLimit(provider string) error {
	return fmt.Errorf("%w: [%s]", ErrRateLimit, provider)
}

func Timeout(provider string, err error) error {
	return fmt.Errorf("%w: [%s] %v", ErrTimeout, provider, err)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsNotInitialized(err error) bool {
	return errors.Is(err, ErrNotInitialized)
}

func IsProvider(err error) bool {
	return errors.Is(err, ErrProvider)
}

func IsRateLimit(err error) bool {
	return errors.Is(err, ErrRateLimit)
}

func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
