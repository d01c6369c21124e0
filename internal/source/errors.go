package source

import (
	"errors"
	"fmt"
)

// ErrNoSource is returned by Load for a source that was never configured.
var ErrNoSource = errors.New("source: not configured")

// SourceUnavailableError means neither the preferred nor the fallback
// source could be fetched. It is terminal: there is no configuration to query.
type SourceUnavailableError struct {
	Preferred    string
	Fallback     string
	PreferredErr error
	FallbackErr  error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source: configuration unavailable (preferred %s: %v; fallback %s: %v)",
		orNone(e.Preferred), e.PreferredErr, orNone(e.Fallback), e.FallbackErr)
}

// Unwrap exposes both fetch errors to errors.Is / errors.As.
func (e *SourceUnavailableError) Unwrap() []error {
	var errs []error
	for _, err := range []error{e.PreferredErr, e.FallbackErr} {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func orNone(name string) string {
	if name == "" {
		return "<none>"
	}
	return name
}
