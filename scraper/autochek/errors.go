package autochek

import (
	"errors"
	"fmt"
)

// ErrNoSelectorMatch means no selector in a candidate chain matched the
// current page. Callers treat it as "not found", never as fatal.
var ErrNoSelectorMatch = errors.New("no candidate selector matched")

// ErrPipelineExhausted means every candidate URL and access strategy
// failed to surface listings. It triggers the fallback fetch.
var ErrPipelineExhausted = errors.New("no search strategy surfaced listings")

// NavigationError reports a page that failed to load within its timeout.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigate %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }
