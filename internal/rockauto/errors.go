package rockauto

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstreamFormat means an element we rely on (a dropdown, a
	// token input) is missing from the page, i.e. the site layout
	// changed underneath us.
	ErrUpstreamFormat = errors.New("unexpected rockauto page format")

	// ErrTokenMissing means the per-search security token input was
	// not present on the search page.
	ErrTokenMissing = errors.New("security token not found on search page")
)

// UpstreamStatusError reports a non-2xx response from rockauto.
type UpstreamStatusError struct {
	StatusCode int
	URL        string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("upstream request failed: %s returned status %d", e.URL, e.StatusCode)
}

// SearchError is the single failure kind callers of Search see; the
// underlying cause is available through errors.Unwrap.
type SearchError struct {
	Query string
	Cause error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("part search %q failed: %v", e.Query, e.Cause)
}

func (e *SearchError) Unwrap() error {
	return e.Cause
}
