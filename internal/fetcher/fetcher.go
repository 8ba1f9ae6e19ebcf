// Package fetcher provides the HTTP transport used to retrieve club and fuel
// center pages. Fetching is rate limited per host so a daily run never
// hammers the upstream site.
package fetcher

import (
	"context"
	"fmt"
	"net/http"
)

// Page is a fetched document.
type Page struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Error reports a failed fetch: network error, timeout, or non-2xx status.
type Error struct {
	URL        string
	StatusCode int // 0 when the request never produced a response
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Fetcher retrieves a single URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}
