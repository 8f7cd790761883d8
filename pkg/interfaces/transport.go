package interfaces

import "context"

// Transport is the backend of record. Store issues one request against path and
// returns the decoded response payload. Implementations may block; callers that
// need non-blocking behaviour schedule Store on their own event loop.
type Transport interface {
	Store(ctx context.Context, path string, data map[string]any) (map[string]any, error)
}

// ContentFetcher resolves persistent content by key. contentType may be empty
// when the caller only knows the key; the returned map always carries
// "content_type".
type ContentFetcher interface {
	Fetch(ctx context.Context, contentType, key string) (map[string]any, error)
}

// ContentSearcher lists persistent content records matching a title query.
type ContentSearcher interface {
	Search(ctx context.Context, contentType, query string, limit int) ([]SearchResult, error)
}

// SearchResult is a single entry returned by ContentSearcher.
type SearchResult struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Transport paths understood by the storage backend.
const (
	PathLayout  = "layout"
	PathContent = "content"
)
