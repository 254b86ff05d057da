// Package storage turns the file reference stored on a bill into a URL the
// preview modal can load.
package storage

import (
	"context"
	"strings"
)

// isAbsoluteURL reports whether ref already is a browser-loadable URL
func isAbsoluteURL(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "data:")
}

// StaticURLResolver joins storage keys onto a fixed base URL.
// Used when no object storage is configured.
type StaticURLResolver struct {
	BaseURL string
}

// NewStaticURLResolver creates a resolver rooted at baseURL
func NewStaticURLResolver(baseURL string) *StaticURLResolver {
	return &StaticURLResolver{BaseURL: strings.TrimRight(baseURL, "/")}
}

// ResolveURL returns absolute URLs unchanged and prefixes keys with BaseURL.
func (r *StaticURLResolver) ResolveURL(_ context.Context, ref string) (string, error) {
	if ref == "" || isAbsoluteURL(ref) || r.BaseURL == "" {
		return ref, nil
	}
	return r.BaseURL + "/" + strings.TrimLeft(ref, "/"), nil
}
