package storage

import (
	"net/url"
	"strings"
)

// URLResolver turns bucket-relative object paths into fetchable public URLs.
// Absolute URLs pass through untouched.
type URLResolver struct {
	baseURL string
	bucket  string
}

// NewURLResolver builds a resolver for the provider's public-object prefix
// and the fixed bucket name.
func NewURLResolver(baseURL, bucket string) *URLResolver {
	return &URLResolver{baseURL: strings.TrimRight(baseURL, "/"), bucket: bucket}
}

// Resolve returns a fully qualified, percent-encoded URL for the given
// source. Sources that are already absolute are returned unchanged.
func (r *URLResolver) Resolve(source string) string {
	if source == "" {
		return ""
	}
	if IsAbsolute(source) {
		return source
	}
	return r.baseURL + "/" + url.PathEscape(r.bucket) + "/" + escapePath(source)
}

// Bucket exposes the configured bucket name.
func (r *URLResolver) Bucket() string {
	return r.bucket
}

// IsAbsolute reports whether the source already carries an http(s) scheme.
func IsAbsolute(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// escapePath percent-encodes each path segment while keeping separators.
func escapePath(p string) string {
	segments := strings.Split(strings.TrimLeft(p, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}
