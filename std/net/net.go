// Package net is the resource fetcher spec §6.1's LoadHTML leans on for
// `<link rel=stylesheet>` (spec §1 names resource loading as an external
// collaborator; this is the thin, real implementation SPEC_FULL commits
// to): plain file and HTTP(S) fetches, nothing else.
package net

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const userAgent = "wren/1.0 (compatible; Go)"

// client is a shared HTTP client with a bounded timeout so a stalled
// stylesheet fetch can't hang a frame indefinitely.
var client = &http.Client{
	Timeout: 30 * time.Second,
}

// Fetch retrieves rawURL's content over http(s):// or file://. Returns the
// body, a content type (best-effort; empty for file:// where there is no
// server to report one), and any error.
func Fetch(rawURL string) (body []byte, contentType string, err error) {
	if path, ok := filePath(rawURL); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("reading %s: %w", path, err)
		}
		return data, "", nil
	}

	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, rawURL)
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading response body: %w", err)
	}

	return body, resp.Header.Get("Content-Type"), nil
}

// filePath reports whether rawURL names a local file, either as a bare
// filesystem path (so CLI-supplied paths work without a file:// prefix) or
// as an explicit file:// URL, returning the path to read in either case.
func filePath(rawURL string) (string, bool) {
	if strings.HasPrefix(rawURL, "file://") {
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", false
		}
		return u.Path, true
	}
	if !IsNetworkURL(rawURL) {
		return rawURL, true
	}
	return "", false
}

// ResolveURL resolves a possibly-relative reference against base. If ref
// is already absolute, or base fails to parse, ref is returned unchanged.
func ResolveURL(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

// IsNetworkURL reports whether s names an http(s) resource rather than a
// local file.
func IsNetworkURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
