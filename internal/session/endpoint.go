package session

import (
	"net/http"
	"net/url"
	"strings"
)

// Endpoint describes one logical request. Path is relative to the base URL and
// may carry a locale prefix; the client normalizes it.
type Endpoint struct {
	Name   string
	Method string
	Path   string
	Query  url.Values
	Form   url.Values
	// XHR marks requests the site only answers for XMLHttpRequest callers.
	XHR bool
	// CSRF attaches the session csrf_token to the form body.
	CSRF bool
	// Locale overrides the client locale for this request only.
	Locale string
}

func (e Endpoint) method() string {
	if e.Method != "" {
		return e.Method
	}
	if e.Form != nil || e.CSRF {
		return http.MethodPost
	}
	return http.MethodGet
}

func (e Endpoint) name() string {
	if e.Name != "" {
		return e.Name
	}
	return e.method() + " " + e.Path
}

// Response is a fully read response body.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

var localizedPrefixes = []string{"en", "uk"}

// normalizePath strips any locale prefix from path and applies locale when the
// site serves it under its own prefix. Russian is the unprefixed default.
func normalizePath(path string, locale string) string {
	path = strings.TrimPrefix(path, "/")
	for _, prefix := range localizedPrefixes {
		if path == prefix {
			path = ""
			break
		}
		if strings.HasPrefix(path, prefix+"/") {
			path = strings.TrimPrefix(path, prefix+"/")
			break
		}
	}

	for _, prefix := range localizedPrefixes {
		if locale == prefix {
			return "/" + prefix + "/" + path
		}
	}
	return "/" + path
}
