package utils

import (
	"errors"
	"net/url"
)

var (
	errEmptyURL    = errors.New("empty URL")
	errBadScheme   = errors.New("scheme must be http or https")
	errMissingHost = errors.New("missing host")
)

// ParseEndpoint parses an absolute http(s) endpoint URL
func ParseEndpoint(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, errEmptyURL
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errBadScheme
	}
	if u.Host == "" {
		return nil, errMissingHost
	}
	return u, nil
}

// ValidateURL reports whether raw is an http(s) URL with a host
func ValidateURL(raw string) bool {
	_, err := ParseEndpoint(raw)
	return err == nil
}
