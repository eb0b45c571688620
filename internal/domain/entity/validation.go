package entity

import (
	"fmt"
	"net/url"
	"strings"
)

// maxURLLength defines the maximum allowed length for remote image URLs.
// Inline data URLs are bounded by the storage quota instead.
const maxURLLength = 2048

// dataImagePrefix marks an inline-encoded featured image.
const dataImagePrefix = "data:image/"

// ValidateFeaturedImage validates a post's featured image reference.
// Empty is allowed. Inline "data:image/..." payloads are accepted as-is;
// anything else must be an absolute http(s) URL with a host.
func ValidateFeaturedImage(raw string) error {
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, dataImagePrefix) {
		if !strings.Contains(raw, ",") {
			return &ValidationError{Field: "featuredImage", Message: "data URL has no payload"}
		}
		return nil
	}

	if len(raw) > maxURLLength {
		return &ValidationError{
			Field:   "featuredImage",
			Message: fmt.Sprintf("url must not exceed %d characters", maxURLLength),
		}
	}

	parsedURL, err := url.Parse(raw)
	if err != nil {
		return &ValidationError{Field: "featuredImage", Message: "malformed URL", Err: err}
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Field: "featuredImage", Message: "URL must use http or https scheme"}
	}

	if parsedURL.Host == "" {
		return &ValidationError{Field: "featuredImage", Message: "URL must have a valid host"}
	}

	return nil
}
