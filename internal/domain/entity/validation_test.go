package entity

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateFeaturedImage(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "empty is allowed", raw: "", wantErr: false},
		{name: "https URL", raw: "https://images.example.com/cover.png", wantErr: false},
		{name: "http URL with query", raw: "http://example.com/a.jpg?w=800", wantErr: false},
		{name: "inline png", raw: "data:image/png;base64,iVBORw0KGgo=", wantErr: false},
		{name: "inline without payload", raw: "data:image/png;base64", wantErr: true},
		{name: "ftp scheme", raw: "ftp://example.com/a.png", wantErr: true},
		{name: "relative path", raw: "/images/a.png", wantErr: true},
		{name: "missing host", raw: "https:///a.png", wantErr: true},
		{name: "too long", raw: "https://example.com/" + strings.Repeat("a", maxURLLength), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFeaturedImage(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateFeaturedImage(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if err != nil {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("expected *ValidationError, got %T", err)
				}
				if vErr.Field != "featuredImage" {
					t.Errorf("Field = %q, want featuredImage", vErr.Field)
				}
			}
		})
	}
}
