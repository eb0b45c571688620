// Package entity defines the core domain entities and validation logic for the blog content repository.
// It contains the fundamental business objects such as Post, Category and Tag, along with
// their derivation rules (slug, read time) and domain-specific errors.
package entity

import (
	"fmt"
	"time"
)

// Status is the publication state of a post.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusScheduled Status = "scheduled"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusScheduled:
		return true
	}
	return false
}

// ParseStatus converts raw input to a Status.
// An empty string is treated as a draft.
func ParseStatus(raw string) (Status, error) {
	if raw == "" {
		return StatusDraft, nil
	}
	s := Status(raw)
	if !s.Valid() {
		return "", &ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("must be one of draft, published, scheduled (got %q)", raw),
		}
	}
	return s, nil
}

// Author is the owned author reference embedded in a post.
type Author struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Avatar string `json:"avatar" yaml:"avatar"`
	Bio    string `json:"bio,omitempty" yaml:"bio,omitempty"`
}

// Post represents a blog post with its resolved category, tags and author.
type Post struct {
	ID            string     `json:"id" yaml:"id"`
	Title         string     `json:"title" yaml:"title"`
	Slug          string     `json:"slug" yaml:"slug"`
	Excerpt       string     `json:"excerpt" yaml:"excerpt"`
	Content       string     `json:"content" yaml:"content"`
	Author        Author     `json:"author" yaml:"author"`
	PublishedAt   *time.Time `json:"publishedAt" yaml:"publishedAt"`
	UpdatedAt     time.Time  `json:"updatedAt" yaml:"updatedAt"`
	CreatedAt     time.Time  `json:"createdAt" yaml:"createdAt"`
	Status        Status     `json:"status" yaml:"status"`
	Category      Category   `json:"category" yaml:"category"`
	Tags          []Tag      `json:"tags" yaml:"tags"`
	FeaturedImage string     `json:"featuredImage" yaml:"featuredImage"`
	ReadTime      int        `json:"readTime" yaml:"readTime"`
}

// TagIDs returns the ids of the post's tags in order.
func (p *Post) TagIDs() []string {
	ids := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// HasAnyTag reports whether the post carries at least one of the given tag ids.
func (p *Post) HasAnyTag(ids []string) bool {
	for _, t := range p.Tags {
		for _, id := range ids {
			if t.ID == id {
				return true
			}
		}
	}
	return false
}

// Clone returns a deep copy so callers can mutate the result without
// touching the stored value.
func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}
	cp := *p
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		cp.PublishedAt = &t
	}
	if p.Tags != nil {
		cp.Tags = make([]Tag, len(p.Tags))
		copy(cp.Tags, p.Tags)
	}
	return &cp
}
