package entity

import (
	"cmp"
	"slices"
)

// Category is reference data a post points at. Posts never own categories.
type Category struct {
	ID          string `json:"id" yaml:"id" db:"id"`
	Name        string `json:"name" yaml:"name" db:"name"`
	Slug        string `json:"slug" yaml:"slug" db:"slug"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" db:"description"`
}

// Tag is many-to-many with Post.
type Tag struct {
	ID   string `json:"id" yaml:"id" db:"id"`
	Name string `json:"name" yaml:"name" db:"name"`
	Slug string `json:"slug" yaml:"slug" db:"slug"`
}

// ResolveTags returns the tags from known whose ids appear in ids, sorted by
// name and then id. Unknown and duplicate ids are dropped.
func ResolveTags(known []*Tag, ids []string) []Tag {
	byID := make(map[string]*Tag, len(known))
	for _, t := range known {
		byID[t.ID] = t
	}
	seen := make(map[string]bool, len(ids))
	out := make([]Tag, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if t, ok := byID[id]; ok {
			out = append(out, *t)
		}
	}
	slices.SortFunc(out, func(a, b Tag) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return out
}
