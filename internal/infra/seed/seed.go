// Package seed provides the reference data an empty content store starts with.
package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"blog-content/internal/domain/entity"
)

//go:embed seed.yaml
var defaultSeedYAML []byte

// Data is the full seed document.
type Data struct {
	Authors    []entity.Author   `yaml:"authors"`
	Categories []entity.Category `yaml:"categories"`
	Tags       []entity.Tag      `yaml:"tags"`
	Posts      []entity.Post     `yaml:"posts"`
}

// Default returns the embedded seed data.
func Default() (*Data, error) {
	return Parse(defaultSeedYAML)
}

// Load reads seed data from path, or returns the embedded data when path is empty.
func Load(path string) (*Data, error) {
	if path == "" {
		return Default()
	}
	// #nosec G304 -- path comes from operator configuration (CONTENT_SEED_FILE)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	data, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return data, nil
}

// Parse decodes and validates a YAML seed document.
func Parse(raw []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return &data, nil
}

// Validate checks that every record has an id, ids are unique per collection,
// post slugs are unique, and seeded posts reference known authors and categories.
func (d *Data) Validate() error {
	var errs []error

	authorIDs := make(map[string]bool, len(d.Authors))
	for i, a := range d.Authors {
		errs = append(errs, checkID("authors", i, a.ID, authorIDs))
	}
	categoryIDs := make(map[string]bool, len(d.Categories))
	for i, c := range d.Categories {
		errs = append(errs, checkID("categories", i, c.ID, categoryIDs))
	}
	tagIDs := make(map[string]bool, len(d.Tags))
	for i, t := range d.Tags {
		errs = append(errs, checkID("tags", i, t.ID, tagIDs))
	}
	postIDs := make(map[string]bool, len(d.Posts))
	slugs := make(map[string]bool, len(d.Posts))
	for i, p := range d.Posts {
		errs = append(errs, checkID("posts", i, p.ID, postIDs))
		if slugs[p.Slug] {
			errs = append(errs, fmt.Errorf("posts[%d]: duplicate slug %q", i, p.Slug))
		}
		slugs[p.Slug] = true
		if !authorIDs[p.Author.ID] {
			errs = append(errs, fmt.Errorf("posts[%d]: unknown author %q", i, p.Author.ID))
		}
		if !categoryIDs[p.Category.ID] {
			errs = append(errs, fmt.Errorf("posts[%d]: unknown category %q", i, p.Category.ID))
		}
		if !p.Status.Valid() {
			errs = append(errs, fmt.Errorf("posts[%d]: invalid status %q", i, p.Status))
		}
	}

	return errors.Join(errs...)
}

func checkID(collection string, i int, id string, seen map[string]bool) error {
	if id == "" {
		return fmt.Errorf("%s[%d]: id is required", collection, i)
	}
	if seen[id] {
		return fmt.Errorf("%s[%d]: duplicate id %q", collection, i, id)
	}
	seen[id] = true
	return nil
}

// Author returns the seeded author with the given id.
func (d *Data) Author(id string) (entity.Author, bool) {
	for _, a := range d.Authors {
		if a.ID == id {
			return a, true
		}
	}
	return entity.Author{}, false
}
