package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"blog-content/internal/domain/entity"
)

const dateLayout = "2006-01-02 15:04"

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return encoder.Close()
}

func writePostTable(w io.Writer, posts []*entity.Post) error {
	if len(posts) == 0 {
		_, err := fmt.Fprintln(w, "No posts found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tPUBLISHED\tCATEGORY\tTITLE")
	for _, p := range posts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Status, formatTime(p.PublishedAt), p.Category.Name, p.Title)
	}
	return tw.Flush()
}

func writePostDetail(w io.Writer, p *entity.Post) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", p.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", p.Title)
	fmt.Fprintf(tw, "Slug:\t%s\n", p.Slug)
	fmt.Fprintf(tw, "Status:\t%s\n", p.Status)
	fmt.Fprintf(tw, "Published:\t%s\n", formatTime(p.PublishedAt))
	fmt.Fprintf(tw, "Author:\t%s\n", p.Author.Name)
	fmt.Fprintf(tw, "Category:\t%s\n", p.Category.Name)
	fmt.Fprintf(tw, "Tags:\t%s\n", tagNames(p.Tags))
	fmt.Fprintf(tw, "Read time:\t%d min\n", p.ReadTime)
	fmt.Fprintf(tw, "Updated:\t%s\n", p.UpdatedAt.Format(dateLayout))
	if p.FeaturedImage != "" {
		fmt.Fprintf(tw, "Image:\t%s\n", truncate(p.FeaturedImage, 60))
	}
	fmt.Fprintf(tw, "Excerpt:\t%s\n", p.Excerpt)
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s\n", p.Content)
	return err
}

func writeCategoryTable(w io.Writer, categories []*entity.Category) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSLUG\tNAME\tDESCRIPTION")
	for _, c := range categories {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.Slug, c.Name, c.Description)
	}
	return tw.Flush()
}

func writeTagTable(w io.Writer, tags []*entity.Tag) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSLUG\tNAME")
	for _, t := range tags {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.ID, t.Slug, t.Name)
	}
	return tw.Flush()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(dateLayout)
}

func tagNames(tags []entity.Tag) string {
	if len(tags) == 0 {
		return "-"
	}
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}

// truncate shortens data URLs and long links for display.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
