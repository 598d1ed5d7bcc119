package content

import (
	"strings"
	"time"
)

// Row types mirror the loosely typed records returned by the backends:
// timestamps are strings and category associations arrive as nested join
// arrays. They are converted into the canonical entities before leaving the
// source.

type categoryRow struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
	CreatedAt   string  `json:"created_at"`
}

type postCategoryRow struct {
	CategoryID string       `json:"category_id"`
	Category   *categoryRow `json:"blog_categories"`
}

type postRow struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Slug             string            `json:"slug"`
	Excerpt          string            `json:"excerpt"`
	Content          string            `json:"content"`
	FeaturedImageURL *string           `json:"featured_image_url"`
	Author           string            `json:"author"`
	Status           string            `json:"status"`
	PublishedAt      *string           `json:"published_at"`
	CreatedAt        string            `json:"created_at"`
	UpdatedAt        string            `json:"updated_at"`
	PostCategories   []postCategoryRow `json:"blog_post_categories"`
}

type vehicleRow struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	CapacityMin  int     `json:"capacity_min"`
	CapacityMax  int     `json:"capacity_max"`
	DisplayOrder int     `json:"display_order"`
}

type pricingRow struct {
	ID               string   `json:"id"`
	CategoryID       string   `json:"category_id"`
	ServiceType      string   `json:"service_type"`
	DurationType     string   `json:"duration_type"`
	BasePrice        float64  `json:"base_price"`
	PriceDescription *string  `json:"price_description"`
	Includes         []string `json:"includes"`
	DisplayOrder     int      `json:"display_order"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// parseTimestamp accepts the timestamp shapes produced by PostgREST and
// SQLite. Unparseable values yield the zero time.
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func parseOptionalTimestamp(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t := parseTimestamp(*s)
	if t.IsZero() {
		return nil
	}
	return &t
}

// storedTimeLayout is fixed width so stored timestamps sort as text.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(storedTimeLayout)
}

func (r categoryRow) category() BlogCategory {
	return BlogCategory{
		ID:          r.ID,
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		CreatedAt:   parseTimestamp(r.CreatedAt),
	}
}

func (r postRow) post() BlogPost {
	p := BlogPost{
		ID:               r.ID,
		Title:            r.Title,
		Slug:             r.Slug,
		Excerpt:          r.Excerpt,
		Content:          r.Content,
		FeaturedImageURL: r.FeaturedImageURL,
		Author:           r.Author,
		Status:           Status(r.Status),
		PublishedAt:      parseOptionalTimestamp(r.PublishedAt),
		CreatedAt:        parseTimestamp(r.CreatedAt),
		UpdatedAt:        parseTimestamp(r.UpdatedAt),
	}
	for _, pc := range r.PostCategories {
		// Filtered joins only project the columns they match on.
		if pc.Category == nil || pc.Category.ID == "" {
			continue
		}
		p.Categories = append(p.Categories, pc.Category.category())
	}
	return p
}

func (r vehicleRow) vehicle() VehicleCategory {
	v := VehicleCategory{
		ID:           r.ID,
		Name:         r.Name,
		CapacityMin:  r.CapacityMin,
		CapacityMax:  r.CapacityMax,
		DisplayOrder: r.DisplayOrder,
	}
	if r.Description != nil {
		v.Description = *r.Description
	}
	return v
}

func (r pricingRow) option() PricingOption {
	return PricingOption{
		ID:               r.ID,
		CategoryID:       r.CategoryID,
		ServiceType:      r.ServiceType,
		DurationType:     r.DurationType,
		BasePrice:        r.BasePrice,
		PriceDescription: r.PriceDescription,
		Includes:         r.Includes,
		DisplayOrder:     r.DisplayOrder,
	}
}

func postsFromRows(rows []postRow) []BlogPost {
	out := make([]BlogPost, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.post())
	}
	return out
}

func categoriesFromRows(rows []categoryRow) []BlogCategory {
	out := make([]BlogCategory, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.category())
	}
	return out
}
