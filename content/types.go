// Package content resolves blog posts, categories and pricing for the site.
//
// Posts and categories come from a remote Source merged with an embedded
// static dataset. The remote record wins on slug collisions and the static
// dataset fills the gaps, so the site always has something to show even when
// no backend is configured or reachable.
package content

import (
	"slices"
	"time"
)

// Status is the publication state of a post.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// BlogCategory groups posts by topic.
type BlogCategory struct {
	ID          string    `toml:"id"`
	Name        string    `toml:"name"`
	Slug        string    `toml:"slug"`
	Description *string   `toml:"description"`
	CreatedAt   time.Time `toml:"created_at"`
}

// BlogPost is a single article. Content is restricted markdown rendered by
// the markdown package.
type BlogPost struct {
	ID               string
	Title            string
	Slug             string
	Excerpt          string
	Content          string
	FeaturedImageURL *string
	Author           string
	Status           Status
	PublishedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Categories       []BlogCategory
}

// IsPublished reports whether the post may be shown publicly.
func (p BlogPost) IsPublished() bool {
	return p.Status == StatusPublished
}

// HasCategory reports whether the post belongs to the category with slug.
func (p BlogPost) HasCategory(slug string) bool {
	for _, c := range p.Categories {
		if c.Slug == slug {
			return true
		}
	}
	return false
}

// Link returns the site-relative URL of the post.
func (p BlogPost) Link() string {
	return "/blog/" + p.Slug + "/"
}

// clone returns a deep copy so callers can never alias repository data.
func (p BlogPost) clone() BlogPost {
	if p.FeaturedImageURL != nil {
		v := *p.FeaturedImageURL
		p.FeaturedImageURL = &v
	}
	if p.PublishedAt != nil {
		v := *p.PublishedAt
		p.PublishedAt = &v
	}
	p.Categories = cloneCategories(p.Categories)
	return p
}

func (c BlogCategory) clone() BlogCategory {
	if c.Description != nil {
		v := *c.Description
		c.Description = &v
	}
	return c
}

func cloneCategories(cats []BlogCategory) []BlogCategory {
	if cats == nil {
		return nil
	}
	out := make([]BlogCategory, len(cats))
	for i, c := range cats {
		out[i] = c.clone()
	}
	return out
}

func clonePosts(posts []BlogPost) []BlogPost {
	out := make([]BlogPost, len(posts))
	for i, p := range posts {
		out[i] = p.clone()
	}
	return out
}

// VehicleCategory is a class of vehicle shown on the pricing page.
type VehicleCategory struct {
	ID           string `toml:"id"`
	Name         string `toml:"name"`
	Description  string `toml:"description"`
	CapacityMin  int    `toml:"capacity_min"`
	CapacityMax  int    `toml:"capacity_max"`
	DisplayOrder int    `toml:"display_order"`
}

// PricingOption is one priced service for a vehicle category.
type PricingOption struct {
	ID               string   `toml:"id"`
	CategoryID       string   `toml:"category_id"`
	ServiceType      string   `toml:"service_type"`
	DurationType     string   `toml:"duration_type"`
	BasePrice        float64  `toml:"base_price"`
	PriceDescription *string  `toml:"price_description"`
	Includes         []string `toml:"includes"`
	DisplayOrder     int      `toml:"display_order"`
}

// Pricing is the content of the pricing page. An empty Pricing means prices
// are quoted on request.
type Pricing struct {
	Vehicles []VehicleCategory
	Options  []PricingOption
}

// Empty reports whether there is nothing to list.
func (p Pricing) Empty() bool {
	return len(p.Vehicles) == 0 || len(p.Options) == 0
}

// OptionsFor returns the options of a vehicle category in display order.
func (p Pricing) OptionsFor(categoryID string) []PricingOption {
	var out []PricingOption
	for _, o := range p.Options {
		if o.CategoryID == categoryID {
			out = append(out, o)
		}
	}
	slices.SortStableFunc(out, func(a, b PricingOption) int {
		return a.DisplayOrder - b.DisplayOrder
	})
	return out
}
