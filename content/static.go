package content

import (
	_ "embed"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed static.toml
var staticTOML string

// Dataset is a bundle of content in the TOML format of static.toml. Posts
// reference their categories by slug.
type Dataset struct {
	Categories []BlogCategory    `toml:"categories"`
	Posts      []DatasetPost     `toml:"posts"`
	Vehicles   []VehicleCategory `toml:"vehicles"`
	Pricing    []PricingOption   `toml:"pricing"`
}

// DatasetPost is the TOML form of a BlogPost.
type DatasetPost struct {
	ID               string     `toml:"id"`
	Title            string     `toml:"title"`
	Slug             string     `toml:"slug"`
	Excerpt          string     `toml:"excerpt"`
	Content          string     `toml:"content"`
	FeaturedImageURL *string    `toml:"featured_image_url"`
	Author           string     `toml:"author"`
	Status           Status     `toml:"status"`
	PublishedAt      *time.Time `toml:"published_at"`
	CreatedAt        time.Time  `toml:"created_at"`
	UpdatedAt        time.Time  `toml:"updated_at"`
	Categories       []string   `toml:"categories"`
}

// ParseDataset decodes a dataset and resolves post categories. A post that
// references an unknown category slug is an error.
func ParseDataset(r io.Reader) (Dataset, error) {
	var ds Dataset
	if _, err := toml.NewDecoder(r).Decode(&ds); err != nil {
		return Dataset{}, fmt.Errorf("content: decode dataset: %w", err)
	}
	bySlug := make(map[string]BlogCategory, len(ds.Categories))
	for _, c := range ds.Categories {
		if c.Slug == "" {
			return Dataset{}, fmt.Errorf("content: category %q has no slug", c.ID)
		}
		bySlug[c.Slug] = c
	}
	for _, p := range ds.Posts {
		if p.Slug == "" {
			return Dataset{}, fmt.Errorf("content: post %q has no slug", p.ID)
		}
		for _, slug := range p.Categories {
			if _, ok := bySlug[slug]; !ok {
				return Dataset{}, fmt.Errorf("content: post %q: unknown category %q", p.Slug, slug)
			}
		}
	}
	return ds, nil
}

// BlogPosts returns the dataset posts with their categories resolved.
func (ds Dataset) BlogPosts() []BlogPost {
	bySlug := make(map[string]BlogCategory, len(ds.Categories))
	for _, c := range ds.Categories {
		bySlug[c.Slug] = c
	}
	out := make([]BlogPost, 0, len(ds.Posts))
	for _, p := range ds.Posts {
		post := BlogPost{
			ID:               p.ID,
			Title:            p.Title,
			Slug:             p.Slug,
			Excerpt:          p.Excerpt,
			Content:          p.Content,
			FeaturedImageURL: p.FeaturedImageURL,
			Author:           p.Author,
			Status:           p.Status,
			PublishedAt:      p.PublishedAt,
			CreatedAt:        p.CreatedAt,
			UpdatedAt:        p.UpdatedAt,
		}
		if post.Status == "" {
			post.Status = StatusPublished
		}
		for _, slug := range p.Categories {
			if c, ok := bySlug[slug]; ok {
				post.Categories = append(post.Categories, c)
			}
		}
		out = append(out, post)
	}
	return out
}

var (
	staticOnce       sync.Once
	staticPosts      []BlogPost
	staticCategories []BlogCategory
)

func loadStatic() {
	staticOnce.Do(func() {
		ds, err := ParseDataset(strings.NewReader(staticTOML))
		if err != nil {
			panic(err)
		}
		staticPosts = ds.BlogPosts()
		staticCategories = ds.Categories
	})
}

// StaticPosts returns a fresh copy of the embedded fallback posts.
func StaticPosts() []BlogPost {
	loadStatic()
	return clonePosts(staticPosts)
}

// StaticCategories returns a fresh copy of the embedded fallback categories.
func StaticCategories() []BlogCategory {
	loadStatic()
	return cloneCategories(staticCategories)
}
