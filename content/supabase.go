package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/supabase-community/postgrest-go"
)

const defaultSupabaseTimeout = 10 * time.Second

// Column projections used by the PostgREST queries.
const (
	selectPostDetail     = "*,blog_post_categories(category_id,blog_categories(*))"
	selectPostByCategory = "*,blog_post_categories!inner(blog_categories!inner(slug))"
)

// SupabaseConfig is the endpoint and anonymous key of a Supabase project.
type SupabaseConfig struct {
	URL     string
	AnonKey string
	Timeout time.Duration // default 10s
}

// SupabaseSource reads content from a Supabase project through its
// PostgREST endpoint. Every query is a single GET attempt bounded by the
// configured timeout.
type SupabaseSource struct {
	client  *postgrest.Client
	timeout time.Duration
}

// NewSupabaseSource returns a source for cfg. The source is unconfigured
// when the URL or the key is empty.
func NewSupabaseSource(cfg SupabaseConfig) *SupabaseSource {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultSupabaseTimeout
	}
	s := &SupabaseSource{timeout: timeout}
	key := strings.TrimSpace(cfg.AnonKey)
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" || key == "" {
		return s
	}
	s.client = postgrest.NewClient(base+"/rest/v1", "public", map[string]string{
		"apikey":        key,
		"Authorization": "Bearer " + key,
	})
	return s
}

func (s *SupabaseSource) Name() string { return "supabase" }

func (s *SupabaseSource) Configured() bool {
	return s.client != nil && s.client.ClientError == nil
}

// published selects rows of table restricted to published posts.
func (s *SupabaseSource) published(table, columns string) *postgrest.FilterBuilder {
	return s.client.From(table).Select(columns, "", false).Eq("status", string(StatusPublished))
}

var (
	descending = &postgrest.OrderOpts{Ascending: false}
	ascending  = &postgrest.OrderOpts{Ascending: true}
)

func (s *SupabaseSource) PublishedPosts(ctx context.Context) ([]BlogPost, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	q := s.published("blog_posts", "*").Order("published_at", descending)
	var rows []postRow
	if err := s.run(ctx, "published posts", q, &rows); err != nil {
		return nil, err
	}
	return postsFromRows(rows), nil
}

func (s *SupabaseSource) Categories(ctx context.Context) ([]BlogCategory, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	q := s.client.From("blog_categories").Select("*", "", false).Order("name", ascending)
	var rows []categoryRow
	if err := s.run(ctx, "categories", q, &rows); err != nil {
		return nil, err
	}
	return categoriesFromRows(rows), nil
}

func (s *SupabaseSource) PostBySlug(ctx context.Context, slug string) (BlogPost, error) {
	if !s.Configured() {
		return BlogPost{}, ErrNotConfigured
	}
	q := s.published("blog_posts", selectPostDetail).Eq("slug", slug).Limit(1, "")
	var rows []postRow
	if err := s.run(ctx, "post by slug", q, &rows); err != nil {
		return BlogPost{}, err
	}
	if len(rows) == 0 {
		return BlogPost{}, ErrNotFound
	}
	return rows[0].post(), nil
}

func (s *SupabaseSource) PostsByCategory(ctx context.Context, categorySlug string) ([]BlogPost, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	q := s.published("blog_posts", selectPostByCategory).
		Eq("blog_post_categories.blog_categories.slug", categorySlug).
		Order("published_at", descending)
	var rows []postRow
	if err := s.run(ctx, "posts by category", q, &rows); err != nil {
		return nil, err
	}
	return postsFromRows(rows), nil
}

func (s *SupabaseSource) VehicleCategories(ctx context.Context) ([]VehicleCategory, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	q := s.client.From("vehicle_categories").Select("*", "", false).Order("display_order", ascending)
	var rows []vehicleRow
	if err := s.run(ctx, "vehicle categories", q, &rows); err != nil {
		return nil, err
	}
	out := make([]VehicleCategory, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.vehicle())
	}
	return out, nil
}

func (s *SupabaseSource) PricingOptions(ctx context.Context) ([]PricingOption, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	q := s.client.From("pricing_options").Select("*", "", false).Order("display_order", ascending)
	var rows []pricingRow
	if err := s.run(ctx, "pricing options", q, &rows); err != nil {
		return nil, err
	}
	out := make([]PricingOption, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.option())
	}
	return out, nil
}

// run executes q once and decodes the rows into out. Failures to reach the
// endpoint are returned wrapped; errors reported by PostgREST and
// undecodable bodies become a *QueryError.
func (s *SupabaseSource) run(ctx context.Context, op string, q *postgrest.FilterBuilder, out any) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	body, _, err := q.ExecuteWithContext(ctx)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return fmt.Errorf("supabase: %s: %w", op, err)
		}
		return &QueryError{Source: s.Name(), Op: op, Message: err.Error(), Err: err}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &QueryError{Source: s.Name(), Op: op, Message: "decode response", Err: err}
	}
	return nil
}
