package content

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgREST(t *testing.T, handler http.HandlerFunc) *SupabaseSource {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewSupabaseSource(SupabaseConfig{URL: srv.URL + "/", AnonKey: "anon-key", Timeout: 2 * time.Second})
}

func TestSupabaseConfigured(t *testing.T) {
	assert.False(t, NewSupabaseSource(SupabaseConfig{}).Configured())
	assert.False(t, NewSupabaseSource(SupabaseConfig{URL: "https://x.supabase.co"}).Configured())
	assert.False(t, NewSupabaseSource(SupabaseConfig{AnonKey: "k"}).Configured())
	assert.True(t, NewSupabaseSource(SupabaseConfig{URL: "https://x.supabase.co", AnonKey: "k"}).Configured())

	_, err := NewSupabaseSource(SupabaseConfig{}).PublishedPosts(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSupabasePublishedPosts(t *testing.T) {
	src := newPostgREST(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/blog_posts", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		q := r.URL.Query()
		assert.Equal(t, "eq.published", q.Get("status"))
		assert.True(t, strings.HasPrefix(q.Get("order"), "published_at.desc"), "order = %q", q.Get("order"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"1","title":"Premier","slug":"premier","excerpt":"e","content":"c",
			 "featured_image_url":null,"author":"A","status":"published",
			 "published_at":"2025-10-07T08:30:00.123456+00:00",
			 "created_at":"2025-10-07T08:00:00+00:00","updated_at":"not a date"},
			{"id":"2","title":"Second","slug":"second","status":"published","published_at":null,
			 "created_at":"2025-10-01 10:00:00+00"}
		]`))
	})

	posts, err := src.PublishedPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)

	p := posts[0]
	assert.Equal(t, "premier", p.Slug)
	assert.Nil(t, p.FeaturedImageURL)
	require.NotNil(t, p.PublishedAt)
	assert.Equal(t, time.Date(2025, 10, 7, 8, 30, 0, 123456000, time.UTC), *p.PublishedAt)
	assert.True(t, p.UpdatedAt.IsZero(), "unparseable timestamp becomes zero")

	assert.Nil(t, posts[1].PublishedAt)
	assert.Equal(t, 2025, posts[1].CreatedAt.Year())
}

func TestSupabasePostBySlugResolvesCategories(t *testing.T) {
	src := newPostgREST(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "eq.mon-article", q.Get("slug"))
		assert.Equal(t, selectPostDetail, q.Get("select"))
		assert.Equal(t, "eq.published", q.Get("status"))
		assert.Equal(t, "1", q.Get("limit"))
		w.Write([]byte(`[{"id":"1","slug":"mon-article","status":"published",
			"blog_post_categories":[
				{"category_id":"c1","blog_categories":{"id":"c1","name":"Conseils","slug":"conseils","description":null,"created_at":""}},
				{"category_id":"c2","blog_categories":null}
			]}]`))
	})

	p, err := src.PostBySlug(context.Background(), "mon-article")
	require.NoError(t, err)
	require.Len(t, p.Categories, 1)
	assert.Equal(t, "conseils", p.Categories[0].Slug)
}

func TestSupabasePostBySlugNotFound(t *testing.T) {
	src := newPostgREST(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	_, err := src.PostBySlug(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSupabasePostsByCategoryDropsPartialJoins(t *testing.T) {
	src := newPostgREST(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "eq.destinations", q.Get("blog_post_categories.blog_categories.slug"))
		assert.Equal(t, selectPostByCategory, q.Get("select"))
		assert.True(t, strings.HasPrefix(q.Get("order"), "published_at.desc"), "order = %q", q.Get("order"))
		w.Write([]byte(`[{"id":"1","slug":"a","status":"published",
			"blog_post_categories":[{"blog_categories":{"slug":"destinations"}}]}]`))
	})

	posts, err := src.PostsByCategory(context.Background(), "destinations")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Empty(t, posts[0].Categories)
}

func TestSupabaseQueryError(t *testing.T) {
	src := newPostgREST(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"42703","message":"column blog_posts.nope does not exist","details":null,"hint":null}`))
	})

	_, err := src.Categories(context.Background())
	var qe *QueryError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, "supabase", qe.Source)
	assert.Equal(t, "categories", qe.Op)
	assert.Contains(t, qe.Message, "column blog_posts.nope does not exist")
}

func TestSupabaseDecodeErrorIsQueryError(t *testing.T) {
	src := newPostgREST(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})
	_, err := src.VehicleCategories(context.Background())
	var qe *QueryError
	assert.True(t, errors.As(err, &qe))
}

func TestSupabaseUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	src := NewSupabaseSource(SupabaseConfig{URL: url, AnonKey: "k", Timeout: time.Second})
	_, err := src.PublishedPosts(context.Background())
	require.Error(t, err)
	var qe *QueryError
	assert.False(t, errors.As(err, &qe), "transport failures are not query errors")
}

func TestSupabaseTimeoutIsNotQueryError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	src := NewSupabaseSource(SupabaseConfig{URL: srv.URL, AnonKey: "k", Timeout: 50 * time.Millisecond})
	_, err := src.Categories(context.Background())
	require.Error(t, err)
	var qe *QueryError
	assert.False(t, errors.As(err, &qe))
}

func TestSupabasePricing(t *testing.T) {
	src := newPostgREST(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Query().Get("order"), "display_order.asc"))
		switch r.URL.Path {
		case "/rest/v1/vehicle_categories":
			w.Write([]byte(`[{"id":"v1","name":"Autocar","description":null,"capacity_min":20,"capacity_max":63,"display_order":1}]`))
		case "/rest/v1/pricing_options":
			w.Write([]byte(`[{"id":"o1","category_id":"v1","service_type":"Excursion","duration_type":"journée",
				"base_price":890.5,"price_description":"à partir de","includes":["Chauffeur"],"display_order":1}]`))
		default:
			http.NotFound(w, r)
		}
	})

	vehicles, err := src.VehicleCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	assert.Equal(t, "", vehicles[0].Description)
	assert.Equal(t, 63, vehicles[0].CapacityMax)

	options, err := src.PricingOptions(context.Background())
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, 890.5, options[0].BasePrice)
	assert.Equal(t, []string{"Chauffeur"}, options[0].Includes)
}
