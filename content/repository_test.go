package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// fakeSource is an in-memory Source. Errors, when set, are returned by the
// matching method; calls counts every invocation by method name.
type fakeSource struct {
	configured bool

	posts      []BlogPost
	categories []BlogCategory
	byCategory map[string][]BlogPost
	vehicles   []VehicleCategory
	options    []PricingOption

	postsErr    error
	catsErr     error
	slugErr     error
	categoryErr error
	pricingErr  error

	calls map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{configured: true, calls: map[string]int{}}
}

func (f *fakeSource) Name() string     { return "fake" }
func (f *fakeSource) Configured() bool { return f.configured }

func (f *fakeSource) PublishedPosts(context.Context) ([]BlogPost, error) {
	f.calls["PublishedPosts"]++
	return f.posts, f.postsErr
}

func (f *fakeSource) Categories(context.Context) ([]BlogCategory, error) {
	f.calls["Categories"]++
	return f.categories, f.catsErr
}

func (f *fakeSource) PostBySlug(_ context.Context, slug string) (BlogPost, error) {
	f.calls["PostBySlug"]++
	if f.slugErr != nil {
		return BlogPost{}, f.slugErr
	}
	for _, p := range f.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return BlogPost{}, ErrNotFound
}

func (f *fakeSource) PostsByCategory(_ context.Context, slug string) ([]BlogPost, error) {
	f.calls["PostsByCategory"]++
	return f.byCategory[slug], f.categoryErr
}

func (f *fakeSource) VehicleCategories(context.Context) ([]VehicleCategory, error) {
	f.calls["VehicleCategories"]++
	return f.vehicles, f.pricingErr
}

func (f *fakeSource) PricingOptions(context.Context) ([]PricingOption, error) {
	f.calls["PricingOptions"]++
	return f.options, f.pricingErr
}

func at(day int) *time.Time {
	t := time.Date(2025, 10, day, 9, 0, 0, 0, time.UTC)
	return &t
}

func post(slug string, publishedAt *time.Time, cats ...BlogCategory) BlogPost {
	return BlogPost{
		ID:          "id-" + slug,
		Title:       "Title " + slug,
		Slug:        slug,
		Status:      StatusPublished,
		PublishedAt: publishedAt,
		Categories:  cats,
	}
}

func slugs(posts []BlogPost) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}

var (
	catConseils     = BlogCategory{ID: "c1", Name: "Conseils", Slug: "conseils"}
	catDestinations = BlogCategory{ID: "c2", Name: "Destinations", Slug: "destinations"}
	catEvents       = BlogCategory{ID: "c3", Name: "Événements", Slug: "evenements"}
)

func newTestRepo(src Source) *Repository {
	static := []BlogPost{
		post("static-a", at(6), catConseils),
		post("static-b", at(5), catConseils, catDestinations),
	}
	return NewRepository(src, zap.NewNop(),
		WithStaticData(static, []BlogCategory{catConseils, catDestinations}))
}

func requireSortedDesc(t *testing.T, posts []BlogPost) {
	t.Helper()
	for i := 1; i < len(posts); i++ {
		prev, cur := posts[i-1].PublishedAt, posts[i].PublishedAt
		if prev == nil {
			require.Nil(t, cur, "post without date before dated post at %d", i)
			continue
		}
		if cur != nil {
			require.False(t, cur.After(*prev), "posts not sorted at %d", i)
		}
	}
}

func TestListPublishedUnconfiguredServesStatic(t *testing.T) {
	src := newFakeSource()
	src.configured = false
	repo := newTestRepo(src)

	got := repo.ListPublished(context.Background())
	assert.Equal(t, []string{"static-a", "static-b"}, slugs(got))
	assert.Zero(t, src.calls["PublishedPosts"])
}

func TestListPublishedRemoteWinsAndStaticFillsGaps(t *testing.T) {
	src := newFakeSource()
	remoteA := post("static-a", at(1))
	remoteA.Title = "Remote A"
	src.posts = []BlogPost{
		post("remote-new", at(7)),
		remoteA,
		post("remote-undated", nil),
	}
	repo := newTestRepo(src)

	got := repo.ListPublished(context.Background())
	require.Equal(t, []string{"remote-new", "static-b", "static-a", "remote-undated"}, slugs(got))
	assert.Equal(t, "Remote A", got[2].Title)
	requireSortedDesc(t, got)
}

func TestListPublishedFallsBack(t *testing.T) {
	tests := []struct {
		name  string
		posts []BlogPost
		err   error
	}{
		{name: "unreachable", err: errors.New("dial tcp: connection refused")},
		{name: "query error", err: &QueryError{Source: "fake", Op: "published posts", Message: "boom"}},
		{name: "empty result"},
		{name: "only drafts", posts: []BlogPost{{Slug: "draft", Status: StatusDraft}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newFakeSource()
			src.posts = tt.posts
			src.postsErr = tt.err
			repo := newTestRepo(src)

			got := repo.ListPublished(context.Background())
			assert.Equal(t, []string{"static-a", "static-b"}, slugs(got))
		})
	}
}

func TestListPublishedNeverReturnsDrafts(t *testing.T) {
	src := newFakeSource()
	src.posts = []BlogPost{
		post("remote", at(8)),
		{Slug: "draft", Status: StatusDraft, PublishedAt: at(9)},
	}
	repo := newTestRepo(src)

	for _, p := range repo.ListPublished(context.Background()) {
		assert.True(t, p.IsPublished(), "post %q is not published", p.Slug)
	}
}

func TestListPublishedSlugsUnique(t *testing.T) {
	src := newFakeSource()
	src.posts = []BlogPost{post("static-a", at(2)), post("static-b", at(3)), post("x", at(4))}
	repo := newTestRepo(src)

	seen := map[string]bool{}
	for _, p := range repo.ListPublished(context.Background()) {
		require.False(t, seen[p.Slug], "duplicate slug %q", p.Slug)
		seen[p.Slug] = true
	}
	assert.Len(t, seen, 3)
}

func TestListPublishedIdempotent(t *testing.T) {
	src := newFakeSource()
	src.posts = []BlogPost{post("remote", at(8))}
	repo := newTestRepo(src)
	ctx := context.Background()

	first := repo.ListPublished(ctx)
	second := repo.ListPublished(ctx)
	require.Equal(t, first, second)

	// Results are independent copies.
	first[0].Title = "mutated"
	*first[1].PublishedAt = time.Time{}
	third := repo.ListPublished(ctx)
	assert.Equal(t, second, third)
}

func TestListCategories(t *testing.T) {
	src := newFakeSource()
	remoteConseils := catConseils
	remoteConseils.ID = "remote-c1"
	src.categories = []BlogCategory{catEvents, remoteConseils}
	repo := newTestRepo(src)

	got := repo.ListCategories(context.Background())
	require.Len(t, got, 3)
	assert.Equal(t, "evenements", got[0].Slug)
	assert.Equal(t, "remote-c1", got[1].ID)
	assert.Equal(t, "destinations", got[2].Slug)
}

func TestListCategoriesFallsBack(t *testing.T) {
	src := newFakeSource()
	src.catsErr = errors.New("timeout")
	repo := newTestRepo(src)

	got := repo.ListCategories(context.Background())
	assert.Equal(t, []BlogCategory{catConseils, catDestinations}, got)

	src.catsErr = nil
	got = repo.ListCategories(context.Background())
	assert.Equal(t, []BlogCategory{catConseils, catDestinations}, got, "empty remote result")
}

func TestGetBySlugStaticWinsWithoutRemoteCall(t *testing.T) {
	src := newFakeSource()
	remote := post("static-a", at(1))
	remote.Title = "Remote version"
	src.posts = []BlogPost{remote}
	repo := newTestRepo(src)

	got, ok := repo.GetBySlug(context.Background(), "static-a")
	require.True(t, ok)
	assert.Equal(t, "Title static-a", got.Title)
	assert.Zero(t, src.calls["PostBySlug"])
}

func TestGetBySlugRemote(t *testing.T) {
	src := newFakeSource()
	src.posts = []BlogPost{post("remote", at(3), catEvents)}
	repo := newTestRepo(src)

	got, ok := repo.GetBySlug(context.Background(), "remote")
	require.True(t, ok)
	assert.Equal(t, "remote", got.Slug)
	assert.Equal(t, []BlogCategory{catEvents}, got.Categories)
}

func TestGetBySlugAbsent(t *testing.T) {
	tests := []struct {
		name string
		src  func() *fakeSource
	}{
		{"not found", newFakeSource},
		{"unconfigured", func() *fakeSource {
			s := newFakeSource()
			s.configured = false
			s.posts = []BlogPost{post("missing", at(1))}
			return s
		}},
		{"remote error", func() *fakeSource {
			s := newFakeSource()
			s.slugErr = errors.New("connection reset")
			return s
		}},
		{"draft", func() *fakeSource {
			s := newFakeSource()
			s.posts = []BlogPost{{Slug: "missing", Status: StatusDraft}}
			return s
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newTestRepo(tt.src())
			_, ok := repo.GetBySlug(context.Background(), "missing")
			assert.False(t, ok)
		})
	}
}

func TestListByCategory(t *testing.T) {
	src := newFakeSource()
	src.byCategory = map[string][]BlogPost{
		"destinations": {post("remote-dest", at(4)), post("static-b", at(9))},
	}
	repo := newTestRepo(src)

	got := repo.ListByCategory(context.Background(), "destinations")
	require.Equal(t, []string{"static-b", "remote-dest"}, slugs(got))
	assert.Empty(t, got[0].Categories, "remote record replaces the static one")
}

func TestListByCategoryFallsBack(t *testing.T) {
	src := newFakeSource()
	src.categoryErr = errors.New("unreachable")
	repo := newTestRepo(src)

	got := repo.ListByCategory(context.Background(), "conseils")
	assert.Equal(t, []string{"static-a", "static-b"}, slugs(got))

	src.configured = false
	got = repo.ListByCategory(context.Background(), "destinations")
	assert.Equal(t, []string{"static-b"}, slugs(got))

	got = repo.ListByCategory(context.Background(), "unknown")
	assert.Empty(t, got)
}

func TestPricing(t *testing.T) {
	src := newFakeSource()
	src.vehicles = []VehicleCategory{{ID: "v1", Name: "Minibus", CapacityMin: 8, CapacityMax: 19}}
	src.options = []PricingOption{
		{ID: "o2", CategoryID: "v1", ServiceType: "Transfert", DisplayOrder: 2},
		{ID: "o1", CategoryID: "v1", ServiceType: "Excursion", DisplayOrder: 1},
		{ID: "o3", CategoryID: "v9", ServiceType: "Autre"},
	}
	repo := newTestRepo(src)

	p := repo.Pricing(context.Background())
	require.False(t, p.Empty())
	opts := p.OptionsFor("v1")
	require.Len(t, opts, 2)
	assert.Equal(t, "o1", opts[0].ID)

	src.pricingErr = errors.New("down")
	assert.True(t, repo.Pricing(context.Background()).Empty())
}

func TestRepositoryLogLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	src := newFakeSource()
	repo := NewRepository(src, zap.New(core))

	src.postsErr = errors.New("dial tcp: i/o timeout")
	repo.ListPublished(context.Background())
	src.postsErr = &QueryError{Source: "fake", Op: "published posts", Message: "bad column"}
	repo.ListPublished(context.Background())

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestRepositoryWarnsOnceWhenUnconfigured(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	repo := NewRepository(NopSource{}, zap.New(core))

	repo.ListPublished(context.Background())
	repo.ListCategories(context.Background())

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
}

func TestRepositoryDefaultsToEmbeddedDataset(t *testing.T) {
	repo := NewRepository(nil, nil)
	posts := repo.ListPublished(context.Background())
	require.Len(t, posts, 2)
	assert.Equal(t, "location-autocar-bruxelles", posts[0].Slug)
	assert.Equal(t, "location-autocar-bruxelles-excursion", posts[1].Slug)
}
