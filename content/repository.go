package content

import (
	"context"
	"errors"
	"slices"

	"go.uber.org/zap"
)

// Repository is the read side of the site content. It merges a Source with
// the embedded static dataset and never fails: every source error is logged
// and answered with static content. One Repository is shared by the whole
// process; every call returns freshly allocated results.
type Repository struct {
	src              Source
	logger           *zap.Logger
	staticPosts      func() []BlogPost
	staticCategories func() []BlogCategory
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithStaticData replaces the embedded fallback dataset.
func WithStaticData(posts []BlogPost, categories []BlogCategory) RepositoryOption {
	return func(r *Repository) {
		r.staticPosts = func() []BlogPost { return clonePosts(posts) }
		r.staticCategories = func() []BlogCategory { return cloneCategories(categories) }
	}
}

// NewRepository returns a Repository over src. A nil src or logger is
// replaced by NopSource and a no-op logger.
func NewRepository(src Source, logger *zap.Logger, opts ...RepositoryOption) *Repository {
	if src == nil {
		src = NopSource{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Repository{
		src:              src,
		logger:           logger.With(zap.String("source", src.Name())),
		staticPosts:      StaticPosts,
		staticCategories: StaticCategories,
	}
	for _, opt := range opts {
		opt(r)
	}
	if !src.Configured() {
		r.logger.Warn("content source not configured, serving static content only")
	}
	return r
}

// Source returns the underlying source.
func (r *Repository) Source() Source { return r.src }

// remote reports whether the source may be queried, logging when it may not.
func (r *Repository) remote(op string) bool {
	if r.src.Configured() {
		return true
	}
	r.logger.Debug("content source not configured", zap.String("op", op))
	return false
}

// logFailure logs a source error at the level matching its class: query
// errors reported by the backend at error, everything else at warn.
func (r *Repository) logFailure(op string, err error) {
	var qe *QueryError
	if errors.As(err, &qe) {
		r.logger.Error("content query failed, using static content", zap.String("op", op), zap.Error(err))
		return
	}
	r.logger.Warn("content source unavailable, using static content", zap.String("op", op), zap.Error(err))
}

// ListPublished returns every published post, remote first, with static
// posts filling slugs the remote does not define. An empty or failed remote
// result yields the static posts alone.
func (r *Repository) ListPublished(ctx context.Context) []BlogPost {
	static := r.staticPosts()
	if !r.remote("list published") {
		return sortByPublished(filterPublished(static))
	}
	posts, err := r.src.PublishedPosts(ctx)
	if err != nil {
		r.logFailure("list published", err)
		return sortByPublished(filterPublished(static))
	}
	posts = filterPublished(posts)
	if len(posts) == 0 {
		return sortByPublished(filterPublished(static))
	}
	return sortByPublished(mergePosts(posts, filterPublished(static)))
}

// ListCategories returns remote categories in source order followed by the
// static categories whose slug the remote does not define.
func (r *Repository) ListCategories(ctx context.Context) []BlogCategory {
	static := r.staticCategories()
	if !r.remote("list categories") {
		return static
	}
	cats, err := r.src.Categories(ctx)
	if err != nil {
		r.logFailure("list categories", err)
		return static
	}
	if len(cats) == 0 {
		return static
	}
	cats = cloneCategories(cats)
	seen := make(map[string]struct{}, len(cats))
	for _, c := range cats {
		seen[c.Slug] = struct{}{}
	}
	for _, c := range static {
		if _, ok := seen[c.Slug]; !ok {
			cats = append(cats, c)
		}
	}
	return cats
}

// GetBySlug returns the published post with slug. Static posts are answered
// without querying the source. Any source failure reports the post absent.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (BlogPost, bool) {
	for _, p := range r.staticPosts() {
		if p.Slug == slug && p.IsPublished() {
			return p, true
		}
	}
	if !r.remote("get by slug") {
		return BlogPost{}, false
	}
	post, err := r.src.PostBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.logFailure("get by slug", err)
		}
		return BlogPost{}, false
	}
	if !post.IsPublished() {
		return BlogPost{}, false
	}
	return post.clone(), true
}

// ListByCategory returns the published posts in the category with
// categorySlug, merged the same way as ListPublished. A remote result with no
// rows still counts as a successful answer.
func (r *Repository) ListByCategory(ctx context.Context, categorySlug string) []BlogPost {
	var static []BlogPost
	for _, p := range r.staticPosts() {
		if p.HasCategory(categorySlug) {
			static = append(static, p)
		}
	}
	if !r.remote("list by category") {
		return sortByPublished(filterPublished(static))
	}
	posts, err := r.src.PostsByCategory(ctx, categorySlug)
	if err != nil {
		r.logFailure("list by category", err)
		return sortByPublished(filterPublished(static))
	}
	return sortByPublished(mergePosts(filterPublished(posts), filterPublished(static)))
}

// Pricing returns the vehicle categories and their options. There is no
// static pricing: a failure yields an empty Pricing.
func (r *Repository) Pricing(ctx context.Context) Pricing {
	if !r.remote("pricing") {
		return Pricing{}
	}
	vehicles, err := r.src.VehicleCategories(ctx)
	if err != nil {
		r.logFailure("pricing", err)
		return Pricing{}
	}
	options, err := r.src.PricingOptions(ctx)
	if err != nil {
		r.logFailure("pricing", err)
		return Pricing{}
	}
	return Pricing{Vehicles: vehicles, Options: options}
}

// mergePosts appends the static posts whose slug is absent from remote.
func mergePosts(remote, static []BlogPost) []BlogPost {
	seen := make(map[string]struct{}, len(remote))
	out := make([]BlogPost, 0, len(remote)+len(static))
	for _, p := range remote {
		seen[p.Slug] = struct{}{}
		out = append(out, p.clone())
	}
	for _, p := range static {
		if _, ok := seen[p.Slug]; !ok {
			out = append(out, p)
		}
	}
	return out
}

func filterPublished(posts []BlogPost) []BlogPost {
	out := make([]BlogPost, 0, len(posts))
	for _, p := range posts {
		if p.IsPublished() {
			out = append(out, p)
		}
	}
	return out
}

// sortByPublished orders posts by publication date, newest first. Posts
// without a date sort last; ties keep their input order.
func sortByPublished(posts []BlogPost) []BlogPost {
	slices.SortStableFunc(posts, func(a, b BlogPost) int {
		switch {
		case a.PublishedAt == nil && b.PublishedAt == nil:
			return 0
		case a.PublishedAt == nil:
			return 1
		case b.PublishedAt == nil:
			return -1
		}
		return b.PublishedAt.Compare(*a.PublishedAt)
	})
	return posts
}
