package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// OpenDatabase opens (or creates) the SQLite database at path and ensures
// its directory exists.
func OpenDatabase(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed while the importer writes, and the busy
	// timeout makes writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	if path == ":memory:" {
		// Every connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(4)
	}
	return db, nil
}

// SQLiteSource serves content from a local SQLite database. It is the
// backend of self-hosted deployments and the target of `autocar import`.
type SQLiteSource struct {
	db *sql.DB
}

// NewSQLiteSource opens the database at path and creates the content schema.
func NewSQLiteSource(path string) (*SQLiteSource, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, err
	}
	s := &SQLiteSource{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

func (s *SQLiteSource) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS blog_categories (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    description TEXT,
    created_at TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS blog_posts (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    excerpt TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '',
    featured_image_url TEXT,
    author TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'draft',
    published_at TEXT,
    created_at TEXT NOT NULL DEFAULT '',
    updated_at TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_blog_posts_status_published ON blog_posts(status, published_at);
CREATE TABLE IF NOT EXISTS blog_post_categories (
    post_id TEXT NOT NULL,
    category_id TEXT NOT NULL,
    PRIMARY KEY (post_id, category_id)
);
CREATE TABLE IF NOT EXISTS vehicle_categories (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    capacity_min INTEGER NOT NULL DEFAULT 0,
    capacity_max INTEGER NOT NULL DEFAULT 0,
    display_order INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS pricing_options (
    id TEXT PRIMARY KEY,
    category_id TEXT NOT NULL,
    service_type TEXT NOT NULL,
    duration_type TEXT NOT NULL,
    base_price REAL NOT NULL DEFAULT 0,
    price_description TEXT,
    includes TEXT NOT NULL DEFAULT '[]',
    display_order INTEGER NOT NULL DEFAULT 0
);
`)
	return err
}

func (s *SQLiteSource) Name() string     { return "sqlite" }
func (s *SQLiteSource) Configured() bool { return s != nil && s.db != nil }

func (s *SQLiteSource) queryErr(op string, err error) error {
	return &QueryError{Source: s.Name(), Op: op, Err: err}
}

const postColumns = `p.id, p.title, p.slug, p.excerpt, p.content, p.featured_image_url,
	p.author, p.status, p.published_at, p.created_at, p.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(sc rowScanner) (postRow, error) {
	var r postRow
	var image, publishedAt sql.NullString
	if err := sc.Scan(&r.ID, &r.Title, &r.Slug, &r.Excerpt, &r.Content, &image,
		&r.Author, &r.Status, &publishedAt, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return postRow{}, err
	}
	if image.Valid {
		r.FeaturedImageURL = &image.String
	}
	if publishedAt.Valid {
		r.PublishedAt = &publishedAt.String
	}
	return r, nil
}

func scanCategory(sc rowScanner) (categoryRow, error) {
	var r categoryRow
	var desc sql.NullString
	if err := sc.Scan(&r.ID, &r.Name, &r.Slug, &desc, &r.CreatedAt); err != nil {
		return categoryRow{}, err
	}
	if desc.Valid {
		r.Description = &desc.String
	}
	return r, nil
}

// queryPosts runs a post query and attaches each post's categories.
func (s *SQLiteSource) queryPosts(ctx context.Context, op, query string, args ...any) ([]BlogPost, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.queryErr(op, err)
	}
	defer rows.Close()

	var posts []postRow
	for rows.Next() {
		r, err := scanPost(rows)
		if err != nil {
			return nil, s.queryErr(op, err)
		}
		posts = append(posts, r)
	}
	if err := rows.Err(); err != nil {
		return nil, s.queryErr(op, err)
	}
	if err := s.attachCategories(ctx, op, posts); err != nil {
		return nil, err
	}
	return postsFromRows(posts), nil
}

func (s *SQLiteSource) attachCategories(ctx context.Context, op string, posts []postRow) error {
	if len(posts) == 0 {
		return nil
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT pc.post_id, c.id, c.name, c.slug, c.description, c.created_at
FROM blog_post_categories pc
JOIN blog_categories c ON c.id = pc.category_id
ORDER BY c.name`)
	if err != nil {
		return s.queryErr(op, err)
	}
	defer rows.Close()

	byPost := make(map[string][]postCategoryRow)
	for rows.Next() {
		var postID string
		var c categoryRow
		var desc sql.NullString
		if err := rows.Scan(&postID, &c.ID, &c.Name, &c.Slug, &desc, &c.CreatedAt); err != nil {
			return s.queryErr(op, err)
		}
		if desc.Valid {
			c.Description = &desc.String
		}
		byPost[postID] = append(byPost[postID], postCategoryRow{CategoryID: c.ID, Category: &c})
	}
	if err := rows.Err(); err != nil {
		return s.queryErr(op, err)
	}
	for i := range posts {
		posts[i].PostCategories = byPost[posts[i].ID]
	}
	return nil
}

func (s *SQLiteSource) PublishedPosts(ctx context.Context) ([]BlogPost, error) {
	return s.queryPosts(ctx, "published posts",
		`SELECT `+postColumns+` FROM blog_posts p
		 WHERE p.status = 'published'
		 ORDER BY p.published_at IS NULL, p.published_at DESC`)
}

func (s *SQLiteSource) Categories(ctx context.Context) ([]BlogCategory, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, slug, description, created_at FROM blog_categories ORDER BY name`)
	if err != nil {
		return nil, s.queryErr("categories", err)
	}
	defer rows.Close()

	var out []categoryRow
	for rows.Next() {
		r, err := scanCategory(rows)
		if err != nil {
			return nil, s.queryErr("categories", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, s.queryErr("categories", err)
	}
	return categoriesFromRows(out), nil
}

func (s *SQLiteSource) PostBySlug(ctx context.Context, slug string) (BlogPost, error) {
	posts, err := s.queryPosts(ctx, "post by slug",
		`SELECT `+postColumns+` FROM blog_posts p
		 WHERE p.slug = ? AND p.status = 'published'`, slug)
	if err != nil {
		return BlogPost{}, err
	}
	if len(posts) == 0 {
		return BlogPost{}, ErrNotFound
	}
	return posts[0], nil
}

func (s *SQLiteSource) PostsByCategory(ctx context.Context, categorySlug string) ([]BlogPost, error) {
	return s.queryPosts(ctx, "posts by category",
		`SELECT `+postColumns+` FROM blog_posts p
		 JOIN blog_post_categories pc ON pc.post_id = p.id
		 JOIN blog_categories c ON c.id = pc.category_id
		 WHERE p.status = 'published' AND c.slug = ?
		 ORDER BY p.published_at IS NULL, p.published_at DESC`, categorySlug)
}

func (s *SQLiteSource) VehicleCategories(ctx context.Context) ([]VehicleCategory, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, description, capacity_min, capacity_max, display_order
FROM vehicle_categories ORDER BY display_order`)
	if err != nil {
		return nil, s.queryErr("vehicle categories", err)
	}
	defer rows.Close()

	var out []VehicleCategory
	for rows.Next() {
		var v VehicleCategory
		if err := rows.Scan(&v.ID, &v.Name, &v.Description, &v.CapacityMin, &v.CapacityMax, &v.DisplayOrder); err != nil {
			return nil, s.queryErr("vehicle categories", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, s.queryErr("vehicle categories", err)
	}
	return out, nil
}

func (s *SQLiteSource) PricingOptions(ctx context.Context) ([]PricingOption, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, category_id, service_type, duration_type, base_price, price_description, includes, display_order
FROM pricing_options ORDER BY display_order`)
	if err != nil {
		return nil, s.queryErr("pricing options", err)
	}
	defer rows.Close()

	var out []PricingOption
	for rows.Next() {
		var o PricingOption
		var desc sql.NullString
		var includes string
		if err := rows.Scan(&o.ID, &o.CategoryID, &o.ServiceType, &o.DurationType, &o.BasePrice, &desc, &includes, &o.DisplayOrder); err != nil {
			return nil, s.queryErr("pricing options", err)
		}
		if desc.Valid {
			o.PriceDescription = &desc.String
		}
		if err := json.Unmarshal([]byte(includes), &o.Includes); err != nil {
			return nil, s.queryErr("pricing options", fmt.Errorf("decode includes of %q: %w", o.ID, err))
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, s.queryErr("pricing options", err)
	}
	return out, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SaveCategory upserts a category.
func (s *SQLiteSource) SaveCategory(ctx context.Context, c BlogCategory) error {
	return saveCategory(ctx, s.db, c)
}

func saveCategory(ctx context.Context, ex execer, c BlogCategory) error {
	_, err := ex.ExecContext(ctx, `INSERT OR REPLACE INTO blog_categories (id, name, slug, description, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Slug, nullString(c.Description), formatTimestamp(c.CreatedAt))
	return err
}

// SavePost upserts a post and replaces its category associations with the
// IDs of p.Categories.
func (s *SQLiteSource) SavePost(ctx context.Context, p BlogPost) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := savePost(ctx, tx, p); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func savePost(ctx context.Context, ex execer, p BlogPost) error {
	var publishedAt any
	if p.PublishedAt != nil {
		publishedAt = formatTimestamp(*p.PublishedAt)
	}
	status := p.Status
	if status == "" {
		status = StatusDraft
	}
	if _, err := ex.ExecContext(ctx, `INSERT OR REPLACE INTO blog_posts
		(id, title, slug, excerpt, content, featured_image_url, author, status, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Slug, p.Excerpt, p.Content, nullString(p.FeaturedImageURL), p.Author,
		string(status), publishedAt, formatTimestamp(p.CreatedAt), formatTimestamp(p.UpdatedAt)); err != nil {
		return err
	}
	if _, err := ex.ExecContext(ctx, `DELETE FROM blog_post_categories WHERE post_id = ?`, p.ID); err != nil {
		return err
	}
	for _, c := range p.Categories {
		if _, err := ex.ExecContext(ctx, `INSERT OR IGNORE INTO blog_post_categories (post_id, category_id) VALUES (?, ?)`, p.ID, c.ID); err != nil {
			return err
		}
	}
	return nil
}

// SaveVehicleCategory upserts a vehicle category.
func (s *SQLiteSource) SaveVehicleCategory(ctx context.Context, v VehicleCategory) error {
	return saveVehicleCategory(ctx, s.db, v)
}

func saveVehicleCategory(ctx context.Context, ex execer, v VehicleCategory) error {
	_, err := ex.ExecContext(ctx, `INSERT OR REPLACE INTO vehicle_categories
		(id, name, description, capacity_min, capacity_max, display_order) VALUES (?, ?, ?, ?, ?, ?)`,
		v.ID, v.Name, v.Description, v.CapacityMin, v.CapacityMax, v.DisplayOrder)
	return err
}

// SavePricingOption upserts a pricing option.
func (s *SQLiteSource) SavePricingOption(ctx context.Context, o PricingOption) error {
	return savePricingOption(ctx, s.db, o)
}

func savePricingOption(ctx context.Context, ex execer, o PricingOption) error {
	includes := o.Includes
	if includes == nil {
		includes = []string{}
	}
	b, err := json.Marshal(includes)
	if err != nil {
		return err
	}
	_, err = ex.ExecContext(ctx, `INSERT OR REPLACE INTO pricing_options
		(id, category_id, service_type, duration_type, base_price, price_description, includes, display_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.CategoryID, o.ServiceType, o.DurationType, o.BasePrice, nullString(o.PriceDescription), string(b), o.DisplayOrder)
	return err
}

// ImportStats counts the records written by Import.
type ImportStats struct {
	Categories int
	Posts      int
	Vehicles   int
	Pricing    int
}

// Import writes every record of ds in a single transaction.
func (s *SQLiteSource) Import(ctx context.Context, ds Dataset) (ImportStats, error) {
	var stats ImportStats
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, err
	}
	defer tx.Rollback()

	for _, c := range ds.Categories {
		if err := saveCategory(ctx, tx, c); err != nil {
			return ImportStats{}, fmt.Errorf("category %q: %w", c.Slug, err)
		}
		stats.Categories++
	}
	for _, p := range ds.BlogPosts() {
		if err := savePost(ctx, tx, p); err != nil {
			return ImportStats{}, fmt.Errorf("post %q: %w", p.Slug, err)
		}
		stats.Posts++
	}
	for _, v := range ds.Vehicles {
		if err := saveVehicleCategory(ctx, tx, v); err != nil {
			return ImportStats{}, fmt.Errorf("vehicle category %q: %w", v.ID, err)
		}
		stats.Vehicles++
	}
	for _, o := range ds.Pricing {
		if err := savePricingOption(ctx, tx, o); err != nil {
			return ImportStats{}, fmt.Errorf("pricing option %q: %w", o.ID, err)
		}
		stats.Pricing++
	}
	if err := tx.Commit(); err != nil {
		return ImportStats{}, err
	}
	return stats, nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
