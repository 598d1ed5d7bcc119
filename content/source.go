package content

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by Source.PostBySlug when no published post has
	// the requested slug.
	ErrNotFound = errors.New("content: not found")

	// ErrNotConfigured is returned by sources that have no backend to query.
	ErrNotConfigured = errors.New("content: source not configured")
)

// QueryError is a failure reported by the backend itself, as opposed to a
// transport failure reaching it.
type QueryError struct {
	Source  string
	Op      string
	Message string
	Err     error
}

func (e *QueryError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s: %s: %s", e.Source, e.Op, msg)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Source is a backend holding blog and pricing content. Listings return only
// published posts ordered by publication date descending; categories are
// ordered by name and pricing rows by display order.
type Source interface {
	Name() string
	Configured() bool
	PublishedPosts(ctx context.Context) ([]BlogPost, error)
	Categories(ctx context.Context) ([]BlogCategory, error)
	PostBySlug(ctx context.Context, slug string) (BlogPost, error)
	PostsByCategory(ctx context.Context, categorySlug string) ([]BlogPost, error)
	VehicleCategories(ctx context.Context) ([]VehicleCategory, error)
	PricingOptions(ctx context.Context) ([]PricingOption, error)
}

// NopSource is a Source with no backend. The Repository serves only the
// static dataset when it is given one.
type NopSource struct{}

func (NopSource) Name() string     { return "none" }
func (NopSource) Configured() bool { return false }

func (NopSource) PublishedPosts(context.Context) ([]BlogPost, error) {
	return nil, ErrNotConfigured
}

func (NopSource) Categories(context.Context) ([]BlogCategory, error) {
	return nil, ErrNotConfigured
}

func (NopSource) PostBySlug(context.Context, string) (BlogPost, error) {
	return BlogPost{}, ErrNotConfigured
}

func (NopSource) PostsByCategory(context.Context, string) ([]BlogPost, error) {
	return nil, ErrNotConfigured
}

func (NopSource) VehicleCategories(context.Context) ([]VehicleCategory, error) {
	return nil, ErrNotConfigured
}

func (NopSource) PricingOptions(context.Context) ([]PricingOption, error) {
	return nil, ErrNotConfigured
}
