package autocar

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/autocaravecchauffeur/autocar/content"
	"github.com/autocaravecchauffeur/autocar/seo"
	"github.com/autocaravecchauffeur/autocar/views"
)

// latestOnHome is the number of posts teased on the home page.
const latestOnHome = 3

func (a *App) handleHome(c echo.Context) error {
	posts := a.Content.ListPublished(c.Request().Context())
	return Render(c, a.Views.Home(views.HomeData{
		Page:   a.page(c, seo.HomeMeta(a.Config.URL)),
		Latest: Latest(posts, latestOnHome),
	}))
}

func (a *App) handleServices(c echo.Context) error {
	return Render(c, a.Views.Services(a.page(c, seo.ServicesMeta(a.Config.URL))))
}

func (a *App) handlePricing(c echo.Context) error {
	return Render(c, a.Views.Pricing(views.PricingData{
		Page:    a.page(c, seo.PricingMeta(a.Config.URL)),
		Pricing: a.Content.Pricing(c.Request().Context()),
	}))
}

// handleBlog lists posts, optionally restricted to a category (?categorie=)
// and filtered on a search query (?q=). Posts and categories are fetched
// concurrently.
func (a *App) handleBlog(c echo.Context) error {
	category := strings.TrimSpace(c.QueryParam("categorie"))
	query := c.QueryParam("q")

	var (
		posts      []content.BlogPost
		categories []content.BlogCategory
	)
	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() error {
		if category != "" {
			posts = a.Content.ListByCategory(ctx, category)
		} else {
			posts = a.Content.ListPublished(ctx)
		}
		return nil
	})
	g.Go(func() error {
		categories = a.Content.ListCategories(ctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	return Render(c, a.Views.Blog(views.BlogData{
		Page:           a.page(c, seo.BlogMeta(a.Config.URL)),
		Posts:          FilterPosts(posts, query),
		Categories:     categories,
		ActiveCategory: category,
		Query:          query,
	}))
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	post, ok := a.Content.GetBySlug(c.Request().Context(), slug)
	if !ok {
		return a.renderNotFound(c)
	}
	if post.Author == "" {
		post.Author = a.Config.Author
	}
	return Render(c, a.Views.Post(views.PostData{
		Page: a.page(c, seo.PostMeta(post, a.Config.URL)),
		Post: post,
	}))
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c, a.Content.ListPublished(c.Request().Context()))
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, a.Content.ListPublished(c.Request().Context()))
}

func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nAllow: /\n\nSitemap: " + strings.TrimRight(a.Config.URL, "/") + "/sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

func (a *App) renderNotFound(c echo.Context) error {
	return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.page(c, seo.NotFoundMeta(a.Config.URL))))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = a.renderNotFound(c)
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		if errors.Is(err, context.Canceled) {
			return
		}
		a.Logger.Error("server error",
			zap.Error(err),
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
		)
		_ = RenderStatus(c, code, a.Views.ServerError(a.page(c, seo.ErrorMeta(a.Config.URL))))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
