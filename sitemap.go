package autocar

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/autocaravecchauffeur/autocar/content"
	"github.com/autocaravecchauffeur/autocar/seo"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// staticPages are the sitemap entries that do not come from content.
var staticPages = []struct {
	path       string
	changeFreq string
	priority   string
}{
	{"", "weekly", "1.0"},
	{"services", "monthly", "0.9"},
	{"tarifs", "monthly", "0.9"},
	{"contact", "monthly", "0.8"},
	{"blog", "daily", "0.8"},
}

func (a *App) renderSitemap(c echo.Context, posts []content.BlogPost) error {
	base := a.Config.URL
	urls := make([]sitemapURL, 0, len(staticPages)+len(posts))
	for _, p := range staticPages {
		loc := seo.BuildURL(base)
		if p.path != "" {
			loc = seo.BuildURL(base, p.path)
		}
		urls = append(urls, sitemapURL{Loc: loc, ChangeFreq: p.changeFreq, Priority: p.priority})
	}
	for _, p := range posts {
		u := sitemapURL{
			Loc:        seo.BuildURL(base, "blog", p.Slug),
			ChangeFreq: "monthly",
			Priority:   "0.7",
		}
		if t := lastModified(p); !t.IsZero() {
			u.LastMod = t.UTC().Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
