package views

import (
	"bytes"
	"html/template"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/autocaravecchauffeur/autocar/markdown"
	"github.com/autocaravecchauffeur/autocar/seo"
)

var funcs = template.FuncMap{
	"markdown":    renderMarkdown,
	"readingTime": markdown.EstimateReadingTime,
	"frDate":      FormatDate,
	"price":       FormatPrice,
	"jsonld":      jsonLD,
	"navClass":    NavClass,
	"categoryURL": CategoryURL,
	"year":        func() int { return time.Now().Year() },
	"deref":       deref,
}

var frMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// FormatDate formats t the French way ("6 octobre 2025"). A nil or zero
// time formats as "".
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return strconv.Itoa(t.Day()) + " " + frMonths[t.Month()-1] + " " + strconv.Itoa(t.Year())
}

// FormatPrice formats a euro amount with a decimal comma: "890 €", "89,50 €".
func FormatPrice(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64) + " €"
	}
	return strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1) + " €"
}

// NavClass returns the CSS class of a navigation link.
func NavClass(current, target string) string {
	if target == "/" {
		if current == "/" {
			return "nav-link active"
		}
		return "nav-link"
	}
	if strings.HasPrefix(current, target) {
		return "nav-link active"
	}
	return "nav-link"
}

// CategoryURL is the blog listing filtered on a category. An empty slug
// links to the unfiltered listing.
func CategoryURL(slug string) string {
	if slug == "" {
		return "/blog/"
	}
	return "/blog/?categorie=" + url.QueryEscape(slug)
}

func renderMarkdown(s string) template.HTML {
	var buf bytes.Buffer
	markdown.WriteHTML(&buf, markdown.Render(s))
	return template.HTML(buf.String())
}

// jsonLD marks an encoded JSON-LD document as safe script content. The
// encoder escapes <, > and & so the document cannot close the script.
func jsonLD(s string) template.JS {
	if s == "" {
		return template.JS("{}")
	}
	return template.JS(s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// PageFor builds the shared page data of a request.
func PageFor(site Site, meta seo.Meta, path, csrf string) Page {
	return Page{Site: site, Meta: meta.WithDefaults(), Path: path, CSRF: csrf}
}
