// Package views holds the site pages. Pages are html/template files embedded
// in the binary and exposed as templ components so handlers render them the
// same way as any other component.
package views

import (
	"embed"
	"html/template"

	"github.com/a-h/templ"

	"github.com/autocaravecchauffeur/autocar/content"
	"github.com/autocaravecchauffeur/autocar/seo"
)

//go:embed templates/*.html
var templateFS embed.FS

// Site holds site-wide settings every page needs.
type Site struct {
	Name        string
	URL         string
	Description string
	Phone       string
	Email       string
	WhatsApp    string // international number without "+", used for wa.me links
}

// Page is the data shared by every page: the layout reads it for <head>,
// navigation and forms.
type Page struct {
	Site Site
	Meta seo.Meta
	Path string // request path, used to mark the active nav entry
	CSRF string
}

// HomeData is the home page.
type HomeData struct {
	Page
	Latest []content.BlogPost
}

// PricingData is the pricing page.
type PricingData struct {
	Page
	Pricing content.Pricing
}

// ContactForm is a contact submission as typed by the visitor.
type ContactForm struct {
	Name    string `form:"name" validate:"required,max=100"`
	Email   string `form:"email" validate:"required,email"`
	Subject string `form:"subject" validate:"max=200"`
	Message string `form:"message" validate:"required,max=5000"`
}

// ContactData is the contact page. Errors maps a field name to its message.
type ContactData struct {
	Page
	Form   ContactForm
	Errors map[string]string
	Flash  string
}

// BlogData is the blog listing.
type BlogData struct {
	Page
	Posts          []content.BlogPost
	Categories     []content.BlogCategory
	ActiveCategory string
	Query          string
}

// PostData is a single post.
type PostData struct {
	Page
	Post content.BlogPost
}

var pages = parsePages("home", "services", "pricing", "contact", "blog", "post", "notfound", "error")

// parsePages builds one template set per page: the shared layout plus the
// page file, which defines "content".
func parsePages(names ...string) map[string]*template.Template {
	base := template.Must(template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html"))
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t := template.Must(base.Clone())
		out[name] = template.Must(t.ParseFS(templateFS, "templates/"+name+".html"))
	}
	return out
}

// Home renders the home page.
func Home(d HomeData) templ.Component { return templ.FromGoHTML(pages["home"], d) }

// Services renders the services page.
func Services(d Page) templ.Component { return templ.FromGoHTML(pages["services"], d) }

// Pricing renders the vehicle and price list.
func Pricing(d PricingData) templ.Component { return templ.FromGoHTML(pages["pricing"], d) }

// Contact renders the contact form.
func Contact(d ContactData) templ.Component { return templ.FromGoHTML(pages["contact"], d) }

// Blog renders the post listing.
func Blog(d BlogData) templ.Component { return templ.FromGoHTML(pages["blog"], d) }

// Post renders a single post.
func Post(d PostData) templ.Component { return templ.FromGoHTML(pages["post"], d) }

// NotFound renders the missing page notice.
func NotFound(d Page) templ.Component { return templ.FromGoHTML(pages["notfound"], d) }

// ServerError renders the generic error page.
func ServerError(d Page) templ.Component { return templ.FromGoHTML(pages["error"], d) }
