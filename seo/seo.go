// Package seo builds the per-page metadata injected into <head>: title,
// description, OpenGraph and Twitter tags, canonical URL and JSON-LD.
package seo

import (
	"net/url"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/autocaravecchauffeur/autocar/content"
)

const (
	SiteName        = "Autocaravecchauffeur"
	Locale          = "fr_BE"
	DefaultOGImage  = "https://ik.imagekit.io/by733ltn6/FAVICONS/favicon_io%20(8)/AZ.png?updatedAt=1759667457479"
	LogoURL         = "https://ik.imagekit.io/by733ltn6/FAVICONS/favicon_io%20(8)/apple-touch-icon.png?updatedAt=1759666614409"
	DefaultKeywords = "location autocar bruxelles, autocar bruxelles, minibus bruxelles, autocar avec chauffeur bruxelles, excursion bruxelles, transport groupe bruxelles, devis autocar bruxelles, transfert aéroport bruxelles"
	Robots          = "index, follow, max-image-preview:large, max-snippet:-1, max-video-preview:-1"

	postTitleSuffix = " | Autocar Bruxelles"
	maxPostTitle    = 42
	maxTitle        = 60
	maxDescription  = 155
)

// Meta is the metadata of one page. JSONLD holds an encoded JSON-LD document
// or is empty.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	OGType      string // "website" or "article"
	OGImage     string
	Keywords    string
	JSONLD      string
}

// Tag is one <meta> element. Attr is "name" or "property".
type Tag struct {
	Attr    string
	Key     string
	Content string
}

// WithDefaults fills the optional fields with the site-wide values.
func (m Meta) WithDefaults() Meta {
	if m.OGType == "" {
		m.OGType = "website"
	}
	if m.OGImage == "" {
		m.OGImage = DefaultOGImage
	}
	if m.Keywords == "" {
		m.Keywords = DefaultKeywords
	}
	return m
}

// Tags returns the <meta> elements for m, in document order.
func (m Meta) Tags() []Tag {
	m = m.WithDefaults()
	return []Tag{
		{"name", "description", m.Description},
		{"name", "keywords", m.Keywords},
		{"property", "og:title", m.Title},
		{"property", "og:description", m.Description},
		{"property", "og:type", m.OGType},
		{"property", "og:url", m.Canonical},
		{"property", "og:image", m.OGImage},
		{"property", "og:site_name", SiteName},
		{"property", "og:locale", Locale},
		{"name", "twitter:card", "summary_large_image"},
		{"name", "twitter:title", m.Title},
		{"name", "twitter:description", m.Description},
		{"name", "twitter:image", m.OGImage},
		{"name", "robots", Robots},
		{"name", "googlebot", "index, follow"},
		{"name", "author", SiteName},
		{"name", "language", "French"},
	}
}

// Truncate shortens s to at most max runes, replacing the tail with "…".
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	keep := max - 3
	if keep < 0 {
		keep = 0
	}
	runes := []rune(s)
	return string(runes[:keep]) + "…"
}

// PostTitle is the <title> of a post page.
func PostTitle(title string) string {
	return Truncate(Truncate(title, maxPostTitle)+postTitleSuffix, maxTitle)
}

// Description caps a page description at the length search engines show.
func Description(s string) string {
	return Truncate(s, maxDescription)
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PostMeta returns the metadata of a post page.
func PostMeta(p content.BlogPost, siteURL string) Meta {
	m := Meta{
		Title:       PostTitle(p.Title),
		Description: Description(p.Excerpt),
		Canonical:   BuildURL(siteURL, "blog", p.Slug),
		OGType:      "article",
		JSONLD:      ArticleJSONLD(p),
	}
	if p.FeaturedImageURL != nil {
		m.OGImage = *p.FeaturedImageURL
	}
	return m.WithDefaults()
}

// HomeMeta returns the metadata of the home page.
func HomeMeta(siteURL string) Meta {
	return Meta{
		Title:       "Autocaravecchauffeur - Location Autocar avec Chauffeur à Bruxelles | Transport Groupe",
		Description: "Location d'autocar et minibus avec chauffeur à Bruxelles. Flotte moderne de 16 véhicules (2-63 passagers). Transport groupe, excursions, transferts aéroport. Devis gratuit 7j/7.",
		Canonical:   BuildURL(siteURL),
		JSONLD:      TransportationServiceJSONLD(siteURL),
	}.WithDefaults()
}

// ServicesMeta returns the metadata of the services page.
func ServicesMeta(siteURL string) Meta {
	return Meta{
		Title:       "Nos Services - Transport Groupe & Excursions en Autocar | Autocaravecchauffeur",
		Description: "Services de location d'autocar et minibus avec chauffeur : excursions Belgique-Europe, transferts aéroport, événements privés, voyages scolaires. Équipements WiFi, TV. Devis 48h.",
		Canonical:   BuildURL(siteURL, "services"),
		JSONLD:      ServiceJSONLD(),
	}.WithDefaults()
}

// PricingMeta returns the metadata of the pricing page.
func PricingMeta(siteURL string) Meta {
	return Meta{
		Title:       "Tarifs Autocar Bruxelles | Devis Gratuit Minibus & Autocar",
		Description: "Prix location autocar et minibus avec chauffeur à Bruxelles. 2 à 63 places. Devis personnalisé gratuit sous 48h. Réservation simple.",
		Canonical:   BuildURL(siteURL, "tarifs"),
		JSONLD:      PriceSpecificationJSONLD(),
	}.WithDefaults()
}

// ContactMeta returns the metadata of the contact page.
func ContactMeta(siteURL string) Meta {
	return Meta{
		Title:       "Devis Autocar Bruxelles | Contact Location Minibus Chauffeur",
		Description: "Demandez votre devis gratuit d'autocar ou minibus avec chauffeur à Bruxelles. Équipe disponible 7j/7. Réponse sous 48h.",
		Canonical:   BuildURL(siteURL, "contact"),
		JSONLD:      ContactPageJSONLD(),
	}.WithDefaults()
}

// BlogMeta returns the metadata of the blog listing.
func BlogMeta(siteURL string) Meta {
	return Meta{
		Title:       "Blog Transport Groupe & Autocar - Actualités & Conseils | Autocaravecchauffeur",
		Description: "Découvrez nos articles sur le transport de groupe, excursions en autocar, conseils de voyage et actualités du secteur. Guide complet pour organiser vos déplacements en Belgique.",
		Canonical:   BuildURL(siteURL, "blog"),
		JSONLD:      BlogJSONLD(siteURL),
	}.WithDefaults()
}

// NotFoundMeta returns the metadata of error pages.
func NotFoundMeta(siteURL string) Meta {
	return Meta{
		Title:       "Page non trouvée | Autocaravecchauffeur",
		Description: "La page que vous recherchez n'existe pas ou n'est plus disponible.",
		Canonical:   BuildURL(siteURL),
	}.WithDefaults()
}

// ErrorMeta returns the metadata of the server error page.
func ErrorMeta(siteURL string) Meta {
	return Meta{
		Title:       "Erreur | Autocaravecchauffeur",
		Description: "Une erreur est survenue. Veuillez réessayer dans quelques instants.",
		Canonical:   BuildURL(siteURL),
	}.WithDefaults()
}
