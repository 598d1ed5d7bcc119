package seo

import (
	"encoding/json"
	"time"

	"github.com/autocaravecchauffeur/autocar/content"
)

func encode(data map[string]interface{}) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

var organization = map[string]string{
	"@type": "Organization",
	"name":  SiteName,
}

var postalAddress = map[string]string{
	"@type":           "PostalAddress",
	"addressLocality": "Bruxelles",
	"addressCountry":  "BE",
}

var belgium = map[string]string{
	"@type": "Country",
	"name":  "Belgium",
}

func service(name, description string) map[string]string {
	return map[string]string{
		"@type":       "Service",
		"name":        name,
		"description": description,
	}
}

// ArticleJSONLD returns a Schema.org Article for a post. The image and
// publication date are omitted when the post has none.
func ArticleJSONLD(p content.BlogPost) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "Article",
		"headline":    p.Title,
		"description": p.Excerpt,
		"author": map[string]string{
			"@type": "Organization",
			"name":  p.Author,
		},
		"publisher": organization,
	}
	if p.FeaturedImageURL != nil {
		data["image"] = *p.FeaturedImageURL
	}
	if p.PublishedAt != nil {
		data["datePublished"] = p.PublishedAt.UTC().Format(time.RFC3339)
	}
	return encode(data)
}

// TransportationServiceJSONLD describes the company on the home page.
func TransportationServiceJSONLD(siteURL string) string {
	return encode(map[string]interface{}{
		"@context":     "https://schema.org",
		"@type":        "TransportationService",
		"name":         SiteName,
		"description":  "Location d'autocar et minibus avec chauffeur à Bruxelles pour transport de groupe",
		"url":          siteURL,
		"logo":         LogoURL,
		"image":        DefaultOGImage,
		"areaServed":   belgium,
		"address":      postalAddress,
		"priceRange":   "€€",
		"openingHours": "Mo-Su 00:00-23:59",
		"availableService": []map[string]string{
			service("Location d'autocar avec chauffeur", "Transport de groupe de 2 à 63 passagers"),
			service("Transfert aéroport", "Service de transfert depuis et vers les aéroports belges"),
			service("Excursions touristiques", "Organisation d'excursions en Belgique et en Europe"),
		},
	})
}

// ServiceJSONLD describes the offer catalog of the services page.
func ServiceJSONLD() string {
	offer := func(name, description string) map[string]interface{} {
		return map[string]interface{}{
			"@type":       "Offer",
			"itemOffered": service(name, description),
		}
	}
	return encode(map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "Service",
		"serviceType": "Location d'autocar avec chauffeur",
		"provider": map[string]string{
			"@type": "TransportationService",
			"name":  SiteName,
		},
		"areaServed": belgium,
		"hasOfferCatalog": map[string]interface{}{
			"@type": "OfferCatalog",
			"name":  "Services de transport",
			"itemListElement": []map[string]interface{}{
				offer("Excursions en autocar", "Transport de groupe pour excursions en Belgique et en Europe"),
				offer("Transfert aéroport", "Service de transfert depuis aéroports et gares"),
				offer("Événements privés", "Transport pour mariages, anniversaires et célébrations"),
			},
		},
	})
}

// PriceSpecificationJSONLD describes the pricing page.
func PriceSpecificationJSONLD() string {
	return encode(map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "PriceSpecification",
		"description":   "Tarifs de location d'autocar et minibus avec chauffeur",
		"priceCurrency": "EUR",
		"provider": map[string]string{
			"@type": "TransportationService",
			"name":  SiteName,
		},
	})
}

// ContactPageJSONLD describes the contact page.
func ContactPageJSONLD() string {
	languages := []string{"French", "Dutch", "English"}
	return encode(map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "ContactPage",
		"mainEntity": map[string]interface{}{
			"@type":             "TransportationService",
			"name":              SiteName,
			"address":           postalAddress,
			"availableLanguage": languages,
			"contactPoint": map[string]interface{}{
				"@type":             "ContactPoint",
				"contactType":       "Customer Service",
				"availableLanguage": languages,
				"hoursAvailable":    "Mo-Su 00:00-23:59",
			},
		},
	})
}

// BlogJSONLD describes the blog listing.
func BlogJSONLD(siteURL string) string {
	return encode(map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "Blog",
		"name":        "Blog " + SiteName,
		"description": "Actualités, conseils et guides sur le transport de groupe en autocar",
		"url":         BuildURL(siteURL, "blog"),
		"publisher": map[string]interface{}{
			"@type": "Organization",
			"name":  SiteName,
			"logo": map[string]string{
				"@type": "ImageObject",
				"url":   LogoURL,
			},
		},
	})
}
