package autocar

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/autocaravecchauffeur/autocar/seo"
	"github.com/autocaravecchauffeur/autocar/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

func (a *App) site() views.Site {
	return views.Site{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Phone:       a.Config.Phone,
		Email:       a.Config.Email,
		WhatsApp:    a.Config.WhatsApp,
	}
}

// page returns the data shared by every page of the current request.
func (a *App) page(c echo.Context, meta seo.Meta) views.Page {
	return views.PageFor(a.site(), meta, c.Request().URL.Path, CsrfToken(c))
}
