package autocar

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/autocaravecchauffeur/autocar/seo"
	"github.com/autocaravecchauffeur/autocar/views"
)

const (
	flashSent    = "Merci ! Votre message a bien été envoyé. Nous vous répondons sous 48h."
	flashLimited = "Vous avez envoyé trop de messages. Merci de réessayer plus tard ou de nous appeler."
)

func (a *App) handleContact(c echo.Context) error {
	return Render(c, a.Views.Contact(views.ContactData{
		Page:  a.page(c, seo.ContactMeta(a.Config.URL)),
		Flash: popFlash(c),
	}))
}

// handleContactSubmit stores a quote request and redirects back to the form.
// Honeypot submissions are acknowledged but dropped.
func (a *App) handleContactSubmit(c echo.Context) error {
	logger := a.Logger.Named("contact")
	ip := c.RealIP()

	if strings.TrimSpace(c.FormValue("bot-field")) != "" {
		logger.Info("honeypot submission dropped", zap.String("ip", ip))
		return a.redirectContact(c, flashSent)
	}

	var form views.ContactForm
	if err := c.Bind(&form); err != nil {
		return err
	}
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Subject = strings.TrimSpace(form.Subject)
	form.Message = strings.TrimSpace(form.Message)

	if err := c.Validate(&form); err != nil {
		errs := fieldErrors(err, contactMessages)
		if errs == nil {
			return err
		}
		return RenderStatus(c, http.StatusUnprocessableEntity, a.Views.Contact(views.ContactData{
			Page:   a.page(c, seo.ContactMeta(a.Config.URL)),
			Form:   form,
			Errors: errs,
		}))
	}

	if !a.contactLimiter.Allow(ip) {
		logger.Warn("contact rate limit exceeded", zap.String("ip", ip))
		return RenderStatus(c, http.StatusTooManyRequests, a.Views.Contact(views.ContactData{
			Page:  a.page(c, seo.ContactMeta(a.Config.URL)),
			Form:  form,
			Flash: flashLimited,
		}))
	}

	msg, err := a.Inbox.Save(c.Request().Context(), ContactMessage{
		Name:    form.Name,
		Email:   form.Email,
		Subject: form.Subject,
		Message: form.Message,
		IP:      ip,
	})
	if err != nil {
		return err
	}
	logger.Info("contact message stored", zap.String("id", msg.ID))
	return a.redirectContact(c, flashSent)
}

// redirectContact completes a submission with Post/Redirect/Get.
func (a *App) redirectContact(c echo.Context, flash string) error {
	if err := setFlash(c, flash); err != nil {
		a.Logger.Warn("flash not saved", zap.Error(err))
	}
	return c.Redirect(http.StatusSeeOther, "/contact/")
}

var contactMessages = map[string]string{
	"name.required":    "Veuillez indiquer votre nom.",
	"name.max":         "Le nom est trop long.",
	"email.required":   "Veuillez indiquer votre adresse email.",
	"email.email":      "Adresse email invalide.",
	"subject.max":      "Le sujet est trop long.",
	"message.required": "Veuillez écrire votre message.",
	"message.max":      "Le message est trop long.",
}

// ValidateContact returns the field errors of a submission, keyed by form
// field name. An empty map means the form is valid.
func ValidateContact(f views.ContactForm) map[string]string {
	errs := fieldErrors(forms.Validate(&f), contactMessages)
	if errs == nil {
		errs = map[string]string{}
	}
	return errs
}
