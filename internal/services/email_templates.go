package services

import (
	"fmt"
	"net/url"
)

// Language is the closed set of locales reminder emails ship
type Language int

const (
	LangEnglish Language = iota
	LangHungarian
	LangGerman
	LangSpanish
)

// ParseLanguage maps a campaign language code onto a supported Language.
// Unrecognized codes fall back to English.
func ParseLanguage(code string) Language {
	switch code {
	case "hu":
		return LangHungarian
	case "de":
		return LangGerman
	case "es":
		return LangSpanish
	default:
		return LangEnglish
	}
}

// RenderedEmail is a composed subject/body pair ready for dispatch
type RenderedEmail struct {
	Subject   string
	PlainText string
	HTML      string
}

type reminderTemplate struct {
	subject func(business string) string
	plain   func(business, reviewLink, unsubLink string) string
	html    func(business, reviewLink, unsubLink string) string
}

var reminderTemplates = map[Language]reminderTemplate{
	LangEnglish: {
		subject: func(business string) string {
			return fmt.Sprintf("How was your visit at %s?", business)
		},
		plain: func(business, reviewLink, unsubLink string) string {
			return fmt.Sprintf("Hi! Thanks again for visiting %s. Would you take a minute to share your experience? Leave a review here: %s\n\nNo more emails: %s",
				business, reviewLink, unsubLink)
		},
		html: func(business, reviewLink, unsubLink string) string {
			return fmt.Sprintf("<p>Hi!</p><p>Thanks again for visiting <strong>%s</strong>. Would you take a minute to share your experience?</p><p><a href=\"%s\">Leave a review</a></p><p style=\"font-size:12px\"><a href=\"%s\">No more emails</a></p>",
				business, reviewLink, unsubLink)
		},
	},
	LangHungarian: {
		subject: func(business string) string {
			return fmt.Sprintf("Milyen volt a látogatás itt: %s?", business)
		},
		plain: func(business, reviewLink, unsubLink string) string {
			return fmt.Sprintf("Szia! Köszönjük, hogy nálunk jártál: %s. Megosztanád a tapasztalataidat egy rövid értékelésben? Értékelés írása: %s\n\nLeiratkozás: %s",
				business, reviewLink, unsubLink)
		},
		html: func(business, reviewLink, unsubLink string) string {
			return fmt.Sprintf("<p>Szia!</p><p>Köszönjük, hogy nálunk jártál: <strong>%s</strong>. Megosztanád a tapasztalataidat egy rövid értékelésben?</p><p><a href=\"%s\">Értékelés írása</a></p><p style=\"font-size:12px\"><a href=\"%s\">Leiratkozás</a></p>",
				business, reviewLink, unsubLink)
		},
	},
	LangGerman: {
		subject: func(business string) string {
			return fmt.Sprintf("Wie war Ihr Besuch bei %s?", business)
		},
		plain: func(business, reviewLink, unsubLink string) string {
			return fmt.Sprintf("Hallo! Danke für Ihren Besuch bei %s. Würden Sie sich eine Minute Zeit nehmen, um Ihre Erfahrung zu teilen? Bewertung schreiben: %s\n\nAbmelden: %s",
				business, reviewLink, unsubLink)
		},
		html: func(business, reviewLink, unsubLink string) string {
			return fmt.Sprintf("<p>Hallo!</p><p>Danke für Ihren Besuch bei <strong>%s</strong>. Würden Sie sich eine Minute Zeit nehmen, um Ihre Erfahrung zu teilen?</p><p><a href=\"%s\">Bewertung schreiben</a></p><p style=\"font-size:12px\"><a href=\"%s\">Abmelden</a></p>",
				business, reviewLink, unsubLink)
		},
	},
	LangSpanish: {
		subject: func(business string) string {
			return fmt.Sprintf("¿Qué tal tu visita a %s?", business)
		},
		plain: func(business, reviewLink, unsubLink string) string {
			return fmt.Sprintf("¡Hola! Gracias por visitar %s. ¿Te tomarías un minuto para compartir tu experiencia? Deja una reseña aquí: %s\n\nNo recibir más correos: %s",
				business, reviewLink, unsubLink)
		},
		html: func(business, reviewLink, unsubLink string) string {
			return fmt.Sprintf("<p>¡Hola!</p><p>Gracias por visitar <strong>%s</strong>. ¿Te tomarías un minuto para compartir tu experiencia?</p><p><a href=\"%s\">Deja una reseña</a></p><p style=\"font-size:12px\"><a href=\"%s\">No recibir más correos</a></p>",
				business, reviewLink, unsubLink)
		},
	},
}

// RenderReviewReminder builds the localized reminder email for a business
func RenderReviewReminder(lang Language, businessName, reviewLink, unsubLink string) RenderedEmail {
	tmpl, ok := reminderTemplates[lang]
	if !ok {
		tmpl = reminderTemplates[LangEnglish]
	}
	return RenderedEmail{
		Subject:   tmpl.subject(businessName),
		PlainText: tmpl.plain(businessName, reviewLink, unsubLink),
		HTML:      tmpl.html(businessName, reviewLink, unsubLink),
	}
}

// TrackedReviewLink appends attribution parameters to a business review link
// so a click can be tied back to the reminder that produced it
func TrackedReviewLink(reviewLink, reminderID string) (string, error) {
	parsed, err := url.Parse(reviewLink)
	if err != nil {
		return "", fmt.Errorf("invalid review link %q: %w", reviewLink, err)
	}
	query := parsed.Query()
	query.Set("utm_source", "reviewloop")
	query.Set("utm_medium", "email")
	query.Set("rid", reminderID)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
