package services

import (
	"net/url"
	"strings"
	"testing"
)

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		code string
		want Language
	}{
		{"en", LangEnglish},
		{"hu", LangHungarian},
		{"de", LangGerman},
		{"es", LangSpanish},
		{"", LangEnglish},
		{"fr", LangEnglish},
		{"EN", LangEnglish},
	}
	for _, tt := range tests {
		if got := ParseLanguage(tt.code); got != tt.want {
			t.Errorf("ParseLanguage(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestRenderReviewReminderAllLanguages(t *testing.T) {
	const (
		business   = "Corner Cafe"
		reviewLink = "https://example.com/review?rid=abc"
		unsubLink  = "https://example.com/unsubscribe?token=xyz"
	)

	for _, lang := range []Language{LangEnglish, LangHungarian, LangGerman, LangSpanish} {
		email := RenderReviewReminder(lang, business, reviewLink, unsubLink)
		if email.Subject == "" {
			t.Errorf("lang %v: empty subject", lang)
		}
		if !strings.Contains(email.Subject, business) {
			t.Errorf("lang %v: subject %q does not name the business", lang, email.Subject)
		}
		for _, body := range []string{email.PlainText, email.HTML} {
			if !strings.Contains(body, reviewLink) {
				t.Errorf("lang %v: body missing review link", lang)
			}
			if !strings.Contains(body, unsubLink) {
				t.Errorf("lang %v: body missing unsubscribe link", lang)
			}
		}
	}
}

func TestRenderReviewReminderLocalizedGreeting(t *testing.T) {
	hu := RenderReviewReminder(LangHungarian, "Biz", "https://r", "https://u")
	if !strings.Contains(hu.PlainText, "Szia") {
		t.Errorf("Hungarian body not localized: %q", hu.PlainText)
	}
	de := RenderReviewReminder(LangGerman, "Biz", "https://r", "https://u")
	if !strings.Contains(de.PlainText, "Hallo") {
		t.Errorf("German body not localized: %q", de.PlainText)
	}
}

func TestTrackedReviewLink(t *testing.T) {
	link, err := TrackedReviewLink("https://search.google.com/local/writereview?placeid=abc123", "rem-42")
	if err != nil {
		t.Fatalf("TrackedReviewLink: %v", err)
	}

	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("result is not a valid URL: %v", err)
	}
	query := parsed.Query()
	if query.Get("placeid") != "abc123" {
		t.Error("original query parameter dropped")
	}
	if query.Get("utm_source") != "reviewloop" {
		t.Errorf("utm_source = %q", query.Get("utm_source"))
	}
	if query.Get("utm_medium") != "email" {
		t.Errorf("utm_medium = %q", query.Get("utm_medium"))
	}
	if query.Get("rid") != "rem-42" {
		t.Errorf("rid = %q", query.Get("rid"))
	}
}

func TestTrackedReviewLinkRejectsGarbage(t *testing.T) {
	if _, err := TrackedReviewLink("http://[::1]:namedport", "rem-1"); err == nil {
		t.Error("expected error for unparseable link")
	}
}
