package fetcher

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageTitle returns the document title: <title>, then og:title, then the
// first h1. It returns "" when none is present.
func PageTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return coalesce(
		cleanText(doc.Find("title").First().Text()),
		cleanText(doc.Find(`meta[property="og:title"]`).AttrOr("content", "")),
		cleanText(doc.Find("h1").First().Text()),
	)
}

// DetectChallengePage names the kind of interstitial a page is, or returns
// "" for ordinary content.
func DetectChallengePage(title, html string) string {
	titleLower := strings.ToLower(title)
	htmlLower := strings.ToLower(html)

	// Cloudflare challenges
	if strings.Contains(titleLower, "just a moment") ||
		strings.Contains(titleLower, "attention required") ||
		strings.Contains(htmlLower, "cf-challenge") ||
		strings.Contains(htmlLower, "cf_chl_opt") {
		return "cloudflare"
	}

	if strings.Contains(htmlLower, "challenges.cloudflare.com/turnstile") ||
		strings.Contains(htmlLower, "cf-turnstile") {
		return "cloudflare-turnstile"
	}

	if strings.Contains(htmlLower, "hcaptcha.com") ||
		strings.Contains(htmlLower, "h-captcha") {
		return "hcaptcha"
	}

	if strings.Contains(htmlLower, "google.com/recaptcha") ||
		strings.Contains(htmlLower, "g-recaptcha") {
		return "recaptcha"
	}

	if strings.Contains(titleLower, "access denied") ||
		strings.Contains(titleLower, "bot detection") ||
		strings.Contains(htmlLower, "robot or human") {
		return "anti-bot"
	}

	return ""
}

// cleanText normalizes whitespace in text.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// coalesce returns the first non-empty string.
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
