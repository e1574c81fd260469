package content

import (
	"regexp"
	"strings"
)

/*
	Slug / key derivation
	---------------------
	Pure functions only: the generator, the router and the editor all call
	these independently, and the same (service, city) pair must produce the
	same slug every time.
*/

var (
	whitespace = regexp.MustCompile(`\s+`)
	nonSlug    = regexp.MustCompile(`[^a-z0-9\s-]+`)
	multiDash  = regexp.MustCompile(`-+`)
)

// DeriveSlug builds the URL path segment for a service page:
// "Office Cleaning" + "Austin" -> "office-cleaning-austin".
// Mixed separators ("Move-In / Move-Out Cleaning") normalize to a single
// well-formed slug with no doubled hyphens or trailing punctuation.
func DeriveSlug(serviceName, city string) string {
	return slugify(serviceName) + "-" + slugify(city)
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "/", " ")
	s = whitespace.ReplaceAllString(s, "-")
	s = multiDash.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// DeriveContentKey is the legacy lookup key used by content documents that
// keyed service pages by name instead of carrying explicit slugs:
// "Office Cleaning" -> "office_cleaning". The doubled underscore produced
// by slash-separated names ("move-in__move-out_cleaning") is historical and
// must be preserved so stored documents keep resolving.
func DeriveContentKey(serviceName string) string {
	k := strings.ToLower(strings.TrimSpace(serviceName))
	k = whitespace.ReplaceAllString(k, "_")
	return strings.ReplaceAll(k, "/", "")
}

// CompanySlug is the subdomain-ish slug used for preview URLs:
// "Sparkle & Shine Co." -> "sparkle-shine-co".
func CompanySlug(companyName string) string {
	s := strings.ToLower(strings.TrimSpace(companyName))
	s = nonSlug.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = multiDash.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = "site"
	}
	return s
}
