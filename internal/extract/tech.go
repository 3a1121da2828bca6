package extract

import "regexp"

// Signature is one known third-party technology fingerprint.
type Signature struct {
	Name    string
	Pattern *regexp.Regexp
}

// signatures is the fixed table of recognized technologies and trackers.
// Absence of a match is a negative feature, not an error.
var signatures = []Signature{
	{"React", regexp.MustCompile(`(?i)react`)},
	{"Vue", regexp.MustCompile(`(?i)vue\.js|vuejs`)},
	{"Angular", regexp.MustCompile(`(?i)angular`)},
	{"jQuery", regexp.MustCompile(`(?i)jquery`)},
	{"WordPress", regexp.MustCompile(`(?i)wp-content|wordpress`)},
	{"Shopify", regexp.MustCompile(`(?i)shopify`)},
	{"Google Analytics", regexp.MustCompile(`(?i)google-analytics|gtag|ga\(`)},
	{"HubSpot", regexp.MustCompile(`(?i)hubspot`)},
	{"Mailchimp", regexp.MustCompile(`(?i)mailchimp`)},
	{"Stripe", regexp.MustCompile(`(?i)stripe`)},
}

// DetectTechnologies matches the signature table against raw page HTML.
func DetectTechnologies(html string) []string {
	var found []string
	for _, sig := range signatures {
		if sig.Pattern.MatchString(html) {
			found = append(found, sig.Name)
		}
	}
	return found
}

// KnownSignatures exposes the signature table for per-signature tests.
func KnownSignatures() []Signature {
	return signatures
}
