// Package region classifies locations as "local", i.e. inside the region served by
// the regional scrapers (Nigeria).
package region

import "strings"

// localKeywords is matched case-insensitively as a substring of the location.
var localKeywords = []string{
	"nigeria", "lagos", "abuja", "kano", "ibadan", "calabar",
	"port harcourt", "benin city", "ilorin", "owerri",
	"enugu", "abeokuta", "onitsha", "warri", "sokoto",
}

// placeholders say nothing about geography.
var placeholders = []string{"remote", "anywhere", "worldwide"}

// displayNames maps a keyword to the spelling regional job boards expect.
var displayNames = []struct{ key, name string }{
	{"port harcourt", "Port Harcourt"},
	{"lagos", "Lagos"},
	{"abuja", "Abuja"},
	{"calabar", "Calabar"},
	{"kano", "Kano"},
	{"ibadan", "Ibadan"},
	{"nigeria", "Nigeria"},
}

// IsLocal reports whether location names a place in the local region.
func IsLocal(location string) bool {
	lower := strings.ToLower(location)
	if strings.TrimSpace(lower) == "" {
		return false
	}
	for _, kw := range localKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// IsPlaceholder reports whether location is empty or only says "remote"-like
// things, i.e. it names no place at all.
func IsPlaceholder(location string) bool {
	lower := strings.ToLower(strings.TrimSpace(location))
	if lower == "" {
		return true
	}
	for _, p := range placeholders {
		if lower == p {
			return true
		}
	}
	return false
}

// FormatLocal normalizes a location for regional boards: an empty location becomes
// "Nigeria", a known city is returned with its canonical spelling, anything else
// is returned unchanged.
func FormatLocal(location string) string {
	lower := strings.ToLower(strings.TrimSpace(location))
	if lower == "" {
		return "Nigeria"
	}
	for _, d := range displayNames {
		if strings.Contains(lower, d.key) {
			return d.name
		}
	}
	return location
}
