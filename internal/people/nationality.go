package people

import "strings"

var countryCodes = map[string]string{
	"united states":            "US",
	"usa":                      "US",
	"united states of america": "US",
	"united kingdom":           "GB",
	"uk":                       "GB",
	"england":                  "GB",
	"scotland":                 "GB",
	"wales":                    "GB",
	"canada":                   "CA",
	"australia":                "AU",
	"france":                   "FR",
	"germany":                  "DE",
	"italy":                    "IT",
	"spain":                    "ES",
	"japan":                    "JP",
	"china":                    "CN",
	"india":                    "IN",
	"brazil":                   "BR",
	"mexico":                   "MX",
	"russia":                   "RU",
	"ireland":                  "IE",
	"new zealand":              "NZ",
	"sweden":                   "SE",
	"norway":                   "NO",
	"denmark":                  "DK",
	"finland":                  "FI",
	"netherlands":              "NL",
	"belgium":                  "BE",
	"switzerland":              "CH",
	"austria":                  "AT",
	"portugal":                 "PT",
	"greece":                   "GR",
	"south africa":             "ZA",
}

// Nationality returns the country part of a TMDB place of birth,
// e.g. "Beirut, Lebanon" -> "Lebanon".
func Nationality(placeOfBirth string) string {
	parts := strings.Split(placeOfBirth, ",")
	return strings.TrimSpace(parts[len(parts)-1])
}

// CountryCode maps a country name to its ISO 3166 alpha-2 code.
func CountryCode(country string) (string, bool) {
	code, ok := countryCodes[strings.ToLower(strings.TrimSpace(country))]
	return code, ok
}
