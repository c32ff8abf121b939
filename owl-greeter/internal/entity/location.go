package entity

import "strings"

// Country country code as carried by geo lookups
type Country string

const (
	CountryUnknown Country = ""
	Russia         Country = "RUSSIA"
	USA            Country = "USA"
	Germany        Country = "GERMANY"
	Brazil         Country = "BRAZIL"
)

var knownCountries = map[Country]struct{}{
	Russia:  {},
	USA:     {},
	Germany: {},
	Brazil:  {},
}

// ParseCountry case-insensitive; unknown names yield CountryUnknown, false
func ParseCountry(s string) (Country, bool) {
	c := Country(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsKnown() {
		return CountryUnknown, false
	}
	return c, true
}

// IsKnown reports whether c is one of the supported countries
func (c Country) IsKnown() bool {
	_, ok := knownCountries[c]
	return ok
}

// Location result of a geo lookup. Zero values mean the field is absent.
type Location struct {
	City     string  `json:"city,omitempty"`
	Country  Country `json:"country,omitempty"`
	Street   string  `json:"street,omitempty"`
	Building int     `json:"building,omitempty"`
}

// HasCountry reports whether the lookup resolved a country
func (l *Location) HasCountry() bool {
	return l != nil && l.Country != CountryUnknown
}
