package countries

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Country is a record returned by the country service. Optional fields are nil or empty
// when the request did not ask for them.
type Country struct {
	Name       Name                `json:"name"`
	CCA3       string              `json:"cca3,omitempty"`
	Flags      Flags               `json:"flags"`
	Region     string              `json:"region"`
	Subregion  string              `json:"subregion,omitempty"`
	Capital    []string            `json:"capital,omitempty"`
	Population int64               `json:"population"`
	Languages  map[string]string   `json:"languages,omitempty"`
	Currencies map[string]Currency `json:"currencies,omitempty"`
	TLD        []string            `json:"tld,omitempty"`
	Timezones  []string            `json:"timezones,omitempty"`
	Borders    []string            `json:"borders,omitempty"`
	Maps       *Maps               `json:"maps,omitempty"`
}

// Name holds the common, official and native names of a country.
type Name struct {
	Common     string                `json:"common"`
	Official   string                `json:"official"`
	NativeName map[string]NativeName `json:"nativeName,omitempty"`
}

// NativeName is a country name in one of its own languages.
type NativeName struct {
	Official string `json:"official"`
	Common   string `json:"common"`
}

// Flags holds flag image URLs.
type Flags struct {
	PNG string `json:"png"`
	SVG string `json:"svg"`
	Alt string `json:"alt,omitempty"`
}

// Currency is a currency in use.
type Currency struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Maps holds links to external map services.
type Maps struct {
	GoogleMaps     string `json:"googleMaps"`
	OpenStreetMaps string `json:"openStreetMaps"`
}

// CapitalList returns the capitals joined for display, or "N/A".
func (c Country) CapitalList() string {
	if len(c.Capital) == 0 {
		return "N/A"
	}
	return strings.Join(c.Capital, ", ")
}

// LanguageList returns language names sorted by language code.
func (c Country) LanguageList() []string {
	return valuesByKey(c.Languages, func(name string) string { return name })
}

// CurrencyList returns currencies formatted as "Name (Symbol)", sorted by currency code.
func (c Country) CurrencyList() []string {
	return valuesByKey(c.Currencies, func(cur Currency) string {
		if cur.Symbol == "" {
			return cur.Name
		}
		return fmt.Sprintf("%s (%s)", cur.Name, cur.Symbol)
	})
}

// NativeNames returns the common native names, deduplicated, sorted by language code.
func (c Country) NativeNames() []string {
	names := valuesByKey(c.Name.NativeName, func(n NativeName) string { return n.Common })
	return lo.Uniq(names)
}

// FlagAlt returns the flag alt text, falling back to the common name.
func (c Country) FlagAlt() string {
	if c.Flags.Alt != "" {
		return c.Flags.Alt
	}
	return c.Name.Common
}

// valuesByKey maps map values in key order, which keeps rendering stable.
func valuesByKey[V any](m map[string]V, fn func(V) string) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return lo.Map(keys, func(k string, _ int) string {
		return fn(m[k])
	})
}
