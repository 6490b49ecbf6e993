package countries

import (
	"net/url"
	"strings"
)

const (
	summaryFields = "name,population,region,capital,flags"
	detailFields  = "name,population,region,subregion,capital,tld,currencies,languages,borders,flags"
)

// Request describes one read call against the country service.
type Request struct {
	Endpoint string // short name used for logs and metrics
	Path     string // path below the base URL, already escaped
	Query    url.Values
}

// AllRequest lists every country with the summary fields used by listing pages.
func AllRequest() Request {
	return Request{
		Endpoint: "all",
		Path:     "/all",
		Query:    url.Values{"fields": {summaryFields}},
	}
}

// NameRequest looks up one country by exact common or official name.
func NameRequest(name string) Request {
	return Request{
		Endpoint: "name",
		Path:     "/name/" + url.PathEscape(strings.TrimSpace(name)),
		Query: url.Values{
			"fullText": {"true"},
			"fields":   {detailFields},
		},
	}
}

// RegionRequest lists the countries of one region.
func RegionRequest(region string) Request {
	return Request{
		Endpoint: "region",
		Path:     "/region/" + url.PathEscape(strings.ToLower(strings.TrimSpace(region))),
	}
}

// URL resolves the request against baseURL.
func (r Request) URL(baseURL string) string {
	u := strings.TrimRight(baseURL, "/") + r.Path
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}
	return u
}
