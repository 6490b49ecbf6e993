package handler

import (
	"context"
	"io"

	"github.com/mtlprog/earth/internal/countries"
	"github.com/mtlprog/earth/internal/query"
	"github.com/mtlprog/earth/internal/session"
)

// CountryQuerier reads country data through the shared cache.
type CountryQuerier interface {
	All(ctx context.Context) ([]countries.Country, error)
	ByName(ctx context.Context, name string) (countries.Country, error)
	ByRegion(ctx context.Context, region string) ([]countries.Country, error)
	Entry(key string) query.Entry[[]countries.Country]
}

// TemplateRenderer renders named page templates.
type TemplateRenderer interface {
	Render(w io.Writer, name string, data any) error
}

// TokenVerifier checks a session token.
type TokenVerifier interface {
	Parse(token string) (*session.Claims, error)
}
