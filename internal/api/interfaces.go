package api

import (
	"context"

	"github.com/mtlprog/earth/internal/countries"
	"github.com/mtlprog/earth/internal/feedback"
	"github.com/mtlprog/earth/internal/query"
	"github.com/mtlprog/earth/internal/session"
)

// countryQuerier defines the country data access needed by the API.
type countryQuerier interface {
	All(ctx context.Context) ([]countries.Country, error)
	ByName(ctx context.Context, name string) (countries.Country, error)
	ByRegion(ctx context.Context, region string) ([]countries.Country, error)
	Snapshot() []query.Summary
	Invalidate(key string)
}

// feedbackLister reads stored feedback submissions.
type feedbackLister interface {
	Recent(ctx context.Context, limit int) ([]feedback.Entry, error)
}

// tokenVerifier checks bearer tokens issued by POST /api/v1/login.
type tokenVerifier interface {
	Parse(token string) (*session.Claims, error)
}
