package api

import (
	"time"

	"github.com/mtlprog/earth/internal/carousel"
	"github.com/mtlprog/earth/internal/countries"
	"github.com/shopspring/decimal"
)

// CountriesResponse is one carousel page of countries.
type CountriesResponse struct {
	Data     []countries.Country `json:"data"`
	Carousel carousel.State      `json:"carousel"`
}

// RegionResponse describes a region card.
type RegionResponse struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// RegionCountry is a country with its share of the regional population.
type RegionCountry struct {
	countries.Country
	PopulationShare decimal.Decimal `json:"population_share" swaggertype:"string"`
}

// RegionPageResponse is one carousel page of a region's countries.
type RegionPageResponse struct {
	Region   RegionResponse  `json:"region"`
	Data     []RegionCountry `json:"data"`
	Carousel carousel.State  `json:"carousel"`
}

// LoginRequest is the body of POST /api/v1/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// FeedbackRequest is the body of POST /api/v1/feedback.
type FeedbackRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// FeedbackResponse acknowledges a submission.
type FeedbackResponse struct {
	ClearFields bool `json:"clear_fields"`
}

// FeedbackEntryResponse is a stored submission.
type FeedbackEntryResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error  string   `json:"error"`
	Code   int      `json:"code"`
	Fields []string `json:"fields,omitempty"`
}
