package api

import (
	"log/slog"
	"net/http"

	"github.com/mtlprog/earth/internal/carousel"
	"github.com/mtlprog/earth/internal/catalog"
	"github.com/mtlprog/earth/internal/countries"
	"github.com/mtlprog/earth/internal/service"
	"github.com/samber/lo"
)

// ListCountries handles GET /api/v1/countries.
//
//	@Summary		List countries
//	@Description	Returns one carousel page of all countries. Page size follows the viewport width breakpoints.
//	@Tags			countries
//	@Produce		json
//	@Param			page	query		int		false	"Zero-based page"	default(0)
//	@Param			width	query		int		false	"Viewport width in pixels; 0 selects the widest layout"
//	@Param			policy	query		string	false	"Navigation policy"	Enums(wrap, clamp)
//	@Success		200		{object}	CountriesResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/countries [get]
func (h *Handler) ListCountries(w http.ResponseWriter, r *http.Request) {
	policy := h.countriesPolicy
	if s := r.URL.Query().Get("policy"); s != "" {
		p, err := carousel.ParsePolicy(s)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		policy = p
	}

	list, err := h.countries.All(r.Context())
	if err != nil {
		slog.Error("api: failed to fetch countries", "error", err)
		h.writeAppError(w, err)
		return
	}

	c := carousel.New(list, h.breakpoints.ItemsPerPage(parseIntParam(r, "width", 0, 0)), policy)
	c.GoTo(parseIntParam(r, "page", 0, 0))
	h.writeJSON(w, http.StatusOK, CountriesResponse{
		Data:     c.VisibleSlice(),
		Carousel: c.State(),
	})
}

// GetCountry handles GET /api/v1/countries/{name}.
//
//	@Summary		Get country details
//	@Description	Returns the detail record of a country by its full common or official name
//	@Tags			countries
//	@Produce		json
//	@Param			name	path		string	true	"Country name"
//	@Success		200		{object}	countries.Country
//	@Failure		404		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/countries/{name} [get]
func (h *Handler) GetCountry(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	country, err := h.countries.ByName(r.Context(), name)
	if err != nil {
		slog.Warn("api: failed to fetch country", "name", name, "error", err)
		h.writeAppError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, country)
}

// ListRegions handles GET /api/v1/regions.
//
//	@Summary		List regions
//	@Tags			regions
//	@Produce		json
//	@Success		200	{array}	RegionResponse
//	@Failure		401		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/regions [get]
func (h *Handler) ListRegions(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, lo.Map(h.catalog.Regions, func(region catalog.Region, _ int) RegionResponse {
		return toRegionResponse(region)
	}))
}

// GetRegion handles GET /api/v1/regions/{region}.
//
//	@Summary		List countries of a region
//	@Description	Returns one carousel page of a region's countries with each country's share of the regional population
//	@Tags			regions
//	@Produce		json
//	@Param			region	path		string	true	"Region slug"
//	@Param			page	query		int		false	"Zero-based page"	default(0)
//	@Param			width	query		int		false	"Viewport width in pixels"
//	@Success		200		{object}	RegionPageResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/regions/{region} [get]
func (h *Handler) GetRegion(w http.ResponseWriter, r *http.Request) {
	region, ok := h.catalog.Region(r.PathValue("region"))
	if !ok {
		h.writeError(w, http.StatusNotFound, "region not found")
		return
	}

	list, err := h.countries.ByRegion(r.Context(), region.Slug())
	if err != nil {
		slog.Error("api: failed to fetch region", "region", region.Slug(), "error", err)
		h.writeAppError(w, err)
		return
	}

	shares := service.RegionShares(list)
	rows := lo.Map(list, func(c countries.Country, i int) RegionCountry {
		return RegionCountry{Country: c, PopulationShare: shares[i].Percent}
	})

	c := carousel.New(rows, h.breakpoints.ItemsPerPage(parseIntParam(r, "width", 0, 0)), h.regionPolicy)
	c.GoTo(parseIntParam(r, "page", 0, 0))

	resp := RegionPageResponse{
		Region:   toRegionResponse(region),
		Data:     c.VisibleSlice(),
		Carousel: c.State(),
	}
	resp.Region.Count = len(list)
	h.writeJSON(w, http.StatusOK, resp)
}

func toRegionResponse(r catalog.Region) RegionResponse {
	return RegionResponse{
		Name:  r.Name,
		Slug:  r.Slug(),
		Color: r.Color,
		Count: r.Count,
	}
}
