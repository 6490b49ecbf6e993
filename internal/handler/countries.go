package handler

import (
	"net/http"

	"github.com/mtlprog/earth/internal/apperr"
	"github.com/mtlprog/earth/internal/carousel"
	"github.com/mtlprog/earth/internal/countries"
	"github.com/mtlprog/earth/internal/service"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// CountriesData holds data for the countries carousel template.
type CountriesData struct {
	Layout
	Countries []countries.Country
	State     carousel.State
	Error     string
}

// CountryData holds data for the country detail template.
type CountryData struct {
	Layout
	Country *countries.Country
	Error   string
}

// RegionRow is a country with its share of the regional population.
type RegionRow struct {
	countries.Country
	Share decimal.Decimal
}

// RegionData holds data for the region detail template.
type RegionData struct {
	Layout
	Region RegionCard
	Path   string
	Rows   []RegionRow
	State  carousel.State
	Error  string
}

// Countries renders one carousel page of all countries.
func (h *Handler) Countries(w http.ResponseWriter, r *http.Request) {
	data := CountriesData{Layout: h.layout(r, "Countries", "countries")}

	list, err := h.countries.All(r.Context())
	if err != nil {
		h.logger.Error("failed to fetch countries", "error", err)
		data.Error = apperr.Message(err)
		h.render(w, apperr.HTTPStatus(err), "countries.html", data)
		return
	}

	c := carousel.New(list, h.breakpoints.ItemsPerPage(viewportWidth(r)), h.countriesPolicy)
	c.GoTo(pageParam(r))
	data.Countries = c.VisibleSlice()
	data.State = c.State()
	h.render(w, http.StatusOK, "countries.html", data)
}

// Country renders the detail page for one country.
func (h *Handler) Country(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	data := CountryData{Layout: h.layout(r, name, "countries")}

	country, err := h.countries.ByName(r.Context(), name)
	if err != nil {
		status := apperr.HTTPStatus(err)
		if apperr.IsNotFound(err) {
			data.Error = service.MessageCountryNotFound
		} else {
			h.logger.Error("failed to fetch country", "name", name, "error", err)
			data.Error = apperr.Message(err)
		}
		h.render(w, status, "country.html", data)
		return
	}

	data.Title = country.Name.Common
	data.Country = &country
	h.render(w, http.StatusOK, "country.html", data)
}

// Region renders one page of a region's countries.
func (h *Handler) Region(w http.ResponseWriter, r *http.Request) {
	region, ok := h.catalog.Region(r.PathValue("region"))
	if !ok {
		h.renderError(w, r, http.StatusNotFound, "Region not found")
		return
	}

	card := RegionCard{Name: region.Name, Slug: region.Slug(), Color: region.Color, Count: region.Count}
	data := RegionData{
		Layout: h.layout(r, region.Name, "regions"),
		Region: card,
		Path:   "/regions/" + card.Slug,
	}

	list, err := h.countries.ByRegion(r.Context(), card.Slug)
	if err != nil {
		h.logger.Error("failed to fetch region", "region", card.Slug, "error", err)
		data.Error = apperr.Message(err)
		h.render(w, apperr.HTTPStatus(err), "region.html", data)
		return
	}

	shares := service.RegionShares(list)
	rows := lo.Map(list, func(c countries.Country, i int) RegionRow {
		return RegionRow{Country: c, Share: shares[i].Percent}
	})

	c := carousel.New(rows, h.breakpoints.ItemsPerPage(viewportWidth(r)), h.regionPolicy)
	c.GoTo(pageParam(r))
	data.Rows = c.VisibleSlice()
	data.State = c.State()
	data.Region.Count = len(list)
	h.render(w, http.StatusOK, "region.html", data)
}
