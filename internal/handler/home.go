package handler

import (
	"net/http"

	"github.com/mtlprog/earth/internal/catalog"
	"github.com/mtlprog/earth/internal/query"
	"github.com/mtlprog/earth/internal/service"
	"github.com/samber/lo"
)

// RegionCard is one region tile.
type RegionCard struct {
	Name  string
	Slug  string
	Color string
	Count int
}

// HomeData holds data for the home page template.
type HomeData struct {
	Layout
	Regions []RegionCard
}

// RegionsData holds data for the regions page template.
type RegionsData struct {
	Layout
	Regions []RegionCard
}

// FactsData holds data for the facts page template.
type FactsData struct {
	Layout
	Facts []catalog.Fact
}

// Home handles the landing page with region cards.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "home.html", HomeData{
		Layout:  h.layout(r, "", "home"),
		Regions: h.regionCards(),
	})
}

// Regions lists every region.
func (h *Handler) Regions(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "regions.html", RegionsData{
		Layout:  h.layout(r, "Regions", "regions"),
		Regions: h.regionCards(),
	})
}

// Facts renders the bundled facts.
func (h *Handler) Facts(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "facts.html", FactsData{
		Layout: h.layout(r, "Facts", "facts"),
		Facts:  h.catalog.Facts,
	})
}

// About renders the about page.
func (h *Handler) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "about.html", h.layout(r, "About", ""))
}

// regionCards builds the catalog cards. Counts come from the cached country list when it
// has loaded, and from the catalog otherwise; nothing is fetched.
func (h *Handler) regionCards() []RegionCard {
	var live map[string]int
	if entry := h.countries.Entry(service.KeyAll); entry.Status == query.StatusSuccess {
		live = service.RegionCounts(entry.Data)
	}

	return lo.Map(h.catalog.Regions, func(region catalog.Region, _ int) RegionCard {
		card := RegionCard{
			Name:  region.Name,
			Slug:  region.Slug(),
			Color: region.Color,
			Count: region.Count,
		}
		if n, ok := live[region.Name]; ok {
			card.Count = n
		}
		return card
	})
}
