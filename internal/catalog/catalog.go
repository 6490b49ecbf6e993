// Package catalog holds the static region and facts data bundled with the site.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"
)

//go:embed data/*.toml
var data embed.FS

// Region is a region card on the home page.
type Region struct {
	Name  string `toml:"name" json:"name"`
	Count int    `toml:"count" json:"count"`
	Color string `toml:"color" json:"color"`
}

// Slug returns the lower-case name used in URLs and service requests.
func (r Region) Slug() string {
	return strings.ToLower(r.Name)
}

// Fact is an entry on the facts page. Text is markdown.
type Fact struct {
	ID         int    `toml:"id" json:"id"`
	Name       string `toml:"name" json:"name"`
	Capital    string `toml:"capital" json:"capital"`
	Population int64  `toml:"population" json:"population"`
	Region     string `toml:"region" json:"region"`
	Text       string `toml:"text" json:"text"`
}

// Catalog is the bundled static data.
type Catalog struct {
	Regions []Region `toml:"region"`
	Facts   []Fact   `toml:"fact"`
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	regions, err := data.ReadFile("data/regions.toml")
	if err != nil {
		return nil, fmt.Errorf("read regions: %w", err)
	}
	facts, err := data.ReadFile("data/facts.toml")
	if err != nil {
		return nil, fmt.Errorf("read facts: %w", err)
	}
	return Parse(string(regions), string(facts))
}

// Parse decodes regions and facts documents and validates the result.
func Parse(regions, facts string) (*Catalog, error) {
	var c Catalog
	if _, err := toml.Decode(regions, &c); err != nil {
		return nil, fmt.Errorf("decode regions: %w", err)
	}
	if _, err := toml.Decode(facts, &c); err != nil {
		return nil, fmt.Errorf("decode facts: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Regions) == 0 {
		return errors.New("catalog has no regions")
	}
	for _, r := range c.Regions {
		if r.Name == "" {
			return errors.New("region name is required")
		}
	}
	if dups := lo.FindDuplicatesBy(c.Regions, Region.Slug); len(dups) > 0 {
		return fmt.Errorf("duplicate region %q", dups[0].Name)
	}
	if dups := lo.FindDuplicatesBy(c.Facts, func(f Fact) int { return f.ID }); len(dups) > 0 {
		return fmt.Errorf("duplicate fact id %d", dups[0].ID)
	}
	return nil
}

// Region looks up a region by slug or name, case-insensitively.
func (c *Catalog) Region(name string) (Region, bool) {
	slug := strings.ToLower(strings.TrimSpace(name))
	return lo.Find(c.Regions, func(r Region) bool {
		return r.Slug() == slug
	})
}

// RegionSlugs returns every region slug in catalog order.
func (c *Catalog) RegionSlugs() []string {
	return lo.Map(c.Regions, func(r Region, _ int) string {
		return r.Slug()
	})
}
