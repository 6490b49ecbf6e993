// Package service composes the country client with the query cache.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/mtlprog/earth/internal/apperr"
	"github.com/mtlprog/earth/internal/countries"
	"github.com/mtlprog/earth/internal/query"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Cache keys.
const (
	KeyAll          = "countries"
	countryPrefix   = "country:"
	regionPrefix    = "countries-by-region:"
	prefetchWorkers = 4
)

// MessageCountryNotFound is shown when a name lookup matches nothing.
const MessageCountryNotFound = "Country not found"

// CountryKey returns the cache key for a single country. A blank name yields "".
func CountryKey(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	return countryPrefix + name
}

// RegionKey returns the cache key for a region listing. A blank region yields "".
func RegionKey(region string) string {
	region = strings.ToLower(strings.TrimSpace(region))
	if region == "" {
		return ""
	}
	return regionPrefix + region
}

// CountryService serves country data through a shared query cache.
type CountryService struct {
	fetcher countries.Fetcher
	cache   *query.Cache[[]countries.Country]
	logger  *slog.Logger
}

// CountryServiceOption is a functional option for configuring a CountryService.
type CountryServiceOption func(*CountryService)

// WithLogger sets a custom logger for the service.
func WithLogger(logger *slog.Logger) CountryServiceOption {
	return func(s *CountryService) {
		s.logger = logger
	}
}

// NewCountryService creates a service over fetcher and cache.
// Returns error if either is nil.
func NewCountryService(fetcher countries.Fetcher, cache *query.Cache[[]countries.Country], opts ...CountryServiceOption) (*CountryService, error) {
	if fetcher == nil {
		return nil, errors.New("country fetcher is required")
	}
	if cache == nil {
		return nil, errors.New("query cache is required")
	}

	s := &CountryService{
		fetcher: fetcher,
		cache:   cache,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// All returns every country with summary fields.
func (s *CountryService) All(ctx context.Context) ([]countries.Country, error) {
	return s.cache.Fetch(ctx, KeyAll, s.loader(countries.AllRequest()))
}

// ByName returns the detail record for name. An empty result is reported as not found.
func (s *CountryService) ByName(ctx context.Context, name string) (countries.Country, error) {
	key := CountryKey(name)
	if key == "" {
		return countries.Country{}, &apperr.ValidationError{Message: "Country name is required", Fields: []string{"name"}}
	}

	list, err := s.cache.Fetch(ctx, key, s.loader(countries.NameRequest(name)))
	if err != nil {
		return countries.Country{}, err
	}
	if len(list) == 0 {
		return countries.Country{}, &apperr.NetworkError{Message: MessageCountryNotFound, StatusCode: http.StatusNotFound}
	}
	return list[0], nil
}

// ByRegion returns the countries of region sorted by common name.
func (s *CountryService) ByRegion(ctx context.Context, region string) ([]countries.Country, error) {
	key := RegionKey(region)
	if key == "" {
		return nil, &apperr.ValidationError{Message: "Region is required", Fields: []string{"region"}}
	}
	return s.cache.Fetch(ctx, key, s.regionLoader(region))
}

// Entry returns the current cache entry for key without starting a load.
func (s *CountryService) Entry(key string) query.Entry[[]countries.Country] {
	entry, _ := s.cache.Peek(key)
	return entry
}

// Snapshot summarizes the cache.
func (s *CountryService) Snapshot() []query.Summary {
	return s.cache.Snapshot()
}

// Invalidate drops key so the next read refetches it.
func (s *CountryService) Invalidate(key string) {
	s.cache.Invalidate(key)
}

// Prefetch warms the cache with the full list and every region in regions. Failures are
// logged and reported together; successful loads stay cached.
func (s *CountryService) Prefetch(ctx context.Context, regions []string) error {
	err := s.eachListing(ctx, regions, func(ctx context.Context, key string, load query.Loader[[]countries.Country]) error {
		_, err := s.cache.Fetch(ctx, key, load)
		return err
	})
	if err != nil {
		s.logger.Warn("cache prefetch incomplete", "error", err)
	} else {
		s.logger.Info("cache prefetched", "regions", len(regions))
	}
	return err
}

// Reload refetches the full list and every region in regions, replacing each cached
// listing only when its fetch succeeds. Failures are reported together.
func (s *CountryService) Reload(ctx context.Context, regions []string) error {
	return s.eachListing(ctx, regions, s.cache.Refresh)
}

// eachListing applies fn to the full list key and every region key with a bounded
// number of workers, joining the errors.
func (s *CountryService) eachListing(ctx context.Context, regions []string, fn func(context.Context, string, query.Loader[[]countries.Country]) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchWorkers)

	var (
		mu   sync.Mutex
		errs []error
	)
	run := func(key string, load query.Loader[[]countries.Country]) {
		g.Go(func() error {
			if err := fn(gctx, key, load); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				mu.Unlock()
			}
			return nil
		})
	}

	run(KeyAll, s.loader(countries.AllRequest()))
	for _, region := range lo.Uniq(regions) {
		run(RegionKey(region), s.regionLoader(region))
	}

	_ = g.Wait()
	return errors.Join(errs...)
}

func (s *CountryService) loader(req countries.Request) query.Loader[[]countries.Country] {
	return func(ctx context.Context) ([]countries.Country, error) {
		return s.fetcher.Fetch(ctx, req)
	}
}

// regionLoader fetches a region sorted by name.
func (s *CountryService) regionLoader(region string) query.Loader[[]countries.Country] {
	req := countries.RegionRequest(region)
	return func(ctx context.Context) ([]countries.Country, error) {
		list, err := s.fetcher.Fetch(ctx, req)
		if err != nil {
			return nil, err
		}
		list = slices.Clone(list)
		SortByName(list)
		return list, nil
	}
}

// RegionCounts counts countries per region name.
func RegionCounts(list []countries.Country) map[string]int {
	return lo.CountValuesBy(list, func(c countries.Country) string {
		return c.Region
	})
}

// Share is a country's part of a regional population.
type Share struct {
	Country string          `json:"country"`
	Percent decimal.Decimal `json:"percent"`
}

// RegionShares returns each country's share of the combined population of list as a
// percentage rounded to two places, in list order. An empty or zero-population list
// yields zero shares.
func RegionShares(list []countries.Country) []Share {
	total := lo.SumBy(list, func(c countries.Country) int64 { return c.Population })
	totalDec := decimal.NewFromInt(total)
	hundred := decimal.NewFromInt(100)

	return lo.Map(list, func(c countries.Country, _ int) Share {
		pct := decimal.Zero
		if total > 0 {
			pct = decimal.NewFromInt(c.Population).Mul(hundred).Div(totalDec).Round(2)
		}
		return Share{Country: c.Name.Common, Percent: pct}
	})
}

// SortByName orders list by common name in place.
func SortByName(list []countries.Country) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Name.Common < list[j].Name.Common
	})
}
