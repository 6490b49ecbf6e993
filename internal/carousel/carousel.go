// Package carousel pages an ordered collection into fixed-size windows.
package carousel

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Policy decides what happens when navigating past either end.
type Policy int

const (
	// Wrap moves from the last page to the first and back.
	Wrap Policy = iota
	// Clamp stays on the boundary page.
	Clamp
)

func (p Policy) String() string {
	if p == Clamp {
		return "clamp"
	}
	return "wrap"
}

// ParsePolicy parses "wrap" or "clamp".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wrap":
		return Wrap, nil
	case "clamp":
		return Clamp, nil
	default:
		return Wrap, fmt.Errorf("unknown carousel policy %q", s)
	}
}

// State is a read-only view of a carousel, shaped for templates and JSON.
type State struct {
	Page         int    `json:"page"`
	TotalPages   int    `json:"total_pages"`
	ItemsPerPage int    `json:"items_per_page"`
	TotalItems   int    `json:"total_items"`
	Policy       string `json:"policy"`
	HasPrev      bool   `json:"has_prev"`
	HasNext      bool   `json:"has_next"`
	PrevPage     int    `json:"prev_page"`
	NextPage     int    `json:"next_page"`
}

// Carousel tracks a page window over items. It is not safe for concurrent use.
//
// The carousel keeps the last page navigated to and derives the visible page by clamping
// it to the current page count. Item and page-size updates therefore never leave the page
// out of range, and applying them in either order yields the same state.
type Carousel[T any] struct {
	items   []T
	perPage int
	policy  Policy
	target  int
}

// New creates a carousel on page 0. A non-positive perPage is treated as 1.
func New[T any](items []T, perPage int, policy Policy) *Carousel[T] {
	c := &Carousel[T]{items: items, policy: policy}
	c.perPage = normalizePerPage(perPage)
	return c
}

// Configure sets the page size and navigation policy.
func (c *Carousel[T]) Configure(perPage int, policy Policy) {
	c.perPage = normalizePerPage(perPage)
	c.policy = policy
}

// SetItems replaces the collection.
func (c *Carousel[T]) SetItems(items []T) {
	c.items = items
}

// OnItemsPerPageChanged applies a new page size, e.g. after a viewport resize.
func (c *Carousel[T]) OnItemsPerPageChanged(perPage int) {
	c.perPage = normalizePerPage(perPage)
}

// Next advances one page according to the policy. No-op with fewer than two pages.
func (c *Carousel[T]) Next() {
	total := c.TotalPages()
	if total <= 1 {
		return
	}
	page := c.Page()
	if c.policy == Wrap {
		c.target = (page + 1) % total
		return
	}
	c.target = min(page+1, total-1)
}

// Prev goes back one page according to the policy. No-op with fewer than two pages.
func (c *Carousel[T]) Prev() {
	total := c.TotalPages()
	if total <= 1 {
		return
	}
	page := c.Page()
	if c.policy == Wrap {
		c.target = ((page-1)%total + total) % total
		return
	}
	c.target = max(page-1, 0)
}

// GoTo jumps to page, clamped into range.
func (c *Carousel[T]) GoTo(page int) {
	c.target = c.clamp(page)
}

// Page returns the current zero-based page index.
func (c *Carousel[T]) Page() int {
	return c.clamp(c.target)
}

// TotalPages returns ceil(len(items) / itemsPerPage); 0 for no items.
func (c *Carousel[T]) TotalPages() int {
	return (len(c.items) + c.perPage - 1) / c.perPage
}

// ItemsPerPage returns the page size.
func (c *Carousel[T]) ItemsPerPage() int {
	return c.perPage
}

// Policy returns the navigation policy.
func (c *Carousel[T]) Policy() Policy {
	return c.policy
}

// Len returns the number of items.
func (c *Carousel[T]) Len() int {
	return len(c.items)
}

// HasNext reports whether Next would change the page.
func (c *Carousel[T]) HasNext() bool {
	total := c.TotalPages()
	if total <= 1 {
		return false
	}
	return c.policy == Wrap || c.Page() < total-1
}

// HasPrev reports whether Prev would change the page.
func (c *Carousel[T]) HasPrev() bool {
	total := c.TotalPages()
	if total <= 1 {
		return false
	}
	return c.policy == Wrap || c.Page() > 0
}

// VisibleSlice returns the items of the current page. The last page may be shorter.
// The result shares the backing array but has no spare capacity, so appending copies.
func (c *Carousel[T]) VisibleSlice() []T {
	if len(c.items) == 0 {
		return []T{}
	}
	return slices.Clip(lo.Subset(c.items, c.Page()*c.perPage, uint(c.perPage)))
}

// State returns a snapshot including the pages Prev and Next would land on.
func (c *Carousel[T]) State() State {
	s := State{
		Page:         c.Page(),
		TotalPages:   c.TotalPages(),
		ItemsPerPage: c.perPage,
		TotalItems:   len(c.items),
		Policy:       c.policy.String(),
		HasPrev:      c.HasPrev(),
		HasNext:      c.HasNext(),
	}

	probe := *c
	probe.Prev()
	s.PrevPage = probe.Page()

	probe = *c
	probe.Next()
	s.NextPage = probe.Page()

	return s
}

func (c *Carousel[T]) clamp(page int) int {
	total := c.TotalPages()
	if total == 0 || page < 0 {
		return 0
	}
	return min(page, total-1)
}

func normalizePerPage(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
