package carousel

import (
	"errors"
	"fmt"
	"sort"
)

// Breakpoint maps a minimum viewport width in pixels to a page size.
type Breakpoint struct {
	MinWidth int
	Items    int
}

// Breakpoints is a width → page size table.
type Breakpoints []Breakpoint

// DefaultBreakpoints: phones 1, small tablets 2, tablets 3, desktop 4.
var DefaultBreakpoints = Breakpoints{
	{MinWidth: 0, Items: 1},
	{MinWidth: 640, Items: 2},
	{MinWidth: 768, Items: 3},
	{MinWidth: 1024, Items: 4},
}

// NewBreakpoints validates and sorts a table.
func NewBreakpoints(bps []Breakpoint) (Breakpoints, error) {
	if len(bps) == 0 {
		return nil, errors.New("at least one breakpoint is required")
	}
	out := make(Breakpoints, len(bps))
	copy(out, bps)
	for _, bp := range out {
		if bp.Items <= 0 {
			return nil, fmt.Errorf("breakpoint at %dpx: items must be positive", bp.MinWidth)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MinWidth < out[j].MinWidth })
	return out, nil
}

// ItemsPerPage returns the page size for a viewport width. The widest matching breakpoint
// wins; widths below every threshold get the narrowest layout. An unknown width (<= 0)
// gets the widest layout, which is what a first server render assumes.
func (b Breakpoints) ItemsPerPage(width int) int {
	if len(b) == 0 {
		return 1
	}
	if width <= 0 {
		return b[len(b)-1].Items
	}
	items := b[0].Items
	for _, bp := range b {
		if width >= bp.MinWidth {
			items = bp.Items
		}
	}
	return items
}

// ItemsPerPage applies DefaultBreakpoints.
func ItemsPerPage(width int) int {
	return DefaultBreakpoints.ItemsPerPage(width)
}
