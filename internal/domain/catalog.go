package domain

import (
	"fmt"
	"sort"
)

// Catalog is the immutable, in-memory table of funds.
// It is built once at startup and shared read-only between requests.
type Catalog struct {
	funds  []*Fund
	byName map[string]*Fund
}

// NewCatalog validates the funds and builds a catalog
// Returns an error if any fund is invalid or a scheme name is duplicated
func NewCatalog(funds []*Fund) (*Catalog, error) {
	if len(funds) == 0 {
		return nil, fmt.Errorf("%w: catalog has no funds", ErrDataUnavailable)
	}

	c := &Catalog{
		funds:  make([]*Fund, 0, len(funds)),
		byName: make(map[string]*Fund, len(funds)),
	}
	for i, f := range funds {
		if f == nil {
			return nil, fmt.Errorf("%w: row %d is empty", ErrDataUnavailable, i+1)
		}
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrDataUnavailable, i+1, err)
		}
		if _, dup := c.byName[f.SchemeName]; dup {
			return nil, fmt.Errorf("%w: duplicate scheme name %q", ErrDataUnavailable, f.SchemeName)
		}
		// copy so later mutation of the caller's slice cannot leak in
		fund := *f
		c.funds = append(c.funds, &fund)
		c.byName[fund.SchemeName] = &fund
	}

	return c, nil
}

// Len returns the number of funds
func (c *Catalog) Len() int {
	return len(c.funds)
}

// Funds returns the funds in load order. Callers must not mutate the returned funds.
func (c *Catalog) Funds() []*Fund {
	out := make([]*Fund, len(c.funds))
	copy(out, c.funds)
	return out
}

// Lookup finds a fund by scheme name
func (c *Catalog) Lookup(schemeName string) (*Fund, error) {
	f, ok := c.byName[schemeName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFundNotFound, schemeName)
	}
	return f, nil
}

// Filter returns the funds accepted by keep, in load order
func (c *Catalog) Filter(keep func(*Fund) bool) []*Fund {
	out := make([]*Fund, 0)
	for _, f := range c.funds {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

// AMCs returns the sorted distinct AMC names
func (c *Catalog) AMCs() []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, f := range c.funds {
		if !seen[f.AMCName] {
			seen[f.AMCName] = true
			names = append(names, f.AMCName)
		}
	}
	sort.Strings(names)
	return names
}

// CategoryCounts returns the number of funds per category (categories without funds are omitted)
func (c *Catalog) CategoryCounts() map[Category]int {
	counts := make(map[Category]int)
	for _, f := range c.funds {
		counts[f.Category]++
	}
	return counts
}
