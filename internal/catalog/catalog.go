// Package catalog loads the day-count packages sold through the checkout modal.
package catalog

import (
	_ "embed"
	"fmt"
	"html/template"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/kozymacro/papara-checkout/internal/model"
	"github.com/microcosm-cc/bluemonday"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

//go:embed packages.toml
var defaultCatalog string

type file struct {
	Symbol   string        `toml:"symbol"`
	Packages []packageFile `toml:"package"`
}

type packageFile struct {
	DayCount    int    `toml:"day_count"`
	Label       string `toml:"label"`
	Price       string `toml:"price"`
	PriceHTML   string `toml:"price_html"`
	Description string `toml:"description"`
}

// Catalog is an ordered, immutable set of packages.
type Catalog struct {
	packages []model.Package
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from a TOML file. An empty path loads the default catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	var f file
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("decoding catalog %s: %w", path, err)
	}
	return build(f)
}

// Parse reads a catalog from TOML text.
func Parse(data string) (*Catalog, error) {
	var f file
	if _, err := toml.Decode(data, &f); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return build(f)
}

func build(f file) (*Catalog, error) {
	if len(f.Packages) == 0 {
		return nil, fmt.Errorf("catalog has no packages")
	}

	policy := bluemonday.UGCPolicy()
	seen := make(map[int]bool, len(f.Packages))
	packages := make([]model.Package, 0, len(f.Packages))

	for _, p := range f.Packages {
		if p.DayCount <= 0 {
			return nil, fmt.Errorf("package %q: day_count must be positive, got %d", p.Label, p.DayCount)
		}
		if seen[p.DayCount] {
			return nil, fmt.Errorf("duplicate package for %d days", p.DayCount)
		}
		seen[p.DayCount] = true

		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return nil, fmt.Errorf("package %d: invalid price %q: %w", p.DayCount, p.Price, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("package %d: price must not be negative", p.DayCount)
		}

		priceHTML := p.PriceHTML
		if priceHTML == "" {
			priceHTML = template.HTMLEscapeString(f.Symbol + price.StringFixed(2))
		}

		packages = append(packages, model.Package{
			DayCount:    p.DayCount,
			Label:       p.Label,
			Description: p.Description,
			Price:       price,
			PriceHTML:   template.HTML(policy.Sanitize(priceHTML)),
		})
	}

	slices.SortFunc(packages, func(a, b model.Package) int {
		return a.DayCount - b.DayCount
	})

	return &Catalog{packages: packages}, nil
}

// Packages returns the packages ordered by day count.
func (c *Catalog) Packages() []model.Package {
	return slices.Clone(c.packages)
}

// Find returns the package lasting dayCount days.
func (c *Catalog) Find(dayCount int) (model.Package, bool) {
	return lo.Find(c.packages, func(p model.Package) bool {
		return p.DayCount == dayCount
	})
}

// Selection returns what the checkout modal shows for the package.
func Selection(p model.Package) model.Selection {
	return model.Selection{
		DayCount:  p.DayCount,
		PriceHTML: p.PriceHTML,
	}
}
