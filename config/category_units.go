package config

import (
	"encoding/json"
	"os"
)

// UnitRules maps a product category to the set of units a quotation or
// enquiry line in that category may use.
type UnitRules map[string][]string

// defaultUnitRules is the standing category/unit table for the catalog.
var defaultUnitRules = UnitRules{
	"Yarn":                    {"kg", "cones"},
	"Garments":                {"pcs", "dz"},
	"Denim":                   {"m", "yards", "rolls"},
	"Greige Fabric":           {"m", "yards", "rolls", "kg"},
	"Finished Fabrics":        {"m", "yards", "rolls"},
	"Fabric (Finished)":       {"m", "yards", "rolls"},
	"Fibre":                   {"kg", "bales", "tons"},
	"Textile Farming":         {"kg", "quintal", "bales", "tons"},
	"Home Decoration":         {"pcs", "sets", "m"},
	"Trims & Accessories":     {"pcs", "m", "rolls", "sets"},
	"Packing":                 {"pcs", "kg", "sets"},
	"Dyes & Chemicals":        {"kg", "liters", "tons", "drums"},
	"Machineries & Equipment": {"pcs", "units", "sets"},
}

// LoadUnitRules returns the category/unit table. CATEGORY_UNIT_RULES may hold
// a JSON object to replace the built-in table; a parse failure falls back to
// the defaults.
func LoadUnitRules() UnitRules {
	raw := os.Getenv("CATEGORY_UNIT_RULES")
	if raw == "" {
		return defaultUnitRules
	}

	var rules UnitRules
	if err := json.Unmarshal([]byte(raw), &rules); err != nil || len(rules) == 0 {
		return defaultUnitRules
	}
	return rules
}

// AllowedUnits returns the permitted units for a category. The second return
// value is false when the category is unknown.
func (r UnitRules) AllowedUnits(category string) ([]string, bool) {
	units, ok := r[category]
	return units, ok
}

// IsAllowed reports whether a unit is valid for a category.
func (r UnitRules) IsAllowed(category, unit string) bool {
	units, ok := r[category]
	if !ok {
		return false
	}
	for _, u := range units {
		if u == unit {
			return true
		}
	}
	return false
}

// Categories returns the known category names.
func (r UnitRules) Categories() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	return names
}
