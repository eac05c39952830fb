package domain

import (
	_ "embed"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category is a device category accepted for pickup.
type Category string

const (
	CategorySmartphone Category = "smartphone"
	CategoryLaptop     Category = "laptop"
	CategoryBattery    Category = "battery"
	CategoryOther      Category = "other"
)

// Material is a recoverable material tracked per booking.
type Material string

const (
	Copper    Material = "copper"
	Lithium   Material = "lithium"
	Cobalt    Material = "cobalt"
	Nickel    Material = "nickel"
	RareEarth Material = "rare_earth"
)

// MaterialEstimate is one computed quantity in kg.
type MaterialEstimate struct {
	Material Material `json:"material"`
	Quantity float64  `json:"quantity"`
}

type yieldProfile struct {
	Weight    float64              `yaml:"weight"`
	Fractions map[Material]float64 `yaml:"fractions"`
}

// YieldTable maps categories to weights and material fractions.
type YieldTable struct {
	DefaultWeight   float64                   `yaml:"default_weight"`
	DefaultCategory Category                  `yaml:"default_category"`
	Materials       []Material                `yaml:"materials"`
	Categories      map[Category]yieldProfile `yaml:"categories"`
}

//go:embed yields.yaml
var yieldsYAML []byte

// Yields is the built-in table.
var Yields = mustParseYieldTable(yieldsYAML)

// ParseYieldTable decodes and checks a YAML yield table.
func ParseYieldTable(raw []byte) (YieldTable, error) {
	var t YieldTable
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return YieldTable{}, fmt.Errorf("decode yield table: %w", err)
	}
	if len(t.Materials) == 0 {
		return YieldTable{}, fmt.Errorf("yield table lists no materials")
	}
	if _, ok := t.Categories[t.DefaultCategory]; !ok {
		return YieldTable{}, fmt.Errorf("default category %q has no profile", t.DefaultCategory)
	}
	for c, p := range t.Categories {
		for m, f := range p.Fractions {
			if f < 0 || f > 1 {
				return YieldTable{}, fmt.Errorf("fraction %s/%s out of range: %v", c, m, f)
			}
		}
	}
	return t, nil
}

func mustParseYieldTable(raw []byte) YieldTable {
	t, err := ParseYieldTable(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// NormalizeCategory maps input to a known category. Unknown values fall back
// to the default category and report known=false.
func (t YieldTable) NormalizeCategory(raw string) (c Category, known bool) {
	c = Category(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := t.Categories[c]; ok {
		return c, true
	}
	return t.DefaultCategory, false
}

// Estimate returns round(weight × fraction, 4) for every tracked material.
// Unknown categories use the default weight with the default category's fractions.
func (t YieldTable) Estimate(raw string) (Category, []MaterialEstimate) {
	category, known := t.NormalizeCategory(raw)
	profile := t.Categories[category]

	weight := profile.Weight
	if !known {
		weight = t.DefaultWeight
	}

	out := make([]MaterialEstimate, 0, len(t.Materials))
	for _, m := range t.Materials {
		out = append(out, MaterialEstimate{Material: m, Quantity: Round4(weight * profile.Fractions[m])})
	}
	return category, out
}

// Round4 rounds half away from zero to four decimals.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
