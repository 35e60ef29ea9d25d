package services

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Ruleset validation errors.
var (
	ErrNoBrands          = errors.New("at least one brand is required")
	ErrNoGamingKeywords  = errors.New("at least one gaming keyword is required")
	ErrTiersNotAscending = errors.New("price tiers must be strictly ascending")
)

// Rules holds the data the extraction engine matches against. Order matters:
// brand matching is first-hit-wins down the Brands list.
type Rules struct {
	Brands         []string   `yaml:"brands"`
	GamingKeywords []string   `yaml:"gaming_keywords"`
	PriceTiers     PriceTiers `yaml:"price_tiers"`
}

// PriceTiers are exclusive upper bounds: a price below Budget is Budget,
// below MidRange is Mid-Range, below Premium is Premium, else High-End.
type PriceTiers struct {
	Budget   int `yaml:"budget"`
	MidRange int `yaml:"mid_range"`
	Premium  int `yaml:"premium"`
}

// DefaultRules returns the built-in laptop ruleset.
func DefaultRules() Rules {
	return Rules{
		Brands: []string{
			"Acer", "Dell", "HP", "Lenovo", "Asus", "ASUS", "Apple",
			"xLab", "Great Asia", "CHUWI", "MSI", "Microsoft",
		},
		GamingKeywords: []string{"gaming", "nitro", "tuf", "victus", "loq", "rog"},
		PriceTiers:     PriceTiers{Budget: 50000, MidRange: 80000, Premium: 120000},
	}
}

// LoadRules reads a ruleset from a YAML file. An empty path selects the
// built-in defaults.
func LoadRules(path string) (Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("rules: read %s: %w", path, err)
	}

	rules := DefaultRules()
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("rules: parse %s: %w", path, err)
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, fmt.Errorf("rules: %s: %w", path, err)
	}
	return rules, nil
}

// Validate checks the ruleset for usable content.
func (r Rules) Validate() error {
	if len(r.Brands) == 0 {
		return ErrNoBrands
	}
	if len(r.GamingKeywords) == 0 {
		return ErrNoGamingKeywords
	}
	t := r.PriceTiers
	if !(t.Budget < t.MidRange && t.MidRange < t.Premium) {
		return ErrTiersNotAscending
	}
	return nil
}
