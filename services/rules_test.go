package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultRulesValidate(t *testing.T) {
	if err := DefaultRules().Validate(); err != nil {
		t.Fatalf("default rules invalid: %v", err)
	}
}

func TestLoadRulesEmptyPathUsesDefaults(t *testing.T) {
	rules, err := LoadRules("")
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if rules.Brands[0] != "Acer" {
		t.Errorf("Brands[0] = %q; want Acer", rules.Brands[0])
	}
}

func TestLoadRulesOverridesFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	yaml := `
brands:
  - Framework
  - System76
gaming_keywords:
  - gaming
price_tiers:
  budget: 40000
  mid_range: 70000
  premium: 100000
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(rules.Brands) != 2 || rules.Brands[0] != "Framework" {
		t.Errorf("Brands = %v; want [Framework System76]", rules.Brands)
	}
	if rules.PriceTiers.Budget != 40000 {
		t.Errorf("Budget = %d; want 40000", rules.PriceTiers.Budget)
	}
}

func TestLoadRulesRejectsBadTiers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	yaml := `
price_tiers:
  budget: 90000
  mid_range: 70000
  premium: 100000
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadRules(path)
	if !errors.Is(err, ErrTiersNotAscending) {
		t.Errorf("err = %v; want ErrTiersNotAscending", err)
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	if _, err := LoadRules(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing rules file")
	}
}
