package daraz

import "testing"

func TestParsePriceNoDiscount(t *testing.T) {
	before, after, percent, err := parsePrice("Rs. 120,000")
	if err != nil {
		t.Fatalf("parsePrice: %v", err)
	}
	if before != 120000 || after != 120000 || percent != 0 {
		t.Errorf("got before=%d after=%d percent=%d; want 120000/120000/0",
			before, after, percent)
	}
}

func TestParsePriceDiscountBanner(t *testing.T) {
	before, after, percent, err := parsePrice("Rs. 85,000\nRs. 100,000-15%")
	if err != nil {
		t.Fatalf("parsePrice: %v", err)
	}
	if percent != 15 {
		t.Errorf("percent = %d; want 15", percent)
	}
	if before != 100000 {
		t.Errorf("before = %d; want 100000", before)
	}
	if after != 85000 {
		t.Errorf("after = %d; want 85000", after)
	}
}

func TestParsePriceTruncatesTowardZero(t *testing.T) {
	// 99999 * 33% = 32999.67 off; integer arithmetic keeps 66999 + remainder.
	before, after, _, err := parsePrice("Rs. 67,000\nRs. 99,999-33%")
	if err != nil {
		t.Fatalf("parsePrice: %v", err)
	}
	if want := before - before*33/100; after != want {
		t.Errorf("after = %d; want %d", after, want)
	}
	if after != 67000 {
		t.Errorf("after = %d; want 67000", after)
	}
}

func TestParsePriceMalformed(t *testing.T) {
	bad := []string{
		"",
		"Free shipping",
		"Rs. abc",
		// banner with no second line
		"-15%",
		// second line without "Rs. "
		"Rs. 50,000\nNPR 60,000-15%",
	}
	for _, text := range bad {
		if _, _, _, err := parsePrice(text); err == nil {
			t.Errorf("parsePrice(%q) succeeded; want error", text)
		}
	}
}
