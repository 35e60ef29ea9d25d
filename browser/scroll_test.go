package browser

import (
	"strings"
	"testing"
	"time"
)

// fakePage serves a scripted sequence of document heights and records
// every scrollTo call.
type fakePage struct {
	heights   []int
	heightIdx int
	scrolls   []string
}

func (f *fakePage) Navigate(string) error                   { return nil }
func (f *fakePage) WaitPresent(string, time.Duration) error { return nil }
func (f *fakePage) Text(string) (string, error)             { return "", nil }
func (f *fakePage) AnchorHrefs(string) ([]string, error)    { return nil, nil }
func (f *fakePage) URL() (string, error)                    { return "", nil }
func (f *fakePage) Close()                                  {}

func (f *fakePage) Evaluate(js string, out any) error {
	if strings.Contains(js, "scrollHeight") {
		h := f.heights[f.heightIdx]
		if f.heightIdx < len(f.heights)-1 {
			f.heightIdx++
		}
		*(out.(*int)) = h
		return nil
	}
	f.scrolls = append(f.scrolls, js)
	return nil
}

func fastConfig(maxPasses int) ScrollConfig {
	return ScrollConfig{StepPx: 400, Pause: time.Nanosecond, MaxPasses: maxPasses}
}

func TestProgressiveLoadConvergesWhenHeightStable(t *testing.T) {
	p := &fakePage{heights: []int{800, 800}}

	state, err := ProgressiveLoad(p, fastConfig(5))
	if err != nil {
		t.Fatalf("ProgressiveLoad: %v", err)
	}
	if state != Converged {
		t.Errorf("state = %v; want Converged", state)
	}
	if len(p.scrolls) != 2 {
		t.Errorf("scroll steps = %d; want 2 (800px at 400px steps)", len(p.scrolls))
	}
}

func TestProgressiveLoadRepeatsPassWhileHeightGrows(t *testing.T) {
	// 800 → grows to 1600 → stable
	p := &fakePage{heights: []int{800, 1600, 1600}}

	state, err := ProgressiveLoad(p, fastConfig(5))
	if err != nil {
		t.Fatalf("ProgressiveLoad: %v", err)
	}
	if state != Converged {
		t.Errorf("state = %v; want Converged", state)
	}
	// First pass 2 steps, second pass 4 steps.
	if len(p.scrolls) != 6 {
		t.Errorf("scroll steps = %d; want 6", len(p.scrolls))
	}
}

func TestProgressiveLoadAbortsAtMaxPasses(t *testing.T) {
	// Height grows forever.
	p := &fakePage{heights: []int{400, 800, 1200, 1600, 2000, 2400, 2800}}

	state, err := ProgressiveLoad(p, fastConfig(3))
	if err != nil {
		t.Fatalf("ProgressiveLoad: %v", err)
	}
	if state != Aborted {
		t.Errorf("state = %v; want Aborted", state)
	}
}

func TestScrollStateString(t *testing.T) {
	if got := Aborted.String(); got != "Aborted" {
		t.Errorf("Aborted.String() = %q", got)
	}
	if got := Converged.String(); got != "Converged" {
		t.Errorf("Converged.String() = %q", got)
	}
}
