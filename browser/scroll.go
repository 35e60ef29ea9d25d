package browser

import (
	"fmt"
	"time"
)

// ScrollState is the progressive-load loop's terminal state.
type ScrollState int

const (
	// Scrolling: stepping the viewport down the current document height.
	Scrolling ScrollState = iota
	// Measuring: re-reading the document height after a full pass.
	Measuring
	// Converged: the height stopped growing; lazy content is attached.
	Converged
	// Aborted: the height kept growing past the pass cap.
	Aborted
)

func (s ScrollState) String() string {
	switch s {
	case Scrolling:
		return "Scrolling"
	case Measuring:
		return "Measuring"
	case Converged:
		return "Converged"
	case Aborted:
		return "Aborted"
	}
	return "Unknown"
}

// ScrollConfig tunes the progressive-load protocol.
type ScrollConfig struct {
	StepPx    int
	Pause     time.Duration
	Settle    time.Duration // wait before each height re-measure
	MaxPasses int
}

// DefaultScrollConfig matches the site's observed lazy-load pacing.
func DefaultScrollConfig() ScrollConfig {
	return ScrollConfig{
		StepPx:    400,
		Pause:     300 * time.Millisecond,
		Settle:    time.Second,
		MaxPasses: 20,
	}
}

// ProgressiveLoad scrolls the page in fixed steps across the full document
// height, pausing after each step so lazily-loaded content can attach. After
// a complete pass the height is re-measured: unchanged means Converged, grown
// means another pass. MaxPasses caps runaway height growth; a capped page is
// scraped with whatever content attached, so Aborted is not an error.
func ProgressiveLoad(p Page, cfg ScrollConfig) (ScrollState, error) {
	if cfg.StepPx <= 0 {
		cfg.StepPx = 400
	}
	if cfg.MaxPasses <= 0 {
		cfg.MaxPasses = 20
	}

	height, err := documentHeight(p)
	if err != nil {
		return Measuring, err
	}

	passes := 0
	state := Scrolling
	for {
		switch state {
		case Scrolling:
			for y := 0; y < height; y += cfg.StepPx {
				if err := p.Evaluate(fmt.Sprintf("window.scrollTo(0, %d);", y), nil); err != nil {
					return state, err
				}
				time.Sleep(cfg.Pause)
			}
			time.Sleep(cfg.Settle)
			state = Measuring

		case Measuring:
			passes++
			newHeight, err := documentHeight(p)
			if err != nil {
				return state, err
			}
			switch {
			case newHeight == height:
				state = Converged
			case passes >= cfg.MaxPasses:
				state = Aborted
			default:
				height = newHeight
				state = Scrolling
			}

		case Converged, Aborted:
			return state, nil
		}
	}
}

func documentHeight(p Page) (int, error) {
	var h int
	if err := p.Evaluate("document.body.scrollHeight", &h); err != nil {
		return 0, err
	}
	return h, nil
}
