package daraz

import (
	"errors"
	"strconv"
	"strings"
)

// parsePrice decodes the detail page's price block.
//
// With a discount banner the block spans two lines, e.g.
//
//	Rs. 85,000
//	Rs. 100,000-15%
//
// The percent is the integer between "-" and "%"; the original price is the
// integer after "Rs. " on the second line, cut at "-" to drop the banner,
// thousands separators stripped. Without a banner the block is a single
// "Rs. 120,000" and the discount is zero. The discounted price is derived
// with integer arithmetic, truncating toward zero.
func parsePrice(text string) (before, after, percent int, err error) {
	if strings.Contains(text, "%") {
		parts := strings.Split(text, "-")
		if len(parts) < 2 {
			return 0, 0, 0, errors.New("discount banner without \"-\" separator")
		}
		percent, err = strconv.Atoi(strings.TrimSpace(strings.ReplaceAll(parts[1], "%", "")))
		if err != nil {
			return 0, 0, 0, errors.New("discount percent is not an integer")
		}

		lines := strings.Split(text, "\n")
		if len(lines) < 2 {
			return 0, 0, 0, errors.New("discount banner without a second line")
		}
		segs := strings.Split(lines[1], "Rs. ")
		if len(segs) < 2 {
			return 0, 0, 0, errors.New("second line has no \"Rs. \" amount")
		}
		amount := strings.Split(segs[1], "-")[0]
		before, err = strconv.Atoi(strings.TrimSpace(strings.ReplaceAll(amount, ",", "")))
		if err != nil {
			return 0, 0, 0, errors.New("original price is not an integer")
		}
	} else {
		percent = 0
		segs := strings.Split(text, "Rs. ")
		if len(segs) < 2 {
			return 0, 0, 0, errors.New("price text has no \"Rs. \" amount")
		}
		before, err = strconv.Atoi(strings.TrimSpace(strings.ReplaceAll(segs[1], ",", "")))
		if err != nil {
			return 0, 0, 0, errors.New("price is not an integer")
		}
	}

	after = before - before*percent/100
	return before, after, percent, nil
}
