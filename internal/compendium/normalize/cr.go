package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var crFractionPattern = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)$`)

// ParseCR parses a challenge-rating value. Fractional forms such as "1/2"
// and "1/8" parse as true rationals; never as digit concatenations. Plain
// decimal or integer forms parse directly. Unparseable input returns nil.
func ParseCR(text string) *float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	if match := crFractionPattern.FindStringSubmatch(trimmed); match != nil {
		numerator, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			return nil
		}
		denominator, err := strconv.ParseFloat(match[2], 64)
		if err != nil || denominator == 0 {
			return nil
		}
		value := numerator / denominator
		return &value
	}

	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}
	return &value
}
