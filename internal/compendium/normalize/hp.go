package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	markupPattern     = regexp.MustCompile(`<[^>]*>|[{}*_]`)
	statedHPPattern   = regexp.MustCompile(`^\s*(\d+)`)
	hpFormulaPattern  = regexp.MustCompile(`\(\s*(\d+)\s*d\s*(\d+)\s*(?:([+-])\s*(\d+))?\s*\)`)
	multiSpacePattern = regexp.MustCompile(`\s{2,}`)
)

// hpCorrectionFloor is the smallest computed average eligible for the
// truncated-integer correction. Below it the heuristic misfires on very low
// dice formulas, so the stated value always wins.
const hpCorrectionFloor = 10

// NormalizeHP cleans an imported hit-point field such as "58 (9d10+9)":
// embedded markup is stripped, and a stated leading integer that looks like
// a truncation of the formula's computed average is replaced by that
// average.
//
// The correction is deliberately conservative and fires only when all of
// these hold: the computed average is at least 10, its decimal form is
// strictly longer than the stated integer's, and it starts with the stated
// integer's digits. Everything else keeps the stated value as imported.
func NormalizeHP(text string) string {
	cleaned := strings.TrimSpace(markupPattern.ReplaceAllString(text, ""))
	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")

	formula := hpFormulaPattern.FindStringSubmatch(cleaned)
	if formula == nil {
		return cleaned
	}
	average, ok := diceAverage(formula)
	if !ok {
		return cleaned
	}

	stated := statedHPPattern.FindStringSubmatch(cleaned)
	if stated == nil {
		return cleaned
	}

	averageDigits := strconv.Itoa(average)
	statedDigits := stated[1]
	if average >= hpCorrectionFloor &&
		len(averageDigits) > len(statedDigits) &&
		strings.HasPrefix(averageDigits, statedDigits) {
		loc := statedHPPattern.FindStringSubmatchIndex(cleaned)
		return cleaned[:loc[2]] + averageDigits + cleaned[loc[3]:]
	}
	return cleaned
}

// diceAverage computes floor(n*(die+1)/2 + mod) for a matched NdM[+/-K]
// formula.
func diceAverage(match []string) (int, bool) {
	count, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	die, err := strconv.Atoi(match[2])
	if err != nil {
		return 0, false
	}
	average := count * (die + 1) / 2
	if match[3] != "" && match[4] != "" {
		mod, err := strconv.Atoi(match[4])
		if err != nil {
			return 0, false
		}
		if match[3] == "-" {
			mod = -mod
		}
		average += mod
	}
	return average, true
}
