/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
)

// ParseDateOrZero returns a parsed time or zero if input is empty or "null".
func ParseDateOrZero(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return time.Time{}, nil
	}
	return dateparse.ParseAny(s)
}

// ScoreToString renders a score with a ½ glyph instead of .5, e.g. 3.5 -> "3½"
// and 0.5 -> "½".
func ScoreToString(score float64) string {
	whole, frac := math.Modf(score)
	if frac == 0 {
		return strconv.Itoa(int(whole))
	}
	if math.Abs(frac) == 0.5 {
		if whole == 0 {
			return "½"
		}
		return strconv.Itoa(int(whole)) + "½"
	}

	return strconv.FormatFloat(score, 'f', 1, 64)
}

// NormalizeName title-cases a name and reduces it to first and last name.
func NormalizeName(s string) string {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return ""
	}
	first := titleCase(parts[0])
	last := titleCase(parts[len(parts)-1])
	if first == last {
		return first
	}
	return first + " " + last
}

func titleCase(s string) string {
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])

	return string(r)
}
