package types

import (
	"regexp"
	"strings"
)

// streetPattern splits a single-line street into name and number. The number
// part accepts plain digits, a letter suffix, and ranged forms like "1-3" or
// "12a - 14". Trailing text after the number ("apt 4") is ignored, not part
// of the number.
var streetPattern = regexp.MustCompile(`\A(.*?)\s+(\d+[a-zA-Z]?\s?-\s?\d*[a-zA-Z]?|\d+[a-zA-Z-]?\d*[a-zA-Z]?)`)

// SplitStreet separates the house number from a street line. When no number
// can be recognized the whole line is returned as the street name.
func SplitStreet(street string) (name, number string) {
	trimmed := strings.TrimSpace(street)
	match := streetPattern.FindStringSubmatch(trimmed)
	if match == nil {
		return trimmed, ""
	}
	return strings.TrimSpace(match[1]), strings.TrimSpace(match[2])
}
