package interviews

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	datePart = regexp.MustCompile(`(\d+)([YMWD])`)
	timePart = regexp.MustCompile(`(\d+)([HMS])`)
)

var unitSeconds = map[string]int{
	"D": 86400,
	"W": 7 * 86400,
	"H": 3600,
	"M": 60,
	"S": 1,
}

// ParseISODuration converts an ISO 8601 duration such as "PT1H2M30S" to
// seconds. Years and months are ignored and malformed input yields 0.
func ParseISODuration(s string) int {
	date, clock, _ := strings.Cut(strings.ToUpper(strings.TrimSpace(s)), "T")
	if !strings.HasPrefix(date, "P") {
		return 0
	}

	total := 0
	for _, m := range datePart.FindAllStringSubmatch(date, -1) {
		if m[2] == "W" || m[2] == "D" {
			total += atoi(m[1]) * unitSeconds[m[2]]
		}
	}
	for _, m := range timePart.FindAllStringSubmatch(clock, -1) {
		total += atoi(m[1]) * unitSeconds[m[2]]
	}
	return total
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// FormatDuration renders seconds as h:mm:ss, or m:ss under an hour.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
