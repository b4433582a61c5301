package mapping

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDatePrefix = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
	slashDate     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2}|\d{4})$`)
	timePrefix    = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?`)
	leadingDigits = regexp.MustCompile(`\d+`)
)

// ParseDate canonicalises a booking-form date to YYYY-MM-DD.
//
// ISO input is truncated to its date part. Slash dates are read as MM/DD/YYYY
// unless the first component exceeds 12, in which case DD/MM/YYYY. Two-digit
// years get a "20" prefix. Anything else, including impossible calendar
// dates, is reported as absent.
func ParseDate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	if m := isoDatePrefix.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		if !validDate(y, mo, d) {
			return "", false
		}
		return s[:10], true
	}

	m := slashDate.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[2])
	year := m[3]
	if len(year) == 2 {
		year = "20" + year
	}
	y, _ := strconv.Atoi(year)

	month, day := a, b
	if a > 12 {
		month, day = b, a
	}
	if !validDate(y, month, day) {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, month, day), true
}

func validDate(y, m, d int) bool {
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return t.Day() == d && int(t.Month()) == m
}

// ParseTime canonicalises a leading H:MM or HH:MM[:SS] to HH:MM:SS and
// ignores whatever follows (so "9:30 AM" becomes "09:30:00"). A single-digit
// minute or an out-of-range component is reported as absent.
func ParseTime(raw string) (string, bool) {
	m := timePrefix.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", false
	}
	h, _ := strconv.Atoi(m[1])
	mi, _ := strconv.Atoi(m[2])
	sec := 0
	if m[3] != "" {
		sec, _ = strconv.Atoi(m[3])
	}
	if h > 23 || mi > 59 || sec > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, mi, sec), true
}

// DisplayTime renders a stored HH:MM:SS time as HH:MM.
func DisplayTime(stored string) string {
	if len(stored) >= 5 && stored[2] == ':' {
		return stored[:5]
	}
	return stored
}

// ParseCount pulls the first run of digits out of s. Zero or no digits fall
// back to def.
func ParseCount(s string, def int) int {
	digits := leadingDigits.FindString(s)
	if digits == "" {
		return def
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
