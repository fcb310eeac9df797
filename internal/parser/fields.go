package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Scalar field extraction shared by the header and melt parsers. All helpers
// return the zero value when nothing matches; a malformed numeric literal is
// treated as absent, not as an error.

var (
	dateRe        = regexp.MustCompile(`[0-9]{1,2}\.[0-9]{1,2}\.[0-9]{4}`)
	timeOfDayRe   = regexp.MustCompile(`[0-9]{1,2}:[0-9]{2}`)
	temperatureRe = regexp.MustCompile(`(?i)([0-9]+(?:[.,][0-9]+)?)\s*°?C?`)
	bulletRe      = regexp.MustCompile(`•\s*([^\n]+)`)
)

// extractDate returns the first DD.MM.YYYY substring, or "".
func extractDate(text string) string {
	return dateRe.FindString(text)
}

// extractTimeOfDay returns the first HH:MM substring, or "".
func extractTimeOfDay(text string) string {
	return timeOfDayRe.FindString(text)
}

// parseTemperature parses a temperature literal. Comma is accepted as the
// decimal separator ("1250,5" -> 1250.5).
func parseTemperature(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	raw = strings.ReplaceAll(raw, ",", ".")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// extractTemperature finds the first temperature literal in text, tolerating
// a trailing °C marker.
func extractTemperature(text string) (float64, bool) {
	m := temperatureRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	return parseTemperature(m[1])
}

// extractBullets collects the values of all bullet-prefixed lines, trimmed,
// with empty entries dropped.
func extractBullets(text string) []string {
	var out []string
	for _, m := range bulletRe.FindAllStringSubmatch(text, -1) {
		if v := strings.TrimSpace(m[1]); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// splitList splits a comma-separated value into trimmed non-empty entries.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// trimLabel strips leading emoji, punctuation and whitespace so that
// "🏷️ Кластер" and "Кластер" map to the same vocabulary entry.
func trimLabel(label string) string {
	return strings.TrimLeftFunc(strings.TrimSpace(label), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// zfill left-pads a numeric token with zeros to the given width.
func zfill(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}
