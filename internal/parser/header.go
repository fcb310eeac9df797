package parser

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Header label patterns. Each pattern is tried against the whole header
// block, not line by line, so field order in the message is irrelevant;
// the first match wins. Labels are case-insensitive and tolerate a leading
// emoji because the patterns are unanchored.
var (
	shiftRe        = regexp.MustCompile(`(?i)Смена\s*[:\s]\s*(\d+|[IVX]+)`)
	headerDateRe   = regexp.MustCompile(`(?i)Дата\s*[:\s]\s*([0-9]{1,2}\.[0-9]{1,2}\.[0-9]{4})`)
	timeRangeRe    = regexp.MustCompile(`(?i)Время\s*[:\s]\s*([0-9]{1,2}:[0-9]{2}\s*-\s*[0-9]{1,2}:[0-9]{2})`)
	durationRe     = regexp.MustCompile(`(?i)Длительность\s*[:\s]\s*([0-9]+)\s*ч`)
	supervisorRe   = regexp.MustCompile(`(?i)Старший\s*[:\s]\s*([^\n]+)`)
	totalMeltsRe   = regexp.MustCompile(`(?i)Всего\s+плавок\s*[:\s]\s*(\d+)`)
	participantsRe = regexp.MustCompile(`(?i)Участники\s*[:\s]\s*([^\n]+)`)

	// Participant names on bullet lines following the label, e.g.
	// "👥 Участники (4):\n• Иванов\n• Сидоров".
	participantsBlockRe = regexp.MustCompile(`(?i)Участники[^\n]*\n((?:[ \t]*•[^\n]*\n?)+)`)

	// A count-only value such as "(4):" carries no names.
	countOnlyRe = regexp.MustCompile(`^\(\d+\)`)
)

// isSectionMarker reports whether a line opens the melt-detail section.
// Whitespace is normalized, case is folded and a leading emoji such as
// "🔥" is ignored.
func isSectionMarker(line string) bool {
	normalized := strings.Join(strings.Fields(strings.ToUpper(line)), " ")
	normalized = trimLabel(normalized)
	return strings.HasPrefix(normalized, "ДЕТАЛИ ПЛАВОК") ||
		strings.HasPrefix(normalized, "DETAILS OF MELTS")
}

// parseHeader extracts shift metadata from the lines preceding the
// melt-detail marker.
func (p *Parser) parseHeader(lines []string) ShiftHeader {
	var headerLines []string
	for _, line := range lines {
		if isSectionMarker(line) {
			break
		}
		headerLines = append(headerLines, line)
	}
	headerText := strings.Join(headerLines, "\n")

	header := ShiftHeader{}
	if m := shiftRe.FindStringSubmatch(headerText); m != nil {
		header.ShiftNumber = strings.TrimSpace(m[1])
	}
	if m := headerDateRe.FindStringSubmatch(headerText); m != nil {
		header.Date = strings.TrimSpace(m[1])
	}
	if m := timeRangeRe.FindStringSubmatch(headerText); m != nil {
		header.TimeRange = strings.TrimSpace(m[1])
	}
	if m := durationRe.FindStringSubmatch(headerText); m != nil {
		header.Duration = strings.TrimSpace(m[1]) + " ч"
	}
	if m := supervisorRe.FindStringSubmatch(headerText); m != nil {
		header.Supervisor = strings.TrimSpace(m[1])
	}
	if m := totalMeltsRe.FindStringSubmatch(headerText); m != nil {
		if total, err := strconv.Atoi(strings.TrimSpace(m[1])); err == nil {
			header.TotalMelts = &total
		} else {
			p.logger.Warn("invalid total melts value", zap.String("value", m[1]))
		}
	}
	header.Participants = extractParticipants(headerText)

	return header
}

// extractParticipants prefers a bullet list under the participants label and
// falls back to a comma-separated value on the label line itself.
func extractParticipants(headerText string) []string {
	if m := participantsBlockRe.FindStringSubmatch(headerText); m != nil {
		if names := extractBullets(m[1]); len(names) > 0 {
			return names
		}
	}
	if m := participantsRe.FindStringSubmatch(headerText); m != nil {
		value := strings.TrimSpace(m[1])
		if countOnlyRe.MatchString(value) {
			return nil
		}
		return splitList(value)
	}
	return nil
}
