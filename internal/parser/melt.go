package parser

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// glyphLineRe recognizes the start of a single-line melt record.
var glyphLineRe = regexp.MustCompile(`^([✅🔄❓])\s*(\d+)`)

// totalMeltsLineRe is the dialect sniff for a declared-total header line.
var totalMeltsLineRe = regexp.MustCompile(`(?i)^Всего\s+плавок\s*:`)

// meltLineRe extracts one single-line melt record, e.g.
//
//	✅ 1 РК-001 кластер-1 отливка-123 литник-456 опоки-789 t=1250°C 14:30 Создана
//
// Every labeled token is optional and position-bound; trailing unrecognized
// text is ignored rather than rejected.
var meltLineRe = regexp.MustCompile(`(?i)^([✅🔄❓])\s*` +
	`(\d+)\s*` +
	`(?:РК[-\s]?(\S+))?\s*` +
	`(?:кластер[-\s]?(\S+))?\s*` +
	`(?:отливка[-\s]?(\S+))?\s*` +
	`(?:литник[-\s]?(\S+))?\s*` +
	`(?:опоки[-\s]?(\S+))?\s*` +
	`(?:t\s*=\s*([0-9]+(?:[.,][0-9]+)?)\s*°?C?)?\s*` +
	`([0-9]{1,2}:[0-9]{2})?\s*` +
	`(\S+)?\s*` +
	`.*$`)

// parseMelts walks the lines after the melt-detail marker and collects one
// record per recognized melt line. Malformed lines are skipped with a
// diagnostic so one bad line does not abort the whole report.
func (p *Parser) parseMelts(lines []string) []MeltDetail {
	var melts []MeltDetail
	inSection := false

	for _, line := range lines {
		if isSectionMarker(line) {
			inSection = true
			continue
		}
		if !inSection {
			continue
		}

		m := meltLineRe.FindStringSubmatch(line)
		if m == nil {
			if glyphLineRe.MatchString(line) {
				p.logger.Warn("failed to parse melt line", zap.String("line", line))
			}
			continue
		}
		melts = append(melts, p.meltFromMatch(m))
	}

	return melts
}

func (p *Parser) meltFromMatch(m []string) MeltDetail {
	var status MeltStatus
	switch m[1] {
	case string(StatusCompleted):
		status = StatusCompleted
	case string(StatusInProgress):
		status = StatusInProgress
	default:
		status = StatusUnknown
	}

	number, _ := strconv.Atoi(m[2])

	var temperature *float64
	if raw := m[8]; raw != "" {
		if v, ok := parseTemperature(raw); ok {
			temperature = &v
		} else {
			p.logger.Warn("invalid temperature value", zap.String("value", raw))
		}
	}

	return MeltDetail{
		Status:       status,
		Number:       number,
		RouteCard:    strings.TrimSpace(m[3]),
		Cluster:      strings.TrimSpace(m[4]),
		Casting:      strings.TrimSpace(m[5]),
		GatingSystem: strings.TrimSpace(m[6]),
		Molds:        strings.TrimSpace(m[7]),
		Temperature:  temperature,
		PourTime:     m[9],
		Created:      strings.TrimSpace(m[10]),
	}
}
