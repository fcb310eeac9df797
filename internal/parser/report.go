// Package parser turns free-text shift report messages into structured melt
// records. Two message dialects are supported: single-line records led by a
// status glyph (ParseMessage, permissive) and multi-line colon-delimited
// blocks (ParseStrict, hard validation). Detect picks a dialect by message
// shape so the bot layer does not have to guess.
package parser

import (
	"strings"

	"go.uber.org/zap"
)

// MeltStatus is derived from the status glyph leading a melt line.
type MeltStatus string

const (
	StatusCompleted  MeltStatus = "✅"
	StatusInProgress MeltStatus = "🔄"
	StatusUnknown    MeltStatus = "❓"
)

// ShiftHeader carries shift metadata extracted from the lines preceding the
// melt-detail marker. Every field is optional at parse time; Validate
// reports the required ones.
type ShiftHeader struct {
	ShiftNumber  string   // numeric or roman numeral token
	Date         string   // DD.MM.YYYY, stored as matched
	TimeRange    string   // "HH:MM-HH:MM"
	Duration     string   // normalized to "<n> ч"
	Supervisor   string
	TotalMelts   *int     // declared melt count, nil when absent
	Participants []string // appearance order, duplicates allowed
}

// MeltDetail is one melt parsed from a single-line record.
type MeltDetail struct {
	Status       MeltStatus
	Number       int
	RouteCard    string
	Cluster      string
	Casting      string
	GatingSystem string
	Molds        string
	Temperature  *float64
	PourTime     string // "HH:MM"
	Created      string // trailing free-text status tag
}

// ParsedShiftReport is one header plus the ordered melt list. It is built
// once per incoming message and not mutated afterwards.
type ParsedShiftReport struct {
	Header ShiftHeader
	Melts  []MeltDetail
}

// Dialect identifies which textual encoding a message uses.
type Dialect int

const (
	DialectUnknown Dialect = iota
	DialectMessage         // single-line records, emoji status glyphs
	DialectStrict          // colon-delimited multi-line blocks
)

// Parser parses the permissive single-line dialect.
type Parser struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{logger: logger}
}

// ParseMessage parses a complete shift report message. Malformed melt lines
// are skipped with a diagnostic; a declared/parsed count mismatch is soft
// and only reported by Validate.
func (p *Parser) ParseMessage(messageText string) (*ParsedShiftReport, error) {
	lines := splitLines(messageText)
	if len(lines) == 0 {
		return nil, ErrEmptyMessage
	}

	header := p.parseHeader(lines)
	melts := p.parseMelts(lines)

	if header.TotalMelts != nil && *header.TotalMelts != len(melts) {
		p.logger.Warn("total melts count mismatch",
			zap.Int("declared", *header.TotalMelts),
			zap.Int("parsed", len(melts)),
		)
	}

	return &ParsedShiftReport{Header: header, Melts: melts}, nil
}

// splitLines trims every line and drops blank ones.
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if l := strings.TrimSpace(line); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// Detect picks a dialect by message shape. A glyph-led detail line selects
// the single-line dialect unless it opens a "Плавка" block; a declared
// total followed by "Плавка" blocks selects the strict dialect.
func Detect(text string) Dialect {
	lines := splitLines(text)
	sawTotal := false
	sawMeltBlock := false
	for _, line := range lines {
		if glyphLineRe.MatchString(line) {
			if strings.Contains(line, "Плавка") {
				return DialectStrict
			}
			return DialectMessage
		}
		if totalMeltsLineRe.MatchString(line) {
			sawTotal = true
		}
		if strings.HasPrefix(line, "Плавка") {
			sawMeltBlock = true
		}
	}
	if sawTotal && sawMeltBlock {
		return DialectStrict
	}
	for _, line := range lines {
		if isSectionMarker(line) {
			return DialectMessage
		}
	}
	return DialectUnknown
}

// Validate checks a parsed report and returns human-readable issues. It
// never fails: every finding is a string, and multiple issues co-occur.
func Validate(report *ParsedShiftReport) []string {
	var issues []string

	if report.Header.ShiftNumber == "" {
		issues = append(issues, "Missing shift number")
	}
	if report.Header.Date == "" {
		issues = append(issues, "Missing shift date")
	}
	if report.Header.Supervisor == "" {
		issues = append(issues, "Missing supervisor")
	}
	if len(report.Melts) == 0 {
		issues = append(issues, "No melts found")
	}

	// Melt numbers must form the exact run 1..N, order included.
	if len(report.Melts) > 0 {
		sequential := true
		for i, melt := range report.Melts {
			if melt.Number != i+1 {
				sequential = false
				break
			}
		}
		if !sequential {
			issues = append(issues, "Melt numbers are not sequential")
		}
	}

	if report.Header.TotalMelts != nil && *report.Header.TotalMelts != len(report.Melts) {
		issues = append(issues, "Total melts count mismatch")
	}

	return issues
}
