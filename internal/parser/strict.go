package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// SectorPour holds the timing and temperature of one pour line (A-D).
type SectorPour struct {
	Molds        string
	PreheatTime  string
	TransferTime string
	PourTime     string
	Temperature  *float64
}

// PlavkaRecord is one melt in the persisted melt-log shape.
type PlavkaRecord struct {
	IDPlavka       string // synthetic id, YYYYMMNNN
	AccountNumber  string // "MM-NNN/YY"
	Date           string // DD.MM.YYYY, kept as written
	MeltNumber     string
	ClusterNumber  string
	Supervisor     string
	Participants   [4]string
	CastingName    string
	ExperimentType string
	RouteCard      string
	Sectors        [4]SectorPour // A, B, C, D
	Comment        string
	PourTime       string
	// Raw keeps labels that do not map to a known attribute. Downstream
	// consumers ignore them; they are retained for diagnostics.
	Raw map[string]string
}

// ToRow lays the record out as one melt-log store row. rowID becomes the
// trailing synthetic row id cell.
func (r *PlavkaRecord) ToRow(rowID string) []any {
	row := []any{
		r.IDPlavka,
		r.AccountNumber,
		r.Date,
		r.MeltNumber,
		r.ClusterNumber,
		r.Supervisor,
		r.Participants[0],
		r.Participants[1],
		r.Participants[2],
		r.Participants[3],
		r.CastingName,
		r.ExperimentType,
		r.Sectors[0].Molds,
		r.Sectors[1].Molds,
		r.Sectors[2].Molds,
		r.Sectors[3].Molds,
	}
	for _, sector := range r.Sectors {
		var temp any
		if sector.Temperature != nil {
			temp = *sector.Temperature
		}
		row = append(row, sector.PreheatTime, sector.TransferTime, sector.PourTime, temp)
	}
	row = append(row, r.Comment, r.PourTime, rowID)
	return row
}

// StrictReport is the result of the strict dialect: a raw key/value header
// plus one record per melt block.
type StrictReport struct {
	Header      map[string]string
	Plavki      []PlavkaRecord
	TotalPlavok int
}

// requiredHeaderFields must be present and non-empty for a strict report to
// validate.
var requiredHeaderFields = []string{"Дата", "Смена", "Старший_смены"}

// Validate enforces the strict dialect invariants: declared/parsed melt
// count equality and required header fields.
func (r *StrictReport) Validate() error {
	if len(r.Plavki) != r.TotalPlavok {
		return fmt.Errorf("%w: ожидалось %d, найдено %d", ErrCountMismatch, r.TotalPlavok, len(r.Plavki))
	}
	for _, field := range requiredHeaderFields {
		if r.Header[field] == "" {
			return fmt.Errorf("%w: %s", ErrMissingHeaderField, field)
		}
	}
	return nil
}

var (
	decorationRe  = regexp.MustCompile(`^(===|---)`)
	titleLineRe   = regexp.MustCompile(`(?i)^(ОТЧЁТ О СМЕНЕ|SHIFT REPORT)`)
	// \b is ASCII-only in RE2 and never fires after a Cyrillic letter, so
	// the opener end is matched explicitly.
	meltOpenerRe  = regexp.MustCompile(`(?i)^(?:[✅🔄❓]\s*\d+\.?\s*)?Плавка(?:\s|№|$)`)
	accountNumRe  = regexp.MustCompile(`Плавка\s+([0-9]+-[0-9]+/[0-9]{2})`)
	openerNumRe   = regexp.MustCompile(`(?i)Плавка\s*№\s*(\d+)`)
	sectorLabelRe = regexp.MustCompile(`^(Прогрев ковша|Перемещение|Заливка|Температура|Сектор)\s+([A-D])$`)
	accountRefRe  = regexp.MustCompile(`^([0-9]{1,2})-([0-9]+)/([0-9]{2})$`)
)

// ParseStrict parses the multi-line colon-delimited dialect. Unlike
// ParseMessage it fails hard: a non-numeric declared total, a count
// mismatch or a missing required header field aborts the parse.
func (p *Parser) ParseStrict(text string) (*StrictReport, error) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil, ErrEmptyMessage
	}

	header := map[string]string{}
	var plavki []PlavkaRecord
	current := map[string]string{}
	openerLine := ""
	inSection := false
	total := 0

	flush := func() {
		if len(current) > 0 || openerLine != "" {
			plavki = append(plavki, p.buildPlavka(current, openerLine, header))
			current = map[string]string{}
			openerLine = ""
		}
	}

	for _, line := range lines {
		if decorationRe.MatchString(line) || titleLineRe.MatchString(line) {
			continue
		}

		if !inSection {
			if isSectionMarker(line) {
				inSection = true
				continue
			}
			if key, value, ok := strings.Cut(line, ":"); ok {
				key = trimLabel(strings.TrimSpace(key))
				value = strings.TrimSpace(value)
				header[key] = value
				if strings.EqualFold(key, "всего плавок") {
					n, err := strconv.Atoi(value)
					if err != nil {
						return nil, fmt.Errorf("%w: %q", ErrBadTotal, value)
					}
					total = n
					inSection = true
				}
			}
			continue
		}

		if meltOpenerRe.MatchString(line) {
			flush()
			openerLine = line
			continue
		}
		if key, value, ok := strings.Cut(line, ":"); ok {
			current[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
	}
	flush()

	report := &StrictReport{Header: header, Plavki: plavki, TotalPlavok: total}
	if err := report.Validate(); err != nil {
		return nil, err
	}
	return report, nil
}

// buildPlavka maps one block's key/value pairs onto a PlavkaRecord. Labels
// are matched after stripping a leading emoji, so "🏷️ Кластер" and
// "Номер кластера" land in the same place. Unknown labels go to Raw.
func (p *Parser) buildPlavka(data map[string]string, openerLine string, header map[string]string) PlavkaRecord {
	rec := PlavkaRecord{Raw: map[string]string{}}

	rec.Date = header["Дата"]
	rec.Supervisor = firstNonEmpty(header["Старший_смены"], header["Старший смены"], header["Старший"])

	var moldsList []string
	var sharedTemp *float64

	for rawKey, value := range data {
		key := trimLabel(rawKey)
		if m := sectorLabelRe.FindStringSubmatch(key); m != nil {
			sector := &rec.Sectors[int(m[2][0]-'A')]
			switch m[1] {
			case "Прогрев ковша":
				sector.PreheatTime = value
			case "Перемещение":
				sector.TransferTime = value
			case "Заливка":
				sector.PourTime = value
			case "Температура":
				if v, ok := extractTemperature(value); ok {
					sector.Temperature = &v
				}
			case "Сектор":
				sector.Molds = value
			}
			continue
		}

		switch key {
		case "Плавка №", "Номер":
			rec.MeltNumber = value
		case "Учетный номер":
			rec.AccountNumber = value
		case "Номер кластера", "Кластер":
			rec.ClusterNumber = value
		case "Старший смены":
			rec.Supervisor = value
		case "Участник 1":
			rec.Participants[0] = value
		case "Участник 2":
			rec.Participants[1] = value
		case "Участник 3":
			rec.Participants[2] = value
		case "Участник 4":
			rec.Participants[3] = value
		case "Наименование отливки", "Отливка":
			rec.CastingName = value
		case "Тип эксперимента", "Литниковая система":
			rec.ExperimentType = value
		case "Маршрутная карта":
			rec.RouteCard = value
		case "Опоки":
			moldsList = normalizeMolds(value)
		case "Температура":
			if v, ok := extractTemperature(value); ok {
				sharedTemp = &v
			}
		case "Время заливки":
			rec.PourTime = value
		case "Комментарий":
			rec.Comment = value
		default:
			rec.Raw[rawKey] = value
		}
	}

	// The block opener line carries the account number in the import
	// dialect ("✅ 1. Плавка 11-001/25") and sometimes the melt number.
	if openerLine != "" {
		if rec.AccountNumber == "" {
			if m := accountNumRe.FindStringSubmatch(openerLine); m != nil {
				rec.AccountNumber = m[1]
			}
		}
		if rec.MeltNumber == "" {
			if m := openerNumRe.FindStringSubmatch(openerLine); m != nil {
				rec.MeltNumber = m[1]
			} else if m := glyphLineRe.FindStringSubmatch(openerLine); m != nil {
				rec.MeltNumber = m[2]
			}
		}
	}

	// A flat mold list fans out to sectors A-D, the shared temperature with
	// it. Explicit per-sector values above always win.
	for i := range rec.Sectors {
		if i < len(moldsList) && rec.Sectors[i].Molds == "" {
			rec.Sectors[i].Molds = moldsList[i]
			if rec.Sectors[i].Temperature == nil {
				rec.Sectors[i].Temperature = sharedTemp
			}
		}
	}

	if rec.AccountNumber == "" {
		rec.AccountNumber = defaultAccountNumber(rec.Date, rec.MeltNumber)
	}
	rec.IDPlavka = GenerateMeltID(rec.Date, firstNonEmpty(rec.MeltNumber, rec.AccountNumber))

	return rec
}

// normalizeMolds splits a comma-separated mold list, dropping the optional
// "Опока №" prefix and collapsing integral floats ("123.0" -> "123").
func normalizeMolds(value string) []string {
	var out []string
	for _, item := range splitList(value) {
		item = strings.TrimSpace(strings.ReplaceAll(item, "Опока №", ""))
		if f, err := strconv.ParseFloat(item, 64); err == nil && f == float64(int64(f)) {
			item = strconv.FormatInt(int64(f), 10)
		}
		out = append(out, item)
	}
	return out
}

// meltNumberSuffix extracts the per-month melt counter from tokens like
// "5-102" or "102" and zero-pads it to three digits.
func meltNumberSuffix(num string) string {
	parts := strings.Split(num, "-")
	if len(parts) == 2 {
		return zfill(strings.TrimSuffix(firstToken(parts[1]), "/"), 3)
	}
	return zfill(num, 3)
}

func firstToken(s string) string {
	if i := strings.IndexAny(s, "/ "); i >= 0 {
		return s[:i]
	}
	return s
}

// GenerateMeltID builds the synthetic melt identifier "YYYYMMNNN" from the
// report date (DD.MM.YYYY) and the declared melt number. The id is stable
// and sortable within one month, but collides across months/years when the
// declared number is reused; that matches the historical journal format and
// is deliberately not widened here. A non-numeric melt number is kept
// verbatim in the NNN position rather than collapsed to "000", matching the
// importer that produced the existing journal rows.
func GenerateMeltID(dateStr, num string) string {
	t, err := time.Parse("02.01.2006", dateStr)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d%02d%s", t.Year(), int(t.Month()), meltNumberSuffix(num))
}

// GenerateAccountNumber builds the accounting number "MM-NNN/YY" from the
// report date and melt number.
func GenerateAccountNumber(dateStr, num string) string {
	t, err := time.Parse("02.01.2006", dateStr)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%02d-%s/%02d", int(t.Month()), meltNumberSuffix(num), t.Year()%100)
}

// defaultAccountNumber is the fallback used when a block declares no
// accounting number: "<day>-<melt>/<yy>".
func defaultAccountNumber(dateStr, num string) string {
	t, err := time.Parse("02.01.2006", dateStr)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d-%s/%02d", t.Day(), num, t.Year()%100)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
