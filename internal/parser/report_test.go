package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleReport = `📋 ОТЧЁТ О СМЕНЕ
🔢 Смена: 3
📅 Дата: 01.11.2025
🕐 Время: 08:00-20:00
⏱ Длительность: 12 ч
👨‍💼 Старший: Петров
👥 Участники (4):
• Иванов
• Сидоров
Всего плавок: 2

🔥 ДЕТАЛИ ПЛАВОК:
✅ 1 РК-001 кластер-1 отливка-123 литник-456 опоки-789 t=1250°C 14:30
🔄 2 отливка-124 t=1250,5°C 16:45`

func TestParseMessage_FullReport(t *testing.T) {
	p := New(zap.NewNop())

	report, err := p.ParseMessage(sampleReport)
	require.NoError(t, err)

	assert.Equal(t, "3", report.Header.ShiftNumber)
	assert.Equal(t, "01.11.2025", report.Header.Date)
	assert.Equal(t, "08:00-20:00", report.Header.TimeRange)
	assert.Equal(t, "12 ч", report.Header.Duration)
	assert.Equal(t, "Петров", report.Header.Supervisor)
	require.NotNil(t, report.Header.TotalMelts)
	assert.Equal(t, 2, *report.Header.TotalMelts)
	assert.Equal(t, []string{"Иванов", "Сидоров"}, report.Header.Participants)

	require.Len(t, report.Melts, 2)

	first := report.Melts[0]
	assert.Equal(t, StatusCompleted, first.Status)
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, "001", first.RouteCard)
	assert.Equal(t, "1", first.Cluster)
	assert.Equal(t, "123", first.Casting)
	assert.Equal(t, "456", first.GatingSystem)
	assert.Equal(t, "789", first.Molds)
	require.NotNil(t, first.Temperature)
	assert.Equal(t, 1250.0, *first.Temperature)
	assert.Equal(t, "14:30", first.PourTime)

	second := report.Melts[1]
	assert.Equal(t, StatusInProgress, second.Status)
	assert.Equal(t, 2, second.Number)
	assert.Equal(t, "124", second.Casting)
	require.NotNil(t, second.Temperature)
	assert.Equal(t, 1250.5, *second.Temperature)
	assert.Equal(t, "16:45", second.PourTime)
}

func TestParseMessage_DeclaredTotalMatchesMelts(t *testing.T) {
	p := New(zap.NewNop())

	report, err := p.ParseMessage(sampleReport)
	require.NoError(t, err)

	issues := Validate(report)
	assert.Empty(t, issues)
}

func TestParseMessage_CommaDecimalTemperature(t *testing.T) {
	p := New(zap.NewNop())

	text := "🔥 ДЕТАЛИ ПЛАВОК:\n✅ 1 t=1250,5°C 14:30"
	report, err := p.ParseMessage(text)
	require.NoError(t, err)
	require.Len(t, report.Melts, 1)
	require.NotNil(t, report.Melts[0].Temperature)
	assert.Equal(t, 1250.5, *report.Melts[0].Temperature)
}

func TestParseMessage_Empty(t *testing.T) {
	p := New(zap.NewNop())

	_, err := p.ParseMessage("   \n  \n")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseMessage_SkipsMalformedMeltLine(t *testing.T) {
	p := New(zap.NewNop())

	text := "🔥 ДЕТАЛИ ПЛАВОК:\n✅ 1 отливка-123 14:30\nмусорная строка\n✅ 2 отливка-124 15:00"
	report, err := p.ParseMessage(text)
	require.NoError(t, err)
	assert.Len(t, report.Melts, 2)
}

func TestValidate_NonSequentialMelts(t *testing.T) {
	p := New(zap.NewNop())

	text := "🔥 ДЕТАЛИ ПЛАВОК:\n✅ 1 отливка-123 14:30\n✅ 3 отливка-124 15:00"
	report, err := p.ParseMessage(text)
	require.NoError(t, err)

	issues := Validate(report)
	assert.Contains(t, issues, "Melt numbers are not sequential")
}

func TestValidate_SequentialMeltsNoIssue(t *testing.T) {
	p := New(zap.NewNop())

	text := "🔥 ДЕТАЛИ ПЛАВОК:\n✅ 1 отливка-123 14:30\n✅ 2 отливка-124 15:00\n✅ 3 отливка-125 16:00"
	report, err := p.ParseMessage(text)
	require.NoError(t, err)

	issues := Validate(report)
	assert.NotContains(t, issues, "Melt numbers are not sequential")
}

func TestValidate_MissingHeaderFields(t *testing.T) {
	report := &ParsedShiftReport{}

	issues := Validate(report)
	assert.Contains(t, issues, "Missing shift number")
	assert.Contains(t, issues, "Missing shift date")
	assert.Contains(t, issues, "Missing supervisor")
	assert.Contains(t, issues, "No melts found")
}

func TestValidate_CountMismatch(t *testing.T) {
	total := 3
	report := &ParsedShiftReport{
		Header: ShiftHeader{TotalMelts: &total},
		Melts:  []MeltDetail{{Number: 1}, {Number: 2}},
	}

	issues := Validate(report)
	assert.Contains(t, issues, "Total melts count mismatch")
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Dialect
	}{
		{"glyph single-line", "🔥 ДЕТАЛИ ПЛАВОК:\n✅ 1 отливка-123 14:30", DialectMessage},
		{"glyph melt block opener", "✅ 1. Плавка 11-001/25\nУчастник 1: Иванов", DialectStrict},
		{"declared total with blocks", "Всего плавок: 1\nПлавка № 1\nНомер кластера: 5", DialectStrict},
		{"section marker only", "ДЕТАЛИ ПЛАВОК:\nничего", DialectMessage},
		{"plain text", "привет, как дела?", DialectUnknown},
		{"empty", "", DialectUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.text))
		})
	}
}

func TestExtractParticipants_CommaFallback(t *testing.T) {
	names := extractParticipants("👥 Участники: Иванов, Сидоров, Козлов")
	assert.Equal(t, []string{"Иванов", "Сидоров", "Козлов"}, names)
}

func TestExtractParticipants_CountOnlyValue(t *testing.T) {
	names := extractParticipants("👥 Участники (4):")
	assert.Empty(t, names)
}

func TestRecords_FansOutHeaderAndMolds(t *testing.T) {
	p := New(zap.NewNop())

	report, err := p.ParseMessage(sampleReport)
	require.NoError(t, err)

	records := report.Records()
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "202511001", first.IDPlavka)
	assert.Equal(t, "11-001/25", first.AccountNumber)
	assert.Equal(t, "01.11.2025", first.Date)
	assert.Equal(t, "1", first.MeltNumber)
	assert.Equal(t, "Петров", first.Supervisor)
	assert.Equal(t, "Иванов", first.Participants[0])
	assert.Equal(t, "Сидоров", first.Participants[1])
	assert.Equal(t, "789", first.Sectors[0].Molds)
	require.NotNil(t, first.Sectors[0].Temperature)
	assert.Equal(t, 1250.0, *first.Sectors[0].Temperature)
	assert.Empty(t, first.Sectors[1].Molds)

	row := first.ToRow("row-1")
	require.Len(t, row, 35)
	assert.Equal(t, "202511001", row[0])
	assert.Equal(t, "row-1", row[34])
}
