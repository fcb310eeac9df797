package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTemperature(t *testing.T) {
	v, ok := parseTemperature("1250")
	assert.True(t, ok)
	assert.Equal(t, 1250.0, v)

	v, ok = parseTemperature("1250,5")
	assert.True(t, ok)
	assert.Equal(t, 1250.5, v)

	_, ok = parseTemperature("")
	assert.False(t, ok)

	_, ok = parseTemperature("горячо")
	assert.False(t, ok)
}

func TestExtractTemperature(t *testing.T) {
	v, ok := extractTemperature("Температура: 1250°C")
	assert.True(t, ok)
	assert.Equal(t, 1250.0, v)

	v, ok = extractTemperature("1260,5")
	assert.True(t, ok)
	assert.Equal(t, 1260.5, v)

	_, ok = extractTemperature("без значения")
	assert.False(t, ok)
}

func TestExtractDate(t *testing.T) {
	assert.Equal(t, "01.11.2025", extractDate("📅 Дата: 01.11.2025, смена 3"))
	assert.Equal(t, "", extractDate("без даты"))
}

func TestExtractTimeOfDay(t *testing.T) {
	assert.Equal(t, "14:30", extractTimeOfDay("заливка в 14:30"))
	assert.Equal(t, "", extractTimeOfDay("без времени"))
}

func TestTrimLabel(t *testing.T) {
	assert.Equal(t, "Кластер", trimLabel("🏷️ Кластер"))
	assert.Equal(t, "Дата", trimLabel("📅 Дата"))
	assert.Equal(t, "Дата", trimLabel("Дата"))
	assert.Equal(t, "", trimLabel("🔥"))
}

func TestNormalizeMolds(t *testing.T) {
	assert.Equal(t, []string{"123", "124"}, normalizeMolds("123.0, 124"))
	assert.Equal(t, []string{"55", "56"}, normalizeMolds("Опока №55, Опока №56"))
	assert.Nil(t, normalizeMolds(""))
}

func TestZfill(t *testing.T) {
	assert.Equal(t, "007", zfill("7", 3))
	assert.Equal(t, "102", zfill("102", 3))
	assert.Equal(t, "1024", zfill("1024", 3))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"а", "б", "в"}, splitList(" а, б ,в,"))
	assert.Nil(t, splitList("  "))
}

func TestExtractBullets(t *testing.T) {
	names := extractBullets("• Иванов\n•  Сидоров \n•\n")
	assert.Equal(t, []string{"Иванов", "Сидоров"}, names)
}
