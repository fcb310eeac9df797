package bot

import (
	"fmt"
	"strings"
)

// FormatLastRows renders journal tail rows newest-first for the "recent
// records" menu entry. Melt-log rows and free-text journal rows are told
// apart by width.
func FormatLastRows(rows [][]string) string {
	if len(rows) == 0 {
		return msgNoRecordsYet
	}

	var blocks []string
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		if len(row) < 6 {
			continue
		}
		if len(row) > 10 {
			blocks = append(blocks, fmt.Sprintf(
				"Плавка %s\nДата: %s\nИзделие: %s\nУчётный №: %s",
				orDash(row[3]), orDash(row[2]), orDash(row[10]), orDash(row[1]),
			))
		} else {
			blocks = append(blocks, fmt.Sprintf(
				"%s\n%s\nID сообщения: %s, Автор: %s",
				orDash(row[0]), row[5], orDash(row[4]), orDash(row[2]),
			))
		}
	}

	if len(blocks) == 0 {
		return msgNoRecordsYet
	}
	return strings.Join(blocks, "\n\n")
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "—"
	}
	return value
}
