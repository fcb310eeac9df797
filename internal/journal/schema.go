package journal

// Schema identifies the column set of a journal workbook. It is decided
// when the file is created and is immutable afterwards; the header row is
// the single source of truth.
type Schema int

const (
	// SchemaMeltLog is the structured melt journal (one row per melt).
	SchemaMeltLog Schema = iota
	// SchemaJournal is the free-text message journal.
	SchemaJournal
)

// JournalHeaders is the message-journal column set.
var JournalHeaders = []string{
	"timestamp",
	"user_id",
	"username",
	"chat_id",
	"message_id",
	"text",
}

// PlavkaHeaders is the melt-log column set: melt identity, shift crew,
// per-sector molds and timing/temperature, comment, overall pour time and
// a trailing synthetic row id.
var PlavkaHeaders = []string{
	"id_plavka",
	"Учетный_номер",
	"Плавка_дата",
	"Номер_плавки",
	"Номер_кластера",
	"Старший_смены_плавки",
	"Первый_участник_смены_плавки",
	"Второй_участник_смены_плавки",
	"Третий_участник_смены_плавки",
	"Четвертый_участник_смены_плавки",
	"Наименование_отливки",
	"Тип_эксперемента",
	"Сектор_A_опоки",
	"Сектор_B_опоки",
	"Сектор_C_опоки",
	"Сектор_D_опоки",
	"Плавка_время_прогрева_ковша_A",
	"Плавка_время_перемещения_A",
	"Плавка_время_заливки_A",
	"Плавка_температура_заливки_A",
	"Плавка_время_прогрева_ковша_B",
	"Плавка_время_перемещения_B",
	"Плавка_время_заливки_B",
	"Плавка_температура_заливки_B",
	"Плавка_время_прогрева_ковша_C",
	"Плавка_время_перемещения_C",
	"Плавка_время_заливки_C",
	"Плавка_температура_заливки_C",
	"Плавка_время_прогрева_ковша_D",
	"Плавка_время_перемещения_D",
	"Плавка_время_заливки_D",
	"Плавка_температура_заливки_D",
	"Комментарий",
	"Плавка_время_заливки",
	"id",
}

func (s Schema) Headers() []string {
	if s == SchemaJournal {
		return JournalHeaders
	}
	return PlavkaHeaders
}

func (s Schema) SheetName() string {
	if s == SchemaJournal {
		return "Journal"
	}
	return "Records"
}

func (s Schema) String() string {
	if s == SchemaJournal {
		return "journal"
	}
	return "plavka"
}

// detectSchema picks a schema from an existing file's first row. The melt
// log wins on its sentinel columns, "timestamp" selects the message
// journal, anything else defaults to the melt log. The heuristic only
// chooses headers for brand-new or headerless files; it never overrides
// the exact header comparison.
func detectSchema(firstRow []string) Schema {
	if len(firstRow) == 0 {
		return SchemaMeltLog
	}
	if firstRow[0] == "id_plavka" {
		return SchemaMeltLog
	}
	for _, cell := range firstRow {
		if cell == "Учетный_номер" {
			return SchemaMeltLog
		}
	}
	if firstRow[0] == "timestamp" {
		return SchemaJournal
	}
	return SchemaMeltLog
}
