package bot

import "github.com/fedotrick/Import-SMS/internal/telegram"

// Main menu callback identifiers.
const (
	MenuAddRecord   = "menu:add_record"
	MenuLastRecords = "menu:last_records"
	MenuDownload    = "menu:download"
	MenuHelp        = "menu:help"
)

// BuildMainMenu returns the inline main menu, one button per row.
func BuildMainMenu() *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{{Text: "Добавить запись", CallbackData: MenuAddRecord}},
			{{Text: "Последние записи", CallbackData: MenuLastRecords}},
			{{Text: "Скачать plavka.xlsx", CallbackData: MenuDownload}},
			{{Text: "Справка", CallbackData: MenuHelp}},
		},
	}
}
