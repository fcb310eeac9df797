package journal

import "errors"

var (
	// ErrBusy is returned when the file lock cannot be acquired within the
	// configured timeout. The file is fine; the caller should retry later.
	ErrBusy = errors.New("файл журнала сейчас используется")

	// ErrSchema is returned when the workbook's header row does not match
	// the expected column set, or the file cannot be opened as a workbook.
	// It is never retried: coercing rows into a wrong schema would corrupt
	// historical data.
	ErrSchema = errors.New("структура файла журнала не соответствует ожидаемой")
)
