package bot

// User-facing texts. Kept in one place so replies stay consistent across
// handlers.
const (
	msgGreeting = "Привет! Это журнал смен. Используйте меню, чтобы добавить запись или посмотреть последние события."

	msgHelp = "ℹ️ Журнал смен — управление через меню:\n\n" +
		"• «Добавить запись» — отправьте текст отчёта о смене, и он попадёт в plavka.xlsx.\n" +
		"• «Последние записи» — покажет последние 10 записей из журнала.\n" +
		"• «Скачать plavka.xlsx» — получите актуальный файл.\n" +
		"• «Справка» — это сообщение.\n\n" +
		"Формат отчёта:\n" +
		"📅 Дата: 01.11.2025\n" +
		"👨‍💼 Старший: Петров\n" +
		"👥 Участники (4):\n" +
		"• Иванов\n" +
		"• Сидоров\n\n" +
		"🔥 ДЕТАЛИ ПЛАВОК:\n" +
		"✅ 1 РК-001 кластер-1 отливка-123 литник-456 опоки-789 t=1250°C 14:30\n\n" +
		"Сообщение, которое не распознано как отчёт, сохраняется в журнал как обычный текст."

	msgAddRecordPrompt = "Отправьте текст сообщения, который необходимо добавить в plavka.xlsx."
	msgAddCancelled    = "Добавление записи отменено."
	msgEmptyText       = "Пожалуйста, отправьте текстовое сообщение для записи в журнал."
	msgNoSender        = "Не удалось определить отправителя сообщения."
	msgRecordSaved     = "✅ Запись сохранена в plavka.xlsx."
	msgNoRecordsYet    = "Записей пока нет."
	msgFileMissing     = "Файл plavka.xlsx пока не создан. Добавьте запись, чтобы создать файл автоматически."

	msgSchemaError = "⚠️ Не удалось сохранить запись: структура plavka.xlsx отличается от ожидаемой. " +
		"Обратитесь к администратору."
	msgBusyError       = "Файл plavka.xlsx сейчас используется. Попробуйте повторить попытку позже."
	msgUnexpectedError = "Произошла непредвиденная ошибка. Попробуйте позже."
	msgMenuHint        = "Сообщение не распознано. Используйте меню, чтобы добавить запись."
)
