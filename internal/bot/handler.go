// Package bot wires Telegram updates to the shift-report parser and the
// journal store: command and menu dispatch, the add-record dialog and the
// parse-or-fallback policy for incoming report texts.
package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fedotrick/Import-SMS/internal/botstate"
	"github.com/fedotrick/Import-SMS/internal/journal"
	"github.com/fedotrick/Import-SMS/internal/parser"
	"github.com/fedotrick/Import-SMS/internal/telegram"
)

const recentRecordsLimit = 10

// API is the slice of the Telegram client the handlers use.
type API interface {
	SendMessage(ctx context.Context, chatID int64, text string, markup *telegram.InlineKeyboardMarkup) (*telegram.Message, error)
	SendDocument(ctx context.Context, chatID int64, path string) error
	AnswerCallbackQuery(ctx context.Context, callbackID string, text string, showAlert bool) error
}

// Journal is the slice of the store the handlers use.
type Journal interface {
	AppendMessageRow(ctx context.Context, row journal.MessageRow) error
	AppendMeltRows(ctx context.Context, rows [][]any) (int, error)
	Tail(ctx context.Context, limit int) ([][]string, error)
	Path() string
}

// Bot handles updates one at a time.
type Bot struct {
	api     API
	journal Journal
	states  botstate.Store
	parser  *parser.Parser
	logger  *zap.Logger
}

func New(api API, j Journal, states botstate.Store, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		api:     api,
		journal: j,
		states:  states,
		parser:  parser.New(logger),
		logger:  logger,
	}
}

// HandleUpdate implements telegram.Handler.
func (b *Bot) HandleUpdate(ctx context.Context, update telegram.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, *update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, *update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message telegram.Message) {
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	switch {
	case strings.HasPrefix(text, "/start"):
		b.clearState(ctx, chatID)
		b.reply(ctx, chatID, msgGreeting, BuildMainMenu())
		return
	case strings.HasPrefix(text, "/help"):
		b.reply(ctx, chatID, msgHelp, BuildMainMenu())
		return
	case strings.HasPrefix(text, "/cancel"):
		b.clearState(ctx, chatID)
		b.reply(ctx, chatID, msgAddCancelled, BuildMainMenu())
		return
	}

	state, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.logger.Warn("failed to read chat state", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	if state == botstate.StateAwaitingRecord {
		if text == "" {
			b.reply(ctx, chatID, msgEmptyText, nil)
			return
		}
		b.processRecord(ctx, message, text)
		return
	}

	// Outside the dialog a message is only consumed when it looks like a
	// shift report; anything else gets a menu hint instead of silently
	// landing in the journal.
	if text != "" && parser.Detect(text) != parser.DialectUnknown {
		b.processRecord(ctx, message, text)
		return
	}
	b.reply(ctx, chatID, msgMenuHint, BuildMainMenu())
}

// processRecord imports a shift report, falling back to a free-text journal
// entry when the text does not parse as one.
func (b *Bot) processRecord(ctx context.Context, message telegram.Message, text string) {
	chatID := message.Chat.ID

	records, parseErr := b.parseRecords(text)
	if parseErr == nil {
		rows := make([][]any, 0, len(records))
		for _, record := range records {
			rows = append(rows, record.ToRow(uuid.NewString()))
		}
		count, err := b.journal.AppendMeltRows(ctx, rows)
		if err != nil {
			b.replyStoreError(ctx, chatID, err)
			return
		}
		b.clearState(ctx, chatID)
		b.reply(ctx, chatID, fmt.Sprintf("✅ Импортировано %d плавок в plavka.xlsx.", count), BuildMainMenu())
		return
	}

	if !errors.Is(parseErr, parser.ErrParse) {
		b.logger.Error("unexpected parse failure", zap.Error(parseErr))
		b.reply(ctx, chatID, msgUnexpectedError, nil)
		return
	}

	// Malformed report: keep the text as a plain journal entry.
	b.logger.Info("message not recognized as a shift report, saving as journal entry",
		zap.Int64("chat_id", chatID),
		zap.Error(parseErr),
	)
	if message.From == nil {
		b.reply(ctx, chatID, msgNoSender, nil)
		b.logger.Warn("received message without sender data", zap.Int("message_id", message.MessageID))
		return
	}
	err := b.journal.AppendMessageRow(ctx, journal.MessageRow{
		UserID:    message.From.ID,
		Username:  message.From.DisplayName(),
		ChatID:    chatID,
		MessageID: message.MessageID,
		Text:      text,
	})
	if err != nil {
		b.replyStoreError(ctx, chatID, err)
		return
	}
	b.clearState(ctx, chatID)
	b.reply(ctx, chatID, msgRecordSaved, BuildMainMenu())
}

// parseRecords picks a dialect by message shape and returns storable melt
// records. Every failure wraps parser.ErrParse so the caller can fall back.
func (b *Bot) parseRecords(text string) ([]parser.PlavkaRecord, error) {
	switch parser.Detect(text) {
	case parser.DialectMessage:
		report, err := b.parser.ParseMessage(text)
		if err != nil {
			return nil, err
		}
		if issues := parser.Validate(report); len(issues) > 0 {
			b.logger.Warn("shift report has validation issues", zap.Strings("issues", issues))
		}
		records := report.Records()
		if len(records) == 0 {
			return nil, fmt.Errorf("%w: плавки не найдены", parser.ErrParse)
		}
		return records, nil
	case parser.DialectStrict:
		report, err := b.parser.ParseStrict(text)
		if err != nil {
			return nil, err
		}
		return report.Plavki, nil
	default:
		return nil, fmt.Errorf("%w: формат отчёта не распознан", parser.ErrParse)
	}
}

func (b *Bot) handleCallback(ctx context.Context, callback telegram.CallbackQuery) {
	if callback.Message == nil {
		b.answerCallback(ctx, callback.ID, "Сообщение недоступно.", true)
		return
	}
	chatID := callback.Message.Chat.ID
	b.answerCallback(ctx, callback.ID, "", false)

	switch callback.Data {
	case MenuAddRecord:
		if err := b.states.Set(ctx, chatID, botstate.StateAwaitingRecord); err != nil {
			b.logger.Warn("failed to set chat state", zap.Int64("chat_id", chatID), zap.Error(err))
		}
		b.reply(ctx, chatID, msgAddRecordPrompt, nil)

	case MenuLastRecords:
		rows, err := b.journal.Tail(ctx, recentRecordsLimit)
		if err != nil {
			b.replyStoreError(ctx, chatID, err)
			return
		}
		b.reply(ctx, chatID, FormatLastRows(rows), BuildMainMenu())

	case MenuDownload:
		path := b.journal.Path()
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			b.reply(ctx, chatID, msgFileMissing, nil)
			return
		}
		if err := b.api.SendDocument(ctx, chatID, path); err != nil {
			b.logger.Error("failed to send journal file", zap.Error(err))
			b.reply(ctx, chatID, msgUnexpectedError, nil)
		}

	case MenuHelp:
		b.reply(ctx, chatID, msgHelp, BuildMainMenu())
	}
}

// replyStoreError maps the store error taxonomy onto user-facing replies:
// schema problems point at the administrator, lock timeouts invite a retry,
// anything else is generic and logged with full context.
func (b *Bot) replyStoreError(ctx context.Context, chatID int64, err error) {
	switch {
	case errors.Is(err, journal.ErrSchema):
		b.logger.Error("journal schema error", zap.Error(err))
		b.reply(ctx, chatID, msgSchemaError, nil)
	case errors.Is(err, journal.ErrBusy):
		b.logger.Warn("journal file is busy", zap.Error(err))
		b.reply(ctx, chatID, msgBusyError, nil)
	default:
		b.logger.Error("unexpected journal error", zap.Error(err))
		b.reply(ctx, chatID, msgUnexpectedError, nil)
	}
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string, markup *telegram.InlineKeyboardMarkup) {
	if _, err := b.api.SendMessage(ctx, chatID, text, markup); err != nil {
		b.logger.Error("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) answerCallback(ctx context.Context, callbackID, text string, showAlert bool) {
	if err := b.api.AnswerCallbackQuery(ctx, callbackID, text, showAlert); err != nil {
		b.logger.Warn("failed to answer callback query", zap.Error(err))
	}
}

func (b *Bot) clearState(ctx context.Context, chatID int64) {
	if err := b.states.Clear(ctx, chatID); err != nil {
		b.logger.Warn("failed to clear chat state", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
