// Package telegram is a minimal Bot API client covering the methods the
// shift-journal bot uses: identity check, long polling and message/document
// delivery.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// apiResponse is the Bot API envelope.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
}

// Client calls the Bot API over HTTPS.
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient builds a client for the given API host and bot token.
func NewClient(apiURL, token string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetBaseURL(fmt.Sprintf("%s/bot%s", strings.TrimRight(apiURL, "/"), token)).
		SetTimeout(60 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Accept", "application/json")

	return &Client{httpClient: client, logger: logger}
}

// call posts one Bot API method and decodes the result envelope into out.
func (c *Client) call(ctx context.Context, method string, body any, out any) error {
	var response apiResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&response).
		Post("/" + method)
	if err != nil {
		return fmt.Errorf("call %s: %w", method, err)
	}
	if !response.OK {
		c.logger.Error("Bot API returned error",
			zap.String("method", method),
			zap.Int("status_code", resp.StatusCode()),
			zap.Int("error_code", response.ErrorCode),
			zap.String("description", response.Description),
		)
		return fmt.Errorf("%s: %s (code %d)", method, response.Description, response.ErrorCode)
	}
	if out != nil && len(response.Result) > 0 {
		if err := json.Unmarshal(response.Result, out); err != nil {
			return fmt.Errorf("unmarshal %s result: %w", method, err)
		}
	}
	return nil
}

// GetMe verifies the token and returns the bot identity.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var user User
	if err := c.call(ctx, "getMe", map[string]any{}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUpdates long-polls for updates starting at offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeoutSeconds int) ([]Update, error) {
	body := map[string]any{
		"offset":          offset,
		"timeout":         timeoutSeconds,
		"allowed_updates": []string{"message", "callback_query"},
	}
	var updates []Update
	if err := c.call(ctx, "getUpdates", body, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// SendMessage delivers text to a chat, optionally with an inline keyboard.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, markup *InlineKeyboardMarkup) (*Message, error) {
	body := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if markup != nil {
		body["reply_markup"] = markup
	}
	var message Message
	if err := c.call(ctx, "sendMessage", body, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// SendDocument uploads a local file to a chat.
func (c *Client) SendDocument(ctx context.Context, chatID int64, path string) error {
	var response apiResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFile("document", path).
		SetFormData(map[string]string{"chat_id": strconv.FormatInt(chatID, 10)}).
		SetResult(&response).
		Post("/sendDocument")
	if err != nil {
		return fmt.Errorf("call sendDocument: %w", err)
	}
	if !response.OK {
		c.logger.Error("Bot API returned error",
			zap.String("method", "sendDocument"),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("description", response.Description),
		)
		return fmt.Errorf("sendDocument: %s (code %d)", response.Description, response.ErrorCode)
	}
	return nil
}

// AnswerCallbackQuery acknowledges a button press.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID string, text string, showAlert bool) error {
	body := map[string]any{
		"callback_query_id": callbackID,
	}
	if text != "" {
		body["text"] = text
		body["show_alert"] = showAlert
	}
	return c.call(ctx, "answerCallbackQuery", body, nil)
}
