package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetMe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/getMe", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"id":123,"is_bot":true,"first_name":"Журнал","username":"plavka_bot"}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "TOKEN", zap.NewNop())
	me, err := c.GetMe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(123), me.ID)
	assert.Equal(t, "plavka_bot", me.Username)
}

func TestSendMessage(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"message_id":55}}`))
	}))
	defer server.Close()

	markup := &InlineKeyboardMarkup{
		InlineKeyboard: [][]InlineKeyboardButton{
			{{Text: "кнопка", CallbackData: "data"}},
		},
	}

	c := NewClient(server.URL, "TOKEN", zap.NewNop())
	msg, err := c.SendMessage(context.Background(), 42, "привет", markup)
	require.NoError(t, err)
	assert.Equal(t, 55, msg.MessageID)

	assert.Equal(t, float64(42), got["chat_id"])
	assert.Equal(t, "привет", got["text"])
	assert.NotNil(t, got["reply_markup"])
}

func TestAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "BAD", zap.NewNop())
	_, err := c.GetMe(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unauthorized")
}

func TestGetUpdates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(7), body["offset"])
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"message_id":1,"chat":{"id":42},"text":"x"}}]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "TOKEN", zap.NewNop())
	updates, err := c.GetUpdates(context.Background(), 7, 0)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, int64(7), updates[0].UpdateID)
	require.NotNil(t, updates[0].Message)
	assert.Equal(t, int64(42), updates[0].Message.Chat.ID)
}

func TestSendDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plavka.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendDocument", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "42", r.FormValue("chat_id"))
		_, header, err := r.FormFile("document")
		require.NoError(t, err)
		assert.Equal(t, "plavka.xlsx", header.Filename)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"message_id":9}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "TOKEN", zap.NewNop())
	require.NoError(t, c.SendDocument(context.Background(), 42, path))
}
