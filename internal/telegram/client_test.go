package telegram

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tg-otp-service/internal/domain"
)

const testToken = "123:secret"

// params decodes the request parameters whether they were sent as JSON or as a form.
func params(t *testing.T, r *http.Request) map[string]string {
	t.Helper()
	out := map[string]string{}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		for k, v := range raw {
			if s, ok := v.(string); ok {
				out[k] = s
				continue
			}
			b, _ := json.Marshal(v)
			out[k] = string(b)
		}
		return out
	}

	require.NoError(t, r.ParseMultipartForm(1<<20))
	for k, v := range r.MultipartForm.Value {
		if len(v) > 0 {
			out[k] = strings.Trim(v[0], `"`)
		}
	}
	return out
}

func newTestClient(t *testing.T, url string, timeout time.Duration) *Client {
	t.Helper()
	client, err := NewClient(testToken, url, timeout)
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresToken(t *testing.T) {
	_, err := NewClient("", "", 0)
	assert.Error(t, err)
}

func TestSendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bot"+testToken+"/sendMessage", r.URL.Path)

		p := params(t, r)
		assert.Equal(t, "42", p["chat_id"])
		assert.Equal(t, "hello", p["text"])

		w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, time.Second)
	require.NoError(t, client.SendMessage(context.Background(), "42", "hello"))
}

func TestSendMessage_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, time.Second)
	err := client.SendMessage(context.Background(), "42", "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestSendMessage_NetworkErrorHidesToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := newTestClient(t, url, time.Second)
	err := client.SendMessage(context.Background(), "42", "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.NotContains(t, err.Error(), testToken)
}

func TestSendMessage_MalformedAPIURLHidesToken(t *testing.T) {
	client, err := NewClient(testToken, "http://bad host\x7f", time.Second)
	if err != nil {
		assert.NotContains(t, err.Error(), testToken)
		return
	}

	err = client.SendMessage(context.Background(), "42", "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.NotContains(t, err.Error(), testToken)
}

func TestSendMessage_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 20*time.Millisecond)
	err := client.SendMessage(context.Background(), "42", "hello")
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestGetChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bot"+testToken+"/getChat", r.URL.Path)
		assert.Equal(t, "42", params(t, r)["chat_id"])
		w.Write([]byte(`{"ok":true,"result":{"id":42,"type":"private","username":"alice","first_name":"Alice"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, time.Second)
	chat, err := client.GetChat(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, domain.Chat{ID: 42, Type: "private", Username: "alice", FirstName: "Alice"}, chat)
}

func TestGetChat_Malformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, time.Second)
	_, err := client.GetChat(context.Background(), "42")
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestSetWebhook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bot"+testToken+"/setWebhook", r.URL.Path)

		p := params(t, r)
		assert.Equal(t, "https://login.example.com/webhook", p["url"])
		assert.Equal(t, "s3cr3t", p["secret_token"])
		assert.Contains(t, p["allowed_updates"], "edited_message")

		w.Write([]byte(`{"ok":true,"result":true}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, time.Second)
	require.NoError(t, client.SetWebhook(context.Background(), "https://login.example.com/webhook", "s3cr3t"))
}

func TestDeleteWebhook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bot"+testToken+"/deleteWebhook", r.URL.Path)
		w.Write([]byte(`{"ok":true,"result":true}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, time.Second)
	require.NoError(t, client.DeleteWebhook(context.Background()))
}

func TestCommandFromUpdate(t *testing.T) {
	var update models.Update
	require.NoError(t, json.Unmarshal([]byte(`{
		"update_id": 1,
		"message": {"message_id": 5, "date": 0, "chat": {"id": 42, "type": "private", "username": "alice"}, "text": "  /start  "}
	}`), &update))

	chat, text, ok := CommandFromUpdate(&update)
	require.True(t, ok)
	assert.Equal(t, int64(42), chat.ID)
	assert.Equal(t, "alice", chat.Username)
	assert.Equal(t, "/start", text)
}

func TestCommandFromUpdate_EditedMessage(t *testing.T) {
	update := &models.Update{EditedMessage: &models.Message{Chat: models.Chat{ID: 7}, Text: "/chat_id"}}
	chat, text, ok := CommandFromUpdate(update)
	require.True(t, ok)
	assert.Equal(t, int64(7), chat.ID)
	assert.Equal(t, "/chat_id", text)
}

func TestCommandFromUpdate_Ignored(t *testing.T) {
	cases := []*models.Update{
		nil,
		{},
		{Message: &models.Message{Chat: models.Chat{ID: 42}, Text: "   "}},
		{Message: &models.Message{Text: "/start"}},
	}
	for i, update := range cases {
		_, _, ok := CommandFromUpdate(update)
		assert.False(t, ok, "case %d", i)
	}
}
