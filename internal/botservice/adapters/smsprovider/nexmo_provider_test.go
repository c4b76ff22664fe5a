package smsprovider

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNexmoSMSProvider_Send_Success(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "test-key", r.PostForm.Get("api_key"))
		assert.Equal(t, "test-secret", r.PostForm.Get("api_secret"))
		assert.Equal(t, "15551239999", r.PostForm.Get("from"))
		assert.Equal(t, "15551230000", r.PostForm.Get("to"))
		assert.Equal(t, "Your coupon code is SAVE20", r.PostForm.Get("text"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"message-count": "1",
			"messages": [{"status": "0", "message-id": "0A0000000123ABCD1"}]
		}`))
	}))
	defer server.Close()

	provider := NewNexmoSMSProvider(logger, server.URL, "test-key", "test-secret", server.Client())

	resp, err := provider.Send(context.Background(), SMSRequestData{
		SenderID:  "15551239999",
		Recipient: "15551230000",
		Content:   "Your coupon code is SAVE20",
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "0A0000000123ABCD1", resp.ProviderMessageID)
	assert.Equal(t, "nexmo", resp.ProviderName)
}

func TestNexmoSMSProvider_Send_RejectedByProvider(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Nexmo answers 200 even for rejections; the message status carries the
	// real outcome.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"message-count": "1",
			"messages": [{"status": "4", "error-text": "Bad Credentials"}]
		}`))
	}))
	defer server.Close()

	provider := NewNexmoSMSProvider(logger, server.URL, "bad-key", "bad-secret", server.Client())

	resp, err := provider.Send(context.Background(), SMSRequestData{
		SenderID:  "15551239999",
		Recipient: "15551230000",
		Content:   "hello",
	})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.ErrorMessage, "Bad Credentials")
}

func TestNexmoSMSProvider_Send_HTTPError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	provider := NewNexmoSMSProvider(logger, server.URL, "test-key", "test-secret", server.Client())

	resp, err := provider.Send(context.Background(), SMSRequestData{
		SenderID:  "15551239999",
		Recipient: "15551230000",
		Content:   "hello",
	})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestNexmoSMSProvider_Send_EmptyMessageList(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message-count": "0", "messages": []}`))
	}))
	defer server.Close()

	provider := NewNexmoSMSProvider(logger, server.URL, "test-key", "test-secret", server.Client())

	resp, err := provider.Send(context.Background(), SMSRequestData{
		SenderID:  "15551239999",
		Recipient: "15551230000",
		Content:   "hello",
	})
	require.NoError(t, err)
	assert.False(t, resp.Success)
}

func TestMockSMSProvider_CountsSends(t *testing.T) {
	provider := NewMockSMSProvider(slog.New(slog.NewTextHandler(io.Discard, nil)))

	resp, err := provider.Send(context.Background(), SMSRequestData{Recipient: "15551230000", Content: "hi"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(1), provider.SendCount())

	provider.FailSends = true
	resp, err = provider.Send(context.Background(), SMSRequestData{Recipient: "15551230000", Content: "hi"})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, int64(2), provider.SendCount())
}
