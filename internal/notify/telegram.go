package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramNotifier sends digests through a Telegram bot chat.
type TelegramNotifier struct {
	token   string
	chatID  string
	baseURL string
	client  *http.Client
}

func NewTelegramNotifier(token, chatID string) (*TelegramNotifier, error) {
	if token == "" || chatID == "" {
		return nil, fmt.Errorf("telegram bot token and chat id must be provided")
	}
	return &TelegramNotifier{
		token:   token,
		chatID:  chatID,
		baseURL: telegramAPIBase,
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

func (n *TelegramNotifier) SendMessage(ctx context.Context, body string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"chat_id": n.chatID,
		"text":    body,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("telegram send failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read telegram response: %w", err)
	}

	var tr telegramResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return "", fmt.Errorf("unexpected telegram response (status %d): %w", resp.StatusCode, err)
	}
	if !tr.OK {
		return "", fmt.Errorf("telegram rejected message (status %d): %s", resp.StatusCode, tr.Description)
	}
	return strconv.FormatInt(tr.Result.MessageID, 10), nil
}
