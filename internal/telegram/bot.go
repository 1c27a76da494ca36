// Package telegram provides the Telegram Bot API front end: sending
// replies and long-polling for user commands.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const apiBase = "https://api.telegram.org/bot"

// Bot is a minimal Telegram Bot API client driven by long polling.
type Bot struct {
	token  string
	chatID string
	client *http.Client
	logger zerolog.Logger
}

// NewBot creates a Telegram bot client.
func NewBot(token, chatID string, logger zerolog.Logger) *Bot {
	return &Bot{
		token:  token,
		chatID: chatID,
		client: &http.Client{Timeout: 35 * time.Second},
		logger: logger,
	}
}

// Send sends a message to the configured chat.
func (b *Bot) Send(text string) error {
	payload := map[string]string{
		"chat_id": b.chatID,
		"text":    text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	resp, err := b.client.Post(apiBase+b.token+"/sendMessage", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// update represents a Telegram update received through long polling.
type update struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
	} `json:"message"`
}

// Handler is called with the text of each received command and returns
// the reply to send, or "" for no reply.
type Handler func(ctx context.Context, text string) string

// Poll long-polls for commands and dispatches them to the handler.
// Blocks until ctx is cancelled.
func (b *Bot) Poll(ctx context.Context, handler Handler) {
	offset := 0

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Telegram polling stopped")
			return
		default:
		}

		updates, err := b.getUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			b.logger.Warn().Err(err).Msg("Polling request failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
			continue
		}

		for _, u := range updates {
			offset = u.UpdateID + 1
			if u.Message == nil || u.Message.Text == "" {
				continue
			}
			b.logger.Debug().Str("command", u.Message.Text).Msg("Received command")
			if reply := handler(ctx, u.Message.Text); reply != "" {
				if err := b.Send(reply); err != nil {
					b.logger.Error().Err(err).Msg("Failed to send reply")
				}
			}
		}
	}
}

func (b *Bot) getUpdates(ctx context.Context, offset int) ([]update, error) {
	url := fmt.Sprintf("%s%s/getUpdates?offset=%d&timeout=30", apiBase, b.token, offset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create polling request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poll updates: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read polling response: %w", err)
	}

	var result struct {
		OK     bool     `json:"ok"`
		Result []update `json:"result"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode polling response: %w", err)
	}
	if !result.OK {
		return nil, fmt.Errorf("telegram getUpdates returned not ok")
	}
	return result.Result, nil
}
