package telegram

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Core is the subset of assistant operations the bot drives.
type Core interface {
	CreatePlans(ctx context.Context, tickers []string) (string, error)
	Status(ctx context.Context, tickers []string) (string, error)
	Track(ctx context.Context, ticker string, enabled bool) (string, error)
}

// Reply strings preserved from the original bot.
const (
	replyStart    = "Привет! Используйте /watch <тикеры> чтобы добавить их."
	replyTrackUse = "Использование: /track on|off TICKER"
	replyUnknown  = "Неизвестная команда. Используйте /watch или /plan."
)

// Commands dispatches bot commands to the assistant and keeps the
// current watch-list set by /watch.
type Commands struct {
	core   Core
	logger zerolog.Logger

	mu      sync.Mutex
	tickers []string
}

// NewCommands creates a command dispatcher with an initial watch-list.
func NewCommands(core Core, initial []string, logger zerolog.Logger) *Commands {
	tickers := make([]string, 0, len(initial))
	for _, t := range initial {
		tickers = append(tickers, strings.ToUpper(strings.TrimSpace(t)))
	}
	return &Commands{
		core:    core,
		logger:  logger,
		tickers: tickers,
	}
}

// Watchlist returns a copy of the current watch-list.
func (c *Commands) Watchlist() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.tickers...)
}

// Handle parses one command message and returns the reply text.
func (c *Commands) Handle(ctx context.Context, text string) string {
	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) == 0 {
		return ""
	}

	switch command(parts[0]) {
	case "/start":
		return replyStart

	case "/watch":
		return c.handleWatch(parts[1:])

	case "/plan":
		reply, err := c.core.CreatePlans(ctx, c.Watchlist())
		if err != nil {
			c.logger.Error().Err(err).Msg("Plan command failed")
		}
		return reply

	case "/status":
		reply, err := c.core.Status(ctx, c.Watchlist())
		if err != nil {
			c.logger.Error().Err(err).Msg("Status command failed")
		}
		return reply

	case "/track":
		return c.handleTrack(ctx, parts[1:])

	default:
		return replyUnknown
	}
}

// command strips a bot-name suffix ("/plan@my_bot") from a command word.
func command(word string) string {
	if i := strings.IndexByte(word, '@'); i > 0 {
		return word[:i]
	}
	return word
}

func (c *Commands) handleWatch(args []string) string {
	tickers := make([]string, 0, len(args))
	for _, a := range args {
		tickers = append(tickers, strings.ToUpper(a))
	}

	c.mu.Lock()
	c.tickers = tickers
	c.mu.Unlock()

	return "Добавлены тикеры: " + strings.Join(tickers, ", ")
}

func (c *Commands) handleTrack(ctx context.Context, args []string) string {
	if len(args) < 2 || (args[0] != "on" && args[0] != "off") {
		return replyTrackUse
	}

	enabled := args[0] == "on"
	ticker := strings.ToUpper(args[1])

	reply, err := c.core.Track(ctx, ticker, enabled)
	if err != nil && reply == "" {
		c.logger.Error().Err(err).Str("ticker", ticker).Msg("Track command failed")
		return replyTrackUse
	}
	return reply
}
