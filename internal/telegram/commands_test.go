package telegram

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	apperrors "tinkoff-assistant/internal/errors"
)

// fakeCore records the operations driven by the command dispatcher.
type fakeCore struct {
	planTickers   []string
	statusTickers []string
	trackTicker   string
	trackEnabled  bool
	trackReply    string
	trackErr      error
}

func (f *fakeCore) CreatePlans(ctx context.Context, tickers []string) (string, error) {
	f.planTickers = tickers
	return "plans for " + strings.Join(tickers, ","), nil
}

func (f *fakeCore) Status(ctx context.Context, tickers []string) (string, error) {
	f.statusTickers = tickers
	return "status", nil
}

func (f *fakeCore) Track(ctx context.Context, ticker string, enabled bool) (string, error) {
	f.trackTicker = ticker
	f.trackEnabled = enabled
	return f.trackReply, f.trackErr
}

func TestHandleStart(t *testing.T) {
	c := NewCommands(&fakeCore{}, nil, zerolog.Nop())

	reply := c.Handle(context.Background(), "/start")
	if !strings.Contains(reply, "/watch") {
		t.Errorf("start reply = %q", reply)
	}
}

func TestHandleWatchReplacesWatchlist(t *testing.T) {
	core := &fakeCore{}
	c := NewCommands(core, []string{"GAZP"}, zerolog.Nop())

	reply := c.Handle(context.Background(), "/watch sber lkoh")
	if reply != "Добавлены тикеры: SBER, LKOH" {
		t.Errorf("watch reply = %q", reply)
	}
	if !reflect.DeepEqual(c.Watchlist(), []string{"SBER", "LKOH"}) {
		t.Errorf("watchlist = %v", c.Watchlist())
	}
}

func TestHandlePlanUsesWatchlist(t *testing.T) {
	core := &fakeCore{}
	c := NewCommands(core, []string{"SBER", "LKOH"}, zerolog.Nop())

	c.Handle(context.Background(), "/plan")
	if !reflect.DeepEqual(core.planTickers, []string{"SBER", "LKOH"}) {
		t.Errorf("plan tickers = %v", core.planTickers)
	}
}

func TestHandleStatus(t *testing.T) {
	core := &fakeCore{}
	c := NewCommands(core, []string{"SBER"}, zerolog.Nop())

	reply := c.Handle(context.Background(), "/status")
	if reply != "status" {
		t.Errorf("status reply = %q", reply)
	}
	if !reflect.DeepEqual(core.statusTickers, []string{"SBER"}) {
		t.Errorf("status tickers = %v", core.statusTickers)
	}
}

func TestHandleTrack(t *testing.T) {
	core := &fakeCore{trackReply: "Включено слежение для SBER"}
	c := NewCommands(core, nil, zerolog.Nop())

	reply := c.Handle(context.Background(), "/track on sber")
	if reply != "Включено слежение для SBER" {
		t.Errorf("track reply = %q", reply)
	}
	if core.trackTicker != "SBER" || !core.trackEnabled {
		t.Errorf("track called with %q enabled=%v", core.trackTicker, core.trackEnabled)
	}
}

func TestHandleTrackNoPlan(t *testing.T) {
	core := &fakeCore{trackReply: "Нет плана для слежения", trackErr: apperrors.ErrNoPlan}
	c := NewCommands(core, nil, zerolog.Nop())

	// The no-plan message is surfaced verbatim.
	reply := c.Handle(context.Background(), "/track on SBER")
	if reply != "Нет плана для слежения" {
		t.Errorf("reply = %q", reply)
	}
}

func TestHandleTrackUsage(t *testing.T) {
	c := NewCommands(&fakeCore{}, nil, zerolog.Nop())

	for _, cmd := range []string{"/track", "/track on", "/track maybe SBER"} {
		if reply := c.Handle(context.Background(), cmd); reply != replyTrackUse {
			t.Errorf("Handle(%q) = %q, want usage hint", cmd, reply)
		}
	}
}

func TestHandleTrackFailure(t *testing.T) {
	core := &fakeCore{trackErr: errors.New("db locked")}
	c := NewCommands(core, nil, zerolog.Nop())

	if reply := c.Handle(context.Background(), "/track off SBER"); reply != replyTrackUse {
		t.Errorf("reply = %q", reply)
	}
}

func TestHandleUnknownCommand(t *testing.T) {
	c := NewCommands(&fakeCore{}, nil, zerolog.Nop())

	if reply := c.Handle(context.Background(), "/help"); reply != replyUnknown {
		t.Errorf("reply = %q", reply)
	}
}

func TestHandleCommandWithBotSuffix(t *testing.T) {
	core := &fakeCore{}
	c := NewCommands(core, []string{"SBER"}, zerolog.Nop())

	c.Handle(context.Background(), "/plan@tassistant_bot")
	if !reflect.DeepEqual(core.planTickers, []string{"SBER"}) {
		t.Errorf("plan tickers = %v", core.planTickers)
	}
}
