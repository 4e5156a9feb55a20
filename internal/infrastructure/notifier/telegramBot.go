package notifier

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"nexaway/internal/domain/service/agency"
)

// TelegramBot pushes agency lifecycle events to the operations chat.
type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Run drains the event channel until it closes or the context ends.
func (b *TelegramBot) Run(ctx context.Context, events <-chan agency.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := b.SendEvent(ctx, event); err != nil {
				logger(ctx).Error("failed to send event", "error", err)
			}
		}
	}
}

func (b *TelegramBot) SendEvent(ctx context.Context, event agency.Event) error {
	var text string

	switch event.Type {
	case agency.EventRegistered:
		text = fmt.Sprintf(
			"🆕 <b>New agency registered</b>\n\n"+
				"🏢 <b>Name:</b> %s\n"+
				"🆔 <b>Tax ID:</b> %s\n"+
				"📊 <b>Trust score:</b> %d",
			event.Name,
			event.TaxID,
			event.Score,
		)
	case agency.EventRejected:
		text = fmt.Sprintf(
			"⛔ <b>Registration rejected</b>\n\n"+
				"🏢 <b>Name:</b> %s\n"+
				"🆔 <b>Tax ID:</b> %s\n"+
				"📊 <b>Trust score:</b> %d",
			event.Name,
			event.TaxID,
			event.Score,
		)
	case agency.EventApproved:
		text = fmt.Sprintf(
			"✅ <b>Agency approved</b>\n\n"+
				"🏢 <b>Name:</b> %s\n"+
				"🆔 <b>Tax ID:</b> %s",
			event.Name,
			event.TaxID,
		)
	default:
		text = fmt.Sprintf("Agency %s: %s", event.TaxID, event.Type)
	}

	msg := tu.Message(
		tu.ID(b.chatID),
		text,
	).WithParseMode(telego.ModeHTML)

	_, err := b.bot.SendMessage(ctx, msg)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// SendText sends a plain text message.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	_, err := b.bot.SendMessage(ctx, msg)
	return err
}
