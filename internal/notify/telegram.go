package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/studydeck/coursecart/internal/config"
	"github.com/studydeck/coursecart/internal/domain"
)

const maxMessageLen = 4096

// TelegramSink posts outcomes to an ops chat, one topic per outcome kind.
// No-op when LOG_TELEGRAM_CHAT_ID is unset.
type TelegramSink struct {
	bot *bot.Bot
	cfg *config.Config
}

func NewTelegramSink(b *bot.Bot, cfg *config.Config) *TelegramSink {
	return &TelegramSink{bot: b, cfg: cfg}
}

func (t *TelegramSink) Publish(outcome domain.Outcome) {
	if t.cfg.LogTelegramChatID == 0 {
		return
	}

	message := fmt.Sprintf("%s *%s*\n\n%s\n*Time:* %s",
		kindEmoji(outcome.Kind), outcome.Title, outcome.Description,
		time.Now().Format("2006-01-02 15:04:05"))

	if len([]rune(message)) > maxMessageLen {
		message = string([]rune(message)[:maxMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          t.cfg.LogTelegramChatID,
		Text:            message,
		ParseMode:       "Markdown",
		MessageThreadID: t.topicID(outcome.Kind),
	})
	if err != nil {
		slog.Error("failed to send telegram notification", "kind", outcome.Kind, "error", err)
	}
}

func (t *TelegramSink) topicID(kind domain.OutcomeKind) int {
	switch kind {
	case domain.OutcomeError:
		return t.cfg.LogTopicError
	case domain.OutcomeSuccess:
		return t.cfg.LogTopicSuccess
	default:
		return t.cfg.LogTopicInfo
	}
}

func kindEmoji(kind domain.OutcomeKind) string {
	switch kind {
	case domain.OutcomeError:
		return "❌"
	case domain.OutcomeSuccess:
		return "✅"
	default:
		return "ℹ️"
	}
}
