package bot

import (
	"context"
	"fmt"

	"wb-parser-bot/internal/logger"
	"wb-parser-bot/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotAPI is the subset of *tgbotapi.BotAPI the poller uses.
type BotAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Handler produces the replies for one message text.
type Handler interface {
	Handle(ctx context.Context, text string) []Reply
}

var (
	_ BotAPI  = (*tgbotapi.BotAPI)(nil)
	_ Handler = (*Relay)(nil)
)

// Telegram long-polls updates and answers text messages through a Handler.
type Telegram struct {
	api         BotAPI
	handler     Handler
	workerCount int
	logger      logger.Logger
}

func NewTelegram(api BotAPI, handler Handler, workerCount int, logger logger.Logger) *Telegram {
	return &Telegram{
		api:         api,
		handler:     handler,
		workerCount: workerCount,
		logger:      logger,
	}
}

// Run polls for updates until ctx is cancelled or the update channel closes.
// Messages are handled concurrently by workerCount workers.
func (t *Telegram) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.api.GetUpdatesChan(u)

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
		case <-done:
		}
	}()

	t.logger.Infof("Bot started, waiting for messages...")
	return worker.StartWorkerPool(ctx, (<-chan tgbotapi.Update)(updates), t.workerCount,
		func(ctx context.Context, update tgbotapi.Update) error {
			if err := t.handleUpdate(ctx, update); err != nil {
				t.logger.Errorf("Failed to handle update %d: %v", update.UpdateID, err)
				return err
			}
			return nil
		})
}

func (t *Telegram) handleUpdate(ctx context.Context, update tgbotapi.Update) (err error) {
	msg := update.Message
	if msg == nil || msg.Text == "" || msg.IsCommand() {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", worker.ErrPanic, r)
		}
	}()

	for _, reply := range t.handler.Handle(ctx, msg.Text) {
		out := tgbotapi.NewMessage(msg.Chat.ID, reply.Text)
		out.ParseMode = reply.ParseMode
		out.ReplyToMessageID = msg.MessageID
		out.DisableWebPagePreview = true

		if _, err := t.api.Send(out); err != nil {
			return fmt.Errorf("failed to send reply to chat %d: %w", msg.Chat.ID, err)
		}
	}
	return nil
}
