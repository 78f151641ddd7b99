package bot

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/riefgeister/expansbot/internal/charts"
	"github.com/riefgeister/expansbot/internal/service"
)

type Bot struct {
	api    *tgbotapi.BotAPI
	dialog *service.Dialog
	stats  *service.Aggregator
	charts *charts.ChartGenerator
	logger *slog.Logger
}

func NewBot(token string, dialog *service.Dialog, stats *service.Aggregator, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:    api,
		dialog: dialog,
		stats:  stats,
		charts: charts.NewChartGenerator(),
		logger: logger,
	}, nil
}

// Start runs the bot in long polling mode.
func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	for update := range updates {
		b.process(update)
	}
	return nil
}

// StartWebhook registers <baseURL>/telegram/<token> with Telegram and serves
// updates over HTTP on the given port instead of polling.
func (b *Bot) StartWebhook(baseURL, port string) error {
	path := "/telegram/" + b.api.Token
	wh, err := tgbotapi.NewWebhook(baseURL + path)
	if err != nil {
		return fmt.Errorf("build webhook config: %w", err)
	}
	if _, err := b.api.Request(wh); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	b.logger.Info("webhook registered", "url", baseURL+path)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, "OK")
	})
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "read failed", http.StatusBadRequest)
			return
		}
		if err := b.HandleWebhook(body); err != nil {
			b.logger.Error("webhook update rejected", "error", err)
			http.Error(w, "bad update", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, "ok")
	})

	return http.ListenAndServe(":"+port, mux)
}

// HandleWebhook decodes one webhook body and processes the update.
func (b *Bot) HandleWebhook(body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return err
	}

	b.process(update)
	return nil
}

// process contains one update's failures: errors are logged, panics are
// recovered and answered generically, and other users keep being served.
func (b *Bot) process(update tgbotapi.Update) {
	logger := b.logger.With("trace_id", uuid.NewString(), "update_id", update.UpdateID)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("update handling panicked", "panic", r)
			if chatID, ok := chatOf(update); ok {
				b.send(tgbotapi.NewMessage(chatID, "❌ Something went wrong, please try again."))
			}
		}
	}()

	if err := b.handleUpdate(update, logger); err != nil {
		logger.Error("update handling failed", "error", err)
	}
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.logger.Warn("send failed", "error", err)
	}
}

func (b *Bot) sendReply(chatID int64, reply service.Reply) {
	msg := tgbotapi.NewMessage(chatID, reply.Text)
	if len(reply.Categories) > 0 {
		msg.ReplyMarkup = categoryKeyboard(reply.Categories)
	}
	b.send(msg)
}

func chatOf(update tgbotapi.Update) (int64, bool) {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID, true
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		return update.CallbackQuery.Message.Chat.ID, true
	}
	return 0, false
}
