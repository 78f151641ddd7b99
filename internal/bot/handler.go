package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/riefgeister/expansbot/internal/model"
	"github.com/riefgeister/expansbot/internal/service"
)

func (b *Bot) handleUpdate(update tgbotapi.Update, logger *slog.Logger) error {
	if update.Message == nil && update.CallbackQuery == nil {
		return nil
	}

	if update.Message != nil && update.Message.IsCommand() {
		return b.handleCommand(update.Message, logger)
	}

	if update.CallbackQuery != nil {
		return b.handleCallback(update.CallbackQuery, logger)
	}

	return b.handleMessage(update.Message)
}

func (b *Bot) handleCommand(message *tgbotapi.Message, logger *slog.Logger) error {
	user := userOf(message.From)

	switch message.Command() {
	case "start", "help":
		b.handleStart(message)
	case "expense":
		b.sendReply(message.Chat.ID, b.dialog.StartExpense(user))
	case "cancel":
		b.sendReply(message.Chat.ID, b.dialog.Cancel(user))
	case "stats":
		b.handleStats(message, logger)
	}
	return nil
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	b.send(tgbotapi.NewMessage(message.Chat.ID,
		"Welcome to the expense tracker! 💰\n\n"+
			"/expense - record a new expense\n"+
			"/stats [today|week|month] [all] - totals by category\n"+
			"/cancel - abandon the current entry"))
}

func (b *Bot) handleStats(message *tgbotapi.Message, logger *slog.Logger) {
	period, scope := service.ParseStatsQuery(strings.Fields(message.CommandArguments()))

	summary, err := b.stats.Summarize(context.Background(), userOf(message.From), period, scope)
	if err != nil {
		logger.Error("aggregation failed", "error", err)
		b.send(tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("⚠️ Could not read the ledger: %v", err)))
		return
	}

	b.send(tgbotapi.NewMessage(message.Chat.ID, formatSummary(summary)))

	png, err := b.charts.BreakdownPie(summary)
	if err != nil {
		// Chart failures degrade to the text reply already sent.
		logger.Warn("breakdown chart skipped", "error", err)
		return
	}
	if len(png) > 0 {
		photo := tgbotapi.NewPhoto(message.Chat.ID, tgbotapi.FileBytes{Name: "breakdown.png", Bytes: png})
		b.send(photo)
	}
}

func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery, logger *slog.Logger) error {
	// Answer first so the client drops its loading indicator.
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		logger.Warn("callback ack failed", "error", err)
	}

	label, ok := strings.CutPrefix(callback.Data, "cat:")
	if !ok || callback.Message == nil {
		return nil
	}

	reply := b.dialog.SelectCategory(context.Background(), userOf(callback.From), label)

	// Replace the keyboard message in place; the selection prompt is no
	// longer actionable.
	b.send(tgbotapi.NewEditMessageText(callback.Message.Chat.ID, callback.Message.MessageID, reply.Text))
	return nil
}

func (b *Bot) handleMessage(message *tgbotapi.Message) error {
	if message == nil || message.From == nil {
		return nil
	}

	reply, handled := b.dialog.HandleText(userOf(message.From), message.Text)
	if !handled {
		// Nothing in progress for this user; stay quiet.
		return nil
	}

	b.sendReply(message.Chat.ID, reply)
	return nil
}

func userOf(from *tgbotapi.User) model.User {
	if from == nil {
		return model.User{}
	}
	return model.User{ID: from.ID, DisplayName: from.UserName}
}

func formatSummary(s *service.Summary) string {
	scopeLabel := "just you"
	if s.Scope == service.ScopeAll {
		scopeLabel = "all users"
	}

	if s.Empty() {
		return fmt.Sprintf("No expenses recorded %s (%s).", periodLabel(s.Period), scopeLabel)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Expenses %s (%s)\n", periodLabel(s.Period), scopeLabel)
	fmt.Fprintf(&sb, "Total: %s over %d entries\n", service.FormatAmount(s.Total), s.Count)
	for _, ct := range s.Breakdown {
		fmt.Fprintf(&sb, "• %s: %s\n", ct.Category, service.FormatAmount(ct.Total))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func periodLabel(p service.Period) string {
	switch p {
	case service.PeriodToday:
		return "today"
	case service.PeriodWeek:
		return "this week"
	default:
		return "this month"
	}
}
