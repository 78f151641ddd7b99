package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// categoryKeyboard renders one button per configured category. The callback
// payload carries the label under a "cat:" prefix; handleCallback strips it
// once before the dialog engine sees the selection.
func categoryKeyboard(categories []string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	for _, category := range categories {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(category, "cat:"+category),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
