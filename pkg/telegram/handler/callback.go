package handler

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type CallbackHandler struct {
	d Deps
}

func NewCallbackHandler(d Deps) *CallbackHandler {
	return &CallbackHandler{d: d}
}

// HandleCallback обрабатывает выбор режима на inline-клавиатуре.
func (h *CallbackHandler) HandleCallback(cb *tgbotapi.CallbackQuery) {
	ctx := context.Background()
	chatID := cb.Message.Chat.ID

	switch cb.Data {
	case "mode_manual":
		h.d.Redis.SetChatMode(ctx, chatID, "manual")
		h.d.Bot.SendText(chatID, "📸 Manual Mode\n\nPlease send me an Image first.")
	case "mode_audio":
		h.d.Redis.SetChatMode(ctx, chatID, "audio")
		h.d.Bot.SendText(chatID, "🎵 Audio Only Mode\n\nPlease send me an Audio file.")
	case "mode_link":
		h.d.Redis.SetChatMode(ctx, chatID, "link")
		h.d.Bot.SendText(chatID, "🔗 Link/Search Mode\n\nSend me a YouTube Link OR just type a Song Name.\n(e.g. 'Drake God's Plan' - hyphen is optional!)")
	}

	// Гасим "часики" на кнопке.
	h.d.Bot.AnswerCallback(cb.ID)
}
