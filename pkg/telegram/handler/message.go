package handler

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Clean1ines/vidgen/pkg/pubsub"
	"github.com/Clean1ines/vidgen/pkg/telegram/middleware"
	"github.com/Clean1ines/vidgen/pkg/telegram/service"
)

type MessageHandler struct {
	d Deps
}

func NewMessageHandler(d Deps) *MessageHandler {
	return &MessageHandler{d: d}
}

// HandleMessage разбирает входящее сообщение: команды, файлы, текст.
func (h *MessageHandler) HandleMessage(msg *tgbotapi.Message) {
	ctx := context.Background()
	chatID := msg.Chat.ID

	if !middleware.RateLimit(h.d.Redis, msg.From.ID) {
		h.d.Bot.SendText(chatID, "Please wait before sending another request")
		return
	}

	if msg.IsCommand() {
		h.handleCommand(ctx, msg)
		return
	}

	switch {
	case len(msg.Photo) > 0:
		// Telegram присылает несколько размеров, берем самый крупный.
		photo := msg.Photo[len(msg.Photo)-1]
		h.d.Manual.HandlePhoto(ctx, chatID, photo.FileID)

	case msg.Audio != nil:
		if h.d.Manual.HasImage(ctx, chatID) {
			h.d.Manual.HandleAudio(ctx, chatID, msg.Audio.FileID, audioTitle(msg.Audio))
			return
		}
		h.d.Audio.Handle(ctx, chatID, service.AudioMeta{
			FileID:    msg.Audio.FileID,
			Performer: msg.Audio.Performer,
			Title:     msg.Audio.Title,
			FileName:  msg.Audio.FileName,
		})

	case msg.Text != "":
		h.publishSearchTask(ctx, chatID, msg)

	default:
		h.d.Bot.SendText(chatID, "Please select a mode using /start")
	}
}

// publishSearchTask ставит текстовый запрос в очередь; видео собирает
// пул воркеров, webhook при этом не держится открытым.
func (h *MessageHandler) publishSearchTask(ctx context.Context, chatID int64, msg *tgbotapi.Message) {
	task := pubsub.Task{
		ChatID:    chatID,
		MessageID: msg.MessageID,
		Text:      msg.Text,
	}
	if err := h.d.Publisher.PublishTask(ctx, task); err != nil {
		h.d.Logger.Errorf("Ошибка публикации задачи для чата %d: %v", chatID, err)
		h.d.Bot.SendText(chatID, fmt.Sprintf("❌ Error: %v", err))
	}
}

func (h *MessageHandler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start", "modes":
		h.sendModeMenu(chatID)
	case "help":
		h.d.Bot.SendText(chatID, "🆘 VidGen Help\n\n"+
			"Modes:\n"+
			"📸 Manual: Send an Image, then reply with Audio.\n"+
			"🎵 Audio Only: Send Audio, I'll find the cover art. (⭐ Most Reliable!)\n"+
			"🔗 Link: Send a DSP link or song name. (⚠️ 50/50 - may not find audio)\n\n"+
			"Commands:\n"+
			"/modes - Show Mode Menu\n"+
			"/cancel - Cancel current operation\n"+
			"/help - Show this message")
	case "cancel":
		h.d.Locks.Release(chatID)
		h.d.Redis.ClearChatState(ctx, chatID)
		h.d.Bot.SendText(chatID, "🚫 Operation cancelled. Locks released & state cleared.")
	case "logs":
		if !middleware.IsAdmin(msg.From.ID) {
			h.d.Bot.SendText(chatID, "⛔ Access denied. Admin only.")
			return
		}
		h.d.Bot.SendText(chatID, "📋 VidGen Logs\n\n"+
			"All bot activity is written to Cloud Logging.\n"+
			"Open the GCP console and filter by the \"vidgen\" log name.")
	default:
		h.d.Bot.SendText(chatID, "Unknown command. Use /start")
	}
}

func (h *MessageHandler) sendModeMenu(chatID int64) {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📸 Manual Mode (Image + Audio)", "mode_manual"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎵 Audio Only Mode ⭐ (Best!)", "mode_audio"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔗 Link Mode (50/50)", "mode_link"),
		),
	)
	h.d.Bot.SendKeyboard(chatID, "Welcome to VidGen! 🎵🎥\nSelect a mode:", kb)
}

// audioTitle строит отображаемое название из тегов файла.
func audioTitle(audio *tgbotapi.Audio) string {
	if audio.Performer != "" && audio.Title != "" {
		return audio.Performer + " - " + audio.Title
	}
	return audio.Title
}
