package handler

import (
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Clean1ines/vidgen/pkg/logging"
	"github.com/Clean1ines/vidgen/pkg/pubsub"
	"github.com/Clean1ines/vidgen/pkg/resolver"
	"github.com/Clean1ines/vidgen/pkg/storage"
	"github.com/Clean1ines/vidgen/pkg/telegram"
	"github.com/Clean1ines/vidgen/pkg/telegram/service"
)

// Deps – зависимости webhook-обработчика.
type Deps struct {
	Bot       *telegram.Bot
	Redis     *storage.RedisClient
	Publisher pubsub.Client
	Audio     *service.AudioService
	Manual    *service.ManualService
	Locks     *resolver.ChatLocks
	Logger    *logging.Logger
}

// WebhookHandler принимает обновления Telegram. Telegram повторяет
// доставку при любом не-200 ответе, поэтому обработка уходит в
// горутину, а сам хэндлер всегда отвечает 200 как можно быстрее.
func WebhookHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		if update.CallbackQuery != nil {
			go NewCallbackHandler(d).HandleCallback(update.CallbackQuery)
		} else if update.Message != nil {
			msg := update.Message
			// Дедупликация повторных доставок webhook.
			if !d.Redis.SeenMessage(r.Context(), msg.Chat.ID, msg.MessageID) {
				d.Logger.Infof("Повторная доставка сообщения %d:%d, игнорируем", msg.Chat.ID, msg.MessageID)
				w.WriteHeader(http.StatusOK)
				return
			}
			go NewMessageHandler(d).HandleMessage(msg)
		}

		w.WriteHeader(http.StatusOK)
	}
}
