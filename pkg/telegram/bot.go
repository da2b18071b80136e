// pkg/telegram/bot.go
package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Clean1ines/vidgen/pkg/logging"
)

// Bot представляет Telegram-бота.
type Bot struct {
	api    *tgbotapi.BotAPI
	logger *logging.Logger
}

// NewBot создает нового Telegram-бота.
func NewBot(token string, logger *logging.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	api.Debug = false
	return &Bot{api: api, logger: logger}, nil
}

// SetWebhook регистрирует webhook-URL бота в Telegram.
func (b *Bot) SetWebhook(url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return err
	}
	_, err = b.api.Request(wh)
	return err
}

// SendText отправляет текстовое сообщение и возвращает его message_id.
func (b *Bot) SendText(chatID int64, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	sent, err := b.api.Send(msg)
	if err != nil {
		b.logger.Errorf("Ошибка отправки сообщения в чат %d: %v", chatID, err)
		return 0, err
	}
	return sent.MessageID, nil
}

// SendKeyboard отправляет сообщение с inline-клавиатурой.
func (b *Bot) SendKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	_, err := b.api.Send(msg)
	return err
}

// EditText заменяет текст ранее отправленного сообщения.
func (b *Bot) EditText(chatID int64, messageID int, text string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	_, err := b.api.Request(edit)
	return err
}

// SendVideoFile загружает локальный MP4 в чат.
func (b *Bot) SendVideoFile(chatID int64, path, caption string) error {
	video := tgbotapi.NewVideo(chatID, tgbotapi.FilePath(path))
	video.Caption = caption
	_, err := b.api.Send(video)
	return err
}

// AnswerCallback гасит "часики" на нажатой inline-кнопке.
func (b *Bot) AnswerCallback(callbackID string) {
	b.api.Request(tgbotapi.NewCallback(callbackID, ""))
}

// FileURL возвращает прямую ссылку на файл, загруженный пользователем.
func (b *Bot) FileURL(fileID string) (string, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", err
	}
	return file.Link(b.api.Token), nil
}
