package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Clean1ines/vidgen/pkg/logging"
	"github.com/Clean1ines/vidgen/pkg/media"
	"github.com/Clean1ines/vidgen/pkg/resolver"
	"github.com/Clean1ines/vidgen/pkg/storage"
)

// ManualService обрабатывает Manual Mode: картинка, затем аудио.
// file_id картинки хранится в Redis с коротким TTL.
type ManualService struct {
	Bot        Sender
	Redis      *storage.RedisClient
	Muxer      VideoMuxer
	Locks      *resolver.ChatLocks
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// NewManualService собирает сервис ручного режима.
func NewManualService(bot Sender, redis *storage.RedisClient, mx VideoMuxer, locks *resolver.ChatLocks, logger *logging.Logger) *ManualService {
	return &ManualService{
		Bot:        bot,
		Redis:      redis,
		Muxer:      mx,
		Locks:      locks,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		Logger:     logger,
	}
}

// HandlePhoto запоминает последнюю картинку чата.
func (s *ManualService) HandlePhoto(ctx context.Context, chatID int64, fileID string) {
	if err := s.Redis.SetChatImage(ctx, chatID, fileID); err != nil {
		s.Logger.Errorf("Ошибка сохранения картинки чата %d: %v", chatID, err)
		s.Bot.SendText(chatID, "❌ Error: couldn't store the image, please try again")
		return
	}
	s.Bot.SendText(chatID, "📸 Got image! Now send me an Audio file.")
}

// HasImage сообщает, ждет ли чат аудио к ранее присланной картинке.
func (s *ManualService) HasImage(ctx context.Context, chatID int64) bool {
	return s.Redis.GetChatImage(ctx, chatID) != ""
}

// HandleAudio склеивает присланное аудио с сохранённой картинкой.
func (s *ManualService) HandleAudio(ctx context.Context, chatID int64, audioFileID, title string) {
	imageFileID := s.Redis.GetChatImage(ctx, chatID)
	if imageFileID == "" {
		s.Bot.SendText(chatID, "📸 Manual Mode\n\nPlease send me an Image first.")
		return
	}

	if !s.Locks.TryAcquire(chatID) {
		s.Logger.Warnf("Чат %d уже обрабатывается, аудио отброшено", chatID)
		return
	}
	defer s.Locks.Release(chatID)

	assets := media.NewAssetPaths()
	defer assets.Cleanup()

	imageURL, err := s.Bot.FileURL(imageFileID)
	if err != nil {
		s.Bot.SendText(chatID, fmt.Sprintf("❌ Error: %v", err))
		return
	}
	audioURL, err := s.Bot.FileURL(audioFileID)
	if err != nil {
		s.Bot.SendText(chatID, fmt.Sprintf("❌ Error: %v", err))
		return
	}
	if err := media.DownloadFile(ctx, s.HTTPClient, imageURL, assets.Image); err != nil {
		s.Bot.SendText(chatID, fmt.Sprintf("❌ Error: %v", err))
		return
	}
	if err := media.DownloadFile(ctx, s.HTTPClient, audioURL, assets.Audio); err != nil {
		s.Bot.SendText(chatID, fmt.Sprintf("❌ Error: %v", err))
		return
	}

	msgID, _ := s.Bot.SendText(chatID, "Merging... 🎬")
	if err := s.Muxer.Merge(ctx, assets.Image, assets.Audio, assets.Output); err != nil {
		s.Logger.Errorf("Ошибка склейки: %v", err)
		s.Bot.SendText(chatID, fmt.Sprintf("❌ Error: %v", err))
		return
	}
	if msgID != 0 {
		s.Bot.EditText(chatID, msgID, "Merging... ✅")
	}

	if title == "" {
		title = "Your Track"
	}
	s.Bot.SendText(chatID, "🚀 Uploading...")
	caption := fmt.Sprintf("🎵 %s\nGenerated by VidGen", title)
	if err := s.Bot.SendVideoFile(chatID, assets.Output, caption); err != nil {
		s.Logger.Errorf("Ошибка отправки видео в чат %d: %v", chatID, err)
		s.Bot.SendText(chatID, fmt.Sprintf("❌ Error: %v", err))
		return
	}

	// Картинка одноразовая: после успешной склейки состояние чата
	// очищается.
	s.Redis.DelChatImage(ctx, chatID)
}
