package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Clean1ines/vidgen/pkg/logging"
	"github.com/Clean1ines/vidgen/pkg/media"
	"github.com/Clean1ines/vidgen/pkg/resolver"
)

// SearchService обрабатывает Link/Search Mode: текст или ссылка →
// поиск аудио по цепочке источников → обложка → склейка → отправка.
type SearchService struct {
	Bot        Sender
	Resolver   TrackResolver
	Covers     CoverResolver
	Downloader AudioDownloader
	Muxer      VideoMuxer
	Locks      *resolver.ChatLocks
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// NewSearchService собирает сервис поиска.
func NewSearchService(bot Sender, tr TrackResolver, cr CoverResolver, dl AudioDownloader, mx VideoMuxer, locks *resolver.ChatLocks, logger *logging.Logger) *SearchService {
	return &SearchService{
		Bot:        bot,
		Resolver:   tr,
		Covers:     cr,
		Downloader: dl,
		Muxer:      mx,
		Locks:      locks,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		Logger:     logger,
	}
}

// Handle выполняет полный цикл одного запроса. Замок чата держится
// до конца запроса и снимается на любом пути выхода. Повторный запрос
// в занятом чате молча отбрасывается.
func (s *SearchService) Handle(ctx context.Context, chatID int64, text string) {
	if !s.Locks.TryAcquire(chatID) {
		s.Logger.Warnf("Чат %d уже обрабатывается, запрос отброшен", chatID)
		return
	}
	defer s.Locks.Release(chatID)

	track, target, kind, err := s.Resolver.Resolve(ctx, text)
	if err != nil {
		s.sendResolveError(chatID, err)
		return
	}

	if kind == resolver.KindDirectURL {
		s.Bot.SendText(chatID, "🔗 Processing Link...")
	}
	s.Bot.SendText(chatID, fmt.Sprintf("✅ Found: %s\n⬇️ Downloading...", track.Title))

	assets := media.NewAssetPaths()
	defer assets.Cleanup()

	fallbackQuery := target.SearchQuery()
	if fallbackQuery == "" {
		fallbackQuery = track.Title
	}
	coverURL := s.Covers.Resolve(ctx, target, fallbackQuery)

	if err := media.DownloadFile(ctx, s.HTTPClient, coverURL, assets.Image); err != nil {
		s.Logger.Errorf("Ошибка скачивания обложки %s: %v", coverURL, err)
		s.Bot.SendText(chatID, fmt.Sprintf("❌ Error: %v", err))
		return
	}

	if err := s.downloadAudio(ctx, track, assets.Audio); err != nil {
		s.Logger.Errorf("Ошибка скачивания аудио %s: %v", track.AudioURL, err)
		s.Bot.SendText(chatID, fmt.Sprintf("❌ Error: %v", err))
		return
	}

	// Integrity-check перед склейкой: пустой файл валит ffmpeg
	// невнятной ошибкой.
	if !media.FileOK(assets.Audio) || !media.FileOK(assets.Image) {
		s.Bot.SendText(chatID, "❌ Error: downloaded file is empty or missing")
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

	s.Bot.SendText(chatID, "🚀 Uploading...")
	caption := fmt.Sprintf("🎵 %s\nGenerated by VidGen", track.Title)
	if err := s.Bot.SendVideoFile(chatID, assets.Output, caption); err != nil {
		s.Logger.Errorf("Ошибка отправки видео в чат %d: %v", chatID, err)
		s.Bot.SendText(chatID, fmt.Sprintf("❌ Error: %v", err))
	}
}

// downloadAudio выбирает способ скачивания: прямые файловые ссылки
// (микросервис Deezer) качаются обычным HTTP, остальное извлекается
// внешним инструментом.
func (s *SearchService) downloadAudio(ctx context.Context, track *resolver.ResolvedTrack, outPath string) error {
	if track.Source == resolver.SourceDeezer {
		return media.DownloadFile(ctx, s.HTTPClient, track.AudioURL, outPath)
	}
	return s.Downloader.Download(ctx, track.AudioURL, outPath)
}

// sendResolveError переводит ошибки резолвера в пользовательские
// сообщения.
func (s *SearchService) sendResolveError(chatID int64, err error) {
	switch {
	case errors.Is(err, resolver.ErrLinkMetadata):
		s.Bot.SendText(chatID, "⚠️ Couldn't read link metadata. Please type the 'Track Name Artist' manually.")
	case errors.Is(err, resolver.ErrEmptyQuery):
		s.Bot.SendText(chatID, "Please select a mode using /start")
	case errors.Is(err, resolver.ErrNoMatch):
		s.Bot.SendText(chatID, "No match found💔\n\n💡 Tip: Try typing the 'Track Name Artist' manually.")
	default:
		s.Bot.SendText(chatID, fmt.Sprintf("❌ Error: %v", err))
	}
}
