package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Clean1ines/vidgen/pkg/cover"
	"github.com/Clean1ines/vidgen/pkg/logging"
	"github.com/Clean1ines/vidgen/pkg/matching"
	"github.com/Clean1ines/vidgen/pkg/media"
	"github.com/Clean1ines/vidgen/pkg/resolver"
)

// DeezerSearcher – публичный поиск Deezer для подбора обложки по тегам.
type DeezerSearcher interface {
	DeezerSearch(ctx context.Context, query string) (*cover.DeezerTrack, error)
}

// AudioMeta – теги присланного аудиофайла.
type AudioMeta struct {
	FileID    string
	Performer string
	Title     string
	FileName  string
}

// AudioService обрабатывает Audio Only Mode: пользователь присылает
// аудиофайл, бот находит обложку по тегам и собирает видео.
type AudioService struct {
	Bot        Sender
	Deezer     DeezerSearcher
	Muxer      VideoMuxer
	Locks      *resolver.ChatLocks
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// NewAudioService собирает сервис аудио-режима.
func NewAudioService(bot Sender, deezer DeezerSearcher, mx VideoMuxer, locks *resolver.ChatLocks, logger *logging.Logger) *AudioService {
	return &AudioService{
		Bot:        bot,
		Deezer:     deezer,
		Muxer:      mx,
		Locks:      locks,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		Logger:     logger,
	}
}

// Handle выполняет полный цикл аудио-режима для одного файла.
func (s *AudioService) Handle(ctx context.Context, chatID int64, audio AudioMeta) {
	query := searchQueryFromTags(audio)
	if query == "" {
		s.Bot.SendText(chatID, "❌ I couldn't find Artist/Title tags in this file.\nPlease reply to this message with: Artist - Title")
		return
	}

	if !s.Locks.TryAcquire(chatID) {
		s.Logger.Warnf("Чат %d уже обрабатывается, аудио отброшено", chatID)
		return
	}
	defer s.Locks.Release(chatID)

	s.Bot.SendText(chatID, fmt.Sprintf("🔍 Searching Deezer for: %q...", query))

	coverURL, trackTitle := s.findCover(ctx, chatID, audio, query)

	s.Bot.SendText(chatID, fmt.Sprintf("✅ Found: %s\n⬇️ Downloading...", trackTitle))

	assets := media.NewAssetPaths()
	defer assets.Cleanup()

	audioURL, err := s.Bot.FileURL(audio.FileID)
	if err != nil {
		s.Logger.Errorf("Ошибка получения ссылки на файл %s: %v", audio.FileID, err)
		s.Bot.SendText(chatID, fmt.Sprintf("❌ Error: %v", err))
		return
	}
	if err := media.DownloadFile(ctx, s.HTTPClient, coverURL, assets.Image); err != nil {
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

	s.Bot.SendText(chatID, "🚀 Uploading...")
	caption := fmt.Sprintf("🎵 %s\nGenerated by VidGen", trackTitle)
	if err := s.Bot.SendVideoFile(chatID, assets.Output, caption); err != nil {
		s.Logger.Errorf("Ошибка отправки видео в чат %d: %v", chatID, err)
		s.Bot.SendText(chatID, fmt.Sprintf("❌ Error: %v", err))
	}
}

// findCover ищет обложку по тегам. При расхождении исполнителя с
// найденным делается уточняющий повторный поиск "исполнитель название".
func (s *AudioService) findCover(ctx context.Context, chatID int64, audio AudioMeta, query string) (coverURL, trackTitle string) {
	found, err := s.Deezer.DeezerSearch(ctx, query)
	if err != nil || found == nil {
		if err != nil {
			s.Logger.Warnf("Поиск обложки по %q не удался: %v", query, err)
		}
		s.Bot.SendText(chatID, "⚠️ No cover art found on Deezer. Using default.")
		return cover.PlaceholderURL, query
	}

	coverURL = found.CoverURL
	trackTitle = fmt.Sprintf("%s - %s", found.Artist, found.Title)

	if audio.Performer != "" && !matching.ArtistsMatch(audio.Performer, found.Artist) {
		s.Logger.Infof("Исполнитель не совпал: ожидали %q, нашли %q, уточняем поиск", audio.Performer, found.Artist)
		refined, err := s.Deezer.DeezerSearch(ctx, audio.Performer+" "+audio.Title)
		if err == nil && refined != nil {
			coverURL = refined.CoverURL
			trackTitle = fmt.Sprintf("%s - %s", refined.Artist, refined.Title)
		}
	}
	if coverURL == "" {
		coverURL = cover.PlaceholderURL
	}
	return coverURL, trackTitle
}

// searchQueryFromTags строит поисковый запрос из тегов файла; при их
// отсутствии используется имя файла без расширения.
func searchQueryFromTags(audio AudioMeta) string {
	switch {
	case audio.Performer != "" && audio.Title != "":
		return audio.Performer + " " + audio.Title
	case audio.Title != "":
		return audio.Title
	case audio.FileName != "":
		name := audio.FileName
		if idx := strings.LastIndex(name, "."); idx > 0 {
			name = name[:idx]
		}
		return name
	default:
		return ""
	}
}
