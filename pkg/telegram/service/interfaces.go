package service

import (
	"context"

	"github.com/Clean1ines/vidgen/pkg/resolver"
)

// Sender – минимальный интерфейс отправки сообщений в Telegram.
// Реализуется telegram.Bot; в тестах подменяется фейком.
type Sender interface {
	SendText(chatID int64, text string) (int, error)
	EditText(chatID int64, messageID int, text string) error
	SendVideoFile(chatID int64, path, caption string) error
	FileURL(fileID string) (string, error)
}

// TrackResolver находит аудио по произвольному пользовательскому вводу.
type TrackResolver interface {
	Resolve(ctx context.Context, raw string) (*resolver.ResolvedTrack, resolver.TargetDescriptor, resolver.QueryKind, error)
}

// CoverResolver находит обложку; всегда возвращает какой-то URL.
type CoverResolver interface {
	Resolve(ctx context.Context, target resolver.TargetDescriptor, fallbackQuery string) string
}

// AudioDownloader скачивает аудио внешним инструментом извлечения.
type AudioDownloader interface {
	Download(ctx context.Context, url, outPath string) error
}

// VideoMuxer склеивает картинку и аудио в MP4.
type VideoMuxer interface {
	Merge(ctx context.Context, imagePath, audioPath, outputPath string) error
}
