// pkg/media/ffmpeg.go
package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/Clean1ines/vidgen/pkg/logging"
)

// Muxer склеивает статичную картинку и аудио в MP4 внешним ffmpeg.
type Muxer struct {
	FFmpegPath string
	Timeout    time.Duration
	Logger     *logging.Logger
}

// NewMuxer возвращает Muxer ("ffmpeg" из PATH при пустом пути).
func NewMuxer(ffmpegPath string, logger *logging.Logger) *Muxer {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Muxer{
		FFmpegPath: ffmpegPath,
		Timeout:    5 * time.Minute,
		Logger:     logger,
	}
}

// Merge выполняет склейку imagePath+audioPath → outputPath.
// Параметры кодирования: still-image x264, 1 fps, aac 128k,
// ширина не больше 1280, длительность по аудио.
func (m *Muxer) Merge(ctx context.Context, imagePath, audioPath, outputPath string) error {
	m.Logger.Infof("Starting merge: %s + %s -> %s", imagePath, audioPath, outputPath)

	args := []string{
		"-y",
		"-loop", "1",
		"-i", imagePath,
		"-i", audioPath,
		"-c:v", "libx264",
		"-preset", "ultrafast",
		"-tune", "stillimage",
		"-c:a", "aac",
		"-b:a", "128k",
		"-pix_fmt", "yuv420p",
		"-r", "1",
		"-vf", "scale='min(1280,iw)':-2",
		"-shortest",
		outputPath,
	}

	ctx, cancel := context.WithTimeout(ctx, m.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, m.FFmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, truncate(stderr.String(), 500))
	}

	m.Logger.Infof("Merge finished: %s", outputPath)
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
