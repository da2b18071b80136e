// pkg/media/assets.go
package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// AssetPaths – request-scoped временные файлы одной генерации.
// Должны быть удалены на любом пути выхода, включая ошибочный.
type AssetPaths struct {
	Audio  string
	Image  string
	Output string
}

// NewAssetPaths выделяет уникальные имена в системном tmpdir.
func NewAssetPaths() AssetPaths {
	id := uuid.NewString()
	dir := os.TempDir()
	return AssetPaths{
		Audio:  filepath.Join(dir, fmt.Sprintf("audio_%s.mp3", id)),
		Image:  filepath.Join(dir, fmt.Sprintf("cover_%s.jpg", id)),
		Output: filepath.Join(dir, fmt.Sprintf("output_%s.mp4", id)),
	}
}

// Cleanup удаляет все файлы запроса; отсутствующие игнорируются.
func (p AssetPaths) Cleanup() {
	for _, path := range []string{p.Audio, p.Image, p.Output} {
		if path != "" {
			os.Remove(path)
		}
	}
}

// DownloadFile скачивает url в path.
func DownloadFile(ctx context.Context, client *http.Client, url, path string) error {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: status %d", url, resp.StatusCode)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

// FileOK – integrity-check: файл существует и не пуст.
func FileOK(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}
