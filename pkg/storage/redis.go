// pkg/storage/redis.go
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// TTL кэшированной картинки для Manual Mode (как в исходном боте — 10 минут).
	imageTTL = 10 * time.Minute
	// TTL записи о обработанном message_id для дедупликации webhook-повторов.
	seenTTL = time.Hour
	// TTL пользовательской сессии (выбранный режим).
	sessionTTL = 24 * time.Hour
)

// RedisClient инкапсулирует подключение к Redis.
type RedisClient struct {
	Client *redis.Client
}

// NewRedisClient инициализирует подключение к Redis и проверяет его пингом.
func NewRedisClient(addr string) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ошибка подключения к Redis: %w", err)
	}
	return &RedisClient{Client: client}, nil
}

// SetValue сохраняет значение по ключу с заданным TTL.
func (r *RedisClient) SetValue(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return r.Client.Set(ctx, key, value, ttl).Err()
}

// GetValue получает значение по ключу.
func (r *RedisClient) GetValue(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return r.Client.Get(ctx, key).Result()
}

// DelValue удаляет значение по ключу.
func (r *RedisClient) DelValue(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return r.Client.Del(ctx, key).Err()
}

// SessionKey формирует ключ для хранения режима чата.
func SessionKey(chatID int64) string {
	return fmt.Sprintf("session:%d:mode", chatID)
}

// SetChatMode запоминает выбранный режим ("manual", "audio", "link") для чата.
func (r *RedisClient) SetChatMode(ctx context.Context, chatID int64, mode string) error {
	return r.SetValue(ctx, SessionKey(chatID), mode, sessionTTL)
}

// GetChatMode возвращает режим чата либо пустую строку.
func (r *RedisClient) GetChatMode(ctx context.Context, chatID int64) string {
	mode, err := r.GetValue(ctx, SessionKey(chatID))
	if err != nil {
		return ""
	}
	return mode
}

// SetChatImage запоминает file_id последней картинки, присланной в чат.
func (r *RedisClient) SetChatImage(ctx context.Context, chatID int64, fileID string) error {
	return r.SetValue(ctx, fmt.Sprintf("image:%d", chatID), fileID, imageTTL)
}

// GetChatImage возвращает file_id сохранённой картинки либо пустую строку.
func (r *RedisClient) GetChatImage(ctx context.Context, chatID int64) string {
	fileID, err := r.GetValue(ctx, fmt.Sprintf("image:%d", chatID))
	if err != nil {
		return ""
	}
	return fileID
}

// DelChatImage удаляет сохранённую картинку чата.
func (r *RedisClient) DelChatImage(ctx context.Context, chatID int64) error {
	return r.DelValue(ctx, fmt.Sprintf("image:%d", chatID))
}

// ClearChatState удаляет сохранённую картинку и режим чата (команда /cancel).
func (r *RedisClient) ClearChatState(ctx context.Context, chatID int64) {
	r.DelValue(ctx, fmt.Sprintf("image:%d", chatID))
	r.DelValue(ctx, SessionKey(chatID))
}

// SeenMessage атомарно отмечает message_id как обработанный.
// Возвращает false, если сообщение уже встречалось (повторная доставка webhook).
func (r *RedisClient) SeenMessage(ctx context.Context, chatID int64, messageID int) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	key := fmt.Sprintf("seen:%d:%d", chatID, messageID)
	ok, err := r.Client.SetNX(ctx, key, 1, seenTTL).Result()
	if err != nil {
		// При недоступном Redis пропускаем сообщение дальше: дубликат
		// безопаснее повторной обработки не заблокированного чата.
		return true
	}
	return ok
}
