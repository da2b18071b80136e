package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/Clean1ines/vidgen/pkg/storage"
)

const (
	rateWindow  = 5 * time.Second
	maxRequests = 3
)

// RateLimit ограничивает частоту запросов пользователя скользящим окном
// в Redis. При недоступном Redis запрос пропускается.
func RateLimit(r *storage.RedisClient, userID int64) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	key := fmt.Sprintf("rate:%d", userID)
	count, err := r.Client.Incr(ctx, key).Result()
	if err != nil {
		return true
	}
	if count == 1 {
		r.Client.Expire(ctx, key, rateWindow)
	}
	return count <= maxRequests
}
