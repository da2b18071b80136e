package middleware

import (
	"os"
	"strconv"
)

// IsAdmin проверяет, что userID совпадает с ADMIN_USER_ID.
// При незаданной переменной админ-команды недоступны никому.
func IsAdmin(userID int64) bool {
	adminID := os.Getenv("ADMIN_USER_ID")
	if adminID == "" {
		return false
	}
	return strconv.FormatInt(userID, 10) == adminID
}
