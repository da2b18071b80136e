// pkg/logging/logger.go
package logging

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/logging"
)

// Logger – обёртка над Cloud Logging с уровнями серьёзности.
// При отсутствии клиента (локальный запуск, тесты) пишет в stdout.
type Logger struct {
	client *logging.Client
	logger *logging.Logger
}

// InitCloudLogger инициализирует клиента Cloud Logging для проекта.
func InitCloudLogger(projectID string) (*Logger, error) {
	ctx := context.Background()
	client, err := logging.NewClient(ctx, projectID)
	if err != nil {
		return nil, err
	}
	// Создаем логгер с именем "vidgen"
	return &Logger{
		client: client,
		logger: client.Logger("vidgen"),
	}, nil
}

// NewStdLogger возвращает логгер, пишущий только в стандартный вывод.
// Используется в тестах и при локальном запуске без GCP.
func NewStdLogger() *Logger {
	return &Logger{}
}

func (l *Logger) logf(severity logging.Severity, format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	if l == nil || l.logger == nil {
		log.Printf("[%s] %s", severity, msg)
		return
	}
	l.logger.Log(logging.Entry{Severity: severity, Payload: msg})
}

// Infof пишет информационное сообщение.
func (l *Logger) Infof(format string, v ...interface{}) {
	l.logf(logging.Info, format, v...)
}

// Warnf пишет предупреждение.
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.logf(logging.Warning, format, v...)
}

// Errorf пишет сообщение об ошибке.
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.logf(logging.Error, format, v...)
}

// Flush сбрасывает буфер логов перед завершением процесса.
func (l *Logger) Flush() {
	if l == nil || l.client == nil {
		return
	}
	l.client.Close()
}
