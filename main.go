// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Clean1ines/vidgen/pkg/logging"
	"github.com/Clean1ines/vidgen/pkg/pubsub"
	"github.com/Clean1ines/vidgen/pkg/telegram/setup"
)

func main() {
	// Локальный запуск читает переменные из .env; в облаке файла нет
	// и ошибка игнорируется.
	godotenv.Load()

	// Инициализация Google Cloud Logging для структурированных логов.
	logger, err := logging.InitCloudLogger(os.Getenv("GOOGLE_CLOUD_PROJECT"))
	if err != nil {
		log.Fatalf("Ошибка инициализации Cloud Logging: %v", err)
	}
	defer logger.Flush()

	app, err := setup.Build(logger)
	if err != nil {
		logger.Errorf("Ошибка сборки сервиса: %v", err)
		logger.Flush()
		os.Exit(1)
	}

	// Установка вебхука. Переменная WEBHOOK_URL должна быть публичным
	// HTTPS URL вашего сервиса.
	webhookURL := os.Getenv("WEBHOOK_URL")
	if webhookURL == "" {
		logger.Errorf("WEBHOOK_URL не задан")
		logger.Flush()
		os.Exit(1)
	}
	if err := app.Bot.SetWebhook(webhookURL + "/webhook"); err != nil {
		logger.Errorf("Ошибка установки вебхука: %v", err)
		logger.Flush()
		os.Exit(1)
	}

	// Запуск пула воркеров: текстовые запросы из очереди собираются
	// в видео сервисом поиска.
	go app.PubSub.StartWorkerPool(5, func(ctx context.Context, task pubsub.Task) {
		app.Search.Handle(ctx, task.ChatID, task.Text)
	})

	// Запуск HTTP-сервера. Переменная PORT задаёт порт сервиса (по умолчанию 8080).
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	logger.Infof("Сервер слушает порт %s", port)
	if err := srv.ListenAndServe(); err != nil {
		logger.Errorf("Ошибка HTTP-сервера: %v", err)
		logger.Flush()
		os.Exit(1)
	}
}
