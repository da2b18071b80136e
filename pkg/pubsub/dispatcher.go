// pkg/pubsub/dispatcher.go
package pubsub

import (
	"context"
	"encoding/json"

	"cloud.google.com/go/pubsub"

	"github.com/Clean1ines/vidgen/pkg/logging"
)

// PubSubClient инкапсулирует клиента, топик и подписку.
type PubSubClient struct {
	Client       *pubsub.Client
	Topic        *pubsub.Topic
	Subscription *pubsub.Subscription
	Logger       *logging.Logger
}

// Client – интерфейс публикации для service-слоя.
type Client interface {
	PublishTask(ctx context.Context, task Task) error
}

// Task – фоновая задача генерации видео по текстовому запросу.
type Task struct {
	ChatID    int64  `json:"chat_id"`
	MessageID int    `json:"message_id"`
	Text      string `json:"text"`
}

// InitPubSubClient инициализирует клиента Pub/Sub для проекта.
func InitPubSubClient(projectID string, logger *logging.Logger) (*PubSubClient, error) {
	ctx := context.Background()
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, err
	}
	topic := client.Topic("vidgen-tasks")
	sub := client.Subscription("vidgen-tasks-sub")
	return &PubSubClient{
		Client:       client,
		Topic:        topic,
		Subscription: sub,
		Logger:       logger,
	}, nil
}

// PublishTask публикует задачу в Pub/Sub.
func (p *PubSubClient) PublishTask(ctx context.Context, task Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	result := p.Topic.Publish(ctx, &pubsub.Message{Data: data})
	_, err = result.Get(ctx)
	return err
}

// StartWorkerPool запускает пул воркеров с заданным числом параллельных
// задач; каждая задача передается обработчику handle.
func (p *PubSubClient) StartWorkerPool(workerCount int, handle func(ctx context.Context, task Task)) {
	ctx := context.Background()
	p.Subscription.ReceiveSettings.MaxOutstandingMessages = workerCount
	err := p.Subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		var task Task
		if err := json.Unmarshal(msg.Data, &task); err != nil {
			p.Logger.Errorf("Ошибка разбора задачи: %v", err)
			// Битое сообщение переигрывать бессмысленно.
			msg.Ack()
			return
		}
		p.Logger.Infof("Начало обработки задачи: chatID=%d", task.ChatID)
		handle(ctx, task)
		msg.Ack()
	})
	if err != nil {
		p.Logger.Errorf("Ошибка получения задач из Pub/Sub: %v", err)
	}
}
