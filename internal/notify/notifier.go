// Package notify delivers account notifications on a best-effort basis.
// Every backend swallows its own failures: a notification that cannot be sent
// is logged and dropped, it never fails the ledger operation that triggered it.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Notifier interface {
	Notify(ctx context.Context, contact, message string)
}

// Notification is the payload written to queue backends
type Notification struct {
	ID        string    `json:"id"`
	Contact   string    `json:"contact"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

func newNotification(contact, message string) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Contact:   contact,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}

// LogNotifier only records the notification in the log
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, contact, message string) {
	n.logger.Info("[NOTIFY] Notification sent", zap.String("contact", contact), zap.String("message", message))
}

// RedisNotifier appends notifications to a Redis list for an out-of-process sender
type RedisNotifier struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

func NewRedisNotifier(client *redis.Client, key string, logger *zap.Logger) *RedisNotifier {
	return &RedisNotifier{client: client, key: key, logger: logger}
}

func (n *RedisNotifier) Notify(ctx context.Context, contact, message string) {
	data, err := json.Marshal(newNotification(contact, message))
	if err != nil {
		n.logger.Warn("[NOTIFY] Failed to encode notification", zap.Error(err))
		return
	}
	if err := n.client.RPush(ctx, n.key, string(data)).Err(); err != nil {
		n.logger.Warn("[NOTIFY] Failed to queue notification", zap.String("contact", contact), zap.Error(err))
	}
}

// publisher is satisfied by *nats.Conn
type publisher interface {
	Publish(subject string, data []byte) error
}

type NATSNotifier struct {
	conn    publisher
	subject string
	logger  *zap.Logger
}

func NewNATSNotifier(conn publisher, subject string, logger *zap.Logger) *NATSNotifier {
	return &NATSNotifier{conn: conn, subject: subject, logger: logger}
}

func (n *NATSNotifier) Notify(_ context.Context, contact, message string) {
	data, err := json.Marshal(newNotification(contact, message))
	if err != nil {
		n.logger.Warn("[NOTIFY] Failed to encode notification", zap.Error(err))
		return
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		n.logger.Warn("[NOTIFY] Failed to publish notification", zap.String("subject", n.subject), zap.Error(err))
	}
}

// messageWriter is satisfied by *kafka.Writer
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaNotifier struct {
	writer messageWriter
	logger *zap.Logger
}

func NewKafkaNotifier(writer messageWriter, logger *zap.Logger) *KafkaNotifier {
	return &KafkaNotifier{writer: writer, logger: logger}
}

func (n *KafkaNotifier) Notify(ctx context.Context, contact, message string) {
	notification := newNotification(contact, message)
	data, err := json.Marshal(notification)
	if err != nil {
		n.logger.Warn("[NOTIFY] Failed to encode notification", zap.Error(err))
		return
	}
	msg := kafka.Message{Key: []byte(contact), Value: data, Time: notification.CreatedAt}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		n.logger.Warn("[NOTIFY] Failed to write notification", zap.String("contact", contact), zap.Error(err))
	}
}
