package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bankingapp/ledger/internal/config"
	"github.com/bankingapp/ledger/internal/database"
	"github.com/nats-io/nats.go"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	kafkaDialTimeout   = 3 * time.Second
	kafkaWriteTimeout  = 2 * time.Second
	kafkaWriteAttempts = 2
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// New builds the configured backend. The returned closer releases any connection
// the backend opened. When the redis, nats or kafka broker cannot be reached at
// startup the log backend is used instead.
func New(ctx context.Context, cfg config.NotifyConfig, logger *zap.Logger) (Notifier, io.Closer) {
	noop := closerFunc(func() error { return nil })

	switch cfg.Backend {
	case "", "log":
		return NewLogNotifier(logger), noop

	case "redis":
		client, err := database.InitRedis(ctx, cfg, logger)
		if err != nil {
			logger.Warn("[NOTIFY] Redis unavailable, falling back to log notifier", zap.Error(err))
			return NewLogNotifier(logger), noop
		}
		return NewRedisNotifier(client, cfg.RedisKey, logger), client

	case "nats":
		nc, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			logger.Warn("[NOTIFY] NATS unavailable, falling back to log notifier", zap.Error(err))
			return NewLogNotifier(logger), noop
		}
		return NewNATSNotifier(nc, cfg.NATSSubject, logger), closerFunc(func() error {
			nc.Close()
			return nil
		})

	case "kafka":
		if err := pingKafka(ctx, cfg.KafkaBrokers); err != nil {
			logger.Warn("[NOTIFY] Kafka unavailable, falling back to log notifier", zap.Error(err))
			return NewLogNotifier(logger), noop
		}
		writer := &kafka.Writer{
			Addr:                   kafka.TCP(cfg.KafkaBrokers...),
			Topic:                  cfg.KafkaTopic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
			MaxAttempts:            kafkaWriteAttempts,
			WriteTimeout:           kafkaWriteTimeout,
		}
		return NewKafkaNotifier(writer, logger), writer

	default:
		logger.Warn("[NOTIFY] Unknown notification backend, using log notifier", zap.String("backend", cfg.Backend))
		return NewLogNotifier(logger), noop
	}
}

// pingKafka succeeds once any of the brokers accepts a connection
func pingKafka(ctx context.Context, brokers []string) error {
	if len(brokers) == 0 {
		return errors.New("no kafka brokers configured")
	}

	ctx, cancel := context.WithTimeout(ctx, kafkaDialTimeout)
	defer cancel()

	var errs []error
	for _, broker := range brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", broker, err))
			continue
		}
		return conn.Close()
	}
	return errors.Join(errs...)
}

// Describe names a backend for startup logs
func Describe(n Notifier) string {
	switch n.(type) {
	case *RedisNotifier:
		return "redis"
	case *NATSNotifier:
		return "nats"
	case *KafkaNotifier:
		return "kafka"
	case *LogNotifier:
		return "log"
	default:
		return fmt.Sprintf("%T", n)
	}
}
