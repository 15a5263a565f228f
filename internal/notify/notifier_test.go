package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/bankingapp/ledger/internal/config"
	"github.com/go-redis/redismock/v8"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

type fakePublisher struct {
	subject string
	data    []byte
	err     error
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	f.subject = subject
	f.data = data
	return f.err
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func TestLogNotifier(t *testing.T) {
	logger, logs := observed()
	NewLogNotifier(logger).Notify(context.Background(), "08012345678", "Deposit of 50.00 received")

	entries := logs.FilterMessage("[NOTIFY] Notification sent").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "08012345678", entries[0].ContextMap()["contact"])
	assert.Equal(t, "Deposit of 50.00 received", entries[0].ContextMap()["message"])
}

func TestRedisNotifier(t *testing.T) {
	t.Run("pushes JSON payload", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.Regexp().ExpectRPush("notifications", `"contact":"08012345678"`).SetVal(1)

		logger, logs := observed()
		NewRedisNotifier(client, "notifications", logger).Notify(context.Background(), "08012345678", "hello")

		assert.NoError(t, mock.ExpectationsWereMet())
		assert.Equal(t, 0, logs.Len())
	})

	t.Run("failure is logged and swallowed", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.Regexp().ExpectRPush("notifications", `.*`).SetErr(errors.New("connection refused"))

		logger, logs := observed()
		assert.NotPanics(t, func() {
			NewRedisNotifier(client, "notifications", logger).Notify(context.Background(), "0801", "hello")
		})
		assert.Equal(t, 1, logs.FilterMessage("[NOTIFY] Failed to queue notification").Len())
	})
}

func TestNATSNotifier(t *testing.T) {
	pub := &fakePublisher{}
	logger, logs := observed()
	NewNATSNotifier(pub, "bank.notifications", logger).Notify(context.Background(), "0801", "Withdrawal of 30.00")

	assert.Equal(t, "bank.notifications", pub.subject)
	var n Notification
	require.NoError(t, json.Unmarshal(pub.data, &n))
	assert.Equal(t, "0801", n.Contact)
	assert.Equal(t, "Withdrawal of 30.00", n.Message)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, 0, logs.Len())

	pub.err = errors.New("nats: connection closed")
	NewNATSNotifier(pub, "bank.notifications", logger).Notify(context.Background(), "0801", "again")
	assert.Equal(t, 1, logs.FilterMessage("[NOTIFY] Failed to publish notification").Len())
}

func TestKafkaNotifier(t *testing.T) {
	w := &fakeWriter{}
	logger, logs := observed()
	NewKafkaNotifier(w, logger).Notify(context.Background(), "0801", "Deposit of 10.00")

	require.Len(t, w.msgs, 1)
	assert.Equal(t, []byte("0801"), w.msgs[0].Key)
	var n Notification
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &n))
	assert.Equal(t, "Deposit of 10.00", n.Message)

	w.err = errors.New("kafka: leader not available")
	NewKafkaNotifier(w, logger).Notify(context.Background(), "0801", "again")
	assert.Equal(t, 1, logs.FilterMessage("[NOTIFY] Failed to write notification").Len())
}

func TestNew(t *testing.T) {
	logger := zap.NewNop()

	n, closer := New(context.Background(), config.NotifyConfig{Backend: "log"}, logger)
	assert.Equal(t, "log", Describe(n))
	assert.NoError(t, closer.Close())

	n, closer = New(context.Background(), config.NotifyConfig{Backend: "carrier-pigeon"}, logger)
	assert.Equal(t, "log", Describe(n))
	assert.NoError(t, closer.Close())

}

func TestNew_UnreachableKafkaFallsBackToLog(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	// nothing listens on port 1
	n, closer := New(context.Background(), config.NotifyConfig{
		Backend:      "kafka",
		KafkaBrokers: []string{"127.0.0.1:1"},
		KafkaTopic:   "bank-notifications",
	}, zap.New(core))
	assert.Equal(t, "log", Describe(n))
	assert.NoError(t, closer.Close())
	assert.Equal(t, 1, logs.FilterMessage("[NOTIFY] Kafka unavailable, falling back to log notifier").Len())

	n, _ = New(context.Background(), config.NotifyConfig{Backend: "kafka"}, zap.New(core))
	assert.Equal(t, "log", Describe(n))
}
