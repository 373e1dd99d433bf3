package producer

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"emplystack/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeOutboxRepo struct {
	pending []kafka.OutboxEvent
	sent    []string
	failed  map[string]string
}

func (f *fakeOutboxRepo) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepo) Create(ctx context.Context, event kafka.OutboxEvent) error { return nil }

func (f *fakeOutboxRepo) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return f.pending, nil
}

func (f *fakeOutboxRepo) MarkSent(ctx context.Context, id string) error {
	f.sent = append(f.sent, id)
	return nil
}

func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id string, reason string) error {
	if f.failed == nil {
		f.failed = map[string]string{}
	}
	f.failed[id] = reason
	return nil
}

type fakeWriter struct {
	messages []kafkago.Message
	failKey  string
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if string(m.Key) == w.failKey {
			return errors.New("broker unavailable")
		}
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func TestProcessPendingEvents(t *testing.T) {
	repo := &fakeOutboxRepo{pending: []kafka.OutboxEvent{
		{ID: "o-1", AggregateID: "p-1", Topic: "topic-a", EventType: "payroll_payslip_requested", Payload: []byte(`{}`), RequestID: "req-1"},
		{ID: "o-2", AggregateID: "p-2", Topic: "topic-a", EventType: "payroll_payslip_requested", Payload: []byte(`{}`)},
	}}
	writer := &fakeWriter{failKey: "p-2"}

	sent, err := ProcessPendingEvents(context.Background(), repo, writer, zap.NewNop())

	assert.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"o-1"}, repo.sent)
	assert.Equal(t, "broker unavailable", repo.failed["o-2"])

	assert.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, "topic-a", msg.Topic)
	assert.Equal(t, []byte("p-1"), msg.Key)
	assert.Contains(t, msg.Headers, kafkago.Header{Key: "request_id", Value: []byte("req-1")})
}

func TestProcessPendingEvents_Empty(t *testing.T) {
	sent, err := ProcessPendingEvents(context.Background(), &fakeOutboxRepo{}, &fakeWriter{}, zap.NewNop())
	assert.NoError(t, err)
	assert.Zero(t, sent)
}
