package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/sangkips/records-service/internal/queue"
)

// Mock Sink
type mockSink struct {
	recordError error
	recorded    []queue.RecordEvent
}

func (m *mockSink) Record(ctx context.Context, event queue.RecordEvent) error {
	m.recorded = append(m.recorded, event)
	return m.recordError
}

var _ Sink = (*mockSink)(nil)

// Mock Consumer
type mockConsumer struct {
	deliveries chan amqp091.Delivery
	err        error
}

func (m *mockConsumer) Consume() (<-chan amqp091.Delivery, error) {
	return m.deliveries, m.err
}

var _ Consumer = (*mockConsumer)(nil)

// Mock Delivery tracker - tracks what happened to a delivery
type deliveryTracker struct {
	acked    bool
	nacked   bool
	requeued bool
	rejected bool
}

type mockAcknowledger struct {
	tracker *deliveryTracker
}

func (m *mockAcknowledger) Ack(tag uint64, multiple bool) error {
	m.tracker.acked = true
	return nil
}

func (m *mockAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	m.tracker.nacked = true
	m.tracker.requeued = requeue
	return nil
}

func (m *mockAcknowledger) Reject(tag uint64, requeue bool) error {
	m.tracker.rejected = true
	m.tracker.requeued = requeue
	return nil
}

var _ amqp091.Acknowledger = (*mockAcknowledger)(nil)

func createTestDelivery(body []byte) (amqp091.Delivery, *deliveryTracker) {
	tracker := &deliveryTracker{}
	delivery := amqp091.Delivery{
		Body:         body,
		Acknowledger: &mockAcknowledger{tracker: tracker},
	}
	return delivery, tracker
}

func eventBody(t *testing.T, event queue.RecordEvent) []byte {
	t.Helper()
	body, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}
	return body
}

func TestWorker_ProcessMessage_Success(t *testing.T) {
	sink := &mockSink{}
	worker := NewWorker(nil, sink, zerolog.Nop())

	event := queue.NewRecordEvent("customer", queue.ActionCreated, 1, time.Now())
	delivery, tracker := createTestDelivery(eventBody(t, event))

	worker.processMessage(context.Background(), delivery)

	if !tracker.acked {
		t.Error("Expected event to be acknowledged")
	}
	if len(sink.recorded) != 1 {
		t.Fatalf("Expected 1 recorded event, got %d", len(sink.recorded))
	}
	if sink.recorded[0].ID != event.ID {
		t.Errorf("Expected event %s to be recorded, got %s", event.ID, sink.recorded[0].ID)
	}
}

func TestWorker_ProcessMessage_InvalidJSON(t *testing.T) {
	sink := &mockSink{}
	worker := NewWorker(nil, sink, zerolog.Nop())
	delivery, tracker := createTestDelivery([]byte("{not json"))

	worker.processMessage(context.Background(), delivery)

	if !tracker.rejected || tracker.requeued {
		t.Error("Expected malformed event to be rejected without requeue")
	}
	if len(sink.recorded) != 0 {
		t.Errorf("Expected no events recorded, got %d", len(sink.recorded))
	}
}

func TestWorker_ProcessMessage_InvalidEvent(t *testing.T) {
	sink := &mockSink{}
	worker := NewWorker(nil, sink, zerolog.Nop())

	event := queue.NewRecordEvent("service", "archived", 5, time.Now())
	delivery, tracker := createTestDelivery(eventBody(t, event))

	worker.processMessage(context.Background(), delivery)

	if !tracker.rejected || tracker.requeued {
		t.Error("Expected invalid event to be rejected without requeue")
	}
	if len(sink.recorded) != 0 {
		t.Errorf("Expected no events recorded, got %d", len(sink.recorded))
	}
}

func TestWorker_ProcessMessage_SinkFailure_FirstDelivery(t *testing.T) {
	sink := &mockSink{recordError: errors.New("disk full")}
	worker := NewWorker(nil, sink, zerolog.Nop())

	delivery, tracker := createTestDelivery(eventBody(t, queue.NewRecordEvent("order", queue.ActionDeleted, 9, time.Now())))

	worker.processMessage(context.Background(), delivery)

	if !tracker.nacked || !tracker.requeued {
		t.Error("Expected event to be nacked and requeued")
	}
}

func TestWorker_ProcessMessage_SinkFailure_Redelivered(t *testing.T) {
	sink := &mockSink{recordError: errors.New("disk full")}
	worker := NewWorker(nil, sink, zerolog.Nop())

	delivery, tracker := createTestDelivery(eventBody(t, queue.NewRecordEvent("order", queue.ActionDeleted, 9, time.Now())))
	delivery.Redelivered = true

	worker.processMessage(context.Background(), delivery)

	if !tracker.rejected || tracker.requeued {
		t.Error("Expected redelivered event to be dropped")
	}
	if tracker.nacked {
		t.Error("Expected redelivered event NOT to be nacked")
	}
}

func TestWorker_Start_StopsOnContextCancel(t *testing.T) {
	consumer := &mockConsumer{deliveries: make(chan amqp091.Delivery, 1)}
	sink := &mockSink{}
	worker := NewWorker(consumer, sink, zerolog.Nop())

	delivery, tracker := createTestDelivery(eventBody(t, queue.NewRecordEvent("customer", queue.ActionUpdated, 2, time.Now())))
	consumer.deliveries <- delivery

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Start(ctx) }()

	deadline := time.After(2 * time.Second)
	for len(consumer.deliveries) > 0 {
		select {
		case <-deadline:
			t.Fatal("worker did not drain the delivery")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}

	if !tracker.acked {
		t.Error("Expected delivery to be acknowledged")
	}
}

func TestWorker_Start_ChannelClosed(t *testing.T) {
	consumer := &mockConsumer{deliveries: make(chan amqp091.Delivery)}
	close(consumer.deliveries)

	err := NewWorker(consumer, &mockSink{}, zerolog.Nop()).Start(context.Background())
	if err == nil {
		t.Error("Expected error when the delivery channel closes")
	}
}

func TestWorker_Start_ConsumeError(t *testing.T) {
	consumer := &mockConsumer{err: errors.New("channel closed")}

	err := NewWorker(consumer, &mockSink{}, zerolog.Nop()).Start(context.Background())
	if err == nil {
		t.Error("Expected error when the consumer cannot be registered")
	}
}

func TestLogSink_Record(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(zerolog.New(&buf))

	event := queue.NewRecordEvent("service", queue.ActionCreated, 11, time.Now())
	if err := sink.Record(context.Background(), event); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	out := buf.String()
	for _, want := range []string{`"component":"audit"`, `"entity":"service"`, `"entity_id":11`, event.ID.String()} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected audit line to contain %s, got %s", want, out)
		}
	}
}
