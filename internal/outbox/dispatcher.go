// Package outbox queues roster events in memory and delivers them to Kafka.
package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"example.com/signup/internal/events"
)

// ErrQueueFull is returned by Publish when the buffer has no room for another event.
var ErrQueueFull = errors.New("outbox queue full")

type messageWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
}

// Config contains dispatcher tunables.
type Config struct {
	Topic        string
	BufferSize   int
	BatchSize    int
	FlushTimeout time.Duration
}

// Dispatcher accepts roster events without blocking and delivers them to Kafka from a
// single background goroutine.
type Dispatcher struct {
	writer           messageWriter
	topic            string
	batchSize        int
	flushTimeout     time.Duration
	queue            chan events.RosterChanged
	logger           *zap.Logger
	shutdownComplete chan struct{}
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(writer messageWriter, cfg Config, logger *zap.Logger) *Dispatcher {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 256
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 25
	}
	if cfg.FlushTimeout <= 0 {
		cfg.FlushTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		writer:           writer,
		topic:            cfg.Topic,
		batchSize:        cfg.BatchSize,
		flushTimeout:     cfg.FlushTimeout,
		queue:            make(chan events.RosterChanged, cfg.BufferSize),
		logger:           logger.With(zap.String("component", "outbox"), zap.String("topic", cfg.Topic)),
		shutdownComplete: make(chan struct{}),
	}
}

// Publish enqueues the event. It never blocks; when the queue is full the event is dropped.
func (d *Dispatcher) Publish(ctx context.Context, event events.RosterChanged) error {
	select {
	case d.queue <- event:
		return nil
	default:
		droppedCounter.Inc()
		return ErrQueueFull
	}
}

// Start launches the delivery loop. It should be called in a goroutine and returns after
// ctx is cancelled and the queued events have been flushed. A batch whose write is cut
// short by the cancellation is retried during the flush.
func (d *Dispatcher) Start(ctx context.Context) {
	defer close(d.shutdownComplete)

	for {
		select {
		case <-ctx.Done():
			d.flush(nil)
			return
		case event := <-d.queue:
			batch := d.collect(event)
			err := d.deliver(ctx, batch)
			if err == nil {
				continue
			}
			if ctx.Err() != nil {
				d.flush(batch)
				return
			}
			failedCounter.Add(float64(len(batch)))
			d.logger.Error("delivery failure", zap.Int("events", len(batch)), zap.Error(err))
		}
	}
}

// Wait blocks until the dispatcher stops.
func (d *Dispatcher) Wait() {
	<-d.shutdownComplete
}

// collect drains whatever is already queued, up to the batch size.
func (d *Dispatcher) collect(first events.RosterChanged) []events.RosterChanged {
	batch := []events.RosterChanged{first}
	for len(batch) < d.batchSize {
		select {
		case event := <-d.queue:
			batch = append(batch, event)
		default:
			return batch
		}
	}
	return batch
}

// flush delivers pending and then everything still queued, bounded by the flush timeout.
func (d *Dispatcher) flush(pending []events.RosterChanged) {
	ctx, cancel := context.WithTimeout(context.Background(), d.flushTimeout)
	defer cancel()

	batch := pending
	for {
		if len(batch) > 0 {
			if err := d.deliver(ctx, batch); err != nil {
				lost := len(batch) + len(d.queue)
				failedCounter.Add(float64(lost))
				d.logger.Error("flush failure", zap.Int("events", lost), zap.Error(err))
				return
			}
		}
		select {
		case event := <-d.queue:
			batch = d.collect(event)
		default:
			return
		}
	}
}

// deliver encodes and writes a batch. Callers account for write failures; encode failures
// are counted here because those events can never be retried.
func (d *Dispatcher) deliver(ctx context.Context, batch []events.RosterChanged) error {
	start := time.Now()
	defer func() { batchDuration.Observe(time.Since(start).Seconds()) }()

	messages := make([]kafka.Message, 0, len(batch))
	for _, event := range batch {
		msg, err := encodeMessage(event)
		if err != nil {
			failedCounter.Inc()
			d.logger.Error("encode failure", zap.String("event_id", event.EventID), zap.Error(err))
			continue
		}
		messages = append(messages, msg)
	}
	if len(messages) == 0 {
		return nil
	}

	if err := d.writer.WriteMessages(ctx, d.topic, messages...); err != nil {
		return fmt.Errorf("write %d messages: %w", len(messages), err)
	}
	deliveredCounter.Add(float64(len(messages)))
	return nil
}

func encodeMessage(event events.RosterChanged) (kafka.Message, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(event.Activity),
		Value: body,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "event_id", Value: []byte(event.EventID)},
		},
	}, nil
}
