package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"example.com/signup/internal/events"
)

type stubWriter struct {
	mu       sync.Mutex
	topics   []string
	messages []kafka.Message
	err      error
	written  chan struct{}
}

func newStubWriter() *stubWriter {
	return &stubWriter{written: make(chan struct{}, 16)}
}

func (s *stubWriter) WriteMessages(ctx context.Context, topic string, msgs ...kafka.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topics = append(s.topics, topic)
	if s.err == nil {
		s.messages = append(s.messages, msgs...)
	}
	s.written <- struct{}{}
	return s.err
}

func (s *stubWriter) snapshot() []kafka.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]kafka.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func rosterEvent(id string) events.RosterChanged {
	return events.RosterChanged{
		EventID:          id,
		EventType:        events.TypeParticipantSignedUp,
		Activity:         "Chess Club",
		Email:            "new@mergington.edu",
		ParticipantCount: 3,
		MaxParticipants:  12,
		OccurredAt:       time.Date(2025, time.September, 1, 19, 30, 0, 0, time.UTC),
	}
}

func TestDispatcherDeliversQueuedEvents(t *testing.T) {
	writer := newStubWriter()
	dispatcher := NewDispatcher(writer, Config{Topic: "activity_roster_events", BufferSize: 8}, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	go dispatcher.Start(ctx)

	require.NoError(t, dispatcher.Publish(ctx, rosterEvent("evt-1")))

	select {
	case <-writer.written:
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
	cancel()
	dispatcher.Wait()

	messages := writer.snapshot()
	require.Len(t, messages, 1)
	require.Equal(t, "activity_roster_events", writer.topics[0])
	require.Equal(t, []byte("Chess Club"), messages[0].Key)

	var decoded events.RosterChanged
	require.NoError(t, json.Unmarshal(messages[0].Value, &decoded))
	expected := rosterEvent("evt-1")
	require.True(t, expected.OccurredAt.Equal(decoded.OccurredAt))
	decoded.OccurredAt = expected.OccurredAt
	require.Equal(t, expected, decoded)

	headers := map[string]string{}
	for _, h := range messages[0].Headers {
		headers[h.Key] = string(h.Value)
	}
	require.Equal(t, events.TypeParticipantSignedUp, headers["event_type"])
	require.Equal(t, "evt-1", headers["event_id"])
}

func TestDispatcherFlushesOnShutdown(t *testing.T) {
	writer := newStubWriter()
	dispatcher := NewDispatcher(writer, Config{Topic: "roster", BufferSize: 8, BatchSize: 10}, zaptest.NewLogger(t))

	for _, id := range []string{"evt-1", "evt-2", "evt-3"} {
		require.NoError(t, dispatcher.Publish(context.Background(), rosterEvent(id)))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dispatcher.Start(ctx)

	messages := writer.snapshot()
	require.Len(t, messages, 3)
	require.Len(t, writer.topics, 1, "queued events should go out in a single batch")
}

func TestPublishDropsWhenQueueFull(t *testing.T) {
	dispatcher := NewDispatcher(newStubWriter(), Config{Topic: "roster", BufferSize: 1}, zaptest.NewLogger(t))
	before := testutil.ToFloat64(droppedCounter)

	require.NoError(t, dispatcher.Publish(context.Background(), rosterEvent("evt-1")))
	err := dispatcher.Publish(context.Background(), rosterEvent("evt-2"))
	require.ErrorIs(t, err, ErrQueueFull)
	require.Equal(t, before+1, testutil.ToFloat64(droppedCounter))
}

// shutdownWriter blocks its first write until the caller's context is cancelled and
// accepts every write after that.
type shutdownWriter struct {
	*stubWriter
	started chan struct{}
	calls   int
}

func (s *shutdownWriter) WriteMessages(ctx context.Context, topic string, msgs ...kafka.Message) error {
	s.mu.Lock()
	s.calls++
	first := s.calls == 1
	s.mu.Unlock()

	if first {
		close(s.started)
		<-ctx.Done()
		return ctx.Err()
	}
	return s.stubWriter.WriteMessages(ctx, topic, msgs...)
}

func TestDispatcherRetriesInFlightBatchOnShutdown(t *testing.T) {
	writer := &shutdownWriter{stubWriter: newStubWriter(), started: make(chan struct{})}
	core, logs := observer.New(zapcore.ErrorLevel)
	dispatcher := NewDispatcher(writer, Config{Topic: "roster", FlushTimeout: 2 * time.Second}, zap.New(core))
	failedBefore := testutil.ToFloat64(failedCounter)

	ctx, cancel := context.WithCancel(context.Background())
	go dispatcher.Start(ctx)

	require.NoError(t, dispatcher.Publish(ctx, rosterEvent("evt-1")))
	select {
	case <-writer.started:
	case <-time.After(2 * time.Second):
		t.Fatal("write never started")
	}
	cancel()
	dispatcher.Wait()

	messages := writer.snapshot()
	require.Len(t, messages, 1)
	require.Equal(t, []byte("Chess Club"), messages[0].Key)
	require.Equal(t, failedBefore, testutil.ToFloat64(failedCounter))
	require.Zero(t, logs.Len())
}

func TestDispatcherCountsFailedFlush(t *testing.T) {
	writer := newStubWriter()
	writer.err = errors.New("broker unavailable")
	core, logs := observer.New(zapcore.ErrorLevel)
	dispatcher := NewDispatcher(writer, Config{Topic: "roster", BatchSize: 10}, zap.New(core))
	before := testutil.ToFloat64(failedCounter)

	require.NoError(t, dispatcher.Publish(context.Background(), rosterEvent("evt-1")))
	require.NoError(t, dispatcher.Publish(context.Background(), rosterEvent("evt-2")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dispatcher.Start(ctx)

	require.Equal(t, before+2, testutil.ToFloat64(failedCounter))
	require.Equal(t, 1, logs.FilterMessage("flush failure").Len())
}

func TestDispatcherLogsDeliveryFailure(t *testing.T) {
	writer := newStubWriter()
	writer.err = errors.New("broker unavailable")
	core, logs := observer.New(zapcore.ErrorLevel)
	dispatcher := NewDispatcher(writer, Config{Topic: "roster"}, zap.New(core))
	before := testutil.ToFloat64(failedCounter)

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		dispatcher.Wait()
	}()
	go dispatcher.Start(ctx)

	require.NoError(t, dispatcher.Publish(ctx, rosterEvent("evt-1")))
	require.Eventually(t, func() bool {
		return logs.FilterMessage("delivery failure").Len() == 1
	}, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, before+1, testutil.ToFloat64(failedCounter))
}
