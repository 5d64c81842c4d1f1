package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fetchResult struct {
	m   kafka.Message
	err error
}

// fakeReader serves a scripted sequence of fetches, then blocks until the
// consumer is cancelled. Commits are reported on a channel so tests can wait
// for them without sleeping.
type fakeReader struct {
	mu        sync.Mutex
	fetches   []fetchResult
	next      int
	committed chan kafka.Message
}

func newFakeReader(fetches ...fetchResult) *fakeReader {
	return &fakeReader{fetches: fetches, committed: make(chan kafka.Message, 16)}
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	f.mu.Lock()
	if f.next < len(f.fetches) {
		r := f.fetches[f.next]
		f.next++
		f.mu.Unlock()
		return r.m, r.err
	}
	f.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (f *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		f.committed <- m
	}
	return nil
}

func (f *fakeReader) Close() error { return nil }

func newTestConsumer(r reader) *Consumer {
	return &Consumer{r: r, queue: "orderQueue", workers: 1, log: zap.NewNop()}
}

func awaitCommit(t *testing.T, f *fakeReader) kafka.Message {
	t.Helper()
	select {
	case m := <-f.committed:
		return m
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a commit")
		return kafka.Message{}
	}
}

// A failing handler must not keep its message on the queue: the offset is
// committed anyway, so the message is dropped, not retried.
func TestStartCommitsDroppedMessages(t *testing.T) {
	f := newFakeReader(
		fetchResult{m: kafka.Message{Offset: 1, Value: []byte("bad")}},
		fetchResult{m: kafka.Message{Offset: 2, Value: []byte("good")}},
	)
	c := newTestConsumer(f)

	handler := func(ctx context.Context, m kafka.Message) error {
		if string(m.Value) == "bad" {
			return fmt.Errorf("handler rejected %q", m.Value)
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx, handler) }()

	first := awaitCommit(t, f)
	second := awaitCommit(t, f)
	assert.Equal(t, int64(1), first.Offset, "the failed message must still be committed")
	assert.Equal(t, int64(2), second.Offset, "later messages keep flowing after a drop")

	cancel()
	require.NoError(t, <-done, "cancellation is a clean exit, not an error")
}

// Broker errors on fetch must not terminate the loop: it logs, backs off and
// keeps awaiting the next delivery.
func TestStartSurvivesFetchErrors(t *testing.T) {
	f := newFakeReader(
		fetchResult{err: errors.New("broker unavailable: dial tcp refused")},
		fetchResult{m: kafka.Message{Offset: 7, Value: []byte(`{}`)}},
	)
	c := newTestConsumer(f)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx, func(context.Context, kafka.Message) error { return nil }) }()

	m := awaitCommit(t, f)
	assert.Equal(t, int64(7), m.Offset, "delivery resumes after a fetch error")

	cancel()
	require.NoError(t, <-done)
}

// Cancellation waits for in-flight workers before Start returns.
func TestStartDrainsWorkersOnCancel(t *testing.T) {
	f := newFakeReader(fetchResult{m: kafka.Message{Offset: 1}})
	c := newTestConsumer(f)

	started := make(chan struct{})
	release := make(chan struct{})
	var handled bool

	handler := func(context.Context, kafka.Message) error {
		close(started)
		<-release
		handled = true
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx, handler) }()

	<-started
	cancel()
	select {
	case <-done:
		t.Fatal("Start returned while a worker was still processing")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)
	require.NoError(t, <-done)
	assert.True(t, handled)
}
