package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"tracklist/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(n int) model.Event {
	return model.Event{Type: model.EventRelay, Data: json.RawMessage(fmt.Sprintf("%d", n)), Timestamp: int64(n)}
}

func nextWithin(t *testing.T, l *Listener, d time.Duration) model.Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	ev, err := l.Next(ctx)
	require.NoError(t, err)
	return ev
}

func TestFanOutDeliversOncePerListener(t *testing.T) {
	b := New(8)
	const n = 10
	listeners := make([]*Listener, n)
	for i := range listeners {
		listeners[i] = b.Subscribe()
	}
	require.Equal(t, n, b.Count())

	b.Publish(event(42))

	for _, l := range listeners {
		assert.Equal(t, event(42), nextWithin(t, l, time.Second))
		assert.Equal(t, 0, l.Pending())
	}
}

func TestSubscribeStartsEmpty(t *testing.T) {
	b := New(8)
	early := b.Subscribe()
	b.Publish(event(1))

	late := b.Subscribe()
	assert.Equal(t, 1, early.Pending())
	assert.Equal(t, 0, late.Pending())
}

func TestPublishOrderPerListener(t *testing.T) {
	b := New(64)
	l := b.Subscribe()
	for i := 0; i < 50; i++ {
		b.Publish(event(i))
	}
	for i := 0; i < 50; i++ {
		assert.Equal(t, int64(i), nextWithin(t, l, time.Second).Timestamp)
	}
}

func TestOverflowDropsOldest(t *testing.T) {
	b := New(4)
	l := b.Subscribe()
	for i := 0; i < 10; i++ {
		b.Publish(event(i))
	}

	assert.Equal(t, 4, l.Pending())
	assert.Equal(t, uint64(6), l.Dropped())
	for i := 6; i < 10; i++ {
		assert.Equal(t, int64(i), nextWithin(t, l, time.Second).Timestamp)
	}
}

func TestStalledListenerDoesNotBlockOthers(t *testing.T) {
	b := New(16)
	stalled := b.Subscribe()
	active := b.Subscribe()

	const total = 10000
	received := make(chan int64, total)
	go func() {
		for {
			ev, err := active.Next(context.Background())
			if err != nil {
				return
			}
			received <- ev.Timestamp
		}
	}()

	published := make(chan struct{})
	go func() {
		for i := 0; i < total; i++ {
			b.Publish(event(i))
		}
		close(published)
	}()

	select {
	case <-published:
	case <-time.After(5 * time.Second):
		t.Fatal("publisher blocked by a listener that never consumes")
	}

	assert.Equal(t, 16, stalled.Pending())
	assert.Equal(t, uint64(total-16), stalled.Dropped())

	// the active listener still sees the tail of the stream in order
	deadline := time.After(5 * time.Second)
	last := int64(-1)
	for last != total-1 {
		select {
		case ts := <-received:
			assert.Greater(t, ts, last)
			last = ts
		case <-deadline:
			t.Fatalf("active listener stopped at %d", last)
		}
	}
	b.Unsubscribe(active)
}

func TestUnsubscribeWakesNext(t *testing.T) {
	b := New(4)
	l := b.Subscribe()

	errc := make(chan error, 1)
	go func() {
		_, err := l.Next(context.Background())
		errc <- err
	}()

	time.Sleep(20 * time.Millisecond)
	b.Unsubscribe(l)
	b.Unsubscribe(l)

	select {
	case err := <-errc:
		assert.True(t, errors.Is(err, ErrListenerClosed))
	case <-time.After(time.Second):
		t.Fatal("Next did not return after Unsubscribe")
	}
	assert.Equal(t, 0, b.Count())

	b.Publish(event(1))
	assert.Equal(t, 0, l.Pending())
}

func TestNextHonoursContext(t *testing.T) {
	b := New(4)
	l := b.Subscribe()
	defer b.Unsubscribe(l)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := l.Next(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestConcurrentPublishersAndSubscribers(t *testing.T) {
	b := New(DefaultBacklog)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.Publish(event(i*100 + j))
			}
		}(i)
		go func() {
			defer wg.Done()
			l := b.Subscribe()
			time.Sleep(time.Millisecond)
			b.Unsubscribe(l)
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, b.Count())
}

func TestNewUsesDefaultBacklog(t *testing.T) {
	b := New(0)
	l := b.Subscribe()
	for i := 0; i < DefaultBacklog+1; i++ {
		b.Publish(event(i))
	}
	assert.Equal(t, DefaultBacklog, l.Pending())
	assert.Equal(t, uint64(1), l.Dropped())
}

func TestRunTickerPublishesUntilCancelled(t *testing.T) {
	b := New(8)
	l := b.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunTicker(ctx, b, 5*time.Millisecond)
		close(done)
	}()

	ev := nextWithin(t, l, time.Second)
	assert.Equal(t, model.EventTick, ev.Type)

	var data TickData
	require.NoError(t, json.Unmarshal(ev.Data, &data))
	assert.Equal(t, uint64(1), data.Seq)
	assert.Equal(t, 1, data.Listeners)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ticker did not stop")
	}
}
