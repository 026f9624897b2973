package notify_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/cardforge/pkg/core"
	"github.com/aretw0/cardforge/pkg/notify"
)

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	n := notify.Log(slog.New(slog.NewTextHandler(&buf, nil)))

	n.Notify(core.Notification{Level: core.LevelSuccess, Message: `Created "x"`})
	n.Notify(core.Notification{Level: core.LevelError, Message: "boom", Degraded: true})

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "degraded=true")

	assert.NotPanics(t, func() { notify.Log(nil).Notify(core.Notification{}) })
}

func TestMulti(t *testing.T) {
	var a, b []string
	m := notify.Multi(
		core.NotifierFunc(func(n core.Notification) { a = append(a, n.Message) }),
		nil,
		core.NotifierFunc(func(n core.Notification) { b = append(b, n.Message) }),
	)
	m.Notify(core.Notification{Message: "hi"})
	assert.Equal(t, []string{"hi"}, a)
	assert.Equal(t, []string{"hi"}, b)
}

func TestBroker_Dispatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := notify.NewBroker(2)
	b.Start(ctx)
	ch, unsubscribe := b.Subscribe(4)
	defer unsubscribe()

	for _, msg := range []string{"one", "two", "three"} {
		b.Notify(core.Notification{Level: core.LevelInfo, Message: msg})
	}

	var got []string
	for range 3 {
		select {
		case n := <-ch:
			got = append(got, n.Message)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for notification")
		}
	}
	assert.Equal(t, []string{"one", "two", "three"}, got)

	recent := b.Recent()
	require.Len(t, recent, 2, "history is bounded")
	assert.Equal(t, "three", recent[1].Message)

	st := b.State().(notify.BrokerState)
	assert.True(t, st.Running)
	assert.Equal(t, 1, st.Subscribers)
}

func TestBroker_StopClosesSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := notify.NewBroker(0)
	b.Start(ctx)
	ch, unsubscribe := b.Subscribe(1)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	assert.NotPanics(t, unsubscribe, "unsubscribing after close is safe")
	assert.Equal(t, "notification-broker", b.ComponentType())
}

func TestSource_Bridge(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := notify.NewBroker(0)
	b.Start(ctx)
	src := notify.NewSource(b, 4)
	require.NoError(t, src.Start(ctx))

	b.Notify(core.Notification{Level: core.LevelSuccess, Message: `Deleted "x"`})

	select {
	case e := <-src.Events():
		assert.Equal(t, `success: Deleted "x"`, e.String())
		ev, ok := e.(notify.Event)
		require.True(t, ok)
		assert.Equal(t, core.LevelSuccess, ev.Level)
	case <-time.After(2 * time.Second):
		t.Fatal("no event bridged")
	}

	cancel()
	assert.Eventually(t, func() bool {
		select {
		case _, open := <-src.Events():
			return !open
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond, "events channel closed on shutdown")
}
