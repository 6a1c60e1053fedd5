package capture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelSourceLifecycle(t *testing.T) {
	src := NewChannelSource(4)

	t.Run("start and restart", func(t *testing.T) {
		require.NoError(t, src.Start())
		assert.ErrorIs(t, src.Start(), ErrAlreadyStarted)

		require.NoError(t, src.Stop())
		require.NoError(t, src.Start())
		require.NoError(t, src.Stop())
	})

	t.Run("stop without start is a no-op", func(t *testing.T) {
		fresh := NewChannelSource(1)
		assert.NoError(t, fresh.Stop())
	})
}

func TestChannelSourceEmit(t *testing.T) {
	t.Run("delivers while running", func(t *testing.T) {
		src := NewChannelSource(4)
		require.NoError(t, src.Start())

		now := time.Now()
		src.Emit(now)

		select {
		case ev := <-src.Events():
			assert.Equal(t, now, ev.Timestamp)
		default:
			t.Fatal("expected a buffered event")
		}
	})

	t.Run("drops while stopped", func(t *testing.T) {
		src := NewChannelSource(4)
		src.Emit(time.Now())
		assert.Empty(t, src.Events())
	})

	t.Run("drops and counts when full", func(t *testing.T) {
		src := NewChannelSource(2)
		require.NoError(t, src.Start())

		for i := 0; i < 5; i++ {
			src.Emit(time.Now())
		}

		assert.Len(t, src.Events(), 2)
		assert.Equal(t, 3, src.Dropped())
	})
}

func TestChannelSourceFailStarts(t *testing.T) {
	src := NewChannelSource(1)
	src.FailStarts(ErrPermission)

	err := src.Start()
	assert.ErrorIs(t, err, ErrPermission)

	// A failed start leaves the source inert and retryable.
	src.FailStarts(nil)
	assert.NoError(t, src.Start())
}

func TestChannelSourceClose(t *testing.T) {
	src := NewChannelSource(4)
	require.NoError(t, src.Start())
	src.Emit(time.Now())

	require.NoError(t, src.Close())
	assert.NoError(t, src.Close())

	assert.ErrorIs(t, src.Start(), ErrSourceClosed)

	// Emitting after close must not panic on the closed channel.
	src.Emit(time.Now())

	// The buffered event drains, then the channel reports closed.
	ev, ok := <-src.Events()
	assert.True(t, ok)
	assert.False(t, ev.Timestamp.IsZero())

	_, ok = <-src.Events()
	assert.False(t, ok)
}

func TestSyntheticSource(t *testing.T) {
	src := NewSyntheticSource(5 * time.Millisecond)
	require.NoError(t, src.Start())
	assert.ErrorIs(t, src.Start(), ErrAlreadyStarted)

	select {
	case ev := <-src.Events():
		assert.False(t, ev.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("expected a synthetic event")
	}

	require.NoError(t, src.Stop())
	assert.NoError(t, src.Stop())
}
