package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionClock(t *testing.T) {
	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	t.Run("zero value is stopped", func(t *testing.T) {
		var c SessionClock
		assert.False(t, c.Running())
		assert.Equal(t, time.Duration(0), c.Elapsed())
	})

	t.Run("enter and leave accumulate the delta", func(t *testing.T) {
		var c SessionClock
		c.EnterRunning(base)
		c.LeaveRunning(base.Add(30 * time.Second))

		assert.False(t, c.Running())
		assert.Equal(t, 30*time.Second, c.Elapsed())
	})

	t.Run("paused gaps do not count", func(t *testing.T) {
		var c SessionClock
		c.EnterRunning(base)
		c.LeaveRunning(base.Add(time.Minute))
		c.EnterRunning(base.Add(10 * time.Minute))
		c.LeaveRunning(base.Add(10*time.Minute + 30*time.Second))

		assert.Equal(t, 90*time.Second, c.Elapsed())
	})

	t.Run("tick advances without leaving", func(t *testing.T) {
		var c SessionClock
		c.EnterRunning(base)
		c.Tick(base.Add(5 * time.Second))

		assert.True(t, c.Running())
		assert.Equal(t, 5*time.Second, c.Elapsed())

		c.LeaveRunning(base.Add(8 * time.Second))
		assert.Equal(t, 8*time.Second, c.Elapsed())
	})

	t.Run("double enter preserves the original period", func(t *testing.T) {
		var c SessionClock
		c.EnterRunning(base)
		c.EnterRunning(base.Add(time.Minute))
		c.LeaveRunning(base.Add(2 * time.Minute))

		assert.Equal(t, 2*time.Minute, c.Elapsed())
	})

	t.Run("leave and tick while stopped are no-ops", func(t *testing.T) {
		var c SessionClock
		c.LeaveRunning(base)
		c.Tick(base)
		assert.Equal(t, time.Duration(0), c.Elapsed())
	})

	t.Run("reset zeroes everything", func(t *testing.T) {
		var c SessionClock
		c.EnterRunning(base)
		c.Tick(base.Add(time.Minute))
		c.Reset()

		assert.False(t, c.Running())
		assert.Equal(t, time.Duration(0), c.Elapsed())
	})
}
