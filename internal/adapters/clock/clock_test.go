package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManualAdvanceFiresInOrder(t *testing.T) {
	c := NewManual(epoch)
	var fired []string

	c.AfterFunc(200*time.Millisecond, func() { fired = append(fired, "b") })
	c.AfterFunc(100*time.Millisecond, func() { fired = append(fired, "a") })
	c.AfterFunc(time.Second, func() { fired = append(fired, "c") })

	c.Advance(500 * time.Millisecond)

	assert.Equal(t, []string{"a", "b"}, fired)
	assert.Equal(t, epoch.Add(500*time.Millisecond), c.Now())
	assert.Equal(t, 1, c.Pending())
}

func TestManualCallbackSeesDeadline(t *testing.T) {
	c := NewManual(epoch)
	var seen time.Time
	c.AfterFunc(300*time.Millisecond, func() { seen = c.Now() })

	c.Advance(time.Second)

	assert.Equal(t, epoch.Add(300*time.Millisecond), seen)
}

func TestManualRescheduleWithinWindow(t *testing.T) {
	c := NewManual(epoch)
	count := 0
	var tick func()
	tick = func() {
		count++
		c.AfterFunc(100*time.Millisecond, tick)
	}
	c.AfterFunc(100*time.Millisecond, tick)

	c.Advance(550 * time.Millisecond)

	assert.Equal(t, 5, count)
}

func TestManualStop(t *testing.T) {
	c := NewManual(epoch)
	fired := false
	timer := c.AfterFunc(time.Millisecond, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	c.Advance(time.Second)

	assert.False(t, fired)
	assert.Equal(t, 0, c.Pending())
}

func TestSystemClock(t *testing.T) {
	c := NewSystem()
	done := make(chan struct{})
	c.AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("system clock callback did not fire")
	}
	assert.False(t, c.Now().IsZero())
}
