package repeat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baditaflorin/go_keyboard_behavior/internal/adapters/clock"
	"github.com/baditaflorin/go_keyboard_behavior/internal/adapters/logger"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestTimer(t *testing.T) (*Timer, *clock.Manual) {
	t.Helper()
	c := clock.NewManual(epoch)
	timer, err := NewTimer(DefaultConfig(), c, logger.NewNopLogger())
	require.NoError(t, err)
	return timer, c
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "defaults", config: DefaultConfig()},
		{name: "zero delay", config: Config{InitialDelay: 0, RepeatInterval: time.Millisecond}},
		{name: "negative delay", config: Config{InitialDelay: -1, RepeatInterval: time.Millisecond}, wantErr: true},
		{name: "zero interval", config: Config{InitialDelay: time.Second}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewTimerRequiresCollaborators(t *testing.T) {
	_, err := NewTimer(DefaultConfig(), nil, logger.NewNopLogger())
	assert.Error(t, err)
	_, err = NewTimer(DefaultConfig(), clock.NewManual(epoch), nil)
	assert.Error(t, err)
}

func TestStartFiresImmediatelyThenEscalates(t *testing.T) {
	timer, c := newTestTimer(t)
	count := 0

	timer.Start(func() { count++ })
	assert.Equal(t, 1, count, "fires once on start")

	c.Advance(799 * time.Millisecond)
	assert.Equal(t, 1, count, "nothing during the initial delay")

	c.Advance(time.Millisecond)
	assert.Equal(t, 1, count, "the delay only arms the repeat")

	c.Advance(100 * time.Millisecond)
	assert.Equal(t, 2, count)

	c.Advance(500 * time.Millisecond)
	assert.Equal(t, 7, count)
	assert.Equal(t, 7, timer.Fires())
}

func TestStopCapturesHoldDuration(t *testing.T) {
	timer, c := newTestTimer(t)
	timer.Start(func() {})

	c.Advance(1500 * time.Millisecond)
	assert.Equal(t, 1500*time.Millisecond, timer.Duration(), "live duration while held")

	hold := timer.Stop()
	assert.Equal(t, 1500*time.Millisecond, hold)
	assert.False(t, timer.IsActive())

	c.Advance(time.Second)
	assert.Equal(t, 1500*time.Millisecond, timer.Duration(), "captured duration after stop")
	assert.Equal(t, 1500*time.Millisecond, timer.Stop(), "stopping again returns the last hold")
	assert.Equal(t, 0, c.Pending())
}

func TestNoFiresAfterStop(t *testing.T) {
	timer, c := newTestTimer(t)
	count := 0
	timer.Start(func() { count++ })
	c.Advance(time.Second)
	fired := count

	timer.Stop()
	c.Advance(5 * time.Second)

	assert.Equal(t, fired, count)
}

func TestInvalidateTwice(t *testing.T) {
	timer, c := newTestTimer(t)
	count := 0
	timer.Start(func() { count++ })

	assert.NotPanics(t, func() {
		timer.Invalidate()
		timer.Invalidate()
	})
	c.Advance(5 * time.Second)

	assert.Equal(t, 1, count)
	assert.False(t, timer.IsActive())
	assert.Equal(t, 0, c.Pending())
}

func TestInvalidateIdleTimer(t *testing.T) {
	timer, _ := newTestTimer(t)
	assert.NotPanics(t, timer.Invalidate)
	assert.Equal(t, time.Duration(0), timer.Duration())
}

func TestRestartResetsHold(t *testing.T) {
	timer, c := newTestTimer(t)
	timer.Start(func() {})
	c.Advance(4 * time.Second)
	timer.Stop()

	timer.Start(func() {})
	assert.Equal(t, time.Duration(0), timer.Duration())
	c.Advance(200 * time.Millisecond)
	assert.Equal(t, 200*time.Millisecond, timer.Duration())
}

func TestActionMayQueryTimer(t *testing.T) {
	timer, c := newTestTimer(t)
	var seen []time.Duration
	timer.Start(func() { seen = append(seen, timer.Duration()) })

	c.Advance(900 * time.Millisecond)

	assert.Equal(t, []time.Duration{0, 900 * time.Millisecond}, seen)
}

func TestStaleCallbackIsIgnored(t *testing.T) {
	timer, c := newTestTimer(t)
	first, second := 0, 0
	timer.Start(func() { first++ })
	timer.Start(func() { second++ })

	c.Advance(time.Second)

	assert.Equal(t, 1, first, "the first hold never repeats after a restart")
	assert.Equal(t, 3, second)
}
