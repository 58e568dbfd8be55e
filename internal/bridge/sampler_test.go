package bridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frameTick(nowMS float64, currentTime float64) Event {
	return Event{Type: EventFrameTick, NowMS: nowMS, State: playingState(currentTime)}
}

func TestDetectFPSFromFrameTicks(t *testing.T) {
	b, _ := newTestBridge(&Options{SupportsFrameCallback: true})

	_, _ = b.HandleEvent(Event{Type: EventPlay, State: playingState(0)})

	// 24 delivered frames spanning exactly one second; the last one
	// closes the window
	var report *Report
	for i := 0; i < 23; i++ {
		report, _ = b.HandleEvent(frameTick(float64(i)*42, float64(i)*0.042))
		assert.Nil(t, report, "tick %d must not report", i)
	}
	report, _ = b.HandleEvent(frameTick(1000, 1))

	require.NotNil(t, report, "window close must force a report")
	assert.True(t, report.Forced)
	assert.Equal(t, 24, report.Snapshot.FPS)
	assert.Equal(t, 24, b.FPS())
	assert.True(t, b.FPSDetected())
}

func TestNoFrameCallbackCapabilityKeepsDefault(t *testing.T) {
	b, clock := newTestBridge(&Options{SupportsFrameCallback: false})

	_, _ = b.HandleEvent(Event{Type: EventPlay, State: playingState(0)})

	// even if ticks somehow arrive, sampling never starts
	for i := 0; i < 100; i++ {
		report, _ := b.HandleEvent(frameTick(float64(i)*16.7, 0))
		assert.Nil(t, report)
		clock.Advance(17 * time.Millisecond)
	}

	assert.Equal(t, DefaultFPS, b.FPS())
	assert.False(t, b.FPSDetected())
}

func TestDetectionNeverRestarts(t *testing.T) {
	b, _ := newTestBridge(&Options{SupportsFrameCallback: true})

	_, _ = b.HandleEvent(Event{Type: EventPlay, State: playingState(0)})

	var report *Report
	for i := 0; i < 30; i++ {
		report, _ = b.HandleEvent(frameTick(float64(i)*33, 0))
		require.Nil(t, report)
	}
	report, _ = b.HandleEvent(frameTick(1000, 0))
	require.NotNil(t, report)
	detected := b.FPS()

	// not on replay
	_, _ = b.HandleEvent(Event{Type: EventPause, State: pausedState(1)})
	_, _ = b.HandleEvent(Event{Type: EventPlay, State: playingState(1)})
	// not on seek
	_, _ = b.HandleEvent(Event{Type: EventSeeked, State: playingState(5)})

	for i := 0; i < 200; i++ {
		report, _ := b.HandleEvent(frameTick(5000+float64(i)*8, 5))
		assert.Nil(t, report)
	}

	assert.Equal(t, detected, b.FPS(), "estimate is fixed once per instance")
}

func TestPauseInsideWindowContinuesFromOriginalStart(t *testing.T) {
	b, _ := newTestBridge(&Options{SupportsFrameCallback: true})

	_, _ = b.HandleEvent(Event{Type: EventPlay, State: playingState(0)})

	// ticks up to 400ms, then a pause/play cycle
	for i := 0; i < 10; i++ {
		report, _ := b.HandleEvent(frameTick(float64(i)*40, 0))
		require.Nil(t, report)
	}
	_, _ = b.HandleEvent(Event{Type: EventPause, State: pausedState(0.4)})
	_, _ = b.HandleEvent(Event{Type: EventPlay, State: playingState(0.4)})

	// resume ticks; accumulation continues against the original start
	var report *Report
	for i := 0; i < 16; i++ {
		report, _ = b.HandleEvent(frameTick(400+float64(i)*40, 0.4))
		if report != nil {
			break
		}
	}

	require.NotNil(t, report)
	assert.True(t, b.FPSDetected())
	// 26 ticks spanning the full second, 40ms apart
	assert.Equal(t, 26, report.Snapshot.FPS)
}

func TestWindowCloseBypassesThrottle(t *testing.T) {
	b, _ := newTestBridge(&Options{SupportsFrameCallback: true})

	_, _ = b.HandleEvent(Event{Type: EventPlay, State: playingState(0)})

	// a fresh forced report leaves the throttle window wide open
	report, _ := b.HandleEvent(Event{Type: EventSeeked, State: playingState(0)})
	require.NotNil(t, report)

	var closed *Report
	for i := 0; i < 59; i++ {
		closed, _ = b.HandleEvent(frameTick(float64(i)*16, 0))
		require.Nil(t, closed)
	}
	closed, _ = b.HandleEvent(frameTick(1000, 0))

	require.NotNil(t, closed, "fps detection must report regardless of throttle")
	assert.True(t, closed.Forced)
	assert.Equal(t, 60, closed.Snapshot.FPS)
}
