package bridge

import (
	"math"
	"time"
)

// sampler measures delivered-frame callback timing after the first
// playback start. One estimate per bridge instance: detection never
// restarts, not on seek and not on replay. A pause inside the window does
// not reset it; ticks resume accumulating against the original start.
type sampler struct {
	armed   bool
	active  bool
	started bool
	startMS float64
	frames  int
	window  time.Duration
}

// armSampler starts sampling on the first PLAY only, and only when the
// element supports per-frame callbacks.
func (b *Bridge) armSampler() {
	if b.sampler.armed || !b.supportsFrameCallback {
		return
	}
	b.sampler.armed = true

	if !b.fpsDetected {
		b.sampler.active = true
	}
}

// sampleFrame accumulates one delivered-frame callback. nowMS is the
// element media-clock timestamp. It reports true when the sampling window
// closed on this tick and the fps estimate became fixed.
func (b *Bridge) sampleFrame(nowMS float64) bool {
	if !b.sampler.active || b.fpsDetected {
		return false
	}

	if !b.sampler.started {
		b.sampler.started = true
		b.sampler.startMS = nowMS
		b.sampler.frames = 0
	}

	b.sampler.frames++

	elapsedMS := nowMS - b.sampler.startMS
	if elapsedMS < float64(b.sampler.window.Milliseconds()) {
		return false
	}

	b.fps = int(math.Round(float64(b.sampler.frames) / (elapsedMS / 1000)))
	b.fpsDetected = true
	b.sampler.active = false

	b.logger.Info("detected fps", "fps", b.fps, "frames", b.sampler.frames, "elapsed_ms", elapsedMS)

	return true
}

// FPS returns the current frame-rate estimate.
func (b *Bridge) FPS() int {
	return b.fps
}

// FPSDetected reports whether the sampling window has completed.
func (b *Bridge) FPSDetected() bool {
	return b.fpsDetected
}
