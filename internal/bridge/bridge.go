// Package bridge implements the per-player glue between a remote media
// element and the host: it mirrors element state from lifecycle events,
// applies host configuration as element directives, estimates the frame
// rate from delivered-frame callbacks and emits throttled telemetry
// snapshots.
package bridge

import (
	"log/slog"
	"time"
)

const (
	DefaultFPS            = 30
	DefaultUpdateThrottle = 250 * time.Millisecond
	DefaultSampleWindow   = time.Second

	readyStateHaveMetadata = 1
)

type phase int

const (
	phaseIdle phase = iota
	phaseRendering
)

type Options struct {
	// DefaultFPS is used until detection completes, or forever when the
	// element lacks the per-frame callback capability.
	DefaultFPS int
	// UpdateThrottle caps non-forced reports.
	UpdateThrottle time.Duration
	// SampleWindow is the frame-rate sampling window on the element's
	// media clock.
	SampleWindow time.Duration
	// SupportsFrameCallback reports whether the element can deliver
	// per-video-frame callbacks.
	SupportsFrameCallback bool
	Logger                *slog.Logger
}

// Bridge holds the full per-instance state of one element bridge. It is
// not safe for concurrent use; callers serialize access per player.
type Bridge struct {
	fps         int
	fpsDetected bool
	sampler     sampler

	throttle     time.Duration
	lastReportAt time.Time

	lastSeekTo  *float64
	pendingSeek *float64

	phase phase
	el    ElementState

	supportsFrameCallback bool
	logger                *slog.Logger
	now                   func() time.Time
}

func New(opts *Options) *Bridge {
	b := Bridge{
		fps:                   opts.DefaultFPS,
		throttle:              opts.UpdateThrottle,
		supportsFrameCallback: opts.SupportsFrameCallback,
		sampler:               sampler{window: opts.SampleWindow},
		logger:                opts.Logger,
		now:                   time.Now,
		// the element starts paused; only an event may say otherwise
		el: ElementState{Paused: true},
	}

	if b.fps <= 0 {
		b.fps = DefaultFPS
	}
	if b.throttle <= 0 {
		b.throttle = DefaultUpdateThrottle
	}
	if b.sampler.window <= 0 {
		b.sampler.window = DefaultSampleWindow
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}

	if !b.supportsFrameCallback {
		b.logger.Info("per-frame callback not supported, using fallback fps", "fps", b.fps)
	}

	return &b
}

// eventForce maps reportable lifecycle events to the reporter's forced
// flag. Discrete lifecycle events bypass the throttle; the periodic
// time-update signal does not. Frame and render ticks are resolved per
// tick in HandleEvent.
var eventForce = map[EventType]bool{
	EventLoadedMetadata: true,
	EventPlay:           true,
	EventPause:          true,
	EventSeeked:         true,
	EventEnded:          true,
	EventTimeUpdate:     false,
}

// HandleEvent feeds one element event through the bridge. It returns the
// report to deliver to the host, if any, and directives to send back to
// the element.
func (b *Bridge) HandleEvent(ev Event) (*Report, []Directive) {
	b.el = ev.State

	switch ev.Type {
	case EventFrameTick:
		if b.sampleFrame(ev.NowMS) {
			return b.report(true), nil
		}
		return nil, nil

	case EventRenderTick:
		if b.phase != phaseRendering {
			return nil, nil
		}
		if b.el.Paused || b.el.Ended {
			b.phase = phaseIdle
			return nil, nil
		}
		return b.report(false), nil
	}

	var directives []Directive

	switch ev.Type {
	case EventLoadedMetadata:
		if b.pendingSeek != nil {
			directives = append(directives, Directive{
				Type:    DirectiveSeek,
				Payload: SeekPayload{Time: *b.pendingSeek},
			})
			b.pendingSeek = nil
		}

	case EventPlay:
		b.armSampler()
		// Overlapping loops are not defended against: a second PLAY
		// before PAUSE/ENDED leaves the phase at rendering either way.
		b.phase = phaseRendering
	}

	forced, ok := eventForce[ev.Type]
	if !ok {
		return nil, directives
	}

	return b.report(forced), directives
}
