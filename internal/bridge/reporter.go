package bridge

import (
	"fmt"
	"math"
)

// Snapshot is the playback telemetry tuple delivered to the host.
type Snapshot struct {
	CurrentTime float64 `json:"current_time"`
	FrameNumber int     `json:"frame_number"`
	Duration    float64 `json:"duration"`
	FPS         int     `json:"fps"`
	IsPlaying   bool    `json:"is_playing"`
}

// Report is one delivered state update: the snapshot for the host state
// channel and the overlay text for the element's info node.
type Report struct {
	Snapshot Snapshot `json:"snapshot"`
	Overlay  string   `json:"overlay"`
	Forced   bool     `json:"forced"`
}

// Snapshot computes the current telemetry tuple from the element mirror.
// Unknown time and duration read as 0, never as an error.
func (b *Bridge) Snapshot() Snapshot {
	currentTime := b.el.CurrentTime
	if math.IsNaN(currentTime) || currentTime < 0 {
		currentTime = 0
	}

	duration := b.el.Duration
	if math.IsNaN(duration) || duration < 0 {
		duration = 0
	}

	return Snapshot{
		CurrentTime: currentTime,
		FrameNumber: int(math.Floor(currentTime * float64(b.fps))),
		Duration:    duration,
		FPS:         b.fps,
		IsPlaying:   !b.el.Paused && !b.el.Ended,
	}
}

// report applies the throttle and builds the outbound report. Standard
// throttle, not debounce: the timestamp moves only when a report is
// actually delivered.
func (b *Bridge) report(force bool) *Report {
	now := b.now()
	if !force && now.Sub(b.lastReportAt) < b.throttle {
		return nil
	}
	b.lastReportAt = now

	snapshot := b.Snapshot()

	return &Report{
		Snapshot: snapshot,
		Overlay:  formatOverlay(snapshot),
		Forced:   force,
	}
}

// InitialReport is the forced report issued when the element connects.
func (b *Bridge) InitialReport() *Report {
	return b.report(true)
}

func formatOverlay(s Snapshot) string {
	return fmt.Sprintf("%.2fs | Frame %d | %d fps", s.CurrentTime, s.FrameNumber, s.FPS)
}
