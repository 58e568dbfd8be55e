package player

import (
	"github.com/vidstate/server/internal/bridge"
	playerRepo "github.com/vidstate/server/internal/repository/player"
)

func snapshotToRepo(s bridge.Snapshot) playerRepo.Snapshot {
	return playerRepo.Snapshot{
		CurrentTime: s.CurrentTime,
		FrameNumber: s.FrameNumber,
		Duration:    s.Duration,
		FPS:         s.FPS,
		IsPlaying:   s.IsPlaying,
	}
}

func snapshotFromRepo(s playerRepo.Snapshot) bridge.Snapshot {
	return bridge.Snapshot{
		CurrentTime: s.CurrentTime,
		FrameNumber: s.FrameNumber,
		Duration:    s.Duration,
		FPS:         s.FPS,
		IsPlaying:   s.IsPlaying,
	}
}

func configFromRepo(c playerRepo.Config) bridge.Config {
	return bridge.Config{
		VideoSrc: c.VideoSrc,
		Height:   c.Height,
		Autoplay: c.Autoplay,
		Loop:     c.Loop,
		SeekTo:   c.SeekTo,
	}
}
