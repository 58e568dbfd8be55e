package player

// Snapshot is the last delivered telemetry tuple, stored per player so
// hosts can poll without a websocket.
type Snapshot struct {
	CurrentTime float64 `redis:"current_time"`
	FrameNumber int     `redis:"frame_number"`
	Duration    float64 `redis:"duration"`
	FPS         int     `redis:"fps"`
	IsPlaying   bool    `redis:"is_playing"`
}

// Config is the merged host configuration. Nil fields were never set and
// are skipped on write, so later updates merge with earlier ones.
type Config struct {
	VideoSrc *string  `redis:"video_src"`
	Height   *int     `redis:"height"`
	Autoplay *bool    `redis:"autoplay"`
	Loop     *bool    `redis:"loop"`
	SeekTo   *float64 `redis:"seek_to"`
}
