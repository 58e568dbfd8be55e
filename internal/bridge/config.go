package bridge

// Config is a one-shot configuration update from the host. Nil fields are
// absent and leave the element untouched.
type Config struct {
	VideoSrc *string  `json:"video_src"`
	Height   *int     `json:"height"`
	Autoplay *bool    `json:"autoplay"`
	Loop     *bool    `json:"loop"`
	SeekTo   *float64 `json:"seek_to"`
}

// ApplyConfig turns a configuration update into directives for the element.
// Each field is applied only when present and meaningfully different from
// the current element state:
//   - VideoSrc only when it differs from the current source.
//   - Height only when positive.
//   - Autoplay and Loop only when true, never unset.
//   - SeekTo is deduplicated against the last value seen. When element
//     metadata is not loaded yet the seek is held back and issued once on
//     the next LOADED_METADATA event. If metadata never loads the seek is
//     never applied.
func (b *Bridge) ApplyConfig(cfg *Config) []Directive {
	if cfg == nil {
		return nil
	}

	var directives []Directive

	if cfg.VideoSrc != nil && *cfg.VideoSrc != "" && *cfg.VideoSrc != b.el.Source {
		b.el.Source = *cfg.VideoSrc
		directives = append(directives, Directive{
			Type:    DirectiveSetSource,
			Payload: SetSourcePayload{URL: *cfg.VideoSrc},
		})
	}

	if cfg.Height != nil && *cfg.Height > 0 {
		directives = append(directives, Directive{
			Type:    DirectiveSetHeight,
			Payload: SetHeightPayload{Pixels: *cfg.Height},
		})
	}

	if cfg.Autoplay != nil && *cfg.Autoplay {
		directives = append(directives, Directive{
			Type:    DirectiveSetAutoplay,
			Payload: SetFlagPayload{Value: true},
		})
	}

	if cfg.Loop != nil && *cfg.Loop {
		directives = append(directives, Directive{
			Type:    DirectiveSetLoop,
			Payload: SetFlagPayload{Value: true},
		})
	}

	if cfg.SeekTo != nil && (b.lastSeekTo == nil || *b.lastSeekTo != *cfg.SeekTo) {
		seekTo := *cfg.SeekTo
		b.lastSeekTo = &seekTo

		if b.el.ReadyState >= readyStateHaveMetadata {
			directives = append(directives, Directive{
				Type:    DirectiveSeek,
				Payload: SeekPayload{Time: seekTo},
			})
		} else {
			b.pendingSeek = &seekTo
		}
	}

	return directives
}
