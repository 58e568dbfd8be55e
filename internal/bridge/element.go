package bridge

// EventType identifies a lifecycle signal observed on the remote media
// element.
type EventType string

const (
	EventLoadedMetadata EventType = "LOADED_METADATA"
	EventPlay           EventType = "PLAY"
	EventPause          EventType = "PAUSE"
	EventSeeked         EventType = "SEEKED"
	EventEnded          EventType = "ENDED"
	EventTimeUpdate     EventType = "TIME_UPDATE"
	EventFrameTick      EventType = "FRAME_TICK"
	EventRenderTick     EventType = "RENDER_TICK"
)

// ElementState is the raw media element state carried by every inbound
// event. It mirrors the remote element; the bridge never reads the element
// directly.
type ElementState struct {
	Source      string  `json:"source"`
	CurrentTime float64 `json:"current_time"`
	Duration    float64 `json:"duration"`
	Paused      bool    `json:"paused"`
	Ended       bool    `json:"ended"`
	ReadyState  int     `json:"ready_state"`
}

// Event is a single element lifecycle signal with the element state
// observed at the moment it fired.
type Event struct {
	Type EventType
	// NowMS is the element media-clock timestamp in milliseconds.
	// Carried by FRAME_TICK events only.
	NowMS float64
	State ElementState
}

// Directive message types sent to the element.
const (
	DirectiveSetSource   = "SET_SOURCE"
	DirectiveSetHeight   = "SET_HEIGHT"
	DirectiveSetAutoplay = "SET_AUTOPLAY"
	DirectiveSetLoop     = "SET_LOOP"
	DirectiveSeek        = "SEEK"
	DirectiveSetOverlay  = "SET_OVERLAY"
)

// Directive is a command for the remote element. The element page applies
// SET_HEIGHT to its container and video nodes and SET_OVERLAY to its info
// node.
type Directive struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type SetSourcePayload struct {
	URL string `json:"url"`
}

type SetHeightPayload struct {
	Pixels int `json:"pixels"`
}

type SetFlagPayload struct {
	Value bool `json:"value"`
}

type SeekPayload struct {
	Time float64 `json:"time"`
}

type SetOverlayPayload struct {
	Text string `json:"text"`
}
