package controller

import (
	"context"

	"github.com/gorilla/websocket"
	"github.com/vidstate/server/internal/bridge"
	"github.com/vidstate/server/internal/service/player"
	"github.com/vidstate/server/pkg/wsrouter"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// ElementEventInput carries the raw element state observed when a
// lifecycle event fired.
type ElementEventInput struct {
	Source      string  `json:"source"`
	CurrentTime float64 `json:"current_time"`
	Duration    float64 `json:"duration"`
	Paused      bool    `json:"paused"`
	Ended       bool    `json:"ended"`
	ReadyState  int     `json:"ready_state"`
	// NowMS is the element media-clock timestamp. FRAME_TICK only.
	NowMS float64 `json:"now_ms"`
}

func (c controller) handleAlive(_ context.Context, _ *websocket.Conn, _ struct{}) error {
	return nil
}

// elementEventHandler builds the handler for one lifecycle event type.
// Directives (deferred seeks, overlay text) go back to the element;
// reports go to every host state subscriber.
func (c controller) elementEventHandler(eventType bridge.EventType) wsrouter.HandlerFunc[ElementEventInput] {
	return func(ctx context.Context, conn *websocket.Conn, input ElementEventInput) error {
		playerId := c.getPlayerIdFromCtx(ctx)

		resp, err := c.playerService.HandleElementEvent(ctx, &player.ElementEventParams{
			PlayerId: playerId,
			Event: bridge.Event{
				Type:  eventType,
				NowMS: input.NowMS,
				State: bridge.ElementState{
					Source:      input.Source,
					CurrentTime: input.CurrentTime,
					Duration:    input.Duration,
					Paused:      input.Paused,
					Ended:       input.Ended,
					ReadyState:  input.ReadyState,
				},
			},
		})
		if err != nil {
			c.logger.WarnContext(ctx, "failed to handle element event", "error", err)
			return nil
		}

		for _, directive := range resp.Directives {
			if err := c.sender.WriteJSON(conn, directive); err != nil {
				return err
			}
		}

		if resp.Report != nil {
			if err := c.sender.WriteJSON(conn, bridge.Directive{
				Type:    bridge.DirectiveSetOverlay,
				Payload: bridge.SetOverlayPayload{Text: resp.Report.Overlay},
			}); err != nil {
				return err
			}

			c.broadcastState(ctx, resp.HostConns, resp.Report.Snapshot)
		}

		return nil
	}
}

func (c controller) broadcastState(ctx context.Context, conns []*websocket.Conn, snapshot bridge.Snapshot) {
	for _, conn := range conns {
		if err := c.sender.WriteJSON(conn, &Output{
			Type:    "STATE_UPDATED",
			Payload: snapshot,
		}); err != nil {
			c.logger.WarnContext(ctx, "failed to write state to host", "error", err)
		}
	}
}

func (c controller) writeError(conn *websocket.Conn, err error) error {
	return c.sender.WriteJSON(conn, &Output{
		Type: "ERROR",
		Payload: map[string]any{
			"message": err.Error(),
		},
	})
}
