package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vidstate/server/internal/bridge"
	"github.com/vidstate/server/internal/service/player"
)

// elementWS is the media element side of the bridge. The element reports
// lifecycle events and receives directives.
func (c controller) elementWS(w http.ResponseWriter, r *http.Request) {
	playerId := chi.URLParam(r, "player-id")
	supportsFrameCallback := r.URL.Query().Get("supports-frame-callback") == "true"

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()
	defer c.sender.Remove(conn)

	resp, err := c.playerService.ConnectElement(r.Context(), &player.ConnectElementParams{
		Conn:                  conn,
		PlayerId:              playerId,
		SupportsFrameCallback: supportsFrameCallback,
	})
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to connect element", "error", err)
		c.writeError(conn, errors.New("failed to connect element"))
		return
	}
	defer func() {
		if err := c.playerService.DisconnectElement(r.Context(), &player.DisconnectElementParams{
			PlayerId: playerId,
		}); err != nil {
			c.logger.WarnContext(r.Context(), "failed to disconnect element", "error", err)
		}
	}()

	// replay persisted configuration, then the initial forced report
	for _, directive := range resp.Directives {
		if err := c.sender.WriteJSON(conn, directive); err != nil {
			c.logger.WarnContext(r.Context(), "failed to write directive to element", "error", err)
			return
		}
	}

	if resp.Report != nil {
		if err := c.sender.WriteJSON(conn, bridge.Directive{
			Type:    bridge.DirectiveSetOverlay,
			Payload: bridge.SetOverlayPayload{Text: resp.Report.Overlay},
		}); err != nil {
			c.logger.WarnContext(r.Context(), "failed to write overlay to element", "error", err)
			return
		}
	}

	ctx := context.WithValue(r.Context(), playerIdCtxKey, playerId)

	if err := c.elementMux.ServeConn(ctx, conn); err != nil {
		c.logger.InfoContext(r.Context(), "element connection closed", "error", err)
	}
}

// hostWS is the host state channel: it receives the current snapshot on
// connect and every delivered report afterwards.
func (c controller) hostWS(w http.ResponseWriter, r *http.Request) {
	playerId := chi.URLParam(r, "player-id")

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()
	defer c.sender.Remove(conn)

	resp, err := c.playerService.ConnectHost(r.Context(), &player.ConnectHostParams{
		Conn:     conn,
		PlayerId: playerId,
	})
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to connect host", "error", err)
		c.writeError(conn, errors.New("failed to connect host"))
		return
	}
	defer func() {
		if err := c.playerService.DisconnectHost(r.Context(), conn); err != nil {
			c.logger.WarnContext(r.Context(), "failed to disconnect host", "error", err)
		}
	}()

	if err := c.sender.WriteJSON(conn, &Output{
		Type:    "STATE_UPDATED",
		Payload: resp.Snapshot,
	}); err != nil {
		c.logger.WarnContext(r.Context(), "failed to write snapshot to host", "error", err)
		return
	}

	// hosts only listen; drain until the connection drops
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}
