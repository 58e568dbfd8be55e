package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vidstate/server/internal/service/player"
	omitnilpointers "github.com/vidstate/server/pkg/omit-nil-pointers"
)

func (c controller) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (c controller) createPlayer(w http.ResponseWriter, r *http.Request) {
	resp, err := c.playerService.CreatePlayer(r.Context())
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to create player", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	c.writeJSON(w, http.StatusCreated, map[string]string{"player_id": resp.PlayerId})
}

func (c controller) getState(w http.ResponseWriter, r *http.Request) {
	playerId := chi.URLParam(r, "player-id")

	snapshot, err := c.playerService.GetSnapshot(r.Context(), playerId)
	if err != nil {
		if errors.Is(err, player.ErrPlayerNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		c.logger.ErrorContext(r.Context(), "failed to get snapshot", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	c.writeJSON(w, http.StatusOK, snapshot)
}

type UpdateConfigInput struct {
	VideoSrc *string  `json:"video_src" validate:"omitempty,min=1"`
	Height   *int     `json:"height" validate:"omitempty,gt=0"`
	Autoplay *bool    `json:"autoplay"`
	Loop     *bool    `json:"loop"`
	SeekTo   *float64 `json:"seek_to" validate:"omitempty,gte=0"`
}

func (c controller) updateConfig(w http.ResponseWriter, r *http.Request) {
	playerId := chi.URLParam(r, "player-id")

	var input UpdateConfigInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		c.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	if validationErrors, ok := c.validate.Validate(&input); !ok {
		c.writeJSON(w, http.StatusBadRequest, map[string]any{"errors": validationErrors})
		return
	}

	resp, err := c.playerService.UpdateConfig(r.Context(), &player.UpdateConfigParams{
		PlayerId: playerId,
		VideoSrc: input.VideoSrc,
		Height:   input.Height,
		Autoplay: input.Autoplay,
		Loop:     input.Loop,
		SeekTo:   input.SeekTo,
	})
	if err != nil {
		if errors.Is(err, player.ErrPlayerNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		c.logger.ErrorContext(r.Context(), "failed to update config", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	c.logger.InfoContext(r.Context(), "config updated",
		"player_id", playerId,
		"config", omitnilpointers.OmitNilPointers(map[string]any{
			"video_src": input.VideoSrc,
			"height":    input.Height,
			"autoplay":  input.Autoplay,
			"loop":      input.Loop,
			"seek_to":   input.SeekTo,
		}),
	)

	if resp.ElementConn != nil {
		for _, directive := range resp.Directives {
			if err := c.sender.WriteJSON(resp.ElementConn, directive); err != nil {
				c.logger.WarnContext(r.Context(), "failed to write directive to element", "error", err)
				break
			}
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c controller) deletePlayer(w http.ResponseWriter, r *http.Request) {
	playerId := chi.URLParam(r, "player-id")

	resp, err := c.playerService.RemovePlayer(r.Context(), &player.RemovePlayerParams{PlayerId: playerId})
	if err != nil {
		if errors.Is(err, player.ErrPlayerNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		c.logger.ErrorContext(r.Context(), "failed to remove player", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if resp.ElementConn != nil {
		resp.ElementConn.Close()
	}
	for _, conn := range resp.HostConns {
		conn.Close()
	}

	w.WriteHeader(http.StatusNoContent)
}
