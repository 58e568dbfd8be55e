package player

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/vidstate/server/internal/bridge"
	playerRepo "github.com/vidstate/server/internal/repository/player"
	"github.com/vidstate/server/pkg/videosource"
)

type CreatePlayerResponse struct {
	PlayerId string
}

func (s *service) CreatePlayer(ctx context.Context) (CreatePlayerResponse, error) {
	playerId := uuid.NewString()

	if err := s.playerRepo.SetPlayer(ctx, &playerRepo.SetPlayerParams{
		PlayerId: playerId,
		Snapshot: playerRepo.Snapshot{FPS: s.cfg.DefaultFPS},
	}); err != nil {
		return CreatePlayerResponse{}, fmt.Errorf("failed to set player: %w", err)
	}

	return CreatePlayerResponse{PlayerId: playerId}, nil
}

type ConnectElementParams struct {
	Conn                  *websocket.Conn
	PlayerId              string
	SupportsFrameCallback bool
}

type ConnectElementResponse struct {
	Directives []bridge.Directive
	Report     *bridge.Report
}

// ConnectElement registers the element connection, creates its bridge
// instance, replays the persisted configuration as directives and issues
// the initial forced report.
func (s *service) ConnectElement(ctx context.Context, params *ConnectElementParams) (ConnectElementResponse, error) {
	exists, err := s.playerRepo.IsPlayerExists(ctx, params.PlayerId)
	if err != nil {
		return ConnectElementResponse{}, fmt.Errorf("failed to check if player exists: %w", err)
	}
	if !exists {
		return ConnectElementResponse{}, ErrPlayerNotFound
	}

	if err := s.connRepo.AddElement(params.Conn, params.PlayerId); err != nil {
		return ConnectElementResponse{}, fmt.Errorf("failed to add element conn: %w", err)
	}

	b := bridge.New(&bridge.Options{
		DefaultFPS:            s.cfg.DefaultFPS,
		UpdateThrottle:        s.cfg.UpdateThrottle,
		SampleWindow:          s.cfg.SampleWindow,
		SupportsFrameCallback: params.SupportsFrameCallback,
		Logger:                s.logger.With("player_id", params.PlayerId),
	})

	cfg, err := s.playerRepo.GetConfig(ctx, params.PlayerId)
	if err != nil {
		_ = s.connRepo.RemoveElement(params.PlayerId)
		return ConnectElementResponse{}, fmt.Errorf("failed to get config: %w", err)
	}
	if cfg.Height == nil {
		height := s.cfg.DefaultHeight
		cfg.Height = &height
	}

	bridgeCfg := configFromRepo(cfg)
	directives := b.ApplyConfig(&bridgeCfg)

	report := b.InitialReport()
	if err := s.playerRepo.SetSnapshot(ctx, &playerRepo.SetSnapshotParams{
		PlayerId: params.PlayerId,
		Snapshot: snapshotToRepo(report.Snapshot),
	}); err != nil {
		_ = s.connRepo.RemoveElement(params.PlayerId)
		return ConnectElementResponse{}, fmt.Errorf("failed to set snapshot: %w", err)
	}

	s.putBridge(params.PlayerId, b)

	return ConnectElementResponse{
		Directives: directives,
		Report:     report,
	}, nil
}

type DisconnectElementParams struct {
	PlayerId string
}

// DisconnectElement drops the element connection and its bridge. Bridge
// state (detected fps, last seek value, throttle timestamp) dies with the
// element, matching the component-per-element lifetime.
func (s *service) DisconnectElement(ctx context.Context, params *DisconnectElementParams) error {
	s.dropBridge(params.PlayerId)

	if err := s.connRepo.RemoveElement(params.PlayerId); err != nil {
		return fmt.Errorf("failed to remove element conn: %w", err)
	}

	return nil
}

type ConnectHostParams struct {
	Conn     *websocket.Conn
	PlayerId string
}

type ConnectHostResponse struct {
	Snapshot bridge.Snapshot
}

func (s *service) ConnectHost(ctx context.Context, params *ConnectHostParams) (ConnectHostResponse, error) {
	exists, err := s.playerRepo.IsPlayerExists(ctx, params.PlayerId)
	if err != nil {
		return ConnectHostResponse{}, fmt.Errorf("failed to check if player exists: %w", err)
	}
	if !exists {
		return ConnectHostResponse{}, ErrPlayerNotFound
	}

	if err := s.connRepo.AddHost(params.Conn, params.PlayerId); err != nil {
		return ConnectHostResponse{}, fmt.Errorf("failed to add host conn: %w", err)
	}

	snapshot, err := s.GetSnapshot(ctx, params.PlayerId)
	if err != nil {
		return ConnectHostResponse{}, err
	}

	return ConnectHostResponse{Snapshot: snapshot}, nil
}

func (s *service) DisconnectHost(ctx context.Context, conn *websocket.Conn) error {
	if err := s.connRepo.RemoveHostByConn(conn); err != nil {
		return fmt.Errorf("failed to remove host conn: %w", err)
	}

	return nil
}

type UpdateConfigParams struct {
	PlayerId string
	VideoSrc *string
	Height   *int
	Autoplay *bool
	Loop     *bool
	SeekTo   *float64
}

type UpdateConfigResponse struct {
	ElementConn *websocket.Conn
	Directives  []bridge.Directive
}

// UpdateConfig persists the merged configuration and, when an element is
// connected, applies it through the bridge. With no element connected the
// configuration is replayed on the next ConnectElement.
func (s *service) UpdateConfig(ctx context.Context, params *UpdateConfigParams) (UpdateConfigResponse, error) {
	exists, err := s.playerRepo.IsPlayerExists(ctx, params.PlayerId)
	if err != nil {
		return UpdateConfigResponse{}, fmt.Errorf("failed to check if player exists: %w", err)
	}
	if !exists {
		return UpdateConfigResponse{}, ErrPlayerNotFound
	}

	videoSrc := params.VideoSrc
	if videoSrc != nil {
		prepared, err := videosource.Prepare(*videoSrc)
		if err != nil {
			return UpdateConfigResponse{}, fmt.Errorf("failed to prepare video source: %w", err)
		}
		videoSrc = &prepared
	}

	cfg := playerRepo.Config{
		VideoSrc: videoSrc,
		Height:   params.Height,
		Autoplay: params.Autoplay,
		Loop:     params.Loop,
		SeekTo:   params.SeekTo,
	}
	if err := s.playerRepo.SetConfig(ctx, &playerRepo.SetConfigParams{
		PlayerId: params.PlayerId,
		Config:   cfg,
	}); err != nil {
		return UpdateConfigResponse{}, fmt.Errorf("failed to set config: %w", err)
	}

	h, ok := s.getBridge(params.PlayerId)
	if !ok {
		return UpdateConfigResponse{}, nil
	}

	elementConn, err := s.connRepo.GetElementConn(params.PlayerId)
	if err != nil {
		return UpdateConfigResponse{}, fmt.Errorf("failed to get element conn: %w", err)
	}

	bridgeCfg := configFromRepo(cfg)

	h.mu.Lock()
	directives := h.b.ApplyConfig(&bridgeCfg)
	h.mu.Unlock()

	return UpdateConfigResponse{
		ElementConn: elementConn,
		Directives:  directives,
	}, nil
}

type ElementEventParams struct {
	PlayerId string
	Event    bridge.Event
}

type ElementEventResponse struct {
	Report     *bridge.Report
	Directives []bridge.Directive
	HostConns  []*websocket.Conn
}

// HandleElementEvent feeds one element lifecycle event through the bridge,
// persists the resulting snapshot when a report was delivered and returns
// the host connections to notify.
func (s *service) HandleElementEvent(ctx context.Context, params *ElementEventParams) (ElementEventResponse, error) {
	h, ok := s.getBridge(params.PlayerId)
	if !ok {
		return ElementEventResponse{}, ErrElementNotConnected
	}

	h.mu.Lock()
	report, directives := h.b.HandleEvent(params.Event)
	h.mu.Unlock()

	if report != nil {
		if err := s.playerRepo.SetSnapshot(ctx, &playerRepo.SetSnapshotParams{
			PlayerId: params.PlayerId,
			Snapshot: snapshotToRepo(report.Snapshot),
		}); err != nil {
			return ElementEventResponse{}, fmt.Errorf("failed to set snapshot: %w", err)
		}
	}

	return ElementEventResponse{
		Report:     report,
		Directives: directives,
		HostConns:  s.connRepo.GetHostConns(params.PlayerId),
	}, nil
}

func (s *service) GetSnapshot(ctx context.Context, playerId string) (bridge.Snapshot, error) {
	snapshot, err := s.playerRepo.GetSnapshot(ctx, playerId)
	if err != nil {
		if errors.Is(err, playerRepo.ErrPlayerNotFound) {
			return bridge.Snapshot{}, ErrPlayerNotFound
		}
		return bridge.Snapshot{}, fmt.Errorf("failed to get snapshot: %w", err)
	}

	return snapshotFromRepo(snapshot), nil
}

type RemovePlayerParams struct {
	PlayerId string
}

type RemovePlayerResponse struct {
	ElementConn *websocket.Conn
	HostConns   []*websocket.Conn
}

// RemovePlayer deletes the session. Returned connections are for the
// caller to close.
func (s *service) RemovePlayer(ctx context.Context, params *RemovePlayerParams) (RemovePlayerResponse, error) {
	if err := s.playerRepo.RemovePlayer(ctx, params.PlayerId); err != nil {
		if errors.Is(err, playerRepo.ErrPlayerNotFound) {
			return RemovePlayerResponse{}, ErrPlayerNotFound
		}
		return RemovePlayerResponse{}, fmt.Errorf("failed to remove player: %w", err)
	}

	s.dropBridge(params.PlayerId)

	resp := RemovePlayerResponse{
		HostConns: s.connRepo.GetHostConns(params.PlayerId),
	}

	if elementConn, err := s.connRepo.GetElementConn(params.PlayerId); err == nil {
		resp.ElementConn = elementConn
		_ = s.connRepo.RemoveElement(params.PlayerId)
	}

	return resp, nil
}
