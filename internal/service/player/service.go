package player

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vidstate/server/internal/bridge"
	playerRepo "github.com/vidstate/server/internal/repository/player"
)

var (
	ErrPlayerNotFound      = errors.New("player not found")
	ErrElementNotConnected = errors.New("element not connected")
)

type iPlayerRepo interface {
	SetPlayer(context.Context, *playerRepo.SetPlayerParams) error
	IsPlayerExists(context.Context, string) (bool, error)
	RemovePlayer(context.Context, string) error
	SetSnapshot(context.Context, *playerRepo.SetSnapshotParams) error
	GetSnapshot(context.Context, string) (playerRepo.Snapshot, error)
	SetConfig(context.Context, *playerRepo.SetConfigParams) error
	GetConfig(context.Context, string) (playerRepo.Config, error)
}

type iConnRepo interface {
	AddElement(*websocket.Conn, string) error
	RemoveElement(string) error
	GetElementConn(string) (*websocket.Conn, error)
	GetElementPlayerId(*websocket.Conn) (string, error)
	AddHost(*websocket.Conn, string) error
	RemoveHostByConn(*websocket.Conn) error
	GetHostConns(string) []*websocket.Conn
}

type Config struct {
	// DefaultFPS seeds every bridge until detection completes.
	DefaultFPS int
	// UpdateThrottle caps non-forced state reports per bridge.
	UpdateThrottle time.Duration
	// SampleWindow is the frame-rate detection window.
	SampleWindow time.Duration
	// DefaultHeight is applied when a host never configures one.
	DefaultHeight int
}

// bridgeHandle serializes access to one bridge. The element websocket
// goroutine and REST config handlers both reach it, and Bridge itself is
// not safe for concurrent use.
type bridgeHandle struct {
	mu sync.Mutex
	b  *bridge.Bridge
}

type service struct {
	playerRepo iPlayerRepo
	connRepo   iConnRepo
	cfg        Config
	logger     *slog.Logger

	mu      sync.Mutex
	bridges map[string]*bridgeHandle
}

func NewService(playerRepo iPlayerRepo, connRepo iConnRepo, cfg Config, logger *slog.Logger) *service {
	if cfg.DefaultFPS <= 0 {
		cfg.DefaultFPS = bridge.DefaultFPS
	}
	if cfg.UpdateThrottle <= 0 {
		cfg.UpdateThrottle = bridge.DefaultUpdateThrottle
	}
	if cfg.SampleWindow <= 0 {
		cfg.SampleWindow = bridge.DefaultSampleWindow
	}
	if cfg.DefaultHeight <= 0 {
		cfg.DefaultHeight = 400
	}

	return &service{
		playerRepo: playerRepo,
		connRepo:   connRepo,
		cfg:        cfg,
		logger:     logger,
		bridges:    make(map[string]*bridgeHandle),
	}
}

func (s *service) getBridge(playerId string) (*bridgeHandle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.bridges[playerId]
	return h, ok
}

func (s *service) putBridge(playerId string, b *bridge.Bridge) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bridges[playerId] = &bridgeHandle{b: b}
}

func (s *service) dropBridge(playerId string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.bridges, playerId)
}
