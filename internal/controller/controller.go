package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/vidstate/server/internal/bridge"
	wssender "github.com/vidstate/server/internal/repository/ws-sender"
	"github.com/vidstate/server/internal/service/player"
	"github.com/vidstate/server/pkg/validator"
	"github.com/vidstate/server/pkg/wsrouter"
)

type iPlayerService interface {
	CreatePlayer(context.Context) (player.CreatePlayerResponse, error)
	ConnectElement(context.Context, *player.ConnectElementParams) (player.ConnectElementResponse, error)
	DisconnectElement(context.Context, *player.DisconnectElementParams) error
	ConnectHost(context.Context, *player.ConnectHostParams) (player.ConnectHostResponse, error)
	DisconnectHost(context.Context, *websocket.Conn) error
	UpdateConfig(context.Context, *player.UpdateConfigParams) (player.UpdateConfigResponse, error)
	HandleElementEvent(context.Context, *player.ElementEventParams) (player.ElementEventResponse, error)
	GetSnapshot(context.Context, string) (bridge.Snapshot, error)
	RemovePlayer(context.Context, *player.RemovePlayerParams) (player.RemovePlayerResponse, error)
}

type controller struct {
	playerService iPlayerService
	upgrader      websocket.Upgrader
	validate      *validator.Validator
	logger        *slog.Logger
	sender        *wssender.Repo
	elementMux    *wsrouter.WSRouter
}

func NewController(playerService iPlayerService, logger *slog.Logger) *controller {
	c := controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		playerService: playerService,
		validate:      validator.NewValidator(),
		logger:        logger,
		sender:        wssender.NewRepo(),
	}

	c.elementMux = c.getElementWSRouter()

	return &c
}
