package controller

import (
	"github.com/vidstate/server/internal/bridge"
	"github.com/vidstate/server/pkg/wsrouter"
)

func (c controller) getElementWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()
	mux.SetWriter(c.sender.WriteJSON)

	mux.Use(c.wsRequestIdMw(), c.wsLoggerMw())

	wsrouter.Handle(mux, "ALIVE", c.handleAlive)

	// element lifecycle events, forced/non-forced resolved by the bridge
	wsrouter.Handle(mux, string(bridge.EventLoadedMetadata), c.elementEventHandler(bridge.EventLoadedMetadata))
	wsrouter.Handle(mux, string(bridge.EventPlay), c.elementEventHandler(bridge.EventPlay))
	wsrouter.Handle(mux, string(bridge.EventPause), c.elementEventHandler(bridge.EventPause))
	wsrouter.Handle(mux, string(bridge.EventSeeked), c.elementEventHandler(bridge.EventSeeked))
	wsrouter.Handle(mux, string(bridge.EventEnded), c.elementEventHandler(bridge.EventEnded))
	wsrouter.Handle(mux, string(bridge.EventTimeUpdate), c.elementEventHandler(bridge.EventTimeUpdate))
	wsrouter.Handle(mux, string(bridge.EventFrameTick), c.elementEventHandler(bridge.EventFrameTick))
	wsrouter.Handle(mux, string(bridge.EventRenderTick), c.elementEventHandler(bridge.EventRenderTick))

	return mux
}
