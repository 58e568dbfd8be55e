package player

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidstate/server/internal/bridge"
	"github.com/vidstate/server/internal/repository/connection/inmemory"
	playerRedis "github.com/vidstate/server/internal/repository/player/redis"
)

func newTestService(t *testing.T) (*service, *miniredis.Miniredis) {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	r := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	playerRepo := playerRedis.NewRepo(r, time.Minute)
	connRepo := inmemory.NewRepo()

	return NewService(playerRepo, connRepo, Config{}, slog.Default()), s
}

func directiveTypes(directives []bridge.Directive) []string {
	types := make([]string, 0, len(directives))
	for _, d := range directives {
		types = append(types, d.Type)
	}
	return types
}

func ptr[T any](v T) *T {
	return &v
}

func TestPlayerLifecycle(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	createResp, err := service.CreatePlayer(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, createResp.PlayerId, "player id is empty")

	snapshot, err := service.GetSnapshot(ctx, createResp.PlayerId)
	require.NoError(t, err)
	assert.Equal(t, bridge.DefaultFPS, snapshot.FPS, "fresh player must carry default fps")
	assert.False(t, snapshot.IsPlaying)

	// element connects before any config was set
	connectResp, err := service.ConnectElement(ctx, &ConnectElementParams{
		Conn:     &websocket.Conn{},
		PlayerId: createResp.PlayerId,
	})
	require.NoError(t, err)
	require.NotNil(t, connectResp.Report)
	assert.True(t, connectResp.Report.Forced, "connect must issue the initial forced report")
	assert.False(t, connectResp.Report.Snapshot.IsPlaying, "element has not started playback yet")
	assert.Equal(t, "0.00s | Frame 0 | 30 fps", connectResp.Report.Overlay)
	assert.Equal(t, []string{bridge.DirectiveSetHeight}, directiveTypes(connectResp.Directives),
		"default height must be applied when no config exists")

	// host submits config; element metadata not loaded yet, seek deferred
	updateResp, err := service.UpdateConfig(ctx, &UpdateConfigParams{
		PlayerId: createResp.PlayerId,
		VideoSrc: ptr("https://example.com/clip.mp4"),
		Autoplay: ptr(true),
		SeekTo:   ptr(12.5),
	})
	require.NoError(t, err)
	require.NotNil(t, updateResp.ElementConn)
	assert.Equal(t, []string{bridge.DirectiveSetSource, bridge.DirectiveSetAutoplay},
		directiveTypes(updateResp.Directives), "seek before metadata must be held back")

	// metadata loads: deferred seek fires exactly once
	eventResp, err := service.HandleElementEvent(ctx, &ElementEventParams{
		PlayerId: createResp.PlayerId,
		Event: bridge.Event{
			Type: bridge.EventLoadedMetadata,
			State: bridge.ElementState{
				Source:     "https://example.com/clip.mp4",
				Duration:   60,
				Paused:     true,
				ReadyState: 1,
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, eventResp.Directives, 1)
	assert.Equal(t, bridge.DirectiveSeek, eventResp.Directives[0].Type)
	assert.Equal(t, bridge.SeekPayload{Time: 12.5}, eventResp.Directives[0].Payload)
	require.NotNil(t, eventResp.Report)
	assert.True(t, eventResp.Report.Forced)
	assert.Equal(t, 60.0, eventResp.Report.Snapshot.Duration)

	// the delivered snapshot is persisted for polling hosts
	snapshot, err = service.GetSnapshot(ctx, createResp.PlayerId)
	require.NoError(t, err)
	assert.Equal(t, 60.0, snapshot.Duration)

	// unchanged seek target must not re-seek
	updateResp, err = service.UpdateConfig(ctx, &UpdateConfigParams{
		PlayerId: createResp.PlayerId,
		SeekTo:   ptr(12.5),
	})
	require.NoError(t, err)
	assert.Empty(t, updateResp.Directives)

	removeResp, err := service.RemovePlayer(ctx, &RemovePlayerParams{PlayerId: createResp.PlayerId})
	require.NoError(t, err)
	assert.NotNil(t, removeResp.ElementConn)

	_, err = service.GetSnapshot(ctx, createResp.PlayerId)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestPlaybackReporting(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	createResp, err := service.CreatePlayer(ctx)
	require.NoError(t, err)

	_, err = service.ConnectElement(ctx, &ConnectElementParams{
		Conn:     &websocket.Conn{},
		PlayerId: createResp.PlayerId,
	})
	require.NoError(t, err)

	hostConn := &websocket.Conn{}
	hostResp, err := service.ConnectHost(ctx, &ConnectHostParams{
		Conn:     hostConn,
		PlayerId: createResp.PlayerId,
	})
	require.NoError(t, err)
	assert.Equal(t, bridge.DefaultFPS, hostResp.Snapshot.FPS)

	playingState := bridge.ElementState{
		CurrentTime: 1.5,
		Duration:    10,
		ReadyState:  4,
	}

	eventResp, err := service.HandleElementEvent(ctx, &ElementEventParams{
		PlayerId: createResp.PlayerId,
		Event:    bridge.Event{Type: bridge.EventPlay, State: playingState},
	})
	require.NoError(t, err)
	require.NotNil(t, eventResp.Report)
	assert.True(t, eventResp.Report.Snapshot.IsPlaying)
	assert.Equal(t, 45, eventResp.Report.Snapshot.FrameNumber)
	assert.Len(t, eventResp.HostConns, 1, "host must be notified")

	// time update right after a forced report falls inside the throttle
	eventResp, err = service.HandleElementEvent(ctx, &ElementEventParams{
		PlayerId: createResp.PlayerId,
		Event:    bridge.Event{Type: bridge.EventTimeUpdate, State: playingState},
	})
	require.NoError(t, err)
	assert.Nil(t, eventResp.Report)

	require.NoError(t, service.DisconnectHost(ctx, hostConn))
	require.NoError(t, service.DisconnectElement(ctx, &DisconnectElementParams{PlayerId: createResp.PlayerId}))

	_, err = service.HandleElementEvent(ctx, &ElementEventParams{
		PlayerId: createResp.PlayerId,
		Event:    bridge.Event{Type: bridge.EventPause, State: playingState},
	})
	assert.ErrorIs(t, err, ErrElementNotConnected)
}

func TestConnectElementUnknownPlayer(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.ConnectElement(context.Background(), &ConnectElementParams{
		Conn:     &websocket.Conn{},
		PlayerId: "missing",
	})
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestConnectElementCleansUpOnError(t *testing.T) {
	service, mr := newTestService(t)
	ctx := context.Background()

	createResp, err := service.CreatePlayer(ctx)
	require.NoError(t, err)

	// unreadable config makes the connect fail after the conn was registered
	mr.HSet("player:"+createResp.PlayerId+":config", "height", "tall")

	_, err = service.ConnectElement(ctx, &ConnectElementParams{
		Conn:     &websocket.Conn{},
		PlayerId: createResp.PlayerId,
	})
	require.Error(t, err)

	mr.Del("player:" + createResp.PlayerId + ":config")

	_, err = service.ConnectElement(ctx, &ConnectElementParams{
		Conn:     &websocket.Conn{},
		PlayerId: createResp.PlayerId,
	})
	assert.NoError(t, err, "failed connect must not leave the element registered")
}

func TestConcurrentConfigUpdatesAndEvents(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	createResp, err := service.CreatePlayer(ctx)
	require.NoError(t, err)

	_, err = service.ConnectElement(ctx, &ConnectElementParams{
		Conn:     &websocket.Conn{},
		PlayerId: createResp.PlayerId,
	})
	require.NoError(t, err)

	state := bridge.ElementState{CurrentTime: 1, Duration: 10, ReadyState: 4}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			if _, err := service.UpdateConfig(ctx, &UpdateConfigParams{
				PlayerId: createResp.PlayerId,
				SeekTo:   ptr(float64(i)),
			}); err != nil {
				t.Error(err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			if _, err := service.HandleElementEvent(ctx, &ElementEventParams{
				PlayerId: createResp.PlayerId,
				Event:    bridge.Event{Type: bridge.EventTimeUpdate, State: state},
			}); err != nil {
				t.Error(err)
				return
			}
		}
	}()
	wg.Wait()
}
