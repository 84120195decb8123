/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package conn owns the single realtime channel a client keeps to its room.
package conn

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Seednode/wavedial/game"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const writeTimeout = 10 * time.Second

// Handler receives every decoded inbound frame, in arrival order, on the
// reader goroutine.
type Handler func(game.Message)

// Manager holds at most one open channel at a time, keyed by room and
// player.
type Manager struct {
	wsBase string
	dialer *websocket.Dialer
	logger zerolog.Logger

	handler  atomic.Pointer[Handler]
	onStatus atomic.Pointer[func(bool)]

	// mu serializes Open and Close. Send and Connected only read cur.
	mu  sync.Mutex
	cur atomic.Pointer[channel]
}

type channel struct {
	room   string
	player string
	ws     *websocket.Conn
	open   atomic.Bool
	done   chan struct{}

	writeMu sync.Mutex
}

// NewManager builds a manager dialing wsBase, e.g. "ws://host:8000".
func NewManager(wsBase string, logger zerolog.Logger) *Manager {
	return &Manager{
		wsBase: strings.TrimSuffix(wsBase, "/"),
		dialer: websocket.DefaultDialer,
		logger: logger.With().Str("component", "conn").Logger(),
	}
}

// SetHandler swaps the frame handler. Frames already read are delivered to
// whichever handler is current at dispatch time, so a swap never drops one.
func (m *Manager) SetHandler(h Handler) {
	if h == nil {
		m.handler.Store(nil)

		return
	}

	m.handler.Store(&h)
}

// OnStatus registers a callback for open/close transitions.
func (m *Manager) OnStatus(fn func(connected bool)) {
	if fn == nil {
		m.onStatus.Store(nil)

		return
	}

	m.onStatus.Store(&fn)
}

// URL is where the channel for (room, player) lives.
func (m *Manager) URL(room, player string) string {
	return fmt.Sprintf("%s/ws/%s/%s", m.wsBase, url.PathEscape(room), url.PathEscape(player))
}

// Open connects to (room, player) and announces name. An already open
// channel for the same pair is reused; any other channel is closed first.
func (m *Manager) Open(ctx context.Context, room, player, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c := m.cur.Load(); c != nil && c.room == room && c.player == player && c.open.Load() {
		return nil
	}

	m.closeLocked()

	ws, _, err := m.dialer.DialContext(ctx, m.URL(room, player), nil)
	if err != nil {
		return fmt.Errorf("dial room %s: %w", room, err)
	}

	c := &channel{
		room:   room,
		player: player,
		ws:     ws,
		done:   make(chan struct{}),
	}
	c.open.Store(true)
	m.cur.Store(c)

	m.logger.Info().Str("room", room).Str("player", player).Msg("channel open")
	m.status(true)

	go m.read(c)

	m.write(c, game.Join(name))

	return nil
}

// Send writes cmd on the open channel. Without one, the command is dropped.
func (m *Manager) Send(cmd any) {
	c := m.cur.Load()
	if c == nil || !c.open.Load() {
		m.logger.Debug().Interface("cmd", cmd).Msg("dropped command, no open channel")

		return
	}

	m.write(c, cmd)
}

// Close shuts the current channel and waits for its reader to finish.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeLocked()
}

func (m *Manager) Connected() bool {
	c := m.cur.Load()

	return c != nil && c.open.Load()
}

func (m *Manager) closeLocked() {
	c := m.cur.Swap(nil)
	if c == nil {
		return
	}

	c.writeMu.Lock()
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()

	_ = c.ws.Close()
	<-c.done
}

func (m *Manager) write(c *channel, cmd any) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.ws.WriteJSON(cmd); err != nil {
		m.logger.Debug().Err(err).Str("room", c.room).Msg("write failed")
	}
}

func (m *Manager) read(c *channel) {
	defer func() {
		c.open.Store(false)
		m.logger.Info().Str("room", c.room).Str("player", c.player).Msg("channel closed")
		m.status(false)
		close(c.done)
	}()

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}

		msg, err := game.Decode(data)
		if err != nil {
			m.logger.Debug().Err(err).Msg("skipped frame")

			continue
		}

		if h := m.handler.Load(); h != nil {
			(*h)(msg)
		}
	}
}

func (m *Manager) status(connected bool) {
	if fn := m.onStatus.Load(); fn != nil {
		(*fn)(connected)
	}
}
