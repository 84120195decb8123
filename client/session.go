/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package client runs one player's game session. All session state lives on
// a single goroutine; inbound frames, pointer input, animation frames and
// user actions are all posted to it as closures.
package client

import (
	"context"
	"sync"
	"time"

	"github.com/Seednode/wavedial/conn"
	"github.com/Seednode/wavedial/dial"
	"github.com/Seednode/wavedial/game"
	"github.com/Seednode/wavedial/reveal"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Transport is the realtime channel to the room.
type Transport interface {
	game.Sender
	Open(ctx context.Context, room, player, name string) error
	Close()
	Connected() bool
	SetHandler(h conn.Handler)
}

// Rooms resolves room codes over HTTP.
type Rooms interface {
	Create(ctx context.Context) (string, error)
	Lookup(ctx context.Context, code string) (string, error)
	Highscores(ctx context.Context) ([]game.LeaderboardEntry, error)
}

type Options struct {
	Transport Transport
	Rooms     Rooms

	// Clock drives the reveal animations. When nil the session runs its own
	// FrameClock at FPS.
	Clock reveal.Scheduler
	FPS   int

	Geometry  dial.Geometry
	NameMatch game.NameMatch
	Logger    zerolog.Logger

	// NewPlayerID overrides player id generation.
	NewPlayerID func() string
}

type Session struct {
	transport Transport
	rooms     Rooms
	clock     reveal.Scheduler
	frames    *reveal.FrameClock
	geom      dial.Geometry
	match     game.NameMatch
	logger    zerolog.Logger
	newID     func() string

	events chan func()
	done   chan struct{}

	// openMu keeps one channel dial and its epoch recheck together.
	openMu sync.Mutex

	// Everything below is owned by the loop goroutine.
	state      game.State
	epoch      uint64
	room       string
	playerID   string
	playerName string

	home     HomeState
	lobby    LobbyState
	writing  WritingState
	guessing GuessingState
	reveal   RevealState

	ctrl     *dial.Controller
	throttle *dial.Throttle
	clip     *reveal.Clip
	count    *reveal.CountUp

	mountCancel reveal.Cancel
}

func New(opts Options) *Session {
	s := &Session{
		transport: opts.Transport,
		rooms:     opts.Rooms,
		clock:     opts.Clock,
		geom:      opts.Geometry,
		match:     opts.NameMatch,
		logger:    opts.Logger.With().Str("component", "session").Logger(),
		newID:     opts.NewPlayerID,
		events:    make(chan func(), 256),
		done:      make(chan struct{}),
		state:     game.Initial(),
	}

	if s.geom.R == 0 {
		s.geom = dial.Default
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.NewString()[:8] }
	}
	if s.clock == nil {
		s.frames = reveal.NewFrameClock(opts.FPS, func(fn func()) { s.post(fn) })
		s.clock = s.frames
	}

	s.ctrl = dial.NewController(s.geom, nil)
	s.throttle = dial.NewThrottle(game.DefaultNeedle, func(angle int) {
		s.transport.Send(game.MoveNeedle(angle))
	})
	s.clip = reveal.NewClip(s.clock, s.geom.Diameter())
	s.count = reveal.NewCountUp(s.clock)
	s.lobby = defaultLobby()

	return s
}

// Run processes posted closures until ctx is done. It must be called once.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)

	if s.frames != nil {
		go s.frames.Run(ctx)
	}

	s.logger.Debug().Msg("session loop started")

	for {
		select {
		case <-ctx.Done():
			s.transport.SetHandler(nil)
			go s.transport.Close()

			return ctx.Err()
		case fn := <-s.events:
			fn()
		}
	}
}

// Do queues fn on the session goroutine without waiting for it.
func (s *Session) Do(fn func()) {
	s.post(fn)
}

// Sync runs fn on the session goroutine and waits for it. It must not be
// called from the session goroutine itself.
func (s *Session) Sync(fn func()) error {
	return s.call(func() error {
		fn()

		return nil
	})
}

func (s *Session) post(fn func()) bool {
	select {
	case s.events <- fn:
		return true
	case <-s.done:
		return false
	}
}

func (s *Session) call(fn func() error) error {
	errc := make(chan error, 1)
	if !s.post(func() { errc <- fn() }) {
		return ErrClosed
	}

	select {
	case err := <-errc:
		return err
	case <-s.done:
		return ErrClosed
	}
}

// handlerFor routes frames of one room visit onto the loop. Frames that
// arrive after the visit ended are dropped.
func (s *Session) handlerFor(epoch uint64) conn.Handler {
	return func(msg game.Message) {
		s.post(func() {
			if s.epoch != epoch {
				return
			}

			s.apply(msg)
		})
	}
}

func (s *Session) apply(msg game.Message) {
	prev := s.state

	next, eff := game.Reduce(s.state, msg)
	if !eff.Known {
		s.logger.Debug().Str("type", msg.Type).Msg("ignored frame")

		return
	}
	s.state = next

	s.logger.Debug().Str("type", msg.Type).Str("screen", string(next.Screen)).Msg("applied frame")

	if eff.ScreenChanged {
		s.leave(prev.Screen)
	}

	snap := &s.state.Snapshot

	if eff.ResetDial {
		s.resetWriting()
	}
	if msg.Type == game.TypeGuessingStarted {
		s.resetGuessing()
	}
	if eff.NeedleMover != "" && eff.NeedleMover != s.playerID {
		s.guessing.LocalAngle = snap.NeedlePosition
		s.guessing.Submitted = false
	}
	if msg.Type == game.TypeLobbySettings || msg.Type == game.TypeGameState {
		s.syncLobby()
	}
	if s.writing.Waiting && snap.ClueIndex != s.writing.waitingFor {
		s.writing.Waiting = false
	}

	if eff.ScreenChanged {
		s.logger.Info().Str("room", s.room).Str("screen", string(next.Screen)).Msg("screen changed")
		s.enter(next.Screen)
	}

	if s.state.Screen == game.ScreenReveal {
		s.count.SetTarget(snap.TeamScore)
		s.checkRecord()
	}

	s.refreshDial()
}

func (s *Session) leave(screen game.Screen) {
	switch screen {
	case game.ScreenGuessing:
		s.ctrl.PointerCancel()
	case game.ScreenReveal:
		s.count.Cancel()
		if s.mountCancel != nil {
			s.mountCancel()
			s.mountCancel = nil
		}
		s.reveal = RevealState{}
	}
}

func (s *Session) enter(screen game.Screen) {
	switch screen {
	case game.ScreenLobby:
		s.syncLobby()
	case game.ScreenReveal:
		s.reveal = RevealState{}
		s.mountCancel = s.clock.NextFrame(func(time.Time) {
			s.reveal.Mounted = true
			s.mountCancel = nil
		})
	}
}

// resetWriting clears the drafts for a fresh dial. In battery mode the
// adjectives come from the server and are pre-filled.
func (s *Session) resetWriting() {
	snap := s.state.Snapshot

	s.writing = WritingState{}
	if snap.Mode == game.ModeBattery {
		s.writing.Left = snap.LeftAdjective
		s.writing.Right = snap.RightAdjective
	}
}

func (s *Session) resetGuessing() {
	needle := s.state.Snapshot.NeedlePosition

	s.guessing = GuessingState{LocalAngle: needle}
	s.throttle.Reset(needle)
	s.ctrl.PointerCancel()
}

func (s *Session) syncLobby() {
	snap := s.state.Snapshot
	if snap.NumRounds > 0 {
		s.lobby.NumRounds = snap.NumRounds
	}
	if snap.Mode != "" {
		s.lobby.Mode = snap.Mode
	}
}

func (s *Session) checkRecord() {
	snap := s.state.Snapshot
	if s.reveal.recordChecked || !snap.IsFinished() || snap.Leaderboard == nil {
		return
	}

	s.reveal.recordChecked = true
	s.reveal.NewRecord = game.IsNewRecord(snap.TeamScore, snap.PlayerNames(), snap.Leaderboard, s.match)
}

// refreshDial points the controller and the clip at the current screen.
func (s *Session) refreshDial() {
	snap := s.state.Snapshot

	if s.canSteer() {
		s.ctrl.SetOnChange(s.steer)
	} else {
		s.ctrl.SetOnChange(nil)
	}

	target, show := 0, false
	if snap.TargetPosition != nil {
		target = *snap.TargetPosition
		show = s.state.Screen == game.ScreenWriting || s.state.Screen == game.ScreenReveal
	}
	s.clip.Set(target, show)
}

func (s *Session) canSteer() bool {
	return s.state.Screen == game.ScreenGuessing &&
		!s.state.Snapshot.IsClueOwner(s.playerID) &&
		!s.guessing.Submitted
}

func (s *Session) steer(angle int) {
	s.guessing.LocalAngle = angle
	s.throttle.Offer(angle)
}

// resetRoom drops every room-scoped piece of state.
func (s *Session) resetRoom() {
	s.leave(s.state.Screen)
	s.epoch++
	s.room = ""
	s.playerID = ""
	s.state = game.Initial()
	s.lobby = defaultLobby()
	s.writing = WritingState{}
	s.guessing = GuessingState{LocalAngle: game.DefaultNeedle}
	s.throttle.Reset(game.DefaultNeedle)
	s.refreshDial()
}
