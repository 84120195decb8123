/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package client

import (
	"context"
	"strings"

	"github.com/Seednode/wavedial/dial"
	"github.com/Seednode/wavedial/game"
	"github.com/Seednode/wavedial/rooms"
)

// CreateRoom asks the server for a new room and joins it as name.
func (s *Session) CreateRoom(ctx context.Context, name string) error {
	return s.visit(ctx, name, "", true)
}

// JoinRoom joins the existing room code as name.
func (s *Session) JoinRoom(ctx context.Context, name, code string) error {
	return s.visit(ctx, name, code, false)
}

// visit does the room HTTP call and the channel open off the loop, and
// hands the results back to it. Only the most recent attempt may land.
func (s *Session) visit(ctx context.Context, name, code string, create bool) error {
	name = strings.TrimSpace(name)
	code = rooms.NormalizeCode(code)

	var epoch uint64
	err := s.call(func() error {
		if s.state.Screen != game.ScreenHome {
			return ErrWrongScreen
		}

		s.home.Name = name
		s.home.Code = code
		s.home.Error = ""

		var err error
		switch {
		case name == "":
			err = ErrNameRequired
		case !create && code == "":
			err = ErrCodeRequired
		}
		if err != nil {
			s.home.Error = homeMessage(err)

			return err
		}

		s.home.Busy = true
		s.epoch++
		epoch = s.epoch

		return nil
	})
	if err != nil {
		return err
	}

	var (
		room    string
		roomErr error
	)
	if create {
		room, roomErr = s.rooms.Create(ctx)
	} else {
		room, roomErr = s.rooms.Lookup(ctx, code)
	}

	player := s.newID()

	err = s.call(func() error {
		if s.epoch != epoch {
			return ErrSuperseded
		}

		s.home.Busy = false
		if roomErr != nil {
			s.home.Error = homeMessage(roomErr)

			return roomErr
		}

		s.room = room
		s.playerID = player
		s.playerName = name
		s.home.Code = room
		s.state = game.EnterLobby()
		s.lobby = defaultLobby()

		s.logger.Info().Str("room", room).Str("player", player).Msg("entered lobby")

		return nil
	})
	if err != nil {
		return err
	}

	return s.open(ctx, epoch, room, player, name)
}

// open dials the room channel for the attempt tagged epoch. An exit that
// lands while the dial is in flight bumps the epoch, and the channel is
// closed again instead of being left open on the home screen.
func (s *Session) open(ctx context.Context, epoch uint64, room, player, name string) error {
	s.openMu.Lock()
	defer s.openMu.Unlock()

	if !s.current(epoch) {
		return ErrSuperseded
	}

	s.transport.SetHandler(s.handlerFor(epoch))
	if err := s.transport.Open(ctx, room, player, name); err != nil {
		s.logger.Warn().Err(err).Str("room", room).Msg("could not open channel")
	}

	if !s.current(epoch) {
		s.transport.Close()
		s.logger.Info().Str("room", room).Msg("left before the channel opened")

		return ErrSuperseded
	}

	return nil
}

// current reports whether epoch is still the session's room attempt.
func (s *Session) current(epoch uint64) bool {
	var ok bool
	if err := s.Sync(func() { ok = s.epoch == epoch }); err != nil {
		return false
	}

	return ok
}

// FetchHighscores loads the leaderboard preview for the Home screen.
func (s *Session) FetchHighscores(ctx context.Context) error {
	board, err := s.rooms.Highscores(ctx)

	return s.call(func() error {
		if err != nil {
			s.home.Error = homeMessage(err)

			return err
		}

		s.home.Highscores = board

		return nil
	})
}

// ExitHome leaves the room and discards everything room-scoped.
func (s *Session) ExitHome() error {
	err := s.call(func() error {
		s.transport.SetHandler(nil)
		s.resetRoom()
		s.home.Busy = false

		return nil
	})
	if err != nil {
		return err
	}

	s.transport.Close()

	return nil
}

// ChangeSettings lets the host pick the dial count and mode for everyone.
func (s *Session) ChangeSettings(numRounds int, mode game.Mode) error {
	return s.call(func() error {
		if s.state.Screen != game.ScreenLobby {
			return ErrWrongScreen
		}
		if !s.state.Snapshot.IsHost(s.playerID) {
			return ErrNotHost
		}
		if err := validSettings(numRounds, mode); err != nil {
			return err
		}

		s.lobby = LobbyState{NumRounds: numRounds, Mode: mode}
		s.transport.Send(game.LobbySettings(numRounds, mode))

		return nil
	})
}

func validSettings(numRounds int, mode game.Mode) error {
	if numRounds < 1 || numRounds > MaxNumRounds {
		return ErrInvalidSettings
	}
	if mode != game.ModeFree && mode != game.ModeBattery {
		return ErrInvalidSettings
	}

	return nil
}

func (s *Session) StartRound() error {
	return s.call(func() error {
		if s.state.Screen != game.ScreenLobby {
			return ErrWrongScreen
		}
		if !s.state.Snapshot.IsHost(s.playerID) {
			return ErrNotHost
		}
		if len(s.state.Snapshot.Players) < 2 {
			return ErrNotEnoughPlayers
		}

		s.transport.Send(game.StartRound(s.lobby.NumRounds, s.lobby.Mode))

		return nil
	})
}

// SetDraft edits one writing field: "phrase", "left" or "right".
func (s *Session) SetDraft(field, value string) error {
	return s.call(func() error {
		if s.state.Screen != game.ScreenWriting || s.writing.Waiting {
			return ErrWrongScreen
		}

		switch field {
		case "phrase":
			s.writing.Phrase = value
		case "left":
			s.writing.Left = value
		case "right":
			s.writing.Right = value
		default:
			return ErrWrongScreen
		}

		return nil
	})
}

func (s *Session) SubmitClue() error {
	return s.call(func() error {
		w := s.writing
		if s.state.Screen != game.ScreenWriting || w.Waiting {
			return ErrWrongScreen
		}

		phrase, left, right := strings.TrimSpace(w.Phrase), strings.TrimSpace(w.Left), strings.TrimSpace(w.Right)
		if phrase == "" || left == "" || right == "" {
			return ErrIncompleteClue
		}

		s.transport.Send(game.SubmitClue(phrase, left, right))
		s.writing.Waiting = true
		s.writing.waitingFor = s.state.Snapshot.ClueIndex

		return nil
	})
}

// Pointer feeds one pointer sample to the dial. action is one of down,
// move, up, leave or cancel. The result says whether default scrolling
// should be suppressed.
func (s *Session) Pointer(action string, ev dial.PointerEvent) (bool, error) {
	var suppress bool
	err := s.call(func() error {
		switch action {
		case "down":
			s.ctrl.PointerDown(ev)
		case "move":
			suppress = s.ctrl.PointerMove(ev)
		case "up":
			s.ctrl.PointerUp()
		case "leave":
			s.ctrl.PointerLeave()
		case "cancel":
			s.ctrl.PointerCancel()
		default:
			return ErrWrongScreen
		}

		return nil
	})

	return suppress, err
}

// SetNeedle moves the needle straight to angle, as a drag would.
func (s *Session) SetNeedle(angle int) error {
	return s.call(func() error {
		if !s.canSteer() {
			return ErrWrongScreen
		}

		s.steer(dial.ClampAngle(angle))

		return nil
	})
}

// SubmitGuess locks in the displayed angle. It bypasses the throttle.
func (s *Session) SubmitGuess() error {
	return s.call(func() error {
		if !s.canSteer() {
			return ErrWrongScreen
		}

		s.transport.Send(game.SubmitGuess(s.guessing.LocalAngle))
		s.guessing.Submitted = true
		s.refreshDial()

		return nil
	})
}

func (s *Session) CancelGuess() error {
	return s.call(func() error {
		if s.state.Screen != game.ScreenGuessing || !s.guessing.Submitted {
			return ErrWrongScreen
		}

		s.transport.Send(game.CancelGuess())
		s.guessing.Submitted = false
		s.refreshDial()

		return nil
	})
}

func (s *Session) NextClue() error {
	return s.call(func() error {
		if s.state.Screen != game.ScreenReveal || s.state.Snapshot.IsFinished() {
			return ErrWrongScreen
		}
		if !s.state.Snapshot.IsHost(s.playerID) {
			return ErrNotHost
		}

		s.transport.Send(game.NextClue())

		return nil
	})
}

// BackToLobby is the rematch path out of a finished game.
func (s *Session) BackToLobby() error {
	return s.call(func() error {
		if s.state.Screen != game.ScreenReveal || !s.state.Snapshot.IsFinished() {
			return ErrWrongScreen
		}

		s.leave(s.state.Screen)
		s.state = game.BackToLobby(s.state)
		s.enter(s.state.Screen)
		s.refreshDial()

		return nil
	})
}
