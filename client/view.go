/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package client

import (
	"github.com/Seednode/wavedial/dial"
	"github.com/Seednode/wavedial/game"
)

const (
	DefaultNumRounds = 3
	MaxNumRounds     = 10
)

type HomeState struct {
	Name       string                  `json:"name"`
	Code       string                  `json:"code"`
	Error      string                  `json:"error,omitempty"`
	Busy       bool                    `json:"busy"`
	Highscores []game.LeaderboardEntry `json:"highscores,omitempty"`
}

// LobbyState is the settings form. It follows lobby_settings broadcasts so
// every player sees what the host picked.
type LobbyState struct {
	NumRounds int       `json:"num_rounds"`
	Mode      game.Mode `json:"mode"`
}

func defaultLobby() LobbyState {
	return LobbyState{NumRounds: DefaultNumRounds, Mode: game.ModeFree}
}

type WritingState struct {
	Phrase  string `json:"phrase"`
	Left    string `json:"left"`
	Right   string `json:"right"`
	Waiting bool   `json:"waiting"`

	waitingFor int
}

type GuessingState struct {
	LocalAngle int  `json:"local_angle"`
	Submitted  bool `json:"submitted"`
}

type RevealState struct {
	Mounted   bool `json:"mounted"`
	NewRecord bool `json:"new_record"`

	recordChecked bool
}

// DialView is everything needed to draw the dial for the current screen.
type DialView struct {
	Geometry    dial.Geometry `json:"-"`
	Needle      int           `json:"needle"`
	ShowNeedle  bool          `json:"show_needle"`
	Target      int           `json:"target"`
	ShowTarget  bool          `json:"show_target"`
	ClipWidth   float64       `json:"clip_width"`
	Left        string        `json:"left"`
	Right       string        `json:"right"`
	Interactive bool          `json:"interactive"`
	Cursor      string        `json:"cursor"`
}

// View is a copy of the session taken on the loop, safe to read from any
// goroutine.
type View struct {
	Screen     game.Screen   `json:"screen"`
	Room       string        `json:"room,omitempty"`
	PlayerID   string        `json:"player_id,omitempty"`
	PlayerName string        `json:"player_name,omitempty"`
	Connected  bool          `json:"connected"`
	Snapshot   game.Snapshot `json:"snapshot"`

	Home     HomeState     `json:"home"`
	Lobby    LobbyState    `json:"lobby"`
	Writing  WritingState  `json:"writing"`
	Guessing GuessingState `json:"guessing"`
	Reveal   RevealState   `json:"reveal"`

	Dial DialView `json:"dial"`

	// Score is the animated team score shown on the reveal screen.
	Score int `json:"score"`
}

func (v View) IsHost() bool {
	return v.Snapshot.IsHost(v.PlayerID)
}

func (v View) IsClueOwner() bool {
	return v.Snapshot.IsClueOwner(v.PlayerID)
}

// View returns a snapshot of the session for rendering.
func (s *Session) View() (View, error) {
	var v View
	err := s.Sync(func() { v = s.view() })

	return v, err
}

func (s *Session) view() View {
	snap := s.state.Snapshot

	v := View{
		Screen:     s.state.Screen,
		Room:       s.room,
		PlayerID:   s.playerID,
		PlayerName: s.playerName,
		Connected:  s.transport.Connected(),
		Snapshot:   snap,
		Home:       s.home,
		Lobby:      s.lobby,
		Writing:    s.writing,
		Guessing:   s.guessing,
		Reveal:     s.reveal,
		Score:      s.count.Value(),
	}

	d := DialView{
		Geometry:    s.geom,
		Needle:      game.DefaultNeedle,
		ClipWidth:   s.clip.Width(),
		Interactive: s.ctrl.Interactive(),
		Cursor:      s.ctrl.Cursor(),
	}
	if snap.TargetPosition != nil {
		d.Target = *snap.TargetPosition
	}

	switch s.state.Screen {
	case game.ScreenWriting:
		d.ShowTarget = snap.TargetPosition != nil
		d.Left, d.Right = orDefault(s.writing.Left, "Left"), orDefault(s.writing.Right, "Right")
	case game.ScreenGuessing:
		d.ShowNeedle = true
		d.Needle = s.guessing.LocalAngle
		if snap.Clue != nil {
			d.Left, d.Right = snap.Clue.LeftAdjective, snap.Clue.RightAdjective
		}
	case game.ScreenReveal:
		d.ShowNeedle = true
		d.ShowTarget = snap.TargetPosition != nil
		d.Needle = snap.FinalNeedleAngle
		if snap.Clue != nil {
			d.Left, d.Right = snap.Clue.LeftAdjective, snap.Clue.RightAdjective
		}
	}
	v.Dial = d

	return v
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}

	return s
}
