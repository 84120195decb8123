/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import (
	"slices"
	"sort"
)

// Screen is the view the client is showing.
type Screen string

const (
	ScreenHome     Screen = "home"
	ScreenLobby    Screen = "lobby"
	ScreenWriting  Screen = "writing"
	ScreenGuessing Screen = "guessing"
	ScreenReveal   Screen = "reveal"
)

// DefaultNeedle is where the needle rests when nobody said otherwise.
const DefaultNeedle = 90

// Snapshot is the merged, room-scoped view of everything the server has told
// this client so far.
type Snapshot struct {
	Phase      string   `json:"state"`
	Players    []Player `json:"players"`
	HostID     string   `json:"host_id"`
	LastJoined string   `json:"last_joined,omitempty"`

	NumRounds int  `json:"num_rounds"`
	Mode      Mode `json:"mode"`

	TargetPosition *int   `json:"target_position,omitempty"`
	LeftAdjective  string `json:"left_adjective"`
	RightAdjective string `json:"right_adjective"`
	ClueIndex      int    `json:"clue_index"`
	TotalClues     int    `json:"total_clues"`
	Clue           *Clue  `json:"clue,omitempty"`

	NeedlePosition int      `json:"needle_position"`
	NeedlePlayerID string   `json:"needle_player_id,omitempty"`
	ReadyCount     int      `json:"ready_count"`
	TotalGuessers  int      `json:"total_guessers"`
	ReadyPlayers   []string `json:"ready_players,omitempty"`

	FinalNeedleAngle int                `json:"final_needle_angle"`
	PointsThisDial   int                `json:"points_this_dial"`
	TeamScore        int                `json:"team_score"`
	Scores           map[string]int     `json:"scores,omitempty"`
	TotalDials       int                `json:"total_dials"`
	Finished         bool               `json:"finished"`
	Leaderboard      []LeaderboardEntry `json:"leaderboard,omitempty"`

	Error string `json:"error,omitempty"`
}

// State is the snapshot plus the screen the reducer picked for it.
type State struct {
	Screen   Screen   `json:"screen"`
	Snapshot Snapshot `json:"snapshot"`
}

func Initial() State {
	return State{Screen: ScreenHome}
}

// EnterLobby starts a fresh room-scoped state after a room was created or
// found.
func EnterLobby() State {
	return State{Screen: ScreenLobby}
}

// BackToLobby is the explicit rematch transition out of a finished game.
func BackToLobby(s State) State {
	s.Screen = ScreenLobby
	s.Snapshot.Phase = PhaseWaiting

	return s
}

func (s Snapshot) IsFinished() bool {
	return s.Finished || s.Phase == PhaseFinished
}

func (s Snapshot) IsHost(playerID string) bool {
	return playerID != "" && s.HostID == playerID
}

// IsClueOwner reports whether playerID wrote the clue being guessed.
func (s Snapshot) IsClueOwner(playerID string) bool {
	return s.Clue != nil && s.Clue.OwnerID == playerID
}

func (s Snapshot) IsReady(playerID string) bool {
	return slices.Contains(s.ReadyPlayers, playerID)
}

func (s Snapshot) PlayerNames() []string {
	names := make([]string, 0, len(s.Players))
	for _, p := range s.Players {
		names = append(names, p.Name)
	}

	return names
}

// Standings returns the players ordered by score, highest first. Ties keep
// join order.
func (s Snapshot) Standings() []Player {
	out := slices.Clone(s.Players)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	return out
}
