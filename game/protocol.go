/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import (
	"encoding/json"
	"errors"
)

// Inbound message types pushed by the game server.
const (
	TypeGameState       = "game_state"
	TypePlayerJoined    = "player_joined"
	TypeWritingProgress = "writing_progress"
	TypeLobbySettings   = "lobby_settings"
	TypeRoundStarted    = "round_started"
	TypeNextWriting     = "next_writing"
	TypeGuessingStarted = "guessing_started"
	TypeNeedleMoved     = "needle_moved"
	TypePlayerReady     = "player_ready"
	TypeClueReveal      = "clue_reveal"
	TypeGameFinished    = "game_finished"
	TypeError           = "error"
)

// Mode selects who authors the adjectives of a dial.
type Mode string

const (
	ModeFree    Mode = "free"
	ModeBattery Mode = "battery"
)

// Server-side room phases carried in the "state" field.
const (
	PhaseWaiting  = "waiting"
	PhaseWriting  = "writing"
	PhaseGuessing = "guessing"
	PhaseFinished = "finished"
)

// Player is the server's view of one participant.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Clue is the dial currently being guessed.
type Clue struct {
	OwnerID        string `json:"owner_id"`
	OwnerName      string `json:"owner_name"`
	Phrase         string `json:"phrase"`
	LeftAdjective  string `json:"left_adjective"`
	RightAdjective string `json:"right_adjective"`
	ClueNumber     int    `json:"clue_number"`
	TotalClues     int    `json:"total_clues"`
}

// LeaderboardEntry is one historical team result.
type LeaderboardEntry struct {
	TeamScore  int      `json:"team_score"`
	TotalDials int      `json:"total_dials"`
	Players    []string `json:"players"`
	Date       string   `json:"date"`
}

// Message is any inbound frame. Pointer and nil fields mean "not carried",
// which is what makes the partial merges possible.
type Message struct {
	Type string `json:"type"`

	State          *string            `json:"state,omitempty"`
	Players        []Player           `json:"players,omitempty"`
	HostID         *string            `json:"host_id,omitempty"`
	Name           *string            `json:"name,omitempty"`
	NumRounds      *int               `json:"num_rounds,omitempty"`
	Mode           *Mode              `json:"mode,omitempty"`
	TargetPosition *int               `json:"target_position,omitempty"`
	LeftAdjective  *string            `json:"left_adjective,omitempty"`
	RightAdjective *string            `json:"right_adjective,omitempty"`
	ClueIndex      *int               `json:"clue_index,omitempty"`
	TotalClues     *int               `json:"total_clues,omitempty"`
	Clue           *Clue              `json:"clue,omitempty"`
	NeedlePosition *int               `json:"needle_position,omitempty"`
	Position       *int               `json:"position,omitempty"`
	PlayerID       *string            `json:"player_id,omitempty"`
	ReadyCount     *int               `json:"ready_count,omitempty"`
	TotalGuessers  *int               `json:"total_guessers,omitempty"`
	IsReady        *bool              `json:"is_ready,omitempty"`
	PointsThisDial *int               `json:"points_this_dial,omitempty"`
	TeamScore      *int               `json:"team_score,omitempty"`
	Scores         map[string]int     `json:"scores,omitempty"`
	TotalDials     *int               `json:"total_dials,omitempty"`
	Finished       *bool              `json:"finished,omitempty"`
	Leaderboard    []LeaderboardEntry `json:"leaderboard,omitempty"`
	Error          *string            `json:"message,omitempty"`
}

var ErrMissingType = errors.New("frame has no type")

// Decode parses one frame. A frame without a type is rejected; unknown types
// decode fine and are left for the reducer to ignore.
func Decode(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, err
	}
	if m.Type == "" {
		return Message{}, ErrMissingType
	}

	return m, nil
}
