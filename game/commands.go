/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

// Outbound command types understood by the game server.
const (
	CmdJoin          = "join"
	CmdStartRound    = "start_round"
	CmdLobbySettings = "lobby_settings"
	CmdSubmitClue    = "submit_clue"
	CmdMoveNeedle    = "move_needle"
	CmdSubmitGuess   = "submit_guess"
	CmdCancelGuess   = "cancel_guess"
	CmdNextClue      = "next_clue"
)

// Sender delivers a command on a best-effort basis.
type Sender interface {
	Send(cmd any)
}

type JoinCommand struct {
	Type string `json:"type"` // "join"
	Name string `json:"name"`
}

// RoundSettings is shared by start_round and lobby_settings.
type RoundSettings struct {
	Type      string `json:"type"`       // "start_round" or "lobby_settings"
	NumRounds int    `json:"num_rounds"` // dials per player
	Mode      Mode   `json:"mode"`
}

type SubmitClueCommand struct {
	Type           string `json:"type"` // "submit_clue"
	Phrase         string `json:"phrase"`
	LeftAdjective  string `json:"left_adjective"`
	RightAdjective string `json:"right_adjective"`
}

// PositionCommand is shared by move_needle and submit_guess.
type PositionCommand struct {
	Type     string `json:"type"`
	Position int    `json:"position"`
}

// SimpleCommand carries no payload: cancel_guess and next_clue.
type SimpleCommand struct {
	Type string `json:"type"`
}

func Join(name string) JoinCommand {
	return JoinCommand{Type: CmdJoin, Name: name}
}

func StartRound(numRounds int, mode Mode) RoundSettings {
	return RoundSettings{Type: CmdStartRound, NumRounds: numRounds, Mode: mode}
}

func LobbySettings(numRounds int, mode Mode) RoundSettings {
	return RoundSettings{Type: CmdLobbySettings, NumRounds: numRounds, Mode: mode}
}

func SubmitClue(phrase, left, right string) SubmitClueCommand {
	return SubmitClueCommand{Type: CmdSubmitClue, Phrase: phrase, LeftAdjective: left, RightAdjective: right}
}

func MoveNeedle(position int) PositionCommand {
	return PositionCommand{Type: CmdMoveNeedle, Position: position}
}

func SubmitGuess(position int) PositionCommand {
	return PositionCommand{Type: CmdSubmitGuess, Position: position}
}

func CancelGuess() SimpleCommand {
	return SimpleCommand{Type: CmdCancelGuess}
}

func NextClue() SimpleCommand {
	return SimpleCommand{Type: CmdNextClue}
}
