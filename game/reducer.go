/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import (
	"maps"
	"slices"

	"github.com/Seednode/wavedial/dial"
)

// Effects tells the owner of the state what a message meant beyond the new
// snapshot: screen-local state to reset, and who moved the needle.
type Effects struct {
	Known         bool
	ScreenChanged bool
	ResetDial     bool
	NeedleMover   string
}

// Reduce applies one inbound message to s. It never mutates s or m; the
// returned state shares no mutable storage with either.
func Reduce(s State, m Message) (State, Effects) {
	next := s
	snap := &next.Snapshot
	eff := Effects{Known: true}

	switch m.Type {
	case TypeGameState, TypePlayerJoined:
		mergeAll(snap, m)

	case TypeWritingProgress:
		mergePlayers(snap, m)

	case TypeLobbySettings:
		if m.NumRounds != nil {
			snap.NumRounds = *m.NumRounds
		}
		if m.Mode != nil {
			snap.Mode = *m.Mode
		}

	case TypeRoundStarted:
		mergeAll(snap, m)
		next.Screen = ScreenWriting
		eff.ResetDial = true

	case TypeNextWriting:
		mergeWriting(snap, m)
		eff.ResetDial = true

	case TypeGuessingStarted:
		mergeAll(snap, m)
		snap.NeedlePosition = angleOr(m.NeedlePosition, DefaultNeedle)
		snap.NeedlePlayerID = ""
		snap.ReadyPlayers = nil
		if m.ReadyCount == nil {
			snap.ReadyCount = 0
		}
		next.Screen = ScreenGuessing

	case TypeNeedleMoved:
		if m.Position != nil {
			snap.NeedlePosition = dial.ClampAngle(*m.Position)
		}
		if m.PlayerID != nil {
			snap.NeedlePlayerID = *m.PlayerID
			eff.NeedleMover = *m.PlayerID
		}

	case TypePlayerReady:
		mergePlayers(snap, m)
		if m.ReadyCount != nil {
			snap.ReadyCount = *m.ReadyCount
		}
		if m.TotalGuessers != nil {
			snap.TotalGuessers = *m.TotalGuessers
		}
		if m.PlayerID != nil && m.IsReady != nil {
			snap.ReadyPlayers = setMember(snap.ReadyPlayers, *m.PlayerID, *m.IsReady)
		}

	case TypeClueReveal:
		mergeAll(snap, m)
		snap.FinalNeedleAngle = angleOr(m.NeedlePosition, DefaultNeedle)
		snap.PointsThisDial = intOr(m.PointsThisDial, 0)
		if m.TeamScore != nil {
			snap.TeamScore = *m.TeamScore
		}
		next.Screen = ScreenReveal

	case TypeGameFinished:
		mergeAll(snap, m)

	case TypeError:
		if m.Error != nil {
			snap.Error = *m.Error
		}

	default:
		return s, Effects{}
	}

	eff.ScreenChanged = next.Screen != s.Screen

	return next, eff
}

// mergeAll copies every carried field except the needle ones, which only the
// messages that own them may touch.
func mergeAll(snap *Snapshot, m Message) {
	if m.State != nil {
		snap.Phase = *m.State
	}
	mergePlayers(snap, m)
	if m.HostID != nil {
		snap.HostID = *m.HostID
	}
	if m.Name != nil {
		snap.LastJoined = *m.Name
	}
	if m.NumRounds != nil {
		snap.NumRounds = *m.NumRounds
	}
	mergeWriting(snap, m)
	if m.Clue != nil {
		c := *m.Clue
		snap.Clue = &c
	}
	if m.ReadyCount != nil {
		snap.ReadyCount = *m.ReadyCount
	}
	if m.TotalGuessers != nil {
		snap.TotalGuessers = *m.TotalGuessers
	}
	if m.PointsThisDial != nil {
		snap.PointsThisDial = *m.PointsThisDial
	}
	if m.TeamScore != nil {
		snap.TeamScore = *m.TeamScore
	}
	if m.Scores != nil {
		snap.Scores = maps.Clone(m.Scores)
	}
	if m.TotalDials != nil {
		snap.TotalDials = *m.TotalDials
	}
	if m.Finished != nil {
		snap.Finished = *m.Finished
	}
	if m.Leaderboard != nil {
		board := make([]LeaderboardEntry, len(m.Leaderboard))
		for i, e := range m.Leaderboard {
			e.Players = slices.Clone(e.Players)
			board[i] = e
		}
		snap.Leaderboard = board
	}
}

func mergePlayers(snap *Snapshot, m Message) {
	if m.Players != nil {
		snap.Players = slices.Clone(m.Players)
	}
}

func mergeWriting(snap *Snapshot, m Message) {
	if m.TargetPosition != nil {
		t := dial.ClampAngle(*m.TargetPosition)
		snap.TargetPosition = &t
	}
	if m.LeftAdjective != nil {
		snap.LeftAdjective = *m.LeftAdjective
	}
	if m.RightAdjective != nil {
		snap.RightAdjective = *m.RightAdjective
	}
	if m.ClueIndex != nil {
		snap.ClueIndex = *m.ClueIndex
	}
	if m.TotalClues != nil {
		snap.TotalClues = *m.TotalClues
	}
	if m.Mode != nil {
		snap.Mode = *m.Mode
	}
}

func setMember(set []string, id string, present bool) []string {
	if present && slices.Contains(set, id) {
		return slices.Clone(set)
	}

	out := make([]string, 0, len(set)+1)
	for _, v := range set {
		if v != id {
			out = append(out, v)
		}
	}
	if present {
		out = append(out, id)
	}

	return out
}

func angleOr(v *int, def int) int {
	if v == nil {
		return def
	}

	return dial.ClampAngle(*v)
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}

	return *v
}
