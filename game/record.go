/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import (
	"slices"
)

// NameMatch decides how a team's player names are compared with a
// leaderboard entry.
type NameMatch int

const (
	// MatchUnordered treats the names as a multiset, so join order does not
	// matter.
	MatchUnordered NameMatch = iota
	// MatchOrdered requires the same names in the same order.
	MatchOrdered
)

func (n NameMatch) String() string {
	if n == MatchOrdered {
		return "ordered"
	}

	return "unordered"
}

// IsNewRecord reports whether the top leaderboard entry is this team's
// result: same team score and the same player names.
func IsNewRecord(teamScore int, names []string, board []LeaderboardEntry, match NameMatch) bool {
	if len(board) == 0 {
		return false
	}

	top := board[0]
	if top.TeamScore != teamScore {
		return false
	}

	return sameNames(top.Players, names, match)
}

func sameNames(a, b []string, match NameMatch) bool {
	if len(a) != len(b) {
		return false
	}
	if match == MatchOrdered {
		return slices.Equal(a, b)
	}

	as, bs := slices.Clone(a), slices.Clone(b)
	slices.Sort(as)
	slices.Sort(bs)

	return slices.Equal(as, bs)
}
