/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package client

import (
	"errors"

	"github.com/Seednode/wavedial/rooms"
)

var (
	ErrNameRequired     = errors.New("name is required")
	ErrCodeRequired     = errors.New("room code is required")
	ErrNotEnoughPlayers = errors.New("at least two players are needed")
	ErrIncompleteClue   = errors.New("phrase and both adjectives are required")
	ErrNotHost          = errors.New("only the host can do that")
	ErrWrongScreen      = errors.New("not available on this screen")
	ErrInvalidSettings  = errors.New("invalid round settings")
	ErrClosed           = errors.New("session is closed")
	ErrSuperseded       = errors.New("superseded by a newer attempt")
)

// homeMessage is the one line the Home screen shows for a failed attempt.
func homeMessage(err error) string {
	switch {
	case errors.Is(err, ErrNameRequired):
		return "Enter your name"
	case errors.Is(err, ErrCodeRequired):
		return "Enter the room code"
	case errors.Is(err, rooms.ErrRoomNotFound):
		return "Room not found"
	default:
		return "Could not reach the server: " + err.Error()
	}
}
