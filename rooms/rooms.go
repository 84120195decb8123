/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package rooms talks to the room endpoints of the game server.
package rooms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Seednode/wavedial/game"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrNoRoomCode   = errors.New("server returned no room code")
)

type Client struct {
	BaseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), http: &http.Client{Timeout: timeout}}
}

// NormalizeCode trims and upper-cases a room code as typed by a player.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Create asks the server for a new room and returns its code.
func (c *Client) Create(ctx context.Context) (string, error) {
	var out struct {
		RoomCode string `json:"room_code"`
	}
	if err := c.do(ctx, http.MethodPost, "/create-room", &out); err != nil {
		return "", err
	}
	if out.RoomCode == "" {
		return "", ErrNoRoomCode
	}

	return NormalizeCode(out.RoomCode), nil
}

// Lookup checks that code names an existing room. The normalized code is
// returned on success.
func (c *Client) Lookup(ctx context.Context, code string) (string, error) {
	code = NormalizeCode(code)

	var out struct {
		Exists bool `json:"exists"`
	}
	if err := c.do(ctx, http.MethodGet, "/room/"+url.PathEscape(code), &out); err != nil {
		return "", err
	}
	if !out.Exists {
		return "", ErrRoomNotFound
	}

	return code, nil
}

// Highscores fetches the stored leaderboard, best team first.
func (c *Client) Highscores(ctx context.Context) ([]game.LeaderboardEntry, error) {
	var out []game.LeaderboardEntry
	if err := c.do(ctx, http.MethodGet, "/highscores", &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	return nil
}
