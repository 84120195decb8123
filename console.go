/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/Seednode/wavedial/client"
	"github.com/Seednode/wavedial/game"
)

const consoleHelp = `Commands:
  create <name>              create a room and join it
  join <code> <name>         join an existing room
  scores                     fetch the high score table
  settings <rounds> <mode>   change lobby settings (host)
  start                      start the game (host)
  phrase|left|right <text>   edit the clue draft
  clue                       submit the clue draft
  needle <angle>             move the needle (0-180)
  guess                      lock in the needle
  cancel                     unlock the needle
  next                       reveal the next clue (host)
  lobby                      back to the lobby after the game
  home                       leave the room
  qr                         print the room code as a QR code
  state                      print the session as JSON
  quit                       exit
`

type console struct {
	cfg *Config
	s   *client.Session
	out io.Writer
}

func newConsole(cfg *Config, s *client.Session, out io.Writer) *console {
	return &console{cfg: cfg, s: s, out: out}
}

// run reads commands until in is exhausted or ctx is done. It reports true
// when the user asked to quit.
func (c *console) run(ctx context.Context, in io.Reader) bool {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return false
		}

		if c.exec(ctx, scanner.Text()) {
			return true
		}
	}

	if err := scanner.Err(); err != nil {
		errorf(c.cfg, err)
	}

	return false
}

// exec runs a single console line. It reports true on quit.
func (c *console) exec(ctx context.Context, line string) bool {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	var err error

	switch cmd {
	case "":
		return false
	case "quit", "exit":
		return true
	case "help", "?":
		fmt.Fprint(c.out, consoleHelp)

		return false
	case "state":
		err = c.printState()
	case "qr":
		err = c.printQR()
	case "phrase", "left", "right":
		err = c.s.SetDraft(cmd, rest)
	default:
		var form url.Values
		form, err = consoleForm(cmd, rest)
		if err == nil {
			err = runAction(ctx, c.s, cmd, form)
		}
	}

	switch {
	case err == nil:
		if cmd != "state" && cmd != "qr" {
			c.printSummary()
		}
	case errors.Is(err, errUnknownAction):
		fmt.Fprintf(c.out, "unknown command %q, try help\n", cmd)
	default:
		fmt.Fprintf(c.out, "%s: %v\n", cmd, err)
	}

	return false
}

// consoleForm turns positional console arguments into the same fields the
// companion page posts.
func consoleForm(cmd, rest string) (url.Values, error) {
	form := url.Values{}

	switch cmd {
	case "create":
		form.Set("name", rest)
	case "join":
		code, name, _ := strings.Cut(rest, " ")
		form.Set("code", code)
		form.Set("name", strings.TrimSpace(name))
	case "settings":
		fields := strings.Fields(rest)
		if len(fields) != 2 {
			return nil, client.ErrInvalidSettings
		}
		form.Set("num_rounds", fields[0])
		form.Set("mode", fields[1])
	case "needle":
		form.Set("angle", rest)
	}

	return form, nil
}

func (c *console) printState() error {
	v, err := c.s.View()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func (c *console) printQR() error {
	code, err := roomCode(c.s)
	if err != nil {
		return err
	}

	qr, err := terminalQR(code)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "%s\nRoom %s\n", qr, code)

	return nil
}

func (c *console) printSummary() {
	v, err := c.s.View()
	if err != nil {
		return
	}

	fmt.Fprint(c.out, summarize(v))
}

// summarize is the one-screen text rendering of a view.
func summarize(v client.View) string {
	var b strings.Builder

	snap := v.Snapshot

	switch v.Screen {
	case game.ScreenHome:
		fmt.Fprintln(&b, "[home]")
		if v.Home.Error != "" {
			fmt.Fprintln(&b, "  error:", v.Home.Error)
		}
		for _, e := range v.Home.Highscores {
			fmt.Fprintf(&b, "  %4d  %s\n", e.TeamScore, strings.Join(e.Players, ", "))
		}
	case game.ScreenLobby:
		fmt.Fprintf(&b, "[lobby %s] %d rounds, %s mode\n", v.Room, v.Lobby.NumRounds, v.Lobby.Mode)
		fmt.Fprintf(&b, "  players: %s\n", strings.Join(snap.PlayerNames(), ", "))
		if v.IsHost() {
			fmt.Fprintln(&b, "  you are the host")
		}
	case game.ScreenWriting:
		fmt.Fprintf(&b, "[writing %s] dial %d/%d, target %d\n", v.Room, snap.ClueIndex, snap.TotalClues, v.Dial.Target)
		fmt.Fprintf(&b, "  %s <-> %s: %q\n", v.Dial.Left, v.Dial.Right, v.Writing.Phrase)
		if v.Writing.Waiting {
			fmt.Fprintln(&b, "  waiting for the others")
		}
	case game.ScreenGuessing:
		fmt.Fprintf(&b, "[guessing %s]\n", v.Room)
		if c := snap.Clue; c != nil {
			fmt.Fprintf(&b, "  clue %d/%d by %s\n", c.ClueNumber, c.TotalClues, c.OwnerName)
			fmt.Fprintf(&b, "  %s <-> %s: %q\n", c.LeftAdjective, c.RightAdjective, c.Phrase)
		}
		fmt.Fprintf(&b, "  needle %d, ready %d/%d\n", v.Dial.Needle, snap.ReadyCount, snap.TotalGuessers)
		switch {
		case v.IsClueOwner():
			fmt.Fprintln(&b, "  this is your clue")
		case v.Guessing.Submitted:
			fmt.Fprintln(&b, "  locked in")
		}
	case game.ScreenReveal:
		fmt.Fprintf(&b, "[reveal %s] target %d, needle %d, +%d points, team %d\n",
			v.Room, v.Dial.Target, v.Dial.Needle, snap.PointsThisDial, snap.TeamScore)
		if snap.IsFinished() {
			for _, p := range snap.Standings() {
				fmt.Fprintf(&b, "  %4d  %s\n", p.Score, p.Name)
			}
			if v.Reveal.NewRecord {
				fmt.Fprintln(&b, "  new high score!")
			}
		}
	}

	return b.String()
}
