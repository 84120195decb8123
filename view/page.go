/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package view

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Seednode/wavedial/client"
	"github.com/Seednode/wavedial/game"
	"github.com/a-h/templ"
)

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}

	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) render(ctx context.Context, c templ.Component) {
	if p.err != nil {
		return
	}

	p.err = c.Render(ctx, p.w)
}

func esc(s string) string {
	return templ.EscapeString(s)
}

// Page is the whole companion document for v. The page polls itself, so
// prefix is where the companion routes are mounted.
func Page(prefix, version string, v client.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}

		p.printf(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		p.printf(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		p.printf(`<title>wavedial v%s</title>`, esc(version))
		p.printf(`<link rel="icon" type="image/svg+xml" href="%s/assets/favicon.svg">`, esc(prefix))
		p.printf(`<link rel="stylesheet" href="%s/assets/wavedial.css">`, esc(prefix))
		p.printf(`</head><body data-prefix="%s" data-screen="%s">`, esc(prefix), esc(string(v.Screen)))

		p.render(ctx, Status(v))
		p.render(ctx, Screen(v))

		p.printf(`<script src="%s/assets/wavedial.js"></script></body></html>`, esc(prefix))

		return p.err
	})
}

// Status is the connection and room header.
func Status(v client.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}

		state := "offline"
		if v.Connected {
			state = "online"
		}

		p.printf(`<header class="status %s">`, state)
		if v.Room != "" {
			p.printf(`<span class="room">%s</span> <img class="qr" alt="room code" src="qr.png">`, esc(v.Room))
		}
		if v.PlayerName != "" {
			p.printf(` <span class="me">%s</span>`, esc(v.PlayerName))
		}
		p.printf(` <span class="conn">%s</span></header>`, state)

		return p.err
	})
}

// Screen renders whichever screen v is on.
func Screen(v client.View) templ.Component {
	switch v.Screen {
	case game.ScreenLobby:
		return Lobby(v)
	case game.ScreenWriting:
		return Writing(v)
	case game.ScreenGuessing:
		return Guessing(v)
	case game.ScreenReveal:
		return Reveal(v)
	default:
		return Home(v)
	}
}

func Home(v client.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}

		p.printf(`<main class="home"><h1>wavedial</h1>`)
		p.printf(`<form method="post" action="action/create"><label>Name <input name="name" value="%s" autocomplete="off"></label>`, esc(v.Home.Name))
		p.printf(`<button>Create room</button></form>`)
		p.printf(`<form method="post" action="action/join"><input type="hidden" name="name" value="%s">`, esc(v.Home.Name))
		p.printf(`<label>Room <input name="code" value="%s" autocomplete="off"></label><button>Join</button></form>`, esc(v.Home.Code))

		if v.Home.Busy {
			p.printf(`<p class="busy">Connecting...</p>`)
		}
		if v.Home.Error != "" {
			p.printf(`<p class="error">%s</p>`, esc(v.Home.Error))
		}

		if len(v.Home.Highscores) > 0 {
			p.printf(`<ol class="highscores">`)
			for _, e := range v.Home.Highscores {
				p.printf(`<li>%d pts in %d dials: %s</li>`, e.TeamScore, e.TotalDials, esc(strings.Join(e.Players, ", ")))
			}
			p.printf(`</ol>`)
		}

		p.printf(`</main>`)

		return p.err
	})
}

func Lobby(v client.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}

		p.printf(`<main class="lobby"><h2>Room %s</h2>`, esc(v.Room))
		p.printf(`<p>Players (%d)</p><ul class="players">`, len(v.Snapshot.Players))
		for _, pl := range v.Snapshot.Players {
			p.printf(`<li%s>%s%s</li>`, meClass(pl.ID, v.PlayerID), esc(pl.Name), hostMark(pl.ID, v.Snapshot.HostID))
		}
		p.printf(`</ul>`)

		if v.IsHost() {
			p.printf(`<form method="post" action="action/settings">`)
			p.printf(`<label>Dials per player <input type="number" name="num_rounds" min="1" max="%d" value="%d"></label>`, client.MaxNumRounds, v.Lobby.NumRounds)
			p.printf(`<select name="mode">%s%s</select><button>Save</button></form>`,
				option(game.ModeFree, v.Lobby.Mode), option(game.ModeBattery, v.Lobby.Mode))

			if len(v.Snapshot.Players) < 2 {
				p.printf(`<p>Waiting for more players...</p>`)
			} else {
				p.printf(`<form method="post" action="action/start"><button>Start</button></form>`)
			}
		} else {
			p.printf(`<p>%d dials per player, %s mode. Waiting for the host.</p>`, v.Lobby.NumRounds, esc(string(v.Lobby.Mode)))
		}

		if v.Snapshot.Error != "" {
			p.printf(`<p class="error">%s</p>`, esc(v.Snapshot.Error))
		}

		p.printf(`</main>`)

		return p.err
	})
}

func Writing(v client.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		snap := v.Snapshot

		p.printf(`<main class="writing"><h2>Write a clue</h2>`)
		if snap.TotalClues > 0 {
			p.printf(`<p>Dial %d of %d. Only you can see where the target is.</p>`, snap.ClueIndex, snap.TotalClues)
		}

		p.render(ctx, Dial(v.Dial))

		if v.Writing.Waiting {
			p.printf(`<p class="waiting">Clue sent. Waiting for the others...</p>`)
			p.render(ctx, playerList(v))
			p.printf(`</main>`)

			return p.err
		}

		readonly := ""
		if snap.Mode == game.ModeBattery {
			readonly = " readonly"
		}

		p.printf(`<form method="post" action="action/clue">`)
		p.printf(`<label>Clue <input name="phrase" value="%s" autocomplete="off"></label>`, esc(v.Writing.Phrase))
		p.printf(`<label>Left <input name="left" value="%s"%s></label>`, esc(v.Writing.Left), readonly)
		p.printf(`<label>Right <input name="right" value="%s"%s></label>`, esc(v.Writing.Right), readonly)
		p.printf(`<button>Send clue</button></form></main>`)

		return p.err
	})
}

func Guessing(v client.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		snap := v.Snapshot

		p.printf(`<main class="guessing"><h2>Guess</h2>`)
		if c := snap.Clue; c != nil {
			p.printf(`<p>Dial %d of %d, clue by %s</p>`, c.ClueNumber, c.TotalClues, esc(c.OwnerName))
			p.printf(`<p class="clue">"%s"</p>`, esc(c.Phrase))
		}
		if v.IsClueOwner() {
			p.printf(`<p class="owner">This is your dial. Wait for the others to guess.</p>`)
		}

		p.render(ctx, Dial(v.Dial))

		p.printf(`<p>Position: <strong>%d&deg;</strong>`, v.Dial.Needle)
		if snap.TotalGuessers > 0 {
			p.printf(` Ready: <strong>%d/%d</strong>`, snap.ReadyCount, snap.TotalGuessers)
		}
		p.printf(`</p>`)

		switch {
		case v.IsClueOwner():
		case v.Guessing.Submitted:
			p.printf(`<form method="post" action="action/cancel"><button>Not ready</button></form>`)
		default:
			p.printf(`<form method="post" action="action/guess"><button>Ready</button></form>`)
		}

		p.render(ctx, playerList(v))
		p.printf(`</main>`)

		return p.err
	})
}

func Reveal(v client.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		snap := v.Snapshot

		mounted := ""
		if v.Reveal.Mounted {
			mounted = " mounted"
		}

		p.printf(`<main class="reveal%s"><h2>Result</h2>`, mounted)
		if c := snap.Clue; c != nil {
			p.printf(`<p class="clue">"%s" by %s</p>`, esc(c.Phrase), esc(c.OwnerName))
		}

		p.render(ctx, Dial(v.Dial))

		p.printf(`<p class="points">+%d this dial</p>`, snap.PointsThisDial)
		p.printf(`<p class="team">Team score <strong>%d</strong></p>`, v.Score)

		if v.Reveal.NewRecord {
			p.printf(`<p class="record">New record!</p>`)
		}

		players := snap.Players
		if snap.IsFinished() {
			players = snap.Standings()
		}

		p.printf(`<ul class="scores">`)
		for _, pl := range players {
			p.printf(`<li%s>%s <span>%d</span>`, meClass(pl.ID, v.PlayerID), esc(pl.Name), pl.Score)
			if pts, ok := snap.Scores[pl.ID]; ok {
				p.printf(` <span class="plus">+%d</span>`, pts)
			}
			p.printf(`</li>`)
		}
		p.printf(`</ul>`)

		switch {
		case snap.IsFinished():
			if len(snap.Leaderboard) > 0 {
				p.printf(`<ol class="highscores">`)
				for _, e := range snap.Leaderboard {
					p.printf(`<li>%d pts in %d dials: %s</li>`, e.TeamScore, e.TotalDials, esc(strings.Join(e.Players, ", ")))
				}
				p.printf(`</ol>`)
			}
			p.printf(`<form method="post" action="action/lobby"><button>Back to lobby</button></form>`)
		case v.IsHost():
			p.printf(`<form method="post" action="action/next"><button>Next dial</button></form>`)
		default:
			p.printf(`<p>Waiting for the host...</p>`)
		}

		p.printf(`<form method="post" action="action/home"><button>Leave</button></form></main>`)

		return p.err
	})
}

func playerList(v client.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}

		p.printf(`<ul class="players">`)
		for _, pl := range v.Snapshot.Players {
			ready := ""
			if v.Snapshot.IsReady(pl.ID) {
				ready = ` <span class="ready">ready</span>`
			}
			p.printf(`<li%s>%s%s</li>`, meClass(pl.ID, v.PlayerID), esc(pl.Name), ready)
		}
		p.printf(`</ul>`)

		return p.err
	})
}

func meClass(id, me string) string {
	if id == me {
		return ` class="me"`
	}

	return ""
}

func hostMark(id, host string) string {
	if id == host {
		return ` <span class="host">host</span>`
	}

	return ""
}

func option(m, selected game.Mode) string {
	sel := ""
	if m == selected {
		sel = " selected"
	}

	return `<option value="` + esc(string(m)) + `"` + sel + `>` + esc(string(m)) + `</option>`
}
