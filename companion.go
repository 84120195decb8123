/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Seednode/wavedial/client"
	"github.com/Seednode/wavedial/dial"
	"github.com/Seednode/wavedial/game"
	"github.com/julienschmidt/httprouter"
)

var errCrossOrigin = errors.New("cross-origin request")

// sameOrigin rejects browser requests made from another site. Requests
// without either header come from non-browser clients and are allowed.
func sameOrigin(r *http.Request) error {
	switch r.Header.Get("Sec-Fetch-Site") {
	case "", "same-origin", "none":
	default:
		return errCrossOrigin
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		return nil
	}

	u, err := url.Parse(origin)
	if err != nil || u.Host != r.Host {
		return errCrossOrigin
	}

	return nil
}

// requireSameOrigin guards the routes that change the session.
func requireSameOrigin(cfg *Config, h httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		if err := sameOrigin(r); err != nil {
			logf(cfg, "DENY: %s %s from %s (origin %q)", r.Method, r.URL.Path, realIP(r), r.Header.Get("Origin"))
			http.Error(w, err.Error(), http.StatusForbidden)

			return
		}

		h(w, r, p)
	}
}

func writeJSON(cfg *Config, w http.ResponseWriter, status int, v any, errs chan<- error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	securityHeaders(cfg, w)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		errs <- err
	}
}

func serveState(cfg *Config, s *client.Session, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		v, err := s.View()
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)

			return
		}

		writeJSON(cfg, w, http.StatusOK, v, errs)
	}
}

type pointerRequest struct {
	Touch bool    `json:"touch"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// servePointer takes pointer samples already mapped into dial coordinates.
func servePointer(cfg *Config, s *client.Session, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		var req pointerRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req); err != nil {
			http.Error(w, "invalid pointer sample", http.StatusBadRequest)

			return
		}

		ev := dial.PointerEvent{Kind: dial.Mouse, X: req.X, Y: req.Y}
		if req.Touch {
			ev.Kind = dial.Touch
		}

		suppress, err := s.Pointer(p.ByName("action"), ev)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		}

		writeJSON(cfg, w, http.StatusOK, map[string]bool{"suppress": suppress}, errs)
	}
}

// serveAction runs one screen action from a page form, then sends the
// browser back to the page.
func serveAction(cfg *Config, s *client.Session) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)

			return
		}

		name := p.ByName("name")

		err := runAction(r.Context(), s, name, r.PostForm)
		switch {
		case err == nil:
			logf(cfg, "ACTION: %s from %s", name, realIP(r))
		case errors.Is(err, errUnknownAction):
			http.NotFound(w, r)

			return
		default:
			logf(cfg, "ACTION: %s from %s failed: %v", name, realIP(r), err)
		}

		http.Redirect(w, r, cfg.prefix+"/", http.StatusSeeOther)
	}
}

var errUnknownAction = errors.New("unknown action")

func runAction(ctx context.Context, s *client.Session, name string, form url.Values) error {
	get := form.Get

	switch name {
	case "create":
		return s.CreateRoom(ctx, get("name"))
	case "join":
		return s.JoinRoom(ctx, get("name"), get("code"))
	case "scores":
		return s.FetchHighscores(ctx)
	case "settings":
		rounds, err := strconv.Atoi(strings.TrimSpace(get("num_rounds")))
		if err != nil {
			return client.ErrInvalidSettings
		}
		return s.ChangeSettings(rounds, game.Mode(get("mode")))
	case "start":
		return s.StartRound()
	case "clue":
		for _, field := range []string{"phrase", "left", "right"} {
			if _, ok := form[field]; !ok {
				continue
			}
			if err := s.SetDraft(field, get(field)); err != nil {
				return err
			}
		}
		return s.SubmitClue()
	case "needle":
		angle, err := strconv.Atoi(strings.TrimSpace(get("angle")))
		if err != nil {
			return client.ErrWrongScreen
		}
		return s.SetNeedle(angle)
	case "guess":
		return s.SubmitGuess()
	case "cancel":
		return s.CancelGuess()
	case "next":
		return s.NextClue()
	case "lobby":
		return s.BackToLobby()
	case "home":
		return s.ExitHome()
	default:
		return errUnknownAction
	}
}
