/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"net/http"

	"github.com/Seednode/wavedial/client"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

const qrSize = 320

var errNoRoom = errors.New("not in a room")

// roomCode is what other players need to join: the code of the room this
// session is in.
func roomCode(s *client.Session) (string, error) {
	v, err := s.View()
	if err != nil {
		return "", err
	}
	if v.Room == "" {
		return "", errNoRoom
	}

	return v.Room, nil
}

// serveQR renders the room code as a PNG for players to scan off the screen.
func serveQR(cfg *Config, s *client.Session, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		code, err := roomCode(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)

			return
		}

		png, err := qrcode.Encode(code, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)

		if _, err := w.Write(png); err != nil {
			errs <- err
		}
	}
}

// terminalQR renders the room code with half-height block characters.
func terminalQR(code string) (string, error) {
	q, err := qrcode.New(code, qrcode.Medium)
	if err != nil {
		return "", err
	}

	return q.ToSmallString(false), nil
}
