/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package rooms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /create-room", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"room_code":"qwer"}`))
	})
	mux.HandleFunc("GET /room/{code}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("code") == "ABCD" {
			w.Write([]byte(`{"exists":true,"players":[],"state":"waiting"}`))
			return
		}
		w.Write([]byte(`{"exists":false}`))
	})
	mux.HandleFunc("GET /highscores", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"team_score":21,"total_dials":6,"players":["Ana","Ben"],"date":"2026-01-02"}]`))
	})
	mux.HandleFunc("GET /room/BOOM", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	return ts
}

func TestCreate(t *testing.T) {
	c := New(newServer(t).URL+"/", time.Second)

	code, err := c.Create(context.Background())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if code != "QWER" {
		t.Errorf("code %q, want QWER", code)
	}
}

func TestLookup(t *testing.T) {
	c := New(newServer(t).URL, time.Second)

	code, err := c.Lookup(context.Background(), " abcd ")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if code != "ABCD" {
		t.Errorf("code %q, want ABCD", code)
	}

	if _, err := c.Lookup(context.Background(), "zzzz"); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("got %v, want ErrRoomNotFound", err)
	}

	if _, err := c.Lookup(context.Background(), "boom"); err == nil || errors.Is(err, ErrRoomNotFound) {
		t.Errorf("got %v, want a status error", err)
	}
}

func TestHighscores(t *testing.T) {
	c := New(newServer(t).URL, time.Second)

	board, err := c.Highscores(context.Background())
	if err != nil {
		t.Fatalf("highscores: %v", err)
	}
	if len(board) != 1 || board[0].TeamScore != 21 || len(board[0].Players) != 2 {
		t.Errorf("board %+v", board)
	}
}

func TestUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	if _, err := New(url, time.Second).Create(context.Background()); err == nil {
		t.Error("expected an error from a closed server")
	}
}
