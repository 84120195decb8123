/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package client

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Seednode/wavedial/conn"
	"github.com/Seednode/wavedial/dial"
	"github.com/Seednode/wavedial/game"
	"github.com/Seednode/wavedial/reveal"
	"github.com/Seednode/wavedial/rooms"
	"github.com/rs/zerolog"
)

type sentCmd struct {
	Type     string `json:"type"`
	Position int    `json:"position"`
	Phrase   string `json:"phrase"`
	Rounds   int    `json:"num_rounds"`
	Mode     string `json:"mode"`
}

type fakeTransport struct {
	mu      sync.Mutex
	sent    []sentCmd
	opens   []string
	open    bool
	handler conn.Handler

	// beforeOpen runs once, outside the lock, when a handler is installed.
	beforeOpen func()
}

func (f *fakeTransport) Send(cmd any) {
	data, _ := json.Marshal(cmd)

	var c sentCmd
	_ = json.Unmarshal(data, &c)

	f.mu.Lock()
	f.sent = append(f.sent, c)
	f.mu.Unlock()
}

func (f *fakeTransport) Open(_ context.Context, room, player, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.opens = append(f.opens, room+"/"+player)
	f.open = true

	return nil
}

func (f *fakeTransport) Close() {
	f.mu.Lock()
	f.open = false
	f.mu.Unlock()
}

func (f *fakeTransport) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.open
}

func (f *fakeTransport) SetHandler(h conn.Handler) {
	f.mu.Lock()
	f.handler = h
	hook := f.beforeOpen
	if h != nil {
		f.beforeOpen = nil
	}
	f.mu.Unlock()

	if h != nil && hook != nil {
		hook()
	}
}

func (f *fakeTransport) current() conn.Handler {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.handler
}

func (f *fakeTransport) take() []sentCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := f.sent
	f.sent = nil

	return out
}

type fakeRooms struct{}

func (fakeRooms) Create(context.Context) (string, error) {
	return "ABCD", nil
}

func (fakeRooms) Lookup(_ context.Context, code string) (string, error) {
	if code != "ABCD" {
		return "", rooms.ErrRoomNotFound
	}

	return code, nil
}

func (fakeRooms) Highscores(context.Context) ([]game.LeaderboardEntry, error) {
	return []game.LeaderboardEntry{{TeamScore: 30, Players: []string{"Ana", "Ben"}}}, nil
}

type harness struct {
	t     *testing.T
	s     *Session
	tr    *fakeTransport
	clock *reveal.ManualClock
}

func newHarness(t *testing.T, playerID string) *harness {
	t.Helper()

	h := &harness{
		t:     t,
		tr:    &fakeTransport{},
		clock: reveal.NewManualClock(time.Unix(0, 0)),
	}
	h.s = New(Options{
		Transport:   h.tr,
		Rooms:       fakeRooms{},
		Clock:       h.clock,
		Logger:      zerolog.Nop(),
		NewPlayerID: func() string { return playerID },
	})

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- h.s.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-errc
	})

	return h
}

// joined puts the harness in the lobby of room ABCD with two players, the
// first of which is the host.
func joined(t *testing.T, playerID string) *harness {
	t.Helper()

	h := newHarness(t, playerID)
	if err := h.s.JoinRoom(context.Background(), "Ana", "abcd"); err != nil {
		t.Fatalf("join: %v", err)
	}
	h.frame(game.Message{
		Type:    game.TypeGameState,
		State:   ptr(game.PhaseWaiting),
		Players: []game.Player{{ID: "p1", Name: "Ana"}, {ID: "p2", Name: "Ben"}},
		HostID:  ptr("p1"),
	})

	return h
}

func (h *harness) frame(m game.Message) {
	h.t.Helper()

	fn := h.tr.current()
	if fn == nil {
		h.t.Fatal("no handler registered")
	}
	fn(m)
}

func (h *harness) view() View {
	h.t.Helper()

	v, err := h.s.View()
	if err != nil {
		h.t.Fatalf("view: %v", err)
	}

	return v
}

func (h *harness) advance(d time.Duration) {
	h.t.Helper()

	if err := h.s.Sync(func() { h.clock.Advance(d) }); err != nil {
		h.t.Fatalf("advance: %v", err)
	}
}

func (h *harness) guessing(needle int, owner string) {
	h.t.Helper()

	h.frame(game.Message{Type: game.TypeRoundStarted, State: ptr(game.PhaseWriting), TargetPosition: ptr(120)})
	h.frame(game.Message{
		Type:           game.TypeGuessingStarted,
		State:          ptr(game.PhaseGuessing),
		NeedlePosition: ptr(needle),
		Clue:           &game.Clue{OwnerID: owner, Phrase: "lukewarm", LeftAdjective: "cold", RightAdjective: "hot"},
	})
	h.tr.take()
}

func ptr[T any](v T) *T {
	return &v
}

func TestJoinRoomErrors(t *testing.T) {
	h := newHarness(t, "p1")
	ctx := context.Background()

	if err := h.s.JoinRoom(ctx, "  ", "ABCD"); !errors.Is(err, ErrNameRequired) {
		t.Errorf("got %v, want ErrNameRequired", err)
	}
	if v := h.view(); v.Home.Error != "Enter your name" {
		t.Errorf("home error %q", v.Home.Error)
	}

	if err := h.s.JoinRoom(ctx, "Ana", ""); !errors.Is(err, ErrCodeRequired) {
		t.Errorf("got %v, want ErrCodeRequired", err)
	}

	if err := h.s.JoinRoom(ctx, "Ana", "zzzz"); !errors.Is(err, rooms.ErrRoomNotFound) {
		t.Errorf("got %v, want ErrRoomNotFound", err)
	}
	v := h.view()
	if v.Home.Error != "Room not found" || v.Screen != game.ScreenHome || v.Home.Busy {
		t.Errorf("after miss: %+v", v.Home)
	}

	if err := h.s.JoinRoom(ctx, "Ana", "abcd"); err != nil {
		t.Fatalf("join: %v", err)
	}
	v = h.view()
	if v.Home.Error != "" {
		t.Errorf("error %q not cleared", v.Home.Error)
	}
	if v.Screen != game.ScreenLobby || v.Room != "ABCD" || v.PlayerID != "p1" {
		t.Errorf("after join: screen %s room %q player %q", v.Screen, v.Room, v.PlayerID)
	}
}

func TestCreateRoomOpensChannel(t *testing.T) {
	h := newHarness(t, "p9")

	if err := h.s.CreateRoom(context.Background(), "Ana"); err != nil {
		t.Fatalf("create: %v", err)
	}

	if len(h.tr.opens) != 1 || h.tr.opens[0] != "ABCD/p9" {
		t.Errorf("opens %v", h.tr.opens)
	}
	if v := h.view(); !v.Connected || v.Screen != game.ScreenLobby {
		t.Errorf("connected %v screen %s", v.Connected, v.Screen)
	}
}

func TestFetchHighscores(t *testing.T) {
	h := newHarness(t, "p1")

	if err := h.s.FetchHighscores(context.Background()); err != nil {
		t.Fatalf("highscores: %v", err)
	}
	if v := h.view(); len(v.Home.Highscores) != 1 || v.Home.Highscores[0].TeamScore != 30 {
		t.Errorf("highscores %+v", v.Home.Highscores)
	}
}

func TestLobbyRules(t *testing.T) {
	h := newHarness(t, "p1")
	if err := h.s.JoinRoom(context.Background(), "Ana", "ABCD"); err != nil {
		t.Fatalf("join: %v", err)
	}
	h.frame(game.Message{Type: game.TypeGameState, Players: []game.Player{{ID: "p1"}}, HostID: ptr("p1")})

	if err := h.s.StartRound(); !errors.Is(err, ErrNotEnoughPlayers) {
		t.Errorf("got %v, want ErrNotEnoughPlayers", err)
	}

	h.frame(game.Message{Type: game.TypePlayerJoined, Name: ptr("Ben"), Players: []game.Player{{ID: "p1"}, {ID: "p2"}}})

	if err := h.s.ChangeSettings(0, game.ModeFree); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("got %v, want ErrInvalidSettings", err)
	}
	if err := h.s.ChangeSettings(2, game.ModeBattery); err != nil {
		t.Fatalf("settings: %v", err)
	}
	if err := h.s.StartRound(); err != nil {
		t.Fatalf("start: %v", err)
	}

	sent := h.tr.take()
	if len(sent) != 2 || sent[0].Type != game.CmdLobbySettings || sent[1].Type != game.CmdStartRound {
		t.Fatalf("sent %+v", sent)
	}
	if sent[1].Rounds != 2 || sent[1].Mode != string(game.ModeBattery) {
		t.Errorf("start_round %+v", sent[1])
	}
}

func TestNonHostFollowsLobbySettings(t *testing.T) {
	h := joined(t, "p2")

	if err := h.s.ChangeSettings(2, game.ModeFree); !errors.Is(err, ErrNotHost) {
		t.Errorf("got %v, want ErrNotHost", err)
	}

	h.frame(game.Message{Type: game.TypeLobbySettings, NumRounds: ptr(5), Mode: ptr(game.ModeBattery)})
	if v := h.view(); v.Lobby.NumRounds != 5 || v.Lobby.Mode != game.ModeBattery {
		t.Errorf("lobby %+v", v.Lobby)
	}
}

func TestFullDial(t *testing.T) {
	h := joined(t, "p1")

	if err := h.s.StartRound(); err != nil {
		t.Fatalf("start: %v", err)
	}

	h.frame(game.Message{Type: game.TypeRoundStarted, State: ptr(game.PhaseWriting), TargetPosition: ptr(120), ClueIndex: ptr(1), TotalClues: ptr(1)})
	if v := h.view(); v.Screen != game.ScreenWriting || !v.Dial.ShowTarget || v.Dial.ClipWidth != 0 {
		t.Fatalf("writing: %+v", v.Dial)
	}

	h.advance(2 * time.Second)
	if v := h.view(); v.Dial.ClipWidth != dial.Default.Diameter() {
		t.Errorf("clip width %v, want %v", v.Dial.ClipWidth, dial.Default.Diameter())
	}

	if err := h.s.SubmitClue(); !errors.Is(err, ErrIncompleteClue) {
		t.Errorf("got %v, want ErrIncompleteClue", err)
	}
	for field, value := range map[string]string{"phrase": "tea", "left": "cold", "right": "hot"} {
		if err := h.s.SetDraft(field, value); err != nil {
			t.Fatalf("draft %s: %v", field, err)
		}
	}
	if err := h.s.SubmitClue(); err != nil {
		t.Fatalf("submit clue: %v", err)
	}
	if v := h.view(); !v.Writing.Waiting {
		t.Error("not waiting after submit")
	}

	h.frame(game.Message{
		Type:           game.TypeGuessingStarted,
		NeedlePosition: ptr(90),
		Clue:           &game.Clue{OwnerID: "p2", Phrase: "lukewarm", LeftAdjective: "cold", RightAdjective: "hot"},
	})
	v := h.view()
	if v.Screen != game.ScreenGuessing || !v.Dial.Interactive || v.Dial.Cursor != "pointer" || v.Dial.ClipWidth != 0 {
		t.Fatalf("guessing: %+v", v.Dial)
	}

	x, y := dial.Default.AngleToPoint(60, dial.Default.R-20)
	if _, err := h.s.Pointer("down", dial.PointerEvent{Kind: dial.Mouse, X: x, Y: y}); err != nil {
		t.Fatalf("pointer: %v", err)
	}
	if _, err := h.s.Pointer("up", dial.PointerEvent{}); err != nil {
		t.Fatalf("pointer: %v", err)
	}
	if err := h.s.SubmitGuess(); err != nil {
		t.Fatalf("submit guess: %v", err)
	}

	sent := h.tr.take()
	want := []sentCmd{
		{Type: game.CmdStartRound, Rounds: DefaultNumRounds, Mode: string(game.ModeFree)},
		{Type: game.CmdSubmitClue, Phrase: "tea"},
		{Type: game.CmdMoveNeedle, Position: 60},
		{Type: game.CmdSubmitGuess, Position: 60},
	}
	if len(sent) != len(want) {
		t.Fatalf("sent %+v", sent)
	}
	for i := range want {
		if sent[i] != want[i] {
			t.Errorf("sent[%d] = %+v, want %+v", i, sent[i], want[i])
		}
	}

	h.frame(game.Message{
		Type:           game.TypeClueReveal,
		TargetPosition: ptr(80),
		NeedlePosition: ptr(77),
		PointsThisDial: ptr(3),
		TeamScore:      ptr(10),
		Scores:         map[string]int{"p2": 3},
	})
	v = h.view()
	if v.Screen != game.ScreenReveal || v.Snapshot.FinalNeedleAngle != 77 || v.Dial.Needle != 77 {
		t.Fatalf("reveal: screen %s needle %d", v.Screen, v.Dial.Needle)
	}
	if v.Reveal.Mounted || v.Score != 0 {
		t.Errorf("reveal started mounted %v score %d", v.Reveal.Mounted, v.Score)
	}

	h.advance(2 * time.Second)
	v = h.view()
	if !v.Reveal.Mounted || v.Score != 10 || v.Dial.ClipWidth != dial.Default.Diameter() {
		t.Errorf("after animation: mounted %v score %d clip %v", v.Reveal.Mounted, v.Score, v.Dial.ClipWidth)
	}

	if err := h.s.NextClue(); err != nil {
		t.Errorf("next clue: %v", err)
	}
}

func TestSubmittedFlag(t *testing.T) {
	h := joined(t, "p1")
	h.guessing(90, "p2")

	if err := h.s.SubmitGuess(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if v := h.view(); !v.Guessing.Submitted || v.Dial.Interactive {
		t.Fatalf("after submit: %+v", v.Guessing)
	}

	h.frame(game.Message{Type: game.TypeNeedleMoved, Position: ptr(90), PlayerID: ptr("p1")})
	if v := h.view(); !v.Guessing.Submitted {
		t.Error("own needle move cleared submitted")
	}

	h.frame(game.Message{Type: game.TypeNeedleMoved, Position: ptr(140), PlayerID: ptr("p3")})
	v := h.view()
	if v.Guessing.Submitted {
		t.Error("another player's needle move kept submitted")
	}
	if v.Guessing.LocalAngle != 140 || !v.Dial.Interactive {
		t.Errorf("local angle %d interactive %v", v.Guessing.LocalAngle, v.Dial.Interactive)
	}

	if err := h.s.CancelGuess(); !errors.Is(err, ErrWrongScreen) {
		t.Errorf("cancel without submit: %v", err)
	}
}

func TestCancelGuess(t *testing.T) {
	h := joined(t, "p1")
	h.guessing(90, "p2")

	_ = h.s.SubmitGuess()
	if err := h.s.CancelGuess(); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	sent := h.tr.take()
	if len(sent) != 2 || sent[1].Type != game.CmdCancelGuess {
		t.Errorf("sent %+v", sent)
	}
	if v := h.view(); v.Guessing.Submitted || !v.Dial.Interactive {
		t.Errorf("after cancel: %+v", v.Guessing)
	}
}

func TestNeedleThrottle(t *testing.T) {
	h := joined(t, "p1")
	h.guessing(50, "p2")

	for _, a := range []int{51, 53} {
		if err := h.s.SetNeedle(a); err != nil {
			t.Fatalf("needle %d: %v", a, err)
		}
	}

	sent := h.tr.take()
	if len(sent) != 1 || sent[0].Type != game.CmdMoveNeedle || sent[0].Position != 53 {
		t.Errorf("sent %+v, want one move_needle at 53", sent)
	}
}

func TestClueOwnerCannotSteer(t *testing.T) {
	h := joined(t, "p1")
	h.guessing(90, "p1")

	if err := h.s.SetNeedle(30); !errors.Is(err, ErrWrongScreen) {
		t.Errorf("got %v, want ErrWrongScreen", err)
	}

	x, y := dial.Default.AngleToPoint(30, 50)
	_, _ = h.s.Pointer("down", dial.PointerEvent{X: x, Y: y})

	v := h.view()
	if v.Dial.Interactive || v.Dial.Cursor != "default" {
		t.Errorf("owner dial %+v", v.Dial)
	}
	if len(h.tr.take()) != 0 {
		t.Error("owner sent a command")
	}
}

func TestTwoPlayerDraftReset(t *testing.T) {
	a := joined(t, "p1")
	b := joined(t, "p2")

	start := game.Message{Type: game.TypeRoundStarted, State: ptr(game.PhaseWriting), TargetPosition: ptr(30), ClueIndex: ptr(1), TotalClues: ptr(2)}
	a.frame(start)
	b.frame(start)

	for _, h := range []*harness{a, b} {
		_ = h.s.SetDraft("phrase", "ice")
		_ = h.s.SetDraft("left", "cold")
		_ = h.s.SetDraft("right", "hot")
	}

	if err := a.s.SubmitClue(); err != nil {
		t.Fatalf("submit: %v", err)
	}

	a.frame(game.Message{Type: game.TypeNextWriting, TargetPosition: ptr(150), ClueIndex: ptr(2), TotalClues: ptr(2)})
	progress := game.Message{Type: game.TypeWritingProgress, Players: []game.Player{{ID: "p1"}, {ID: "p2"}}}
	a.frame(progress)
	b.frame(progress)

	va, vb := a.view(), b.view()
	if va.Writing.Phrase != "" || va.Writing.Left != "" || va.Writing.Right != "" || va.Writing.Waiting {
		t.Errorf("submitter drafts not reset: %+v", va.Writing)
	}
	if va.Screen != game.ScreenWriting || va.Snapshot.ClueIndex != 2 || va.Dial.Target != 150 {
		t.Errorf("submitter: screen %s clue %d target %d", va.Screen, va.Snapshot.ClueIndex, va.Dial.Target)
	}
	if vb.Writing.Phrase != "ice" || vb.Writing.Left != "cold" || vb.Writing.Right != "hot" {
		t.Errorf("other player's drafts touched: %+v", vb.Writing)
	}

	if err := b.s.SubmitClue(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	b.frame(progress)
	if vb := b.view(); !vb.Writing.Waiting {
		t.Error("writing_progress cleared waiting")
	}
}

func TestBatteryPrefill(t *testing.T) {
	h := joined(t, "p1")

	h.frame(game.Message{
		Type:           game.TypeRoundStarted,
		TargetPosition: ptr(30),
		Mode:           ptr(game.ModeBattery),
		LeftAdjective:  ptr("soft"),
		RightAdjective: ptr("hard"),
	})

	v := h.view()
	if v.Writing.Left != "soft" || v.Writing.Right != "hard" || v.Dial.Left != "soft" {
		t.Errorf("battery drafts %+v", v.Writing)
	}
}

func TestNewRecordIsComputedOnce(t *testing.T) {
	h := joined(t, "p1")
	h.guessing(90, "p2")

	h.frame(game.Message{Type: game.TypeClueReveal, NeedlePosition: ptr(10), TeamScore: ptr(21)})
	h.frame(game.Message{
		Type:        game.TypeGameFinished,
		State:       ptr(game.PhaseFinished),
		Finished:    ptr(true),
		Leaderboard: []game.LeaderboardEntry{{TeamScore: 21, Players: []string{"Ben", "Ana"}}},
	})

	v := h.view()
	if !v.Reveal.NewRecord || !v.Snapshot.IsFinished() || v.Screen != game.ScreenReveal {
		t.Fatalf("finished: %+v", v.Reveal)
	}

	h.frame(game.Message{Type: game.TypeGameFinished, Leaderboard: []game.LeaderboardEntry{{TeamScore: 99}}})
	if v := h.view(); !v.Reveal.NewRecord {
		t.Error("new record recomputed")
	}

	if err := h.s.NextClue(); !errors.Is(err, ErrWrongScreen) {
		t.Errorf("next clue after finish: %v", err)
	}
	if err := h.s.BackToLobby(); err != nil {
		t.Fatalf("back to lobby: %v", err)
	}
	if v := h.view(); v.Screen != game.ScreenLobby || v.Snapshot.Phase != game.PhaseWaiting || v.Score != 0 {
		t.Errorf("lobby: screen %s phase %s score %d", v.Screen, v.Snapshot.Phase, v.Score)
	}
}

func TestExitHomeDropsLateFrames(t *testing.T) {
	h := joined(t, "p1")
	stale := h.tr.current()

	if err := h.s.ExitHome(); err != nil {
		t.Fatalf("exit: %v", err)
	}
	if h.tr.current() != nil {
		t.Error("handler still registered")
	}

	stale(game.Message{Type: game.TypeRoundStarted, TargetPosition: ptr(10)})

	v := h.view()
	if v.Screen != game.ScreenHome || v.Room != "" || v.Connected {
		t.Errorf("after exit: screen %s room %q connected %v", v.Screen, v.Room, v.Connected)
	}
	if v.Snapshot.TargetPosition != nil || len(v.Snapshot.Players) != 0 {
		t.Error("room state survived exit")
	}
}

func TestExitDuringJoinClosesChannel(t *testing.T) {
	h := newHarness(t, "p1")
	h.tr.beforeOpen = func() {
		if err := h.s.ExitHome(); err != nil {
			t.Errorf("exit: %v", err)
		}
	}

	err := h.s.JoinRoom(context.Background(), "Ana", "ABCD")
	if !errors.Is(err, ErrSuperseded) {
		t.Fatalf("join: got %v, want %v", err, ErrSuperseded)
	}

	v := h.view()
	if v.Screen != game.ScreenHome || v.Room != "" {
		t.Errorf("after exit: screen %s room %q", v.Screen, v.Room)
	}
	if v.Connected || h.tr.Connected() {
		t.Error("channel to the abandoned room is still open")
	}
}

func TestUnknownFrameIsIgnored(t *testing.T) {
	h := joined(t, "p1")
	before := h.view()

	h.frame(game.Message{Type: "player_left", Players: []game.Player{}})

	if after := h.view(); len(after.Snapshot.Players) != len(before.Snapshot.Players) {
		t.Error("unknown frame changed the players")
	}
}
