/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mikeb26/swisschamp/championship"
	"github.com/mikeb26/swisschamp/internal/config"
	"github.com/mikeb26/swisschamp/store"
	"github.com/mikeb26/swisschamp/uschess"
)

func newTestApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Store.Dir = t.TempDir()
	cfg.MonteCarlo.Runs = 20
	cfg.MonteCarlo.Workers = 2

	out := &bytes.Buffer{}
	rnd := rand.New(rand.NewSource(7))
	return &app{
		cfg:   cfg,
		store: store.NewFileStore(cfg.Store.Dir),
		key:   "test",
		out:   out,
		rnd:   rnd.Float64,
		newUSChess: func(ctx context.Context) *uschess.Client {
			t.Fatalf("unexpected USCF lookup")
			return nil
		},
	}, out
}

func run(t *testing.T, a *app, out *bytes.Buffer, cmd string,
	args ...string) string {

	t.Helper()
	out.Reset()
	if err := commands[cmd](context.Background(), a, args); err != nil {
		t.Fatalf("%v %v: %v", cmd, args, err)
	}
	return out.String()
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"help", "start", "pairings", "standings",
		"opponent", "play", "reset", "simulate", "estimate"} {
		if _, ok := commands[name]; !ok {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestFullChampionship(t *testing.T) {
	a, out := newTestApp(t)
	ctx := context.Background()

	got := run(t, a, out, "start", "--name", "Tester", "--rating", "1200",
		"--rounds", "3", "--players", "8")
	if !strings.Contains(got, "8 players, 3 rounds") ||
		!strings.Contains(got, "Round 1 of 3 pairings") {
		t.Errorf("unexpected start output:\n%v", got)
	}

	got = run(t, a, out, "opponent")
	if !strings.Contains(got, "Round 1 of 3, table ") {
		t.Errorf("unexpected opponent output:\n%v", got)
	}

	for i, result := range []string{"win", "draw", "loss"} {
		got = run(t, a, out, "play", "--result", result)
		if !strings.Contains(got, "*Tester") {
			t.Errorf("round %v: standings omit the human:\n%v", i+1, got)
		}
	}
	if !strings.Contains(got, "Final standings after 3 rounds") ||
		!strings.Contains(got, "The championship is complete") {
		t.Errorf("unexpected final play output:\n%v", got)
	}

	s, err := a.store.Load(ctx, a.key)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !s.Completed || len(s.Pairings) != 12 {
		t.Errorf("completed=%v pairings=%v; want true 12", s.Completed,
			len(s.Pairings))
	}
	human, _ := s.Human()
	if human.Points != 1.5 {
		t.Errorf("human points = %v; want 1.5", human.Points)
	}

	err = handlePlay(ctx, a, []string{"--result", "win"})
	if !errors.Is(err, championship.ErrCompleted) {
		t.Errorf("play after completion: got %v; want ErrCompleted", err)
	}

	got = run(t, a, out, "pairings", "--round", "2")
	if !strings.Contains(got, "Round 2 of 3 pairings") {
		t.Errorf("unexpected pairings output:\n%v", got)
	}
	got = run(t, a, out, "opponent")
	if !strings.Contains(got, "complete") {
		t.Errorf("unexpected opponent output after completion:\n%v", got)
	}

	got = run(t, a, out, "estimate", "--rating", "1200")
	if !strings.HasPrefix(got, "1½/3, rating 1200 -> ") {
		t.Errorf("unexpected estimate output:\n%v", got)
	}

	run(t, a, out, "reset")
	if _, err := a.store.Load(ctx, a.key); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Load after reset: got %v; want ErrNotFound", err)
	}
}

func TestStartRefusesInProgress(t *testing.T) {
	a, out := newTestApp(t)
	ctx := context.Background()

	run(t, a, out, "start", "--name", "Tester", "--players", "4",
		"--rounds", "2")
	if err := handleStart(ctx, a, []string{"--players", "4"}); err == nil {
		t.Fatalf("second start succeeded without --force")
	}
	run(t, a, out, "start", "--name", "Other", "--players", "6", "--force")

	s, err := a.store.Load(ctx, a.key)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if human, _ := s.Human(); human.Name != "Other" || len(s.Participants) != 6 {
		t.Errorf("forced start kept the old championship: %v, %v players",
			human.Name, len(s.Participants))
	}
}

func TestStartRejectsOddField(t *testing.T) {
	a, _ := newTestApp(t)
	err := handleStart(context.Background(), a, []string{"--players", "5"})
	if !errors.Is(err, championship.ErrOddField) {
		t.Errorf("got %v; want ErrOddField", err)
	}
}

func TestStartUSCFLookupFailure(t *testing.T) {
	a, _ := newTestApp(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter,
		r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	a.newUSChess = func(ctx context.Context) *uschess.Client {
		return uschess.NewClientWithHTTP(&http.Client{
			Transport: rewriteTransport{target: srv.URL},
		})
	}

	ctx := context.Background()
	if err := handleStart(ctx, a, []string{"--uscf", "12345678"}); err == nil {
		t.Fatalf("start succeeded although the lookup failed")
	}
	if _, err := a.store.Load(ctx, a.key); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("a snapshot was saved after a failed lookup: %v", err)
	}
}

type rewriteTransport struct{ target string }

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	u := *req.URL
	u.Scheme = "http"
	u.Host = strings.TrimPrefix(rt.target, "http://")
	req2.URL = &u
	return http.DefaultTransport.RoundTrip(req2)
}

func TestCommandsWithoutChampionship(t *testing.T) {
	a, _ := newTestApp(t)
	for _, cmd := range []string{"pairings", "standings", "opponent", "estimate"} {
		err := commands[cmd](context.Background(), a, nil)
		if !errors.Is(err, errNoChampionship) {
			t.Errorf("%v: got %v; want errNoChampionship", cmd, err)
		}
	}
	err := handlePlay(context.Background(), a, []string{"--result", "win"})
	if !errors.Is(err, errNoChampionship) {
		t.Errorf("play: got %v; want errNoChampionship", err)
	}
}

func TestPlayRejectsBadResult(t *testing.T) {
	a, out := newTestApp(t)
	run(t, a, out, "start", "--name", "Tester", "--players", "4")
	err := handlePlay(context.Background(), a, []string{"--result", "resign"})
	if !errors.Is(err, championship.ErrInvalidResult) {
		t.Errorf("got %v; want ErrInvalidResult", err)
	}
}

func TestSimulate(t *testing.T) {
	a, out := newTestApp(t)
	got := run(t, a, out, "simulate", "--seed", "3", "--rating", "1400")
	if !strings.HasPrefix(got, "You (rating 1400), 40 players, 7 rounds") {
		t.Errorf("unexpected simulate output:\n%v", got)
	}

	run(t, a, out, "start", "--name", "Tester", "--rating", "900",
		"--players", "10", "--rounds", "4")
	got = run(t, a, out, "simulate", "--seed", "3", "--runs", "5")
	if !strings.HasPrefix(got, "Tester (rating 900), 10 players, 4 rounds") {
		t.Errorf("simulate ignored the saved championship:\n%v", got)
	}
}

func TestOrdinal(t *testing.T) {
	cases := map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th",
		12: "12th", 13: "13th", 21: "21st", 22: "22nd", 40: "40th", 111: "111th"}
	for n, want := range cases {
		if got := ordinal(n); got != want {
			t.Errorf("ordinal(%v) = %q; want %q", n, got, want)
		}
	}
}
