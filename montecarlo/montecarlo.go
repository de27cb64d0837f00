/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * Package montecarlo plays many independent championships for one entrant,
 * letting the rating model decide the entrant's own games, and reports how
 * the entrant tends to finish.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package montecarlo

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mikeb26/swisschamp/championship"
	"github.com/mikeb26/swisschamp/internal"
)

type Options struct {
	Runs    int
	Workers int
	Field   championship.Config
	// Seed makes a batch reproducible. Zero seeds from the clock.
	Seed int64
}

type Report struct {
	Runs    int
	Players int
	// Positions[i] counts the runs finished in place i+1
	Positions    []int
	MeanPosition float64
	MeanPoints   float64
	WinRate      float64
	TopTenRate   float64
}

type runResult struct {
	position int
	points   float64
	players  int
}

// Run plays opts.Runs championships on at most opts.Workers goroutines.
func Run(ctx context.Context, profile championship.Profile,
	opts Options) (*Report, error) {

	if opts.Runs < 1 || opts.Workers < 1 {
		return nil, fmt.Errorf("montecarlo: runs (%v) and workers (%v) must be positive",
			opts.Runs, opts.Workers)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	master := rand.New(rand.NewSource(seed))
	seeds := make([]int64, opts.Runs)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	results := make([]runResult, opts.Runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range seeds {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := playOne(profile, opts.Field, seeds[i])
			if err != nil {
				return fmt.Errorf("montecarlo: run %v: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summarize(results), nil
}

// playOne plays a full championship with its own random source so runs
// never share state.
func playOne(profile championship.Profile, field championship.Config,
	seed int64) (runResult, error) {

	rng := rand.New(rand.NewSource(seed))
	field.Rand = rng.Float64
	s, err := championship.GenerateField(profile, field)
	if err != nil {
		return runResult{}, err
	}

	for !s.Completed {
		s, err = championship.EnsureCurrentRoundPairings(s)
		if err != nil {
			return runResult{}, err
		}
		result, err := humanResult(s, rng.Float64)
		if err != nil {
			return runResult{}, err
		}
		s, err = championship.PlayHumanRound(s, result, rng.Float64)
		if err != nil {
			return runResult{}, err
		}
	}

	human, _ := s.Human()
	return runResult{
		position: championship.Position(s, s.HumanID),
		points:   human.Points,
		players:  len(s.Participants),
	}, nil
}

// humanResult decides the human's current game with the rating model.
func humanResult(s championship.State,
	rnd championship.RandSource) (championship.HumanResult, error) {

	p, ok := championship.HumanPairingForRound(s, s.CurrentRound)
	if !ok {
		return "", championship.ErrNoHumanPairing
	}
	first, _ := s.Participant(p.FirstID)
	second, _ := s.Participant(p.SecondID)
	outcome := championship.SimulateOutcome(first.Rating, second.Rating, rnd)

	humanIsFirst := p.FirstID == s.HumanID
	switch {
	case outcome == championship.Draw:
		return championship.HumanDraw, nil
	case (outcome == championship.FirstWins) == humanIsFirst:
		return championship.HumanWin, nil
	}
	return championship.HumanLoss, nil
}

func summarize(results []runResult) *Report {
	players := 0
	for _, r := range results {
		if r.players > players {
			players = r.players
		}
	}
	rep := &Report{
		Runs:      len(results),
		Players:   players,
		Positions: make([]int, players),
	}

	wins, topTen := 0, 0
	for _, r := range results {
		if r.position < 1 {
			continue
		}
		rep.Positions[r.position-1]++
		rep.MeanPosition += float64(r.position)
		rep.MeanPoints += r.points
		if r.position == 1 {
			wins++
		}
		if r.position <= 10 {
			topTen++
		}
	}
	n := float64(len(results))
	rep.MeanPosition /= n
	rep.MeanPoints /= n
	rep.WinRate = float64(wins) / n
	rep.TopTenRate = float64(topTen) / n

	return rep
}

// String renders the report as a summary followed by the non-empty rows of
// the finishing position histogram.
func (rep *Report) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Simulated %v championships:\n\n", rep.Runs))
	sb.WriteString(fmt.Sprintf("Mean place:  %.1f\n", rep.MeanPosition))
	sb.WriteString(fmt.Sprintf("Mean score:  %v\n",
		internal.ScoreToString(roundHalf(rep.MeanPoints))))
	sb.WriteString(fmt.Sprintf("Win rate:    %.1f%%\n", rep.WinRate*100))
	sb.WriteString(fmt.Sprintf("Top 10 rate: %.1f%%\n\n", rep.TopTenRate*100))

	maxP := len("Place")
	maxC := len("Runs")
	for idx, c := range rep.Positions {
		if c == 0 {
			continue
		}
		if l := len(fmt.Sprintf("%v.", idx+1)); l > maxP {
			maxP = l
		}
		if l := len(fmt.Sprintf("%v", c)); l > maxC {
			maxC = l
		}
	}
	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %s\n", maxP, "Place", maxC, "Runs",
		"Share"))
	for idx, c := range rep.Positions {
		if c == 0 {
			continue
		}
		share := float64(c) / float64(rep.Runs)
		sb.WriteString(fmt.Sprintf("%-*s  %-*v  %5.1f%% %s\n", maxP,
			fmt.Sprintf("%v.", idx+1), maxC, c, share*100,
			strings.Repeat("#", int(share*50+0.5))))
	}

	return sb.String()
}

func roundHalf(x float64) float64 {
	return float64(int(x*2+0.5)) / 2
}
