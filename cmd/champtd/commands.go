/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mikeb26/swisschamp/championship"
	"github.com/mikeb26/swisschamp/internal"
	"github.com/mikeb26/swisschamp/montecarlo"
	"github.com/mikeb26/swisschamp/store"
	"github.com/mikeb26/swisschamp/uschess"
)

const (
	humanID          = "human"
	standingsPreview = 10
)

var errNoChampionship = errors.New("no championship in progress; run 'champtd start' first")

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func (a *app) load(ctx context.Context) (championship.State, error) {
	s, err := a.store.Load(ctx, a.key)
	if errors.Is(err, store.ErrNotFound) {
		return s, errNoChampionship
	}
	return s, err
}

// ensurePairings pairs the current round if needed and saves the result.
func (a *app) ensurePairings(ctx context.Context,
	s championship.State) (championship.State, error) {

	if s.Completed {
		return s, nil
	}
	before := len(s.Pairings)
	s, err := championship.EnsureCurrentRoundPairings(s)
	if err != nil {
		return s, err
	}
	if len(s.Pairings) != before {
		if err := a.store.Save(ctx, a.key, s); err != nil {
			return s, err
		}
	}
	return s, nil
}

func handleStart(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("start")
	name := fs.String("name", "", "Your display name")
	rating := fs.Int("rating", 1000, "Your rating")
	memberID := fs.Int("uscf", 0, "USCF member id to take name and rating from")
	rounds := fs.Int("rounds", a.cfg.Championship.Rounds, "Number of rounds")
	players := fs.Int("players", a.cfg.Championship.Players,
		"Field size including you (even)")
	force := fs.Bool("force", false, "Replace a championship in progress")
	if err := fs.Parse(args); err != nil {
		return err
	}

	existing, err := a.store.Load(ctx, a.key)
	if err == nil && !existing.Completed && !*force {
		return fmt.Errorf("a championship is in progress (round %v of %v); use --force to replace it",
			existing.CurrentRound, existing.TotalRounds)
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	profile := championship.Profile{ID: humanID, Name: *name, Rating: *rating}
	if *memberID > 0 {
		player, err := a.newUSChess(ctx).FetchPlayer(ctx, uschess.MemID(*memberID))
		if err != nil {
			return err
		}
		profile, err = player.Profile()
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Found USCF member %v: %v (%v)\n", *memberID,
			profile.Name, profile.Rating)
	}
	if profile.Name == "" {
		profile.Name = os.Getenv("USER")
	}
	if profile.Name == "" {
		profile.Name = "You"
	}

	s, err := championship.GenerateField(profile, championship.Config{
		TotalRounds:  *rounds,
		TotalPlayers: *players,
		Rand:         a.rnd,
	})
	if err != nil {
		return err
	}
	s, err = championship.EnsureCurrentRoundPairings(s)
	if err != nil {
		return err
	}
	if err := a.store.Save(ctx, a.key, s); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Started %v: %v players, %v rounds\n\n", s.SeasonID,
		len(s.Participants), s.TotalRounds)
	fmt.Fprint(a.out, championship.BuildPairingsOutput(s, s.CurrentRound))
	return nil
}

func handlePairings(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("pairings")
	round := fs.Int("round", 0, "Round to show (default current)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := a.load(ctx)
	if err != nil {
		return err
	}
	if *round <= 0 || *round == s.CurrentRound {
		*round = s.CurrentRound
		if s, err = a.ensurePairings(ctx, s); err != nil {
			return err
		}
	}

	fmt.Fprint(a.out, championship.BuildPairingsOutput(s, *round))
	return nil
}

func handleStandings(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("standings")
	top := fs.Int("top", 0, "Only show the top N rows plus yourself")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := a.load(ctx)
	if err != nil {
		return err
	}

	fmt.Fprint(a.out, championship.BuildStandingsOutput(s, *top))
	return nil
}

func handleOpponent(ctx context.Context, a *app, args []string) error {
	s, err := a.load(ctx)
	if err != nil {
		return err
	}
	if s.Completed {
		fmt.Fprintf(a.out, "The championship is complete; you finished %v of %v.\n",
			ordinal(championship.Position(s, s.HumanID)), len(s.Participants))
		return nil
	}
	if s, err = a.ensurePairings(ctx, s); err != nil {
		return err
	}
	opp, ok := championship.HumanOpponent(s, s.CurrentRound)
	if !ok {
		return championship.ErrNoHumanPairing
	}
	p, _ := championship.HumanPairingForRound(s, s.CurrentRound)
	color := "white"
	if p.SecondID == s.HumanID {
		color = "black"
	}

	fmt.Fprintf(a.out, "Round %v of %v, table %v: you have %v against %v %v\n",
		s.CurrentRound, s.TotalRounds, p.Table, color, opp.Glyph, opp.Name)
	fmt.Fprintf(a.out, "  rating %v, score %v, engine difficulty %v/10\n",
		opp.Rating, scoreOf(s, opp.ID), opp.Difficulty)
	return nil
}

func handlePlay(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("play")
	resultStr := fs.String("result", "", "Your result: win, loss or draw")
	if err := fs.Parse(args); err != nil {
		return err
	}
	result, err := championship.ParseHumanResult(*resultStr)
	if err != nil {
		fs.Usage()
		return err
	}
	s, err := a.load(ctx)
	if err != nil {
		return err
	}
	round := s.CurrentRound

	next, err := championship.PlayHumanRound(s, result, a.rnd)
	if errors.Is(err, championship.ErrCompleted) {
		return fmt.Errorf("%w; run 'champtd start' for a new one", err)
	} else if err != nil {
		return err
	}
	if err := a.store.Save(ctx, a.key, next); err != nil {
		return err
	}

	p, _ := championship.HumanPairingForRound(next, round)
	if opp, ok := next.Participant(p.OpponentOf(next.HumanID)); ok {
		fmt.Fprintf(a.out, "Round %v: %v against %v\n\n", round,
			describeResult(p, next.HumanID), opp.Name)
	}
	fmt.Fprint(a.out, championship.BuildStandingsOutput(next, standingsPreview))
	if next.Completed {
		fmt.Fprintf(a.out, "\nThe championship is complete; you finished %v of %v.\n",
			ordinal(championship.Position(next, next.HumanID)),
			len(next.Participants))
	}
	return nil
}

func handleReset(ctx context.Context, a *app, args []string) error {
	if err := a.store.Delete(ctx, a.key); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Championship deleted.")
	return nil
}

func handleSimulate(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("simulate")
	runs := fs.Int("runs", a.cfg.MonteCarlo.Runs, "Championships to play")
	workers := fs.Int("workers", a.cfg.MonteCarlo.Workers, "Concurrent workers")
	seed := fs.Int64("seed", 0, "Seed for a reproducible batch")
	rating := fs.Int("rating", 1000, "Rating when no championship is saved")
	if err := fs.Parse(args); err != nil {
		return err
	}

	profile := championship.Profile{ID: humanID, Name: "You", Rating: *rating}
	field := a.cfg.FieldConfig()
	s, err := a.load(ctx)
	if err == nil {
		if human, ok := s.Human(); ok {
			profile = championship.Profile{ID: human.ID, Name: human.Name,
				Rating: human.Rating}
		}
		field.TotalRounds = s.TotalRounds
		field.TotalPlayers = len(s.Participants)
	} else if !errors.Is(err, errNoChampionship) {
		return err
	}

	rep, err := montecarlo.Run(ctx, profile, montecarlo.Options{
		Runs:    *runs,
		Workers: *workers,
		Field:   field,
		Seed:    *seed,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%v (rating %v), %v players, %v rounds\n", profile.Name,
		profile.Rating, field.TotalPlayers, field.TotalRounds)
	fmt.Fprint(a.out, rep.String())
	return nil
}

func handleEstimate(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("estimate")
	memberID := fs.Int("uscf", 0, "Your USCF member id")
	rating := fs.Int("rating", 0, "Your rating (default your championship rating)")
	games := fs.Int("games", 20, "Your prior rated games")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := a.load(ctx)
	if err != nil {
		return err
	}

	if *memberID > 0 {
		est, err := a.newUSChess(ctx).EstimateMemberRating(ctx,
			uschess.MemID(*memberID), s)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%v: %v/%v, rating %.0f -> %.0f\n", est.Player.Name,
			internal.ScoreToString(est.Score), est.Games, est.OldRating,
			est.NewRating)
		return nil
	}

	if *rating <= 0 {
		human, _ := s.Human()
		*rating = human.Rating
	}
	score, opponents := uschess.HumanScore(s)
	newRating := uschess.EstimateChampionshipRating(s, float64(*rating), *games)
	fmt.Fprintf(a.out, "%v/%v, rating %v -> %.0f\n",
		internal.ScoreToString(score), len(opponents), *rating, newRating)
	return nil
}

func scoreOf(s championship.State, id string) string {
	p, _ := s.Participant(id)
	return internal.ScoreToString(p.Points)
}

func describeResult(p championship.Pairing, humanID string) string {
	switch {
	case p.Result == championship.Draw:
		return "you drew"
	case (p.Result == championship.FirstWins) == (p.FirstID == humanID):
		return "you won"
	}
	return "you lost"
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
