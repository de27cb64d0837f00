/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

package uschess

import (
	"context"
	"fmt"
	"math"

	"github.com/mikeb26/swisschamp/championship"
)

// USCF rating estimator based on:
//   1. https://new.uschess.org/sites/default/files/media/documents/the-us-chess-rating-system-revised-september-2020.pdf
//   2. https://new.uschess.org/news/change-us-chess-ratings-bonus-threshold-lowered-2025
//
// Unrated players are not supported since their initial rating depends on
// age. Provisionally rated players who have won or lost every prior game are
// treated like any other provisional player.

const (
	// sep2020 pdf used 14.0, the jun2025 change lowered it to 10.0
	bonusThreshold = 10.0
	ratingFloor    = 100.0
	specialCeiling = 2700.0
)

func expectedScore(myRating float64, oppRating float64) float64 {
	return 1.0 / (math.Pow(10, (oppRating-myRating)/400.0) + 1.0)
}

// provisionalExpectancy is PWe from section 4.1.
func provisionalExpectancy(r float64, opp float64) float64 {
	switch {
	case r <= opp-400.0:
		return 0.0
	case r >= opp+400.0:
		return 1.0
	}
	return 0.5 + (r-opp)/800.0
}

// effectiveGames is N0 from section 3.
func effectiveGames(oldRating float64, priorGames int) float64 {
	nStar := 50.0
	if oldRating <= 2355 {
		nStar = 50.0 / math.Sqrt(0.662+0.00000739*math.Pow(2569.0-oldRating, 2))
	}

	return math.Min(float64(priorGames), nStar)
}

// kFactor is K from section 4.2. dualRatedOTBR applies the over-the-board
// dual-rated adjustment for players above 2200.
func kFactor(oldRating float64, n0 float64, games int, dualRatedOTBR bool) float64 {
	denom := n0 + float64(games)
	if denom <= 0 {
		return 0
	}
	if dualRatedOTBR && oldRating > 2200.0 {
		if oldRating >= 2500.0 {
			return 200.0 / denom
		}
		return 800.0 * (6.5 - 0.0025*oldRating) / denom
	}

	return 800.0 / denom
}

// specialRating solves the special rating formula of section 4.1 for players
// with 8 or fewer prior games by bisection.
func specialRating(oldRating float64, n0 float64, score float64,
	opponents []float64) float64 {

	target := score + n0/2.0
	f := func(r float64) float64 {
		sum := n0 * provisionalExpectancy(r, oldRating)
		for _, opp := range opponents {
			sum += provisionalExpectancy(r, opp)
		}
		return sum - target
	}

	lo, hi := oldRating, oldRating
	for _, opp := range opponents {
		lo = math.Min(lo, opp)
		hi = math.Max(hi, opp)
	}
	// widen until every expectancy term saturates
	lo -= 1000.0
	hi += 1000.0
	for i := 0; i < 10 && f(lo) > 0; i++ {
		lo -= 1000.0
	}
	for i := 0; i < 10 && f(hi) < 0; i++ {
		hi += 1000.0
	}

	for i := 0; i < 200 && hi-lo > 1e-9; i++ {
		mid := (lo + hi) / 2.0
		fm := f(mid)
		if math.Abs(fm) <= 1e-7 {
			lo, hi = mid, mid
			break
		}
		if fm < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}

	return math.Max(ratingFloor, math.Min(specialCeiling, (lo+hi)/2.0))
}

// bonus is the section 4.2 bonus for events of 3 or more games.
func bonus(games int, delta float64) float64 {
	if games < 3 {
		return 0
	}
	m := math.Max(4, float64(games))

	return math.Max(0.0, delta-bonusThreshold*math.Sqrt(m))
}

func estimateRating(oldRating float64, priorGames int, score float64,
	opponents []float64, dualRatedOTBR bool) float64 {

	if len(opponents) == 0 {
		return oldRating
	}

	n0 := effectiveGames(oldRating, priorGames)
	if priorGames <= 8 {
		return specialRating(oldRating, n0, score, opponents)
	}

	expected := 0.0
	for _, opp := range opponents {
		expected += expectedScore(oldRating, opp)
	}
	delta := kFactor(oldRating, n0, len(opponents), dualRatedOTBR) *
		(score - expected)

	return oldRating + delta + bonus(len(opponents), delta)
}

// EstimateRating returns the post-event rating of a player rated oldRating
// with priorGames rated games who scored score against opponents.
func EstimateRating(oldRating float64, priorGames int, score float64,
	opponents []float64) float64 {

	return estimateRating(oldRating, priorGames, score, opponents, false)
}

// HumanScore returns the human's score and the ratings of the opponents in
// every decided game of the championship.
func HumanScore(s championship.State) (float64, []float64) {
	score := 0.0
	var opponents []float64
	for _, p := range s.Pairings {
		if !p.Result.Decided() || !p.Involves(s.HumanID) {
			continue
		}
		opp, ok := s.Participant(p.OpponentOf(s.HumanID))
		if !ok {
			continue
		}
		opponents = append(opponents, float64(opp.Rating))

		humanIsFirst := p.FirstID == s.HumanID
		switch {
		case p.Result == championship.Draw:
			score += 0.5
		case p.Result == championship.FirstWins && humanIsFirst,
			p.Result == championship.SecondWins && !humanIsFirst:
			score += 1
		}
	}

	return score, opponents
}

// EstimateChampionshipRating treats the championship as one rated event and
// estimates the human's rating after it.
func EstimateChampionshipRating(s championship.State, oldRating float64,
	priorGames int) float64 {

	score, opponents := HumanScore(s)

	return EstimateRating(oldRating, priorGames, score, opponents)
}

type Estimate struct {
	Player    *Player
	OldRating float64
	NewRating float64
	Score     float64
	Games     int
}

// EstimateMemberRating looks up a USCF member and estimates their rating had
// the championship been a rated event.
func (client *Client) EstimateMemberRating(ctx context.Context,
	memberID MemID, s championship.State) (*Estimate, error) {

	player, err := client.FetchPlayer(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if player.RegRating == unratedStr {
		return nil, fmt.Errorf("member %v has no regular rating: %w", memberID,
			ErrUnrated)
	}
	rating, _, _, err := parseRating(player.RegRating)
	if err != nil {
		return nil, fmt.Errorf("member %v: %w", memberID, err)
	}

	score, opponents := HumanScore(s)
	old := float64(rating)
	return &Estimate{
		Player:    player,
		OldRating: old,
		NewRating: EstimateRating(old, player.PriorGames(), score, opponents),
		Score:     score,
		Games:     len(opponents),
	}, nil
}
