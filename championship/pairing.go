/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package championship

import (
	"fmt"
	"math"
)

const (
	repeatPenalty    = -1000.0
	scoreGroupWeight = 100.0
	ratingWeight     = 0.01
)

// EnsureCurrentRoundPairings pairs the current round unless it is already
// paired, in which case the state is returned unchanged.
//
// Pairing is greedy rather than optimal: participants are taken in leaderboard
// order and each is matched with the best remaining candidate. Candidates in
// the same score group are strongly preferred, ties within a group go to the
// closest rating, and repeat opponents are only chosen when nobody else is
// left.
func EnsureCurrentRoundPairings(s State) (State, error) {
	if s.Completed {
		return s, fmt.Errorf("unable to pair round %v: %w", s.CurrentRound,
			ErrCompleted)
	}
	if s.hasRound(s.CurrentRound) {
		return s, nil
	}
	if len(s.Participants)%2 != 0 {
		return s, fmt.Errorf("unable to pair %v participants: %w",
			len(s.Participants), ErrOddField)
	}

	out := s.clone()
	unpaired := append([]Participant{}, out.Participants...)
	sortByRank(unpaired)

	idx := make(map[string]int, len(out.Participants))
	for i, p := range out.Participants {
		idx[p.ID] = i
	}

	tableNum := 1
	for len(unpaired) >= 2 {
		top := unpaired[0]
		unpaired = removeIndex(unpaired, 0)
		oppIdx := bestOpponent(&top, unpaired)
		opp := unpaired[oppIdx]
		unpaired = removeIndex(unpaired, oppIdx)

		out.Pairings = append(out.Pairings,
			buildOnePairing(out.CurrentRound, top, opp, out.HumanID, &tableNum))

		out.Participants[idx[top.ID]].addOpponent(opp.ID)
		out.Participants[idx[opp.ID]].addOpponent(top.ID)
	}

	return RecalculateStandings(out), nil
}

// bestOpponent returns the index within candidates of p's preferred
// opponent. candidates must not be empty.
func bestOpponent(p *Participant, candidates []Participant) int {
	bestIdx := 0
	bestScore := math.Inf(-1)
	for i := range candidates {
		q := &candidates[i]
		if q.ID == p.ID {
			continue
		}
		score := pairingScore(p, q)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	return bestIdx
}

func pairingScore(p, q *Participant) float64 {
	score := 0.0
	if p.hasPlayed(q.ID) || q.hasPlayed(p.ID) {
		score += repeatPenalty
	}
	score -= scoreGroupWeight * math.Abs(p.Points-q.Points)
	score -= ratingWeight * math.Abs(float64(p.Rating-q.Rating))

	return score
}

// buildOnePairing assigns colors: the human always takes white, otherwise
// even tables give white to the lower ranked of the two.
func buildOnePairing(round int, top, opp Participant, humanID string,
	tableNum *int) Pairing {

	p := Pairing{
		Round:    round,
		Table:    *tableNum,
		FirstID:  top.ID,
		SecondID: opp.ID,
	}
	switch {
	case top.ID == humanID:
	case opp.ID == humanID:
		p.FirstID, p.SecondID = opp.ID, top.ID
	case *tableNum%2 == 0:
		p.FirstID, p.SecondID = opp.ID, top.ID
	}
	(*tableNum)++

	return p
}

func removeIndex(s []Participant, i int) []Participant {
	return append(s[:i], s[i+1:]...)
}
