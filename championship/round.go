/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package championship

import (
	"fmt"
)

// HumanPairingForRound returns the human's pairing in the given round.
func HumanPairingForRound(s State, round int) (Pairing, bool) {
	for _, p := range s.Pairings {
		if p.Round == round && p.Involves(s.HumanID) {
			return p, true
		}
	}
	return Pairing{}, false
}

// RecordHumanResult stores the human's result for the current round. If that
// game already has a result the state is returned unchanged.
func RecordHumanResult(s State, result HumanResult) (State, error) {
	if _, err := ParseHumanResult(string(result)); err != nil {
		return s, fmt.Errorf("unable to record %q: %w", result, err)
	}
	if !s.hasRound(s.CurrentRound) {
		return s, fmt.Errorf("unable to record round %v result: %w",
			s.CurrentRound, ErrNoPairings)
	}

	out := s.clone()
	for i := range out.Pairings {
		p := &out.Pairings[i]
		if p.Round != out.CurrentRound || !p.Involves(out.HumanID) {
			continue
		}
		if p.Result.Decided() {
			return s, nil
		}
		p.Result = humanOutcome(result, p.FirstID == out.HumanID)

		return RecalculateStandings(out), nil
	}

	return s, fmt.Errorf("unable to record round %v result for %v: %w",
		s.CurrentRound, s.HumanID, ErrNoHumanPairing)
}

// humanOutcome maps a result from the human's perspective onto the pairing.
// Pairings always seat the human as white, but snapshots written by older
// versions may not.
func humanOutcome(result HumanResult, humanIsFirst bool) Outcome {
	switch result {
	case HumanDraw:
		return Draw
	case HumanWin:
		if humanIsFirst {
			return FirstWins
		}
		return SecondWins
	default:
		if humanIsFirst {
			return SecondWins
		}
		return FirstWins
	}
}

// SimulateRemainingMatches decides every undecided game of the current round
// that does not involve the human.
func SimulateRemainingMatches(s State, rnd RandSource) State {
	rnd = rnd.orDefault()
	out := s.clone()

	simulated := 0
	for i := range out.Pairings {
		p := &out.Pairings[i]
		if p.Round != out.CurrentRound || p.Result.Decided() ||
			p.Involves(out.HumanID) {
			continue
		}
		first, okFirst := out.Participant(p.FirstID)
		second, okSecond := out.Participant(p.SecondID)
		if !okFirst || !okSecond {
			continue
		}
		p.Result = SimulateOutcome(first.Rating, second.Rating, rnd)
		simulated++
	}
	if simulated == 0 {
		return s
	}

	return RecalculateStandings(out)
}

// IsRoundComplete reports whether the current round has been paired and every
// game in it has a result.
func IsRoundComplete(s State) bool {
	found := false
	for _, p := range s.Pairings {
		if p.Round != s.CurrentRound {
			continue
		}
		if !p.Result.Decided() {
			return false
		}
		found = true
	}

	return found
}

// AdvanceRound moves to the next round once the current one is complete. After
// the final round the championship is marked completed and the round number
// stays put.
func AdvanceRound(s State) State {
	if s.Completed || !IsRoundComplete(s) {
		return s
	}

	out := s.clone()
	if out.CurrentRound >= out.TotalRounds {
		out.Completed = true
	} else {
		out.CurrentRound++
	}

	return out
}

// PlayHumanRound runs the whole round cycle for a human result: pair the round
// if needed, record the result, simulate the other games and advance. Calling
// it again for a round that already has the human's result changes nothing
// beyond finishing any step a previous call did not reach.
func PlayHumanRound(s State, result HumanResult, rnd RandSource) (State, error) {
	next, err := EnsureCurrentRoundPairings(s)
	if err != nil {
		return s, err
	}
	next, err = RecordHumanResult(next, result)
	if err != nil {
		return s, err
	}
	next = SimulateRemainingMatches(next, rnd)
	if IsRoundComplete(next) {
		next = AdvanceRound(next)
	}

	return next, nil
}
