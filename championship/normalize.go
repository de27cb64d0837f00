/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package championship

// Normalize repairs a snapshot that may have been written by an older version
// or partially filled in by hand. Missing collections become empty, opponent
// sets are deduplicated and completed from the pairings, and round counters
// are brought back into range.
// Standings are always recomputed.
func Normalize(s State) State {
	out := s.clone()

	if out.TotalRounds < 1 {
		out.TotalRounds = DefaultTotalRounds
	}
	if out.CurrentRound < 1 {
		out.CurrentRound = 1
	}
	if out.CurrentRound > out.TotalRounds {
		out.CurrentRound = out.TotalRounds
	}

	for i := range out.Participants {
		p := &out.Participants[i]
		opponents := p.Opponents
		p.Opponents = make([]string, 0, len(opponents))
		for _, id := range opponents {
			p.addOpponent(id)
		}
		if p.ID == out.HumanID {
			p.IsHuman = true
		}
	}

	for _, pairing := range out.Pairings {
		first := out.participant(pairing.FirstID)
		second := out.participant(pairing.SecondID)
		if first == nil || second == nil {
			continue
		}
		first.addOpponent(second.ID)
		second.addOpponent(first.ID)
	}

	return RecalculateStandings(out)
}
