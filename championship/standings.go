/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package championship

import "sort"

// RecalculateStandings recomputes every participant's points and Buchholz
// tie-break from scratch using all decided pairings.
func RecalculateStandings(s State) State {
	out := s.clone()

	idx := make(map[string]int, len(out.Participants))
	for i := range out.Participants {
		out.Participants[i].Points = 0
		out.Participants[i].TieBreak = 0
		idx[out.Participants[i].ID] = i
	}

	for _, pairing := range out.Pairings {
		if !pairing.Result.Decided() {
			continue
		}
		first, okFirst := idx[pairing.FirstID]
		second, okSecond := idx[pairing.SecondID]
		if !okFirst || !okSecond {
			continue
		}
		switch pairing.Result {
		case FirstWins:
			out.Participants[first].Points += 1
		case SecondWins:
			out.Participants[second].Points += 1
		case Draw:
			out.Participants[first].Points += 0.5
			out.Participants[second].Points += 0.5
		}
	}

	// Buchholz counts every opponent ever paired, decided or not
	for i := range out.Participants {
		sum := 0.0
		for _, oppID := range out.Participants[i].Opponents {
			if j, ok := idx[oppID]; ok {
				sum += out.Participants[j].Points
			}
		}
		out.Participants[i].TieBreak = sum
	}

	return out
}

// ranksAbove is the leaderboard order: points, then tie-break, then rating.
func ranksAbove(a, b *Participant) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.TieBreak != b.TieBreak {
		return a.TieBreak > b.TieBreak
	}
	return a.Rating > b.Rating
}

func sortByRank(players []Participant) {
	sort.SliceStable(players, func(i, j int) bool {
		return ranksAbove(&players[i], &players[j])
	})
}

// RankParticipants returns a copy of the participants in leaderboard order.
// Participants equal on every key keep their snapshot order.
func RankParticipants(s State) []Participant {
	ranked := s.clone().Participants
	sortByRank(ranked)

	return ranked
}

// Position returns the 1-based leaderboard place of id, or 0 if id is not a
// participant.
func Position(s State, id string) int {
	for i, p := range RankParticipants(s) {
		if p.ID == id {
			return i + 1
		}
	}
	return 0
}
