/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package championship

import (
	"fmt"
	"testing"
	"time"
)

// scripted returns a RandSource that replays vals in a loop.
func scripted(vals ...float64) RandSource {
	i := 0
	return func() float64 {
		v := vals[i%len(vals)]
		i++
		return v
	}
}

var fixedNow = time.Date(2026, time.March, 7, 10, 0, 0, 0, time.UTC)

func newField(t *testing.T, players, rounds int) State {
	t.Helper()
	s, err := GenerateField(Profile{ID: "me", Name: "Test Human", Rating: 1000},
		Config{
			TotalPlayers: players,
			TotalRounds:  rounds,
			Now:          func() time.Time { return fixedNow },
		})
	if err != nil {
		t.Fatalf("GenerateField returned error: %v", err)
	}
	return s
}

// manualState builds a championship from explicit ratings. The first rating
// belongs to the human "me", the rest to "p1", "p2", ...
func manualState(rounds int, ratings ...int) State {
	s := State{
		SeasonID:     "season-test",
		CurrentRound: 1,
		TotalRounds:  rounds,
		HumanID:      "me",
		StartedAt:    fixedNow,
		Pairings:     []Pairing{},
	}
	for i, r := range ratings {
		p := Participant{
			ID:        fmt.Sprintf("p%d", i),
			Name:      fmt.Sprintf("Player %d", i),
			Rating:    r,
			Opponents: []string{},
		}
		if i == 0 {
			p.ID = "me"
			p.IsHuman = true
		}
		s.Participants = append(s.Participants, p)
	}
	return s
}

func totalPoints(s State) float64 {
	sum := 0.0
	for _, p := range s.Participants {
		sum += p.Points
	}
	return sum
}

func decidedPairings(s State) int {
	n := 0
	for _, p := range s.Pairings {
		if p.Result.Decided() {
			n++
		}
	}
	return n
}

func mustParticipant(t *testing.T, s State, id string) Participant {
	t.Helper()
	p, ok := s.Participant(id)
	if !ok {
		t.Fatalf("participant %v not found", id)
	}
	return p
}

// checkRoundPairings verifies that every participant plays exactly once in the
// round, tables run 1..N/2, nobody plays themselves and the human has white.
func checkRoundPairings(t *testing.T, s State, round int) {
	t.Helper()
	list := s.RoundPairings(round)
	if len(list) != len(s.Participants)/2 {
		t.Fatalf("round %v: got %v pairings; want %v", round, len(list),
			len(s.Participants)/2)
	}
	seen := make(map[string]int)
	tables := make(map[int]bool)
	for _, p := range list {
		if p.FirstID == p.SecondID {
			t.Errorf("round %v table %v: %v paired with itself", round,
				p.Table, p.FirstID)
		}
		if p.SecondID == s.HumanID {
			t.Errorf("round %v table %v: human has black", round, p.Table)
		}
		seen[p.FirstID]++
		seen[p.SecondID]++
		tables[p.Table] = true
	}
	for _, p := range s.Participants {
		if seen[p.ID] != 1 {
			t.Errorf("round %v: %v appears %v times", round, p.ID, seen[p.ID])
		}
	}
	for tbl := 1; tbl <= len(list); tbl++ {
		if !tables[tbl] {
			t.Errorf("round %v: table %v missing", round, tbl)
		}
	}
}
