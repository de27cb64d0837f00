/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package championship

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEnsureCurrentRoundPairingsCoverage(t *testing.T) {
	for _, players := range []int{2, 4, 10, 40} {
		s := newField(t, players, 5)
		for round := 1; round <= 5; round++ {
			var err error
			s, err = EnsureCurrentRoundPairings(s)
			if err != nil {
				t.Fatalf("%v players round %v: %v", players, round, err)
			}
			checkRoundPairings(t, s, round)
			s = SimulateRemainingMatches(s, nil)
			s, err = RecordHumanResult(s, HumanLoss)
			if err != nil {
				t.Fatalf("%v players round %v: %v", players, round, err)
			}
			s = AdvanceRound(s)
		}
		if !s.Completed {
			t.Errorf("%v players: championship not completed", players)
		}
	}
}

func TestEnsureCurrentRoundPairingsIdempotent(t *testing.T) {
	s := newField(t, 40, 7)
	first, err := EnsureCurrentRoundPairings(s)
	if err != nil {
		t.Fatalf("EnsureCurrentRoundPairings: %v", err)
	}
	second, err := EnsureCurrentRoundPairings(first)
	if err != nil {
		t.Fatalf("EnsureCurrentRoundPairings (again): %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second call changed state (-first +second):\n%s", diff)
	}
	if len(s.Pairings) != 0 {
		t.Errorf("input state gained %v pairings", len(s.Pairings))
	}
}

func TestEnsureCurrentRoundPairingsRecordsOpponents(t *testing.T) {
	s, err := EnsureCurrentRoundPairings(newField(t, 10, 3))
	if err != nil {
		t.Fatalf("EnsureCurrentRoundPairings: %v", err)
	}
	for _, pairing := range s.RoundPairings(1) {
		first := mustParticipant(t, s, pairing.FirstID)
		second := mustParticipant(t, s, pairing.SecondID)
		if !first.hasPlayed(second.ID) || !second.hasPlayed(first.ID) {
			t.Errorf("table %v: opponents not recorded on both sides",
				pairing.Table)
		}
		if first.hasPlayed(first.ID) {
			t.Errorf("%v lists itself as an opponent", first.ID)
		}
	}
}

func TestEnsureCurrentRoundPairingsPreconditions(t *testing.T) {
	odd := manualState(3, 1000, 900, 800)
	if _, err := EnsureCurrentRoundPairings(odd); !errors.Is(err, ErrOddField) {
		t.Errorf("odd field: got %v; want ErrOddField", err)
	}

	done := newField(t, 4, 1)
	done.Completed = true
	if _, err := EnsureCurrentRoundPairings(done); !errors.Is(err, ErrCompleted) {
		t.Errorf("completed: got %v; want ErrCompleted", err)
	}
}

func TestPairingColors(t *testing.T) {
	// all on zero points, so leaderboard order is by rating:
	// p1 p2 p3 p4 p5 me
	s := manualState(3, 100, 1500, 1400, 1300, 1200, 1100)
	s, err := EnsureCurrentRoundPairings(s)
	if err != nil {
		t.Fatalf("EnsureCurrentRoundPairings: %v", err)
	}

	want := []Pairing{
		{Round: 1, Table: 1, FirstID: "p1", SecondID: "p2"},
		{Round: 1, Table: 2, FirstID: "p4", SecondID: "p3"},
		{Round: 1, Table: 3, FirstID: "me", SecondID: "p5"},
	}
	if diff := cmp.Diff(want, s.Pairings); diff != "" {
		t.Errorf("pairings mismatch (-want +got):\n%s", diff)
	}
}

func TestPairingPrefersScoreGroup(t *testing.T) {
	// round 1: me beat p3 and p1 beat p2. In round 2 the winners must meet
	// even though p2 has exactly the human's rating.
	s := manualState(3, 1000, 100, 1000, 990)
	s.Participants[0].Opponents = []string{"p3"}
	s.Participants[1].Opponents = []string{"p2"}
	s.Participants[2].Opponents = []string{"p1"}
	s.Participants[3].Opponents = []string{"me"}
	s.Pairings = []Pairing{
		{Round: 1, Table: 1, FirstID: "me", SecondID: "p3", Result: FirstWins},
		{Round: 1, Table: 2, FirstID: "p1", SecondID: "p2", Result: FirstWins},
	}
	s.CurrentRound = 2
	s = RecalculateStandings(s)

	s, err := EnsureCurrentRoundPairings(s)
	if err != nil {
		t.Fatalf("EnsureCurrentRoundPairings: %v", err)
	}
	want := []Pairing{
		{Round: 2, Table: 1, FirstID: "me", SecondID: "p1"},
		{Round: 2, Table: 2, FirstID: "p3", SecondID: "p2"},
	}
	if diff := cmp.Diff(want, s.RoundPairings(2)); diff != "" {
		t.Errorf("round 2 pairings mismatch (-want +got):\n%s", diff)
	}
}

func TestPairingAvoidsRepeats(t *testing.T) {
	// everyone drew in round 1, so score groups can't separate anyone and
	// the human's closest-rated opponent p1 is a repeat
	s := manualState(3, 1000, 1000, 500, 400)
	s.Participants[0].Opponents = []string{"p1"}
	s.Participants[1].Opponents = []string{"me"}
	s.Participants[2].Opponents = []string{"p3"}
	s.Participants[3].Opponents = []string{"p2"}
	s.Pairings = []Pairing{
		{Round: 1, Table: 1, FirstID: "me", SecondID: "p1", Result: Draw},
		{Round: 1, Table: 2, FirstID: "p2", SecondID: "p3", Result: Draw},
	}
	s.CurrentRound = 2
	s = RecalculateStandings(s)

	s, err := EnsureCurrentRoundPairings(s)
	if err != nil {
		t.Fatalf("EnsureCurrentRoundPairings: %v", err)
	}
	for _, p := range s.RoundPairings(2) {
		if (p.FirstID == "me" && p.SecondID == "p1") ||
			(p.FirstID == "p1" && p.SecondID == "me") {
			t.Errorf("human re-paired with p1 although alternatives exist")
		}
		if (p.FirstID == "p2" && p.SecondID == "p3") ||
			(p.FirstID == "p3" && p.SecondID == "p2") {
			t.Errorf("p2 re-paired with p3 although alternatives exist")
		}
	}
}

func TestPairingAllowsForcedRepeats(t *testing.T) {
	s := manualState(3, 1000, 1200)
	for round := 1; round <= 3; round++ {
		var err error
		s, err = EnsureCurrentRoundPairings(s)
		if err != nil {
			t.Fatalf("round %v: %v", round, err)
		}
		checkRoundPairings(t, s, round)
		s, err = RecordHumanResult(s, HumanWin)
		if err != nil {
			t.Fatalf("round %v: %v", round, err)
		}
		s = AdvanceRound(s)
	}
	me := mustParticipant(t, s, "me")
	if diff := cmp.Diff([]string{"p1"}, me.Opponents); diff != "" {
		t.Errorf("opponent set is not deduplicated (-want +got):\n%s", diff)
	}
	if me.Points != 3 || me.TieBreak != 0 {
		t.Errorf("human points=%v tiebreak=%v; want 3 0", me.Points,
			me.TieBreak)
	}
}

func TestSmallFieldStress(t *testing.T) {
	// 4 players over 3 rounds can exhaust repeat-free options
	for i := 0; i < 50; i++ {
		s := newField(t, 4, 3)
		for round := 1; round <= 3; round++ {
			var err error
			s, err = PlayHumanRound(s, HumanDraw, nil)
			if err != nil {
				t.Fatalf("iteration %v round %v: %v", i, round, err)
			}
			checkRoundPairings(t, s, round)
		}
		if !s.Completed || s.CurrentRound != 3 {
			t.Fatalf("iteration %v: completed=%v round=%v", i, s.Completed,
				s.CurrentRound)
		}
	}
}
