/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package championship implements a simulated Swiss-system chess championship
// in which a single human plays against a synthetic field. Every function is a
// pure transform: a State goes in, a new State comes out, and the input is
// never modified.
package championship

import (
	"errors"
	"math/rand"
	"time"
)

const (
	DefaultTotalRounds  = 7
	DefaultTotalPlayers = 40
)

var (
	ErrOddField       = errors.New("championship requires an even number of participants")
	ErrCompleted      = errors.New("championship is already completed")
	ErrNoPairings     = errors.New("no pairings exist for the current round")
	ErrNoHumanPairing = errors.New("human participant is not paired in the current round")
	ErrInvalidResult  = errors.New("invalid human result")
	ErrInvalidConfig  = errors.New("invalid championship configuration")
	ErrInvalidProfile = errors.New("invalid human profile")
)

// Outcome is the recorded result of a pairing from the first (white) side's
// point of view. The zero value means the game has not been decided.
type Outcome string

const (
	NoResult   Outcome = ""
	FirstWins  Outcome = "1-0"
	SecondWins Outcome = "0-1"
	Draw       Outcome = "1/2-1/2"
)

func (o Outcome) Decided() bool {
	return o == FirstWins || o == SecondWins || o == Draw
}

// HumanResult is a game result reported from the human's perspective.
type HumanResult string

const (
	HumanWin  HumanResult = "win"
	HumanLoss HumanResult = "loss"
	HumanDraw HumanResult = "draw"
)

func ParseHumanResult(s string) (HumanResult, error) {
	switch r := HumanResult(s); r {
	case HumanWin, HumanLoss, HumanDraw:
		return r, nil
	}
	return "", ErrInvalidResult
}

// Participant is one championship entrant.
type Participant struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Glyph    string  `json:"emoji"`
	Rating   int     `json:"elo"`
	IsHuman  bool    `json:"isUser"`
	Points   float64 `json:"points"`
	TieBreak float64 `json:"buchholz"`
	// ids of every participant this one has been paired against
	Opponents []string `json:"opponents"`
}

func (p *Participant) hasPlayed(id string) bool {
	for _, opp := range p.Opponents {
		if opp == id {
			return true
		}
	}
	return false
}

func (p *Participant) addOpponent(id string) {
	if id == p.ID || p.hasPlayed(id) {
		return
	}
	p.Opponents = append(p.Opponents, id)
}

// Pairing is a single scheduled (or completed) game.
type Pairing struct {
	Round    int     `json:"round"`
	Table    int     `json:"table"`
	FirstID  string  `json:"whiteId"`
	SecondID string  `json:"blackId"`
	Result   Outcome `json:"result,omitempty"`
}

func (p Pairing) Involves(id string) bool {
	return p.FirstID == id || p.SecondID == id
}

// OpponentOf returns the other side of the pairing, or "" if id does not play
// in it.
func (p Pairing) OpponentOf(id string) string {
	switch id {
	case p.FirstID:
		return p.SecondID
	case p.SecondID:
		return p.FirstID
	}
	return ""
}

// State is the full championship snapshot.
type State struct {
	SeasonID     string        `json:"seasonId"`
	CurrentRound int           `json:"currentRound"`
	TotalRounds  int           `json:"totalRounds"`
	Participants []Participant `json:"players"`
	Pairings     []Pairing     `json:"pairings"`
	HumanID      string        `json:"userId"`
	StartedAt    time.Time     `json:"-"`
	Completed    bool          `json:"completed"`
}

// Participant returns the participant with the given id.
func (s *State) Participant(id string) (Participant, bool) {
	for _, p := range s.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

func (s *State) participant(id string) *Participant {
	for i := range s.Participants {
		if s.Participants[i].ID == id {
			return &s.Participants[i]
		}
	}
	return nil
}

// Human returns the human participant.
func (s *State) Human() (Participant, bool) {
	return s.Participant(s.HumanID)
}

// RoundPairings returns the pairings of the given round in table order.
func (s *State) RoundPairings(round int) []Pairing {
	var ret []Pairing
	for _, p := range s.Pairings {
		if p.Round == round {
			ret = append(ret, p)
		}
	}
	return ret
}

func (s *State) hasRound(round int) bool {
	for _, p := range s.Pairings {
		if p.Round == round {
			return true
		}
	}
	return false
}

// clone returns a deep copy so that transforms never alias the caller's
// slices.
func (s State) clone() State {
	out := s
	out.Participants = make([]Participant, len(s.Participants))
	for i, p := range s.Participants {
		p.Opponents = append([]string{}, p.Opponents...)
		out.Participants[i] = p
	}
	out.Pairings = append([]Pairing{}, s.Pairings...)

	return out
}

// Profile identifies the human entering a championship.
type Profile struct {
	ID     string
	Name   string
	Rating int
}

// RandSource returns a uniformly distributed value in [0,1).
type RandSource func() float64

func (r RandSource) orDefault() RandSource {
	if r == nil {
		return rand.Float64
	}
	return r
}

// Config controls field generation. Zero values select the defaults.
type Config struct {
	TotalRounds  int
	TotalPlayers int
	Rand         RandSource
	Now          func() time.Time
}

func (c Config) withDefaults() Config {
	if c.TotalRounds == 0 {
		c.TotalRounds = DefaultTotalRounds
	}
	if c.TotalPlayers == 0 {
		c.TotalPlayers = DefaultTotalPlayers
	}
	c.Rand = c.Rand.orDefault()
	if c.Now == nil {
		c.Now = time.Now
	}

	return c
}
