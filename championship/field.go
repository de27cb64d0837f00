/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package championship

import (
	"fmt"
	"math"
	"strings"
)

const HumanGlyph = "🧑‍💻"

type tier struct {
	lo, hi int
	names  []string
	glyphs []string
}

var (
	beginnerTier = tier{
		lo: 100,
		hi: 499,
		names: []string{
			"Anxious Pupil", "Lost Pawn", "Clumsy King", "Scared Bishop",
			"Timid Rook", "Limping Knight", "Failed Gambit", "Forgotten Castle",
			"Rookie Check", "Chaotic Opening", "Distracted White",
			"Confused Black", "Accidental Capture",
		},
		glyphs: []string{"😅", "🐣", "🤓", "😬", "🐢", "😵", "🫣", "🙈", "🐥",
			"😟", "🤔", "😓", "🐌"},
	}
	clubTier = tier{
		lo: 500,
		hi: 899,
		names: []string{
			"Crafty Candidate", "Solid Player", "Stubborn Defence",
			"Patient Attack", "Passed Pawn", "Steady Middlegame",
			"Active Rooks", "Crossed Bishops", "Outposted Knight",
			"Basic Tactics", "Accepted Gambit", "Minor Sicilian",
			"Quiet French",
		},
		glyphs: []string{"🧐", "🤨", "🎯", "🔍", "🧩", "⚡", "🛡️", "⚔️", "🎲",
			"🔧", "🦊", "🐺", "🦉"},
	}
	expertTier = tier{
		lo: 900,
		hi: 1500,
		names: []string{
			"Relentless Master", "Grand Tactician", "Supreme Strategist",
			"Endgame King", "Brilliant Attack", "Deadly Combination",
			"Elegant Sacrifice", "Zugzwang Expert", "Deep Manoeuvre",
			"Sharp Variation", "Fierce Local", "Regional Champion",
			"Unstoppable Elite",
		},
		glyphs: []string{"🏆", "🦁", "👑", "🐉", "🔥", "🧠", "🦾", "🥷", "💎",
			"⚡", "🦅", "🌟", "💀"},
	}
)

const ratingJitter = 60.0

// GenerateField creates a new championship for the given human with a
// synthetic field spread over beginner, club and expert rating tiers.
func GenerateField(profile Profile, cfg Config) (State, error) {
	cfg = cfg.withDefaults()
	if strings.TrimSpace(profile.ID) == "" ||
		strings.TrimSpace(profile.Name) == "" {
		return State{}, fmt.Errorf("profile id:%q name:%q: %w", profile.ID,
			profile.Name, ErrInvalidProfile)
	}
	if cfg.TotalRounds < 1 {
		return State{}, fmt.Errorf("%v rounds: %w", cfg.TotalRounds,
			ErrInvalidConfig)
	}
	if cfg.TotalPlayers < 2 {
		return State{}, fmt.Errorf("%v players: %w", cfg.TotalPlayers,
			ErrInvalidConfig)
	}
	if cfg.TotalPlayers%2 != 0 {
		return State{}, fmt.Errorf("%v players: %w", cfg.TotalPlayers,
			ErrOddField)
	}

	now := cfg.Now()
	s := State{
		SeasonID:     fmt.Sprintf("season-%d", now.UnixMilli()),
		CurrentRound: 1,
		TotalRounds:  cfg.TotalRounds,
		HumanID:      profile.ID,
		StartedAt:    now,
		Pairings:     []Pairing{},
	}
	s.Participants = append(s.Participants, Participant{
		ID:        profile.ID,
		Name:      profile.Name,
		Glyph:     HumanGlyph,
		Rating:    profile.Rating,
		IsHuman:   true,
		Opponents: []string{},
	})

	for i, bot := range buildSyntheticField(cfg.TotalPlayers-1, cfg.Rand) {
		bot.ID = fmt.Sprintf("champ-bot-%d", i+1)
		if bot.ID == profile.ID {
			return State{}, fmt.Errorf("profile id %q is reserved: %w",
				profile.ID, ErrInvalidProfile)
		}
		s.Participants = append(s.Participants, bot)
	}

	return s, nil
}

// buildSyntheticField returns count participants: about 35% beginners, 35%
// club players and the remainder experts, shuffled.
func buildSyntheticField(count int, rnd RandSource) []Participant {
	nBeginner := int(math.Round(float64(count) * 0.35))
	nClub := int(math.Round(float64(count) * 0.35))
	nExpert := count - nBeginner - nClub

	bots := make([]Participant, 0, count)
	bots = beginnerTier.populate(bots, nBeginner, rnd)
	bots = clubTier.populate(bots, nClub, rnd)
	bots = expertTier.populate(bots, nExpert, rnd)

	for i := len(bots) - 1; i > 0; i-- {
		j := int(rnd() * float64(i+1))
		if j > i {
			j = i
		}
		bots[i], bots[j] = bots[j], bots[i]
	}

	return bots
}

// populate appends count participants whose ratings step evenly across the
// tier's band with a little jitter.
func (t tier) populate(bots []Participant, count int, rnd RandSource) []Participant {
	for i := 0; i < count; i++ {
		frac := 0.0
		if count > 1 {
			frac = float64(i) / float64(count-1)
		}
		base := float64(t.lo) + frac*float64(t.hi-t.lo)
		jitter := (rnd() - 0.5) * ratingJitter
		rating := math.Round(clamp(base+jitter, float64(t.lo), float64(t.hi)))

		bots = append(bots, Participant{
			Name:      t.names[i%len(t.names)],
			Glyph:     t.glyphs[i%len(t.glyphs)],
			Rating:    int(rating),
			Opponents: []string{},
		})
	}

	return bots
}
