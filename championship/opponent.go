/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package championship

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

const (
	minDifficulty = 1
	maxDifficulty = 10
)

// Opponent describes the human's next opponent in the form the game-playing
// engine consumes.
type Opponent struct {
	ID         string
	Name       string
	Glyph      string
	Rating     int
	Difficulty int
	Color      string
}

// HumanOpponent returns the participant the human faces in the given round.
func HumanOpponent(s State, round int) (Opponent, bool) {
	pairing, ok := HumanPairingForRound(s, round)
	if !ok {
		return Opponent{}, false
	}
	p, ok := s.Participant(pairing.OpponentOf(s.HumanID))
	if !ok {
		return Opponent{}, false
	}

	return ToOpponent(p), true
}

func ToOpponent(p Participant) Opponent {
	return Opponent{
		ID:         p.ID,
		Name:       p.Name,
		Glyph:      p.Glyph,
		Rating:     p.Rating,
		Difficulty: RatingToDifficulty(p.Rating),
		Color:      colorFromIndex(idNumber(p.ID)),
	}
}

// RatingToDifficulty maps a rating onto the engine's 1..10 difficulty scale,
// 100 -> 1 and 1500 -> 10.
func RatingToDifficulty(rating int) int {
	d := math.Round(float64(rating-100)/1400.0*9.0) + 1

	return int(clamp(d, minDifficulty, maxDifficulty))
}

func colorFromIndex(i int) string {
	return fmt.Sprintf("hsl(%d, 70%%, 50%%)", (i*37)%360)
}

// idNumber extracts the digits of an id such as "champ-bot-12", defaulting to
// 1 when there are none.
func idNumber(id string) int {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, id)
	n, err := strconv.Atoi(digits)
	if err != nil || n == 0 {
		return 1
	}

	return n
}
