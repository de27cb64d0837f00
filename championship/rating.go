/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package championship

import "math"

const (
	baseDrawProbability = 0.08
	closeDrawBonus      = 0.06
	drawGapHorizon      = 600.0
	minDrawProbability  = 0.06
	maxDrawProbability  = 0.16
)

// ExpectedScore is the standard logistic expected score of a player rated a
// against a player rated b.
func ExpectedScore(a, b int) float64 {
	exp := math.Pow(10, float64(b-a)/400.0)
	return 1.0 / (exp + 1.0)
}

// DrawProbability grows from 8% toward 14% as the rating gap closes.
func DrawProbability(a, b int) float64 {
	gap := math.Abs(float64(a - b))
	closeness := 1 - clamp(gap/drawGapHorizon, 0, 1)
	return clamp(baseDrawProbability+closeness*closeDrawBonus,
		minDrawProbability, maxDrawProbability)
}

// SimulateOutcome decides a game between two synthetic participants. It must
// never be used for a game involving the human; those results come from
// whoever actually played the game.
func SimulateOutcome(first, second int, rnd RandSource) Outcome {
	rnd = rnd.orDefault()
	if rnd() < DrawProbability(first, second) {
		return Draw
	}
	if rnd() < ExpectedScore(first, second) {
		return FirstWins
	}
	return SecondWins
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
