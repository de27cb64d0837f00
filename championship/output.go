/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package championship

import (
	"fmt"
	"strings"

	"github.com/mikeb26/swisschamp/internal"
)

// BuildPairingsOutput formats one round's pairings into an aligned table.
func BuildPairingsOutput(s State, round int) string {
	list := s.RoundPairings(round)
	var sb strings.Builder

	if len(list) == 0 {
		sb.WriteString(fmt.Sprintf("No pairings for round %v yet\n", round))
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("Round %v of %v pairings:\n\n", round,
		s.TotalRounds))

	type row struct{ table, white, black, result string }
	var rows []row
	for _, p := range list {
		r := row{
			table:  fmt.Sprintf("%d.", p.Table),
			white:  describeSide(&s, p.FirstID),
			black:  describeSide(&s, p.SecondID),
			result: resultToString(p.Result),
		}
		rows = append(rows, r)
	}

	// Compute column widths
	maxT, maxW, maxB := len("Table"), len("White"), len("Black")
	for _, r := range rows {
		if l := len([]rune(r.table)); l > maxT {
			maxT = l
		}
		if l := len([]rune(r.white)); l > maxW {
			maxW = l
		}
		if l := len([]rune(r.black)); l > maxB {
			maxB = l
		}
	}

	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %s\n", maxT, "Table", maxW,
		"White", maxB, "Black", "Result"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %s\n", maxT, r.table,
			maxW, r.white, maxB, r.black, r.result))
	}

	return sb.String()
}

// BuildStandingsOutput formats the leaderboard. A positive limit truncates
// the table but always keeps the human's row.
func BuildStandingsOutput(s State, limit int) string {
	ranked := RankParticipants(s)
	var sb strings.Builder

	if s.Completed {
		sb.WriteString(fmt.Sprintf("Final standings after %v rounds:\n\n",
			s.TotalRounds))
	} else {
		played := s.CurrentRound - 1
		if IsRoundComplete(s) {
			played = s.CurrentRound
		}
		sb.WriteString(fmt.Sprintf("Standings after %v of %v rounds:\n\n",
			played, s.TotalRounds))
	}

	type row struct{ place, name, rating, score, tieBreak string }
	var rows []row
	priorScore := -1.0
	for idx, p := range ranked {
		var place string
		if idx != 0 && p.Points == priorScore {
			place = ""
		} else {
			place = fmt.Sprintf("%v.", idx+1)
			priorScore = p.Points
		}
		if limit > 0 && idx >= limit && !p.IsHuman {
			continue
		}
		name := p.Name
		if p.IsHuman {
			name = "*" + name
		}
		rows = append(rows, row{
			place:    place,
			name:     name,
			rating:   fmt.Sprintf("%d", p.Rating),
			score:    internal.ScoreToString(p.Points),
			tieBreak: fmt.Sprintf("%.1f", p.TieBreak),
		})
	}

	// Compute column widths
	maxP, maxN, maxR, maxS := len("Place"), len("Name"), len("Rating"), len("Score")
	for _, r := range rows {
		if l := len([]rune(r.place)); l > maxP {
			maxP = l
		}
		if l := len([]rune(r.name)); l > maxN {
			maxN = l
		}
		if l := len([]rune(r.rating)); l > maxR {
			maxR = l
		}
		if l := len([]rune(r.score)); l > maxS {
			maxS = l
		}
	}

	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %s\n", maxP, "Place",
		maxN, "Name", maxR, "Rating", maxS, "Score", "Buchholz"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %s\n", maxP, r.place,
			maxN, r.name, maxR, r.rating, maxS, r.score, r.tieBreak))
	}

	return sb.String()
}

func describeSide(s *State, id string) string {
	p, ok := s.Participant(id)
	if !ok {
		return id
	}
	name := p.Name
	if p.IsHuman {
		name = "*" + name
	}

	return fmt.Sprintf("%s(%d %v)", name, p.Rating,
		internal.ScoreToString(p.Points))
}

func resultToString(o Outcome) string {
	switch o {
	case FirstWins:
		return "1-0"
	case SecondWins:
		return "0-1"
	case Draw:
		return "½-½"
	}
	return "-"
}
