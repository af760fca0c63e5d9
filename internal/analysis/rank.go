// Package analysis ranks candidates per round and finds constituencies whose
// round-2 winner was outside the round-1 top two.
package analysis

import (
	"slices"

	"legisurprise/internal/election"
)

// Rank returns the candidates of c sorted by their round-r votes, highest
// first. Ties keep roster order. c itself is not reordered.
func Rank(c *election.Constituency, r election.Round) []*election.Candidate {
	ranked := slices.Clone(c.Candidates)
	slices.SortStableFunc(ranked, func(a, b *election.Candidate) int {
		return b.Votes(r) - a.Votes(r)
	})
	return ranked
}

// RankRound1 ranks c by first-round votes.
func RankRound1(c *election.Constituency) []*election.Candidate {
	return Rank(c, election.Round1)
}

// RankRound2 ranks c by second-round votes.
func RankRound2(c *election.Constituency) []*election.Candidate {
	return Rank(c, election.Round2)
}

// position returns the 1-based rank of cand in ranking, or 0 if absent.
func position(ranking []*election.Candidate, cand *election.Candidate) int {
	for i, other := range ranking {
		if other == cand {
			return i + 1
		}
	}
	return 0
}
