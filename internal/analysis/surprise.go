package analysis

import (
	"errors"
	"math"

	"go.uber.org/zap"

	"legisurprise/internal/election"
	"legisurprise/internal/logging"
)

// ErrEmptyDataset is returned when a surprise rate is requested for zero constituencies.
var ErrEmptyDataset = errors.New("no constituencies loaded")

// Shift is the rank movement of one candidate between the two rounds.
type Shift struct {
	Candidate  *election.Candidate
	Round2Rank int
	Round1Rank int
}

// Summary aggregates the surprises of one year.
type Summary struct {
	Year      int
	Surprises []*election.Constituency
	Total     int
	Rate      float64 // percentage, one decimal
}

// IsSurprise reports whether the round-2 winner of c was not among the first
// two of round 1. Constituencies without candidates or without any round-2
// record are never surprises.
func IsSurprise(c *election.Constituency) bool {
	if len(c.Candidates) == 0 || !c.HasRound2 {
		return false
	}
	winner := RankRound2(c)[0]
	first := RankRound1(c)
	for i := 0; i < 2 && i < len(first); i++ {
		if first[i] == winner {
			return false
		}
	}
	return true
}

// FindSurprises returns the surprise constituencies of set in load order.
func FindSurprises(set *election.Set) []*election.Constituency {
	logger := logging.Get(logging.CategoryAnalysis)

	var surprises []*election.Constituency
	for _, c := range set.All() {
		if !c.HasRound2 {
			logger.Debug("decided in first round", zap.Stringer("constituency", c))
		}
		if IsSurprise(c) {
			surprises = append(surprises, c)
		}
	}
	return surprises
}

// Shifts lists up to limit candidates of c in round-2 order with their round-1 rank.
func Shifts(c *election.Constituency, limit int) []Shift {
	second := RankRound2(c)
	first := RankRound1(c)
	if limit > 0 && limit < len(second) {
		second = second[:limit]
	}

	shifts := make([]Shift, len(second))
	for i, cand := range second {
		shifts[i] = Shift{
			Candidate:  cand,
			Round2Rank: i + 1,
			Round1Rank: position(first, cand),
		}
	}
	return shifts
}

// SurpriseRate returns 100*surprises/total rounded to one decimal, halves to even.
func SurpriseRate(surprises, total int) (float64, error) {
	if total == 0 {
		return 0, ErrEmptyDataset
	}
	rate := 100 * float64(surprises) / float64(total)
	return math.RoundToEven(rate*10) / 10, nil
}

// Analyze finds the surprises of set and computes the rate.
func Analyze(set *election.Set) (*Summary, error) {
	surprises := FindSurprises(set)
	rate, err := SurpriseRate(len(surprises), set.Len())
	if err != nil {
		return nil, err
	}

	logging.Get(logging.CategoryAnalysis).Info("analyzed election year",
		zap.Int("year", set.Year),
		zap.Int("surprises", len(surprises)),
		zap.Int("constituencies", set.Len()),
		zap.Float64("rate", rate),
	)
	return &Summary{
		Year:      set.Year,
		Surprises: surprises,
		Total:     set.Len(),
		Rate:      rate,
	}, nil
}
