// Package election holds the constituency and candidate model shared by the
// loader, the analyzer and the reporter.
package election

import (
	"fmt"
)

// Round identifies one of the two voting rounds.
type Round int

// The two rounds of a legislative election.
const (
	Round1 Round = 1 // first round, every registered candidate
	Round2 Round = 2 // run-off between the remaining candidates
)

// Candidate is one name on a constituency roster with its tallies for both rounds.
type Candidate struct {
	Name        string
	VotesRound1 int
	VotesRound2 int
}

// Votes returns the tally for the given round.
func (c *Candidate) Votes(r Round) int {
	if r == Round2 {
		return c.VotesRound2
	}
	return c.VotesRound1
}

// Key identifies a constituency within one election year. LocalityCode is kept
// as a string so "01" and "2A" survive untouched.
type Key struct {
	LocalityCode string
	Number       int
}

func (k Key) String() string {
	return fmt.Sprintf("%s-%d", k.LocalityCode, k.Number)
}

// Constituency is the result of one constituency election across both rounds.
// Candidates keep their first-seen round-1 order.
type Constituency struct {
	Year       int
	Key        Key
	Candidates []*Candidate
	HasRound2  bool

	byName map[string]*Candidate
}

// NewConstituency returns an empty constituency for year and key.
func NewConstituency(year int, key Key) *Constituency {
	return &Constituency{
		Year:   year,
		Key:    key,
		byName: make(map[string]*Candidate),
	}
}

// AddCandidate appends a candidate with its round-1 tally.
func (c *Constituency) AddCandidate(name string, votes int) (*Candidate, error) {
	if _, exists := c.byName[name]; exists {
		return nil, fmt.Errorf("%w: %q in %s", ErrDuplicateCandidate, name, c)
	}
	cand := &Candidate{Name: name, VotesRound1: votes}
	c.Candidates = append(c.Candidates, cand)
	c.byName[name] = cand
	return cand, nil
}

// Candidate finds a candidate by exact name.
func (c *Constituency) Candidate(name string) (*Candidate, error) {
	if cand, ok := c.byName[name]; ok {
		return cand, nil
	}
	return nil, &CandidateNotFoundError{
		Constituency: c.String(),
		Name:         name,
		Available:    c.Names(),
	}
}

// Names returns candidate names in roster order.
func (c *Constituency) Names() []string {
	names := make([]string, len(c.Candidates))
	for i, cand := range c.Candidates {
		names[i] = cand.Name
	}
	return names
}

func (c *Constituency) String() string {
	return fmt.Sprintf("%d - %s - %d", c.Year, c.Key.LocalityCode, c.Key.Number)
}

// Set is every constituency loaded for one year. Iteration follows load order.
type Set struct {
	Year int

	order []*Constituency
	byKey map[Key]*Constituency
}

// NewSet returns an empty set for year.
func NewSet(year int) *Set {
	return &Set{
		Year:  year,
		byKey: make(map[Key]*Constituency),
	}
}

// Add registers c. A second constituency with the same key is rejected.
func (s *Set) Add(c *Constituency) error {
	if _, exists := s.byKey[c.Key]; exists {
		return fmt.Errorf("%w: %s in %d", ErrDuplicateConstituency, c.Key, s.Year)
	}
	s.byKey[c.Key] = c
	s.order = append(s.order, c)
	return nil
}

// Lookup returns the constituency registered under key.
func (s *Set) Lookup(key Key) (*Constituency, error) {
	if c, ok := s.byKey[key]; ok {
		return c, nil
	}
	return nil, &ConstituencyNotFoundError{Year: s.Year, Key: key}
}

// All returns constituencies in load order.
func (s *Set) All() []*Constituency {
	out := make([]*Constituency, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of constituencies.
func (s *Set) Len() int {
	return len(s.order)
}
