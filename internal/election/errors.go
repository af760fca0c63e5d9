package election

import (
	"errors"
	"fmt"
	"strings"
)

// Lookup and integrity errors.
var (
	// ErrConstituencyNotFound is returned when a key has no round-1 constituency.
	ErrConstituencyNotFound = errors.New("constituency not found")

	// ErrCandidateNotFound is returned when a name is not on a constituency's roster.
	ErrCandidateNotFound = errors.New("candidate not found")

	// ErrDuplicateConstituency is returned when two round-1 rows share a key.
	ErrDuplicateConstituency = errors.New("duplicate constituency")

	// ErrDuplicateCandidate is returned when a name appears twice in one constituency.
	ErrDuplicateCandidate = errors.New("duplicate candidate")
)

// ConstituencyNotFoundError reports a round-2 key with no round-1 counterpart.
type ConstituencyNotFoundError struct {
	Year int
	Key  Key
}

func (e *ConstituencyNotFoundError) Error() string {
	return fmt.Sprintf("constituency %s not found in %d round-1 data", e.Key, e.Year)
}

// Is makes errors.Is(err, ErrConstituencyNotFound) hold.
func (e *ConstituencyNotFoundError) Is(target error) bool {
	return target == ErrConstituencyNotFound
}

// CandidateNotFoundError reports a round-2 name missing from the round-1 roster.
// Available holds every roster name in insertion order.
type CandidateNotFoundError struct {
	Constituency string
	Name         string
	Available    []string
}

func (e *CandidateNotFoundError) Error() string {
	return fmt.Sprintf("candidate %q not found in %s (available: %s)",
		e.Name, e.Constituency, strings.Join(e.Available, ", "))
}

// Is makes errors.Is(err, ErrCandidateNotFound) hold.
func (e *CandidateNotFoundError) Is(target error) bool {
	return target == ErrCandidateNotFound
}
