// Package loader reads per-round CSV result files and builds the election set
// for a year, reconciling round-2 tallies into the round-1 rosters by name.
package loader

import (
	"fmt"

	"go.uber.org/zap"

	"legisurprise/internal/election"
	"legisurprise/internal/logging"
)

// Defaults used when no option overrides them.
const (
	DefaultDataDir      = "data"
	DefaultPattern      = "cdsp_legi{year}t{round}_circ.csv"
	DefaultCompactSlots = 3
)

// Loader reads the two round files of an election year.
type Loader struct {
	dataDir       string
	pattern       string
	encoding      string
	delimiter     rune
	commonHeaders []string
	compactSlots  int
	logger        *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithDataDir sets the directory holding the CSV files.
func WithDataDir(dir string) Option {
	return func(l *Loader) { l.dataDir = dir }
}

// WithPattern sets the file name pattern ({year}, {round}).
func WithPattern(pattern string) Option {
	return func(l *Loader) { l.pattern = pattern }
}

// WithEncoding sets the input encoding (utf-8, latin1, windows-1252).
func WithEncoding(encoding string) Option {
	return func(l *Loader) { l.encoding = encoding }
}

// WithDelimiter sets the CSV field delimiter.
func WithDelimiter(r rune) Option {
	return func(l *Loader) { l.delimiter = r }
}

// WithCommonHeaders sets the non-candidate columns of the standard layout.
func WithCommonHeaders(headers []string) Option {
	return func(l *Loader) { l.commonHeaders = append([]string(nil), headers...) }
}

// WithCompactSlots sets how many label/votes pairs the compact layout has.
func WithCompactSlots(n int) Option {
	return func(l *Loader) { l.compactSlots = n }
}

// WithLogger sets the logger. Defaults to the loader category logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// New returns a Loader with defaults applied before opts.
func New(opts ...Option) *Loader {
	l := &Loader{
		dataDir:       DefaultDataDir,
		pattern:       DefaultPattern,
		encoding:      "utf-8",
		delimiter:     ',',
		commonHeaders: defaultCommonHeaders(),
		compactSlots:  DefaultCompactSlots,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logging.Get(logging.CategoryLoader)
	}
	return l
}

func defaultCommonHeaders() []string {
	return []string{
		HeaderLocality,
		"département",
		HeaderNumber,
		"élu premier tour",
		"Inscrits",
		"Votants",
		"Exprimés",
		"Blancs et nuls",
		"Taux de participation",
	}
}

// ReadRound reads the file for year and round into typed records.
func (l *Loader) ReadRound(year int, round election.Round, mode Mode) ([]Record, error) {
	path := Path(l.dataDir, l.pattern, year, round)
	p := &Parser{
		Mode:          mode,
		CommonHeaders: l.commonHeaders,
		CompactSlots:  l.compactSlots,
	}

	records, err := readFile(path, l.encoding, l.delimiter, p)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("read round file",
		zap.String("path", path),
		zap.Int("round", int(round)),
		zap.Stringer("mode", mode),
		zap.Int("records", len(records)),
		zap.Int("skipped", p.Skipped),
	)
	return records, nil
}

// Load reads round 1 then round 2 of year and returns the reconciled set.
func (l *Loader) Load(year int, mode Mode) (*election.Set, error) {
	first, err := l.ReadRound(year, election.Round1, mode)
	if err != nil {
		return nil, fmt.Errorf("round 1: %w", err)
	}
	set, err := BuildRound1(year, first)
	if err != nil {
		return nil, fmt.Errorf("round 1: %w", err)
	}

	second, err := l.ReadRound(year, election.Round2, mode)
	if err != nil {
		return nil, fmt.Errorf("round 2: %w", err)
	}
	if err := ApplyRound2(set, second); err != nil {
		return nil, fmt.Errorf("round 2: %w", err)
	}

	l.logger.Info("loaded election year",
		zap.Int("year", year),
		zap.Int("constituencies", set.Len()),
		zap.Int("round2_records", len(second)),
	)
	return set, nil
}

// LoadRound1 reads only the round-1 file of year. Constituencies carry their
// round-1 roster and HasRound2 == false.
func (l *Loader) LoadRound1(year int, mode Mode) (*election.Set, error) {
	records, err := l.ReadRound(year, election.Round1, mode)
	if err != nil {
		return nil, fmt.Errorf("round 1: %w", err)
	}
	set, err := BuildRound1(year, records)
	if err != nil {
		return nil, fmt.Errorf("round 1: %w", err)
	}
	return set, nil
}

// BuildRound1 creates one constituency per record with its round-1 roster.
func BuildRound1(year int, records []Record) (*election.Set, error) {
	set := election.NewSet(year)
	for _, rec := range records {
		c := election.NewConstituency(year, rec.Key)
		for _, v := range rec.Votes {
			if _, err := c.AddCandidate(v.Name, v.Count); err != nil {
				return nil, fmt.Errorf("line %d: %w", rec.Line, err)
			}
		}
		if err := set.Add(c); err != nil {
			return nil, fmt.Errorf("line %d: %w", rec.Line, err)
		}
	}
	return set, nil
}

// ApplyRound2 merges round-2 tallies into set. Every candidate column must
// name a round-1 candidate, even when its cell is empty. Empty cells leave
// VotesRound2 at 0 for eliminated candidates. Unknown constituencies and
// candidates are hard failures.
func ApplyRound2(set *election.Set, records []Record) error {
	for _, rec := range records {
		c, err := set.Lookup(rec.Key)
		if err != nil {
			return fmt.Errorf("line %d: %w", rec.Line, err)
		}
		for _, v := range rec.Votes {
			cand, err := c.Candidate(v.Name)
			if err != nil {
				return fmt.Errorf("line %d: %w", rec.Line, err)
			}
			if v.Present {
				cand.VotesRound2 = v.Count
			}
		}
		c.HasRound2 = true
	}
	return nil
}
