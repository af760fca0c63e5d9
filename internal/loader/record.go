package loader

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"legisurprise/internal/election"
)

// Key columns present in both layouts.
const (
	HeaderLocality = "Code département"
	HeaderNumber   = "circonscription"
)

// Vote is one candidate cell of a row.
// Present is false when the cell was empty (Count is then 0).
type Vote struct {
	Name    string
	Count   int
	Present bool
}

// Record is one validated data line.
type Record struct {
	Line  int
	Key   election.Key
	Votes []Vote
}

// Parser turns raw CSV lines into Records for one layout.
type Parser struct {
	Mode          Mode
	CommonHeaders []string
	CompactSlots  int

	// Skipped counts lines dropped for an empty department code.
	Skipped int

	header  []string
	columns map[string]int
	common  map[string]bool
}

// SetHeader records the header line. It must be called before Parse.
func (p *Parser) SetHeader(header []string) error {
	p.header = make([]string, len(header))
	p.columns = make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		p.header[i] = h
		if _, dup := p.columns[h]; !dup {
			p.columns[h] = i
		}
	}

	for _, required := range []string{HeaderLocality, HeaderNumber} {
		if _, ok := p.columns[required]; !ok {
			return fmt.Errorf("%w: %q", ErrMissingColumn, required)
		}
	}

	p.common = make(map[string]bool, len(p.CommonHeaders)+2)
	for _, h := range p.CommonHeaders {
		p.common[h] = true
	}
	p.common[HeaderLocality] = true
	p.common[HeaderNumber] = true
	return nil
}

// Parse converts one data line. ok is false for lines without a department
// code, which are skipped.
func (p *Parser) Parse(line int, fields []string) (rec Record, ok bool, err error) {
	locality := p.cell(fields, p.columns[HeaderLocality])
	if locality == "" {
		p.Skipped++
		return Record{}, false, nil
	}

	rawNumber := p.cell(fields, p.columns[HeaderNumber])
	number, err := strconv.Atoi(rawNumber)
	if err != nil {
		return Record{}, false, &RowError{Line: line, Column: HeaderNumber, Value: rawNumber, Err: err}
	}

	rec = Record{
		Line: line,
		Key:  election.Key{LocalityCode: locality, Number: number},
	}

	switch p.Mode {
	case ModeCompact:
		rec.Votes, err = p.compactVotes(line, fields)
	default:
		rec.Votes, err = p.standardVotes(line, fields)
	}
	if err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

func (p *Parser) standardVotes(line int, fields []string) ([]Vote, error) {
	var votes []Vote
	for i, name := range p.header {
		if p.common[name] || name == "" {
			continue
		}
		raw := p.cell(fields, i)
		count, err := parseCount(raw)
		if err != nil {
			return nil, &RowError{Line: line, Column: name, Value: raw, Err: err}
		}
		votes = append(votes, Vote{Name: name, Count: count, Present: raw != ""})
	}
	return votes, nil
}

// compactVotes reads "{i} label" / "{i} votes" pairs until the first empty label.
func (p *Parser) compactVotes(line int, fields []string) ([]Vote, error) {
	var votes []Vote
	for i := 1; i <= p.CompactSlots; i++ {
		labelCol := fmt.Sprintf("%d label", i)
		votesCol := fmt.Sprintf("%d votes", i)

		labelIdx, ok := p.columns[labelCol]
		if !ok {
			break
		}
		label := p.cell(fields, labelIdx)
		if label == "" {
			break
		}

		raw := ""
		if votesIdx, ok := p.columns[votesCol]; ok {
			raw = p.cell(fields, votesIdx)
		}
		count, err := parseCount(raw)
		if err != nil {
			return nil, &RowError{Line: line, Column: votesCol, Value: raw, Err: err}
		}
		votes = append(votes, Vote{Name: label, Count: count, Present: true})
	}
	return votes, nil
}

func (p *Parser) cell(fields []string, idx int) string {
	if idx < 0 || idx >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[idx])
}

// parseCount reads a vote tally. Empty means 0; digit group separators
// ("12 345", NBSP) are ignored.
func parseCount(raw string) (int, error) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	if digits == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative vote count %d", n)
	}
	return n, nil
}
