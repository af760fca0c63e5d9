package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"legisurprise/internal/election"
)

// Path returns the CSV path for year and round. pattern uses {year} and {round}.
func Path(dataDir, pattern string, year int, round election.Round) string {
	name := strings.NewReplacer(
		"{year}", strconv.Itoa(year),
		"{round}", strconv.Itoa(int(round)),
	).Replace(pattern)
	return filepath.Join(dataDir, name)
}

// decoder returns the transformer converting the named encoding to UTF-8.
func decoder(encoding string) (transform.Transformer, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		return unicode.BOMOverride(unicode.UTF8.NewDecoder()), nil
	case "latin1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, encoding)
	}
}

// readFile parses every data line of path. The file is closed on return.
func readFile(path, encoding string, delimiter rune, p *Parser) ([]Record, error) {
	dec, err := decoder(encoding)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := readRecords(transform.NewReader(f, dec), delimiter, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

func readRecords(r io.Reader, delimiter rune, p *Parser) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := p.SetHeader(header); err != nil {
		return nil, err
	}

	var records []Record
	for {
		fields, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)

		rec, ok, err := p.Parse(line, fields)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}
