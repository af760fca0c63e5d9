package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"legisurprise/internal/election"
)

const standardHeader = "Code département,département,circonscription,Inscrits,Votants,Exprimés"

func writeCSV(t *testing.T, dir string, year int, round election.Round, lines ...string) {
	t.Helper()
	path := Path(dir, DefaultPattern, year, round)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
}

func newTestLoader(dir string, opts ...Option) *Loader {
	return New(append([]Option{WithDataDir(dir), WithLogger(zap.NewNop())}, opts...)...)
}

func TestPath(t *testing.T) {
	got := Path("data", DefaultPattern, 1958, election.Round2)
	assert.Equal(t, filepath.Join("data", "cdsp_legi1958t2_circ.csv"), got)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("standard")
	require.NoError(t, err)
	assert.Equal(t, ModeStandard, m)

	m, err = ParseMode(" Compact ")
	require.NoError(t, err)
	assert.Equal(t, ModeCompact, m)

	_, err = ParseMode("wide")
	assert.True(t, errors.Is(err, ErrUnknownMode))
}

func TestLoad_StandardReconcilesRounds(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, 1958, election.Round1,
		standardHeader+",A,B,C",
		"01,Ain,1,20000,9500,9000,5000,3000,1000",
		",,,,,,,,",
		"02,Aisne,1,20000,13000,12900,5000,4000,3900",
	)
	writeCSV(t, dir, 1958, election.Round2,
		standardHeader+",A,B,C",
		"01,Ain,1,20000,10100,10000,4000,6000,",
		"02,Aisne,1,20000,9200,9100,100,,9000",
	)

	set, err := newTestLoader(dir).Load(1958, ModeStandard)
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())

	ain, err := set.Lookup(election.Key{LocalityCode: "01", Number: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, ain.Names())
	assert.True(t, ain.HasRound2)

	c, err := ain.Candidate("C")
	require.NoError(t, err)
	assert.Equal(t, 1000, c.VotesRound1)
	assert.Equal(t, 0, c.VotesRound2, "eliminated candidate keeps zero round-2 votes")

	b, err := ain.Candidate("B")
	require.NoError(t, err)
	assert.Equal(t, 6000, b.VotesRound2)

	aisne, err := set.Lookup(election.Key{LocalityCode: "02", Number: 1})
	require.NoError(t, err)
	b, err = aisne.Candidate("B")
	require.NoError(t, err)
	assert.Equal(t, 4000, b.VotesRound1)
	assert.Equal(t, 0, b.VotesRound2)
}

func TestLoad_EmptyVoteCellDefaultsToZero(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, 1958, election.Round1,
		standardHeader+",A,B",
		"03,Allier,2,100,90,80,80,",
	)
	writeCSV(t, dir, 1958, election.Round2, standardHeader+",A,B")

	set, err := newTestLoader(dir).Load(1958, ModeStandard)
	require.NoError(t, err)
	c, err := set.Lookup(election.Key{LocalityCode: "03", Number: 2})
	require.NoError(t, err)
	b, err := c.Candidate("B")
	require.NoError(t, err)
	assert.Equal(t, 0, b.VotesRound1)
	assert.False(t, c.HasRound2)
}

func TestLoad_MissingFile(t *testing.T) {
	dir := t.TempDir()

	_, err := newTestLoader(dir).Load(1958, ModeStandard)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingFile))
	assert.Contains(t, err.Error(), "cdsp_legi1958t1_circ.csv")

	writeCSV(t, dir, 1958, election.Round1, standardHeader+",A", "01,Ain,1,1,1,1,1")
	_, err = newTestLoader(dir).Load(1958, ModeStandard)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingFile))
	assert.Contains(t, err.Error(), "cdsp_legi1958t2_circ.csv")
}

func TestLoad_ConstituencyNotFound(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, 1958, election.Round1, standardHeader+",A", "01,Ain,1,1,1,1,1")
	writeCSV(t, dir, 1958, election.Round2, standardHeader+",A", "01,Ain,2,1,1,1,1")

	_, err := newTestLoader(dir).Load(1958, ModeStandard)
	require.Error(t, err)
	assert.True(t, errors.Is(err, election.ErrConstituencyNotFound))

	var notFound *election.ConstituencyNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, election.Key{LocalityCode: "01", Number: 2}, notFound.Key)
}

func TestLoad_CandidateNotFoundListsRoster(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, 1958, election.Round1, standardHeader+",A,B", "01,Ain,1,1,1,1,10,20")
	writeCSV(t, dir, 1958, election.Round2, standardHeader+",A,Z", "01,Ain,1,1,1,1,10,20")

	_, err := newTestLoader(dir).Load(1958, ModeStandard)
	require.Error(t, err)
	assert.True(t, errors.Is(err, election.ErrCandidateNotFound))
	assert.Contains(t, err.Error(), `"Z"`)
	assert.Contains(t, err.Error(), "A, B")
}

func TestLoad_UnknownRoundTwoHeaderWithEmptyCell(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, 1958, election.Round1, standardHeader+",A,B", "01,Ain,1,1,1,1,10,20")
	writeCSV(t, dir, 1958, election.Round2, standardHeader+",A,Z", "01,Ain,1,1,1,1,10,")

	_, err := newTestLoader(dir).Load(1958, ModeStandard)
	require.Error(t, err)
	assert.True(t, errors.Is(err, election.ErrCandidateNotFound))
	assert.Contains(t, err.Error(), `"Z"`)
}

func TestLoadRound1_IgnoresRoundTwoFile(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, 1958, election.Round1, standardHeader+",A,B", "01,Ain,1,1,1,1,10,20")

	set, err := newTestLoader(dir).LoadRound1(1958, ModeStandard)
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())

	c, err := set.Lookup(election.Key{LocalityCode: "01", Number: 1})
	require.NoError(t, err)
	assert.False(t, c.HasRound2)
	assert.Equal(t, []string{"A", "B"}, c.Names())

	_, err = newTestLoader(t.TempDir()).LoadRound1(1958, ModeStandard)
	assert.True(t, errors.Is(err, ErrMissingFile))
}

func TestLoad_DuplicateConstituencyRejected(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, 1958, election.Round1,
		standardHeader+",A",
		"01,Ain,1,1,1,1,1",
		"01,Ain,1,1,1,1,2",
	)
	writeCSV(t, dir, 1958, election.Round2, standardHeader+",A")

	_, err := newTestLoader(dir).Load(1958, ModeStandard)
	require.Error(t, err)
	assert.True(t, errors.Is(err, election.ErrDuplicateConstituency))
	assert.Contains(t, err.Error(), "line 3")
}

func TestLoad_InvalidCells(t *testing.T) {
	tests := []struct {
		name   string
		row    string
		column string
	}{
		{"constituency number", "01,Ain,first,1,1,1,1", HeaderNumber},
		{"vote count", "01,Ain,1,1,1,1,many", "A"},
		{"negative vote count", "01,Ain,1,1,1,1,-4", "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeCSV(t, dir, 1958, election.Round1, standardHeader+",A", tt.row)

			_, err := newTestLoader(dir).ReadRound(1958, election.Round1, ModeStandard)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRow))

			var rowErr *RowError
			require.True(t, errors.As(err, &rowErr))
			assert.Equal(t, 2, rowErr.Line)
			assert.Equal(t, tt.column, rowErr.Column)
		})
	}
}

func TestReadRound_MissingKeyColumn(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, 1958, election.Round1, "département,circonscription,A", "Ain,1,1")

	_, err := newTestLoader(dir).ReadRound(1958, election.Round1, ModeStandard)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))
}

func TestReadRound_ThousandsSeparators(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, 1958, election.Round1,
		standardHeader+",A,B",
		"01,Ain,1,1,1,1,\"12 345\",\"6 789\"",
	)

	records, err := newTestLoader(dir).ReadRound(1958, election.Round1, ModeStandard)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []Vote{
		{Name: "A", Count: 12345, Present: true},
		{Name: "B", Count: 6789, Present: true},
	}, records[0].Votes)
}

func TestReadRound_CompactStopsAtFirstEmptyLabel(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, 1962, election.Round1,
		"Code département,circonscription,1 label,1 votes,2 label,2 votes,3 label,3 votes",
		"01,1,A,500,B,300,C,100",
		"01,2,D,700,,,F,50",
		"01,3,,,G,1,H,2",
	)

	records, err := newTestLoader(dir).ReadRound(1962, election.Round1, ModeCompact)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []Vote{
		{Name: "A", Count: 500, Present: true},
		{Name: "B", Count: 300, Present: true},
		{Name: "C", Count: 100, Present: true},
	}, records[0].Votes)
	assert.Equal(t, []Vote{{Name: "D", Count: 700, Present: true}}, records[1].Votes)
	assert.Empty(t, records[2].Votes)
}

func TestReadRound_CompactSlotsOption(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, 1962, election.Round1,
		"Code département,circonscription,1 label,1 votes,2 label,2 votes,3 label,3 votes",
		"01,1,A,500,B,300,C,100",
	)

	records, err := newTestLoader(dir, WithCompactSlots(2)).ReadRound(1962, election.Round1, ModeCompact)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Len(t, records[0].Votes, 2)
}

func TestLoad_CompactRoundTwo(t *testing.T) {
	dir := t.TempDir()
	header := "Code département,circonscription,1 label,1 votes,2 label,2 votes,3 label,3 votes"
	writeCSV(t, dir, 1962, election.Round1, header, "2A,1,A,500,B,300,C,100")
	writeCSV(t, dir, 1962, election.Round2, header, "2A,1,C,900,A,400,,")

	set, err := newTestLoader(dir).Load(1962, ModeCompact)
	require.NoError(t, err)
	c, err := set.Lookup(election.Key{LocalityCode: "2A", Number: 1})
	require.NoError(t, err)

	got := map[string]int{}
	for _, cand := range c.Candidates {
		got[cand.Name] = cand.VotesRound2
	}
	assert.Equal(t, map[string]int{"A": 400, "B": 0, "C": 900}, got)
}

func TestReadRound_Latin1(t *testing.T) {
	dir := t.TempDir()
	content := standardHeader + ",Lefèvre\n01,Ain,1,1,1,1,42\n"
	encoded, err := charmap.ISO8859_1.NewEncoder().String(content)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(Path(dir, DefaultPattern, 1958, election.Round1), []byte(encoded), 0644))

	records, err := newTestLoader(dir, WithEncoding("latin1")).ReadRound(1958, election.Round1, ModeStandard)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Lefèvre", records[0].Votes[0].Name)
}

func TestReadRound_UTF8BOM(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, 1958, election.Round1, "\ufeff"+standardHeader+",A", "01,Ain,1,1,1,1,7")

	records, err := newTestLoader(dir).ReadRound(1958, election.Round1, ModeStandard)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "01", records[0].Key.LocalityCode)
}

func TestReadRound_Semicolon(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, 1958, election.Round1,
		strings.ReplaceAll(standardHeader, ",", ";")+";A",
		"01;Ain;1;1;1;1;7",
	)

	records, err := newTestLoader(dir, WithDelimiter(';')).ReadRound(1958, election.Round1, ModeStandard)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 7, records[0].Votes[0].Count)
}

func TestReadRound_UnknownEncoding(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, 1958, election.Round1, standardHeader+",A")

	_, err := newTestLoader(dir, WithEncoding("ebcdic")).ReadRound(1958, election.Round1, ModeStandard)
	assert.True(t, errors.Is(err, ErrUnknownEncoding))
}
