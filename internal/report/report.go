// Package report renders analysis results as human-readable text.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"legisurprise/internal/analysis"
	"legisurprise/internal/election"
	"legisurprise/internal/logging"
)

// Styles used by the reporter. They degrade to plain text when the writer is
// not a terminal.
type Styles struct {
	Heading lipgloss.Style
	Rank    lipgloss.Style
	Name    lipgloss.Style
	Muted   lipgloss.Style
	Summary lipgloss.Style
}

// NewStyles resolves the reporter styles against r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Heading: r.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true),
		Rank: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true),
		Name: r.NewStyle(),
		Muted: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Summary: r.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
	}
}

// Reporter writes the surprise report to an io.Writer.
type Reporter struct {
	w      io.Writer
	styles Styles
	logger *zap.Logger
}

// New returns a Reporter writing to w.
func New(w io.Writer) *Reporter {
	return &Reporter{
		w:      w,
		styles: NewStyles(lipgloss.NewRenderer(w)),
		logger: logging.Get(logging.CategoryReport),
	}
}

// Surprise prints the identity of c followed by one line per shift.
func (r *Reporter) Surprise(c *election.Constituency, shifts []analysis.Shift) error {
	var b strings.Builder
	b.WriteString(r.styles.Heading.Render(c.String()))
	b.WriteByte('\n')
	for _, s := range shifts {
		fmt.Fprintf(&b, "  %s %s %s\n",
			r.styles.Rank.Render(fmt.Sprintf("#%d", s.Round2Rank)),
			r.styles.Name.Render(s.Candidate.Name),
			r.styles.Muted.Render(fmt.Sprintf("(was #%d)", s.Round1Rank)),
		)
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

// Summary prints the year totals.
func (r *Reporter) Summary(s *analysis.Summary) error {
	line := fmt.Sprintf("%d: %d surprises out of %d constituencies (%.1f%%)",
		s.Year, len(s.Surprises), s.Total, s.Rate)
	_, err := fmt.Fprintln(r.w, r.styles.Summary.Render(line))
	return err
}

// Report prints every surprise of s with up to top candidates, then the summary.
func (r *Reporter) Report(s *analysis.Summary, top int) error {
	for _, c := range s.Surprises {
		if err := r.Surprise(c, analysis.Shifts(c, top)); err != nil {
			return err
		}
	}
	if err := r.Summary(s); err != nil {
		return err
	}
	r.logger.Debug("rendered report",
		zap.Int("year", s.Year),
		zap.Int("surprises", len(s.Surprises)),
		zap.Int("top", top),
	)
	return nil
}

// Listing prints "{year} - {locality} - {number} : A | B | C" with the top
// round-1 candidates of c.
func (r *Reporter) Listing(c *election.Constituency, top int) error {
	ranked := analysis.RankRound1(c)
	if top > 0 && top < len(ranked) {
		ranked = ranked[:top]
	}
	names := make([]string, len(ranked))
	for i, cand := range ranked {
		names[i] = r.styles.Name.Render(cand.Name)
	}
	_, err := fmt.Fprintf(r.w, "%s : %s\n",
		r.styles.Heading.Render(c.String()),
		strings.Join(names, r.styles.Muted.Render(" | ")))
	return err
}
