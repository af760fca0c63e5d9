// Package transparency turns pipeline failures into user-facing messages
// with remediation hints.
package transparency

import (
	"errors"
	"fmt"
	"strings"

	"legisurprise/internal/analysis"
	"legisurprise/internal/config"
	"legisurprise/internal/election"
	"legisurprise/internal/loader"
)

// ErrorCategory classifies errors for user guidance.
type ErrorCategory int

const (
	// ErrorCategoryConfig indicates a configuration issue.
	ErrorCategoryConfig ErrorCategory = iota

	// ErrorCategoryFilesystem indicates a missing or unreadable input file.
	ErrorCategoryFilesystem

	// ErrorCategoryFormat indicates a CSV that does not match the expected layout.
	ErrorCategoryFormat

	// ErrorCategoryConsistency indicates round files that do not agree.
	ErrorCategoryConsistency

	// ErrorCategoryEmpty indicates a year with no constituencies.
	ErrorCategoryEmpty

	// ErrorCategoryUnknown is the fallback for unclassified errors.
	ErrorCategoryUnknown
)

// Prefix returns the display prefix for this error category.
func (c ErrorCategory) Prefix() string {
	prefixes := []string{
		"[CONFIG]",
		"[FS]",
		"[FORMAT]",
		"[DATA]",
		"[EMPTY]",
		"[ERROR]",
	}
	if int(c) < len(prefixes) {
		return prefixes[c]
	}
	return "[ERROR]"
}

// String returns the category name.
func (c ErrorCategory) String() string {
	names := []string{
		"config",
		"filesystem",
		"format",
		"consistency",
		"empty",
		"unknown",
	}
	if int(c) < len(names) {
		return names[c]
	}
	return "unknown"
}

// ClassifiedError wraps an error with classification and remediation.
type ClassifiedError struct {
	Original    error
	Category    ErrorCategory
	Summary     string
	Remediation []string
}

// Error implements the error interface.
func (ce *ClassifiedError) Error() string {
	return ce.Format()
}

// Unwrap returns the original error for errors.Is/As compatibility.
func (ce *ClassifiedError) Unwrap() error {
	return ce.Original
}

// Format returns a user-friendly error message with remediation.
func (ce *ClassifiedError) Format() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s %s\n", ce.Category.Prefix(), ce.Summary))
	sb.WriteString(fmt.Sprintf("Details: %s\n", ce.Original.Error()))

	if len(ce.Remediation) > 0 {
		sb.WriteString("Suggested fixes:\n")
		for _, r := range ce.Remediation {
			sb.WriteString(fmt.Sprintf("  - %s\n", r))
		}
	}

	return sb.String()
}

// ClassifyError maps err onto a category using the sentinel errors of the
// config, loader, election and analysis packages.
func ClassifyError(err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	classified := &ClassifiedError{
		Original: err,
		Category: ErrorCategoryUnknown,
		Summary:  "An unexpected error occurred",
	}

	switch {
	case errors.Is(err, config.ErrInvalid):
		classified.Category = ErrorCategoryConfig
		classified.Summary = "Configuration issue detected"

	case errors.Is(err, loader.ErrMissingFile):
		classified.Category = ErrorCategoryFilesystem
		classified.Summary = "Election file not found"

	case errors.Is(err, loader.ErrInvalidRow),
		errors.Is(err, loader.ErrMissingColumn),
		errors.Is(err, loader.ErrUnknownMode),
		errors.Is(err, loader.ErrUnknownEncoding),
		errors.Is(err, election.ErrDuplicateCandidate):
		classified.Category = ErrorCategoryFormat
		classified.Summary = "Input file does not match the expected layout"

	case errors.Is(err, election.ErrConstituencyNotFound):
		classified.Category = ErrorCategoryConsistency
		classified.Summary = "Round-2 constituency missing from round 1"

	case errors.Is(err, election.ErrCandidateNotFound):
		classified.Category = ErrorCategoryConsistency
		classified.Summary = "Round-2 candidate missing from the round-1 roster"

	case errors.Is(err, election.ErrDuplicateConstituency):
		classified.Category = ErrorCategoryConsistency
		classified.Summary = "Constituency listed twice in round 1"

	case errors.Is(err, analysis.ErrEmptyDataset):
		classified.Category = ErrorCategoryEmpty
		classified.Summary = "No constituencies loaded"
	}

	classified.Remediation = GetRecoveryGuide(classified.Category)
	return classified
}

// GetRecoveryGuide returns remediation steps for an error category.
func GetRecoveryGuide(category ErrorCategory) []string {
	guides := map[ErrorCategory][]string{
		ErrorCategoryConfig: {
			"Check the YAML syntax of the --config file",
			"Compare with the defaults: modes standard|compact, encodings utf-8|latin1|windows-1252",
		},
		ErrorCategoryFilesystem: {
			"Check --data-dir (or LEGI_DATA_DIR) points at the CSV directory",
			"Both cdsp_legi{year}t1_circ.csv and cdsp_legi{year}t2_circ.csv are required",
		},
		ErrorCategoryFormat: {
			"Check --mode matches the file layout (standard or compact)",
			"Try data.encoding: latin1 for older CDSP exports",
			"Check data.delimiter if the file was saved by a spreadsheet",
		},
		ErrorCategoryConsistency: {
			"Check both round files come from the same election year",
			"Candidate names must be spelled identically in both rounds",
		},
		ErrorCategoryEmpty: {
			"Check the round-1 file has data rows with a department code",
		},
	}

	if steps, ok := guides[category]; ok {
		return steps
	}
	return []string{"Run with --verbose for more details"}
}
