package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"legisurprise/internal/config"
	"legisurprise/internal/loader"
	"legisurprise/internal/pipeline"
	"legisurprise/internal/report"
)

var (
	modeFlag    string
	topFlag     int
	listTopFlag int
	dataDirFlag string
)

// analyzeCmd runs the surprise analysis for one or more years
var analyzeCmd = &cobra.Command{
	Use:   "analyze [year...]",
	Short: "Report constituencies won by a candidate outside the round-1 top two",
	Long: `Loads both rounds of each year, reconciles candidates by name and prints
every surprise constituency with the rank shift of its leading candidates,
followed by the surprise rate for the year.

Years are processed one after another. A failing year is reported and
the remaining years still run; the command then exits non-zero.

Examples:
  legi analyze 1958
  legi analyze 1958 1962 --mode compact
  legi analyze            # years listed in the config file`,
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	jobs, err := resolveJobs(appConfig, args)
	if err != nil {
		return err
	}

	top := appConfig.Report.Top
	if topFlag > 0 {
		top = topFlag
	}

	p := pipeline.New(newLoader(appConfig), report.New(cmd.OutOrStdout()), top)
	_, err = p.RunAll(jobs)
	return err
}

// resolveJobs turns year arguments (or the configured years) into jobs.
func resolveJobs(cfg *config.Config, args []string) ([]pipeline.Job, error) {
	var years []int
	for _, arg := range args {
		year, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q: %w", arg, err)
		}
		years = append(years, year)
	}
	if len(years) == 0 {
		for _, y := range cfg.Years {
			years = append(years, y.Year)
		}
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("no year given and none configured")
	}

	jobs := make([]pipeline.Job, 0, len(years))
	for _, year := range years {
		mode, err := resolveMode(cfg, year)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, pipeline.Job{Year: year, Mode: mode})
	}
	return jobs, nil
}

// resolveMode picks --mode, then the per-year config, then standard.
func resolveMode(cfg *config.Config, year int) (loader.Mode, error) {
	name := modeFlag
	if name == "" {
		configured, ok := cfg.ModeFor(year)
		if !ok {
			logger.Debug("no mode configured, using standard", zap.Int("year", year))
			return loader.ModeStandard, nil
		}
		name = configured
	}
	return loader.ParseMode(name)
}

func newLoader(cfg *config.Config) *loader.Loader {
	dir := cfg.Data.Dir
	if dataDirFlag != "" {
		dir = dataDirFlag
	}
	return loader.New(
		loader.WithDataDir(dir),
		loader.WithPattern(cfg.Data.Pattern),
		loader.WithEncoding(cfg.Data.Encoding),
		loader.WithDelimiter(cfg.DelimiterRune()),
		loader.WithCommonHeaders(cfg.Format.CommonHeaders),
		loader.WithCompactSlots(cfg.Format.CompactSlots),
	)
}
