package main

import (
	"github.com/spf13/cobra"

	"legisurprise/internal/pipeline"
	"legisurprise/internal/report"
)

// listCmd prints the round-1 leaders of every constituency of a year
var listCmd = &cobra.Command{
	Use:   "list [year]",
	Short: "List each constituency with its round-1 leaders",
	Long: `Reads the round-1 file of a year and prints one line per constituency
with its leading candidates by round-1 votes. The round-2 file is not needed:

  1958 - 01 - 1 : DUPONT | MARTIN | DURAND | LEROY`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	jobs, err := resolveJobs(appConfig, args)
	if err != nil {
		return err
	}

	top := appConfig.Report.ListingTop
	if listTopFlag > 0 {
		top = listTopFlag
	}

	p := pipeline.New(newLoader(appConfig), report.New(cmd.OutOrStdout()), appConfig.Report.Top)
	return p.List(jobs[0], top)
}
