package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"legisurprise/internal/config"
	"legisurprise/internal/logging"
	"legisurprise/internal/transparency"
)

const version = "0.3.0"

var (
	// Global flags
	verbose    bool
	configPath string

	// Resolved by PersistentPreRunE
	appConfig *config.Config
	logger    = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "legi",
	Short: "legi - surprise outcomes in French two-round legislative elections",
	Long: `legi reads per-constituency results of both rounds of a legislative
election, matches candidates across rounds by name, and reports the
constituencies where the round-2 winner was not in the round-1 top two.

Input files are read from <data dir>/cdsp_legi{year}t{round}_circ.csv.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("%w: %v", config.ErrInvalid, err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("%w %s: %v", config.ErrInvalid, configPath, err)
		}
		appConfig = cfg

		if err := logging.Initialize(logging.Options{
			Level:   cfg.Logging.Level,
			Format:  cfg.Logging.Format,
			Verbose: verbose,
			Enabled: cfg.Logging.IsCategoryEnabled,
		}); err != nil {
			return err
		}
		logger = logging.Get(logging.CategoryBoot)
		logger.Debug("configuration loaded",
			zap.String("config", configPath),
			zap.String("data_dir", cfg.Data.Dir),
			zap.String("encoding", cfg.Data.Encoding),
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

// versionCmd prints the build version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the legi version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "legi v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "legi.yaml", "Config file (YAML)")

	analyzeCmd.Flags().StringVar(&modeFlag, "mode", "", "Input layout for every year: standard or compact (default: per-year config)")
	analyzeCmd.Flags().IntVar(&topFlag, "top", 0, "Candidates shown per surprise (default: report.top)")
	analyzeCmd.Flags().StringVar(&dataDirFlag, "data-dir", "", "Directory holding the CSV files (default: data.dir)")

	listCmd.Flags().StringVar(&modeFlag, "mode", "", "Input layout: standard or compact (default: per-year config)")
	listCmd.Flags().IntVar(&listTopFlag, "top", 0, "Candidates shown per line (default: report.listing_top)")
	listCmd.Flags().StringVar(&dataDirFlag, "data-dir", "", "Directory holding the CSV files (default: data.dir)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		for _, e := range multierr.Errors(err) {
			fmt.Fprintln(os.Stderr, transparency.ClassifyError(e).Format())
		}
		os.Exit(1)
	}
}
