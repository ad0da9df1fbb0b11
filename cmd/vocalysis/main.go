package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/CittaaHealthServices/vocalysis/analysis"
	"github.com/CittaaHealthServices/vocalysis/audio"
	"github.com/CittaaHealthServices/vocalysis/logging"
	"github.com/CittaaHealthServices/vocalysis/personalization"
)

var (
	flagUser     string
	flagArch     string
	flagRegion   string
	flagLanguage string
	flagAgeGroup string
	flagGender   string
	flagVerbose  bool
)

func main() {
	// A local .env is a developer convenience; absence is not an error.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "vocalysis",
		Short:         "Voice-based mental-health screening core",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze <recording.wav>",
		Short: "Run the screening pipeline on a WAV recording",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().StringVar(&flagUser, "user", "", "user ID for personalization (empty disables)")
	analyzeCmd.Flags().StringVar(&flagArch, "arch", "", "architecture override: ensemble, mlp, cnn, rnn, attention")
	analyzeCmd.Flags().StringVar(&flagRegion, "region", "", "sample metadata: region")
	analyzeCmd.Flags().StringVar(&flagLanguage, "language", "", "sample metadata: language")
	analyzeCmd.Flags().StringVar(&flagAgeGroup, "age-group", "", "sample metadata: child, adolescent, adult or senior")
	analyzeCmd.Flags().StringVar(&flagGender, "gender", "", "sample metadata: male, female or other")
	analyzeCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
	root.AddCommand(analyzeCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		logging.SetLevel(logging.DebugLevel)
	} else {
		logging.SetLevel(logging.WarnLevel)
	}

	cfg, err := analysis.LoadConfig()
	if err != nil {
		return err
	}
	if flagArch != "" {
		cfg.Architecture = flagArch
	}

	var store personalization.ProfileStore
	if cfg.ProfileDir != "" {
		badgerStore, closeStore, err := personalization.OpenBadgerStore(cfg.ProfileDir)
		if err != nil {
			return err
		}
		defer closeStore()
		store = badgerStore
	}

	analyzer, err := analysis.New(cfg, store)
	if err != nil {
		return err
	}
	pool := analysis.NewPool(analyzer, cfg.Workers)
	defer pool.Close()

	metadata := &audio.Metadata{
		Region:   flagRegion,
		Language: flagLanguage,
		AgeGroup: flagAgeGroup,
		Gender:   flagGender,
	}
	sample, err := audio.DecodeWAVFile(args[0], metadata)
	if err != nil {
		return err
	}

	report, err := pool.Analyze(context.Background(), sample, flagUser)
	if err != nil {
		if ae, ok := analysis.AsAnalysisError(err); ok && ae.Retryable() {
			return fmt.Errorf("%s (try recording again in a quiet room, speaking for at least 10 seconds)", ae.Reason)
		}
		return err
	}

	renderReport(report)
	return nil
}

func renderReport(report *analysis.Report) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Instrument", "Score", "Severity"})
	table.Append([]string{"PHQ-9 (depression)", fmt.Sprintf("%d / 27", report.PHQ9Score), string(report.PHQ9Band)})
	table.Append([]string{"GAD-7 (anxiety)", fmt.Sprintf("%d / 21", report.GAD7Score), string(report.GAD7Band)})
	table.Append([]string{"PSS (stress)", fmt.Sprintf("%d / 40", report.PSSScore), string(report.PSSBand)})
	table.Append([]string{"WEMWBS (wellbeing)", fmt.Sprintf("%d / 70", report.WEMWBSScore), string(report.WEMWBSBand)})
	table.Render()

	fmt.Printf("\nOverall mental-health score: %d/100\n", report.OverallScore)
	fmt.Printf("Risk level: %s    Confidence: %.0f%%    Architecture: %s\n",
		report.RiskLevel, report.ConfidenceScore*100, report.Architecture)
	if report.PersonalizationApplied {
		fmt.Printf("Personalized against %d previous samples (adjustment %.1f%%)\n",
			report.SampleCount-1, report.PersonalizationScore*100)
	} else if report.SampleCount > 0 {
		fmt.Printf("Baseline warming: %d of %d samples collected\n",
			report.SampleCount, personalization.BaselineTarget)
	}

	lines := lo.Map(report.Recommendations, func(r string, i int) string {
		return fmt.Sprintf("  %d. %s", i+1, r)
	})
	fmt.Printf("\nRecommendations:\n%s\n", strings.Join(lines, "\n"))
}
