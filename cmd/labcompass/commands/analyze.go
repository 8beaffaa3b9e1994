package commands

import (
	"labcompass/lib/labhistory"
	"labcompass/services/labcompass"

	"github.com/spf13/cobra"
)

// flags shared by the commands that analyze a page
type analyzeFlags struct {
	file      *string
	noHistory *bool
}

func addAnalyzeFlags(cmd *cobra.Command) analyzeFlags {
	return analyzeFlags{
		file:      cmd.Flags().String("file", "", "Read the report from a saved html file instead of fetching it."),
		noHistory: cmd.Flags().Bool("no-history", false, "Do not read or write snapshots."),
	}
}

// analyzePage opens the environment, loads the page and analyzes it.
func analyzePage(cmd *cobra.Command, flags analyzeFlags, opts labcompass.Options) (labcompass.View, error) {
	ctx := cmd.Context()
	e, err := openEnv(ctx)
	if err != nil {
		return labcompass.View{}, err
	}
	defer e.Close()

	doc, err := e.loadDocument(ctx, *flags.file)
	if err != nil {
		return labcompass.View{}, err
	}
	opts.SkipHistory = *flags.noHistory
	return e.service.Analyze(ctx, doc, opts)
}

var analyzeOpts analyzeFlags
var analyzeJson *bool
var analyzeColor *bool

func init() {
	analyzeOpts = addAnalyzeFlags(analyzeCmd)
	analyzeJson = analyzeCmd.Flags().Bool("json", false, "Print the whole analysis as json.")
	analyzeColor = analyzeCmd.Flags().Bool("color", false, "Color lab statuses.")
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [--file <report.html>] [--no-history] [--json]",
	Short: "Prints every lab, the program totals and what changed since the last run.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		view, err := analyzePage(cmd, analyzeOpts, labcompass.Options{})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if *analyzeJson {
			return writeJSON(out, view)
		}
		renderLabs(out, view.Labs, view.History, *analyzeColor)
		renderPrograms(out, view)
		renderHistory(out, labhistory.GlobalKey, view.History)
		for _, stat := range view.ProgramStats {
			state, ok := view.ProgramHistory[stat.Program]
			if ok {
				renderHistory(out, stat.Program, &state)
			}
		}
		return nil
	},
}
