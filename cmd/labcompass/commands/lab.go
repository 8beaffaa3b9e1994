package commands

import (
	"fmt"
	"strings"

	"labcompass/services/labcompass"

	"github.com/spf13/cobra"
)

var labOpts analyzeFlags

func init() {
	labOpts = addAnalyzeFlags(labCmd)
	rootCmd.AddCommand(labCmd)
}

var labCmd = &cobra.Command{
	Use:   "lab <name> [--file <report.html>]",
	Short: "Prints a lab and the students who listed it, the name may be approximate.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		view, err := analyzePage(cmd, labOpts, labcompass.Options{})
		if err != nil {
			return err
		}
		query := strings.Join(args, " ")
		lab, ok := labcompass.FindLab(view, query)
		if !ok {
			return fmt.Errorf("no lab matches %q", query)
		}
		renderLab(cmd.OutOrStdout(), view, lab)
		return nil
	},
}
