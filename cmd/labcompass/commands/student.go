package commands

import (
	"fmt"

	"labcompass/services/labcompass"

	"github.com/spf13/cobra"
)

var studentOpts analyzeFlags

func init() {
	studentOpts = addAnalyzeFlags(studentCmd)
	rootCmd.AddCommand(studentCmd)
}

var studentCmd = &cobra.Command{
	Use:   "student [student id] [--file <report.html>]",
	Short: "Prints the choices of a student, the logged in student by default.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := labcompass.Options{}
		if len(args) == 1 {
			opts.StudentID = args[0]
		}
		view, err := analyzePage(cmd, studentOpts, opts)
		if err != nil {
			return err
		}
		if view.Student == nil {
			return fmt.Errorf("the page names no student, pass a student id")
		}

		out := cmd.OutOrStdout()
		if !renderStudent(out, view, view.Student.StudentID) {
			return fmt.Errorf("student %s is not listed in any detail table", view.Student.StudentID)
		}
		return nil
	},
}
