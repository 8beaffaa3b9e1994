package commands

import (
	"fmt"

	"labcompass/lib/labhistory"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	snapshotCmd.AddCommand(snapshotShowCmd)
	rootCmd.AddCommand(snapshotCmd)
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspects the stored snapshots.",
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show [key]",
	Short: "Prints the snapshot stored under a key, the whole page by default.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := labhistory.GlobalKey
		if len(args) == 1 {
			key = args[0]
		}

		ctx := cmd.Context()
		e, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		snapshot := e.history.Load(ctx, key)
		if snapshot == nil {
			return fmt.Errorf("no snapshot stored under %q", key)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s taken %s\n", key, formatTimestamp(snapshot.Timestamp))
		t := newTable(out)
		t.AppendHeader(table.Row{"Lab", "1st choice", "1st choice (3rd year)"})
		for _, lab := range snapshot.Labs {
			t.AppendRow(table.Row{lab.Name, lab.FirstChoiceTotal, lab.FirstChoicePrimary})
		}
		t.Render()
		return nil
	},
}
