package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recent screening runs, or print the rows of one run",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 10, "Number of runs to list")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if len(args) == 1 {
		rec := openRecorder()
		defer rec.Close()

		results, err := rec.RunResults(ctx, args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	run, rec, err := buildRunner(ctx)
	if err != nil {
		return err
	}
	defer rec.Close()

	out, err := run.History(ctx, historyLimit)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
