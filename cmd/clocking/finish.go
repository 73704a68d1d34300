package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var finishNotes []string

var finishCmd = &cobra.Command{
	Use:   "finish [title]",
	Short: "Finish the latest unfinished clocking entry",
	Long: `Finish the latest unfinished entry of the given title, or
whichever single entry is unfinished when no title is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFinish,
}

func init() {
	finishCmd.Flags().StringArrayVarP(&finishNotes, "notes", "n", nil,
		"notes to append, each flag a separate line; '-' reads from stdin")
}

func runFinish(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	title := ""
	if len(args) == 1 {
		title = args[0]
	}

	notes := strings.Join(finishNotes, "\n")
	if len(finishNotes) == 1 && finishNotes[0] == "-" {
		notes = readToEnd(os.Stdin)
	}

	finished, found, err := store.FinishLatest(ctx, title, time.Now().UTC(), notes)
	if err != nil {
		return err
	}
	if !found {
		if title == "" {
			fmt.Println("(No unfinished entry found)")
		} else {
			fmt.Printf("(No unfinished entry found by %s)\n", title)
		}
		return nil
	}
	fmt.Printf("(Finished %s)\n", finished)
	return nil
}
