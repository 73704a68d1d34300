package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var unfinishedLimit int

var unfinishedCmd = &cobra.Command{
	Use:   "unfinished",
	Short: "List unfinished entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Unfinished(ctx, unfinishedLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("(None)")
			return nil
		}
		for _, e := range entries {
			fmt.Print(e)
		}
		return nil
	},
}

func init() {
	unfinishedCmd.Flags().IntVar(&unfinishedLimit, "limit", 10, "maximum entries to list")
}
