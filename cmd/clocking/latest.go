package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var latestCmd = &cobra.Command{
	Use:   "latest <title>",
	Short: "Show the latest finished entry of a title",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		entry, err := store.LatestFinished(ctx, args[0])
		if err != nil {
			return err
		}
		if entry == nil {
			fmt.Println("(Not found)")
			return nil
		}
		fmt.Print(entry)
		return nil
	},
}
