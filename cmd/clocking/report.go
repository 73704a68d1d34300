package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clocking/internal/domain"
	"clocking/internal/views"
)

var (
	reportFrom      int
	reportDays      int
	reportDateStart string
	reportDateEnd   string
	reportDaily     bool
	reportDetail    bool
	reportDist      bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report clocking data",
	Long: `Report finished entries. The range is either offset-based
(--from/--days, measured in days back from today) or date-based
(--date-start/--date-end, inclusive local yyyy-mm-dd dates).

The default view groups by date then title; --daily, --detail and --dist
select the other views.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().IntVarP(&reportFrom, "from", "f", 0,
		"tail offset in days, 0 means today")
	reportCmd.Flags().IntVarP(&reportDays, "days", "d", -1,
		"limit days from the tail offset, default until now")
	reportCmd.Flags().StringVar(&reportDateStart, "date-start", "",
		"query range start date (yyyy-mm-dd)")
	reportCmd.Flags().StringVar(&reportDateEnd, "date-end", "",
		"query range end date (yyyy-mm-dd, inclusive)")
	reportCmd.Flags().BoolVar(&reportDaily, "daily", false, "show daily summary")
	reportCmd.Flags().BoolVar(&reportDetail, "detail", false, "show detail by title")
	reportCmd.Flags().BoolVar(&reportDist, "dist", false, "show daily distribution with idle gaps")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	var entries []domain.FinishedEntry
	if reportDateStart != "" || reportDateEnd != "" {
		entries, err = store.FinishedByDate(ctx, reportDateStart, reportDateEnd)
	} else {
		var days *int
		if reportDays >= 0 {
			days = &reportDays
		}
		entries, err = store.FinishedByOffset(ctx, reportFrom, days)
	}
	if err != nil {
		return err
	}

	window, err := cfg.ParseWindow()
	if err != nil {
		return err
	}
	kind := ""
	switch {
	case reportDaily:
		kind = "daily"
	case reportDetail:
		kind = "detail"
	case reportDist:
		kind = "dist"
	}
	fmt.Print(views.For(kind, entries, window).Text())
	return nil
}
