package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/qepting91/reddit-spider/internal/journal"
)

var StatsLimit int

func init() {
	statsCmd.Flags().IntVarP(&StatsLimit, "limit", "n", 10, "Number of recent runs to show")
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise recent runs from the journal",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Journal.Path == "" {
			return errors.New("journal.path is not configured")
		}
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return err
		}
		defer j.Close()

		runs, err := j.Runs(cmd.Context(), StatsLimit)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RUN\tSTARTED\tSEED\tAPPROVED\tPROCESSED\tVISITED\tHARVESTED\tRECORDS\tDONE\tCOMMUNITIES")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%d\t%d\t%d\t%d\t%t\t%s\n",
				r.ID[:8], r.StartedAt.Local().Format("2006-01-02 15:04"), r.Seed,
				r.Approved, r.Target, r.Processed, r.Visited, r.Harvested, r.Records,
				r.Finished, strings.Join(r.Communities, ","))
		}
		return w.Flush()
	},
}
