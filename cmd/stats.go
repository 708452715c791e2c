package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/recap/internal/feedback"
)

var statsCmd = &cobra.Command{
	Use:   "stats <file>",
	Short: "Print the computed statistics of a recorded session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", path)
			}
			return err
		}

		sn, err := feedback.ParseFile(path, data)
		if err != nil {
			return err
		}

		// Recompute from the recording rather than trusting the stored copy.
		stats := sn.SessionData().Statistics()

		cmd.Printf("Exchanges:  %d\n", stats.TotalExchanges)
		cmd.Printf("Tool calls: %d\n", stats.TotalToolCalls)
		cmd.Printf("Errors:     %d\n", stats.TotalErrors)
		cmd.Printf("Duration:   %s\n", feedback.FormatDuration(stats.DurationSeconds))
		cmd.Printf("Tokens:     %d in / %d out\n",
			stats.TokenEstimates.TotalInput, stats.TokenEstimates.TotalOutput)

		if stats.ToolPerformance.AvgDurationMS != nil {
			cmd.Printf("Avg tool time: %.0fms\n", *stats.ToolPerformance.AvgDurationMS)
		}

		if len(stats.ToolPerformance.ToolUsage) > 0 {
			cmd.Println("Tool usage:")
			names := make([]string, 0, len(stats.ToolPerformance.ToolUsage))
			for name := range stats.ToolPerformance.ToolUsage {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				cmd.Printf("  %-16s %d\n", name, stats.ToolPerformance.ToolUsage[name])
			}
		}

		if len(stats.ErrorBreakdown) > 0 {
			cmd.Println("Error breakdown:")
			types := make([]string, 0, len(stats.ErrorBreakdown))
			for typ := range stats.ErrorBreakdown {
				types = append(types, typ)
			}
			sort.Strings(types)
			for _, typ := range types {
				cmd.Printf("  %-16s %d\n", typ, stats.ErrorBreakdown[typ])
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
