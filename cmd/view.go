package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/recap/internal/feedback"
	"github.com/fakeyudi/recap/internal/trace"
	"github.com/fakeyudi/recap/internal/tui"
)

var plainOutput bool

var viewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "View a recorded session (feedback document or snapshot)",
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

		// Pipes and redirects get the plain rendering.
		if plainOutput || !term.IsTerminal(os.Stdout.Fd()) {
			printSnapshot(sn)
			return nil
		}
		return tui.Run(sn, path)
	},
}

// printSnapshot writes a plain-text summary to stdout.
func printSnapshot(sn *trace.Snapshot) {
	meta := sn.Metadata
	stats := sn.Statistics

	fmt.Println("## Session")
	fmt.Printf("  ID:        %s\n", meta.SessionID)
	fmt.Printf("  Model:     %s\n", meta.Model)
	fmt.Printf("  Work dir:  %s\n", meta.WorkingDirectory)
	fmt.Printf("  Started:   %s\n", meta.StartTime)
	if meta.EndTime != nil {
		fmt.Printf("  Stopped:   %s\n", *meta.EndTime)
	}
	fmt.Printf("  Duration:  %s\n", feedback.FormatDuration(stats.DurationSeconds))
	if meta.GitBranch != nil {
		fmt.Printf("  Branch:    %s\n", *meta.GitBranch)
	}
	fmt.Println()

	fmt.Println("## Exchanges")
	if len(sn.Exchanges) == 0 {
		fmt.Println("  (none)")
	}
	for i, e := range sn.Exchanges {
		fmt.Printf("  %d. > %s\n", i+1, e.UserPrompt)
		for _, tc := range e.ToolCalls {
			fmt.Printf("     ⚙ %s\n", tc.Name)
		}
		fmt.Printf("     < %s\n", e.AssistantResponse)
	}
	fmt.Println()

	fmt.Println("## Errors")
	if len(sn.Errors) == 0 {
		fmt.Println("  (none)")
	}
	for _, er := range sn.Errors {
		typ := er.Type
		if typ == "" {
			typ = "unknown"
		}
		fmt.Printf("  [%s] %s\n", typ, er.Message)
	}
	fmt.Println()

	fmt.Println("## Statistics")
	fmt.Printf("  Exchanges:   %d\n", stats.TotalExchanges)
	fmt.Printf("  Tool calls:  %d\n", stats.TotalToolCalls)
	fmt.Printf("  Errors:      %d\n", stats.TotalErrors)
}

func init() {
	viewCmd.Flags().BoolVar(&plainOutput, "plain", false, "Print a plain-text summary instead of the TUI")
	rootCmd.AddCommand(viewCmd)
}
