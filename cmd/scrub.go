package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/recap/internal/feedback"
	"github.com/fakeyudi/recap/internal/redact"
)

var scrubOutput string

var scrubCmd = &cobra.Command{
	Use:   "scrub <file>",
	Short: "Redact sensitive data from a recorded session before sharing",
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

		scrubber, err := redact.NewScrubber(GetConfig().RedactPatterns...)
		if err != nil {
			return fmt.Errorf("invalid redact pattern in config: %w", err)
		}

		session := sn.SessionData()
		scrubber.Scrub(session)

		// Re-serialize in the source format; statistics come out fresh.
		var out []byte
		if strings.HasSuffix(strings.ToLower(path), ".json") {
			out, err = session.ToJSON()
		} else {
			out, err = feedback.Render(session, reportFromDocument(string(data)))
		}
		if err != nil {
			return err
		}

		target := scrubOutput
		if target == "" {
			target = path
		}
		if err := os.WriteFile(target, out, 0o644); err != nil {
			return fmt.Errorf("writing scrubbed file: %w", err)
		}

		cmd.Printf("Scrubbed session written to %s\n", target)
		return nil
	},
}

// reportFromDocument recovers the narrative sections of an existing feedback
// document so a scrub pass can re-render it without losing them.
func reportFromDocument(content string) feedback.Report {
	report := feedback.Report{
		TaskSummary: "Not recorded",
		Outcome:     "Not recorded",
	}

	section := ""
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "### Task Attempted"):
			section = "task"
		case strings.HasPrefix(trimmed, "### Problems Encountered"):
			section = "problems"
		case strings.HasPrefix(trimmed, "### Outcome"):
			section = "outcome"
		case strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "---"):
			section = ""
		case trimmed == "":
		case section == "task":
			report.TaskSummary = trimmed
		case section == "problems":
			p := strings.TrimPrefix(trimmed, "- ")
			if p != "None reported" {
				report.Problems = append(report.Problems, p)
			}
		case section == "outcome":
			report.Outcome = trimmed
		}
	}
	return report
}

func init() {
	scrubCmd.Flags().StringVarP(&scrubOutput, "output", "o", "", "Write to this path instead of in place")
	rootCmd.AddCommand(scrubCmd)
}
