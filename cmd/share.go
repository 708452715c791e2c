package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/recap/internal/share"
)

var (
	gistDescription string
	gistPublic      bool
	gistList        bool
	gistListLimit   int
	gistDelete      string

	issueRepo     string
	issueTitle    string
	issueLabels   []string
	issueAssignee string
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Share a feedback document via the gh CLI",
}

var shareGistCmd = &cobra.Command{
	Use:   "gist [file]",
	Short: "Upload a feedback document as a GitHub gist",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sharer := &share.GistSharer{}

		switch {
		case gistList:
			gists, err := sharer.ListGists(gistListLimit)
			if err != nil {
				return err
			}
			if len(gists) == 0 {
				cmd.Println("No gists found.")
				return nil
			}
			for _, g := range gists {
				cmd.Printf("%s  %-40s  %s\n", g.ID, g.Description, g.URL)
			}
			return nil

		case gistDelete != "":
			if err := sharer.DeleteGist(gistDelete); err != nil {
				return err
			}
			cmd.Printf("Gist %s deleted.\n", gistDelete)
			return nil
		}

		if len(args) != 1 {
			return fmt.Errorf("a file argument is required unless --list or --delete is given")
		}
		url, err := sharer.CreateGist(args[0], gistDescription, gistPublic)
		if err != nil {
			return err
		}
		cmd.Printf("Gist created: %s\n", url)
		return nil
	},
}

var shareIssueCmd = &cobra.Command{
	Use:   "issue <file>",
	Short: "File a feedback document as a GitHub issue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo := issueRepo
		if repo == "" {
			repo = GetConfig().Repo
		}
		if repo == "" {
			repo = share.RepoFromRemote(nil)
			if repo == "" {
				return fmt.Errorf("could not detect repository — specify one with --repo owner/repo")
			}
			cmd.Printf("Detected repository: %s\n", repo)
		}

		labels := issueLabels
		if len(labels) == 0 {
			labels = GetConfig().Labels
		}

		sharer := &share.IssueSharer{}
		url, err := sharer.CreateIssue(repo, args[0], issueTitle, labels, issueAssignee)
		if err != nil {
			return err
		}
		cmd.Printf("Issue created: %s\n", url)
		return nil
	},
}

func init() {
	shareGistCmd.Flags().StringVar(&gistDescription, "description", "", "Gist description")
	shareGistCmd.Flags().BoolVar(&gistPublic, "public", false, "Create a public gist (default: secret)")
	shareGistCmd.Flags().BoolVar(&gistList, "list", false, "List recent gists instead of creating one")
	shareGistCmd.Flags().IntVar(&gistListLimit, "limit", 10, "Number of gists to list with --list")
	shareGistCmd.Flags().StringVar(&gistDelete, "delete", "", "Delete the gist with this ID")

	shareIssueCmd.Flags().StringVar(&issueRepo, "repo", "", "Repository in owner/repo form (default: config, then git remote)")
	shareIssueCmd.Flags().StringVar(&issueTitle, "title", "", "Issue title (derived from the document if empty)")
	shareIssueCmd.Flags().StringSliceVar(&issueLabels, "label", nil, "Labels to apply")
	shareIssueCmd.Flags().StringVar(&issueAssignee, "assignee", "", "GitHub username to assign")

	shareCmd.AddCommand(shareGistCmd)
	shareCmd.AddCommand(shareIssueCmd)
	rootCmd.AddCommand(shareCmd)
}
