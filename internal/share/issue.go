package share

import (
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/fakeyudi/recap/internal/feedback"
)

// githubRemotePatterns match the owner/repo part of git remote URLs in both
// SSH and HTTPS forms.
var githubRemotePatterns = []*regexp.Regexp{
	regexp.MustCompile(`github\.com[:/]([^/]+/[^/]+?)(?:\.git)?$`),
	regexp.MustCompile(`github\.com/([^/]+/[^/]+)`),
}

// IssueSharer files feedback documents as GitHub issues.
type IssueSharer struct {
	Runner GHRunner // if nil, uses the real gh subprocess
}

// ExtractIssueSummary derives an issue title and body from a feedback
// document. The title comes from the "### Task Attempted" section, truncated
// to 80 characters; the body is the document up to the machine-readable
// marker, with a pointer note in place of the full JSON.
func ExtractIssueSummary(content string) (title, body string) {
	title = "CLI Session Feedback"

	var taskLines []string
	inTask := false
	for _, line := range strings.Split(content, "\n") {
		switch {
		case strings.Contains(line, "### Task Attempted"):
			inTask = true
		case inTask && strings.HasPrefix(line, "###"):
			inTask = false
		case inTask && strings.TrimSpace(line) != "":
			taskLines = append(taskLines, strings.TrimSpace(line))
		}
	}
	if len(taskLines) > 0 {
		task := strings.Join(taskLines, " ")
		if len(task) > 80 {
			task = task[:80] + "..."
		}
		title = "Feedback: " + task
	}

	body = content
	if idx := strings.Index(body, feedback.MachineReadableMarker); idx != -1 {
		body = body[:idx]
		body += "\n\n*Full session data available in attached file or gist.*"
	}
	return title, body
}

// CreateIssue files the feedback document at path as an issue in repo
// (owner/repo form) and returns the issue URL. An empty title is derived
// from the document content.
func (i *IssueSharer) CreateIssue(repo, path, title string, labels []string, assignee string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("file not found: %s", path)
	}

	autoTitle, body := ExtractIssueSummary(string(content))
	if title == "" {
		title = autoTitle
	}

	args := []string{
		"issue", "create",
		"--repo", repo,
		"--title", title,
		"--body", body,
	}
	for _, label := range labels {
		args = append(args, "--label", label)
	}
	if assignee != "" {
		args = append(args, "--assignee", assignee)
	}

	runner := i.Runner
	if runner == nil {
		runner = defaultGHRunner
	}
	url, err := runner(args...)
	if err != nil {
		return "", fmt.Errorf("creating issue: %w", err)
	}
	return url, nil
}

// GitRunner executes a git command and returns its trimmed stdout.
type GitRunner func(args ...string) (string, error)

// defaultGitRunner runs git as a real subprocess.
func defaultGitRunner(args ...string) (string, error) {
	out, err := exec.Command("git", args...).Output()
	return strings.TrimSpace(string(out)), err
}

// RepoFromRemote detects the owner/repo of the origin remote, or returns ""
// when there is no remote or it is not a GitHub URL.
func RepoFromRemote(runner GitRunner) string {
	if runner == nil {
		runner = defaultGitRunner
	}
	url, err := runner("remote", "get-url", "origin")
	if err != nil {
		return ""
	}
	for _, re := range githubRemotePatterns {
		if m := re.FindStringSubmatch(url); m != nil {
			return strings.TrimSuffix(m[1], ".git")
		}
	}
	return ""
}
