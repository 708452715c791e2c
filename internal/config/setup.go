package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// RunSetup runs the interactive setup wizard and returns the resulting
// config. If existing is non-nil, it is used as the default for each prompt
// (edit mode).
func RunSetup(existing *Config) (*Config, error) {
	r := bufio.NewReader(os.Stdin)

	ask := func(prompt, defaultVal string) (string, error) {
		if defaultVal != "" {
			fmt.Printf("%s [%s]: ", prompt, defaultVal)
		} else {
			fmt.Printf("%s: ", prompt)
		}
		line, err := r.ReadString('\n')
		if err != nil {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return defaultVal, nil
		}
		return line, nil
	}

	cfg := Defaults()
	if existing != nil {
		cfg = *existing
	}

	fmt.Println()
	fmt.Println("  ┌─────────────────────────────────┐")
	fmt.Println("  │     recap — setup wizard        │")
	fmt.Println("  └─────────────────────────────────┘")
	fmt.Println()

	var err error

	cfg.OutputDir, err = ask("  Feedback output directory", cfg.OutputDir)
	if err != nil {
		return nil, err
	}

	cfg.LogDir, err = ask("  Assistant debug-log directory (blank to skip mining)", cfg.LogDir)
	if err != nil {
		return nil, err
	}

	cfg.Repo, err = ask("  Default repository for issue sharing (owner/repo)", cfg.Repo)
	if err != nil {
		return nil, err
	}

	labels, err := ask("  Default issue labels (comma-separated)", strings.Join(cfg.Labels, ","))
	if err != nil {
		return nil, err
	}
	cfg.Labels = nil
	for _, l := range strings.Split(labels, ",") {
		if l = strings.TrimSpace(l); l != "" {
			cfg.Labels = append(cfg.Labels, l)
		}
	}

	fmt.Println()
	return &cfg, nil
}
