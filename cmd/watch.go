package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/recap/internal/logmine"
	"github.com/fakeyudi/recap/internal/trace"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a debug-log directory and print mined entries as they appear",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := GetConfig().LogDir
		if len(args) == 1 {
			dir = args[0]
		}
		if dir == "" {
			return fmt.Errorf("no log directory — pass one or set log_dir in config")
		}
		if _, err := os.Stat(dir); err != nil {
			return fmt.Errorf("log directory not found: %s", dir)
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer watcher.Close()

		if err := watcher.Add(dir); err != nil {
			return err
		}

		miner := logmine.NewMiner()

		// Print what's already there before tailing changes.
		// seen tracks how many entries per file were already printed so a
		// rewrite only shows the delta.
		seen := make(map[string]int)
		for _, finding := range miner.Mine(dir) {
			printFinding(finding, seen)
		}

		fmt.Fprintf(os.Stderr, "watching %s — ctrl+c to stop\n", dir)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		for {
			select {
			case <-sig:
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if filepath.Ext(event.Name) != ".log" {
					continue
				}
				if finding, ok := miner.MineFile(event.Name); ok {
					printFinding(finding, seen)
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				// Watcher errors are non-fatal; keep watching.
			}
		}
	},
}

// printFinding prints the entries of a finding not yet shown for its file.
func printFinding(finding trace.LogFinding, seen map[string]int) {
	if finding.Error != "" {
		fmt.Fprintf(os.Stderr, "warning: %s: %s\n", finding.File, finding.Error)
		return
	}
	start := seen[finding.File]
	if start >= len(finding.Entries) {
		return
	}
	for _, entry := range finding.Entries[start:] {
		labels := make([]string, 0, len(entry))
		for k := range entry {
			if k != "raw" {
				labels = append(labels, k)
			}
		}
		sort.Strings(labels)
		fmt.Printf("%s %v  %s\n", finding.File, labels, entry["raw"])
	}
	seen[finding.File] = len(finding.Entries)
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
