package config

import (
	"errors"
	"os"
	"testing"

	"pgregory.net/rapid"
)

func TestConfigMergePrecedence(t *testing.T) {
	// Generator for a non-empty string field value.
	nonEmptyString := rapid.StringMatching(`[a-zA-Z0-9/_.-]{1,20}`)

	// Generator for a Config with all string fields either empty or non-empty.
	configGen := rapid.Custom(func(t *rapid.T) *Config {
		// Each field is independently either empty or a non-empty value.
		cfg := &Config{}
		if rapid.Bool().Draw(t, "hasLogDir") {
			cfg.LogDir = nonEmptyString.Draw(t, "logDir")
		}
		if rapid.Bool().Draw(t, "hasOutputDir") {
			cfg.OutputDir = nonEmptyString.Draw(t, "outputDir")
		}
		if rapid.Bool().Draw(t, "hasRepo") {
			cfg.Repo = nonEmptyString.Draw(t, "repo")
		}
		return cfg
	})

	rapid.Check(t, func(t *rapid.T) {
		global := configGen.Draw(t, "global")
		project := configGen.Draw(t, "project")

		merged := Merge(global, project)
		defaults := Defaults()

		checkStringField(t, "LogDir",
			global.LogDir, project.LogDir, defaults.LogDir,
			merged.LogDir)

		checkStringField(t, "OutputDir",
			global.OutputDir, project.OutputDir, defaults.OutputDir,
			merged.OutputDir)

		checkStringField(t, "Repo",
			global.Repo, project.Repo, defaults.Repo,
			merged.Repo)
	})
}

// checkStringField asserts the merge precedence rule for a single string field:
//   - project non-empty  → merged == project
//   - project empty, global non-empty → merged == global
//   - both empty → merged == defaultVal
func checkStringField(t *rapid.T, name, globalVal, projectVal, defaultVal, mergedVal string) {
	t.Helper()
	switch {
	case projectVal != "":
		if mergedVal != projectVal {
			t.Fatalf("%s: both set — expected project value %q, got %q", name, projectVal, mergedVal)
		}
	case globalVal != "":
		if mergedVal != globalVal {
			t.Fatalf("%s: only global set — expected global value %q, got %q", name, globalVal, mergedVal)
		}
	default:
		if mergedVal != defaultVal {
			t.Fatalf("%s: neither set — expected default %q, got %q", name, defaultVal, mergedVal)
		}
	}
}

func TestMergeSliceFields(t *testing.T) {
	global := &Config{Labels: []string{"feedback"}, RedactPatterns: []string{`secret-\d+`}}
	project := &Config{Labels: []string{"bug", "cli"}}

	merged := Merge(global, project)
	if len(merged.Labels) != 2 || merged.Labels[0] != "bug" {
		t.Errorf("Labels: expected project labels to win, got %v", merged.Labels)
	}
	if len(merged.RedactPatterns) != 1 || merged.RedactPatterns[0] != `secret-\d+` {
		t.Errorf("RedactPatterns: expected global patterns to survive, got %v", merged.RedactPatterns)
	}
}

func TestDefaultsValues(t *testing.T) {
	d := Defaults()
	if d.OutputDir != "feedback" {
		t.Errorf("OutputDir: want %q, got %q", "feedback", d.OutputDir)
	}
	if d.LogDir != "" {
		t.Errorf("LogDir: want empty, got %q", d.LogDir)
	}
}

func TestLoadGlobalMissingFileReturnsDefaults(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config, got nil")
	}
	defaults := Defaults()
	if cfg.OutputDir != defaults.OutputDir {
		t.Errorf("OutputDir: want %q, got %q", defaults.OutputDir, cfg.OutputDir)
	}
}

func TestLoadProjectMissingFileReturnsNil(t *testing.T) {
	tmp := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(orig) })

	cfg, err := LoadProject()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected nil config, got %+v", cfg)
	}
}

func TestLoadGlobalParseError(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	// Write an invalid JSON file where LoadGlobal expects it.
	cfgDir := tmp + "/.config/recap"
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfgDir+"/config.json", []byte("{invalid json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadGlobal()
	if err == nil {
		t.Fatal("expected an error for invalid JSON, got nil")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("expected *ParseError, got %T: %v", err, err)
	}
}

func TestSaveGlobalRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	want := &Config{
		LogDir:    "/var/log/assistant",
		OutputDir: "out",
		Repo:      "octo/feedback",
		Labels:    []string{"feedback"},
	}
	if err := SaveGlobal(want); err != nil {
		t.Fatalf("SaveGlobal: %v", err)
	}

	got, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if got.LogDir != want.LogDir || got.OutputDir != want.OutputDir || got.Repo != want.Repo {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}
