package config

import (
	"runtime"
	"testing"

	"github.com/xyproto/env/v2"
)

func setenv(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}
	// env caches the environment.
	env.Load()
	t.Cleanup(env.Load)
}

func TestLoadDefaults(t *testing.T) {
	setenv(t, map[string]string{
		EnvLogVerbosity: "",
		EnvErrorLimit:   "",
		EnvMaxTokens:    "",
		EnvNoRecovery:   "",
		EnvWorkers:      "",
	})
	got := Load()
	if got.ErrorLimit != 20 || got.MaxTokens != 0 || got.NoRecovery {
		t.Errorf("got %+v, want defaults", got)
	}
	if got.Workers != runtime.NumCPU() {
		t.Errorf("got %d workers, want %d", got.Workers, runtime.NumCPU())
	}
	if opts := got.ParserOptions(); len(opts) != 0 {
		t.Errorf("got %d parser options, want none", len(opts))
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	setenv(t, map[string]string{
		EnvLogVerbosity: "2",
		EnvLogFile:      "/tmp/fox.log",
		EnvErrorLimit:   "5",
		EnvMaxTokens:    "1000",
		EnvNoRecovery:   "true",
		EnvWorkers:      "3",
	})
	got := Load()
	want := Config{
		LogVerbosity: 2,
		LogFile:      "/tmp/fox.log",
		ErrorLimit:   5,
		MaxTokens:    1000,
		NoRecovery:   true,
		Workers:      3,
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if opts := got.ParserOptions(); len(opts) != 1 {
		t.Errorf("got %d parser options, want 1", len(opts))
	}
}

func TestLoadRejectsNonsense(t *testing.T) {
	setenv(t, map[string]string{
		EnvErrorLimit: "-4",
		EnvMaxTokens:  "lots",
		EnvWorkers:    "0",
	})
	got := Load()
	if got.ErrorLimit != 0 {
		t.Errorf("got error limit %d, want 0", got.ErrorLimit)
	}
	if got.MaxTokens != 0 {
		t.Errorf("got max tokens %d, want 0", got.MaxTokens)
	}
	if got.Workers != runtime.NumCPU() {
		t.Errorf("got %d workers, want %d", got.Workers, runtime.NumCPU())
	}
}
