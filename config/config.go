// Package config reads the FOX_* environment variables that tune the
// command line tools and the language server. Command line flags take
// precedence; they are applied by the caller after Load.
package config

import (
	"runtime"

	"github.com/dhamidi/fox/fox/diag"
	"github.com/dhamidi/fox/fox/parser"
	"github.com/xyproto/env/v2"
)

const (
	EnvLogVerbosity = "FOX_LOG_VERBOSITY"
	EnvLogFile      = "FOX_LOG_FILE"
	EnvErrorLimit   = "FOX_ERROR_LIMIT"
	EnvMaxTokens    = "FOX_MAX_TOKENS"
	EnvNoRecovery   = "FOX_NO_RECOVERY"
	EnvWorkers      = "FOX_WORKERS"
)

type Config struct {
	// LogVerbosity is passed to commonlog.Configure. 0 logs errors only.
	LogVerbosity int
	// LogFile is empty for stderr.
	LogFile string
	// ErrorLimit stops diagnostics after that many errors per file.
	// Zero means unlimited.
	ErrorLimit int
	// MaxTokens rejects files with more tokens before parsing.
	// Zero means unlimited.
	MaxTokens int
	// NoRecovery makes the parser stop at the first error.
	NoRecovery bool
	Workers    int
}

func Default() Config {
	return Config{
		ErrorLimit: 20,
		Workers:    runtime.NumCPU(),
	}
}

// Load returns Default overridden by the environment.
func Load() Config {
	c := Default()
	c.LogVerbosity = env.Int(EnvLogVerbosity, c.LogVerbosity)
	c.LogFile = env.Str(EnvLogFile, c.LogFile)
	c.ErrorLimit = nonNegative(env.Int(EnvErrorLimit, c.ErrorLimit))
	c.MaxTokens = nonNegative(env.Int(EnvMaxTokens, c.MaxTokens))
	c.NoRecovery = env.Bool(EnvNoRecovery)
	if w := env.Int(EnvWorkers, c.Workers); w > 0 {
		c.Workers = w
	}
	return c
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func (c Config) EngineOptions() []diag.EngineOption {
	return []diag.EngineOption{diag.WithErrorLimit(c.ErrorLimit)}
}

func (c Config) ParserOptions() []parser.Option {
	if c.NoRecovery {
		return []parser.Option{parser.WithoutRecovery()}
	}
	return nil
}
