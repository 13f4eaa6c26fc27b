// Command fox is the command line front end for the Fox language.
package main

import (
	"os"

	"github.com/dhamidi/fox/config"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.4.0"

// settings is shared by every command. It is filled from the
// environment and then from the persistent flags that were set.
type settings struct {
	config.Config
	verbose int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	s := &settings{Config: config.Load()}

	rootCmd := &cobra.Command{
		Use:          "fox",
		Short:        "Lexer, parser and language server for Fox",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.apply(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&s.verbose, "verbose", "v", "log more (repeat for debug output)")
	flags.StringVar(&s.LogFile, "log", s.LogFile, "write logs to this file instead of stderr")
	flags.IntVar(&s.ErrorLimit, "error-limit", s.ErrorLimit, "stop reporting after this many errors per file (0 for no limit)")
	flags.IntVar(&s.MaxTokens, "max-tokens", s.MaxTokens, "reject files with more tokens (0 for no limit)")
	flags.BoolVar(&s.NoRecovery, "no-recovery", s.NoRecovery, "stop parsing at the first syntax error")

	rootCmd.AddCommand(newTokensCmd(s))
	rootCmd.AddCommand(newParseCmd(s))
	rootCmd.AddCommand(newCheckCmd(s))
	rootCmd.AddCommand(newGrammarCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newLSPCmd(s))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func (s *settings) apply(cmd *cobra.Command) error {
	if cmd.Flags().Changed("verbose") {
		s.LogVerbosity = s.verbose
	}
	var path *string
	if s.LogFile != "" {
		path = &s.LogFile
	}
	commonlog.Configure(s.LogVerbosity, path)
	return nil
}
