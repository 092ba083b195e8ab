// Package cli provides the cobra command tree for the arcana binary.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/arcana-cli/internal/core/ports/driven"
	"github.com/custodia-labs/arcana-cli/internal/core/ports/driving"
	"github.com/custodia-labs/arcana-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services injected by main before Execute.
var (
	sessionService driving.SessionService
	readingService driving.ReadingService
	configStore    driven.ConfigStore
	promptStore    driven.PromptStore
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "arcana",
	Short: "Tarot readings from your terminal",
	Long: `Arcana draws tarot spreads, interprets them with an AI backend, and
keeps your reading history in a Google spreadsheet you own (or a local
database in offline mode).

Start with:
  arcana auth sign-in     # connect your Google account
  arcana ask "question"   # draw cards and get a reading`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(
		&verboseFlag, "verbose", "v", false, "Enable verbose logging")
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetServices injects the application services. Must be called before
// Execute.
func SetServices(
	session driving.SessionService,
	reading driving.ReadingService,
	config driven.ConfigStore,
	prompts driven.PromptStore,
) {
	sessionService = session
	readingService = reading
	configStore = config
	promptStore = prompts
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
