package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/arcana-cli/internal/core/domain"
	"github.com/custodia-labs/arcana-cli/internal/logger"
)

var (
	askCards    int
	askLanguage string
	askNoSave   bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Draw cards and get a reading",
	Long: `Draws a spread from the major arcana, asks the configured AI backend
for an interpretation, and saves the reading to your spreadsheet.

The question is optional; an open reading is drawn without one.

Examples:
  arcana ask "Should I take the new job?"
  arcana ask --cards 1 "Card of the day?"
  arcana ask --language pt-BR "O que me espera?"
  arcana ask --no-save "Just curious"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(
		&askCards, "cards", "c", domain.MaxCards, "Number of cards to draw (1-3)")
	askCmd.Flags().StringVarP(
		&askLanguage, "language", "l", "", "Locale tag for the answer (default from config, else en)")
	askCmd.Flags().BoolVar(
		&askNoSave, "no-save", false, "Skip saving the reading to the spreadsheet")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if readingService == nil {
		return errors.New("reading service not configured")
	}

	question := ""
	if len(args) > 0 {
		question = strings.TrimSpace(args[0])
	}

	language := askLanguage
	if language == "" && configStore != nil {
		language = configStore.GetString("reading.language")
	}
	if language == "" {
		language = "en"
	}

	ctx := context.Background()
	cards := domain.Draw(askCards)

	cmd.Println("Your cards:")
	for i, card := range cards {
		cmd.Printf("  %d. %s\n", i+1, card.DisplayName())
	}
	cmd.Println()

	answer, err := readingService.Generate(ctx, cards, question, language)
	if err != nil {
		if errors.Is(err, domain.ErrReadingUnavailable) {
			return errors.New("no AI backend configured; set provider.backend in the config")
		}
		return fmt.Errorf("generate reading: %w", err)
	}

	cmd.Println(answer)

	if askNoSave {
		return nil
	}
	if sessionService == nil || sessionService.Session() == nil {
		logger.Info("Not signed in; reading was not saved.")
		return nil
	}

	reading := domain.NewReading(question, cards, answer, language, time.Now())
	if err := sessionService.SaveReading(ctx, reading); err != nil {
		// The reading was already shown. Losing the save is worth a
		// warning, not a failed command.
		logger.Warn("Could not save the reading: %v", err)
		return nil
	}

	cmd.Println()
	cmd.Printf("Saved as %s\n", reading.ID)
	return nil
}
