package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/arcana-cli/internal/core/domain"
)

var readingCmd = &cobra.Command{
	Use:   "reading",
	Short: "Manage saved readings",
	Long: `List, show and delete the readings saved in your spreadsheet.

Examples:
  arcana reading list
  arcana reading show 20240115-143000-9f8a3c21
  arcana reading delete 20240115-143000-9f8a3c21
  arcana reading cleanup`,
}

var readingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved readings",
	RunE:  runReadingList,
}

var readingShowCmd = &cobra.Command{
	Use:   "show [reading-id]",
	Short: "Show a saved reading in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runReadingShow,
}

var readingDeleteCmd = &cobra.Command{
	Use:   "delete [reading-id]",
	Short: "Delete a saved reading",
	Args:  cobra.ExactArgs(1),
	RunE:  runReadingDelete,
}

var readingCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove malformed rows from the spreadsheet",
	Long: `Removes rows that cannot be read as readings, such as rows left
half-written by an interrupted save or edited by hand. Well-formed
readings are never touched.`,
	RunE: runReadingCleanup,
}

func init() {
	readingCmd.AddCommand(readingListCmd)
	readingCmd.AddCommand(readingShowCmd)
	readingCmd.AddCommand(readingDeleteCmd)
	readingCmd.AddCommand(readingCleanupCmd)
	rootCmd.AddCommand(readingCmd)
}

func runReadingList(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	readings, err := sessionService.Readings(context.Background())
	if err != nil {
		return describeReadError(err)
	}

	if len(readings) == 0 {
		cmd.Println("No saved readings.")
		return nil
	}

	for i := range readings {
		r := &readings[i]
		cmd.Printf("%s  %s %s  %s\n", r.ID, r.Date, r.Time, summarise(r.Question, 48))
	}
	cmd.Printf("\n%d reading(s)\n", len(readings))
	return nil
}

func runReadingShow(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	readings, err := sessionService.Readings(context.Background())
	if err != nil {
		return describeReadError(err)
	}

	for i := range readings {
		r := &readings[i]
		if r.ID != args[0] {
			continue
		}

		cmd.Printf("Reading %s (%s %s)\n", r.ID, r.Date, r.Time)
		if r.Question != "" {
			cmd.Printf("Question: %s\n", r.Question)
		}
		if len(r.Cards) > 0 {
			names := make([]string, len(r.Cards))
			for j, card := range r.Cards {
				names[j] = card.DisplayName()
			}
			cmd.Printf("Cards: %s\n", strings.Join(names, ", "))
		}
		cmd.Println()
		cmd.Println(r.Answer)
		return nil
	}

	return fmt.Errorf("reading not found: %s", args[0])
}

func runReadingDelete(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	err := sessionService.DeleteReading(context.Background(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return fmt.Errorf("reading not found: %s", args[0])
		}
		return describeReadError(err)
	}

	cmd.Printf("Deleted reading %s\n", args[0])
	return nil
}

func runReadingCleanup(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	removed, err := sessionService.CleanupMalformedRows(context.Background())
	if err != nil {
		return describeReadError(err)
	}

	if removed == 0 {
		cmd.Println("No malformed rows found.")
	} else {
		cmd.Printf("Removed %d malformed row(s).\n", removed)
	}
	return nil
}

// describeReadError turns the typed persistence errors into actionable
// messages.
func describeReadError(err error) error {
	switch {
	case errors.Is(err, domain.ErrAuthRequired):
		return errors.New("session expired; run: arcana auth sign-in")
	case errors.Is(err, domain.ErrResourceNotFound):
		return errors.New("the readings spreadsheet is missing; it will be recreated on the next save")
	case errors.Is(err, domain.ErrTransientNetwork):
		return fmt.Errorf("network problem, try again: %w", err)
	default:
		return err
	}
}

// summarise truncates a question for the list view.
func summarise(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
