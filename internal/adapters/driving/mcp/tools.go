package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/arcana-cli/internal/core/domain"
)

// DrawReadingInput is the input schema for the draw_reading tool.
type DrawReadingInput struct {
	Question string `json:"question,omitempty" jsonschema:"the querent's question, may be empty for an open reading"`
	Cards    int    `json:"cards,omitempty" jsonschema:"number of cards to draw, 1-3 (default 3)"`
	Language string `json:"language,omitempty" jsonschema:"locale tag for the answer (default en)"`
	Save     bool   `json:"save,omitempty" jsonschema:"save the reading to the spreadsheet when signed in"`
}

// CardOutput represents one drawn card.
type CardOutput struct {
	Name     string `json:"name"`
	Reversed bool   `json:"reversed,omitempty"`
}

// DrawReadingOutput is the output schema for the draw_reading tool.
type DrawReadingOutput struct {
	ID     string       `json:"id,omitempty"`
	Cards  []CardOutput `json:"cards"`
	Answer string       `json:"answer"`
	Saved  bool         `json:"saved"`
}

// ListReadingsInput is the input schema for the list_readings tool.
type ListReadingsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of readings to return, newest last (default all)"`
}

// ReadingOutput represents one saved reading.
type ReadingOutput struct {
	ID       string       `json:"id"`
	Date     string       `json:"date"`
	Time     string       `json:"time"`
	Question string       `json:"question,omitempty"`
	Cards    []CardOutput `json:"cards,omitempty"`
	Answer   string       `json:"answer"`
}

// ListReadingsOutput is the output schema for the list_readings tool.
type ListReadingsOutput struct {
	Readings []ReadingOutput `json:"readings"`
	Count    int             `json:"count"`
}

// DeleteReadingInput is the input schema for the delete_reading tool.
type DeleteReadingInput struct {
	ID string `json:"id" jsonschema:"the id of the reading to delete"`
}

// DeleteReadingOutput is the output schema for the delete_reading tool.
type DeleteReadingOutput struct {
	Deleted bool `json:"deleted"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "draw_reading",
		Description: "Draw a tarot spread and generate an interpretation",
	}, s.handleDrawReading)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_readings",
		Description: "List the saved tarot readings",
	}, s.handleListReadings)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_reading",
		Description: "Delete a saved tarot reading by id",
	}, s.handleDeleteReading)
}

// handleDrawReading handles the draw_reading tool invocation.
func (s *Server) handleDrawReading(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DrawReadingInput,
) (*mcp.CallToolResult, DrawReadingOutput, error) {
	count := input.Cards
	if count <= 0 {
		count = domain.MaxCards
	}
	language := input.Language
	if language == "" {
		language = "en"
	}

	cards := domain.Draw(count)

	answer, err := s.ports.Reading.Generate(ctx, cards, input.Question, language)
	if err != nil {
		return nil, DrawReadingOutput{}, err
	}

	output := DrawReadingOutput{
		Cards:  toCardOutputs(cards),
		Answer: answer,
	}

	if input.Save && s.ports.Session != nil && s.ports.Session.Session() != nil {
		reading := domain.NewReading(input.Question, cards, answer, language, time.Now())
		if err := s.ports.Session.SaveReading(ctx, reading); err != nil {
			return nil, DrawReadingOutput{}, fmt.Errorf("save reading: %w", err)
		}
		output.ID = reading.ID
		output.Saved = true
	}

	return nil, output, nil
}

// handleListReadings handles the list_readings tool invocation.
func (s *Server) handleListReadings(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListReadingsInput,
) (*mcp.CallToolResult, ListReadingsOutput, error) {
	if s.ports.Session == nil {
		return nil, ListReadingsOutput{}, fmt.Errorf("not signed in, readings are unavailable")
	}

	readings, err := s.ports.Session.Readings(ctx)
	if err != nil {
		return nil, ListReadingsOutput{}, err
	}

	if input.Limit > 0 && len(readings) > input.Limit {
		readings = readings[len(readings)-input.Limit:]
	}

	output := ListReadingsOutput{
		Readings: make([]ReadingOutput, len(readings)),
		Count:    len(readings),
	}
	for i := range readings {
		output.Readings[i] = ReadingOutput{
			ID:       readings[i].ID,
			Date:     readings[i].Date,
			Time:     readings[i].Time,
			Question: readings[i].Question,
			Cards:    toCardOutputs(readings[i].Cards),
			Answer:   readings[i].Answer,
		}
	}

	return nil, output, nil
}

// handleDeleteReading handles the delete_reading tool invocation.
func (s *Server) handleDeleteReading(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteReadingInput,
) (*mcp.CallToolResult, DeleteReadingOutput, error) {
	if s.ports.Session == nil {
		return nil, DeleteReadingOutput{}, fmt.Errorf("not signed in, readings are unavailable")
	}

	if err := s.ports.Session.DeleteReading(ctx, input.ID); err != nil {
		return nil, DeleteReadingOutput{}, err
	}

	return nil, DeleteReadingOutput{Deleted: true}, nil
}

func toCardOutputs(cards []domain.Card) []CardOutput {
	out := make([]CardOutput, len(cards))
	for i, card := range cards {
		out[i] = CardOutput{Name: card.Name, Reversed: card.Reversed}
	}
	return out
}
