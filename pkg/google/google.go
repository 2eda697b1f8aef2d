package google

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type ItfGoogle interface {
	ReadRange(ctx context.Context, spreadsheetID, readRange string) ([][]string, error)
}

type googleProvider struct {
	sheets *sheets.Service
}

// New builds a Sheets reader from a service account file
// (GOOGLE_SHEETS_CREDENTIALS) or an API key (GOOGLE_API_KEY) for public sheets.
func New(ctx context.Context) (ItfGoogle, error) {
	var opts []option.ClientOption

	if path := os.Getenv("GOOGLE_SHEETS_CREDENTIALS"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read google credentials: %w", err)
		}

		creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("invalid google credentials: %w", err)
		}
		opts = append(opts, option.WithCredentials(creds))
	} else if apiKey := os.Getenv("GOOGLE_API_KEY"); apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	} else {
		return nil, errors.New("google sheets credentials are not configured")
	}

	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &googleProvider{sheets: srv}, nil
}

func (g *googleProvider) ReadRange(ctx context.Context, spreadsheetID, readRange string) ([][]string, error) {
	resp, err := g.sheets.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", spreadsheetID, err)
	}

	return ValuesToRows(resp.Values), nil
}

// ValuesToRows flattens the loosely typed cell values returned by the API.
func ValuesToRows(values [][]interface{}) [][]string {
	rows := make([][]string, 0, len(values))
	for _, row := range values {
		cells := make([]string, len(row))
		for i, cell := range row {
			if cell == nil {
				continue
			}
			cells[i] = fmt.Sprint(cell)
		}
		rows = append(rows, cells)
	}
	return rows
}
