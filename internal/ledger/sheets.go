package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/riefgeister/expansbot/internal/model"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

// SheetsGateway stores the ledger in a single worksheet of a Google
// spreadsheet, one entry per row over columns A:E.
type SheetsGateway struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsGateway builds a gateway over the given spreadsheet and worksheet
// using service account credentials.
func NewSheetsGateway(ctx context.Context, spreadsheetID, sheetName string, credentialsJSON []byte) (*SheetsGateway, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsGateway{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func (g *SheetsGateway) Append(ctx context.Context, entry model.LedgerEntry) error {
	row := entry.Row()
	cells := make([]any, len(row))
	for i, c := range row {
		cells[i] = c
	}

	vr := &sheets.ValueRange{Values: [][]any{cells}}
	rng := fmt.Sprintf("%s!A:E", g.sheetName)
	_, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", g.sheetName, err)
	}
	return nil
}

func (g *SheetsGateway) ReadAll(ctx context.Context) ([][]string, error) {
	rng := fmt.Sprintf("%s!A:E", g.sheetName)
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", g.sheetName, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = strings.TrimSpace(fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}
