package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/riefgeister/expansbot/internal/model"
	"github.com/supabase-community/supabase-go"
)

// SupabaseGateway stores the ledger in a Postgres table behind Supabase.
// The table needs an identity column `id` plus text columns matching
// supabaseRow; `id` order stands in for storage order on reads.
type SupabaseGateway struct {
	client *supabase.Client
	table  string
}

type supabaseRow struct {
	ID          int64  `json:"id,omitempty"`
	Timestamp   string `json:"timestamp"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
}

func NewSupabaseGateway(url, key, table string) (*SupabaseGateway, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, err
	}

	return &SupabaseGateway{
		client: client,
		table:  table,
	}, nil
}

func (g *SupabaseGateway) Append(ctx context.Context, entry model.LedgerEntry) error {
	cells := entry.Row()
	row := supabaseRow{
		Timestamp:   cells[0],
		UserID:      cells[1],
		DisplayName: cells[2],
		Amount:      cells[3],
		Category:    cells[4],
	}

	_, count, err := g.client.From(g.table).Insert(row, false, "", "minimal", "").ExecuteWithContext(ctx)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", g.table, err)
	}
	_ = count
	return nil
}

func (g *SupabaseGateway) ReadAll(ctx context.Context) ([][]string, error) {
	data, count, err := g.client.From(g.table).
		Select("*", "", false).
		Order("id.asc", nil).
		ExecuteWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", g.table, err)
	}
	_ = count

	var records []supabaseRow
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse rows from %s: %w", g.table, err)
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Timestamp, r.UserID, r.DisplayName, r.Amount, r.Category})
	}
	return rows, nil
}
