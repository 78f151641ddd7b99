package ledger

import (
	"context"

	"github.com/riefgeister/expansbot/internal/model"
)

// Gateway is the append-only expense store consumed by the dialog and stats
// services. Append writes one row preserving the entry column order; ReadAll
// returns every stored row, in storage order, as raw string cells.
type Gateway interface {
	Append(ctx context.Context, entry model.LedgerEntry) error
	ReadAll(ctx context.Context) ([][]string, error)
}
