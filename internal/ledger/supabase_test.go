package ledger

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/carlmjohnson/be"
	"github.com/riefgeister/expansbot/internal/model"
)

// Gateway calls must honor caller cancellation: with an already-cancelled
// context the request fails with context.Canceled instead of attempting the
// connection.
func TestSupabaseGatewayHonorsContext(t *testing.T) {
	g, err := NewSupabaseGateway("http://127.0.0.1:9", "key", "expenses")
	be.NilErr(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	entry := model.NewLedgerEntry(model.User{ID: 1, DisplayName: "alice"}, 5, "Food", time.Now())
	err = g.Append(ctx, entry)
	be.Nonzero(t, err)
	be.True(t, strings.Contains(err.Error(), "context canceled"))

	_, err = g.ReadAll(ctx)
	be.Nonzero(t, err)
	be.True(t, strings.Contains(err.Error(), "context canceled"))
}
