package service

import (
	"context"
	"fmt"
	"time"

	"github.com/riefgeister/expansbot/internal/ledger"
	"github.com/riefgeister/expansbot/internal/model"
)

// Reply is what the dialog wants said back to the user. When Categories is
// non-empty the transport renders them as a selectable list.
type Reply struct {
	Text       string
	Categories []string
}

// Dialog drives the two-step expense capture per user: ask for an amount,
// then a category, then append the completed entry to the ledger. Every
// terminal transition (recorded, cancelled, failed) clears the session.
type Dialog struct {
	sessions   *SessionStore
	gateway    ledger.Gateway
	categories []string
	now        func() time.Time
}

func NewDialog(sessions *SessionStore, gateway ledger.Gateway, categories []string) *Dialog {
	return &Dialog{
		sessions:   sessions,
		gateway:    gateway,
		categories: categories,
		now:        time.Now,
	}
}

// StartExpense begins the dialog, discarding whatever was pending before.
// Reentry always restarts cleanly.
func (d *Dialog) StartExpense(user model.User) Reply {
	d.sessions.Put(model.Session{UserID: user.ID, Stage: model.StageAwaitingAmount})
	return Reply{Text: "Type the sum:"}
}

// Cancel clears the user's session regardless of stage.
func (d *Dialog) Cancel(user model.User) Reply {
	d.sessions.Clear(user.ID)
	return Reply{Text: "Operation cancelled."}
}

// HandleText consumes free-text input. The returned bool is false when no
// dialog is in progress for the user, so the caller may ignore the message.
func (d *Dialog) HandleText(user model.User, text string) (Reply, bool) {
	sess := d.sessions.Get(user.ID)

	switch sess.Stage {
	case model.StageAwaitingAmount:
		amount, ok := ParseAmount(text)
		if !ok {
			return Reply{Text: "Sum is not recognized, try to insert the numeric value, e.g. 12.50"}, true
		}

		sess.Stage = model.StageAwaitingCategory
		sess.PendingAmount = amount
		d.sessions.Put(sess)
		return Reply{
			Text:       fmt.Sprintf("Sum: %s. Now select the category:", FormatAmount(amount)),
			Categories: d.categories,
		}, true

	case model.StageAwaitingCategory:
		// Only a selection from the offered list is valid here. Anything
		// else aborts the session; the amount is gone.
		d.sessions.Clear(user.ID)
		return Reply{Text: "Choice invalid, the sum was discarded. Start over with /expense"}, true

	default:
		return Reply{}, false
	}
}

// SelectCategory completes the dialog with an already-decoded category
// label. Every path through here is terminal, so the session is cleared up
// front.
func (d *Dialog) SelectCategory(ctx context.Context, user model.User, label string) Reply {
	sess := d.sessions.Get(user.ID)
	d.sessions.Clear(user.ID)

	if sess.Stage != model.StageAwaitingCategory || sess.PendingAmount <= 0 {
		return Reply{Text: "Sum not found, please try again: /expense"}
	}
	if !d.knownCategory(label) {
		return Reply{Text: "Choice invalid, the sum was discarded. Start over with /expense"}
	}

	entry := model.NewLedgerEntry(user, sess.PendingAmount, label, d.now())
	if err := d.gateway.Append(ctx, entry); err != nil {
		return Reply{Text: fmt.Sprintf("⚠️ Recording failed: %v", err)}
	}
	return Reply{Text: fmt.Sprintf("✅ Recorded: %s — %s", FormatAmount(entry.Amount), entry.Category)}
}

func (d *Dialog) knownCategory(label string) bool {
	for _, c := range d.categories {
		if c == label {
			return true
		}
	}
	return false
}
