package model

import (
	"strconv"
	"time"
)

// TimestampLayout is how entry timestamps are stored: ISO-8601 with the
// local offset, second precision.
const TimestampLayout = "2006-01-02T15:04:05-07:00"

// maxDisplayName caps the stored display name length.
const maxDisplayName = 64

// LedgerEntry is one recorded expense. The ledger is append-only: entries
// are never mutated or deleted once written.
type LedgerEntry struct {
	Timestamp   time.Time
	UserID      string
	DisplayName string
	Amount      float64
	Category    string
}

// NewLedgerEntry builds an entry for the given user, amount and category,
// stamped with the given time.
func NewLedgerEntry(user User, amount float64, category string, now time.Time) LedgerEntry {
	name := user.DisplayName
	// Truncation counts characters, not bytes; a multibyte name must not
	// be cut mid-rune.
	if runes := []rune(name); len(runes) > maxDisplayName {
		name = string(runes[:maxDisplayName])
	}
	return LedgerEntry{
		Timestamp:   now,
		UserID:      user.Key(),
		DisplayName: name,
		Amount:      amount,
		Category:    category,
	}
}

// Row returns the entry as spreadsheet cells in the stored column order:
// timestamp, user id, display name, amount, category.
func (e LedgerEntry) Row() []string {
	return []string{
		e.Timestamp.Format(TimestampLayout),
		e.UserID,
		e.DisplayName,
		strconv.FormatFloat(e.Amount, 'f', 2, 64),
		e.Category,
	}
}
