package model

import "strconv"

// User identifies the chat participant as reported by the transport.
type User struct {
	ID          int64
	DisplayName string
}

// Key is the string form of the identity used in ledger rows.
func (u User) Key() string {
	return strconv.FormatInt(u.ID, 10)
}
