package model

// Stage is the position of a user inside the expense dialog.
type Stage int

const (
	StageIdle Stage = iota
	StageAwaitingAmount
	StageAwaitingCategory
)

// Session tracks one user's progress through the expense dialog. Sessions
// are transient per-process state; losing one on restart is surfaced to the
// user as a restart instruction rather than persisted around.
type Session struct {
	UserID        int64
	Stage         Stage
	PendingAmount float64
}
