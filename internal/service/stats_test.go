package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/carlmjohnson/be"
	"github.com/riefgeister/expansbot/internal/model"
)

// 2024-03-20 is a Wednesday.
var statsNow = time.Date(2024, 3, 20, 12, 0, 0, 0, time.Local)

func newTestAggregator(gw *fakeGateway) *Aggregator {
	a := NewAggregator(gw)
	a.now = func() time.Time { return statsNow }
	return a
}

func localStamp(day, hour int) string {
	return time.Date(2024, 3, day, hour, 0, 0, 0, time.Local).Format(model.TimestampLayout)
}

func marchRows() [][]string {
	return [][]string{
		{"Timestamp", "TelegramUserID", "Username", "Amount", "Category"},
		{localStamp(1, 10), "42", "alice", "10.00", "Food"},
		{localStamp(2, 9), "42", "alice", "5.50", "Food"},
		{localStamp(5, 9), "99", "bob", "3.00", "Rent"},
	}
}

func TestSummarizeScopeSelf(t *testing.T) {
	a := newTestAggregator(&fakeGateway{rows: marchRows()})

	summary, err := a.Summarize(context.Background(), model.User{ID: 42}, PeriodMonth, ScopeSelf)
	be.NilErr(t, err)
	be.False(t, summary.Empty())
	be.Equal(t, 15.50, summary.Total)
	be.Equal(t, 2, summary.Count)
	be.Equal(t, 1, len(summary.Breakdown))
	be.Equal(t, "Food", summary.Breakdown[0].Category)
	be.Equal(t, 15.50, summary.Breakdown[0].Total)
}

func TestSummarizeScopeAll(t *testing.T) {
	a := newTestAggregator(&fakeGateway{rows: marchRows()})

	summary, err := a.Summarize(context.Background(), model.User{ID: 42}, PeriodMonth, ScopeAll)
	be.NilErr(t, err)
	be.Equal(t, 18.50, summary.Total)
	be.Equal(t, 3, summary.Count)
	be.Equal(t, 2, len(summary.Breakdown))
	be.Equal(t, "Food", summary.Breakdown[0].Category)
	be.Equal(t, 15.50, summary.Breakdown[0].Total)
	be.Equal(t, "Rent", summary.Breakdown[1].Category)
	be.Equal(t, 3.00, summary.Breakdown[1].Total)
}

func TestSummarizeExplicitOffsetStamps(t *testing.T) {
	// Rows stored with explicit offsets, UTC and otherwise, must be
	// converted to local time before the window comparison. Mid-month
	// instants keep the month membership independent of the host zone.
	rows := [][]string{
		{"Timestamp", "TelegramUserID", "Username", "Amount", "Category"},
		{"2024-03-08T10:00:00+00:00", "42", "alice", "10.00", "Food"},
		{"2024-03-10T09:00:00Z", "42", "alice", "5.50", "Food"},
		{"2024-03-12T09:00:00+02:00", "99", "bob", "3.00", "Rent"},
	}
	a := newTestAggregator(&fakeGateway{rows: rows})

	summary, err := a.Summarize(context.Background(), model.User{ID: 42}, PeriodMonth, ScopeSelf)
	be.NilErr(t, err)
	be.Equal(t, 15.50, summary.Total)
	be.Equal(t, 2, summary.Count)
	be.Equal(t, 1, len(summary.Breakdown))
	be.Equal(t, "Food", summary.Breakdown[0].Category)

	summary, err = a.Summarize(context.Background(), model.User{ID: 42}, PeriodMonth, ScopeAll)
	be.NilErr(t, err)
	be.Equal(t, 18.50, summary.Total)
	be.Equal(t, 3, summary.Count)
	be.Equal(t, "Food", summary.Breakdown[0].Category)
	be.Equal(t, "Rent", summary.Breakdown[1].Category)
}

func TestSummarizeBreakdownSumsToTotal(t *testing.T) {
	a := newTestAggregator(&fakeGateway{rows: marchRows()})

	summary, err := a.Summarize(context.Background(), model.User{ID: 42}, PeriodMonth, ScopeAll)
	be.NilErr(t, err)

	var sum float64
	for _, ct := range summary.Breakdown {
		sum += ct.Total
	}
	be.Equal(t, summary.Total, sum)
}

func TestSummarizeEmptyWindow(t *testing.T) {
	a := newTestAggregator(&fakeGateway{rows: marchRows()})

	// Nothing on the 20th itself.
	summary, err := a.Summarize(context.Background(), model.User{ID: 42}, PeriodToday, ScopeAll)
	be.NilErr(t, err)
	be.True(t, summary.Empty())
	be.Zero(t, summary.Total)
	be.Equal(t, 0, len(summary.Breakdown))
	be.Equal(t, PeriodToday, summary.Period)
	be.Equal(t, ScopeAll, summary.Scope)
}

func TestSummarizeWeekWindow(t *testing.T) {
	rows := [][]string{
		// Monday the 18th is in the window, Sunday the 17th is not.
		{localStamp(18, 0), "1", "", "4.00", "Food"},
		{localStamp(17, 23), "1", "", "6.00", "Food"},
	}
	a := newTestAggregator(&fakeGateway{rows: rows})

	summary, err := a.Summarize(context.Background(), model.User{ID: 1}, PeriodWeek, ScopeSelf)
	be.NilErr(t, err)
	be.Equal(t, 1, summary.Count)
	be.Equal(t, 4.00, summary.Total)
}

func TestSummarizeSkipsBadRows(t *testing.T) {
	rows := [][]string{
		{"not a timestamp", "1", "", "4.00", "Food"},
		{localStamp(19, 10), "1", "", "many", "Food"},
		{localStamp(19, 11), "1", "", "2.00"}, // too few cells
		{localStamp(19, 12), "1", "", "2.50", "Food"},
	}
	a := newTestAggregator(&fakeGateway{rows: rows})

	summary, err := a.Summarize(context.Background(), model.User{ID: 1}, PeriodMonth, ScopeSelf)
	be.NilErr(t, err)
	be.Equal(t, 1, summary.Count)
	be.Equal(t, 2.50, summary.Total)
}

func TestSummarizeBlankCategoryIsUncategorized(t *testing.T) {
	rows := [][]string{
		{localStamp(19, 10), "1", "", "2.00", ""},
		{localStamp(19, 11), "1", "", "3.00", "  "},
	}
	a := newTestAggregator(&fakeGateway{rows: rows})

	summary, err := a.Summarize(context.Background(), model.User{ID: 1}, PeriodMonth, ScopeSelf)
	be.NilErr(t, err)
	be.Equal(t, 1, len(summary.Breakdown))
	be.Equal(t, "uncategorized", summary.Breakdown[0].Category)
	be.Equal(t, 5.00, summary.Breakdown[0].Total)
}

func TestSummarizeTiesKeepFirstSeenOrder(t *testing.T) {
	rows := [][]string{
		{localStamp(19, 10), "1", "", "5.00", "Travel"},
		{localStamp(19, 11), "1", "", "5.00", "Rent"},
		{localStamp(19, 12), "1", "", "9.00", "Food"},
	}
	a := newTestAggregator(&fakeGateway{rows: rows})

	summary, err := a.Summarize(context.Background(), model.User{ID: 1}, PeriodMonth, ScopeSelf)
	be.NilErr(t, err)
	be.Equal(t, "Food", summary.Breakdown[0].Category)
	be.Equal(t, "Travel", summary.Breakdown[1].Category)
	be.Equal(t, "Rent", summary.Breakdown[2].Category)
}

func TestSummarizeHeaderOnlySkippedInFirstRow(t *testing.T) {
	rows := [][]string{
		{"timestamp", "user", "name", "amount", "category"},
		{localStamp(19, 10), "1", "", "2.00", "Food"},
	}
	a := newTestAggregator(&fakeGateway{rows: rows})

	summary, err := a.Summarize(context.Background(), model.User{ID: 1}, PeriodMonth, ScopeSelf)
	be.NilErr(t, err)
	be.Equal(t, 1, summary.Count)
}

func TestSummarizeReadFailure(t *testing.T) {
	a := newTestAggregator(&fakeGateway{readErr: errors.New("quota exceeded")})

	_, err := a.Summarize(context.Background(), model.User{ID: 1}, PeriodMonth, ScopeSelf)
	be.Nonzero(t, err)
}

func TestParseStatsQuery(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		period Period
		scope  Scope
	}{
		{name: "defaults", tokens: nil, period: PeriodMonth, scope: ScopeSelf},
		{name: "today", tokens: []string{"today"}, period: PeriodToday, scope: ScopeSelf},
		{name: "week", tokens: []string{"week"}, period: PeriodWeek, scope: ScopeSelf},
		{name: "month", tokens: []string{"month"}, period: PeriodMonth, scope: ScopeSelf},
		{name: "first period wins", tokens: []string{"week", "today"}, period: PeriodWeek, scope: ScopeSelf},
		{name: "scope anywhere", tokens: []string{"all"}, period: PeriodMonth, scope: ScopeAll},
		{name: "scope after period", tokens: []string{"today", "all"}, period: PeriodToday, scope: ScopeAll},
		{name: "scope before period", tokens: []string{"all", "week"}, period: PeriodWeek, scope: ScopeAll},
		{name: "unknown tokens ignored", tokens: []string{"bogus", "today", "x"}, period: PeriodToday, scope: ScopeSelf},
		{name: "case insensitive", tokens: []string{"TODAY", "All"}, period: PeriodToday, scope: ScopeAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			period, scope := ParseStatsQuery(tt.tokens)
			be.Equal(t, tt.period, period)
			be.Equal(t, tt.scope, scope)
		})
	}
}

func TestWindowStart(t *testing.T) {
	be.True(t, windowStart(statsNow, PeriodToday).
		Equal(time.Date(2024, 3, 20, 0, 0, 0, 0, time.Local)))
	be.True(t, windowStart(statsNow, PeriodWeek).
		Equal(time.Date(2024, 3, 18, 0, 0, 0, 0, time.Local)))
	be.True(t, windowStart(statsNow, PeriodMonth).
		Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)))

	// A Monday is day 0 of its own week.
	monday := time.Date(2024, 3, 18, 8, 0, 0, 0, time.Local)
	be.True(t, windowStart(monday, PeriodWeek).
		Equal(time.Date(2024, 3, 18, 0, 0, 0, 0, time.Local)))

	// A Sunday reaches back six days.
	sunday := time.Date(2024, 3, 24, 8, 0, 0, 0, time.Local)
	be.True(t, windowStart(sunday, PeriodWeek).
		Equal(time.Date(2024, 3, 18, 0, 0, 0, 0, time.Local)))
}

func TestParseTimestamp(t *testing.T) {
	t.Run("trailing Z is UTC", func(t *testing.T) {
		got, ok := parseTimestamp("2024-03-01T10:00:00Z")
		be.True(t, ok)
		be.True(t, got.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))
	})

	t.Run("explicit offset", func(t *testing.T) {
		got, ok := parseTimestamp("2024-03-01T10:00:00+02:00")
		be.True(t, ok)
		be.True(t, got.Equal(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)))
	})

	t.Run("no offset means local", func(t *testing.T) {
		got, ok := parseTimestamp("2024-03-01T10:00:00")
		be.True(t, ok)
		be.True(t, got.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)))
	})

	t.Run("garbage", func(t *testing.T) {
		_, ok := parseTimestamp("yesterday-ish")
		be.False(t, ok)
	})
}
