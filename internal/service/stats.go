package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riefgeister/expansbot/internal/ledger"
	"github.com/riefgeister/expansbot/internal/model"
)

// Period anchors the aggregation window at local midnight of today, the
// most recent Monday, or the 1st of the current month.
type Period int

const (
	PeriodMonth Period = iota
	PeriodWeek
	PeriodToday
)

func (p Period) String() string {
	switch p {
	case PeriodToday:
		return "today"
	case PeriodWeek:
		return "week"
	default:
		return "month"
	}
}

// Scope filters aggregation to the caller's own rows or everyone's.
type Scope int

const (
	ScopeSelf Scope = iota
	ScopeAll
)

func (s Scope) String() string {
	if s == ScopeAll {
		return "all"
	}
	return "self"
}

// ParseStatsQuery reads free-form stats arguments. The first period keyword
// wins, "all" anywhere widens the scope, anything else is ignored.
func ParseStatsQuery(tokens []string) (Period, Scope) {
	period, scope := PeriodMonth, ScopeSelf
	periodSet := false

	for _, tok := range tokens {
		switch strings.ToLower(strings.TrimSpace(tok)) {
		case "today":
			if !periodSet {
				period, periodSet = PeriodToday, true
			}
		case "week":
			if !periodSet {
				period, periodSet = PeriodWeek, true
			}
		case "month":
			if !periodSet {
				period, periodSet = PeriodMonth, true
			}
		case "all":
			scope = ScopeAll
		}
	}
	return period, scope
}

// CategoryTotal is one line of the per-category breakdown.
type CategoryTotal struct {
	Category string
	Total    float64
}

// Summary is the aggregation result for one period and scope. Count == 0
// means no qualifying expenses; Total and Breakdown carry no data then.
type Summary struct {
	Period    Period
	Scope     Scope
	Total     float64
	Count     int
	Breakdown []CategoryTotal
}

// Empty reports whether the window held no qualifying expenses.
func (s *Summary) Empty() bool {
	return s.Count == 0
}

// Aggregator computes period-scoped summaries over the full ledger history.
// It never mutates the ledger.
type Aggregator struct {
	gateway ledger.Gateway
	now     func() time.Time
}

func NewAggregator(gateway ledger.Gateway) *Aggregator {
	return &Aggregator{
		gateway: gateway,
		now:     time.Now,
	}
}

// Summarize reads the whole ledger once and folds the qualifying rows into
// a Summary. Rows that fail to parse are skipped, not errors; a failed read
// aborts the whole aggregation with no partial result.
func (a *Aggregator) Summarize(ctx context.Context, caller model.User, period Period, scope Scope) (*Summary, error) {
	rows, err := a.gateway.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	start := windowStart(a.now(), period)
	callerID := caller.Key()

	summary := &Summary{Period: period, Scope: scope}
	subtotals := make(map[string]float64)
	order := make([]string, 0)

	for i, row := range rows {
		if i == 0 && isHeaderRow(row) {
			continue
		}
		if len(row) < 5 {
			continue
		}
		if scope == ScopeSelf && row[1] != callerID {
			continue
		}

		ts, ok := parseTimestamp(row[0])
		if !ok || ts.Before(start) {
			continue
		}
		amount, ok := ParseAmount(row[3])
		if !ok {
			continue
		}

		category := strings.TrimSpace(row[4])
		if category == "" {
			category = "uncategorized"
		}
		if _, seen := subtotals[category]; !seen {
			order = append(order, category)
		}
		subtotals[category] += amount
		summary.Total += amount
		summary.Count++
	}

	if summary.Count == 0 {
		return summary, nil
	}

	summary.Breakdown = make([]CategoryTotal, 0, len(order))
	for _, name := range order {
		summary.Breakdown = append(summary.Breakdown, CategoryTotal{Category: name, Total: subtotals[name]})
	}
	// Descending by subtotal; ties keep first-encountered order.
	sort.SliceStable(summary.Breakdown, func(i, j int) bool {
		return summary.Breakdown[i].Total > summary.Breakdown[j].Total
	})
	return summary, nil
}

func windowStart(now time.Time, period Period) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch period {
	case PeriodToday:
		return midnight
	case PeriodWeek:
		back := (int(now.Weekday()) + 6) % 7
		return midnight.AddDate(0, 0, -back)
	default:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
}

func isHeaderRow(row []string) bool {
	return len(row) > 0 && strings.HasPrefix(strings.ToLower(strings.TrimSpace(row[0])), "timestamp")
}

// parseTimestamp accepts ISO-8601 with any offset (a trailing "Z" included)
// and assumes the local zone when no offset is present. The result is in
// local time for window comparison.
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(time.Local), true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local); err == nil {
		return t, true
	}
	return time.Time{}, false
}
