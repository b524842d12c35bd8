// Package analytics computes monthly reports from a ledger snapshot.
//
// Every function is pure: it reads the entries it is given and performs
// no I/O. Amounts are summed as int64.
package analytics

import (
	"sort"
	"strings"

	"personal-ledger/internal/models"
)

// CategorySummary is one category's income and expense within a month.
type CategorySummary struct {
	Category string
	Income   int64
	Expense  int64
	Net      int64
}

// DailyNet is the signed sum of one day's entries.
type DailyNet struct {
	Date string
	Net  int64
}

// Totals aggregates income and expense over a set of entries.
type Totals struct {
	Income  int64
	Expense int64
	Net     int64
}

// ExpenseShare returns the expense part of all money moved, in percent.
// It is meant for display and is zero when nothing was recorded.
func (t Totals) ExpenseShare() float64 {
	total := t.Income + t.Expense
	if total == 0 {
		return 0
	}
	return float64(t.Expense) / float64(total) * 100
}

// InMonth returns the entries whose date starts with yearMonth (YYYY-MM).
func InMonth(entries []models.Entry, yearMonth string) []models.Entry {
	var out []models.Entry
	for _, e := range entries {
		if strings.HasPrefix(e.Date, yearMonth) {
			out = append(out, e)
		}
	}
	return out
}

// MonthSummary groups the month's entries by category, ordered by net
// descending. Categories with equal net keep the order in which they
// first appear in entries.
func MonthSummary(entries []models.Entry, yearMonth string) []CategorySummary {
	out := []CategorySummary{}
	index := map[string]int{}
	for _, e := range InMonth(entries, yearMonth) {
		i, ok := index[e.Category]
		if !ok {
			i = len(out)
			index[e.Category] = i
			out = append(out, CategorySummary{Category: e.Category})
		}
		switch e.Kind {
		case models.Income:
			out[i].Income += e.Amount
		case models.Expense:
			out[i].Expense += e.Amount
		}
	}
	for i := range out {
		out[i].Net = out[i].Income - out[i].Expense
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Net > out[b].Net
	})
	return out
}

// DailyNetSeries sums signed amounts per date for the month, ascending by date.
func DailyNetSeries(entries []models.Entry, yearMonth string) []DailyNet {
	sums := map[string]int64{}
	for _, e := range InMonth(entries, yearMonth) {
		sums[e.Date] += e.SignedAmount()
	}

	out := make([]DailyNet, 0, len(sums))
	for date, net := range sums {
		out = append(out, DailyNet{Date: date, Net: net})
	}
	sort.Slice(out, func(a, b int) bool {
		return out[a].Date < out[b].Date
	})
	return out
}

// MonthTotals sums income and expense of the month.
func MonthTotals(entries []models.Entry, yearMonth string) Totals {
	return LedgerTotals(InMonth(entries, yearMonth))
}

// LedgerTotals sums income and expense of all entries.
func LedgerTotals(entries []models.Entry) Totals {
	var t Totals
	for _, e := range entries {
		switch e.Kind {
		case models.Income:
			t.Income += e.Amount
		case models.Expense:
			t.Expense += e.Amount
		}
	}
	t.Net = t.Income - t.Expense
	return t
}
