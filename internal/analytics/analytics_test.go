package analytics

import (
	"math"
	"testing"

	"personal-ledger/internal/models"

	"github.com/stretchr/testify/assert"
)

func augustEntries() []models.Entry {
	return []models.Entry{
		{Date: "2025-08-01", Kind: models.Expense, Category: "식비", Amount: 5000},
		{Date: "2025-08-02", Kind: models.Income, Category: "월급", Amount: 2000000},
	}
}

func TestMonthSummary(t *testing.T) {
	got := MonthSummary(augustEntries(), "2025-08")
	assert.Equal(t, []CategorySummary{
		{Category: "월급", Income: 2000000, Expense: 0, Net: 2000000},
		{Category: "식비", Income: 0, Expense: 5000, Net: -5000},
	}, got)
}

func TestMonthSummaryGroupsAndFilters(t *testing.T) {
	entries := []models.Entry{
		{Date: "2025-07-31", Kind: models.Expense, Category: "식비", Amount: 999},
		{Date: "2025-08-03", Kind: models.Expense, Category: "교통", Amount: 1500},
		{Date: "2025-08-03", Kind: models.Expense, Category: "식비", Amount: 7000},
		{Date: "2025-08-10", Kind: models.Income, Category: "식비", Amount: 2000},
		{Date: "2025-08-11", Kind: models.Expense, Category: "교통", Amount: 1500},
		{Date: "2025-09-01", Kind: models.Income, Category: "월급", Amount: 1},
	}
	got := MonthSummary(entries, "2025-08")
	assert.Equal(t, []CategorySummary{
		{Category: "교통", Income: 0, Expense: 3000, Net: -3000},
		{Category: "식비", Income: 2000, Expense: 7000, Net: -5000},
	}, got)
}

func TestMonthSummaryTiesKeepFirstSeenOrder(t *testing.T) {
	entries := []models.Entry{
		{Date: "2025-08-01", Kind: models.Expense, Category: "쇼핑", Amount: 100},
		{Date: "2025-08-01", Kind: models.Expense, Category: "교육", Amount: 100},
		{Date: "2025-08-01", Kind: models.Expense, Category: "기타", Amount: 100},
	}
	got := MonthSummary(entries, "2025-08")
	var order []string
	for _, row := range got {
		order = append(order, row.Category)
	}
	assert.Equal(t, []string{"쇼핑", "교육", "기타"}, order)
}

func TestEmptyInputs(t *testing.T) {
	assert.Empty(t, MonthSummary(nil, "2025-08"))
	assert.Empty(t, DailyNetSeries(nil, "2025-08"))
	assert.Empty(t, MonthSummary(augustEntries(), "2024-01"))
	assert.Empty(t, DailyNetSeries(augustEntries(), "2024-01"))
	assert.Equal(t, Totals{}, MonthTotals(nil, "2025-08"))
}

func TestDailyNetSeries(t *testing.T) {
	assert.Equal(t, []DailyNet{
		{Date: "2025-08-01", Net: -5000},
		{Date: "2025-08-02", Net: 2000000},
	}, DailyNetSeries(augustEntries(), "2025-08"))
}

func TestDailyNetSeriesSumsSameDay(t *testing.T) {
	entries := []models.Entry{
		{Date: "2025-08-20", Kind: models.Income, Category: "용돈", Amount: 10000},
		{Date: "2025-08-05", Kind: models.Expense, Category: "식비", Amount: 300},
		{Date: "2025-08-20", Kind: models.Expense, Category: "쇼핑", Amount: 12500},
		{Date: "2025-08-05", Kind: models.Expense, Category: "교통", Amount: 1250},
	}
	assert.Equal(t, []DailyNet{
		{Date: "2025-08-05", Net: -1550},
		{Date: "2025-08-20", Net: -2500},
	}, DailyNetSeries(entries, "2025-08"))
}

func TestTotals(t *testing.T) {
	entries := append(augustEntries(), models.Entry{Date: "2025-09-01", Kind: models.Expense, Category: "식비", Amount: 10})

	month := MonthTotals(entries, "2025-08")
	assert.Equal(t, Totals{Income: 2000000, Expense: 5000, Net: 1995000}, month)

	all := LedgerTotals(entries)
	assert.Equal(t, Totals{Income: 2000000, Expense: 5010, Net: 1994990}, all)

	assert.InDelta(t, 25.0, Totals{Income: 300, Expense: 100}.ExpenseShare(), 1e-9)
	assert.Zero(t, Totals{}.ExpenseShare())
}

func TestTotalsAtMaxAmount(t *testing.T) {
	var entries []models.Entry
	for i := 0; i < 1000; i++ {
		entries = append(entries,
			models.Entry{Date: "2025-08-01", Kind: models.Income, Category: "월급", Amount: models.MaxAmount},
			models.Entry{Date: "2025-08-02", Kind: models.Expense, Category: "식비", Amount: models.MaxAmount},
		)
	}

	got := MonthTotals(entries, "2025-08")
	assert.Equal(t, 1000*models.MaxAmount, got.Income)
	assert.Equal(t, 1000*models.MaxAmount, got.Expense)
	assert.Zero(t, got.Net)

	rows := MonthSummary(entries, "2025-08")
	assert.Equal(t, []CategorySummary{
		{Category: "월급", Income: 1000 * models.MaxAmount, Net: 1000 * models.MaxAmount},
		{Category: "식비", Expense: 1000 * models.MaxAmount, Net: -1000 * models.MaxAmount},
	}, rows)

	// The documented bound: 9,223,372 maximal entries still fit in an int64.
	assert.Greater(t, int64(math.MaxInt64)/models.MaxAmount, int64(9_223_371))
}
