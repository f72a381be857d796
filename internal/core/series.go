package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DayCategoryTotal is one (day-of-month, category) expense sum as read
// from the store for the month comparison chart.
type DayCategoryTotal struct {
	Day      int
	Category string
	Total    decimal.Decimal
}

// DailyTotal is one calendar day's expense sum for the weekly trend chart.
type DailyTotal struct {
	Date  string // YYYY-MM-DD
	Total decimal.Decimal
}

// CompareWindow is a pair of day-aligned month ranges: the current month
// up to today and the previous month truncated to the same number of
// elapsed days (or its own length, whichever is smaller).
type CompareWindow struct {
	ThisStart time.Time
	ThisEnd   time.Time
	LastStart time.Time
	LastEnd   time.Time
	Days      int
}

// NewCompareWindow computes the comparison ranges for the given instant.
func NewCompareWindow(now time.Time) CompareWindow {
	year, month, day := now.Date()

	lastMonth := time.Date(year, month, 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
	lastMonthDays := daysIn(lastMonth.Year(), lastMonth.Month())
	compareDays := day
	if lastMonthDays < compareDays {
		compareDays = lastMonthDays
	}

	return CompareWindow{
		ThisStart: time.Date(year, month, 1, 0, 0, 0, 0, now.Location()),
		ThisEnd:   time.Date(year, month, day, 23, 59, 59, 0, now.Location()),
		LastStart: lastMonth,
		LastEnd:   time.Date(lastMonth.Year(), lastMonth.Month(), compareDays, 23, 59, 59, 0, now.Location()),
		Days:      compareDays,
	}
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// BuildCategorySeries spreads (day, category, total) rows over a per-day
// series of the given length, zero-filled, keyed by category. Days outside
// [1, days] are discarded. The returned name list preserves first-seen
// row order.
func BuildCategorySeries(rows []DayCategoryTotal, days int) (map[string][]decimal.Decimal, []string) {
	series := make(map[string][]decimal.Decimal)
	var names []string

	for _, row := range rows {
		if row.Day < 1 || row.Day > days {
			continue
		}
		values, ok := series[row.Category]
		if !ok {
			values = make([]decimal.Decimal, days)
			series[row.Category] = values
			names = append(names, row.Category)
		}
		values[row.Day-1] = row.Total
	}

	return series, names
}

// OrderCategories merges two series' category names and orders them by
// combined total descending. Ties keep the merged first-seen order.
func OrderCategories(this, last map[string][]decimal.Decimal, thisNames, lastNames []string) []string {
	var merged []string
	seen := make(map[string]bool)
	for _, name := range append(append([]string{}, thisNames...), lastNames...) {
		if !seen[name] {
			seen[name] = true
			merged = append(merged, name)
		}
	}

	combined := func(name string) decimal.Decimal {
		total := decimal.Zero
		for _, v := range this[name] {
			total = total.Add(v)
		}
		for _, v := range last[name] {
			total = total.Add(v)
		}
		return total
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return combined(merged[i]).GreaterThan(combined(merged[j]))
	})
	return merged
}

// ZeroFillDaily expands sparse per-day totals into n consecutive days
// starting at start, with zero for days that have no rows.
func ZeroFillDaily(rows []DailyTotal, start time.Time, n int) ([]string, []decimal.Decimal) {
	byDate := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		byDate[row.Date] = row.Total
	}

	labels := make([]string, n)
	totals := make([]decimal.Decimal, n)
	for i := 0; i < n; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		labels[i] = date
		totals[i] = byDate[date]
	}
	return labels, totals
}

// Percentages computes each category's share of the grand total, in
// percent. A zero grand total yields all zeros.
func Percentages(totals []CategoryTotal) (decimal.Decimal, []decimal.Decimal) {
	grand := decimal.Zero
	for _, t := range totals {
		grand = grand.Add(t.Amount)
	}

	shares := make([]decimal.Decimal, len(totals))
	if grand.IsZero() {
		return grand, shares
	}
	hundred := decimal.NewFromInt(100)
	for i, t := range totals {
		shares[i] = t.Amount.Mul(hundred).Div(grand)
	}
	return grand, shares
}
