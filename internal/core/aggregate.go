package core

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Totals holds the accumulated amounts of one month bucket.
type Totals struct {
	Income         decimal.Decimal
	ExpenseClean   decimal.Decimal
	ExpenseOutlier decimal.Decimal
}

// CategoryTotal is one category's summed amount within a month, restricted
// to non-outlier expenses.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}

// MonthlyAggregate is the result of one aggregation pass: month buckets
// with member records in input order, per-bucket totals, and per-bucket
// category subtotals in first-seen order.
type MonthlyAggregate struct {
	records    map[MonthKey][]Transaction
	totals     map[MonthKey]Totals
	categories map[MonthKey][]CategoryTotal
}

// Aggregate buckets records by calendar month in a single pass.
//
// Income amounts accumulate into the month's income total. Expenses route
// to the outlier total when flagged, otherwise to the clean total and the
// category subtotals. A record whose created_at does not parse aborts the
// whole pass with ErrMalformedTimestamp.
func Aggregate(txs []Transaction, schema Schema) (*MonthlyAggregate, error) {
	agg := &MonthlyAggregate{
		records:    make(map[MonthKey][]Transaction),
		totals:     make(map[MonthKey]Totals),
		categories: make(map[MonthKey][]CategoryTotal),
	}

	for _, tx := range txs {
		month, err := tx.MonthOf()
		if err != nil {
			return nil, fmt.Errorf("aggregate transaction %d: %w", tx.ID, err)
		}

		agg.records[month] = append(agg.records[month], tx)
		totals := agg.totals[month]

		switch tx.Type {
		case Income:
			totals.Income = totals.Income.Add(tx.Amount)
		case Expense:
			if schema.Outlier(tx) {
				totals.ExpenseOutlier = totals.ExpenseOutlier.Add(tx.Amount)
			} else {
				totals.ExpenseClean = totals.ExpenseClean.Add(tx.Amount)
				agg.addCategory(month, tx.Category, tx.Amount)
			}
		default:
			return nil, fmt.Errorf("aggregate transaction %d: %w: %q", tx.ID, ErrUnknownType, tx.Type)
		}

		agg.totals[month] = totals
	}

	return agg, nil
}

func (a *MonthlyAggregate) addCategory(month MonthKey, category string, amount decimal.Decimal) {
	subtotals := a.categories[month]
	for i := range subtotals {
		if subtotals[i].Category == category {
			subtotals[i].Amount = subtotals[i].Amount.Add(amount)
			return
		}
	}
	a.categories[month] = append(subtotals, CategoryTotal{Category: category, Amount: amount})
}

// Months returns the bucket keys in ascending order.
func (a *MonthlyAggregate) Months() []MonthKey {
	months := make([]MonthKey, 0, len(a.records))
	for m := range a.records {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })
	return months
}

// Records returns the month's member records in original input order.
func (a *MonthlyAggregate) Records(month MonthKey) []Transaction {
	return a.records[month]
}

// Totals returns the month's accumulated totals.
func (a *MonthlyAggregate) Totals(month MonthKey) Totals {
	return a.totals[month]
}

// Categories returns the month's non-outlier expense subtotals in
// first-seen order.
func (a *MonthlyAggregate) Categories(month MonthKey) []CategoryTotal {
	return a.categories[month]
}

// Empty reports whether the pass saw no records at all.
func (a *MonthlyAggregate) Empty() bool {
	return len(a.records) == 0
}
