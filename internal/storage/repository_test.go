package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finreport/internal/core"
)

func newTestRepository(t *testing.T, schema core.Schema) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "transactions.db"), schema)
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seed(t *testing.T, repo *Repository, txs []core.Transaction) {
	t.Helper()
	ctx := context.Background()
	for _, tx := range txs {
		if _, err := repo.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("seed transaction: %v", err)
		}
	}
}

func TestListTransactions(t *testing.T) {
	repo := newTestRepository(t, core.SchemaFull)
	seed(t, repo, []core.Transaction{
		{Type: core.Income, Category: "salary", Amount: decimal.NewFromInt(5000), CreatedAt: "2024-01-05 10:00:00"},
		{Type: core.Expense, Category: "food", Amount: decimal.NewFromInt(1200), Description: "groceries", CreatedAt: "2024-01-10 12:00:00"},
		{Type: core.Expense, Category: "food", Amount: decimal.NewFromInt(50000), CreatedAt: "2024-01-15 09:00:00", IsOutlier: true},
	})

	txs, err := repo.ListTransactions(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(txs))
	}
	for i, tx := range txs {
		if tx.ID != int64(i+1) {
			t.Fatalf("insertion order broken: row %d has id %d", i, tx.ID)
		}
	}
	if txs[0].Type != core.Income || !txs[0].Amount.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("row 0 = %+v", txs[0])
	}
	if txs[1].Description != "groceries" {
		t.Fatalf("row 1 description = %q", txs[1].Description)
	}
	if !txs[2].IsOutlier {
		t.Fatalf("row 2 should carry the outlier flag")
	}
	if txs[0].CreatedAt != "2024-01-05 10:00:00" {
		t.Fatalf("created_at round trip = %q", txs[0].CreatedAt)
	}
}

func TestListTransactionsReducedSchema(t *testing.T) {
	repo := newTestRepository(t, core.SchemaV1)
	seed(t, repo, []core.Transaction{
		{Type: core.Expense, Category: "food", Amount: decimal.NewFromInt(10), CreatedAt: "2024-01-01 08:00:00", IsOutlier: true},
	})

	txs, err := repo.ListTransactions(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// v1 does not read the optional columns, so the flag never surfaces.
	if txs[0].IsOutlier {
		t.Fatalf("v1 schema must not read is_outlier")
	}
	if !txs[0].Quantity.IsZero() {
		t.Fatalf("v1 schema must not read quantity")
	}
}

func TestExpenseDayCategoryTotals(t *testing.T) {
	repo := newTestRepository(t, core.SchemaFull)
	seed(t, repo, []core.Transaction{
		{Type: core.Expense, Category: "food", Amount: decimal.NewFromInt(10), CreatedAt: "2024-03-01 09:00:00"},
		{Type: core.Expense, Category: "food", Amount: decimal.NewFromInt(20), CreatedAt: "2024-03-01 18:00:00"},
		{Type: core.Expense, Category: "transport", Amount: decimal.NewFromInt(5), CreatedAt: "2024-03-02 08:00:00"},
		{Type: core.Income, Category: "salary", Amount: decimal.NewFromInt(999), CreatedAt: "2024-03-01 10:00:00"},
		{Type: core.Expense, Category: "food", Amount: decimal.NewFromInt(77), CreatedAt: "2024-04-01 10:00:00"},
	})

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC)
	rows, err := repo.ExpenseDayCategoryTotals(context.Background(), from, to)
	if err != nil {
		t.Fatalf("query: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 grouped rows, got %d: %+v", len(rows), rows)
	}
	if rows[0].Day != 1 || rows[0].Category != "food" || !rows[0].Total.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("row 0 = %+v, want day 1 food 30", rows[0])
	}
	if rows[1].Day != 2 || rows[1].Category != "transport" || !rows[1].Total.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("row 1 = %+v, want day 2 transport 5", rows[1])
	}
}

func TestExpenseCategoryTotalsOrderedDescending(t *testing.T) {
	repo := newTestRepository(t, core.SchemaFull)
	seed(t, repo, []core.Transaction{
		{Type: core.Expense, Category: "food", Amount: decimal.NewFromInt(100), CreatedAt: "2024-03-01 09:00:00"},
		{Type: core.Expense, Category: "rent", Amount: decimal.NewFromInt(900), CreatedAt: "2024-03-02 09:00:00"},
		{Type: core.Expense, Category: "fun", Amount: decimal.NewFromInt(50), CreatedAt: "2024-03-03 09:00:00"},
	})

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	rows, err := repo.ExpenseCategoryTotals(context.Background(), from, to)
	if err != nil {
		t.Fatalf("query: %v", err)
	}

	want := []string{"rent", "food", "fun"}
	if len(rows) != len(want) {
		t.Fatalf("rows = %+v", rows)
	}
	for i := range want {
		if rows[i].Category != want[i] {
			t.Fatalf("row %d category = %s, want %s", i, rows[i].Category, want[i])
		}
	}
}

func TestExpenseDailyTotals(t *testing.T) {
	repo := newTestRepository(t, core.SchemaFull)
	seed(t, repo, []core.Transaction{
		{Type: core.Expense, Category: "food", Amount: decimal.NewFromInt(15), CreatedAt: "2024-03-01 09:00:00"},
		{Type: core.Expense, Category: "fun", Amount: decimal.NewFromInt(25), CreatedAt: "2024-03-01 20:00:00"},
		{Type: core.Expense, Category: "food", Amount: decimal.NewFromInt(40), CreatedAt: "2024-03-03 09:00:00"},
	})

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
	rows, err := repo.ExpenseDailyTotals(context.Background(), from, to)
	if err != nil {
		t.Fatalf("query: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 dates, got %+v", rows)
	}
	if rows[0].Date != "2024-03-01" || !rows[0].Total.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("row 0 = %+v", rows[0])
	}
	if rows[1].Date != "2024-03-03" || !rows[1].Total.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("row 1 = %+v", rows[1])
	}
}

func TestEmptyWindowYieldsNoRows(t *testing.T) {
	repo := newTestRepository(t, core.SchemaFull)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)

	daily, err := repo.ExpenseDailyTotals(context.Background(), from, to)
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	categories, err := repo.ExpenseCategoryTotals(context.Background(), from, to)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(daily) != 0 || len(categories) != 0 {
		t.Fatalf("expected empty results, got %d/%d", len(daily), len(categories))
	}
}
