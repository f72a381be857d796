package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"finreport/internal/core"
)

// Repository reads the transactions table. The connection is scoped to
// one run: opened before the read step and closed by the caller as soon
// as the query completes.
type Repository struct {
	db     *sql.DB
	schema core.Schema
}

func NewRepository(dbPath string, schema core.Schema) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, schema: schema}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Schema returns the table variant the repository was opened with.
func (r *Repository) Schema() core.Schema {
	return r.schema
}

// ListTransactions returns every row in insertion order, projected onto
// the configured schema variant.
func (r *Repository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	cols := []string{"id", "type", "category"}
	if r.schema.HasQuantity {
		cols = append(cols, "quantity")
	}
	cols = append(cols, "amount", "description", "created_at")
	if r.schema.HasOutlier {
		cols = append(cols, "is_outlier")
	}

	query := fmt.Sprintf("SELECT %s FROM transactions ORDER BY id", strings.Join(cols, ", "))
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		var (
			tx       core.Transaction
			txType   string
			category sql.NullString
			quantity sql.NullFloat64
			amount   float64
			desc     sql.NullString
			outlier  sql.NullInt64
		)

		dest := []any{&tx.ID, &txType, &category}
		if r.schema.HasQuantity {
			dest = append(dest, &quantity)
		}
		dest = append(dest, &amount, &desc, &tx.CreatedAt)
		if r.schema.HasOutlier {
			dest = append(dest, &outlier)
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}

		tx.Type = core.TxType(txType)
		tx.Category = category.String
		tx.Description = desc.String
		tx.Amount = decimal.NewFromFloat(amount)
		if quantity.Valid {
			tx.Quantity = decimal.NewFromFloat(quantity.Float64)
		}
		tx.IsOutlier = outlier.Valid && outlier.Int64 != 0

		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return txs, nil
}

// ExpenseDayCategoryTotals sums expenses per (day of month, category)
// within [from, to], ordered by day.
func (r *Repository) ExpenseDayCategoryTotals(ctx context.Context, from, to time.Time) ([]core.DayCategoryTotal, error) {
	const query = `
		SELECT CAST(strftime('%d', created_at) AS INTEGER) AS day, category, SUM(amount)
		FROM transactions
		WHERE type = 'expense' AND created_at >= ? AND created_at <= ?
		GROUP BY day, category
		ORDER BY day`

	rows, err := r.db.QueryContext(ctx, query,
		from.Format(core.CreatedAtLayout), to.Format(core.CreatedAtLayout))
	if err != nil {
		return nil, fmt.Errorf("expense day/category totals: %w", err)
	}
	defer rows.Close()

	var totals []core.DayCategoryTotal
	for rows.Next() {
		var (
			t        core.DayCategoryTotal
			category sql.NullString
			total    float64
		)
		if err := rows.Scan(&t.Day, &category, &total); err != nil {
			return nil, fmt.Errorf("scan day/category total: %w", err)
		}
		t.Category = category.String
		t.Total = decimal.NewFromFloat(total)
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate day/category totals: %w", err)
	}

	return totals, nil
}

// ExpenseCategoryTotals sums expenses per category within [from, to),
// largest first.
func (r *Repository) ExpenseCategoryTotals(ctx context.Context, from, to time.Time) ([]core.CategoryTotal, error) {
	const query = `
		SELECT category, SUM(amount) AS total
		FROM transactions
		WHERE type = 'expense' AND created_at >= ? AND created_at < ?
		GROUP BY category
		ORDER BY total DESC`

	rows, err := r.db.QueryContext(ctx, query,
		from.Format(core.CreatedAtLayout), to.Format(core.CreatedAtLayout))
	if err != nil {
		return nil, fmt.Errorf("expense category totals: %w", err)
	}
	defer rows.Close()

	var totals []core.CategoryTotal
	for rows.Next() {
		var (
			t        core.CategoryTotal
			category sql.NullString
			total    float64
		)
		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		t.Category = category.String
		t.Amount = decimal.NewFromFloat(total)
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category totals: %w", err)
	}

	return totals, nil
}

// ExpenseDailyTotals sums expenses per calendar date between from and to
// (dates inclusive), ordered by date.
func (r *Repository) ExpenseDailyTotals(ctx context.Context, from, to time.Time) ([]core.DailyTotal, error) {
	const query = `
		SELECT DATE(created_at) AS date, SUM(amount)
		FROM transactions
		WHERE type = 'expense' AND DATE(created_at) BETWEEN ? AND ?
		GROUP BY DATE(created_at)
		ORDER BY DATE(created_at)`

	rows, err := r.db.QueryContext(ctx, query,
		from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("expense daily totals: %w", err)
	}
	defer rows.Close()

	var totals []core.DailyTotal
	for rows.Next() {
		var (
			t     core.DailyTotal
			total float64
		)
		if err := rows.Scan(&t.Date, &total); err != nil {
			return nil, fmt.Errorf("scan daily total: %w", err)
		}
		t.Total = decimal.NewFromFloat(total)
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily totals: %w", err)
	}

	return totals, nil
}

// CreateTransaction inserts one row and returns its id.
func (r *Repository) CreateTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	const query = `
		INSERT INTO transactions (type, category, quantity, amount, description, created_at, is_outlier)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	var quantity any
	if !tx.Quantity.IsZero() {
		quantity = tx.Quantity.InexactFloat64()
	}
	outlier := 0
	if tx.IsOutlier {
		outlier = 1
	}

	res, err := r.db.ExecContext(ctx, query,
		string(tx.Type), tx.Category, quantity, tx.Amount.InexactFloat64(),
		tx.Description, tx.CreatedAt, outlier)
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}
