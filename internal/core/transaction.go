package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CreatedAtLayout is the fixed timestamp format used by the transactions
// table. Records are kept as strings and parsed at aggregation time so a
// malformed value aborts the pass that touches it.
const CreatedAtLayout = "2006-01-02 15:04:05"

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

type (
	TxType string

	// MonthKey is a YYYYMM month identifier. Lexicographic order equals
	// chronological order.
	MonthKey string

	// Transaction is one row of the transactions table.
	Transaction struct {
		ID          int64
		Type        TxType
		Category    string
		Quantity    decimal.Decimal
		Amount      decimal.Decimal
		Description string
		CreatedAt   string
		IsOutlier   bool
	}
)

var (
	ErrMalformedTimestamp = errors.New("malformed created_at timestamp")
	ErrUnknownType        = errors.New("unknown transaction type")
)

// MonthOf derives the record's month bucket key from created_at.
func (t Transaction) MonthOf() (MonthKey, error) {
	ts, err := time.Parse(CreatedAtLayout, t.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedTimestamp, t.CreatedAt)
	}
	return MonthKey(ts.Format("200601")), nil
}

// MonthKeyOf formats a time as a month bucket key.
func MonthKeyOf(t time.Time) MonthKey {
	return MonthKey(t.Format("200601"))
}

// Schema describes which optional columns a transactions table variant
// carries. Older databases predate quantity and is_outlier.
type Schema struct {
	Name        string
	HasQuantity bool
	HasOutlier  bool
}

var (
	SchemaV1   = Schema{Name: "v1"}
	SchemaV2   = Schema{Name: "v2", HasQuantity: true}
	SchemaFull = Schema{Name: "full", HasQuantity: true, HasOutlier: true}
)

// SchemaByName resolves a configured schema name.
func SchemaByName(name string) (Schema, error) {
	switch name {
	case SchemaV1.Name:
		return SchemaV1, nil
	case SchemaV2.Name:
		return SchemaV2, nil
	case SchemaFull.Name:
		return SchemaFull, nil
	}
	return Schema{}, fmt.Errorf("unknown transaction schema %q", name)
}

// Headers returns the detail-sheet column headers in table order.
func (s Schema) Headers() []string {
	headers := []string{"id", "type", "category"}
	if s.HasQuantity {
		headers = append(headers, "quantity")
	}
	headers = append(headers, "amount", "description", "created_at")
	if s.HasOutlier {
		headers = append(headers, "is_outlier")
	}
	return headers
}

// Row projects a transaction onto the schema's column order, matching
// Headers.
func (s Schema) Row(t Transaction) []any {
	row := []any{t.ID, string(t.Type), t.Category}
	if s.HasQuantity {
		row = append(row, t.Quantity.InexactFloat64())
	}
	row = append(row, t.Amount.InexactFloat64(), t.Description, t.CreatedAt)
	if s.HasOutlier {
		outlier := int64(0)
		if t.IsOutlier {
			outlier = 1
		}
		row = append(row, outlier)
	}
	return row
}

// Outlier reports whether the record is an expense excluded from clean
// aggregates. The flag is ignored for income and for schemas without it.
func (s Schema) Outlier(t Transaction) bool {
	return s.HasOutlier && t.Type == Expense && t.IsOutlier
}
