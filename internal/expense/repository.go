package expense

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Store is the persistence the expense service depends on
type Store interface {
	Create(ctx context.Context, e *Expense) (*Expense, error)
	GetByID(ctx context.Context, id int64) (*Expense, error)
	ListByGroup(ctx context.Context, groupID int64, limit, offset int) ([]*Expense, int, error)
	ListAllByGroup(ctx context.Context, groupID int64) ([]*Expense, error)
	Replace(ctx context.Context, e *Expense) (*Expense, error)
	Delete(ctx context.Context, id int64) error
}

// Repository handles expense and split data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const expenseColumns = `e.id, e.group_id, e.paid_by, e.description, e.amount, e.currency, e.split_type, e.kind, e.created_at, COALESCE(u.name, '')`

// Create inserts an expense and its splits in one transaction
func (r *Repository) Create(ctx context.Context, e *Expense) (*Expense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO expenses (group_id, paid_by, description, amount, currency, split_type, kind)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	saved := e.Clone()
	err = tx.QueryRowContext(ctx, query,
		e.GroupID,
		e.PaidBy,
		e.Description,
		e.Amount,
		e.Currency,
		e.SplitType,
		e.Kind,
	).Scan(&saved.ID, &saved.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	if err := insertSplits(ctx, tx, saved.ID, saved.Splits); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense: %w", err)
	}

	return saved, nil
}

// Replace overwrites an expense and all of its splits in one transaction
func (r *Repository) Replace(ctx context.Context, e *Expense) (*Expense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE expenses
		SET paid_by = $2,
		    description = $3,
		    amount = $4,
		    split_type = $5
		WHERE id = $1
	`
	result, err := tx.ExecContext(ctx, query, e.ID, e.PaidBy, e.Description, e.Amount, e.SplitType)
	if err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, nil
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM expense_splits WHERE expense_id = $1`, e.ID); err != nil {
		return nil, fmt.Errorf("failed to clear splits: %w", err)
	}
	if err := insertSplits(ctx, tx, e.ID, e.Splits); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense: %w", err)
	}

	return e.Clone(), nil
}

// GetByID retrieves an expense with its splits
func (r *Repository) GetByID(ctx context.Context, id int64) (*Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses e
		LEFT JOIN users u ON e.paid_by = u.id
		WHERE e.id = $1
	`

	expense, err := scanExpense(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := r.loadSplits(ctx, []*Expense{expense}); err != nil {
		return nil, err
	}

	return expense, nil
}

// ListByGroup retrieves a page of a group's expenses, newest first
func (r *Repository) ListByGroup(ctx context.Context, groupID int64, limit, offset int) ([]*Expense, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM expenses WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT ` + expenseColumns + `
		FROM expenses e
		LEFT JOIN users u ON e.paid_by = u.id
		WHERE e.group_id = $1
		ORDER BY e.created_at DESC, e.id DESC
		LIMIT $2 OFFSET $3
	`

	expenses, err := r.queryExpenses(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return expenses, total, nil
}

// ListAllByGroup retrieves every expense of a group in the order they were
// recorded. Balances are computed from this list.
func (r *Repository) ListAllByGroup(ctx context.Context, groupID int64) ([]*Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses e
		LEFT JOIN users u ON e.paid_by = u.id
		WHERE e.group_id = $1
		ORDER BY e.created_at, e.id
	`

	return r.queryExpenses(ctx, query, groupID)
}

// Delete removes an expense and its splits
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expense_splits WHERE expense_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete splits: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrExpenseNotFound
	}

	return tx.Commit()
}

func (r *Repository) queryExpenses(ctx context.Context, query string, args ...any) ([]*Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	if err := r.loadSplits(ctx, expenses); err != nil {
		return nil, err
	}

	return expenses, nil
}

// loadSplits fills in Splits for every expense with a single query
func (r *Repository) loadSplits(ctx context.Context, expenses []*Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	ids := make([]int64, len(expenses))
	byID := make(map[int64]*Expense, len(expenses))
	for i, e := range expenses {
		ids[i] = e.ID
		byID[e.ID] = e
		e.Splits = []ExpenseSplit{}
	}

	query := `
		SELECT s.expense_id, s.user_id, s.amount, s.percentage, COALESCE(u.name, '')
		FROM expense_splits s
		LEFT JOIN users u ON s.user_id = u.id
		WHERE s.expense_id = ANY($1)
		ORDER BY s.expense_id, s.position
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expenseID int64
		var s ExpenseSplit
		var pct decimal.NullDecimal
		if err := rows.Scan(&expenseID, &s.UserID, &s.Amount, &pct, &s.UserName); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		if pct.Valid {
			p := pct.Decimal
			s.Percentage = &p
		}
		if e, ok := byID[expenseID]; ok {
			e.Splits = append(e.Splits, s)
		}
	}

	return rows.Err()
}

func insertSplits(ctx context.Context, tx *sql.Tx, expenseID int64, splits []ExpenseSplit) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO expense_splits (expense_id, user_id, amount, percentage, position)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare split insert: %w", err)
	}
	defer stmt.Close()

	for i, s := range splits {
		pct := decimal.NullDecimal{}
		if s.Percentage != nil {
			pct = decimal.NewNullDecimal(*s.Percentage)
		}
		if _, err := stmt.ExecContext(ctx, expenseID, s.UserID, s.Amount, pct, i); err != nil {
			return fmt.Errorf("failed to create split: %w", err)
		}
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*Expense, error) {
	e := &Expense{}
	err := row.Scan(
		&e.ID,
		&e.GroupID,
		&e.PaidBy,
		&e.Description,
		&e.Amount,
		&e.Currency,
		&e.SplitType,
		&e.Kind,
		&e.CreatedAt,
		&e.PayerName,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}
