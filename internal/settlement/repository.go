package settlement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Store is the persistence the settlement service depends on
type Store interface {
	Create(ctx context.Context, s *Settlement) (*Settlement, error)
	GetByID(ctx context.Context, id int64) (*Settlement, error)
	ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Settlement, int, error)
	ListByGroup(ctx context.Context, groupID int64) ([]*Settlement, error)
	HasOpen(ctx context.Context, groupID, payerID, receiverID int64) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status SettlementStatus, paymentExpenseID *int64) (*Settlement, error)
}

// Repository handles settlement data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new settlement repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const settlementSelect = `
	SELECT s.id, s.group_id, s.payer_id, s.receiver_id, s.amount, s.currency, s.status,
	       s.payment_expense_id, s.created_at,
	       COALESCE(p.name, ''), COALESCE(recv.name, ''), COALESCE(recv.phone_number, '')
	FROM settlements s
	LEFT JOIN users p ON s.payer_id = p.id
	LEFT JOIN users recv ON s.receiver_id = recv.id
`

// Create inserts a new pending settlement
func (r *Repository) Create(ctx context.Context, s *Settlement) (*Settlement, error) {
	query := `
		INSERT INTO settlements (group_id, payer_id, receiver_id, amount, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	created := *s
	created.Status = SettlementStatusPending
	err := r.db.QueryRowContext(ctx, query,
		s.GroupID,
		s.PayerID,
		s.ReceiverID,
		s.Amount,
		s.Currency,
		SettlementStatusPending,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create settlement: %w", err)
	}

	return &created, nil
}

// GetByID retrieves a settlement by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Settlement, error) {
	settlement, err := scanSettlement(r.db.QueryRowContext(ctx, settlementSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	return settlement, nil
}

// ListByUserID retrieves all settlements a user pays or receives
func (r *Repository) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Settlement, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM settlements WHERE payer_id = $1 OR receiver_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count settlements: %w", err)
	}

	query := settlementSelect + `
		WHERE s.payer_id = $1 OR s.receiver_id = $1
		ORDER BY s.created_at DESC
		LIMIT $2 OFFSET $3
	`
	settlements, err := r.query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return settlements, total, nil
}

// ListByGroup retrieves every settlement of a group, newest first
func (r *Repository) ListByGroup(ctx context.Context, groupID int64) ([]*Settlement, error) {
	return r.query(ctx, settlementSelect+` WHERE s.group_id = $1 ORDER BY s.created_at DESC`, groupID)
}

// HasOpen reports whether a pending or paid settlement already exists for
// the same payer and receiver in a group
func (r *Repository) HasOpen(ctx context.Context, groupID, payerID, receiverID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM settlements
			WHERE group_id = $1 AND payer_id = $2 AND receiver_id = $3
			  AND status IN ($4, $5)
		)
	`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, groupID, payerID, receiverID,
		SettlementStatusPending, SettlementStatusPaid).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check open settlements: %w", err)
	}

	return exists, nil
}

// UpdateStatus changes a settlement's status and, on confirmation, links the
// recorded payment expense
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status SettlementStatus, paymentExpenseID *int64) (*Settlement, error) {
	query := `
		UPDATE settlements
		SET status = $2,
		    payment_expense_id = COALESCE($3, payment_expense_id),
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, status, paymentExpenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to update settlement status: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, id)
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]*Settlement, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*Settlement
	for rows.Next() {
		settlement, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}

	return settlements, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSettlement(row rowScanner) (*Settlement, error) {
	s := &Settlement{}
	var paymentExpenseID sql.NullInt64
	err := row.Scan(
		&s.ID,
		&s.GroupID,
		&s.PayerID,
		&s.ReceiverID,
		&s.Amount,
		&s.Currency,
		&s.Status,
		&paymentExpenseID,
		&s.CreatedAt,
		&s.PayerName,
		&s.ReceiverName,
		&s.ReceiverPhone,
	)
	if err != nil {
		return nil, err
	}
	if paymentExpenseID.Valid {
		s.PaymentExpenseID = &paymentExpenseID.Int64
	}
	return s, nil
}
