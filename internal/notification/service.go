package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/momosplit/internal/currency"
)

// Common errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotRecipient         = errors.New("not the recipient of this notification")
)

// Service handles notification business logic
type Service struct {
	repo Store
}

// NewService creates a new notification service
func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// GetByID retrieves a notification by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Notification, error) {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notification == nil {
		return nil, ErrNotificationNotFound
	}
	return notification, nil
}

// ListByRecipientID retrieves all notifications for a user
func (s *Service) ListByRecipientID(ctx context.Context, recipientID int64, page, perPage int, unreadOnly bool) ([]*Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByRecipientID(ctx, recipientID, perPage, offset, unreadOnly)
}

// MarkAsRead marks a notification as read
func (s *Service) MarkAsRead(ctx context.Context, id, userID int64) error {
	updated, err := s.repo.MarkAsRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if updated {
		return nil
	}

	// Nothing changed: tell a missing notification apart from someone else's
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrNotRecipient
}

// MarkAllAsRead marks all notifications as read for a user and returns how
// many were unread
func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// GetUnreadCount returns the count of unread notifications
func (s *Service) GetUnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

// NotifyExpenseAdded tells a split owner what they now owe the payer
func (s *Service) NotifyExpenseAdded(ctx context.Context, recipientID int64, payerName, description string, share decimal.Decimal, code string, expenseID int64) error {
	message := fmt.Sprintf("%s added %q. Your share is %s", payerName, description, currency.FormatOrFallback(share, code))
	return s.create(ctx, recipientID, message, EntityExpense, expenseID)
}

// NotifySettlementRequested tells the receiver that a payer wants to settle up
func (s *Service) NotifySettlementRequested(ctx context.Context, recipientID int64, payerName string, amount decimal.Decimal, code string, settlementID int64) error {
	message := fmt.Sprintf("%s wants to settle %s with you", payerName, currency.FormatOrFallback(amount, code))
	return s.create(ctx, recipientID, message, EntitySettlement, settlementID)
}

// NotifySettlementPaid asks the receiver to confirm a mobile-money transfer
func (s *Service) NotifySettlementPaid(ctx context.Context, recipientID int64, payerName string, amount decimal.Decimal, code string, settlementID int64) error {
	message := fmt.Sprintf("%s says they sent you %s. Please confirm.", payerName, currency.FormatOrFallback(amount, code))
	return s.create(ctx, recipientID, message, EntitySettlement, settlementID)
}

// NotifySettlementResolved tells the payer whether the receiver confirmed or rejected
func (s *Service) NotifySettlementResolved(ctx context.Context, recipientID int64, receiverName string, confirmed bool, settlementID int64) error {
	verb := "rejected"
	if confirmed {
		verb = "confirmed"
	}
	message := fmt.Sprintf("%s %s your payment", receiverName, verb)
	return s.create(ctx, recipientID, message, EntitySettlement, settlementID)
}

func (s *Service) create(ctx context.Context, recipientID int64, message, entityType string, entityID int64) error {
	_, err := s.repo.Create(ctx, about(recipientID, message, entityType, entityID))
	return err
}
