package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/firegrill/ordering-backend/models"
)

var (
	ErrBadStatusTransition = errors.New("status transition not allowed")
	ErrBadPaymentStatus    = errors.New("unknown payment status")
)

// GormOrderStore persists orders through gorm. It implements OrderStore for
// the checkout flow and carries the admin-side status transitions; orders are
// never deleted, only moved between statuses.
type GormOrderStore struct {
	db *gorm.DB
}

func NewGormOrderStore(db *gorm.DB) *GormOrderStore {
	return &GormOrderStore{db: db}
}

func (s *GormOrderStore) InsertOrder(order *models.Order) error {
	if err := s.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (s *GormOrderStore) GetOrder(id uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus applies an admin-driven status transition after checking
// it against the transition table.
func (s *GormOrderStore) UpdateOrderStatus(id uint, status string) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, id).Error; err != nil {
		return nil, err
	}

	if !models.CanTransition(order.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrBadStatusTransition, order.Status, status)
	}

	order.Status = status
	order.UpdatedAt = time.Now()
	if err := s.db.Save(&order).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return &order, nil
}

// UpdatePaymentStatus sets the payment status, e.g. when an admin marks a
// cash order as paid on handover.
func (s *GormOrderStore) UpdatePaymentStatus(id uint, status string) (*models.Order, error) {
	if !models.ValidPaymentStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrBadPaymentStatus, status)
	}

	var order models.Order
	if err := s.db.First(&order, id).Error; err != nil {
		return nil, err
	}

	order.PaymentStatus = status
	order.UpdatedAt = time.Now()
	if err := s.db.Save(&order).Error; err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	return &order, nil
}
