package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/firegrill/ordering-backend/models"
	"github.com/firegrill/ordering-backend/utils"
)

// Loyalty point rules: 100 points redeem for $1, every $1 actually paid earns
// 10 points.
const (
	PointsPerDollarRedeemed = 100
	PointsPerDollarEarned   = 10
)

// RedemptionQuote is the capped points spend for a candidate order total.
type RedemptionQuote struct {
	PointsToRedeem int     `json:"points_to_redeem"`
	Discount       float64 `json:"discount"`
}

// PointsService is the loyalty points ledger: an append-only log of earn and
// spend entries from which the balance is always derived.
type PointsService struct {
	db *gorm.DB
}

func NewPointsService(db *gorm.DB) *PointsService {
	return &PointsService{db: db}
}

// CurrentBalance sums the user's full entry history. No cached counter exists
// that could drift from ledger truth.
func (s *PointsService) CurrentBalance(userID uint) (int, error) {
	var balance int64
	err := s.db.Model(&models.PointsEntry{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points_earned) - SUM(points_spent), 0)").
		Row().Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("failed to derive points balance: %w", err)
	}
	return int(balance), nil
}

// QuoteRedemption caps the spend at min(balance, floor(candidateTotal*100)):
// a redemption never discounts an order below zero and never spends points
// the user does not own.
func (s *PointsService) QuoteRedemption(userID uint, candidateOrderTotal float64) (RedemptionQuote, error) {
	balance, err := s.CurrentBalance(userID)
	if err != nil {
		return RedemptionQuote{}, err
	}

	points := utils.FloorUnits(candidateOrderTotal, PointsPerDollarRedeemed)
	if balance < points {
		points = balance
	}
	if points < 0 {
		points = 0
	}

	return RedemptionQuote{
		PointsToRedeem: points,
		Discount:       utils.RoundCurrency(float64(points) / PointsPerDollarRedeemed),
	}, nil
}

// History lists the user's ledger entries, newest first.
func (s *PointsService) History(userID uint) ([]models.PointsEntry, error) {
	var entries []models.PointsEntry
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load points history: %w", err)
	}
	return entries, nil
}

// RecordSpend appends a spend entry. Callers are expected to spend only
// quoted amounts; the ledger still re-derives the balance and rejects
// overdrafts.
func (s *PointsService) RecordSpend(userID uint, points int, orderID *uint) error {
	if points <= 0 {
		return nil
	}
	balance, err := s.CurrentBalance(userID)
	if err != nil {
		return err
	}
	if points > balance {
		return ErrInsufficientPoints
	}

	entry := models.PointsEntry{
		UserID:      userID,
		PointsSpent: points,
		OrderID:     orderID,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to record points spend: %w", err)
	}
	return nil
}

// RecordEarn appends an earn entry of floor(amountPaid*10) points, computed
// on the post-discount amount actually paid. Zero-point earns are skipped.
// Returns the points earned.
func (s *PointsService) RecordEarn(userID uint, amountPaid float64, orderID *uint) (int, error) {
	points := utils.FloorUnits(amountPaid, PointsPerDollarEarned)
	if points <= 0 {
		return 0, nil
	}

	entry := models.PointsEntry{
		UserID:       userID,
		PointsEarned: points,
		OrderID:      orderID,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return 0, fmt.Errorf("failed to record points earn: %w", err)
	}
	return points, nil
}
