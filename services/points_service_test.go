package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/firegrill/ordering-backend/models"
)

func setupPointsDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.PointsEntry{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestPointsBalanceDerivedFromLedger(t *testing.T) {
	db := setupPointsDB(t)
	svc := NewPointsService(db)

	balance, err := svc.CurrentBalance(1)
	assert.NoError(t, err)
	assert.Equal(t, 0, balance)

	db.Create(&models.PointsEntry{UserID: 1, PointsEarned: 500})
	db.Create(&models.PointsEntry{UserID: 1, PointsEarned: 200})
	db.Create(&models.PointsEntry{UserID: 1, PointsSpent: 300})
	db.Create(&models.PointsEntry{UserID: 2, PointsEarned: 9999})

	balance, err = svc.CurrentBalance(1)
	assert.NoError(t, err)
	assert.Equal(t, 400, balance)
}

func TestQuoteRedemptionCaps(t *testing.T) {
	db := setupPointsDB(t)
	svc := NewPointsService(db)
	db.Create(&models.PointsEntry{UserID: 1, PointsEarned: 1500})

	// Order total caps the spend: $10.50 covers at most 1050 points.
	quote, err := svc.QuoteRedemption(1, 10.50)
	assert.NoError(t, err)
	assert.Equal(t, 1050, quote.PointsToRedeem)
	assert.Equal(t, 10.50, quote.Discount)

	// Balance caps the spend when the order is bigger than the wallet.
	quote, err = svc.QuoteRedemption(1, 99.00)
	assert.NoError(t, err)
	assert.Equal(t, 1500, quote.PointsToRedeem)
	assert.Equal(t, 15.00, quote.Discount)

	// No points, no discount.
	quote, err = svc.QuoteRedemption(42, 50.00)
	assert.NoError(t, err)
	assert.Equal(t, 0, quote.PointsToRedeem)
	assert.Equal(t, 0.00, quote.Discount)
}

func TestRecordSpendRejectsOverdraft(t *testing.T) {
	db := setupPointsDB(t)
	svc := NewPointsService(db)
	db.Create(&models.PointsEntry{UserID: 1, PointsEarned: 100})

	err := svc.RecordSpend(1, 200, nil)
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	assert.NoError(t, svc.RecordSpend(1, 100, nil))
	balance, _ := svc.CurrentBalance(1)
	assert.Equal(t, 0, balance)

	// Zero spends do not write ledger entries.
	assert.NoError(t, svc.RecordSpend(1, 0, nil))
	var count int64
	db.Model(&models.PointsEntry{}).Where("user_id = ?", 1).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestRecordEarnFloorsAmountPaid(t *testing.T) {
	db := setupPointsDB(t)
	svc := NewPointsService(db)

	orderID := uint(7)
	earned, err := svc.RecordEarn(1, 23.99, &orderID)
	assert.NoError(t, err)
	assert.Equal(t, 239, earned)

	// Paying nothing earns nothing and writes no entry.
	earned, err = svc.RecordEarn(1, 0.05, nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, earned)

	balance, _ := svc.CurrentBalance(1)
	assert.Equal(t, 239, balance)
}

func TestPointsHistoryNewestFirst(t *testing.T) {
	db := setupPointsDB(t)
	svc := NewPointsService(db)

	db.Create(&models.PointsEntry{UserID: 1, PointsEarned: 100})
	db.Create(&models.PointsEntry{UserID: 1, PointsSpent: 40})

	entries, err := svc.History(1)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
}
