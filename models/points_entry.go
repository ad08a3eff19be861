package models

import "time"

// PointsEntry is one immutable row of the loyalty points ledger. Exactly one
// of PointsEarned/PointsSpent is non-zero; the current balance is always the
// full-history sum, never a stored counter.
type PointsEntry struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	User         *User     `gorm:"foreignKey:UserID" json:"-"`
	PointsEarned int       `gorm:"not null;default:0" json:"points_earned"`
	PointsSpent  int       `gorm:"not null;default:0" json:"points_spent"`
	OrderID      *uint     `gorm:"index" json:"order_id,omitempty"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}
