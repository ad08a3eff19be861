package models

import "time"

type MenuItem struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	CategoryID  *uint            `gorm:"index" json:"category_id,omitempty"`
	Category    *Category        `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"category,omitempty"`
	Name        string           `gorm:"type:varchar(255); not null" json:"name"`
	Description string           `gorm:"type:text" json:"description"`
	Price       float64          `gorm:"type:decimal(10,2); not null" json:"price"`
	Available   bool             `gorm:"not null;default:true" json:"available"`
	Featured    bool             `gorm:"not null;default:false" json:"featured"`
	ImageURL    *string          `gorm:"type:varchar(255)" json:"image_url"`
	Choices     []MenuItemChoice `gorm:"foreignKey:MenuItemID" json:"choices,omitempty"`
	CreatedAt   time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"not null" json:"updated_at"`
}
