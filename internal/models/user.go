package models

import "time"

type Couple struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CoupleID    *uint     `gorm:"index" json:"couple_id,omitempty"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (user User) BelongsTo(coupleID uint) bool {
	return user.CoupleID != nil && coupleID != 0 && *user.CoupleID == coupleID
}
