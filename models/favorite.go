package models

import "time"

// Favorite is a (user, product) toggle pair; the unique index is what makes
// the toggle endpoint idempotent per direction.
type Favorite struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorites_user_product" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_favorites_user_product" json:"product_id"`
	Product   Product   `json:"product"`
	CreatedAt time.Time `json:"created_at"`
}
