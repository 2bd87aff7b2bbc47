package models

import "time"

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`
	Slug string `gorm:"uniqueIndex" json:"slug"`
}

type Product struct {
	ID              uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID      *uint          `json:"category_id,omitempty"`
	Category        *Category      `json:"category,omitempty"`
	SKU             string         `gorm:"uniqueIndex;not null" json:"sku"`
	Name            string         `gorm:"not null" json:"name"`
	Description     string         `json:"description"`
	Price           float64        `gorm:"not null" json:"price"`
	DiscountPercent int            `json:"discount_percent"`
	Stock           int            `json:"stock"` // mutated only when a payment is confirmed
	IsActive        bool           `gorm:"default:true" json:"is_active"`
	IsFeatured      bool           `json:"is_featured"`
	Images          []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt       time.Time      `json:"created_at"`
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint   `gorm:"index;not null" json:"product_id"`
	URL       string `gorm:"not null" json:"url"`
	IsMain    bool   `json:"is_main"`
}

// FinalPrice applies the discount percentage, if any.
func (p *Product) FinalPrice() float64 {
	if p.DiscountPercent > 0 {
		return p.Price * (1 - float64(p.DiscountPercent)/100)
	}
	return p.Price
}

// MainImageURL picks the image flagged is_main, falling back to the first
// one loaded, or "" when the product has no images.
func (p *Product) MainImageURL() string {
	for _, img := range p.Images {
		if img.IsMain {
			return img.URL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return ""
}
