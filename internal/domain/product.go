package domain

import "time"

// CoverImage holds the CMS-generated image variants for a product.
type CoverImage struct {
	Thumbnail string `json:"thumbnail,omitempty"`
	Small     string `json:"small,omitempty"`
	Medium    string `json:"medium,omitempty"`
	Large     string `json:"large,omitempty"`
	Original  string `json:"original"`
}

// Product mirrors a catalog entry from the CMS. Rows are a read-side cache
// refreshed by the catalog sync job; the CMS stays the source of truth.
type Product struct {
	ID         int64      `gorm:"primaryKey" json:"id"`
	Name       string     `gorm:"index" json:"name"`
	Category   string     `gorm:"index;size:64" json:"category"`
	Price      float64    `json:"price"`
	Active     bool       `json:"active"`
	CoverImage CoverImage `gorm:"serializer:json" json:"cover_image"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Product) TableName() string {
	return "product"
}
