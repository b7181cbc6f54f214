package domain

import "time"

const (
	SaleStatusCreated   = "created"
	SaleStatusForwarded = "forwarded"
	SaleStatusFailed    = "failed"
)

// Sale is the local record of a submitted order. The order is also forwarded
// to the CMS sales collection; Status tracks that forwarding.
type Sale struct {
	ID          int64     `json:"id,string" gorm:"primaryKey"`
	SessionID   string    `gorm:"index;size:64" json:"session_id"`
	Address     string    `gorm:"size:512" json:"address"`
	PaymentType string    `gorm:"size:32" json:"payment_type"`
	PaymentName string    `gorm:"size:64" json:"payment_name"`
	PaymentNote string    `gorm:"size:128" json:"payment_note"`
	Total       float64   `json:"total"`
	Status      string    `gorm:"index;size:16" json:"status"`
	Remark      string    `gorm:"size:512" json:"remark"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Sale) TableName() string {
	return "sale"
}

// SaleItem is one order line with the unit price snapshotted at submission
// time, so later catalog price changes never rewrite history.
type SaleItem struct {
	ID          int64     `json:"id,string" gorm:"primaryKey"`
	SaleID      int64     `gorm:"index" json:"sale_id,string"`
	ProductID   int64     `gorm:"index" json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	CreatedAt   time.Time `json:"created_at"`
}

func (SaleItem) TableName() string {
	return "sale_item"
}
