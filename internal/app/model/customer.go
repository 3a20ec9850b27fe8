package model

import (
	"time"
)

// Customer 注文時に記録される顧客情報。ログイン不要のゲスト注文で
// (name, email) の組で find-or-create される。
type Customer struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Organization string    `json:"organization"`
	CreatedAt    time.Time `json:"created_at"`

	Orders        []Order        `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"orders,omitempty"`
	WishlistItems []WishlistItem `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"wishlist_items,omitempty"`
}

func (Customer) TableName() string {
	return "customers"
}
