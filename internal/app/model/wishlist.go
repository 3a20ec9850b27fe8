package model

import (
	"time"
)

// WishlistItem 旧フロントエンド互換の一時リスト。顧客単位で保持し、
// 同じ顧客が同じ本を重複登録することはできない。
type WishlistItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"not null;uniqueIndex:idx_wishlist_items_customer_isbn" json:"customer_id"`
	ISBN       string    `gorm:"not null;type:varchar(20);uniqueIndex:idx_wishlist_items_customer_isbn" json:"isbn"`
	Title      string    `gorm:"not null" json:"title"`
	Author     string    `json:"author"`
	Publisher  string    `json:"publisher"`
	Thumbnail  string    `gorm:"type:varchar(500)" json:"thumbnail"`
	AddedAt    time.Time `gorm:"autoCreateTime" json:"added_at"`

	Customer Customer `gorm:"foreignKey:CustomerID" json:"-"`
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}
