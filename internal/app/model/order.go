package model

import (
	"time"
)

type OrderStatus string // 注文状態コード

const (
	OrderStatusPending   OrderStatus = "pending"   // 受付済み
	OrderStatusConfirmed OrderStatus = "confirmed" // 確定
	OrderStatusShipped   OrderStatus = "shipped"   // 発送済み
	OrderStatusCancelled OrderStatus = "cancelled" // キャンセル
)

// Order 注文。作成後の更新エンドポイントは存在せず、total_items は
// 作成時点のスナップショットのまま再計算されない。
type Order struct {
	ID         uint        `gorm:"primarykey" json:"id"`
	CustomerID uint        `gorm:"not null;index" json:"customer_id"`
	OrderDate  time.Time   `gorm:"autoCreateTime" json:"order_date"`
	Status     OrderStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	TotalItems int         `gorm:"default:0" json:"total_items"` // 作成時の明細数スナップショット
	Notes      string      `gorm:"type:text" json:"notes"`

	Customer Customer    `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem 注文明細。書誌情報は注文時点の値をそのまま保持する。
type OrderItem struct {
	ID        uint     `gorm:"primarykey" json:"id"`
	OrderID   uint     `gorm:"not null;index" json:"order_id"`
	ISBN      string   `gorm:"type:varchar(20)" json:"isbn"`
	Title     string   `gorm:"not null" json:"title"`
	Author    string   `json:"author"`
	Publisher string   `json:"publisher"`
	Quantity  int      `gorm:"default:1" json:"quantity"`
	Price     *float64 `json:"price"` // 税別価格。不明な場合は null
	Thumbnail string   `gorm:"type:varchar(500)" json:"thumbnail"`

	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
