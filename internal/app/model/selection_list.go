package model

import (
	"time"
)

// SelectionList 選書リスト。1ユーザーが複数所有し、削除時はアイテムも
// まとめて削除される。updated_at はアイテムの追加・更新・削除でも進む。
type SelectionList struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	User  User            `gorm:"foreignKey:UserID" json:"-"`
	Items []SelectionItem `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (SelectionList) TableName() string {
	return "selection_lists"
}

// SelectionItem 選書リストの1行。同じリストに同じISBNは1件まで。
type SelectionItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	ListID      uint      `gorm:"not null;uniqueIndex:idx_selection_items_list_isbn" json:"list_id"`
	ISBN        string    `gorm:"not null;type:varchar(20);uniqueIndex:idx_selection_items_list_isbn" json:"isbn"`
	Title       string    `gorm:"not null" json:"title"`
	Author      string    `json:"author"`
	Publisher   string    `json:"publisher"`
	Price       *float64  `json:"price"`                            // 税別価格。未定の場合は null
	VolumeCount int       `gorm:"default:1" json:"volume_count"`    // 全巻数(セット商品用)
	IsSetOnly   bool      `gorm:"default:false" json:"is_set_only"` // セットのみ販売
	Thumbnail   string    `gorm:"type:varchar(500)" json:"thumbnail"`
	Quantity    int       `gorm:"default:1" json:"quantity"`
	AddedAt     time.Time `gorm:"autoCreateTime" json:"added_at"`

	List SelectionList `gorm:"foreignKey:ListID" json:"-"`
}

func (SelectionItem) TableName() string {
	return "selection_items"
}

// Subtotal 明細小計。価格未定は 0 として扱う。
func (i SelectionItem) Subtotal() float64 {
	if i.Price == nil {
		return 0
	}
	return *i.Price * float64(i.Quantity)
}

// ListAggregate リスト全体の集計値。リストを返すすべての箇所で
// 同じ計算を使う。
type ListAggregate struct {
	ItemCount     int     `json:"items_count"`
	TotalQuantity int     `json:"total_quantity"`
	TotalAmount   float64 `json:"total_amount"`
}

// Aggregate 件数・総数量・合計金額を items からその場で計算する。
func (l SelectionList) Aggregate() ListAggregate {
	agg := ListAggregate{ItemCount: len(l.Items)}
	for _, item := range l.Items {
		agg.TotalQuantity += item.Quantity
		agg.TotalAmount += item.Subtotal()
	}
	return agg
}
