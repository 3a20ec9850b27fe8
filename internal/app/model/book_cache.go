package model

import (
	"time"
)

// BookCache 外部カタログAPIから取得した書誌のライトスルーキャッシュ。
// ISBN をキーに最初の検索時に遅延登録され、期限切れ・無効化はしない。
type BookCache struct {
	ID            uint      `gorm:"primarykey" json:"-"`
	ISBN          string    `gorm:"uniqueIndex;not null;type:varchar(20)" json:"isbn"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Publisher     string    `json:"publisher"`
	PublishedDate string    `gorm:"type:varchar(20)" json:"published_date"`
	Thumbnail     string    `gorm:"type:varchar(500)" json:"thumbnail"`
	Description   string    `gorm:"type:text" json:"description"`
	TargetAudience string   `gorm:"type:varchar(50)" json:"target_audience"` // 利用対象(未就学、小学校低学年など)
	Genre         string    `gorm:"type:varchar(50)" json:"genre"`           // ジャンル(事典・辞書、国際理解など)
	Price         *float64  `json:"price"`                                   // 税別価格
	VolumeCount   int       `gorm:"default:1" json:"volume_count"`           // 全巻数
	IsSetOnly     bool      `gorm:"default:false" json:"is_set_only"`        // セットのみ販売
	CachedAt      time.Time `gorm:"autoCreateTime" json:"-"`
}

func (BookCache) TableName() string {
	return "book_cache"
}
