package service

import (
	"testing"
	"time"

	"github.com/ktakagi/sensho-backend/internal/app/model"
	"github.com/ktakagi/sensho-backend/internal/app/repository"
	"github.com/ktakagi/sensho-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupSelectionListServiceTest(t *testing.T) (SelectionListService, *model.User, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	listRepo := repository.NewSelectionListRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	listService := NewSelectionListService(listRepo, userRepo, testDB)

	user := &model.User{
		Username:     "librarian",
		Email:        "librarian@example.com",
		PasswordHash: "hash",
		FullName:     "図書 太郎",
		Organization: "市立小学校",
		Phone:        "03-1234-5678",
		IsActive:     true,
	}
	testDB.Create(user)

	return listService, user, testDB
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestSelectionListService_CreateList(t *testing.T) {
	listService, user, _ := setupSelectionListServiceTest(t)

	list, err := listService.CreateList(user.ID, "低学年向け", "1〜2年生の教室用")
	require.NoError(t, err)
	assert.Equal(t, "低学年向け", list.Name)
	assert.Equal(t, user.ID, list.UserID)

	_, err = listService.CreateList(user.ID, "", "")
	assert.ErrorIs(t, err, ErrListNameRequired)
}

func TestSelectionListService_GetList_OwnershipEnforced(t *testing.T) {
	listService, user, testDB := setupSelectionListServiceTest(t)

	other := &model.User{
		Username:     "other",
		Email:        "other@example.com",
		PasswordHash: "hash",
		IsActive:     true,
	}
	testDB.Create(other)

	list, err := listService.CreateList(user.ID, "自分のリスト", "")
	require.NoError(t, err)

	_, err = listService.GetList(other.ID, list.ID)
	assert.ErrorIs(t, err, ErrListNotFound)
}

func TestSelectionListService_AddItem(t *testing.T) {
	listService, user, _ := setupSelectionListServiceTest(t)

	list, err := listService.CreateList(user.ID, "理科", "")
	require.NoError(t, err)

	item, err := listService.AddItem(user.ID, list.ID, SelectionItemInput{
		ISBN:     "9784055012345",
		Title:    "星と宇宙の図鑑",
		Price:    floatPtr(2000),
		Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 1, item.VolumeCount)

	// Missing quantity defaults to 1.
	item, err = listService.AddItem(user.ID, list.ID, SelectionItemInput{
		ISBN:  "9784055012346",
		Title: "昆虫の図鑑",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)

	// ISBN and title are both required.
	_, err = listService.AddItem(user.ID, list.ID, SelectionItemInput{Title: "ISBNなし"})
	assert.ErrorIs(t, err, ErrItemTitleMissing)
}

func TestSelectionListService_AddItem_DuplicateRejected(t *testing.T) {
	listService, user, _ := setupSelectionListServiceTest(t)

	list, err := listService.CreateList(user.ID, "国語", "")
	require.NoError(t, err)

	_, err = listService.AddItem(user.ID, list.ID, SelectionItemInput{
		ISBN:  "9784055012345",
		Title: "ことわざ辞典",
	})
	require.NoError(t, err)

	_, err = listService.AddItem(user.ID, list.ID, SelectionItemInput{
		ISBN:  "9784055012345",
		Title: "ことわざ辞典",
	})
	assert.ErrorIs(t, err, ErrDuplicateItem)

	// The same book is fine on a different list.
	other, err := listService.CreateList(user.ID, "別のリスト", "")
	require.NoError(t, err)
	_, err = listService.AddItem(user.ID, other.ID, SelectionItemInput{
		ISBN:  "9784055012345",
		Title: "ことわざ辞典",
	})
	assert.NoError(t, err)
}

func TestSelectionListService_AddItem_ConcurrentDuplicate(t *testing.T) {
	listService, user, testDB := setupSelectionListServiceTest(t)

	list, err := listService.CreateList(user.ID, "国語", "")
	require.NoError(t, err)

	// Slip a conflicting row onto the same connection after the
	// duplicate pre-check has already passed, the way a concurrent
	// request would.
	injected := false
	err = testDB.Callback().Create().Before("gorm:create").Register("conflicting_insert", func(d *gorm.DB) {
		if injected || d.Statement.Table != "selection_items" {
			return
		}
		injected = true
		d.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO selection_items (list_id, isbn, title, quantity, volume_count) VALUES (?, ?, ?, 1, 1)",
			list.ID, "9784055012345", "先に入った行",
		)
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		testDB.Callback().Create().Remove("conflicting_insert")
	})

	_, err = listService.AddItem(user.ID, list.ID, SelectionItemInput{
		ISBN:  "9784055012345",
		Title: "あとから来た行",
	})
	assert.ErrorIs(t, err, ErrDuplicateItem)
}

func TestSelectionListService_UpdateItemQuantity(t *testing.T) {
	listService, user, _ := setupSelectionListServiceTest(t)

	list, err := listService.CreateList(user.ID, "算数", "")
	require.NoError(t, err)
	item, err := listService.AddItem(user.ID, list.ID, SelectionItemInput{
		ISBN:  "9784055012345",
		Title: "算数パズル",
	})
	require.NoError(t, err)

	updated, err := listService.UpdateItemQuantity(user.ID, list.ID, item.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)

	_, err = listService.UpdateItemQuantity(user.ID, list.ID, item.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = listService.UpdateItemQuantity(user.ID, list.ID, item.ID, -3)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = listService.UpdateItemQuantity(user.ID, list.ID, 9999, 2)
	assert.ErrorIs(t, err, ErrListItemNotFound)
}

func TestSelectionListService_ItemMutationBumpsUpdatedAt(t *testing.T) {
	listService, user, testDB := setupSelectionListServiceTest(t)

	list, err := listService.CreateList(user.ID, "社会", "")
	require.NoError(t, err)

	// Backdate updated_at so the bump is observable.
	stale := time.Now().Add(-time.Hour)
	testDB.Model(&model.SelectionList{}).Where("id = ?", list.ID).UpdateColumn("updated_at", stale)

	_, err = listService.AddItem(user.ID, list.ID, SelectionItemInput{
		ISBN:  "9784055012345",
		Title: "地図帳",
	})
	require.NoError(t, err)

	var reloaded model.SelectionList
	require.NoError(t, testDB.First(&reloaded, list.ID).Error)
	assert.True(t, reloaded.UpdatedAt.After(stale.Add(time.Minute)))
}

func TestSelectionListService_Aggregates(t *testing.T) {
	listService, user, _ := setupSelectionListServiceTest(t)

	list, err := listService.CreateList(user.ID, "予算確認", "")
	require.NoError(t, err)

	_, err = listService.AddItem(user.ID, list.ID, SelectionItemInput{
		ISBN:     "9784055012345",
		Title:    "2冊ほしい本",
		Price:    floatPtr(1000),
		Quantity: 2,
	})
	require.NoError(t, err)
	_, err = listService.AddItem(user.ID, list.ID, SelectionItemInput{
		ISBN:     "9784055012346",
		Title:    "1冊だけの本",
		Price:    floatPtr(500),
		Quantity: 1,
	})
	require.NoError(t, err)
	// Price undetermined: contributes zero to the total amount.
	_, err = listService.AddItem(user.ID, list.ID, SelectionItemInput{
		ISBN:     "9784055012347",
		Title:    "価格未定の本",
		Quantity: 3,
	})
	require.NoError(t, err)

	reloaded, err := listService.GetList(user.ID, list.ID)
	require.NoError(t, err)

	agg := reloaded.Aggregate()
	assert.Equal(t, 3, agg.ItemCount)
	assert.Equal(t, 6, agg.TotalQuantity)
	assert.Equal(t, 2500.0, agg.TotalAmount)
}

func TestSelectionListService_RemoveItem(t *testing.T) {
	listService, user, _ := setupSelectionListServiceTest(t)

	list, err := listService.CreateList(user.ID, "整理", "")
	require.NoError(t, err)
	item, err := listService.AddItem(user.ID, list.ID, SelectionItemInput{
		ISBN:  "9784055012345",
		Title: "消す本",
	})
	require.NoError(t, err)

	require.NoError(t, listService.RemoveItem(user.ID, list.ID, item.ID))

	err = listService.RemoveItem(user.ID, list.ID, item.ID)
	assert.ErrorIs(t, err, ErrListItemNotFound)
}

func TestSelectionListService_DeleteList_RemovesItems(t *testing.T) {
	listService, user, testDB := setupSelectionListServiceTest(t)

	list, err := listService.CreateList(user.ID, "削除予定", "")
	require.NoError(t, err)
	_, err = listService.AddItem(user.ID, list.ID, SelectionItemInput{
		ISBN:  "9784055012345",
		Title: "一緒に消える本",
	})
	require.NoError(t, err)

	require.NoError(t, listService.DeleteList(user.ID, list.ID))

	_, err = listService.GetList(user.ID, list.ID)
	assert.ErrorIs(t, err, ErrListNotFound)

	var count int64
	testDB.Model(&model.SelectionItem{}).Where("list_id = ?", list.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSelectionListService_BuildOrderSummary(t *testing.T) {
	listService, user, _ := setupSelectionListServiceTest(t)

	list, err := listService.CreateList(user.ID, "発注用", "年度末発注")
	require.NoError(t, err)
	_, err = listService.AddItem(user.ID, list.ID, SelectionItemInput{
		ISBN:     "9784055012345",
		Title:    "発注する本",
		Price:    floatPtr(1200),
		Quantity: 2,
	})
	require.NoError(t, err)

	summary, err := listService.BuildOrderSummary(user.ID, list.ID)
	require.NoError(t, err)

	assert.Equal(t, list.ID, summary.ListID)
	assert.Equal(t, "発注用", summary.ListName)
	assert.Equal(t, "図書 太郎", summary.Purchaser.Name)
	assert.Equal(t, "市立小学校", summary.Purchaser.Organization)
	assert.Equal(t, "librarian@example.com", summary.Purchaser.Email)
	assert.Equal(t, 1, summary.ItemCount)
	assert.Equal(t, 2, summary.TotalQuantity)
	assert.Equal(t, 2400.0, summary.TotalAmount)
	require.Len(t, summary.Items, 1)
}
