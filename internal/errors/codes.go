package errors

// エラーコード定数
// 形式: CATEGORY_SPECIFIC_DETAIL
// フロントエンドはこのコードをもとにメッセージを出し分ける

const (
	// ==================== 認証 (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // ログイン必須
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // ユーザー名/パスワード不一致
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // トークン期限切れ
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // 不正なトークン
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // 失効済みトークン
	AuthUsernameExists     = "AUTH_USERNAME_EXISTS"     // ユーザー名重複
	AuthEmailExists        = "AUTH_EMAIL_EXISTS"        // メールアドレス重複
	AuthAccountDisabled    = "AUTH_ACCOUNT_DISABLED"    // 無効化されたアカウント
	AuthAdminOnly          = "AUTH_ADMIN_ONLY"          // 管理者トークン必須

	// ==================== 検証 (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // 不正な入力
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // 不正なID
	ValidationRequired     = "VALIDATION_REQUIRED"      // 必須項目
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE" // 範囲外の値

	// ==================== リソース (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // リソースなし
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // すでに存在
	ResourceConflict      = "RESOURCE_CONFLICT"       // 競合

	// ==================== 書籍 (BOOK_) ====================
	BookNotFound = "BOOK_NOT_FOUND" // 該当する書籍なし

	// ==================== 選書リスト (LIST_) ====================
	ListNotFound         = "LIST_NOT_FOUND"          // リストなし
	ListItemNotFound     = "LIST_ITEM_NOT_FOUND"     // アイテムなし
	ListItemExists       = "LIST_ITEM_EXISTS"        // 同じ本がすでに追加済み
	ListInvalidQuantity  = "LIST_INVALID_QUANTITY"   // 数量は1以上
	ListNameRequired     = "LIST_NAME_REQUIRED"      // リスト名必須

	// ==================== 注文 (ORDER_) ====================
	OrderNotFound   = "ORDER_NOT_FOUND"   // 注文なし
	OrderEmptyItems = "ORDER_EMPTY_ITEMS" // 明細がない注文

	// ==================== 顧客 (CUSTOMER_) ====================
	CustomerNotFound = "CUSTOMER_NOT_FOUND" // 顧客なし

	// ==================== ウィッシュリスト (WISHLIST_) ====================
	WishlistItemExists   = "WISHLIST_ITEM_EXISTS"    // すでに追加済み
	WishlistItemNotFound = "WISHLIST_ITEM_NOT_FOUND" // アイテムなし

	// ==================== 出力 (EXPORT_) ====================
	ExportInvalidFormat = "EXPORT_INVALID_FORMAT" // 未対応の出力形式
	ExportFailed        = "EXPORT_FAILED"         // 出力生成失敗

	// ==================== 内部エラー (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // サーバーエラー
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DBエラー
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // 外部APIエラー
)
