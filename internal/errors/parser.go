package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo パース済みのエラー情報
type ErrorInfo struct {
	Code    string // エラーコード(codes.go 参照)
	Message string // 利用者向けメッセージ
}

// ParseError DB・外部APIのエラーを利用者向けのコードとメッセージに変換する。
// 内部事情は漏らさず、利用者が対処できる情報だけを返す。
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "サーバーエラーが発生しました",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM 基本エラー
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. 一意制約違反 (PostgreSQL 23505 / SQLite UNIQUE)
	if IsUniqueViolation(err) {
		return parseDuplicateKeyError(errStr)
	}

	// 3. 外部キー制約違反 (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "参照先のデータが見つかりません",
		}
	}

	// 4. NOT NULL 制約違反 (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return parseNotNullError(errStr)
	}

	// 5. ネットワーク系
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "外部サービスへの接続に失敗しました。しばらくしてから再度お試しください",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

// IsUniqueViolation 一意制約違反かどうかを判定する。Postgres と SQLite の
// 両方のメッセージ形式に対応する。
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errLower := strings.ToLower(err.Error())
	return strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint")
}

// parseDuplicateKeyError 一意制約違反の内訳を判定する
func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	// 選書リスト内の ISBN 重複
	if strings.Contains(errLower, "idx_selection_items_list_isbn") || strings.Contains(errLower, "selection_items") {
		return ErrorInfo{
			Code:    ListItemExists,
			Message: "この本はすでにリストに追加されています",
		}
	}

	// ウィッシュリスト内の ISBN 重複
	if strings.Contains(errLower, "idx_wishlist_items_customer_isbn") || strings.Contains(errLower, "wishlist_items") {
		return ErrorInfo{
			Code:    WishlistItemExists,
			Message: "この本はすでにリストに追加されています",
		}
	}

	// 書誌キャッシュの ISBN 重複(同時書き込みで起こり得る)
	if strings.Contains(errLower, "book_cache") || strings.Contains(errLower, "idx_book_cache_isbn") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "この書籍はすでに登録されています",
		}
	}

	// メールアドレス重複
	if strings.Contains(errLower, "email") {
		return ErrorInfo{
			Code:    AuthEmailExists,
			Message: "このメールアドレスはすでに使用されています",
		}
	}

	// ユーザー名重複
	if strings.Contains(errLower, "username") {
		return ErrorInfo{
			Code:    AuthUsernameExists,
			Message: "このユーザー名はすでに使用されています",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "すでに存在するデータです",
	}
}

// parseNotNullError NOT NULL 制約違反の内訳を判定する
func parseNotNullError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "title") {
		return ErrorInfo{Code: ValidationRequired, Message: "書名は必須項目です"}
	}
	if strings.Contains(errLower, "isbn") {
		return ErrorInfo{Code: ValidationRequired, Message: "ISBNは必須項目です"}
	}
	if strings.Contains(errLower, "name") {
		return ErrorInfo{Code: ValidationRequired, Message: "名前は必須項目です"}
	}
	if strings.Contains(errLower, "email") {
		return ErrorInfo{Code: ValidationRequired, Message: "メールアドレスは必須項目です"}
	}

	return ErrorInfo{
		Code:    ValidationRequired,
		Message: "必須項目が入力されていません",
	}
}

// getNotFoundMessage context に応じた Not Found メッセージ
func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "book") {
		return "書籍が見つかりません"
	}
	if strings.Contains(contextLower, "list") {
		return "選書リストが見つかりません"
	}
	if strings.Contains(contextLower, "order") {
		return "注文が見つかりません"
	}
	if strings.Contains(contextLower, "customer") {
		return "顧客が見つかりません"
	}
	if strings.Contains(contextLower, "user") {
		return "ユーザーが見つかりません"
	}

	return "要求されたデータが見つかりません"
}

// getDefaultErrorMessage context に応じた既定エラーメッセージ
func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") {
		return "登録中にエラーが発生しました。しばらくしてから再度お試しください"
	}
	if strings.Contains(contextLower, "update") {
		return "更新中にエラーが発生しました。しばらくしてから再度お試しください"
	}
	if strings.Contains(contextLower, "delete") {
		return "削除中にエラーが発生しました。しばらくしてから再度お試しください"
	}
	if strings.Contains(contextLower, "export") {
		return "出力の生成中にエラーが発生しました。しばらくしてから再度お試しください"
	}

	return "サーバーエラーが発生しました。しばらくしてから再度お試しください"
}

// ParseAndRespond ParseError の結果をそのままレスポンスとして返す
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
