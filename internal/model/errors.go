package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// Categoryはハンドラー層でHTTPステータスへの変換に使う。
type APIError struct {
	Code     string // エラーコード
	Message  string // クライアントに返すメッセージ
	Category string // カテゴリ: validation, ownership, not_found, store
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// エラーカテゴリ
const (
	CategoryValidation = "validation"
	CategoryOwnership  = "ownership"
	CategoryNotFound   = "not_found"
	CategoryStore      = "store"
)

// 定義済みエラーコード
const (
	ErrCodeInvalidRequest        = "INVALID_REQUEST"
	ErrCodeMissingFields         = "MISSING_FIELDS"
	ErrCodeInvalidID             = "INVALID_ID"
	ErrCodeInvalidField          = "INVALID_FIELD"
	ErrCodeInvalidGroupSelection = "INVALID_GROUP_SELECTION"
	ErrCodePersonNotFound        = "PERSON_NOT_FOUND"
	ErrCodeInternal              = "INTERNAL_ERROR"
)

// NewInvalidRequestError はリクエストボディが解析できない場合のエラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "Invalid request body",
		Category: CategoryValidation,
	}
}

// NewMissingFieldsError は必須項目が欠けている場合のエラーを生成する。
func NewMissingFieldsError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeMissingFields,
		Message:  message,
		Category: CategoryValidation,
	}
}

// NewInvalidIDError は数値として解釈できないIDが渡された場合のエラーを生成する。
func NewInvalidIDError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidID,
		Message:  fmt.Sprintf("%s must be a positive integer", field),
		Category: CategoryValidation,
	}
}

// NewInvalidFieldError は項目の値が許容範囲外（長すぎる等）の場合のエラーを生成する。
func NewInvalidFieldError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidField,
		Message:  message,
		Category: CategoryValidation,
	}
}

// NewInvalidGroupSelectionError は指定されたグループが解決済みの人物に属さない場合のエラーを生成する。
// クライアント側でキャッシュしたグループ一覧が古い場合にも発生しうる。
func NewInvalidGroupSelectionError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidGroupSelection,
		Message:  "Invalid group selection",
		Category: CategoryOwnership,
	}
}

// NewPersonNotFoundError は指定IDの人物が存在しない場合のエラーを生成する。
func NewPersonNotFoundError(personID int64) *APIError {
	return &APIError{
		Code:     ErrCodePersonNotFound,
		Message:  fmt.Sprintf("person not found: %d", personID),
		Category: CategoryNotFound,
	}
}
