// Package model はドメインモデルを定義する。
package model

import (
	"fmt"
	"strings"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, conflict, not_found, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidationFailed     = "VALIDATION_FAILED"
	ErrCodeInvalidBirthDate     = "INVALID_BIRTH_DATE"
	ErrCodeDuplicateEmail       = "DUPLICATE_EMAIL"
	ErrCodeDuplicateSegmentName = "DUPLICATE_SEGMENT_NAME"
	ErrCodeUserNotFound         = "USER_NOT_FOUND"
	ErrCodeSegmentNotFound      = "SEGMENT_NOT_FOUND"
	ErrCodeInvalidUserIDs       = "INVALID_USER_IDS"
	ErrCodeInvalidPercent       = "INVALID_PERCENT"
	ErrCodeUnknownAttribute     = "UNKNOWN_ATTRIBUTE"
	ErrCodeInvalidRequest       = "INVALID_REQUEST"
)

// NewValidationError は入力値検証エラーを生成する。
// problemsには検出されたすべての問題を渡す。
func NewValidationError(problems []string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  strings.Join(problems, "、"),
		Category: "validation",
		Action:   "必須項目と入力形式を確認してください。",
	}
}

// NewInvalidBirthDateError は生年月日の形式エラーを生成する。
func NewInvalidBirthDateError(value string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidBirthDate,
		Message:  fmt.Sprintf("生年月日の形式が不正です: %s", value),
		Category: "validation",
		Action:   "生年月日はYYYY-MM-DD形式で指定してください。",
	}
}

// NewDuplicateEmailError はメールアドレス重複エラーを生成する。
func NewDuplicateEmailError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateEmail,
		Message:  fmt.Sprintf("このメールアドレスのユーザーは既に存在します: %s", email),
		Category: "conflict",
		Action:   "別のメールアドレスを指定してください。",
	}
}

// NewDuplicateSegmentNameError はセグメント名重複エラーを生成する。
func NewDuplicateSegmentNameError(name string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateSegmentName,
		Message:  fmt.Sprintf("この名前のセグメントは既に存在します: %s", name),
		Category: "conflict",
		Action:   "別のセグメント名を指定してください。",
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError(userID int64) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("指定されたユーザーが見つかりません: %d", userID),
		Category: "not_found",
		Action:   "ユーザーIDを確認してください。",
	}
}

// NewSegmentNotFoundError はセグメント未検出エラーを生成する。
func NewSegmentNotFoundError(segmentID int64) *APIError {
	return &APIError{
		Code:     ErrCodeSegmentNotFound,
		Message:  fmt.Sprintf("指定されたセグメントが見つかりません: %d", segmentID),
		Category: "not_found",
		Action:   "セグメントIDを確認してください。",
	}
}

// NewInvalidUserIDsError はユーザーIDリストの形式エラーを生成する。
func NewInvalidUserIDsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidUserIDs,
		Message:  "user_idsには1件以上のユーザーIDを指定してください。",
		Category: "validation",
		Action:   "user_idsを整数IDの配列として指定してください。",
	}
}

// NewInvalidPercentError は割合の範囲エラーを生成する。
func NewInvalidPercentError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPercent,
		Message:  "percentは0から100の数値で指定してください。",
		Category: "validation",
		Action:   "0以上100以下の数値を指定してください。",
	}
}

// NewUnknownAttributeError は未知の属性名エラーを生成する。
func NewUnknownAttributeError(name string) *APIError {
	return &APIError{
		Code:     ErrCodeUnknownAttribute,
		Message:  fmt.Sprintf("ユーザーに存在しない属性です: %s", name),
		Category: "validation",
		Action:   "email、last_name、first_name、middle_name、birth_date、genderのいずれかを指定してください。",
	}
}

// NewInvalidRequestError はリクエストボディの解析エラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}
