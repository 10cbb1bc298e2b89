// Package security はアプリケーションのセキュリティ機能を提供する。
//
// DescriptionSanitizer はクライアントから受け取った自由記述テキストを
// 保存前にサニタイズする。セグメントの説明はインデックスページに
// 表示されるため、HTMLタグを一切許可しない方針を採る。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// DescriptionSanitizerService は自由記述テキストのサニタイズ機能のインターフェースを定義する。
type DescriptionSanitizerService interface {
	// Sanitize は入力からすべてのHTMLタグを除去し、前後の空白を落として返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// descriptionSanitizer はDescriptionSanitizerServiceの実装。
// bluemondayのStrictPolicyを保持し、スレッドセーフにサニタイズ処理を行う。
type descriptionSanitizer struct {
	policy *bluemonday.Policy
}

// NewDescriptionSanitizer はDescriptionSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyはすべてのタグと属性を除去し、テキストのみを残す。
func NewDescriptionSanitizer() *descriptionSanitizer {
	return &descriptionSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力からすべてのHTMLタグを除去して返す。
func (s *descriptionSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}
