// Package validation はエンティティ作成前の入力値検証を提供する。
// すべて純粋関数で、検出した問題を人間可読な文字列のリストで返す。
package validation

import (
	"strings"
	"time"
)

// birthDateLayout は生年月日の受理形式。ゼロ埋めされたYYYY-MM-DDのみを許可する。
const birthDateLayout = "2006-01-02"

// UserInput はユーザー作成時の検証対象フィールド。
type UserInput struct {
	Email     string
	LastName  string
	FirstName string
}

// ValidateUser はユーザー入力を検証し、検出したすべての問題を返す。
// 空のスライスは妥当な入力を意味する。
func ValidateUser(in UserInput) []string {
	var problems []string

	switch {
	case strings.TrimSpace(in.Email) == "":
		problems = append(problems, "emailは必須です")
	case !strings.Contains(in.Email, "@"):
		problems = append(problems, "emailの形式が不正です")
	}

	if strings.TrimSpace(in.LastName) == "" {
		problems = append(problems, "last_nameは必須です")
	}
	if strings.TrimSpace(in.FirstName) == "" {
		problems = append(problems, "first_nameは必須です")
	}

	return problems
}

// ValidateSegmentName はセグメント名を検証し、検出した問題を返す。
func ValidateSegmentName(name string) []string {
	if strings.TrimSpace(name) == "" {
		return []string{"nameは必須です"}
	}
	return nil
}

// ParseBirthDate は生年月日文字列をYYYY-MM-DD形式として厳密に解析する。
// 桁数の不足した年月日や他の区切り文字はエラーになる。
func ParseBirthDate(value string) (time.Time, error) {
	return time.Parse(birthDateLayout, value)
}
