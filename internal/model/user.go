// Package model はドメインモデルを定義する。
package model

import "time"

// User は配信対象のユーザーを表す。
// 作成後に更新・削除されることはない。
type User struct {
	ID         int64
	Email      string
	LastName   string
	FirstName  string
	MiddleName *string
	BirthDate  *time.Time
	Gender     *string
	CreatedAt  time.Time
}
